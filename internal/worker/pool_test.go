package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"voxelcore/internal/voxelerrs"
)

func TestHigherPriorityRunsFirst(t *testing.T) {
	p := New(1, 8, nil)
	defer p.Shutdown()

	var order []int
	done := make(chan struct{}, 3)
	mk := func(id int, prio float32) *Job {
		return &Job{
			Kind:     BuildChunkMesh,
			Priority: prio,
			Key:      id,
			Run: func(ctx context.Context) (any, error) {
				order = append(order, id)
				done <- struct{}{}
				return id, nil
			},
		}
	}
	// Block the single worker first so all three queue up before any runs.
	block := make(chan struct{})
	p.Submit(&Job{Kind: GenerateTerrain, Priority: 1000, Key: "block", Run: func(ctx context.Context) (any, error) {
		<-block
		return nil, nil
	}})
	time.Sleep(10 * time.Millisecond)

	p.Submit(mk(1, 1))
	p.Submit(mk(2, 5))
	p.Submit(mk(3, 3))
	close(block)

	for i := 0; i < 3; i++ {
		<-done
	}
	<-p.Completed() // the blocker's own result
	for i := 0; i < 3; i++ {
		<-p.Completed()
	}

	if len(order) != 3 || order[0] != 2 || order[1] != 3 || order[2] != 1 {
		t.Fatalf("run order = %v, want [2 3 1] (descending priority)", order)
	}
}

func TestSubmitAfterShutdownFails(t *testing.T) {
	p := New(1, 1, nil)
	p.Shutdown()
	err := p.Submit(&Job{Kind: GenerateTerrain, Key: "x", Run: func(ctx context.Context) (any, error) { return nil, nil }})
	if !errors.Is(err, voxelerrs.ErrPoolShutdown) {
		t.Fatalf("expected ErrPoolShutdown, got %v", err)
	}
}

func TestCoalesceCancelsPendingDuplicate(t *testing.T) {
	p := New(1, 8, nil)
	defer p.Shutdown()

	block := make(chan struct{})
	p.Submit(&Job{Kind: BuildChunkMesh, Priority: 1000, Key: "blocker", Run: func(ctx context.Context) (any, error) {
		<-block
		return nil, nil
	}})
	time.Sleep(10 * time.Millisecond)

	ran := make(chan int, 2)
	first := &Job{Kind: BuildChunkMesh, Priority: 1, Key: "c", Run: func(ctx context.Context) (any, error) {
		ran <- 1
		return nil, nil
	}}
	p.Submit(first)
	second := &Job{Kind: BuildChunkMesh, Priority: 1, Key: "c", Run: func(ctx context.Context) (any, error) {
		ran <- 2
		return nil, nil
	}}
	p.Coalesce(second)
	close(block)

	<-p.Completed() // blocker
	select {
	case v := <-ran:
		if v != 2 {
			t.Fatalf("expected the coalesced (second) job to run, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for coalesced job")
	}
	<-p.Completed()

	select {
	case v := <-ran:
		t.Fatalf("the superseded job also ran (%d); it should have been cancelled", v)
	case <-time.After(50 * time.Millisecond):
	}
}
