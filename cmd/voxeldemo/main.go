// Command voxeldemo is a thin GLFW/OpenGL embedding of voxelcore: it
// proves the outbound renderer contract (World.VisibleRegionMeshes) end
// to end against a live GL context, the way the reference project's
// cmd/mini-mc wraps its internal/ engine packages in a window and game
// loop. It contains no engine logic of its own -- streaming, meshing,
// occlusion and region batching all live in voxelcore.
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

const (
	idStone voxelcore.VoxelID = 1
	idDirt  voxelcore.VoxelID = 2
	idGrass voxelcore.VoxelID = 3
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "voxeldemo:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := setupWindow()
	if err != nil {
		return err
	}

	prog, err := newShader()
	if err != nil {
		return err
	}

	atlas, _ := buildSwatchAtlas([]color.RGBA{
		{128, 128, 128, 255}, // stone
		{102, 76, 51, 255},   // dirt
		{51, 179, 51, 255},   // grass
	})

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	table := voxelcore.NewVoxelTypeTable(map[voxelcore.VoxelID]voxelcore.VoxelProperties{
		idStone: {Name: "stone", Color: mgl32.Vec4{1, 1, 1, 1}, Opaque: true},
		idDirt:  {Name: "dirt", Color: mgl32.Vec4{1, 1, 1, 1}, Opaque: true},
		idGrass: {Name: "grass", Color: mgl32.Vec4{1, 1, 1, 1}, Opaque: true},
	})
	src := voxelcore.NewNoiseTerrainSource(idStone, idDirt, idGrass)

	cfg := voxelcore.DefaultConfig(1)
	cfg.RenderDistanceHorizontal = 6
	cfg.RenderDistanceVertical = 3

	world, err := voxelcore.NewWorld(table, src, cfg, log)
	if err != nil {
		return fmt.Errorf("creating world: %w", err)
	}
	defer world.Close()

	cam := newFlyCamera(mgl32.Vec3{0, 96, 0})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		cam.handleMouse(xpos, ypos)
	})

	renderer := newRegionRenderer()
	defer renderer.close()

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.53, 0.78, 0.92, 1.0)

	lastTime := time.Now()
	lastFPSLog := time.Now()
	frames := 0

	for !window.ShouldClose() {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		cam.handleKeys(window, dt)
		world.SetObserverPosition(cam.Position)
		world.Tick()

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		prog.use()
		proj := mgl32.Perspective(mgl32.DegToRad(70), float32(windowWidth)/float32(windowHeight), 0.1, 2000)
		view := cam.viewMatrix()
		prog.setMat4("uProjection", &proj[0])
		prog.setMat4("uView", &view[0])
		prog.setVec3("uLightDir", -0.4, -1, -0.3)
		prog.setInt("uAtlas", 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, atlas)

		renderer.draw(prog, world.VisibleRegionMeshes())

		frames++
		if time.Since(lastFPSLog) >= time.Second {
			stats := world.Stats()
			fmt.Printf("fps=%d active=%d regions=%d pending=%d hidden=%d\n",
				frames, stats.ActiveChunks, stats.Regions, stats.PendingJobs, stats.OcclusionHidden)
			frames = 0
			lastFPSLog = time.Now()
		}

		window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

func setupWindow() (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, "voxeldemo", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, err
	}

	glfw.SwapInterval(1)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	return window, nil
}
