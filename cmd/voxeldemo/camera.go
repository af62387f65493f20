package main

// flyCamera is a minimal free-fly camera grounded on the reference
// project's internal/player/camera.go (CamYaw/CamPitch in degrees,
// GetFrontVector via mgl32.DegToRad, GetViewMatrix via mgl32.LookAtV)
// and internal/player/movement.go's per-frame WASD integration, stripped
// of gravity/collision since this demo has no physics of its own.

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	mouseSensitivity = 0.12
	flySpeed         = 24.0 // world units per second
)

type flyCamera struct {
	Position         mgl32.Vec3
	Yaw, Pitch        float64
	firstMouse        bool
	lastX, lastY      float64
}

func newFlyCamera(start mgl32.Vec3) *flyCamera {
	return &flyCamera{Position: start, Yaw: -90, Pitch: -20, firstMouse: true}
}

func (c *flyCamera) front() mgl32.Vec3 {
	yaw := mgl32.DegToRad(float32(c.Yaw))
	pitch := mgl32.DegToRad(float32(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(float64(pitch)) * math.Cos(float64(yaw))),
		float32(math.Sin(float64(pitch))),
		float32(math.Cos(float64(pitch)) * math.Sin(float64(yaw))),
	}.Normalize()
}

func (c *flyCamera) viewMatrix() mgl32.Mat4 {
	front := c.front()
	return mgl32.LookAtV(c.Position, c.Position.Add(front), mgl32.Vec3{0, 1, 0})
}

func (c *flyCamera) handleMouse(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX, c.lastY = xpos, ypos
		c.firstMouse = false
		return
	}
	xoffset := (xpos - c.lastX) * mouseSensitivity
	yoffset := (c.lastY - ypos) * mouseSensitivity
	c.lastX, c.lastY = xpos, ypos

	c.Yaw += xoffset
	c.Pitch += yoffset
	if c.Pitch > 89 {
		c.Pitch = 89
	}
	if c.Pitch < -89 {
		c.Pitch = -89
	}
}

func (c *flyCamera) handleKeys(window *glfw.Window, dt float64) {
	front := c.front()
	right := front.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	step := float32(flySpeed * dt)

	if window.GetKey(glfw.KeyW) == glfw.Press {
		c.Position = c.Position.Add(front.Mul(step))
	}
	if window.GetKey(glfw.KeyS) == glfw.Press {
		c.Position = c.Position.Sub(front.Mul(step))
	}
	if window.GetKey(glfw.KeyD) == glfw.Press {
		c.Position = c.Position.Add(right.Mul(step))
	}
	if window.GetKey(glfw.KeyA) == glfw.Press {
		c.Position = c.Position.Sub(right.Mul(step))
	}
	if window.GetKey(glfw.KeySpace) == glfw.Press {
		c.Position = c.Position.Add(mgl32.Vec3{0, step, 0})
	}
	if window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		c.Position = c.Position.Sub(mgl32.Vec3{0, step, 0})
	}
}
