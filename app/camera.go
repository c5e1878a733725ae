package app

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds the perspective projection the renderer will upload. It is
// rebuilt whenever the window's aspect ratio changes.
type Camera struct {
	FieldOfView float32 // degrees
	Near        float32
	Far         float32

	aspect     float32
	projection mgl32.Mat4
}

func NewCamera(aspect float32) *Camera {
	camera := &Camera{
		FieldOfView: 45,
		Near:        0.1,
		Far:         100,
	}
	camera.SetAspectRatio(aspect)
	return camera
}

func (c *Camera) SetAspectRatio(aspect float32) {
	c.aspect = aspect
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FieldOfView), aspect, c.Near, c.Far)
	// Vulkan clip space has Y pointing down.
	c.projection[5] *= -1
}

func (c *Camera) AspectRatio() float32 {
	return c.aspect
}

func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}
