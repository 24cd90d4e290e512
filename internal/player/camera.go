package player

import (
	"math"

	"voxel-engine/internal/input"
	"voxel-engine/internal/render"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// BaseSpeed is the flying speed in units per second.
	BaseSpeed = 10.0
	// SprintMultiplier scales BaseSpeed while sprinting.
	SprintMultiplier = 3.0
	// MouseSensitivity is radians of yaw or pitch per pixel of cursor motion.
	MouseSensitivity = 0.002
	// PitchLimit keeps the view just under straight up or down (89°).
	PitchLimit = 1.55334
)

// MoveInput is one frame of movement intent, each axis in [-1, 1].
type MoveInput struct {
	Forward float64
	Right   float64
	Up      float64
	Sprint  bool
}

// Camera is a free-flying camera controlled by mouse look and WASD.
type Camera struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64

	FirstMouse bool
	LastMouseX float64
	LastMouseY float64
}

// NewCamera creates a camera at pos looking down -Z.
func NewCamera(pos mgl64.Vec3) *Camera {
	return &Camera{
		Position:   pos,
		Yaw:        render.InitialYaw,
		FirstMouse: true,
	}
}

// HandleMouseMovement turns cursor motion into yaw and pitch.
func (c *Camera) HandleMouseMovement(xpos, ypos float64) {
	if c.FirstMouse {
		c.LastMouseX = xpos
		c.LastMouseY = ypos
		c.FirstMouse = false
		return
	}

	xoffset := xpos - c.LastMouseX
	yoffset := c.LastMouseY - ypos
	c.LastMouseX = xpos
	c.LastMouseY = ypos

	c.Yaw = math.Mod(c.Yaw+xoffset*MouseSensitivity, 2*math.Pi)
	c.Pitch = mgl64.Clamp(c.Pitch+yoffset*MouseSensitivity, -PitchLimit, PitchLimit)
}

// Move advances the camera by dt seconds of the given intent.
func (c *Camera) Move(dt float64, in MoveInput) {
	forward, right, _ := c.View().Basis()

	dir := forward.Mul(in.Forward).
		Add(right.Mul(in.Right)).
		Add(mgl64.Vec3{0, in.Up, 0})
	if dir.Len() < 1e-9 {
		return
	}

	speed := BaseSpeed
	if in.Sprint {
		speed *= SprintMultiplier
	}
	c.Position = c.Position.Add(dir.Normalize().Mul(speed * dt))
}

// Update reads the bound movement actions and moves the camera.
func (c *Camera) Update(dt float64, im *input.InputManager) {
	c.Move(dt, MoveInput{
		Forward: axis(im, input.ActionMoveForward, input.ActionMoveBackward),
		Right:   axis(im, input.ActionMoveRight, input.ActionMoveLeft),
		Up:      axis(im, input.ActionMoveUp, input.ActionMoveDown),
		Sprint:  im.IsActive(input.ActionSprint),
	})
}

// View returns the ray-generation camera for the current pose.
func (c *Camera) View() render.Camera {
	v := render.NewCamera(c.Position)
	v.Yaw = c.Yaw
	v.Pitch = c.Pitch
	return v
}

func axis(im *input.InputManager, positive, negative input.Action) float64 {
	v := 0.0
	if im.IsActive(positive) {
		v++
	}
	if im.IsActive(negative) {
		v--
	}
	return v
}
