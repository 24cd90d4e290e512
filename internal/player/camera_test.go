package player

import (
	"math"
	"testing"

	"voxel-engine/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestMouseLook(t *testing.T) {
	c := NewCamera(mgl64.Vec3{})

	c.HandleMouseMovement(100, 100)
	require.Equal(t, -math.Pi/2, c.Yaw)

	c.HandleMouseMovement(150, 100)
	require.InDelta(t, -math.Pi/2+50*MouseSensitivity, c.Yaw, 1e-12)

	c.HandleMouseMovement(150, -10000)
	require.Equal(t, PitchLimit, c.Pitch)

	c.HandleMouseMovement(150, 10000)
	require.Equal(t, -PitchLimit, c.Pitch)
}

func TestMoveForwardAndSprint(t *testing.T) {
	c := NewCamera(mgl64.Vec3{0, 80, 0})

	c.Move(1, MoveInput{Forward: 1})
	require.InDelta(t, -BaseSpeed, c.Position.Z(), 1e-9)
	require.InDelta(t, 80, c.Position.Y(), 1e-9)

	c.Move(0.5, MoveInput{Up: 1, Sprint: true})
	require.InDelta(t, 80+BaseSpeed*SprintMultiplier*0.5, c.Position.Y(), 1e-9)
}

func TestMoveDiagonalIsNormalized(t *testing.T) {
	c := NewCamera(mgl64.Vec3{})
	c.Move(1, MoveInput{Forward: 1, Right: 1})
	require.InDelta(t, BaseSpeed, c.Position.Len(), 1e-9)

	before := c.Position
	c.Move(1, MoveInput{})
	require.Equal(t, before, c.Position)
}

func TestUpdateFromInput(t *testing.T) {
	im := input.NewInputManager()
	im.HandleKeyEvent(glfw.KeyD, glfw.Press)

	c := NewCamera(mgl64.Vec3{})
	c.Update(0.1, im)
	// Right of -Z is +X.
	require.InDelta(t, BaseSpeed*0.1, c.Position.X(), 1e-9)
}
