package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/require"
)

func TestEdgeDetection(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	require.True(t, im.IsActive(ActionMoveForward))
	require.True(t, im.JustPressed(ActionMoveForward))

	im.PostUpdate()
	require.True(t, im.IsActive(ActionMoveForward))
	require.False(t, im.JustPressed(ActionMoveForward))

	im.HandleKeyEvent(glfw.KeyW, glfw.Repeat)
	require.False(t, im.JustPressed(ActionMoveForward))

	im.HandleKeyEvent(glfw.KeyW, glfw.Release)
	require.False(t, im.IsActive(ActionMoveForward))
	require.True(t, im.JustReleased(ActionMoveForward))
}

func TestSharedAction(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyRightControl, glfw.Press)
	require.True(t, im.IsActive(ActionSprint))

	im.HandleMouseButtonEvent(glfw.MouseButtonLeft, glfw.Press)
	require.True(t, im.JustPressed(ActionProbe))
}

func TestRebinding(t *testing.T) {
	im := NewInputManager()
	im.UnbindKey(glfw.KeyW)
	im.BindKey(glfw.KeyUp, ActionMoveForward)

	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	require.False(t, im.IsActive(ActionMoveForward))

	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	require.True(t, im.IsActive(ActionMoveForward))

	im.BindKey(glfw.KeyX, ActionCount)
	im.HandleKeyEvent(glfw.KeyX, glfw.Press)
	require.False(t, im.IsActive(ActionCount))
}

func TestActionString(t *testing.T) {
	require.Equal(t, "move_up", ActionMoveUp.String())
	require.Equal(t, "unknown", ActionCount.String())
	for a := Action(0); a < ActionCount; a++ {
		require.NotEmpty(t, a.String())
	}
}
