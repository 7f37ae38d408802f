package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestKeyEdges(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	if !im.IsActive(ActionMoveForward) || !im.JustPressed(ActionMoveForward) {
		t.Fatal("press: want active and just pressed")
	}
	im.PostUpdate()
	if im.JustPressed(ActionMoveForward) || !im.IsActive(ActionMoveForward) {
		t.Fatal("next frame: want active without the press edge")
	}

	// Key repeat does not produce a second edge.
	im.HandleKeyEvent(glfw.KeyW, glfw.Repeat)
	if im.JustPressed(ActionMoveForward) {
		t.Fatal("repeat: got a press edge")
	}

	im.HandleKeyEvent(glfw.KeyW, glfw.Release)
	if im.IsActive(ActionMoveForward) || !im.JustReleased(ActionMoveForward) {
		t.Fatal("release: want inactive and just released")
	}
}

func TestSeveralKeysForOneAction(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyKPAdd, glfw.Press)
	if !im.JustPressed(ActionViewFarther) {
		t.Fatal("keypad plus: ActionViewFarther not pressed")
	}
	im.PostUpdate()
	im.HandleKeyEvent(glfw.KeyEqual, glfw.Press)
	if im.JustPressed(ActionViewFarther) {
		t.Fatal("second key for a held action produced a new edge")
	}
}

func TestMouseButtons(t *testing.T) {
	im := NewInputManager()
	im.HandleMouseButtonEvent(glfw.MouseButtonRight, glfw.Press)
	if !im.JustPressed(ActionPlaceBlock) || im.IsActive(ActionBreakBlock) {
		t.Fatal("right button: want only ActionPlaceBlock")
	}
}

func TestRebinding(t *testing.T) {
	im := NewInputManager()
	im.UnbindKey(glfw.KeyR)
	im.BindKey(glfw.KeyT, ActionCycleWeather)

	im.HandleKeyEvent(glfw.KeyR, glfw.Press)
	if im.IsActive(ActionCycleWeather) {
		t.Fatal("unbound key still triggers its action")
	}
	im.HandleKeyEvent(glfw.KeyT, glfw.Press)
	if !im.IsActive(ActionCycleWeather) {
		t.Fatal("new binding not active")
	}

	// Out of range actions are ignored.
	im.BindKey(glfw.KeyY, ActionCount)
	im.HandleKeyEvent(glfw.KeyY, glfw.Press)
	if im.IsActive(ActionCount) || im.JustPressed(-1) {
		t.Fatal("out of range action reported active")
	}
}

func TestReset(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyLeftShift, glfw.Press)
	im.PostUpdate()
	im.Reset()
	if im.IsActive(ActionMoveDown) || !im.JustReleased(ActionMoveDown) {
		t.Fatal("reset: want released")
	}
}
