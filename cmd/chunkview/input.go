package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// mouseLook turns cursor movement into camera rotation.
type mouseLook struct {
	lastX, lastY float64
	first        bool
}

func (m *mouseLook) delta(x, y float64) (dx, dy float32) {
	if m.first {
		m.lastX, m.lastY = x, y
		m.first = false
		return 0, 0
	}
	dx = float32(x-m.lastX) * mouseSensitivity
	dy = float32(m.lastY-y) * mouseSensitivity
	m.lastX, m.lastY = x, y
	return dx, dy
}

func setupInputHandlers(window *glfw.Window, gameLoop *GameLoop) {
	im := gameLoop.inputManager
	v := gameLoop.viewer
	look := &mouseLook{first: true}

	// Keyboard and mouse buttons go through the InputManager
	im.SetCallbacks(window)

	// Mouse position callback
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if gameLoop.paused {
			look.first = true
			return
		}
		dx, dy := look.delta(xpos, ypos)
		v.Camera.Rotate(dx, dy)
	})

	// Release held keys when focus moves elsewhere
	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		if !focused {
			im.Reset()
			look.first = true
		}
	})

	// Framebuffer size callback
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		if fbWidth == 0 || fbHeight == 0 {
			return
		}
		v.Renderer.UpdateViewport(fbWidth, fbHeight)
	})

	// Refresh callback (called during window resize to prevent visual glitches)
	window.SetRefreshCallback(func(w *glfw.Window) {
		gameLoop.RefreshRender()
	})
}
