package renderer

import (
	"fmt"
	"image/color"

	"chunkview/internal/event"
	"chunkview/internal/graphics"
	"chunkview/internal/graphics/gfx"
	"chunkview/internal/profiling"
)

const (
	normalFOV = float32(70.0)
	zoomFOV   = float32(30.0)
	// fovSpeed is the FOV change in degrees per second.
	fovSpeed = float32(200.0)
)

// SkyColor is the clear colour of every frame.
var SkyColor = color.RGBA{0x87, 0xCE, 0xEB, 0xFF}

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	dev         gfx.Device
	bus         *event.Bus
	renderables []Renderable
	camera      *graphics.Camera

	// FOV transition
	targetFOV  float32
	currentFOV float32
}

// NewRenderer creates a new renderer with the given renderables and
// initialises them in order.
func NewRenderer(dev gfx.Device, bus *event.Bus, camera *graphics.Camera, rs ...Renderable) (*Renderer, error) {
	renderer := &Renderer{
		dev:         dev,
		bus:         bus,
		renderables: rs,
		camera:      camera,
		targetFOV:   normalFOV,
		currentFOV:  normalFOV,
	}
	camera.FOV = normalFOV

	for i, r := range rs {
		if err := r.Init(); err != nil {
			// Dispose what was already initialised.
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, fmt.Errorf("init renderable %d: %w", i, err)
		}
	}
	return renderer, nil
}

// SetZoom narrows the field of view while on is true.
func (r *Renderer) SetZoom(on bool) {
	if on {
		r.targetFOV = zoomFOV
	} else {
		r.targetFOV = normalFOV
	}
}

// updateFOV moves the FOV towards its target. A changed FOV changes the
// projection, so chunk visibility has to be recomputed.
func (r *Renderer) updateFOV(dt float64) {
	if r.currentFOV == r.targetFOV {
		return
	}
	step := float32(dt) * fovSpeed
	if r.currentFOV < r.targetFOV {
		r.currentFOV = min(r.currentFOV+step, r.targetFOV)
	} else {
		r.currentFOV = max(r.currentFOV-step, r.targetFOV)
	}
	r.camera.FOV = r.currentFOV
	r.raiseProjectionChanged()
}

func (r *Renderer) raiseProjectionChanged() {
	if r.bus != nil {
		r.bus.ProjectionChanged.Raise()
	}
}

// Render executes the main render loop
func (r *Renderer) Render(dt float64) {
	defer profiling.Track("renderer.Render")()
	r.dev.Clear(SkyColor)
	r.updateFOV(dt)

	view := r.camera.ViewMatrix()
	projection := r.camera.ProjectionMatrix()
	r.dev.SetMatrices(view, projection)

	ctx := RenderContext{
		Camera: r.camera,
		DT:     dt,
		View:   view,
		Proj:   projection,
	}
	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

// Camera returns the camera instance
func (r *Renderer) Camera() *graphics.Camera {
	return r.camera
}

// FOV returns the current field of view in degrees.
func (r *Renderer) FOV() float32 {
	return r.currentFOV
}

// UpdateViewport updates the viewport of the device, the camera and every
// renderable, then raises ProjectionChanged.
func (r *Renderer) UpdateViewport(width, height int) {
	r.dev.SetViewport(width, height)
	r.camera.SetViewport(width, height)
	for _, renderable := range r.renderables {
		renderable.SetViewport(width, height)
	}
	r.raiseProjectionChanged()
}
