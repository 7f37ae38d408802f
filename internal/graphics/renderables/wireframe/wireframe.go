package wireframe

import (
	"image/color"

	"chunkview/internal/graphics/gfx"
	renderer "chunkview/internal/graphics/renderer"
	"chunkview/internal/profiling"
)

const (
	// thickness of an outline strip, in blocks.
	thickness = 0.03
	// lift moves the outline off the block faces to avoid z-fighting.
	lift = 0.002
)

var outlineColor = color.RGBA{0x10, 0x10, 0x10, 0xB0}

// Target reports the block currently under the crosshair.
type Target interface {
	Hovered() (pos [3]int, ok bool)
}

// Wireframe implements outline rendering for the hovered block
type Wireframe struct {
	dev    gfx.Device
	target Target
	vb     gfx.VertexBuffer

	drawn    [3]int
	hasDrawn bool
}

// NewWireframe creates a new wireframe renderable
func NewWireframe(dev gfx.Device, target Target) *Wireframe {
	return &Wireframe{dev: dev, target: target}
}

func (w *Wireframe) Init() error { return nil }

// Render outlines the hovered block, if any
func (w *Wireframe) Render(ctx renderer.RenderContext) {
	pos, ok := w.target.Hovered()
	if !ok {
		return
	}
	defer profiling.Track("renderer.renderHighlightedBlock")()

	if !w.hasDrawn || pos != w.drawn {
		verts := Outline(pos)
		if w.vb == 0 {
			w.vb = w.dev.CreateVb(verts)
		} else {
			w.dev.UpdateVb(w.vb, verts)
		}
		w.drawn, w.hasDrawn = pos, true
	}

	prev := w.dev.State()
	w.dev.SetTexturing(false)
	w.dev.SetAlphaBlending(true)
	w.dev.SetDepthWrite(false)
	w.dev.SetFaceCulling(false)
	w.dev.BindVb(w.vb)
	w.dev.DrawIndexedTris(outlineVertices, 0)
	gfx.Restore(w.dev, prev)
}

func (w *Wireframe) SetViewport(width, height int) {}

// Dispose cleans up the vertex buffer
func (w *Wireframe) Dispose() {
	w.dev.DeleteVb(&w.vb)
	w.hasDrawn = false
}

// outlineVertices is four strips on each of the six faces.
const outlineVertices = 6 * 4 * 4

// Outline returns strips along the twelve edges of the block at pos, drawn
// on every face so the outline shows from any side.
func Outline(pos [3]int) []gfx.Vertex {
	col := gfx.PackCol(outlineColor)
	verts := make([]gfx.Vertex, 0, outlineVertices)
	lo, hi := float32(-lift), float32(1+lift)

	for axis := 0; axis < 3; axis++ {
		u, v := (axis+1)%3, (axis+2)%3
		for _, plane := range [2]float32{lo, hi} {
			// point maps face-local coordinates to a world vertex.
			point := func(a, b float32) gfx.Vertex {
				var p [3]float32
				p[axis], p[u], p[v] = plane, a, b
				return gfx.Vertex{
					X:   float32(pos[0]) + p[0],
					Y:   float32(pos[1]) + p[1],
					Z:   float32(pos[2]) + p[2],
					Col: col,
				}
			}
			strip := func(a0, b0, a1, b1 float32) {
				verts = append(verts, point(a0, b0), point(a1, b0), point(a1, b1), point(a0, b1))
			}
			strip(lo, lo, hi, lo+thickness)
			strip(lo, hi-thickness, hi, hi)
			strip(lo, lo, lo+thickness, hi)
			strip(hi-thickness, lo, hi, hi)
		}
	}
	return verts
}
