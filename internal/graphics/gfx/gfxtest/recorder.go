// Package gfxtest provides an in-memory gfx.Device for tests.
package gfxtest

import (
	"image"
	"image/color"

	"chunkview/internal/graphics/gfx"

	"github.com/go-gl/mathgl/mgl32"
)

// Op names a recorded device call.
type Op string

const (
	OpCreateVb      Op = "CreateVb"
	OpDeleteVb      Op = "DeleteVb"
	OpBindVb        Op = "BindVb"
	OpCreateTexture Op = "CreateTexture"
	OpDeleteTexture Op = "DeleteTexture"
	OpBindTexture   Op = "BindTexture"
	OpDraw          Op = "DrawIndexedTris"
	OpUpdateVb      Op = "UpdateVb"
	OpClear         Op = "Clear"
)

// Call is one recorded draw-affecting call. State is the device state at the
// time of the call.
type Call struct {
	Op    Op
	Args  [2]int
	Vb    gfx.VertexBuffer
	Tex   gfx.Texture
	State gfx.State
}

// Recorder implements gfx.Device by recording calls and tracking state.
type Recorder struct {
	Calls []Call

	state   gfx.State
	boundVb gfx.VertexBuffer
	boundTx gfx.Texture

	nextVb  gfx.VertexBuffer
	nextTex gfx.Texture
	vbs     map[gfx.VertexBuffer][]gfx.Vertex
	texs    map[gfx.Texture]image.Rectangle

	View, Proj    mgl32.Mat4
	Width, Height int
	ClearCol      color.RGBA
}

// NewRecorder returns a recorder in gfx.DefaultState.
func NewRecorder() *Recorder {
	return &Recorder{
		state: gfx.DefaultState,
		vbs:   make(map[gfx.VertexBuffer][]gfx.Vertex),
		texs:  make(map[gfx.Texture]image.Rectangle),
	}
}

func (r *Recorder) record(c Call) {
	c.State = r.state
	r.Calls = append(r.Calls, c)
}

// Reset clears the call log but keeps live resources and state.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

func (r *Recorder) CreateVb(vertices []gfx.Vertex) gfx.VertexBuffer {
	r.nextVb++
	r.vbs[r.nextVb] = append([]gfx.Vertex(nil), vertices...)
	r.record(Call{Op: OpCreateVb, Vb: r.nextVb, Args: [2]int{len(vertices)}})
	return r.nextVb
}

func (r *Recorder) UpdateVb(vb gfx.VertexBuffer, vertices []gfx.Vertex) {
	if _, ok := r.vbs[vb]; !ok {
		return
	}
	r.vbs[vb] = append(r.vbs[vb][:0], vertices...)
	r.record(Call{Op: OpUpdateVb, Vb: vb, Args: [2]int{len(vertices)}})
}

func (r *Recorder) DeleteVb(vb *gfx.VertexBuffer) {
	if *vb == 0 {
		return
	}
	delete(r.vbs, *vb)
	r.record(Call{Op: OpDeleteVb, Vb: *vb})
	*vb = 0
}

func (r *Recorder) BindVb(vb gfx.VertexBuffer) {
	r.boundVb = vb
	r.record(Call{Op: OpBindVb, Vb: vb})
}

func (r *Recorder) CreateTexture(img *image.RGBA, mipmaps bool) gfx.Texture {
	r.nextTex++
	r.texs[r.nextTex] = img.Bounds()
	r.record(Call{Op: OpCreateTexture, Tex: r.nextTex})
	return r.nextTex
}

func (r *Recorder) DeleteTexture(tex *gfx.Texture) {
	if *tex == 0 {
		return
	}
	delete(r.texs, *tex)
	r.record(Call{Op: OpDeleteTexture, Tex: *tex})
	*tex = 0
}

func (r *Recorder) BindTexture(tex gfx.Texture) {
	r.boundTx = tex
	r.record(Call{Op: OpBindTexture, Tex: tex})
}

func (r *Recorder) DrawIndexedTris(vertices, startVertex int) {
	r.record(Call{Op: OpDraw, Vb: r.boundVb, Tex: r.boundTx, Args: [2]int{vertices, startVertex}})
}

func (r *Recorder) SetFaceCulling(enabled bool)   { r.state.FaceCulling = enabled }
func (r *Recorder) SetAlphaBlending(enabled bool) { r.state.AlphaBlending = enabled }
func (r *Recorder) SetAlphaTest(enabled bool)     { r.state.AlphaTest = enabled }
func (r *Recorder) SetTexturing(enabled bool)     { r.state.Texturing = enabled }
func (r *Recorder) SetDepthWrite(enabled bool)    { r.state.DepthWrite = enabled }
func (r *Recorder) SetDepthTest(enabled bool)     { r.state.DepthTest = enabled }
func (r *Recorder) EnableMipmaps()                { r.state.Mipmaps = true }
func (r *Recorder) DisableMipmaps()               { r.state.Mipmaps = false }

func (r *Recorder) SetColorWriteMask(cr, cg, cb, ca bool) {
	r.state.ColorWrite = [4]bool{cr, cg, cb, ca}
}

func (r *Recorder) SetMatrices(view, proj mgl32.Mat4) {
	r.View, r.Proj = view, proj
}

func (r *Recorder) SetViewport(width, height int) {
	r.Width, r.Height = width, height
}

func (r *Recorder) Clear(col color.RGBA) {
	r.ClearCol = col
	r.record(Call{Op: OpClear})
}

func (r *Recorder) State() gfx.State { return r.state }

// LiveVbs returns the number of vertex buffers not yet deleted.
func (r *Recorder) LiveVbs() int { return len(r.vbs) }

// LiveTextures returns the number of textures not yet deleted.
func (r *Recorder) LiveTextures() int { return len(r.texs) }

// Vertices returns the data uploaded to a live buffer.
func (r *Recorder) Vertices(vb gfx.VertexBuffer) []gfx.Vertex { return r.vbs[vb] }

// Draws returns only the draw calls.
func (r *Recorder) Draws() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == OpDraw {
			out = append(out, c)
		}
	}
	return out
}

// DrawnVertices sums the vertex counts of all recorded draws.
func (r *Recorder) DrawnVertices() int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == OpDraw {
			n += c.Args[0]
		}
	}
	return n
}
