package gfx

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the world geometry vertex format: position, texture coordinate
// and packed RGBA colour.
type Vertex struct {
	X, Y, Z float32
	U, V    float32
	Col     uint32
}

// VertexSize is the size in bytes of one Vertex.
const VertexSize = 3*4 + 2*4 + 4

// PackCol packs a colour into the Vertex.Col layout (R in the lowest byte).
func PackCol(c color.RGBA) uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// ScaleCol multiplies the RGB channels of c by shade.
func ScaleCol(c color.RGBA, shade float32) color.RGBA {
	return color.RGBA{
		R: uint8(float32(c.R) * shade),
		G: uint8(float32(c.G) * shade),
		B: uint8(float32(c.B) * shade),
		A: c.A,
	}
}

// VertexBuffer is a handle to a GPU vertex buffer. Zero means no buffer.
type VertexBuffer uint32

// Texture is a handle to a GPU texture. Zero means no texture.
type Texture uint32

// Device is the command layer the renderers draw through. Implementations
// are synchronous from the caller's point of view and only used from the
// goroutine owning the graphics context.
type Device interface {
	// CreateVb uploads vertices into a new static buffer.
	CreateVb(vertices []Vertex) VertexBuffer
	// UpdateVb replaces the contents of a buffer created by CreateVb.
	UpdateVb(vb VertexBuffer, vertices []Vertex)
	// DeleteVb frees the buffer and zeroes the handle. Zero handles are ignored.
	DeleteVb(vb *VertexBuffer)
	BindVb(vb VertexBuffer)

	CreateTexture(img *image.RGBA, mipmaps bool) Texture
	DeleteTexture(tex *Texture)
	BindTexture(tex Texture)

	// DrawIndexedTris draws vertices/4 quads (6 indices each) starting at
	// startVertex of the bound buffer.
	DrawIndexedTris(vertices, startVertex int)

	SetFaceCulling(enabled bool)
	SetAlphaBlending(enabled bool)
	SetAlphaTest(enabled bool)
	SetTexturing(enabled bool)
	SetDepthWrite(enabled bool)
	SetDepthTest(enabled bool)
	SetColorWriteMask(r, g, b, a bool)
	EnableMipmaps()
	DisableMipmaps()

	SetMatrices(view, proj mgl32.Mat4)
	SetViewport(width, height int)
	// Clear fills the colour buffer with col and resets depth.
	Clear(col color.RGBA)

	// State returns the current value of every toggle above.
	State() State
}

// State is a snapshot of the draw state toggles of a Device.
type State struct {
	FaceCulling   bool
	AlphaBlending bool
	AlphaTest     bool
	Texturing     bool
	DepthWrite    bool
	DepthTest     bool
	ColorWrite    [4]bool
	Mipmaps       bool
}

// DefaultState is the state a freshly initialised device starts in.
var DefaultState = State{
	DepthWrite: true,
	DepthTest:  true,
	ColorWrite: [4]bool{true, true, true, true},
}

// Restore re-applies s to dev.
func Restore(dev Device, s State) {
	dev.SetFaceCulling(s.FaceCulling)
	dev.SetAlphaBlending(s.AlphaBlending)
	dev.SetAlphaTest(s.AlphaTest)
	dev.SetTexturing(s.Texturing)
	dev.SetDepthWrite(s.DepthWrite)
	dev.SetDepthTest(s.DepthTest)
	dev.SetColorWriteMask(s.ColorWrite[0], s.ColorWrite[1], s.ColorWrite[2], s.ColorWrite[3])
	if s.Mipmaps {
		dev.EnableMipmaps()
	} else {
		dev.DisableMipmaps()
	}
}
