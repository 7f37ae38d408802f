// Package glgfx implements gfx.Device on top of OpenGL 4.1 core.
package glgfx

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"chunkview/internal/graphics/gfx"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// maxQuads is the number of quads the shared index buffer can address in a
// single draw.
const maxQuads = 1 << 16

type vertexBuffer struct {
	vao, vbo uint32
}

// Device is the OpenGL implementation of gfx.Device. It must be created and
// used on the goroutine that owns the GL context.
type Device struct {
	shader *shader
	ibo    uint32

	buffers map[gfx.VertexBuffer]vertexBuffer
	nextVb  gfx.VertexBuffer

	state gfx.State
}

// New initialises GL state and compiles the world shader. gl.Init must have
// been called already.
func New() (*Device, error) {
	sh, err := newShader()
	if err != nil {
		return nil, fmt.Errorf("world shader: %w", err)
	}
	d := &Device{
		shader:  sh,
		buffers: make(map[gfx.VertexBuffer]vertexBuffer),
	}
	d.makeIndices()

	sh.use()
	gl.Uniform1i(sh.tex, 0)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gfx.Restore(d, gfx.DefaultState)
	return d, nil
}

func (d *Device) makeIndices() {
	indices := make([]uint32, maxQuads*6)
	for i, v := 0, uint32(0); i < len(indices); i, v = i+6, v+4 {
		indices[i+0] = v + 0
		indices[i+1] = v + 1
		indices[i+2] = v + 2
		indices[i+3] = v + 2
		indices[i+4] = v + 3
		indices[i+5] = v + 0
	}
	gl.GenBuffers(1, &d.ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
}

// Dispose frees every GL object still owned by the device.
func (d *Device) Dispose() {
	for id := range d.buffers {
		vb := id
		d.DeleteVb(&vb)
	}
	if d.ibo != 0 {
		gl.DeleteBuffers(1, &d.ibo)
		d.ibo = 0
	}
	if d.shader != nil {
		gl.DeleteProgram(d.shader.id)
		d.shader = nil
	}
}

// LiveBuffers returns the number of vertex buffers not yet deleted.
func (d *Device) LiveBuffers() int {
	return len(d.buffers)
}

func (d *Device) CreateVb(vertices []gfx.Vertex) gfx.VertexBuffer {
	if len(vertices) == 0 {
		return 0
	}
	var b vertexBuffer
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*gfx.VertexSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, gfx.VertexSize, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, gfx.VertexSize, gl.PtrOffset(12))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.UNSIGNED_BYTE, true, gfx.VertexSize, gl.PtrOffset(20))

	// The element buffer binding is VAO state.
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ibo)
	gl.BindVertexArray(0)

	d.nextVb++
	d.buffers[d.nextVb] = b
	glCheckError("CreateVb")
	return d.nextVb
}

func (d *Device) UpdateVb(vb gfx.VertexBuffer, vertices []gfx.Vertex) {
	b, ok := d.buffers[vb]
	if !ok || len(vertices) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*gfx.VertexSize, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) DeleteVb(vb *gfx.VertexBuffer) {
	if *vb == 0 {
		return
	}
	if b, ok := d.buffers[*vb]; ok {
		gl.DeleteBuffers(1, &b.vbo)
		gl.DeleteVertexArrays(1, &b.vao)
		delete(d.buffers, *vb)
	}
	*vb = 0
}

func (d *Device) BindVb(vb gfx.VertexBuffer) {
	gl.BindVertexArray(d.buffers[vb].vao)
}

func (d *Device) CreateTexture(img *image.RGBA, mipmaps bool) gfx.Texture {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	if mipmaps {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	}

	size := img.Rect.Size()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(size.X), int32(size.Y), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	if mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	glCheckError("CreateTexture")
	return gfx.Texture(tex)
}

func (d *Device) DeleteTexture(tex *gfx.Texture) {
	if *tex == 0 {
		return
	}
	id := uint32(*tex)
	gl.DeleteTextures(1, &id)
	*tex = 0
}

func (d *Device) BindTexture(tex gfx.Texture) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

func (d *Device) DrawIndexedTris(vertices, startVertex int) {
	if vertices <= 0 {
		return
	}
	indices := vertices / 4 * 6
	gl.DrawElementsBaseVertex(gl.TRIANGLES, int32(indices), gl.UNSIGNED_INT, nil, int32(startVertex))
}

func toggle(cap uint32, enabled bool) {
	if enabled {
		gl.Enable(cap)
	} else {
		gl.Disable(cap)
	}
}

func (d *Device) SetFaceCulling(enabled bool) {
	d.state.FaceCulling = enabled
	toggle(gl.CULL_FACE, enabled)
}

func (d *Device) SetAlphaBlending(enabled bool) {
	d.state.AlphaBlending = enabled
	toggle(gl.BLEND, enabled)
}

func (d *Device) SetAlphaTest(enabled bool) {
	d.state.AlphaTest = enabled
	d.shader.use()
	setBool(d.shader.alphaTest, enabled)
}

func (d *Device) SetTexturing(enabled bool) {
	d.state.Texturing = enabled
	d.shader.use()
	setBool(d.shader.texturing, enabled)
}

func (d *Device) SetDepthWrite(enabled bool) {
	d.state.DepthWrite = enabled
	gl.DepthMask(enabled)
}

func (d *Device) SetDepthTest(enabled bool) {
	d.state.DepthTest = enabled
	toggle(gl.DEPTH_TEST, enabled)
}

func (d *Device) SetColorWriteMask(r, g, b, a bool) {
	d.state.ColorWrite = [4]bool{r, g, b, a}
	gl.ColorMask(r, g, b, a)
}

// EnableMipmaps and DisableMipmaps only track the toggle; the filter is
// chosen when a texture is created.
func (d *Device) EnableMipmaps()  { d.state.Mipmaps = true }
func (d *Device) DisableMipmaps() { d.state.Mipmaps = false }

func (d *Device) SetMatrices(view, proj mgl32.Mat4) {
	d.shader.use()
	gl.UniformMatrix4fv(d.shader.view, 1, false, &view[0])
	gl.UniformMatrix4fv(d.shader.proj, 1, false, &proj[0])
}

func (d *Device) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(col color.RGBA) {
	gl.ClearColor(float32(col.R)/255, float32(col.G)/255, float32(col.B)/255, float32(col.A)/255)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) State() gfx.State {
	return d.state
}

func glCheckError(label string) {
	if err := gl.GetError(); err != gl.NO_ERROR {
		log.Printf("gl error %s: 0x%x", label, err)
	}
}
