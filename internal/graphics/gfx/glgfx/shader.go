package glgfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const worldVertShader = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec2 aUV;
layout(location = 2) in vec4 aCol;
uniform mat4 uView;
uniform mat4 uProj;
out vec2 vUV;
out vec4 vCol;
void main() {
	vUV = aUV;
	vCol = aCol;
	gl_Position = uProj * uView * vec4(aPos, 1.0);
}
`

// Texturing and alpha testing are fixed function toggles in the command
// layer; the shader emulates them with uniforms.
const worldFragShader = `#version 410 core
in vec2 vUV;
in vec4 vCol;
uniform sampler2D uTex;
uniform bool uTexturing;
uniform bool uAlphaTest;
out vec4 FragColor;
void main() {
	vec4 c = vCol;
	if (uTexturing) {
		c *= texture(uTex, vUV);
	}
	if (uAlphaTest && c.a < 0.5) {
		discard;
	}
	FragColor = c;
}
`

// shader represents a linked program together with its uniform locations.
type shader struct {
	id        uint32
	view      int32
	proj      int32
	tex       int32
	texturing int32
	alphaTest int32
}

func newShader() (*shader, error) {
	program, err := compileProgram(worldVertShader, worldFragShader)
	if err != nil {
		return nil, err
	}
	uniform := func(name string) int32 {
		return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	}
	return &shader{
		id:        program,
		view:      uniform("uView"),
		proj:      uniform("uProj"),
		tex:       uniform("uTex"),
		texturing: uniform("uTexturing"),
		alphaTest: uniform("uAlphaTest"),
	}, nil
}

func (s *shader) use() {
	gl.UseProgram(s.id)
}

func setBool(loc int32, value bool) {
	var v int32
	if value {
		v = 1
	}
	gl.Uniform1i(loc, v)
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
