package viewer

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const quadVertexShader = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

uniform mat4 projection;

out vec2 uv;

void main() {
	uv = aUV;
	gl_Position = projection * vec4(aPos, 0.0, 1.0);
}
`

const quadFragmentShader = `
#version 410 core
in vec2 uv;
out vec4 color;

uniform sampler2D terrain;

void main() {
	color = texture(terrain, uv);
}
`

// shader is the linked quad program with its uniform locations resolved.
type shader struct {
	program    uint32
	projection int32
	sampler    int32
}

func newShader(vertexSrc, fragmentSrc string) (*shader, error) {
	vs, err := compileStage(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileStage(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var ok int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		var n int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
		msg := make([]byte, n+1)
		gl.GetProgramInfoLog(program, n, nil, &msg[0])
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("link: %s", trimLog(msg))
	}

	return &shader{
		program:    program,
		projection: gl.GetUniformLocation(program, gl.Str("projection\x00")),
		sampler:    gl.GetUniformLocation(program, gl.Str("terrain\x00")),
	}, nil
}

func (s *shader) use() { gl.UseProgram(s.program) }

func (s *shader) delete() { gl.DeleteProgram(s.program) }

func compileStage(stage uint32, src string) (uint32, error) {
	id := gl.CreateShader(stage)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, csrc, nil)
	free()
	gl.CompileShader(id)

	var ok int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		var n int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &n)
		msg := make([]byte, n+1)
		gl.GetShaderInfoLog(id, n, nil, &msg[0])
		gl.DeleteShader(id)
		return 0, fmt.Errorf("compile: %s", trimLog(msg))
	}
	return id, nil
}

func trimLog(b []byte) string {
	return strings.TrimRight(string(b), "\x00\n")
}
