package main

// compileProgram/compileShader are grounded on the reference project's
// internal/graphics/shader.go (NewShader/compileProgram/compileShader),
// with GLSL sources embedded as string literals instead of read from
// disk via os.ReadFile, so the demo has no asset files to ship.

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShaderSource = `
#version 410 core
layout (location = 0) in vec3 inPosition;
layout (location = 1) in vec3 inNormal;
layout (location = 2) in vec2 inUV;
layout (location = 3) in vec4 inColor;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;
out vec2 vUV;
out vec4 vColor;

void main() {
    gl_Position = uProjection * uView * uModel * vec4(inPosition, 1.0);
    vNormal = mat3(uModel) * inNormal;
    vUV = inUV;
    vColor = inColor;
}
` + "\x00"

const fragmentShaderSource = `
#version 410 core
in vec3 vNormal;
in vec2 vUV;
in vec4 vColor;

uniform sampler2D uAtlas;
uniform vec3 uLightDir;

out vec4 fragColor;

void main() {
    float diffuse = max(dot(normalize(vNormal), -normalize(uLightDir)), 0.15);
    vec4 tile = texture(uAtlas, vUV);
    fragColor = vec4(vColor.rgb * tile.rgb * diffuse, vColor.a);
}
` + "\x00"

type shader struct {
	id uint32
}

func newShader() (*shader, error) {
	program, err := compileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	return &shader{id: program}, nil
}

func (s *shader) use() {
	gl.UseProgram(s.id)
}

func (s *shader) setMat4(name string, m *float32) {
	gl.UniformMatrix4fv(gl.GetUniformLocation(s.id, gl.Str(name+"\x00")), 1, false, m)
}

func (s *shader) setVec3(name string, x, y, z float32) {
	gl.Uniform3f(gl.GetUniformLocation(s.id, gl.Str(name+"\x00")), x, y, z)
}

func (s *shader) setInt(name string, v int32) {
	gl.Uniform1i(gl.GetUniformLocation(s.id, gl.Str(name+"\x00")), v)
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
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
	csources, free := gl.Strs(source)
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
