package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// GLDevice draws through an OpenGL 3.3+ core context, which must be current
// on the calling thread for every method.
type GLDevice struct {
	Program  uint32
	VAO      uint32
	Buffers  []uint32
	attrs    []Attribute
	uniforms map[string]int32

	clear       [3]float32
	Initialized bool
}

func NewGLDevice(r, g, b float32) *GLDevice {
	return &GLDevice{
		clear:    [3]float32{r, g, b},
		uniforms: make(map[string]int32),
	}
}

func (d *GLDevice) Compile(vertexSrc, fragmentSrc string) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to init opengl: %v", err)
	}

	program, err := createRenderProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return err
	}
	d.Program = program

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(d.clear[0], d.clear[1], d.clear[2], 1.0)
	return nil
}

func (d *GLDevice) Layout(attrs []Attribute) error {
	if d.Program == 0 {
		return ErrNotReady
	}
	d.attrs = attrs
	d.Buffers = make([]uint32, len(attrs))

	gl.GenVertexArrays(1, &d.VAO)
	gl.BindVertexArray(d.VAO)
	gl.GenBuffers(int32(len(attrs)), &d.Buffers[0])

	for i, a := range attrs {
		gl.BindBuffer(gl.ARRAY_BUFFER, d.Buffers[i])
		gl.VertexAttribPointer(a.Location, a.Size, gl.FLOAT, false, 0, gl.PtrOffset(0))
		gl.VertexAttribDivisor(a.Location, a.Divisor)
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
	gl.BindVertexArray(0)

	for _, name := range []string{UniformCanvasWidth, UniformCanvasHeight} {
		d.uniforms[name] = gl.GetUniformLocation(d.Program, gl.Str(name+"\x00"))
	}

	d.Initialized = true
	return nil
}

func (d *GLDevice) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *GLDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *GLDevice) Bind() {
	gl.UseProgram(d.Program)
	gl.BindVertexArray(d.VAO)
	for _, a := range d.attrs {
		gl.EnableVertexAttribArray(a.Location)
	}
}

func (d *GLDevice) SetUniform(name string, v float32) {
	loc, ok := d.uniforms[name]
	if !ok {
		loc = gl.GetUniformLocation(d.Program, gl.Str(name+"\x00"))
		d.uniforms[name] = loc
	}
	gl.Uniform1f(loc, v)
}

func (d *GLDevice) Upload(slot int, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, d.Buffers[slot])
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *GLDevice) DrawPointsInstanced(count int) {
	if count == 0 {
		return
	}
	gl.DrawArraysInstanced(gl.POINTS, 0, 1, int32(count))
}

func (d *GLDevice) Unbind() {
	for i := len(d.attrs) - 1; i >= 0; i-- {
		gl.DisableVertexAttribArray(d.attrs[i].Location)
	}
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func (d *GLDevice) Release() {
	if !d.Initialized {
		return
	}
	gl.DeleteBuffers(int32(len(d.Buffers)), &d.Buffers[0])
	gl.DeleteVertexArrays(1, &d.VAO)
	gl.DeleteProgram(d.Program)
	d.Initialized = false
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
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s", ErrCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func createRenderProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	fShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vShader)
		return 0, fmt.Errorf("fragment stage: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vShader)
	gl.AttachShader(program, fShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vShader)
	gl.DeleteShader(fShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", ErrLink, strings.TrimRight(log, "\x00"))
	}
	return program, nil
}
