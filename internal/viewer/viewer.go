// Package viewer shows a rendered height field in an OpenGL window.
package viewer

import (
	"fmt"

	"terragen/internal/colormap"
	"terragen/internal/config"
	"terragen/internal/profiling"
	"terragen/internal/terrain"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// quadVertices is a unit square as two triangles of (x, y, u, v). Image row 0
// is the top of the window.
var quadVertices = []float32{
	0, 0, 0, 1,
	1, 0, 1, 1,
	1, 1, 1, 0,
	0, 0, 0, 1,
	1, 1, 1, 0,
	0, 1, 0, 0,
}

// Viewer displays one window-sized piece of the terrain. The caller must run
// Show on the main OS thread.
type Viewer struct {
	builder *terrain.Builder
	width   int
	height  int
	offset  mgl64.Vec2
	dirty   bool
	log     zerolog.Logger

	window  *glfw.Window
	shader  *shader
	vao     uint32
	vbo     uint32
	texture uint32
}

// New prepares a viewer for a width x height window onto b starting at offset.
func New(b *terrain.Builder, width, height int, offset mgl64.Vec2, log zerolog.Logger) *Viewer {
	return &Viewer{
		builder: b,
		width:   max(width, 1),
		height:  max(height, 1),
		offset:  offset,
		dirty:   true,
		log:     log.With().Str("component", "viewer").Logger(),
	}
}

// Offset returns the current sample offset.
func (v *Viewer) Offset() mgl64.Vec2 { return v.offset }

// Show opens the window and blocks until it is closed.
func (v *Viewer) Show() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	if err := v.setupWindow(); err != nil {
		return err
	}
	defer v.window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("init gl: %w", err)
	}

	if err := v.setupQuad(); err != nil {
		return err
	}
	defer v.release()

	v.window.SetKeyCallback(v.onKey)

	for !v.window.ShouldClose() {
		if v.dirty {
			v.refresh()
		}
		v.draw()
		v.window.SwapBuffers()
		glfw.WaitEvents()
	}
	return nil
}

func (v *Viewer) setupWindow() error {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	zoom := config.GetZoom()
	window, err := glfw.CreateWindow(v.width*zoom, v.height*zoom, "terragen", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	v.window = window
	return nil
}

func (v *Viewer) setupQuad() error {
	sh, err := newShader(quadVertexShader, quadFragmentShader)
	if err != nil {
		return err
	}
	v.shader = sh

	gl.GenVertexArrays(1, &v.vao)
	gl.GenBuffers(1, &v.vbo)
	gl.BindVertexArray(v.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	projection := mgl32.Ortho2D(0, 1, 0, 1)
	v.shader.use()
	gl.UniformMatrix4fv(v.shader.projection, 1, false, &projection[0])
	gl.Uniform1i(v.shader.sampler, 0)
	return nil
}

func (v *Viewer) release() {
	if v.texture != 0 {
		gl.DeleteTextures(1, &v.texture)
	}
	gl.DeleteBuffers(1, &v.vbo)
	gl.DeleteVertexArrays(1, &v.vao)
	v.shader.delete()
}

// refresh rebuilds the field at the current offset and uploads it.
func (v *Viewer) refresh() {
	profiling.Reset()
	img := colormap.ToImage(v.builder.Build(v.width, v.height, v.offset)).Image()
	if v.texture == 0 {
		v.texture = newTexture(img)
	} else {
		uploadTexture(v.texture, img)
	}
	v.dirty = false
	v.window.SetTitle(fmt.Sprintf("terragen seed %d @ %.0f,%.0f", v.builder.Seed(), v.offset.X(), v.offset.Y()))
	v.log.Debug().
		Float64("x", v.offset.X()).
		Float64("y", v.offset.Y()).
		Str("stages", profiling.TopN(3)).
		Msg("view refreshed")
}

func (v *Viewer) draw() {
	fbw, fbh := v.window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	v.shader.use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, v.texture)
	gl.BindVertexArray(v.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

func (v *Viewer) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyPageUp:
		config.SetPanStep(config.GetPanStep() * 2)
	case glfw.KeyPageDown:
		config.SetPanStep(config.GetPanStep() / 2)
	default:
		if next, ok := pan(v.offset, key, config.GetPanStep()); ok {
			v.offset = next
			v.dirty = true
		}
	}
}

// pan moves offset by step in the direction of an arrow key.
func pan(offset mgl64.Vec2, key glfw.Key, step float64) (mgl64.Vec2, bool) {
	var dir mgl64.Vec2
	switch key {
	case glfw.KeyLeft:
		dir = mgl64.Vec2{-1, 0}
	case glfw.KeyRight:
		dir = mgl64.Vec2{1, 0}
	case glfw.KeyUp:
		dir = mgl64.Vec2{0, -1}
	case glfw.KeyDown:
		dir = mgl64.Vec2{0, 1}
	default:
		return offset, false
	}
	return offset.Add(dir.Mul(step)), true
}
