package render

import (
	"fmt"

	"spincube/cube"
	"spincube/hal"
	"spincube/softgl"
)

// ContextFunc acquires a rendering context for a surface.
type ContextFunc func(s softgl.Surface) (*softgl.Context, error)

// Options tunes the renderer. The zero value is valid.
type Options struct {
	// NewContext defaults to softgl.NewContext.
	NewContext ContextFunc
	// ReuploadEachFrame re-sends position and color data before every draw.
	// Output is identical; the tables never change after startup.
	ReuploadEachFrame bool
	// Logger receives startup milestones when Verbose is set.
	Logger  hal.Logger
	Verbose bool
}

// Shader sources; tests swap these to exercise startup failures.
var (
	vertexSource   = cube.VertexShader
	fragmentSource = cube.FragmentShader
)

type cubeBuffers struct {
	position softgl.Buffer
	color    softgl.Buffer
	faces    softgl.Buffer
}

type shaders struct {
	vertex   softgl.Shader
	fragment softgl.Shader
}

type attribs struct {
	position softgl.Attrib
	color    softgl.Attrib
}

type matrixUniforms struct {
	model       softgl.Uniform
	view        softgl.Uniform
	perspective softgl.Uniform
}

// Renderer owns every GPU resource for the process lifetime.
type Renderer struct {
	gl      *softgl.Context
	surface softgl.Surface
	opts    Options

	cube     cubeBuffers
	shaders  shaders
	program  softgl.Program
	attribs  attribs
	uniforms matrixUniforms
}

// New runs the startup sequence on s. A nil surface fails before any
// context, buffer or shader work.
func New(s softgl.Surface, opts Options) (*Renderer, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	newContext := opts.NewContext
	if newContext == nil {
		newContext = func(s softgl.Surface) (*softgl.Context, error) { return softgl.NewContext(s) }
	}
	gl, err := newContext(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoContext, err)
	}
	if gl == nil {
		return nil, ErrNoContext
	}

	r := &Renderer{gl: gl, surface: s, opts: opts}
	w, h := s.Size()
	r.logf("render: context acquired (%dx%d)", w, h)

	if r.cube, err = r.createCubeBuffers(); err != nil {
		return nil, err
	}
	if r.shaders, err = r.createShaders(); err != nil {
		return nil, err
	}
	if r.program, err = r.createProgram(r.shaders.vertex, r.shaders.fragment); err != nil {
		return nil, err
	}
	if r.attribs, err = r.attributeLocations(); err != nil {
		return nil, err
	}
	if r.uniforms, err = r.matrixUniformLocations(); err != nil {
		return nil, err
	}
	r.logf("render: ready")
	return r, nil
}

func (r *Renderer) logf(format string, args ...any) {
	if !r.opts.Verbose || r.opts.Logger == nil {
		return
	}
	r.opts.Logger.WriteLineString(fmt.Sprintf(format, args...))
}

// Context exposes the underlying context, mainly for stats.
func (r *Renderer) Context() *softgl.Context { return r.gl }

// Surface returns the drawable surface.
func (r *Renderer) Surface() softgl.Surface { return r.surface }

func (r *Renderer) createCubeBuffers() (cubeBuffers, error) {
	gl := r.gl
	b := cubeBuffers{
		position: gl.CreateBuffer(),
		color:    gl.CreateBuffer(),
		faces:    gl.CreateBuffer(),
	}
	if b.position == 0 || b.color == 0 || b.faces == 0 {
		return cubeBuffers{}, ErrCreateBuffer
	}

	gl.BindBuffer(softgl.ArrayBuffer, b.position)
	gl.BufferData(softgl.ArrayBuffer, cube.PositionData(), softgl.StaticDraw)

	gl.BindBuffer(softgl.ArrayBuffer, b.color)
	gl.BufferData(softgl.ArrayBuffer, cube.ColorData(), softgl.StaticDraw)

	gl.BindBuffer(softgl.ElementArrayBuffer, b.faces)
	gl.BufferData(softgl.ElementArrayBuffer, cube.FaceData(), softgl.StaticDraw)

	if err := gl.Err(); err != nil {
		return cubeBuffers{}, fmt.Errorf("%w: %v", ErrCreateBuffer, err)
	}
	r.logf("render: uploaded %d vertices, %d indices", cube.VertexCount, cube.IndexCount)
	return b, nil
}

func (r *Renderer) createShaders() (shaders, error) {
	vs, err := r.createShader(softgl.VertexShader, vertexSource)
	if err != nil {
		return shaders{}, err
	}
	fs, err := r.createShader(softgl.FragmentShader, fragmentSource)
	if err != nil {
		return shaders{}, err
	}
	return shaders{vertex: vs, fragment: fs}, nil
}

func (r *Renderer) createShader(stage softgl.Enum, src string) (softgl.Shader, error) {
	gl := r.gl
	s := gl.CreateShader(stage)
	if s == 0 {
		return 0, fmt.Errorf("%w: %v", ErrCreateShader, stage)
	}
	gl.ShaderSource(s, src)
	gl.CompileShader(s)
	if !gl.ShaderCompiled(s) {
		return 0, fmt.Errorf("%w: %v: %s", ErrCompileShader, stage, gl.ShaderInfoLog(s))
	}
	r.logf("render: compiled %v", stage)
	return s, nil
}

func (r *Renderer) createProgram(vs, fs softgl.Shader) (softgl.Program, error) {
	gl := r.gl
	p := gl.CreateProgram()
	if p == 0 {
		return 0, ErrCreateProgram
	}
	gl.AttachShader(p, vs)
	gl.AttachShader(p, fs)
	gl.LinkProgram(p)
	if !gl.ProgramLinked(p) {
		return 0, fmt.Errorf("%w: %s", ErrLinkProgram, gl.ProgramInfoLog(p))
	}
	gl.UseProgram(p)
	r.logf("render: program linked")
	return p, nil
}

func (r *Renderer) attributeLocations() (attribs, error) {
	gl := r.gl
	a := attribs{
		position: gl.GetAttribLocation(r.program, cube.AttribPosition),
		color:    gl.GetAttribLocation(r.program, cube.AttribColor),
	}
	if !a.position.Valid() || !a.color.Valid() {
		return attribs{}, fmt.Errorf("%w: %s=%d %s=%d", ErrAttribLocation,
			cube.AttribPosition, a.position, cube.AttribColor, a.color)
	}
	gl.EnableVertexAttribArray(a.position)
	gl.EnableVertexAttribArray(a.color)
	return a, nil
}

func (r *Renderer) matrixUniformLocations() (matrixUniforms, error) {
	gl := r.gl
	u := matrixUniforms{
		model:       gl.GetUniformLocation(r.program, cube.UniformModel),
		view:        gl.GetUniformLocation(r.program, cube.UniformView),
		perspective: gl.GetUniformLocation(r.program, cube.UniformPerspective),
	}
	if !u.model.Valid() || !u.view.Valid() || !u.perspective.Valid() {
		return matrixUniforms{}, ErrUniformLocation
	}
	return u, nil
}

// Draw renders one frame with the given matrices.
func (r *Renderer) Draw(t Transforms) error {
	gl := r.gl

	gl.UniformMatrix4fv(r.uniforms.model, false, t.Model)
	gl.UniformMatrix4fv(r.uniforms.view, false, t.View)
	gl.UniformMatrix4fv(r.uniforms.perspective, false, t.Perspective)

	gl.BindBuffer(softgl.ArrayBuffer, r.cube.position)
	if r.opts.ReuploadEachFrame {
		gl.BufferData(softgl.ArrayBuffer, cube.PositionData(), softgl.StaticDraw)
	}
	gl.VertexAttribPointer(r.attribs.position, cube.CoordsPerVertex, softgl.Float, false, 0, 0)

	gl.BindBuffer(softgl.ArrayBuffer, r.cube.color)
	if r.opts.ReuploadEachFrame {
		gl.BufferData(softgl.ArrayBuffer, cube.ColorData(), softgl.StaticDraw)
	}
	gl.VertexAttribPointer(r.attribs.color, cube.CoordsPerVertex, softgl.Float, false, 0, 0)

	gl.Enable(softgl.DepthTest)
	gl.ClearColor(0.6, 0.6, 0.6, 1.0)
	gl.Clear(softgl.ColorBufferBit | softgl.DepthBufferBit)

	gl.BindBuffer(softgl.ElementArrayBuffer, r.cube.faces)
	gl.DrawElements(softgl.Triangles, cube.IndexCount, softgl.UnsignedShort, 0)
	gl.Flush()

	if err := gl.Err(); err != nil {
		return fmt.Errorf("render: frame: %w", err)
	}
	return nil
}
