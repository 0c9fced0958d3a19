package softgl

import (
	"errors"
	"fmt"
)

// Shader, Program and Buffer are object handles; zero is the invalid handle.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
)

// Attrib is a vertex attribute location; -1 is invalid.
type Attrib int32

// Valid reports whether a names an active attribute.
func (a Attrib) Valid() bool { return a >= 0 }

// Uniform is a uniform location within one program. The zero value is invalid
// and is silently ignored by the Uniform* calls, as in GL.
type Uniform struct {
	prog Program
	id   int32 // index+1
}

// Valid reports whether u names an active uniform.
func (u Uniform) Valid() bool { return u.id > 0 }

const maxVertexAttribs = 8

var (
	ErrNoSurface        = errors.New("softgl: no surface")
	ErrInvalidEnum      = errors.New("softgl: invalid enum")
	ErrInvalidValue     = errors.New("softgl: invalid value")
	ErrInvalidOperation = errors.New("softgl: invalid operation")
)

// Stats counts work done by a Context since creation.
type Stats struct {
	Uploads   int // BufferData calls
	DrawCalls int
	Triangles int // triangles submitted to the rasterizer
	Fragments int // fragments written to the surface
	Flushes   int
}

type bufferObject struct {
	data  []byte
	usage Enum
}

type attribArray struct {
	enabled    bool
	buf        Buffer
	size       int
	normalized bool
	stride     int
	offset     int
}

// Option configures a Context.
type Option func(*Context)

// WithMaxObjects limits the number of live shader, program and buffer objects.
// Creation beyond the limit returns the zero handle.
func WithMaxObjects(n int) Option {
	return func(c *Context) { c.maxObjects = n }
}

// Context is an immediate-mode rendering context bound to one Surface.
//
// A Context is not safe for concurrent use.
type Context struct {
	surface    Surface
	maxObjects int

	nextID   uint32
	shaders  map[Shader]*shaderObject
	programs map[Program]*programObject
	buffers  map[Buffer]*bufferObject

	arrayBuf   Buffer
	elementBuf Buffer
	current    Program
	attribs    [maxVertexAttribs]attribArray

	clearColor [4]float32
	depthTest  bool
	depth      []float32
	depthW     int
	depthH     int

	err   error
	stats Stats
}

// NewContext creates a context drawing into s.
func NewContext(s Surface, opts ...Option) (*Context, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	c := &Context{
		surface:  s,
		shaders:  make(map[Shader]*shaderObject),
		programs: make(map[Program]*programObject),
		buffers:  make(map[Buffer]*bufferObject),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Surface returns the drawing surface.
func (c *Context) Surface() Surface { return c.surface }

// Stats returns the work counters.
func (c *Context) Stats() Stats { return c.stats }

// Err returns the first usage error recorded since the last call and clears it.
func (c *Context) Err() error {
	err := c.err
	c.err = nil
	return err
}

func (c *Context) fail(kind error, format string, args ...any) {
	if c.err != nil {
		return
	}
	c.err = fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

func (c *Context) alloc() uint32 {
	if c.maxObjects > 0 && len(c.shaders)+len(c.programs)+len(c.buffers) >= c.maxObjects {
		return 0
	}
	c.nextID++
	return c.nextID
}

// CreateShader creates an empty shader object of the given stage.
func (c *Context) CreateShader(stage Enum) Shader {
	if stage != VertexShader && stage != FragmentShader {
		c.fail(ErrInvalidEnum, "CreateShader(%v)", stage)
		return 0
	}
	id := Shader(c.alloc())
	if id == 0 {
		return 0
	}
	c.shaders[id] = &shaderObject{stage: stage}
	return id
}

func (c *Context) shader(s Shader, fn string) *shaderObject {
	obj, ok := c.shaders[s]
	if !ok {
		c.fail(ErrInvalidValue, "%s: unknown shader %d", fn, s)
		return nil
	}
	return obj
}

// ShaderSource replaces the source of s. It takes effect at the next CompileShader.
func (c *Context) ShaderSource(s Shader, src string) {
	if obj := c.shader(s, "ShaderSource"); obj != nil {
		obj.source = src
	}
}

// CompileShader compiles s; check the result with ShaderCompiled and ShaderInfoLog.
func (c *Context) CompileShader(s Shader) {
	obj := c.shader(s, "CompileShader")
	if obj == nil {
		return
	}
	compiled, err := compileShader(obj.stage, obj.source)
	if err != nil {
		obj.compiled = nil
		obj.infoLog = err.Error()
		return
	}
	obj.compiled = compiled
	obj.infoLog = ""
}

// ShaderCompiled reports the COMPILE_STATUS of s.
func (c *Context) ShaderCompiled(s Shader) bool {
	obj := c.shader(s, "ShaderCompiled")
	return obj != nil && obj.compiled != nil
}

// ShaderInfoLog returns the compiler diagnostics of the last CompileShader.
func (c *Context) ShaderInfoLog(s Shader) string {
	if obj := c.shader(s, "ShaderInfoLog"); obj != nil {
		return obj.infoLog
	}
	return ""
}

// CreateProgram returns a new program name, or 0 when the object limit is reached.
func (c *Context) CreateProgram() Program {
	id := Program(c.alloc())
	if id == 0 {
		return 0
	}
	c.programs[id] = &programObject{}
	return id
}

func (c *Context) program(p Program, fn string) *programObject {
	obj, ok := c.programs[p]
	if !ok {
		c.fail(ErrInvalidValue, "%s: unknown program %d", fn, p)
		return nil
	}
	return obj
}

// AttachShader adds s to the shaders linked into p.
func (c *Context) AttachShader(p Program, s Shader) {
	prog := c.program(p, "AttachShader")
	sh := c.shader(s, "AttachShader")
	if prog == nil || sh == nil {
		return
	}
	for _, other := range prog.shaders {
		if other == s || c.shaders[other].stage == sh.stage {
			c.fail(ErrInvalidOperation, "AttachShader: program %d already has a %v", p, sh.stage)
			return
		}
	}
	prog.shaders = append(prog.shaders, s)
}

// LinkProgram links the shaders attached to p; see ProgramLinked.
func (c *Context) LinkProgram(p Program) {
	prog := c.program(p, "LinkProgram")
	if prog == nil {
		return
	}
	prog.linked = false
	prog.exe = nil

	var vs, fs *shaderObject
	for _, s := range prog.shaders {
		obj := c.shaders[s]
		if obj.stage == VertexShader {
			vs = obj
		} else {
			fs = obj
		}
	}
	switch {
	case vs == nil || fs == nil:
		prog.infoLog = "program requires a vertex and a fragment shader"
		return
	case vs.compiled == nil:
		prog.infoLog = "vertex shader is not compiled"
		return
	case fs.compiled == nil:
		prog.infoLog = "fragment shader is not compiled"
		return
	}
	exe, err := link(vs.compiled, fs.compiled)
	if err != nil {
		prog.infoLog = err.Error()
		return
	}
	prog.exe = exe
	prog.linked = true
	prog.infoLog = ""
}

// ProgramLinked reports the LINK_STATUS of p.
func (c *Context) ProgramLinked(p Program) bool {
	prog := c.program(p, "ProgramLinked")
	return prog != nil && prog.linked
}

// ProgramInfoLog returns the diagnostics of the last LinkProgram.
func (c *Context) ProgramInfoLog(p Program) string {
	if prog := c.program(p, "ProgramInfoLog"); prog != nil {
		return prog.infoLog
	}
	return ""
}

// UseProgram installs p for subsequent draws. Zero uninstalls.
func (c *Context) UseProgram(p Program) {
	if p == 0 {
		c.current = 0
		return
	}
	prog := c.program(p, "UseProgram")
	if prog == nil {
		return
	}
	if !prog.linked {
		c.fail(ErrInvalidOperation, "UseProgram: program %d is not linked", p)
		return
	}
	c.current = p
}

func (c *Context) linked(p Program, fn string) *executable {
	prog := c.program(p, fn)
	if prog == nil {
		return nil
	}
	if !prog.linked {
		c.fail(ErrInvalidOperation, "%s: program %d is not linked", fn, p)
		return nil
	}
	return prog.exe
}

// GetAttribLocation returns the location of an active attribute or -1.
func (c *Context) GetAttribLocation(p Program, name string) Attrib {
	exe := c.linked(p, "GetAttribLocation")
	if exe == nil {
		return -1
	}
	for i, a := range exe.attribs {
		if a.name == name {
			return Attrib(i)
		}
	}
	return -1
}

// GetUniformLocation returns the location of an active uniform or the zero Uniform.
func (c *Context) GetUniformLocation(p Program, name string) Uniform {
	exe := c.linked(p, "GetUniformLocation")
	if exe == nil {
		return Uniform{}
	}
	for i, u := range exe.uniforms {
		if u.name == name {
			return Uniform{prog: p, id: int32(i + 1)}
		}
	}
	return Uniform{}
}

func (c *Context) attrib(a Attrib, fn string) *attribArray {
	if a < 0 || int(a) >= maxVertexAttribs {
		c.fail(ErrInvalidValue, "%s: attribute %d out of range", fn, a)
		return nil
	}
	return &c.attribs[a]
}

// EnableVertexAttribArray makes a read from its VertexAttribPointer buffer.
func (c *Context) EnableVertexAttribArray(a Attrib) {
	if arr := c.attrib(a, "EnableVertexAttribArray"); arr != nil {
		arr.enabled = true
	}
}

// DisableVertexAttribArray makes a read as (0, 0, 0, 1).
func (c *Context) DisableVertexAttribArray(a Attrib) {
	if arr := c.attrib(a, "DisableVertexAttribArray"); arr != nil {
		arr.enabled = false
	}
}

// VertexAttribPointer binds attribute a to the buffer currently bound to
// ArrayBuffer. Only Float components are supported.
func (c *Context) VertexAttribPointer(a Attrib, size int, typ Enum, normalized bool, stride, offset int) {
	arr := c.attrib(a, "VertexAttribPointer")
	if arr == nil {
		return
	}
	if typ != Float {
		c.fail(ErrInvalidEnum, "VertexAttribPointer: type %v", typ)
		return
	}
	if size < 1 || size > 4 || stride < 0 || offset < 0 || offset%4 != 0 || stride%4 != 0 {
		c.fail(ErrInvalidValue, "VertexAttribPointer: size=%d stride=%d offset=%d", size, stride, offset)
		return
	}
	if c.arrayBuf == 0 {
		c.fail(ErrInvalidOperation, "VertexAttribPointer: no ARRAY_BUFFER bound")
		return
	}
	arr.buf = c.arrayBuf
	arr.size = size
	arr.normalized = normalized
	arr.stride = stride
	arr.offset = offset
}

// CreateBuffer returns a new buffer name, or 0 when the object limit is reached.
func (c *Context) CreateBuffer() Buffer {
	id := Buffer(c.alloc())
	if id == 0 {
		return 0
	}
	c.buffers[id] = &bufferObject{}
	return id
}

// BindBuffer binds b to target. Binding 0 clears the target.
func (c *Context) BindBuffer(target Enum, b Buffer) {
	if b != 0 {
		if _, ok := c.buffers[b]; !ok {
			c.fail(ErrInvalidOperation, "BindBuffer: unknown buffer %d", b)
			return
		}
	}
	switch target {
	case ArrayBuffer:
		c.arrayBuf = b
	case ElementArrayBuffer:
		c.elementBuf = b
	default:
		c.fail(ErrInvalidEnum, "BindBuffer(%v)", target)
	}
}

// BufferData copies data into the buffer bound to target.
func (c *Context) BufferData(target Enum, data []byte, usage Enum) {
	var b Buffer
	switch target {
	case ArrayBuffer:
		b = c.arrayBuf
	case ElementArrayBuffer:
		b = c.elementBuf
	default:
		c.fail(ErrInvalidEnum, "BufferData(%v)", target)
		return
	}
	if usage != StaticDraw && usage != DynamicDraw {
		c.fail(ErrInvalidEnum, "BufferData: usage %v", usage)
		return
	}
	if b == 0 {
		c.fail(ErrInvalidOperation, "BufferData: no buffer bound to %v", target)
		return
	}
	obj := c.buffers[b]
	obj.data = append(obj.data[:0], data...)
	obj.usage = usage
	c.stats.Uploads++
}

// UniformMatrix4fv sets a mat4 uniform of the current program from
// column-major values. transpose must be false, as in WebGL 1.
func (c *Context) UniformMatrix4fv(u Uniform, transpose bool, m [16]float32) {
	if !u.Valid() {
		return
	}
	if transpose {
		c.fail(ErrInvalidValue, "UniformMatrix4fv: transpose must be false")
		return
	}
	if u.prog != c.current || c.current == 0 {
		c.fail(ErrInvalidOperation, "UniformMatrix4fv: location does not belong to the current program")
		return
	}
	exe := c.programs[u.prog].exe
	ub := &exe.uniforms[u.id-1]
	if ub.t != tMat4 {
		c.fail(ErrInvalidOperation, "UniformMatrix4fv: uniform '%s' is %s", ub.name, ub.t)
		return
	}
	ub.current = value{t: tMat4, v: m}
}

// ClearColor sets the color used by Clear. Components are clamped to [0, 1].
func (c *Context) ClearColor(r, g, b, a float32) {
	c.clearColor = [4]float32{r, g, b, a}
}

// Enable turns on a capability. Only DepthTest is supported.
func (c *Context) Enable(capability Enum) {
	if capability != DepthTest {
		c.fail(ErrInvalidEnum, "Enable(%v)", capability)
		return
	}
	c.depthTest = true
}

// Disable turns off a capability enabled with Enable.
func (c *Context) Disable(capability Enum) {
	if capability != DepthTest {
		c.fail(ErrInvalidEnum, "Disable(%v)", capability)
		return
	}
	c.depthTest = false
}

// IsEnabled reports whether capability is on.
func (c *Context) IsEnabled(capability Enum) bool {
	return capability == DepthTest && c.depthTest
}

// Clear clears the buffers selected by mask (ColorBufferBit, DepthBufferBit).
func (c *Context) Clear(mask Enum) {
	if mask&^(ColorBufferBit|DepthBufferBit) != 0 {
		c.fail(ErrInvalidValue, "Clear: mask 0x%X", uint32(mask))
		return
	}
	if mask&ColorBufferBit != 0 {
		cc := c.clearColor
		c.surface.Clear(ColorF(cc[0], cc[1], cc[2], cc[3]))
	}
	if mask&DepthBufferBit != 0 {
		w, h := c.surface.Size()
		c.ensureDepth(w, h)
		for i := range c.depth {
			c.depth[i] = 1
		}
	}
}

// Flush marks the end of a frame's commands. Drawing is synchronous.
func (c *Context) Flush() { c.stats.Flushes++ }

func (c *Context) ensureDepth(w, h int) {
	if w <= 0 || h <= 0 {
		c.depth = c.depth[:0]
		c.depthW, c.depthH = 0, 0
		return
	}
	if w == c.depthW && h == c.depthH {
		return
	}
	n := w * h
	if cap(c.depth) < n {
		c.depth = make([]float32, n)
	} else {
		c.depth = c.depth[:n]
	}
	for i := range c.depth {
		c.depth[i] = 1
	}
	c.depthW, c.depthH = w, h
}
