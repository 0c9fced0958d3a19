package softgl

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"golang.org/x/mobile/exp/f32"
)

const flatVS = `
attribute vec3 a_Position;
attribute vec3 a_Color;
varying vec3 v_Color;
void main() {
	gl_Position = vec4(a_Position, 1.0);
	v_Color = a_Color;
}`

const flatFS = `
precision mediump float;
varying vec3 v_Color;
void main() {
	gl_FragColor = vec4(v_Color, 1.0);
}`

func indexBytes(idx ...uint16) []byte {
	b := make([]byte, 2*len(idx))
	for i, v := range idx {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	return b
}

type fixture struct {
	ctx     *Context
	surf    *ImageSurface
	prog    Program
	pos     Attrib
	col     Attrib
	posBuf  Buffer
	colBuf  Buffer
	elemBuf Buffer
}

func newFixture(t *testing.T, w, h int) *fixture {
	t.Helper()
	surf := NewImageSurface(w, h)
	ctx, err := NewContext(surf)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	vs := ctx.CreateShader(VertexShader)
	ctx.ShaderSource(vs, flatVS)
	ctx.CompileShader(vs)
	fs := ctx.CreateShader(FragmentShader)
	ctx.ShaderSource(fs, flatFS)
	ctx.CompileShader(fs)
	if !ctx.ShaderCompiled(vs) || !ctx.ShaderCompiled(fs) {
		t.Fatalf("compile: %q %q", ctx.ShaderInfoLog(vs), ctx.ShaderInfoLog(fs))
	}
	prog := ctx.CreateProgram()
	ctx.AttachShader(prog, vs)
	ctx.AttachShader(prog, fs)
	ctx.LinkProgram(prog)
	if !ctx.ProgramLinked(prog) {
		t.Fatalf("link: %s", ctx.ProgramInfoLog(prog))
	}
	ctx.UseProgram(prog)

	f := &fixture{ctx: ctx, surf: surf, prog: prog}
	f.pos = ctx.GetAttribLocation(prog, "a_Position")
	f.col = ctx.GetAttribLocation(prog, "a_Color")
	if !f.pos.Valid() || !f.col.Valid() {
		t.Fatalf("attrib locations %d %d", f.pos, f.col)
	}
	ctx.EnableVertexAttribArray(f.pos)
	ctx.EnableVertexAttribArray(f.col)
	f.posBuf = ctx.CreateBuffer()
	f.colBuf = ctx.CreateBuffer()
	f.elemBuf = ctx.CreateBuffer()
	return f
}

func (f *fixture) upload(pos, col []float32, idx []uint16) {
	ctx := f.ctx
	ctx.BindBuffer(ArrayBuffer, f.posBuf)
	ctx.BufferData(ArrayBuffer, f32.Bytes(binary.LittleEndian, pos...), StaticDraw)
	ctx.VertexAttribPointer(f.pos, 3, Float, false, 0, 0)
	ctx.BindBuffer(ArrayBuffer, f.colBuf)
	ctx.BufferData(ArrayBuffer, f32.Bytes(binary.LittleEndian, col...), StaticDraw)
	ctx.VertexAttribPointer(f.col, 3, Float, false, 0, 0)
	ctx.BindBuffer(ElementArrayBuffer, f.elemBuf)
	ctx.BufferData(ElementArrayBuffer, indexBytes(idx...), StaticDraw)
}

func TestNewContextNilSurface(t *testing.T) {
	if _, err := NewContext(nil); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("err=%v want ErrNoSurface", err)
	}
}

func TestDrawQuadBothWindings(t *testing.T) {
	f := newFixture(t, 16, 16)
	// Two triangles covering the whole viewport, wound in opposite directions.
	f.upload(
		[]float32{-1, -1, 0, 1, -1, 0, -1, 1, 0, 1, 1, 0},
		[]float32{1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0},
		[]uint16{0, 1, 2, 1, 2, 3},
	)
	f.ctx.ClearColor(0, 0, 1, 1)
	f.ctx.Clear(ColorBufferBit | DepthBufferBit)
	f.ctx.DrawElements(Triangles, 6, UnsignedShort, 0)
	if err := f.ctx.Err(); err != nil {
		t.Fatalf("draw: %v", err)
	}
	for _, p := range [][2]int{{0, 0}, {15, 0}, {0, 15}, {15, 15}, {8, 8}} {
		if got := f.surf.At(p[0], p[1]); got != RGB(255, 0, 0) {
			t.Fatalf("pixel %v = %+v want red", p, got)
		}
	}
	if st := f.ctx.Stats(); st.Triangles != 2 || st.DrawCalls != 1 {
		t.Fatalf("stats=%+v", st)
	}
}

func TestDepthTestKeepsNearest(t *testing.T) {
	f := newFixture(t, 8, 8)
	// Near red triangle first, far green second; both cover the center.
	f.upload(
		[]float32{
			-1, -1, -0.5, 3, -1, -0.5, -1, 3, -0.5,
			-1, -1, 0.5, 3, -1, 0.5, -1, 3, 0.5,
		},
		[]float32{
			1, 0, 0, 1, 0, 0, 1, 0, 0,
			0, 1, 0, 0, 1, 0, 0, 1, 0,
		},
		[]uint16{0, 1, 2, 3, 4, 5},
	)
	f.ctx.Enable(DepthTest)
	f.ctx.Clear(ColorBufferBit | DepthBufferBit)
	f.ctx.DrawElements(Triangles, 6, UnsignedShort, 0)
	if got := f.surf.At(4, 4); got != RGB(255, 0, 0) {
		t.Fatalf("with depth test center = %+v want red", got)
	}

	f.ctx.Disable(DepthTest)
	f.ctx.Clear(ColorBufferBit | DepthBufferBit)
	f.ctx.DrawElements(Triangles, 6, UnsignedShort, 0)
	if got := f.surf.At(4, 4); got != RGB(0, 255, 0) {
		t.Fatalf("without depth test center = %+v want green (last drawn)", got)
	}
}

func TestVaryingInterpolation(t *testing.T) {
	f := newFixture(t, 64, 64)
	f.upload(
		[]float32{-1, -1, 0, 1, -1, 0, -1, 1, 0, 1, 1, 0},
		[]float32{0, 0, 0, 1, 0, 0, 0, 0, 0, 1, 0, 0},
		[]uint16{0, 1, 2, 1, 2, 3},
	)
	f.ctx.Clear(ColorBufferBit)
	f.ctx.DrawElements(Triangles, 6, UnsignedShort, 0)
	left := f.surf.At(0, 32).R
	mid := f.surf.At(32, 32).R
	right := f.surf.At(63, 32).R
	if !(left < mid && mid < right) {
		t.Fatalf("red not increasing left to right: %d %d %d", left, mid, right)
	}
	if mid < 118 || mid > 138 {
		t.Fatalf("mid red=%d want about 128", mid)
	}
}

func TestClearColorClamps(t *testing.T) {
	f := newFixture(t, 2, 2)
	f.ctx.ClearColor(0.6, 0.6, 0.6, 1)
	f.ctx.Clear(ColorBufferBit)
	if got := f.surf.At(1, 1); got != RGB(153, 153, 153) {
		t.Fatalf("clear=%+v", got)
	}
	f.ctx.ClearColor(2, -1, 0.5, 1)
	f.ctx.Clear(ColorBufferBit)
	if got := f.surf.At(0, 0); got != RGB(255, 0, 128) {
		t.Fatalf("clamped clear=%+v", got)
	}
}

func TestWBehindEyeRejected(t *testing.T) {
	surf := NewImageSurface(8, 8)
	ctx, _ := NewContext(surf)
	vs := ctx.CreateShader(VertexShader)
	ctx.ShaderSource(vs, `attribute vec3 p; void main() { gl_Position = vec4(p, -1.0); }`)
	ctx.CompileShader(vs)
	fs := ctx.CreateShader(FragmentShader)
	ctx.ShaderSource(fs, `void main() { gl_FragColor = vec4(1.0); }`)
	ctx.CompileShader(fs)
	prog := ctx.CreateProgram()
	ctx.AttachShader(prog, vs)
	ctx.AttachShader(prog, fs)
	ctx.LinkProgram(prog)
	ctx.UseProgram(prog)

	b := ctx.CreateBuffer()
	ctx.BindBuffer(ArrayBuffer, b)
	ctx.BufferData(ArrayBuffer, f32.Bytes(binary.LittleEndian, -1, -1, 0, 1, -1, 0, 0, 1, 0), StaticDraw)
	loc := ctx.GetAttribLocation(prog, "p")
	ctx.EnableVertexAttribArray(loc)
	ctx.VertexAttribPointer(loc, 3, Float, false, 0, 0)
	e := ctx.CreateBuffer()
	ctx.BindBuffer(ElementArrayBuffer, e)
	ctx.BufferData(ElementArrayBuffer, indexBytes(0, 1, 2), StaticDraw)
	ctx.DrawElements(Triangles, 3, UnsignedShort, 0)
	if err := ctx.Err(); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if st := ctx.Stats(); st.Triangles != 0 || st.Fragments != 0 {
		t.Fatalf("stats=%+v want nothing rasterized", st)
	}
}

func TestLinkFailures(t *testing.T) {
	ctx, _ := NewContext(NewImageSurface(1, 1))
	compile := func(stage Enum, src string) Shader {
		s := ctx.CreateShader(stage)
		ctx.ShaderSource(s, src)
		ctx.CompileShader(s)
		return s
	}

	vs := compile(VertexShader, `varying vec3 v; void main() { gl_Position = vec4(1.0); v = vec3(1.0); }`)
	fs := compile(FragmentShader, `varying vec4 v; void main() { gl_FragColor = v; }`)
	p := ctx.CreateProgram()
	ctx.AttachShader(p, vs)
	ctx.AttachShader(p, fs)
	ctx.LinkProgram(p)
	if ctx.ProgramLinked(p) {
		t.Fatal("expected link failure on varying type mismatch")
	}
	if !strings.Contains(ctx.ProgramInfoLog(p), "type mismatch") {
		t.Fatalf("info log %q", ctx.ProgramInfoLog(p))
	}

	only := ctx.CreateProgram()
	ctx.AttachShader(only, vs)
	ctx.LinkProgram(only)
	if ctx.ProgramLinked(only) {
		t.Fatal("expected link failure with a single shader")
	}

	bad := compile(FragmentShader, `void main() { gl_FragColor = x; }`)
	withBad := ctx.CreateProgram()
	ctx.AttachShader(withBad, vs)
	ctx.AttachShader(withBad, bad)
	ctx.LinkProgram(withBad)
	if ctx.ProgramLinked(withBad) {
		t.Fatal("expected link failure with an uncompiled shader")
	}

	ctx.UseProgram(withBad)
	if err := ctx.Err(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("UseProgram on unlinked program: err=%v", err)
	}
	if loc := ctx.GetAttribLocation(withBad, "a"); loc.Valid() {
		t.Fatal("attrib location on unlinked program")
	}
}

func TestUsageErrors(t *testing.T) {
	ctx, _ := NewContext(NewImageSurface(1, 1))
	ctx.BindBuffer(Enum(0x1234), 0)
	if err := ctx.Err(); !errors.Is(err, ErrInvalidEnum) {
		t.Fatalf("err=%v want invalid enum", err)
	}
	if err := ctx.Err(); err != nil {
		t.Fatalf("Err did not reset: %v", err)
	}
	ctx.BufferData(ArrayBuffer, []byte{1}, StaticDraw)
	if err := ctx.Err(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("BufferData without buffer: err=%v", err)
	}
	ctx.DrawElements(Triangles, 3, UnsignedShort, 0)
	if err := ctx.Err(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("draw without program: err=%v", err)
	}
}

func TestMaxObjects(t *testing.T) {
	ctx, _ := NewContext(NewImageSurface(1, 1), WithMaxObjects(2))
	if ctx.CreateBuffer() == 0 || ctx.CreateShader(VertexShader) == 0 {
		t.Fatal("expected two objects to fit")
	}
	if b := ctx.CreateBuffer(); b != 0 {
		t.Fatalf("CreateBuffer beyond limit = %d", b)
	}
	if p := ctx.CreateProgram(); p != 0 {
		t.Fatalf("CreateProgram beyond limit = %d", p)
	}
}

func TestUniformMatrixRequiresCurrentProgram(t *testing.T) {
	ctx, _ := NewContext(NewImageSurface(1, 1))
	vs := ctx.CreateShader(VertexShader)
	ctx.ShaderSource(vs, `uniform mat4 m; void main() { gl_Position = m * vec4(1.0); }`)
	ctx.CompileShader(vs)
	fs := ctx.CreateShader(FragmentShader)
	ctx.ShaderSource(fs, `void main() { gl_FragColor = vec4(1.0); }`)
	ctx.CompileShader(fs)
	p := ctx.CreateProgram()
	ctx.AttachShader(p, vs)
	ctx.AttachShader(p, fs)
	ctx.LinkProgram(p)

	u := ctx.GetUniformLocation(p, "m")
	if !u.Valid() {
		t.Fatal("uniform not found")
	}
	if missing := ctx.GetUniformLocation(p, "nope"); missing.Valid() {
		t.Fatal("unexpected location for missing uniform")
	}
	ctx.UniformMatrix4fv(u, false, [16]float32{})
	if err := ctx.Err(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("err=%v want invalid operation", err)
	}
	ctx.UseProgram(p)
	ctx.UniformMatrix4fv(u, false, [16]float32{})
	if err := ctx.Err(); err != nil {
		t.Fatalf("err=%v", err)
	}
	ctx.UniformMatrix4fv(u, true, [16]float32{})
	if err := ctx.Err(); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("transpose err=%v", err)
	}
}

func TestDrawEnabledAttribWithoutBuffer(t *testing.T) {
	f := newFixture(t, 8, 8)
	ctx := f.ctx
	// Both arrays are enabled but only a_Position gets a pointer.
	ctx.BindBuffer(ArrayBuffer, f.posBuf)
	ctx.BufferData(ArrayBuffer, f32.Bytes(binary.LittleEndian, -1, -1, 0, 1, -1, 0, 0, 1, 0), StaticDraw)
	ctx.VertexAttribPointer(f.pos, 3, Float, false, 0, 0)
	ctx.BindBuffer(ElementArrayBuffer, f.elemBuf)
	ctx.BufferData(ElementArrayBuffer, indexBytes(0, 1, 2), StaticDraw)

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("DrawElements panicked: %v", r)
			}
		}()
		ctx.DrawElements(Triangles, 3, UnsignedShort, 0)
	}()
	if err := ctx.Err(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("err=%v want ErrInvalidOperation", err)
	}
	if st := ctx.Stats(); st.Triangles != 0 {
		t.Fatalf("stats=%+v want nothing drawn", st)
	}
}

func TestVaryingResetPerVertex(t *testing.T) {
	surf := NewImageSurface(16, 16)
	ctx, _ := NewContext(surf)
	vs := ctx.CreateShader(VertexShader)
	// v_Color is read before it is written, so each vertex must start from zero.
	ctx.ShaderSource(vs, `
attribute vec3 p;
varying vec3 v_Color;
void main() {
	gl_Position = vec4(p, 1.0);
	v_Color += vec3(0.5, 0.0, 0.0);
}`)
	ctx.CompileShader(vs)
	fs := ctx.CreateShader(FragmentShader)
	ctx.ShaderSource(fs, `
precision mediump float;
varying vec3 v_Color;
void main() {
	gl_FragColor = vec4(v_Color, 1.0);
}`)
	ctx.CompileShader(fs)
	if !ctx.ShaderCompiled(vs) || !ctx.ShaderCompiled(fs) {
		t.Fatalf("compile: %q %q", ctx.ShaderInfoLog(vs), ctx.ShaderInfoLog(fs))
	}
	prog := ctx.CreateProgram()
	ctx.AttachShader(prog, vs)
	ctx.AttachShader(prog, fs)
	ctx.LinkProgram(prog)
	if !ctx.ProgramLinked(prog) {
		t.Fatalf("link: %s", ctx.ProgramInfoLog(prog))
	}
	ctx.UseProgram(prog)

	b := ctx.CreateBuffer()
	ctx.BindBuffer(ArrayBuffer, b)
	ctx.BufferData(ArrayBuffer, f32.Bytes(binary.LittleEndian, -1, -1, 0, 1, -1, 0, -1, 1, 0, 1, 1, 0), StaticDraw)
	loc := ctx.GetAttribLocation(prog, "p")
	ctx.EnableVertexAttribArray(loc)
	ctx.VertexAttribPointer(loc, 3, Float, false, 0, 0)
	e := ctx.CreateBuffer()
	ctx.BindBuffer(ElementArrayBuffer, e)
	ctx.BufferData(ElementArrayBuffer, indexBytes(0, 1, 2, 1, 2, 3), StaticDraw)

	for pass := 0; pass < 2; pass++ {
		ctx.Clear(ColorBufferBit)
		ctx.DrawElements(Triangles, 6, UnsignedShort, 0)
		if err := ctx.Err(); err != nil {
			t.Fatalf("pass %d: %v", pass, err)
		}
		for _, pt := range [][2]int{{0, 0}, {15, 0}, {0, 15}, {15, 15}, {8, 8}} {
			if got := surf.At(pt[0], pt[1]); got != RGB(128, 0, 0) {
				t.Fatalf("pass %d pixel %v = %+v want uniform half red", pass, pt, got)
			}
		}
	}
}
