package softgl

import (
	"strings"
	"testing"
)

const testVS = `#version 100
// position and color pass-through
attribute vec3 a_Position;
attribute vec3 a_Color;
uniform mat4 u_M;
varying vec3 v_Color;

void main(void) {
	vec4 p = vec4(a_Position, 1.0);
	gl_Position = u_M * p;
	v_Color = a_Color;
}
`

const testFS = `precision mediump float;
varying vec3 v_Color;
void main() {
	gl_FragColor = vec4(v_Color, 1.);
}
`

func TestCompileValidShaders(t *testing.T) {
	vs, err := compileShader(VertexShader, testVS)
	if err != nil {
		t.Fatalf("vertex: %v", err)
	}
	if got := len(vs.globals(qualAttribute)); got != 2 {
		t.Fatalf("attributes=%d want 2", got)
	}
	if got := len(vs.globals(qualUniform)); got != 1 {
		t.Fatalf("uniforms=%d want 1", got)
	}
	if _, err := compileShader(FragmentShader, testFS); err != nil {
		t.Fatalf("fragment: %v", err)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		stage Enum
		src   string
		want  string
	}{
		{"undeclared", VertexShader, "void main() {\n gl_Position = nope;\n}", "0:2: 'nope' : undeclared identifier"},
		{"type mismatch", VertexShader, "attribute vec3 a;\nvoid main() {\n gl_Position = a;\n}", "cannot convert from 'vec3' to 'vec4'"},
		{"attribute in fragment", FragmentShader, "attribute vec3 a;\nvoid main() { gl_FragColor = vec4(a, 1.0); }", "supported in vertex shaders only"},
		{"write uniform", VertexShader, "uniform vec4 u;\nvoid main() { u = vec4(1.0); }", "l-value required"},
		{"write varying in fragment", FragmentShader, "varying vec4 v;\nvoid main() { v = vec4(1.0); gl_FragColor = v; }", "cannot assign to a varying"},
		{"no main", VertexShader, "attribute vec3 a;", "missing main()"},
		{"missing semicolon", VertexShader, "void main() {\n gl_Position = vec4(1.0)\n}", "syntax error"},
		{"bad constructor", VertexShader, "attribute vec3 a;\nvoid main() { gl_Position = vec4(a); }", "not enough data"},
		{"too many args", VertexShader, "attribute vec3 a;\nvoid main() { gl_Position = vec4(a, 1.0, 2.0); }", "too many arguments"},
		{"bad swizzle", VertexShader, "attribute vec2 a;\nvoid main() { gl_Position = vec4(a.xyz, 1.0); }", "out of range"},
		{"unknown function", VertexShader, "void main() { gl_Position = foo(1.0); }", "no matching overloaded function"},
		{"redefinition", VertexShader, "uniform mat4 m;\nuniform mat4 m;\nvoid main() { gl_Position = vec4(1.0); }", "redefinition"},
		{"no position", VertexShader, "attribute vec3 a;\nvoid main() { vec3 b = a; }", "'gl_Position' : main() never writes it"},
		{"no frag color", FragmentShader, "void main() { }", "'gl_FragColor' : main() never writes it"},
		{"bad operands", VertexShader, "attribute vec3 a;\nattribute vec2 b;\nvoid main() { gl_Position = vec4(a * b, 1.0); }", "wrong operand types"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileShader(tt.stage, tt.src)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

func runVertex(t *testing.T, src string, set func(cs *compiledShader, env []value)) value {
	t.Helper()
	cs, err := compileShader(VertexShader, src)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	env := cs.newEnv()
	if set != nil {
		set(cs, env)
	}
	cs.run(env)
	return env[cs.out]
}

func TestExpressionEvaluation(t *testing.T) {
	got := runVertex(t, `
void main() {
	vec3 a = vec3(1.0, 2.0, 3.0);
	float s = 2.0;
	vec3 b = a * s + vec3(0.5);
	b -= vec3(1.0, 1.0, 1.0);
	gl_Position = vec4(b.zyx, -(1.0 + 1.0) / 4.0);
}`, nil)
	want := [4]float32{5.5, 3.5, 1.5, -0.5}
	for i, w := range want {
		if got.v[i] != w {
			t.Fatalf("component %d = %v want %v (got %v)", i, got.v[i], w, got.v[:4])
		}
	}
}

func TestMatrixTimesVector(t *testing.T) {
	got := runVertex(t, `
uniform mat4 m;
attribute vec3 p;
void main() {
	gl_Position = m * m * vec4(p, 1.0);
}`, func(cs *compiledShader, env []value) {
		m, _ := cs.lookup("m")
		p, _ := cs.lookup("p")
		// Column-major translation by (1, 2, 3).
		env[m.slot] = value{t: tMat4, v: [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 2, 3, 1}}
		env[p.slot] = value{t: tVec3, v: [16]float32{1, 1, 1}}
	})
	want := [4]float32{3, 5, 7, 1}
	for i, w := range want {
		if got.v[i] != w {
			t.Fatalf("component %d = %v want %v", i, got.v[i], w)
		}
	}
}

func TestMatrixConstructorDiagonal(t *testing.T) {
	got := runVertex(t, `
void main() {
	mat4 m = mat4(2.0);
	gl_Position = m * vec4(1.0, 2.0, 3.0, 1.0);
}`, nil)
	want := [4]float32{2, 4, 6, 2}
	for i, w := range want {
		if got.v[i] != w {
			t.Fatalf("component %d = %v want %v", i, got.v[i], w)
		}
	}
}
