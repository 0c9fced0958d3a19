package softgl

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

type glslType uint8

const (
	tVoid glslType = iota
	tFloat
	tVec2
	tVec3
	tVec4
	tMat4
)

func (t glslType) size() int {
	switch t {
	case tFloat:
		return 1
	case tVec2:
		return 2
	case tVec3:
		return 3
	case tVec4:
		return 4
	case tMat4:
		return 16
	}
	return 0
}

func (t glslType) isVector() bool { return t >= tVec2 && t <= tVec4 }

func (t glslType) String() string {
	switch t {
	case tFloat:
		return "float"
	case tVec2:
		return "vec2"
	case tVec3:
		return "vec3"
	case tVec4:
		return "vec4"
	case tMat4:
		return "mat4"
	}
	return "void"
}

func typeFromName(name string) (glslType, bool) {
	switch name {
	case "float":
		return tFloat, true
	case "vec2":
		return tVec2, true
	case "vec3":
		return tVec3, true
	case "vec4":
		return tVec4, true
	case "mat4":
		return tMat4, true
	case "void":
		return tVoid, true
	}
	return tVoid, false
}

// vecType returns float for n == 1 and vecN otherwise.
func vecType(n int) glslType {
	switch n {
	case 1:
		return tFloat
	case 2:
		return tVec2
	case 3:
		return tVec3
	case 4:
		return tVec4
	}
	return tVoid
}

// value is a GLSL value. Matrices are stored column-major like mgl32.Mat4.
type value struct {
	t glslType
	v [16]float32
}

func scalar(f float32) value { return value{t: tFloat, v: [16]float32{f}} }

type qualifier uint8

const (
	qualLocal qualifier = iota
	qualAttribute
	qualUniform
	qualVarying
	qualOutput
)

func (q qualifier) String() string {
	switch q {
	case qualAttribute:
		return "attribute"
	case qualUniform:
		return "uniform"
	case qualVarying:
		return "varying"
	case qualOutput:
		return "built-in"
	}
	return "local"
}

type symbol struct {
	name string
	qual qualifier
	t    glslType
	slot int
}

type expr struct {
	t    glslType
	eval func(env []value) value
}

func arith(op rune, a, b float32) float32 {
	switch op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	default:
		return a / b
	}
}

// binaryOp type-checks op on operand types a and b and returns the result type
// and the evaluation function.
func binaryOp(op rune, a, b glslType) (glslType, func(x, y value) value, error) {
	if a == tVoid || b == tVoid {
		return tVoid, nil, fmt.Errorf("'%c' : void operand", op)
	}
	if op == '*' {
		switch {
		case a == tMat4 && b == tMat4:
			return tMat4, func(x, y value) value {
				return value{t: tMat4, v: mgl32.Mat4(x.v).Mul4(mgl32.Mat4(y.v))}
			}, nil
		case a == tMat4 && b == tVec4:
			return tVec4, func(x, y value) value {
				r := mgl32.Mat4(x.v).Mul4x1(mgl32.Vec4{y.v[0], y.v[1], y.v[2], y.v[3]})
				return value{t: tVec4, v: [16]float32{r[0], r[1], r[2], r[3]}}
			}, nil
		case a == tVec4 && b == tMat4:
			return tVec4, func(x, y value) value {
				r := mgl32.Mat4(y.v).Transpose().Mul4x1(mgl32.Vec4{x.v[0], x.v[1], x.v[2], x.v[3]})
				return value{t: tVec4, v: [16]float32{r[0], r[1], r[2], r[3]}}
			}, nil
		case a == tMat4 || b == tMat4:
			if a == tFloat || b == tFloat {
				return tMat4, componentwise(op, tMat4, a == tFloat, b == tFloat), nil
			}
			return tVoid, nil, fmt.Errorf("'*' : wrong operand types %s and %s", a, b)
		}
	}
	switch {
	case a == b:
		return a, componentwise(op, a, false, false), nil
	case a == tFloat && (b.isVector() || b == tMat4):
		return b, componentwise(op, b, true, false), nil
	case b == tFloat && (a.isVector() || a == tMat4):
		return a, componentwise(op, a, false, true), nil
	}
	return tVoid, nil, fmt.Errorf("'%c' : wrong operand types %s and %s", op, a, b)
}

func componentwise(op rune, t glslType, splatX, splatY bool) func(x, y value) value {
	n := t.size()
	return func(x, y value) value {
		out := value{t: t}
		for i := 0; i < n; i++ {
			xi, yi := x.v[i], y.v[i]
			if splatX {
				xi = x.v[0]
			}
			if splatY {
				yi = y.v[0]
			}
			out.v[i] = arith(op, xi, yi)
		}
		return out
	}
}

// construct type-checks a constructor call.
func construct(t glslType, args []expr) (expr, error) {
	if len(args) == 0 {
		return expr{}, fmt.Errorf("'%s' : constructor does not have any arguments", t)
	}
	for _, a := range args {
		if a.t == tVoid {
			return expr{}, fmt.Errorf("'%s' : void argument", t)
		}
	}
	n := t.size()

	if len(args) == 1 && args[0].t == tFloat {
		arg := args[0].eval
		if t == tMat4 {
			return expr{t: t, eval: func(env []value) value {
				s := arg(env).v[0]
				out := value{t: tMat4}
				out.v[0], out.v[5], out.v[10], out.v[15] = s, s, s, s
				return out
			}}, nil
		}
		return expr{t: t, eval: func(env []value) value {
			s := arg(env).v[0]
			out := value{t: t}
			for i := 0; i < n; i++ {
				out.v[i] = s
			}
			return out
		}}, nil
	}
	if len(args) == 1 && args[0].t == t {
		return args[0], nil
	}

	total := 0
	for i, a := range args {
		if a.t == tMat4 && t != tMat4 {
			return expr{}, fmt.Errorf("'%s' : cannot construct from a matrix", t)
		}
		if total >= n {
			return expr{}, fmt.Errorf("'%s' : too many arguments", t)
		}
		total += a.t.size()
		if i == len(args)-1 && total < n {
			return expr{}, fmt.Errorf("'%s' : not enough data provided for construction", t)
		}
	}
	evals := make([]func(env []value) value, len(args))
	for i, a := range args {
		evals[i] = a.eval
	}
	return expr{t: t, eval: func(env []value) value {
		out := value{t: t}
		k := 0
		for _, ev := range evals {
			v := ev(env)
			m := v.t.size()
			for j := 0; j < m && k < n; j++ {
				out.v[k] = v.v[j]
				k++
			}
		}
		return out
	}}, nil
}

// swizzleIndices parses a swizzle selector such as "xyz" or "rgba".
func swizzleIndices(sel string, srcSize int) ([]int, error) {
	if len(sel) == 0 || len(sel) > 4 {
		return nil, fmt.Errorf("'%s' : illegal vector field selection", sel)
	}
	sets := [...]string{"xyzw", "rgba", "stpq"}
	set := -1
	for i, s := range sets {
		for j := 0; j < len(s); j++ {
			if sel[0] == s[j] {
				set = i
			}
		}
	}
	if set < 0 {
		return nil, fmt.Errorf("'%s' : illegal vector field selection", sel)
	}
	idx := make([]int, len(sel))
	for i := 0; i < len(sel); i++ {
		k := -1
		for j := 0; j < 4; j++ {
			if sets[set][j] == sel[i] {
				k = j
			}
		}
		if k < 0 || k >= srcSize {
			return nil, fmt.Errorf("'%s' : vector field selection out of range", sel)
		}
		idx[i] = k
	}
	return idx, nil
}
