package softgl

import "fmt"

// compiledShader is a type-checked shader whose statements are closures over
// a flat slot environment.
type compiledShader struct {
	stage   Enum
	symbols []symbol
	byName  map[string]int
	body    []func(env []value)
	out     int
}

func newCompiledShader(stage Enum) *compiledShader {
	c := &compiledShader{
		stage:  stage,
		byName: make(map[string]int),
	}
	name := "gl_FragColor"
	if stage == VertexShader {
		name = "gl_Position"
	}
	sym, _ := c.declare(name, qualOutput, tVec4)
	c.out = sym.slot
	return c
}

func (c *compiledShader) declare(name string, q qualifier, t glslType) (symbol, error) {
	if _, dup := c.byName[name]; dup {
		return symbol{}, fmt.Errorf("'%s' : redefinition", name)
	}
	if len(name) > 3 && name[:3] == "gl_" && q != qualOutput {
		return symbol{}, fmt.Errorf("'%s' : reserved built-in name", name)
	}
	sym := symbol{name: name, qual: q, t: t, slot: len(c.symbols)}
	c.symbols = append(c.symbols, sym)
	c.byName[name] = sym.slot
	return sym, nil
}

func (c *compiledShader) lookup(name string) (symbol, bool) {
	i, ok := c.byName[name]
	if !ok {
		return symbol{}, false
	}
	return c.symbols[i], true
}

func (c *compiledShader) globals(q qualifier) []symbol {
	var out []symbol
	for _, s := range c.symbols {
		if s.qual == q {
			out = append(out, s)
		}
	}
	return out
}

func (c *compiledShader) newEnv() []value {
	env := make([]value, len(c.symbols))
	for _, s := range c.symbols {
		env[s.slot].t = s.t
	}
	return env
}

func (c *compiledShader) run(env []value) {
	for _, st := range c.body {
		st(env)
	}
}

type shaderObject struct {
	stage    Enum
	source   string
	compiled *compiledShader
	infoLog  string
}

type uniformBinding struct {
	name    string
	t       glslType
	vsSlot  int
	fsSlot  int
	current value
}

type varyingBinding struct {
	vsSlot int
	fsSlot int
	size   int
}

type attribBinding struct {
	name   string
	t      glslType
	vsSlot int
}

// executable is the result of a successful link.
type executable struct {
	vs, fs   *compiledShader
	attribs  []attribBinding
	uniforms []uniformBinding
	varyings []varyingBinding
	// Total interpolated float count across varyings.
	varyingFloats int
}

type programObject struct {
	shaders []Shader
	exe     *executable
	linked  bool
	infoLog string
}

func link(vs, fs *compiledShader) (*executable, error) {
	exe := &executable{vs: vs, fs: fs}

	for _, a := range vs.globals(qualAttribute) {
		exe.attribs = append(exe.attribs, attribBinding{name: a.name, t: a.t, vsSlot: a.slot})
	}
	if len(exe.attribs) > maxVertexAttribs {
		return nil, fmt.Errorf("too many attributes (%d > %d)", len(exe.attribs), maxVertexAttribs)
	}

	for _, fv := range fs.globals(qualVarying) {
		vv, ok := vs.lookup(fv.name)
		if !ok || vv.qual != qualVarying {
			return nil, fmt.Errorf("varying '%s' is not declared in the vertex shader", fv.name)
		}
		if vv.t != fv.t {
			return nil, fmt.Errorf("varying '%s' type mismatch: %s in vertex shader, %s in fragment shader", fv.name, vv.t, fv.t)
		}
		exe.varyings = append(exe.varyings, varyingBinding{vsSlot: vv.slot, fsSlot: fv.slot, size: fv.t.size()})
		exe.varyingFloats += fv.t.size()
	}

	index := make(map[string]int)
	for _, u := range vs.globals(qualUniform) {
		index[u.name] = len(exe.uniforms)
		exe.uniforms = append(exe.uniforms, uniformBinding{name: u.name, t: u.t, vsSlot: u.slot, fsSlot: -1, current: value{t: u.t}})
	}
	for _, u := range fs.globals(qualUniform) {
		if i, ok := index[u.name]; ok {
			if exe.uniforms[i].t != u.t {
				return nil, fmt.Errorf("uniform '%s' type mismatch between stages", u.name)
			}
			exe.uniforms[i].fsSlot = u.slot
			continue
		}
		index[u.name] = len(exe.uniforms)
		exe.uniforms = append(exe.uniforms, uniformBinding{name: u.name, t: u.t, vsSlot: -1, fsSlot: u.slot, current: value{t: u.t}})
	}
	return exe, nil
}
