package softgl

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

type token struct {
	kind rune
	text string
	line int
}

// compileError is reported in the shader info log as "ERROR: 0:<line>: <msg>".
type compileError struct {
	line int
	msg  string
}

func (e *compileError) Error() string { return fmt.Sprintf("ERROR: 0:%d: %s", e.line, e.msg) }

func tokenize(src string) ([]token, error) {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		// Preprocessor lines (#version, #ifdef GL_ES ...) carry nothing we execute.
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			lines[i] = ""
		}
	}

	var s scanner.Scanner
	s.Init(strings.NewReader(strings.Join(lines, "\n")))
	s.Mode = scanner.ScanIdents | scanner.ScanFloats | scanner.ScanInts | scanner.ScanComments | scanner.SkipComments
	var scanErr *compileError
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = &compileError{line: s.Position.Line, msg: msg}
		}
	}

	var toks []token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		toks = append(toks, token{kind: tok, text: s.TokenText(), line: s.Position.Line})
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return toks, nil
}

type parser struct {
	toks  []token
	pos   int
	stage Enum

	prog     *compiledShader
	wroteOut bool
}

// compileShader parses and type-checks src for the given stage.
func compileShader(stage Enum, src string) (*compiledShader, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks:  toks,
		stage: stage,
		prog:  newCompiledShader(stage),
	}
	if err := p.unit(); err != nil {
		return nil, err
	}
	return p.prog, nil
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		line := 1
		if n := len(p.toks); n > 0 {
			line = p.toks[n-1].line
		}
		return token{kind: scanner.EOF, line: line}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &compileError{line: t.line, msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(kind rune) (token, error) {
	t := p.next()
	if t.kind != kind {
		if t.kind == scanner.EOF {
			return t, p.errorf(t, "'' : syntax error, unexpected end of file")
		}
		return t, p.errorf(t, "'%s' : syntax error", t.text)
	}
	return t, nil
}

func (p *parser) acceptIdent(name string) bool {
	t := p.peek()
	if t.kind == scanner.Ident && t.text == name {
		p.pos++
		return true
	}
	return false
}

func isPrecision(name string) bool {
	return name == "lowp" || name == "mediump" || name == "highp"
}

func (p *parser) unit() error {
	sawMain := false
	for {
		t := p.peek()
		if t.kind == scanner.EOF {
			break
		}
		if t.kind != scanner.Ident {
			return p.errorf(t, "'%s' : syntax error", t.text)
		}
		switch t.text {
		case "precision":
			p.next()
			q := p.next()
			if !isPrecision(q.text) {
				return p.errorf(q, "'%s' : precision qualifier expected", q.text)
			}
			if _, err := p.typeName(); err != nil {
				return err
			}
			if _, err := p.expect(';'); err != nil {
				return err
			}
		case "attribute", "uniform", "varying":
			if err := p.global(); err != nil {
				return err
			}
		case "void":
			if sawMain {
				return p.errorf(t, "'main' : function already has a body")
			}
			if err := p.mainFunc(); err != nil {
				return err
			}
			sawMain = true
		default:
			return p.errorf(t, "'%s' : syntax error", t.text)
		}
	}
	if !sawMain {
		return &compileError{line: p.peek().line, msg: "'' : missing main()"}
	}
	if !p.wroteOut {
		out := p.prog.symbols[p.prog.out].name
		return &compileError{line: p.peek().line, msg: fmt.Sprintf("'%s' : main() never writes it", out)}
	}
	return nil
}

func (p *parser) typeName() (glslType, error) {
	t := p.next()
	if isPrecision(t.text) {
		t = p.next()
	}
	typ, ok := typeFromName(t.text)
	if !ok || t.kind != scanner.Ident {
		return tVoid, p.errorf(t, "'%s' : unknown type", t.text)
	}
	return typ, nil
}

func (p *parser) global() error {
	qt := p.next()
	var q qualifier
	switch qt.text {
	case "attribute":
		q = qualAttribute
		if p.stage != VertexShader {
			return p.errorf(qt, "'attribute' : supported in vertex shaders only")
		}
	case "uniform":
		q = qualUniform
	default:
		q = qualVarying
	}
	typ, err := p.typeName()
	if err != nil {
		return err
	}
	if typ == tVoid {
		return p.errorf(qt, "'%s' : illegal use of type 'void'", qt.text)
	}
	if q != qualUniform && typ == tMat4 {
		return p.errorf(qt, "'%s' : cannot be a matrix in this implementation", qt.text)
	}
	for {
		name, err := p.expect(scanner.Ident)
		if err != nil {
			return err
		}
		if _, err := p.prog.declare(name.text, q, typ); err != nil {
			return p.errorf(name, "%v", err)
		}
		if p.peek().kind == ',' {
			p.next()
			continue
		}
		break
	}
	_, err = p.expect(';')
	return err
}

func (p *parser) mainFunc() error {
	p.next() // void
	name, err := p.expect(scanner.Ident)
	if err != nil {
		return err
	}
	if name.text != "main" {
		return p.errorf(name, "'%s' : only main() may be defined", name.text)
	}
	if _, err := p.expect('('); err != nil {
		return err
	}
	p.acceptIdent("void")
	if _, err := p.expect(')'); err != nil {
		return err
	}
	if _, err := p.expect('{'); err != nil {
		return err
	}
	for {
		t := p.peek()
		if t.kind == '}' {
			p.next()
			return nil
		}
		if t.kind == scanner.EOF {
			return p.errorf(t, "'' : syntax error, unexpected end of file")
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
}

func (p *parser) statement() error {
	t := p.peek()
	if t.kind == ';' {
		p.next()
		return nil
	}
	if t.kind != scanner.Ident {
		return p.errorf(t, "'%s' : syntax error", t.text)
	}
	if _, isType := typeFromName(t.text); isType || isPrecision(t.text) {
		return p.declaration()
	}

	p.next()
	sym, ok := p.prog.lookup(t.text)
	if !ok {
		return p.errorf(t, "'%s' : undeclared identifier", t.text)
	}
	opTok := p.next()
	op := opTok.kind
	switch op {
	case '=':
	case '+', '-', '*', '/':
		if _, err := p.expect('='); err != nil {
			return err
		}
	default:
		return p.errorf(opTok, "'%s' : syntax error", opTok.text)
	}
	rhs, err := p.expression()
	if err != nil {
		return err
	}
	st, err := p.assign(sym, op, rhs)
	if err != nil {
		return p.errorf(opTok, "%v", err)
	}
	p.prog.body = append(p.prog.body, st)
	_, err = p.expect(';')
	return err
}

func (p *parser) declaration() error {
	start := p.peek()
	typ, err := p.typeName()
	if err != nil {
		return err
	}
	if typ == tVoid {
		return p.errorf(start, "'void' : illegal use of type 'void'")
	}
	for {
		name, err := p.expect(scanner.Ident)
		if err != nil {
			return err
		}
		var init *expr
		if p.peek().kind == '=' {
			p.next()
			e, err := p.expression()
			if err != nil {
				return err
			}
			if e.t != typ {
				return p.errorf(name, "'=' : cannot convert from '%s' to '%s'", e.t, typ)
			}
			init = &e
		}
		sym, err := p.prog.declare(name.text, qualLocal, typ)
		if err != nil {
			return p.errorf(name, "%v", err)
		}
		slot := sym.slot
		if init != nil {
			ev := init.eval
			p.prog.body = append(p.prog.body, func(env []value) { env[slot] = ev(env) })
		} else {
			p.prog.body = append(p.prog.body, func(env []value) { env[slot] = value{t: typ} })
		}
		if p.peek().kind == ',' {
			p.next()
			continue
		}
		break
	}
	_, err = p.expect(';')
	return err
}

func (p *parser) assign(sym symbol, op rune, rhs expr) (func(env []value), error) {
	switch sym.qual {
	case qualLocal, qualOutput:
	case qualVarying:
		if p.stage != VertexShader {
			return nil, fmt.Errorf("'%s' : cannot assign to a varying in a fragment shader", sym.name)
		}
	default:
		return nil, fmt.Errorf("'%s' : l-value required (can't modify a %s)", sym.name, sym.qual)
	}
	slot := sym.slot
	if slot == p.prog.out {
		p.wroteOut = true
	}
	if op == '=' {
		if rhs.t != sym.t {
			return nil, fmt.Errorf("'=' : cannot convert from '%s' to '%s'", rhs.t, sym.t)
		}
		ev := rhs.eval
		return func(env []value) { env[slot] = ev(env) }, nil
	}
	rt, fn, err := binaryOp(op, sym.t, rhs.t)
	if err != nil {
		return nil, err
	}
	if rt != sym.t {
		return nil, fmt.Errorf("'%c=' : cannot convert from '%s' to '%s'", op, rt, sym.t)
	}
	ev := rhs.eval
	return func(env []value) { env[slot] = fn(env[slot], ev(env)) }, nil
}

func (p *parser) expression() (expr, error) {
	lhs, err := p.term()
	if err != nil {
		return expr{}, err
	}
	for {
		t := p.peek()
		if t.kind != '+' && t.kind != '-' {
			return lhs, nil
		}
		// "a += b" is a statement, not an expression.
		if p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == '=' {
			return lhs, nil
		}
		p.next()
		rhs, err := p.term()
		if err != nil {
			return expr{}, err
		}
		if lhs, err = p.binary(t, lhs, rhs); err != nil {
			return expr{}, err
		}
	}
}

func (p *parser) term() (expr, error) {
	lhs, err := p.unary()
	if err != nil {
		return expr{}, err
	}
	for {
		t := p.peek()
		if t.kind != '*' && t.kind != '/' {
			return lhs, nil
		}
		p.next()
		rhs, err := p.unary()
		if err != nil {
			return expr{}, err
		}
		if lhs, err = p.binary(t, lhs, rhs); err != nil {
			return expr{}, err
		}
	}
}

func (p *parser) binary(opTok token, lhs, rhs expr) (expr, error) {
	rt, fn, err := binaryOp(opTok.kind, lhs.t, rhs.t)
	if err != nil {
		return expr{}, p.errorf(opTok, "%v", err)
	}
	l, r := lhs.eval, rhs.eval
	return expr{t: rt, eval: func(env []value) value { return fn(l(env), r(env)) }}, nil
}

func (p *parser) unary() (expr, error) {
	t := p.peek()
	switch t.kind {
	case '+':
		p.next()
		return p.unary()
	case '-':
		p.next()
		x, err := p.unary()
		if err != nil {
			return expr{}, err
		}
		n := x.t.size()
		ev := x.eval
		return expr{t: x.t, eval: func(env []value) value {
			v := ev(env)
			for i := 0; i < n; i++ {
				v.v[i] = -v.v[i]
			}
			return v
		}}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (expr, error) {
	x, err := p.primary()
	if err != nil {
		return expr{}, err
	}
	for p.peek().kind == '.' {
		p.next()
		sel, err := p.expect(scanner.Ident)
		if err != nil {
			return expr{}, err
		}
		if !x.t.isVector() {
			return expr{}, p.errorf(sel, "'%s' : field selection requires a vector", sel.text)
		}
		idx, err := swizzleIndices(sel.text, x.t.size())
		if err != nil {
			return expr{}, p.errorf(sel, "%v", err)
		}
		rt := vecType(len(idx))
		ev := x.eval
		x = expr{t: rt, eval: func(env []value) value {
			src := ev(env)
			out := value{t: rt}
			for i, k := range idx {
				out.v[i] = src.v[k]
			}
			return out
		}}
	}
	return x, nil
}

func (p *parser) primary() (expr, error) {
	t := p.next()
	switch t.kind {
	case scanner.Float, scanner.Int:
		f, err := strconv.ParseFloat(t.text, 32)
		if err != nil {
			return expr{}, p.errorf(t, "'%s' : invalid number", t.text)
		}
		v := scalar(float32(f))
		return expr{t: tFloat, eval: func([]value) value { return v }}, nil

	case '(':
		e, err := p.expression()
		if err != nil {
			return expr{}, err
		}
		if _, err := p.expect(')'); err != nil {
			return expr{}, err
		}
		return e, nil

	case scanner.Ident:
		if p.peek().kind == '(' {
			return p.call(t)
		}
		sym, ok := p.prog.lookup(t.text)
		if !ok {
			return expr{}, p.errorf(t, "'%s' : undeclared identifier", t.text)
		}
		slot := sym.slot
		return expr{t: sym.t, eval: func(env []value) value { return env[slot] }}, nil

	case scanner.EOF:
		return expr{}, p.errorf(t, "'' : syntax error, unexpected end of file")
	}
	return expr{}, p.errorf(t, "'%s' : syntax error", t.text)
}

func (p *parser) call(name token) (expr, error) {
	p.next() // (
	var args []expr
	if p.peek().kind != ')' {
		for {
			a, err := p.expression()
			if err != nil {
				return expr{}, err
			}
			args = append(args, a)
			if p.peek().kind != ',' {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(')'); err != nil {
		return expr{}, err
	}
	typ, ok := typeFromName(name.text)
	if !ok || typ == tVoid {
		return expr{}, p.errorf(name, "'%s' : no matching overloaded function found", name.text)
	}
	e, err := construct(typ, args)
	if err != nil {
		return expr{}, p.errorf(name, "%v", err)
	}
	return e, nil
}
