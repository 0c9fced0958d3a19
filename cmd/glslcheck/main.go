package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"spincube/softgl"
)

func main() {
	var (
		vertPath = flag.String("vert", "", "Vertex shader source.")
		fragPath = flag.String("frag", "", "Fragment shader source.")
		attribs  = flag.String("attrib", "", "Comma-separated attribute names that must resolve.")
		uniforms = flag.String("uniform", "", "Comma-separated uniform names that must resolve.")
	)
	flag.Parse()

	if *vertPath == "" || *fragPath == "" {
		fatalf("usage: glslcheck -vert shader.vert -frag shader.frag [-attrib a,b] [-uniform u,v]")
	}
	vs, err := os.ReadFile(*vertPath)
	if err != nil {
		fatalf("read: %v", err)
	}
	fs, err := os.ReadFile(*fragPath)
	if err != nil {
		fatalf("read: %v", err)
	}

	if err := check(string(vs), string(fs), splitNames(*attribs), splitNames(*uniforms)); err != nil {
		fatalf("%v", err)
	}
	fmt.Println("ok")
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func splitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func check(vertSrc, fragSrc string, attribs, uniforms []string) error {
	gl, err := softgl.NewContext(softgl.NewImageSurface(1, 1))
	if err != nil {
		return err
	}

	compile := func(stage softgl.Enum, src string) (softgl.Shader, error) {
		s := gl.CreateShader(stage)
		gl.ShaderSource(s, src)
		gl.CompileShader(s)
		if !gl.ShaderCompiled(s) {
			return 0, fmt.Errorf("%v: %s", stage, gl.ShaderInfoLog(s))
		}
		return s, nil
	}
	vs, err := compile(softgl.VertexShader, vertSrc)
	if err != nil {
		return err
	}
	fs, err := compile(softgl.FragmentShader, fragSrc)
	if err != nil {
		return err
	}

	p := gl.CreateProgram()
	gl.AttachShader(p, vs)
	gl.AttachShader(p, fs)
	gl.LinkProgram(p)
	if !gl.ProgramLinked(p) {
		return fmt.Errorf("link: %s", gl.ProgramInfoLog(p))
	}

	var missing []string
	for _, name := range attribs {
		if !gl.GetAttribLocation(p, name).Valid() {
			missing = append(missing, "attribute "+name)
		}
	}
	for _, name := range uniforms {
		if !gl.GetUniformLocation(p, name).Valid() {
			missing = append(missing, "uniform "+name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("unresolved: %s", strings.Join(missing, ", "))
	}
	return gl.Err()
}
