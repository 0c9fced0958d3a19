package render

import "errors"

var (
	ErrNoSurface       = errors.New("render: drawable surface is not provided")
	ErrNoContext       = errors.New("render: cannot get rendering context")
	ErrCreateBuffer    = errors.New("render: cannot create buffers for the cube")
	ErrCreateShader    = errors.New("render: cannot create shader")
	ErrCompileShader   = errors.New("render: shader compilation failed")
	ErrCreateProgram   = errors.New("render: cannot create program")
	ErrLinkProgram     = errors.New("render: program link failed")
	ErrAttribLocation  = errors.New("render: cannot get attribute locations")
	ErrUniformLocation = errors.New("render: cannot get uniform locations for matrices")
)
