package cube

import _ "embed"

// Attribute and uniform names shared by the shader sources and the renderer.
const (
	AttribPosition = "a_Position"
	AttribColor    = "a_Color"

	UniformModel       = "u_Mmatrix"
	UniformView        = "u_VMatrix"
	UniformPerspective = "u_Pmatrix"
)

//go:embed cube.vert
var VertexShader string

//go:embed cube.frag
var FragmentShader string
