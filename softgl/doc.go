// Package softgl is a small software implementation of the immediate-mode
// WebGL 1 API subset needed to draw indexed, vertex-colored triangles.
//
// A Context draws into a caller-provided Surface. Programs are written in a
// subset of GLSL ES 1.00 and are compiled and executed on the CPU:
//
//	attribute/uniform/varying globals of type float, vec2, vec3, vec4 or mat4
//	void main() with local declarations and (compound) assignments
//	+ - * / on scalars, vectors and mat4, constructors, swizzles
//
// Pipeline (fixed):
//
//	Vertex stage → w rejection → viewport → rasterization → depth test → fragment stage.
//
// Handles are plain integers; the zero handle is invalid, as is attribute
// location -1. Usage errors are recorded on the Context and read back with Err,
// the way glGetError works.
package softgl
