package softgl

import "fmt"

// Enum is a GL enumerant.
type Enum uint32

const (
	VertexShader   Enum = 0x8B31
	FragmentShader Enum = 0x8B30

	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893

	StaticDraw  Enum = 0x88E4
	DynamicDraw Enum = 0x88E8

	Float         Enum = 0x1406
	UnsignedShort Enum = 0x1403

	Triangles Enum = 0x0004

	DepthTest Enum = 0x0B71

	DepthBufferBit Enum = 0x00000100
	ColorBufferBit Enum = 0x00004000
)

func (e Enum) String() string {
	switch e {
	case VertexShader:
		return "VERTEX_SHADER"
	case FragmentShader:
		return "FRAGMENT_SHADER"
	case ArrayBuffer:
		return "ARRAY_BUFFER"
	case ElementArrayBuffer:
		return "ELEMENT_ARRAY_BUFFER"
	case StaticDraw:
		return "STATIC_DRAW"
	case DynamicDraw:
		return "DYNAMIC_DRAW"
	case Float:
		return "FLOAT"
	case UnsignedShort:
		return "UNSIGNED_SHORT"
	case Triangles:
		return "TRIANGLES"
	case DepthTest:
		return "DEPTH_TEST"
	}
	return fmt.Sprintf("0x%04X", uint32(e))
}
