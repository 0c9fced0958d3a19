package cube

import (
	"encoding/binary"

	"golang.org/x/mobile/exp/f32"
)

const (
	// VertexCount is the number of distinct cube corners.
	VertexCount = 8
	// CoordsPerVertex is the component count of both the position and color attributes.
	CoordsPerVertex = 3
	// IndexCount is the length of the face list (12 triangles).
	IndexCount = 36
)

var positions = [VertexCount * CoordsPerVertex]float32{
	-0.8, 0.8, 0.8,
	0.8, 0.8, 0.8,
	-0.8, -0.8, 0.8,
	0.8, -0.8, 0.8,
	-0.8, 0.8, -0.8,
	0.8, 0.8, -0.8,
	-0.8, -0.8, -0.8,
	0.8, -0.8, -0.8,
}

// One channel is 1.1 on purpose; the pipeline clamps on write.
var colors = [VertexCount * CoordsPerVertex]float32{
	1.0, 0.0, 0.0,
	0.0, 1.0, 0.0,
	0.0, 0.0, 1.0,
	1.0, 1.0, 0.0,
	1.0, 0.0, 1.1,
	0.0, 1.0, 1.0,
	1.0, 1.0, 0.0,
	1.0, 0.0, 1.0,
}

var faces = [IndexCount]uint16{
	0, 1, 2,
	1, 2, 3,
	0, 1, 4,
	4, 5, 1,
	4, 5, 6,
	5, 6, 7,
	1, 5, 3,
	3, 5, 7,
	0, 4, 2,
	2, 4, 6,
	2, 6, 3,
	3, 6, 7,
}

var (
	positionData = f32.Bytes(binary.LittleEndian, positions[:]...)
	colorData    = f32.Bytes(binary.LittleEndian, colors[:]...)
	faceData     = uint16Bytes(faces[:])
)

// Positions returns a copy of the vertex position table.
func Positions() []float32 { return append([]float32(nil), positions[:]...) }

// Colors returns a copy of the per-vertex RGB table.
func Colors() []float32 { return append([]float32(nil), colors[:]...) }

// Faces returns a copy of the triangle index list.
func Faces() []uint16 { return append([]uint16(nil), faces[:]...) }

// PositionData is the position table encoded as little-endian float32 bytes.
//
// The returned slice is shared; callers must not modify it.
func PositionData() []byte { return positionData }

// ColorData is the color table encoded as little-endian float32 bytes.
func ColorData() []byte { return colorData }

// FaceData is the index table encoded as little-endian uint16 bytes.
func FaceData() []byte { return faceData }

func uint16Bytes(v []uint16) []byte {
	b := make([]byte, 2*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint16(b[2*i:], x)
	}
	return b
}
