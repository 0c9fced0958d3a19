package render

import (
	"spincube/input"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	fovYDegrees = 45
	zNear       = 0.1
	zFar        = 100
	cameraZ     = -2
	modelScale  = 0.5
)

// Transforms is the per-frame matrix set, column-major.
type Transforms struct {
	Model       mgl32.Mat4
	View        mgl32.Mat4
	Perspective mgl32.Mat4
}

// Aspect returns w/h, or 1 for a degenerate surface.
func Aspect(w, h int) float32 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}

// Perspective is the projection for a surface aspect ratio.
func Perspective(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fovYDegrees), aspect, zNear, zFar)
}

// ComputeTransforms builds the matrices for one frame. It depends only on its
// arguments.
func ComputeTransforms(rot input.Rotation, aspect float32) Transforms {
	model := mgl32.Ident4()
	view := mgl32.Ident4()

	view = view.Mul4(mgl32.Translate3D(0, 0, cameraZ))

	model = model.Mul4(mgl32.HomogRotate3DY(float32(rot.Y)))
	model = model.Mul4(mgl32.HomogRotate3DX(float32(rot.X)))
	model = model.Mul4(mgl32.Scale3D(modelScale, modelScale, modelScale))

	return Transforms{
		Model:       model,
		View:        view,
		Perspective: Perspective(aspect),
	}
}
