// Package gradient computes per-pixel gradient vectors and the angle and
// magnitude fields derived from them.
//
// Gradients use the "left minus right, below minus above" convention:
//
//	DX = I(row, col-1) - I(row, col+1)
//	DY = I(row+1, col) - I(row-1, col)
//
// and are only defined for interior pixels. Border pixels carry the zero
// vector, so their magnitude is 0 and their angle is 0.
package gradient

import (
	"math"

	"gradsmooth/internal/models"
)

// Vector is a gradient vector for one pixel and channel
type Vector struct {
	DX, DY int
}

// Angle returns the four-quadrant direction of v in (-π, π].
func (v Vector) Angle() float64 {
	return math.Atan2(float64(v.DY), float64(v.DX))
}

// Magnitude returns the Euclidean norm of v.
func (v Vector) Magnitude() float64 {
	dx, dy := float64(v.DX), float64(v.DY)
	return math.Sqrt(dx*dx + dy*dy)
}

// At computes the gradient of channel ch at an interior pixel (row, col).
// Callers must keep (row, col) away from the border.
func At(img *models.Image, row, col, ch int) Vector {
	return Vector{
		DX: int(img.At(row, col-1, ch)) - int(img.At(row, col+1, ch)),
		DY: int(img.At(row+1, col, ch)) - int(img.At(row-1, col, ch)),
	}
}

// IsInterior reports whether (row, col) has a gradient in an image of the
// given size.
func IsInterior(height, width, row, col int) bool {
	return row >= 1 && row < height-1 && col >= 1 && col < width-1
}

// Source yields gradient vectors. Raw recomputes them from an image on every
// call; *Field serves them from a precomputed cache. Both give identical
// vectors for the same pixel.
type Source interface {
	GradientAt(row, col, ch int) Vector
}

// Raw computes gradients directly from the wrapped image.
type Raw struct {
	Image *models.Image
}

// GradientAt implements Source.
func (r Raw) GradientAt(row, col, ch int) Vector {
	return At(r.Image, row, col, ch)
}

// Angle returns the gradient angle at (row, col, ch) from src.
func Angle(src Source, row, col, ch int) float64 {
	return src.GradientAt(row, col, ch).Angle()
}

// Magnitude returns the gradient magnitude at (row, col, ch) from src.
func Magnitude(src Source, row, col, ch int) float64 {
	return src.GradientAt(row, col, ch).Magnitude()
}
