package gradient

import (
	"gradsmooth/internal/models"
)

// Field caches the gradient vector of every pixel and channel of an image.
// It has the same shape as the image it was built from; border entries hold
// the zero vector.
type Field struct {
	height int
	width  int
	colors int

	vectors []Vector
}

// NewField eagerly computes the gradient of every interior pixel of img.
func NewField(img *models.Image) *Field {
	f := &Field{
		height:  img.Height,
		width:   img.Width,
		colors:  img.Colors,
		vectors: make([]Vector, img.Height*img.Width*img.Colors),
	}

	for row := 1; row < img.Height-1; row++ {
		for col := 1; col < img.Width-1; col++ {
			for ch := 0; ch < img.Colors; ch++ {
				f.vectors[f.index(row, col, ch)] = At(img, row, col, ch)
			}
		}
	}

	return f
}

func (f *Field) index(row, col, ch int) int {
	return (row*f.width+col)*f.colors + ch
}

// Height returns the number of rows of the field
func (f *Field) Height() int { return f.height }

// Width returns the number of columns of the field
func (f *Field) Width() int { return f.width }

// Colors returns the number of channels of the field
func (f *Field) Colors() int { return f.colors }

// GradientAt implements Source. Border pixels return the zero vector.
func (f *Field) GradientAt(row, col, ch int) Vector {
	return f.vectors[f.index(row, col, ch)]
}

// Maps holds the magnitude and angle of every gradient in a Field, laid out
// like models.Image.Pix.
type Maps struct {
	Height, Width, Colors int

	Magnitude []float64
	Angle     []float64
}

// Maps derives the magnitude and angle maps in a single sweep over the cache.
func (f *Field) Maps() *Maps {
	n := len(f.vectors)
	m := &Maps{
		Height:    f.height,
		Width:     f.width,
		Colors:    f.colors,
		Magnitude: make([]float64, n),
		Angle:     make([]float64, n),
	}

	for i, v := range f.vectors {
		if v.DX == 0 && v.DY == 0 {
			continue
		}
		m.Magnitude[i] = v.Magnitude()
		m.Angle[i] = v.Angle()
	}

	return m
}

// Index returns the position of (row, col, ch) in Magnitude and Angle.
func (m *Maps) Index(row, col, ch int) int {
	return (row*m.Width+col)*m.Colors + ch
}

// ChannelMagnitude copies the magnitude plane of channel ch.
func (m *Maps) ChannelMagnitude(ch int) []float64 {
	return m.plane(m.Magnitude, ch)
}

// ChannelAngle copies the angle plane of channel ch.
func (m *Maps) ChannelAngle(ch int) []float64 {
	return m.plane(m.Angle, ch)
}

func (m *Maps) plane(data []float64, ch int) []float64 {
	out := make([]float64, m.Height*m.Width)
	for i := range out {
		out[i] = data[i*m.Colors+ch]
	}
	return out
}
