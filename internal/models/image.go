package models

import (
	"errors"
	"fmt"
)

// MaxSample is the largest value an 8-bit sample can hold.
const MaxSample = 255

// ErrShapeMismatch is returned when two images that must share a shape do not.
var ErrShapeMismatch = errors.New("image shapes differ")

// Image is an 8-bit image with an arbitrary number of interleaved channels
type Image struct {
	// Height is the number of rows
	Height int

	// Width is the number of columns
	Width int

	// Colors is the number of channels per pixel
	Colors int

	// Pix holds the samples in row-major order:
	// index = (row*Width + col)*Colors + channel
	Pix []uint8
}

// FloatImage is the unquantized counterpart of Image. A filtering pass
// writes its weighted averages here before they are rounded back to 8 bits.
type FloatImage struct {
	Height, Width, Colors int

	// Data uses the same layout as Image.Pix
	Data []float64
}

// NewImage allocates a zeroed image
func NewImage(height, width, colors int) *Image {
	return &Image{
		Height: height,
		Width:  width,
		Colors: colors,
		Pix:    make([]uint8, height*width*colors),
	}
}

// NewFloatImage allocates a zeroed float image
func NewFloatImage(height, width, colors int) *FloatImage {
	return &FloatImage{
		Height: height,
		Width:  width,
		Colors: colors,
		Data:   make([]float64, height*width*colors),
	}
}

// InBounds reports whether (row, col, ch) addresses a sample of img.
func (img *Image) InBounds(row, col, ch int) bool {
	return row >= 0 && row < img.Height &&
		col >= 0 && col < img.Width &&
		ch >= 0 && ch < img.Colors
}

// Offset returns the index of (row, col, ch) in Pix.
// It panics if the coordinates are outside the image.
func (img *Image) Offset(row, col, ch int) int {
	if !img.InBounds(row, col, ch) {
		panic(fmt.Sprintf("models: index (%d, %d, %d) out of range for %dx%dx%d image",
			row, col, ch, img.Height, img.Width, img.Colors))
	}
	return (row*img.Width+col)*img.Colors + ch
}

// At returns the sample at (row, col, ch)
func (img *Image) At(row, col, ch int) uint8 {
	return img.Pix[img.Offset(row, col, ch)]
}

// Set stores v at (row, col, ch)
func (img *Image) Set(row, col, ch int, v uint8) {
	img.Pix[img.Offset(row, col, ch)] = v
}

// Clone creates a deep copy of the image.
func (img *Image) Clone() *Image {
	clone := NewImage(img.Height, img.Width, img.Colors)
	copy(clone.Pix, img.Pix)
	return clone
}

// SameShape reports whether img and other have identical dimensions.
func (img *Image) SameShape(other *Image) bool {
	return img.Height == other.Height && img.Width == other.Width && img.Colors == other.Colors
}

// Channel extracts channel ch as a single-channel image.
func (img *Image) Channel(ch int) (*Image, error) {
	if ch < 0 || ch >= img.Colors {
		return nil, fmt.Errorf("channel %d out of range [0, %d)", ch, img.Colors)
	}

	out := NewImage(img.Height, img.Width, 1)
	for i := 0; i < img.Height*img.Width; i++ {
		out.Pix[i] = img.Pix[i*img.Colors+ch]
	}
	return out, nil
}

// SetChannel overwrites channel ch of img with the samples of the
// single-channel image src.
func (img *Image) SetChannel(ch int, src *Image) error {
	if ch < 0 || ch >= img.Colors {
		return fmt.Errorf("channel %d out of range [0, %d)", ch, img.Colors)
	}
	if src.Colors != 1 || src.Height != img.Height || src.Width != img.Width {
		return fmt.Errorf("set channel %d: %w: got %dx%dx%d, want %dx%dx1",
			ch, ErrShapeMismatch, src.Height, src.Width, src.Colors, img.Height, img.Width)
	}

	for i := 0; i < img.Height*img.Width; i++ {
		img.Pix[i*img.Colors+ch] = src.Pix[i]
	}
	return nil
}

// Float converts the image to a FloatImage without rescaling.
func (img *Image) Float() *FloatImage {
	out := NewFloatImage(img.Height, img.Width, img.Colors)
	for i, v := range img.Pix {
		out.Data[i] = float64(v)
	}
	return out
}

// Offset returns the index of (row, col, ch) in Data.
// It panics if the coordinates are outside the image.
func (f *FloatImage) Offset(row, col, ch int) int {
	if row < 0 || row >= f.Height || col < 0 || col >= f.Width || ch < 0 || ch >= f.Colors {
		panic(fmt.Sprintf("models: index (%d, %d, %d) out of range for %dx%dx%d image",
			row, col, ch, f.Height, f.Width, f.Colors))
	}
	return (row*f.Width+col)*f.Colors + ch
}

// At returns the value at (row, col, ch)
func (f *FloatImage) At(row, col, ch int) float64 {
	return f.Data[f.Offset(row, col, ch)]
}

// Set stores v at (row, col, ch)
func (f *FloatImage) Set(row, col, ch int, v float64) {
	f.Data[f.Offset(row, col, ch)] = v
}
