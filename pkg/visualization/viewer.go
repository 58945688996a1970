package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"gradsmooth/pkg/gradient"
)

// Viewer renders the gradient maps of a filtering pass as images so the
// magnitude and orientation fields can be inspected.
type Viewer struct {
	// maps holds the magnitude and angle of every pixel and channel
	maps *gradient.Maps
}

// NewViewer creates a viewer over the given maps
func NewViewer(maps *gradient.Maps) *Viewer {
	return &Viewer{maps: maps}
}

// ExtractField renders one field of one channel as a grayscale image.
// field is "magnitude" or "angle". Magnitudes are scaled so the largest
// value maps to white; angles map (-π, π] linearly onto [0, 255].
func (v *Viewer) ExtractField(field string, ch int) (*image.Gray, error) {
	if ch < 0 || ch >= v.maps.Colors {
		return nil, fmt.Errorf("channel %d exceeds channel count %d", ch, v.maps.Colors)
	}

	img := image.NewGray(image.Rect(0, 0, v.maps.Width, v.maps.Height))

	switch field {
	case "magnitude":
		plane := v.maps.ChannelMagnitude(ch)
		maxVal := 0.0
		for _, m := range plane {
			maxVal = math.Max(maxVal, m)
		}
		if maxVal == 0 {
			return img, nil
		}
		for i, m := range plane {
			img.Pix[(i/v.maps.Width)*img.Stride+i%v.maps.Width] = uint8(math.Round(m / maxVal * 255))
		}

	case "angle":
		plane := v.maps.ChannelAngle(ch)
		for i, a := range plane {
			img.Pix[(i/v.maps.Width)*img.Stride+i%v.maps.Width] = uint8(math.Round((a + math.Pi) / (2 * math.Pi) * 255))
		}

	default:
		return nil, fmt.Errorf("invalid field: %s (must be magnitude or angle)", field)
	}

	return img, nil
}

// ExtractOrientation renders the angle and magnitude of channel ch as a
// color image: hue follows the angle and brightness the normalized
// magnitude. Pixels without a gradient stay black.
func (v *Viewer) ExtractOrientation(ch int) (*image.RGBA, error) {
	if ch < 0 || ch >= v.maps.Colors {
		return nil, fmt.Errorf("channel %d exceeds channel count %d", ch, v.maps.Colors)
	}

	mags := v.maps.ChannelMagnitude(ch)
	angles := v.maps.ChannelAngle(ch)

	maxVal := 0.0
	for _, m := range mags {
		maxVal = math.Max(maxVal, m)
	}

	img := image.NewRGBA(image.Rect(0, 0, v.maps.Width, v.maps.Height))
	for i := range mags {
		x, y := i%v.maps.Width, i/v.maps.Width
		if mags[i] == 0 {
			img.SetRGBA(x, y, color.RGBA{A: 255})
			continue
		}
		hue := (angles[i] + math.Pi) * 180 / math.Pi
		img.SetRGBA(x, y, hsv(hue, 1, mags[i]/maxVal))
	}

	return img, nil
}

// SaveImage saves an extracted image as PNG
func (v *Viewer) SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveFields writes magnitude, angle and orientation images for every
// channel into outputDir.
func (v *Viewer) SaveFields(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for ch := 0; ch < v.maps.Colors; ch++ {
		for _, field := range []string{"magnitude", "angle"} {
			img, err := v.ExtractField(field, ch)
			if err != nil {
				return err
			}

			filename := filepath.Join(outputDir, fmt.Sprintf("%s_c%d.png", field, ch))
			if err := v.SaveImage(img, filename); err != nil {
				return err
			}
		}

		img, err := v.ExtractOrientation(ch)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("orientation_c%d.png", ch))
		if err := v.SaveImage(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// hsv converts hue in degrees, saturation and value in [0, 1] to RGBA
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
