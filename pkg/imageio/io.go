// Package imageio converts between image files, image.Image values and
// the interleaved 8-bit buffers the filter works on.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"gradsmooth/internal/models"
)

// DefaultJPEGQuality is used by Save for .jpg and .jpeg files
const DefaultJPEGQuality = 95

// Load decodes the image file at path.
// Supports PNG, JPEG, GIF, BMP, TIFF and WebP.
func Load(path string) (*models.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return FromImage(img), nil
}

// Save encodes img to path using the file extension to pick the format
// (png, jpg/jpeg, gif, bmp, tif/tiff). Unknown extensions are written as PNG.
func Save(img *models.Image, path string) error {
	return SaveWithQuality(img, path, DefaultJPEGQuality)
}

// SaveWithQuality is like Save with an explicit JPEG quality.
func SaveWithQuality(img *models.Image, path string, quality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	out, err := ToImage(img)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, out, &jpeg.Options{Quality: quality})
	case ".gif":
		err = gif.Encode(f, out, nil)
	case ".bmp":
		err = bmp.Encode(f, out)
	case ".tif", ".tiff":
		err = tiff.Encode(f, out, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, out)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	return nil
}

// FromImage converts img into an interleaved buffer. Grayscale images
// become one channel; everything else becomes three RGB channels with
// alpha dropped.
func FromImage(img image.Image) *models.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := models.NewImage(height, width, 1)
		for y := 0; y < height; y++ {
			copy(out.Pix[y*width:(y+1)*width], src.Pix[y*src.Stride:y*src.Stride+width])
		}
		return out

	case *image.Gray16:
		out := models.NewImage(height, width, 1)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Pix[y*width+x] = uint8(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y >> 8)
			}
		}
		return out
	}

	// Normalize every other color model to non-premultiplied RGBA
	rgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	out := models.NewImage(height, width, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*rgba.Stride + x*4
			o := (y*width + x) * 3
			out.Pix[o] = rgba.Pix[i]
			out.Pix[o+1] = rgba.Pix[i+1]
			out.Pix[o+2] = rgba.Pix[i+2]
		}
	}
	return out
}

// ToImage converts a one- or three-channel buffer to an image.Image.
func ToImage(img *models.Image) (image.Image, error) {
	rect := image.Rect(0, 0, img.Width, img.Height)

	switch img.Colors {
	case 1:
		gray := image.NewGray(rect)
		for y := 0; y < img.Height; y++ {
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+img.Width], img.Pix[y*img.Width:(y+1)*img.Width])
		}
		return gray, nil

	case 3:
		rgba := image.NewRGBA(rect)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				i := (y*img.Width + x) * 3
				rgba.SetRGBA(x, y, color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 255})
			}
		}
		return rgba, nil
	}

	return nil, fmt.Errorf("cannot encode image with %d channels", img.Colors)
}
