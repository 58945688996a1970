package visualization

import (
	"os"
	"path/filepath"
	"testing"

	"gradsmooth/internal/models"
	"gradsmooth/pkg/gradient"
)

// edgeMaps builds maps for a 6x6 image with a vertical step edge
func edgeMaps() *gradient.Maps {
	img := models.NewImage(6, 6, 2)
	for row := 0; row < 6; row++ {
		for col := 3; col < 6; col++ {
			img.Set(row, col, 0, 200)
		}
	}
	return gradient.NewField(img).Maps()
}

// TestExtractFieldMagnitude verifies normalization of the magnitude map
func TestExtractFieldMagnitude(t *testing.T) {
	viewer := NewViewer(edgeMaps())

	img, err := viewer.ExtractField("magnitude", 0)
	if err != nil {
		t.Fatalf("Failed to extract magnitude: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 6 || bounds.Dy() != 6 {
		t.Errorf("Expected 6x6 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Columns 2 and 3 straddle the edge and carry the maximum magnitude
	if got := img.GrayAt(2, 2).Y; got != 255 {
		t.Errorf("Expected 255 at the edge, got %d", got)
	}
	if got := img.GrayAt(1, 2).Y; got != 0 {
		t.Errorf("Expected 0 away from the edge, got %d", got)
	}

	// Channel 1 is flat
	flat, err := viewer.ExtractField("magnitude", 1)
	if err != nil {
		t.Fatalf("Failed to extract magnitude: %v", err)
	}
	for _, p := range flat.Pix {
		if p != 0 {
			t.Fatal("Expected an all-black magnitude image for a flat channel")
		}
	}
}

func TestExtractFieldAngle(t *testing.T) {
	viewer := NewViewer(edgeMaps())

	img, err := viewer.ExtractField("angle", 0)
	if err != nil {
		t.Fatalf("Failed to extract angle: %v", err)
	}

	// Angle π maps to white, angle 0 to the middle gray
	if got := img.GrayAt(2, 2).Y; got != 255 {
		t.Errorf("Expected 255 for angle π, got %d", got)
	}
	if got := img.GrayAt(0, 0).Y; got != 128 {
		t.Errorf("Expected 128 for angle 0, got %d", got)
	}
}

func TestExtractFieldErrors(t *testing.T) {
	viewer := NewViewer(edgeMaps())

	if _, err := viewer.ExtractField("curl", 0); err == nil {
		t.Error("Expected error for an unknown field")
	}
	if _, err := viewer.ExtractField("angle", 2); err == nil {
		t.Error("Expected error for an out of range channel")
	}
	if _, err := viewer.ExtractOrientation(-1); err == nil {
		t.Error("Expected error for a negative channel")
	}
}

func TestExtractOrientation(t *testing.T) {
	viewer := NewViewer(edgeMaps())

	img, err := viewer.ExtractOrientation(0)
	if err != nil {
		t.Fatalf("Failed to extract orientation: %v", err)
	}

	if c := img.RGBAAt(0, 0); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("Expected black where there is no gradient, got %v", c)
	}
	if c := img.RGBAAt(2, 2); c.R == 0 && c.G == 0 && c.B == 0 {
		t.Error("Expected a colored pixel on the edge")
	}
}

func TestSaveFields(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pass_01")
	viewer := NewViewer(edgeMaps())

	if err := viewer.SaveFields(dir); err != nil {
		t.Fatalf("SaveFields failed: %v", err)
	}

	for _, name := range []string{
		"magnitude_c0.png", "angle_c0.png", "orientation_c0.png",
		"magnitude_c1.png", "angle_c1.png", "orientation_c1.png",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestHSV(t *testing.T) {
	tests := []struct {
		h    float64
		want [3]uint8
	}{
		{0, [3]uint8{255, 0, 0}},
		{120, [3]uint8{0, 255, 0}},
		{240, [3]uint8{0, 0, 255}},
		{360, [3]uint8{255, 0, 0}},
	}

	for _, tt := range tests {
		c := hsv(tt.h, 1, 1)
		if [3]uint8{c.R, c.G, c.B} != tt.want {
			t.Errorf("hsv(%v) = %v, want %v", tt.h, c, tt.want)
		}
	}
}
