package models

import (
	"errors"
	"testing"
)

func TestNewImage(t *testing.T) {
	img := NewImage(4, 6, 3)
	if img.Height != 4 || img.Width != 6 || img.Colors != 3 {
		t.Errorf("Expected 4x6x3, got %dx%dx%d", img.Height, img.Width, img.Colors)
	}
	if len(img.Pix) != 4*6*3 {
		t.Errorf("Expected %d samples, got %d", 4*6*3, len(img.Pix))
	}
}

// TestOffsetLayout verifies the row-major interleaved layout
func TestOffsetLayout(t *testing.T) {
	img := NewImage(3, 5, 2)

	tests := []struct {
		row, col, ch int
		want         int
	}{
		{0, 0, 0, 0},
		{0, 0, 1, 1},
		{0, 1, 0, 2},
		{1, 0, 0, 10},
		{2, 4, 1, 29},
	}

	for _, tt := range tests {
		if got := img.Offset(tt.row, tt.col, tt.ch); got != tt.want {
			t.Errorf("Offset(%d, %d, %d) = %d, want %d", tt.row, tt.col, tt.ch, got, tt.want)
		}
	}
}

func TestAtSet(t *testing.T) {
	img := NewImage(3, 3, 3)
	img.Set(1, 2, 2, 200)

	if got := img.At(1, 2, 2); got != 200 {
		t.Errorf("Expected 200, got %d", got)
	}
	if got := img.Pix[(1*3+2)*3+2]; got != 200 {
		t.Errorf("Expected Pix to hold 200, got %d", got)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	img := NewImage(2, 2, 1)

	for _, c := range [][3]int{{-1, 0, 0}, {2, 0, 0}, {0, 2, 0}, {0, 0, 1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic for index %v", c)
				}
			}()
			img.At(c[0], c[1], c[2])
		}()
	}
}

func TestClone(t *testing.T) {
	img := NewImage(2, 2, 1)
	img.Set(0, 0, 0, 10)

	clone := img.Clone()
	clone.Set(0, 0, 0, 99)

	if img.At(0, 0, 0) != 10 {
		t.Error("Modifying clone should not affect original")
	}
	if !img.SameShape(clone) {
		t.Error("Clone should have the same shape")
	}
}

func TestChannelRoundTrip(t *testing.T) {
	img := NewImage(2, 3, 3)
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	green, err := img.Channel(1)
	if err != nil {
		t.Fatalf("Channel failed: %v", err)
	}
	if green.Colors != 1 {
		t.Fatalf("Expected 1 channel, got %d", green.Colors)
	}
	if got := green.At(1, 2, 0); got != img.At(1, 2, 1) {
		t.Errorf("Expected %d, got %d", img.At(1, 2, 1), got)
	}

	for i := range green.Pix {
		green.Pix[i] = 7
	}
	if err := img.SetChannel(1, green); err != nil {
		t.Fatalf("SetChannel failed: %v", err)
	}
	if img.At(0, 0, 1) != 7 || img.At(0, 0, 0) != 0 || img.At(0, 0, 2) != 2 {
		t.Errorf("SetChannel touched the wrong samples: %v", img.Pix[:3])
	}
}

func TestChannelErrors(t *testing.T) {
	img := NewImage(2, 2, 3)

	if _, err := img.Channel(3); err == nil {
		t.Error("Expected error for channel 3")
	}

	err := img.SetChannel(0, NewImage(3, 2, 1))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}

func TestFloat(t *testing.T) {
	img := NewImage(1, 2, 1)
	img.Pix[0], img.Pix[1] = 0, 255

	f := img.Float()
	if f.At(0, 0, 0) != 0 || f.At(0, 1, 0) != 255 {
		t.Errorf("Unexpected float values %v", f.Data)
	}
}
