package metrics

import (
	"errors"
	"math"
	"testing"

	"gradsmooth/internal/models"
	"gradsmooth/pkg/filter"
)

func noisyEdge(height, width int) *models.Image {
	img := models.NewImage(height, width, 2)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			base := 40
			if col >= width/2 {
				base = 200
			}
			noise := (row*31 + col*17) % 21
			img.Set(row, col, 0, uint8(base+noise))
			img.Set(row, col, 1, uint8(base/2+noise))
		}
	}
	return img
}

func TestCompareIdentical(t *testing.T) {
	img := noisyEdge(10, 10)

	r, err := Compare(img, img.Clone())
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if r.RMSE != 0 {
		t.Errorf("Expected RMSE 0, got %v", r.RMSE)
	}
	if !math.IsInf(r.PSNR, 1) {
		t.Errorf("Expected +Inf PSNR, got %v", r.PSNR)
	}
	if math.Abs(r.SSIM-1) > 1e-12 {
		t.Errorf("Expected SSIM 1, got %v", r.SSIM)
	}
	if math.Abs(r.Correlation-1) > 1e-12 {
		t.Errorf("Expected correlation 1, got %v", r.Correlation)
	}
	if r.EdgePreserved != 1 {
		t.Errorf("Expected edge preservation 1, got %v", r.EdgePreserved)
	}
	if len(r.Channels) != 2 {
		t.Fatalf("Expected 2 channel entries, got %d", len(r.Channels))
	}
	if r.Channels[0].MeanBefore != r.Channels[0].MeanAfter {
		t.Error("Channel means should match for identical images")
	}
}

func TestCompareFiltered(t *testing.T) {
	img := noisyEdge(16, 16)

	out, err := filter.NewSmoother(filter.Params{KernelSize: 5, Passes: 2, Workers: 1}).Apply(img)
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	r, err := Compare(img, out)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if r.RMSE <= 0 {
		t.Errorf("Expected positive RMSE after smoothing, got %v", r.RMSE)
	}
	if r.SSIM <= 0.5 || r.SSIM > 1 {
		t.Errorf("Expected SSIM in (0.5, 1], got %v", r.SSIM)
	}
	if r.EdgePreserved >= 1 {
		t.Errorf("Smoothing noise should lower total gradient magnitude, got ratio %v", r.EdgePreserved)
	}
}

func TestCompareShapeMismatch(t *testing.T) {
	_, err := Compare(models.NewImage(3, 3, 1), models.NewImage(3, 4, 1))
	if !errors.Is(err, models.ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
}

func TestRMSEAndPSNR(t *testing.T) {
	a := []float64{0, 0, 0, 0}
	b := []float64{2, 2, 2, 2}

	if got := RMSE(a, b); got != 2 {
		t.Errorf("Expected RMSE 2, got %v", got)
	}

	want := 20 * math.Log10(255.0/2)
	if got := PSNR(2, 255); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected PSNR %v, got %v", want, got)
	}
}

func TestSSIMUniform(t *testing.T) {
	x := []float64{100, 100, 100, 100}
	if got := SSIM(x, x, 255); math.Abs(got-1) > 1e-12 {
		t.Errorf("Expected SSIM 1 for identical uniform data, got %v", got)
	}

	y := []float64{0, 0, 0, 0}
	if got := SSIM(x, y, 255); got >= 0.5 {
		t.Errorf("Expected low SSIM for different levels, got %v", got)
	}
}

func TestEdgePreservationFlat(t *testing.T) {
	img := models.NewImage(5, 5, 1)
	if got := EdgePreservation(img, img); got != 1 {
		t.Errorf("Expected 1 for a flat image, got %v", got)
	}
}
