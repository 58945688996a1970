// Package metrics compares a filtered image with its source.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gradsmooth/internal/models"
	"gradsmooth/pkg/gradient"
)

// Report holds the quality metrics of a filtering run.
type Report struct {
	// RMSE is the root mean square difference of all samples, in sample units
	RMSE float64

	// PSNR is the peak signal-to-noise ratio in dB. Identical images give +Inf.
	PSNR float64

	// SSIM is a global structural similarity index averaged over channels.
	// Values range from -1 to 1, with 1 indicating identical images.
	SSIM float64

	// Correlation is the Pearson correlation of all samples
	Correlation float64

	// EdgePreserved is the ratio of total gradient magnitude after filtering
	// to total gradient magnitude before. Smoothing lowers it; a value near 1
	// means edges kept their strength.
	EdgePreserved float64

	// Channels holds per-channel statistics
	Channels []ChannelStats
}

// ChannelStats describes one channel before and after filtering.
type ChannelStats struct {
	MeanBefore, StdDevBefore float64
	MeanAfter, StdDevAfter   float64
}

// Compare computes the quality metrics between original and filtered.
func Compare(original, filtered *models.Image) (Report, error) {
	if !original.SameShape(filtered) {
		return Report{}, fmt.Errorf("compare %dx%dx%d with %dx%dx%d: %w",
			original.Height, original.Width, original.Colors,
			filtered.Height, filtered.Width, filtered.Colors, models.ErrShapeMismatch)
	}
	if len(original.Pix) == 0 {
		return Report{}, fmt.Errorf("compare: empty image")
	}

	a := original.Float().Data
	b := filtered.Float().Data

	var r Report
	r.RMSE = RMSE(a, b)
	r.PSNR = PSNR(r.RMSE, models.MaxSample)
	r.Correlation = correlation(a, b)
	r.EdgePreserved = EdgePreservation(original, filtered)

	r.Channels = make([]ChannelStats, original.Colors)
	ssim := 0.0
	for ch := 0; ch < original.Colors; ch++ {
		x := channel(a, original.Colors, ch)
		y := channel(b, original.Colors, ch)

		cs := &r.Channels[ch]
		cs.MeanBefore, cs.StdDevBefore = stat.MeanStdDev(x, nil)
		cs.MeanAfter, cs.StdDevAfter = stat.MeanStdDev(y, nil)

		ssim += SSIM(x, y, models.MaxSample)
	}
	r.SSIM = ssim / float64(original.Colors)

	return r, nil
}

// RMSE returns the root mean square error between two equally long slices.
func RMSE(a, b []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return floats.Distance(a, b, 2) / math.Sqrt(float64(len(a)))
}

// PSNR converts an RMSE into a peak signal-to-noise ratio in dB.
func PSNR(rmse, peak float64) float64 {
	if rmse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(peak/rmse)
}

// SSIM computes a single-window structural similarity index
func SSIM(x, y []float64, dynamicRange float64) float64 {
	const k1 = 0.01
	const k2 = 0.03
	c1 := (k1 * dynamicRange) * (k1 * dynamicRange)
	c2 := (k2 * dynamicRange) * (k2 * dynamicRange)

	if len(x) < 2 {
		if len(x) == 1 && x[0] == y[0] {
			return 1
		}
		return 0
	}

	muX, muY := stat.Mean(x, nil), stat.Mean(y, nil)
	varX, varY := stat.Variance(x, nil), stat.Variance(y, nil)
	cov := stat.Covariance(x, y, nil)

	num := (2*muX*muY + c1) * (2*cov + c2)
	den := (muX*muX + muY*muY + c1) * (varX + varY + c2)
	return num / den
}

// EdgePreservation returns the ratio of summed gradient magnitudes of
// filtered to original. An original without gradients yields 1.
func EdgePreservation(original, filtered *models.Image) float64 {
	before := floats.Sum(gradient.NewField(original).Maps().Magnitude)
	after := floats.Sum(gradient.NewField(filtered).Maps().Magnitude)
	if before == 0 {
		return 1
	}
	return after / before
}

func correlation(a, b []float64) float64 {
	if stat.Variance(a, nil) == 0 || stat.Variance(b, nil) == 0 {
		if floats.Equal(a, b) {
			return 1
		}
		return 0
	}
	return stat.Correlation(a, b, nil)
}

func channel(data []float64, colors, ch int) []float64 {
	out := make([]float64, len(data)/colors)
	for i := range out {
		out[i] = data[i*colors+ch]
	}
	return out
}
