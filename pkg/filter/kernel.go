package filter

import (
	"math"
	"runtime"
	"sync"

	"gradsmooth/internal/models"
	"gradsmooth/pkg/gradient"
)

// Pixel computes the filtered value of channel ch at (row, col).
//
// Every neighbor inside the ksize window (clipped to the image) with a
// non-zero gradient magnitude contributes. The center pixel has weight 1;
// any other neighbor has weight
//
//	(cos(2*(angle(center) - angle(neighbor))) + 1) / magnitude(neighbor)
//
// which peaks for gradients parallel or antiparallel to the center's and
// vanishes for perpendicular ones. When no neighbor contributes, the source
// value is returned unchanged.
func Pixel(src *models.Image, maps *gradient.Maps, ksize, row, col, ch int) float64 {
	radius := ksize / 2
	up, down := row-radius, row+radius+1
	left, right := col-radius, col+radius+1

	centerAngle := maps.Angle[maps.Index(row, col, ch)]

	sumWeights := 0.0
	result := 0.0
	for k := up; k < down; k++ {
		if k < 0 || k >= src.Height {
			continue
		}
		for l := left; l < right; l++ {
			if l < 0 || l >= src.Width {
				continue
			}

			idx := maps.Index(k, l, ch)
			magnitude := maps.Magnitude[idx]
			if magnitude == 0 {
				continue
			}

			weight := 1.0
			if k != row || l != col {
				alpha := 1 / magnitude
				beta := 2 * (centerAngle - maps.Angle[idx])
				weight = (math.Cos(beta) + 1) * alpha
			}

			result += weight * float64(src.At(k, l, ch))
			sumWeights += weight
		}
	}

	if sumWeights == 0 {
		return float64(src.At(row, col, ch))
	}
	return result / sumWeights
}

// Pass applies Pixel to every sample of src and returns the unquantized
// result in a new buffer. src and maps are only read, so rows are split into
// bands and processed by up to workers goroutines. workers <= 0 uses every
// CPU.
func Pass(src *models.Image, maps *gradient.Maps, ksize, workers int) *models.FloatImage {
	dst := models.NewFloatImage(src.Height, src.Width, src.Colors)

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > src.Height {
		workers = src.Height
	}

	if workers <= 1 {
		passRows(src, maps, dst, ksize, 0, src.Height)
		return dst
	}

	// Divide the rows among the workers
	rowsPerWorker := (src.Height + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := start + rowsPerWorker
		if end > src.Height {
			end = src.Height
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			passRows(src, maps, dst, ksize, start, end)
		}(start, end)
	}
	wg.Wait()

	return dst
}

// passRows fills rows [start, end) of dst
func passRows(src *models.Image, maps *gradient.Maps, dst *models.FloatImage, ksize, start, end int) {
	for row := start; row < end; row++ {
		for col := 0; col < src.Width; col++ {
			for ch := 0; ch < src.Colors; ch++ {
				dst.Data[(row*dst.Width+col)*dst.Colors+ch] = Pixel(src, maps, ksize, row, col, ch)
			}
		}
	}
}

// Quantize rounds v to the nearest integer (halves away from zero) and caps
// it at models.MaxSample. Values below zero are returned as is; the kernel
// only averages non-negative samples with non-negative weights, so they do
// not occur in a pass.
func Quantize(v float64) float64 {
	return math.Min(math.Round(v), models.MaxSample)
}

// QuantizeImage converts a pass result back into an 8-bit image.
func QuantizeImage(f *models.FloatImage) *models.Image {
	out := models.NewImage(f.Height, f.Width, f.Colors)
	for i, v := range f.Data {
		out.Pix[i] = uint8(int64(Quantize(v)))
	}
	return out
}
