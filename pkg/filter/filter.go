// Package filter implements smoothing based on gradient analysis.
//
// Each pixel is replaced by a weighted average of its neighborhood. Weights
// favor neighbors whose gradient runs along the same edge orientation as the
// center pixel's gradient and whose gradient magnitude is small, so flat
// regions blend freely while edges are preserved. The filter can be run for
// several passes, each pass reading the quantized output of the previous one.
package filter

import (
	"errors"
	"fmt"
	"time"

	"gradsmooth/internal/models"
	"gradsmooth/pkg/gradient"
)

var (
	// ErrInvalidDimension means the image is too small to have gradients
	// or to hold a single kernel window.
	ErrInvalidDimension = errors.New("invalid image dimension")

	// ErrInvalidKernelSize means the kernel size is below 1.
	ErrInvalidKernelSize = errors.New("invalid kernel size")

	// ErrInvalidPassCount means the number of passes is below 1.
	ErrInvalidPassCount = errors.New("invalid pass count")
)

// Params holds the filter parameters
type Params struct {
	// KernelSize is the side of the square window. Odd values are expected;
	// the window radius is KernelSize/2.
	KernelSize int

	// Passes is the number of sequential runs, at least 1
	Passes int

	// Workers bounds the goroutines used within a pass. Zero or negative
	// uses every CPU; 1 runs on the calling goroutine.
	Workers int
}

// ProgressCallback is called after each completed pass
type ProgressCallback func(completed, total int)

// PassObserver receives the intermediate state of each pass: the gradient
// maps of the pass input and the quantized output. Neither may be modified.
type PassObserver func(pass int, maps *gradient.Maps, output *models.Image) error

// Smoother runs the iterative filter.
type Smoother struct {
	params   Params
	progress ProgressCallback
	observer PassObserver
}

// NewSmoother creates a smoother with the given parameters
func NewSmoother(params Params) *Smoother {
	return &Smoother{params: params}
}

// SetProgressCallback sets a function called after each pass
func (s *Smoother) SetProgressCallback(callback ProgressCallback) {
	s.progress = callback
}

// SetPassObserver sets a function that receives each pass's gradient maps
// and output. An error from the observer aborts Apply.
func (s *Smoother) SetPassObserver(observer PassObserver) {
	s.observer = observer
}

// Params returns the smoother's parameters
func (s *Smoother) Params() Params {
	return s.params
}

// Validate checks the parameters against an image of the given size.
func (s *Smoother) Validate(height, width, colors int) error {
	if s.params.KernelSize < 1 {
		return fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidKernelSize, s.params.KernelSize)
	}
	if s.params.Passes < 1 {
		return fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidPassCount, s.params.Passes)
	}
	if height <= 0 || width <= 0 || colors <= 0 {
		return fmt.Errorf("%w: empty %dx%dx%d image", ErrInvalidDimension, height, width, colors)
	}

	window := 2*(s.params.KernelSize/2) + 1
	minSide := 3
	if window > minSide {
		minSide = window
	}
	if height < minSide || width < minSide {
		return fmt.Errorf("%w: %dx%d image, need at least %dx%d for kernel size %d",
			ErrInvalidDimension, height, width, minSide, minSide, s.params.KernelSize)
	}

	return nil
}

// Apply filters img and returns a new image of the same shape. img is not
// modified.
func (s *Smoother) Apply(img *models.Image) (*models.Image, error) {
	if err := s.Validate(img.Height, img.Width, img.Colors); err != nil {
		return nil, err
	}
	return s.run(img, nil)
}

// ApplyWithField is like Apply but uses field for the first pass instead of
// recomputing it. field must have been built from img.
func (s *Smoother) ApplyWithField(img *models.Image, field *gradient.Field) (*models.Image, error) {
	if err := s.Validate(img.Height, img.Width, img.Colors); err != nil {
		return nil, err
	}
	if field.Height() != img.Height || field.Width() != img.Width || field.Colors() != img.Colors {
		return nil, fmt.Errorf("gradient field %dx%dx%d: %w with image %dx%dx%d",
			field.Height(), field.Width(), field.Colors(), models.ErrShapeMismatch,
			img.Height, img.Width, img.Colors)
	}
	return s.run(img, field)
}

func (s *Smoother) run(img *models.Image, field *gradient.Field) (*models.Image, error) {
	logger := Logger()
	current := img

	for pass := 1; pass <= s.params.Passes; pass++ {
		start := time.Now()

		if pass > 1 || field == nil {
			field = gradient.NewField(current)
		}
		maps := field.Maps()

		out := Pass(current, maps, s.params.KernelSize, s.params.Workers)
		current = QuantizeImage(out)

		logger.Debug("filter pass completed",
			"pass", pass,
			"of", s.params.Passes,
			"kernelSize", s.params.KernelSize,
			"elapsed", time.Since(start))

		if s.observer != nil {
			if err := s.observer(pass, maps, current); err != nil {
				return nil, fmt.Errorf("pass %d observer: %w", pass, err)
			}
		}
		if s.progress != nil {
			s.progress(pass, s.params.Passes)
		}
	}

	return current, nil
}

// Filter smooths img with the given kernel size and number of passes using
// every CPU. It returns a new image; img is not modified.
func Filter(img *models.Image, kernelSize, passes int) (*models.Image, error) {
	return NewSmoother(Params{KernelSize: kernelSize, Passes: passes}).Apply(img)
}
