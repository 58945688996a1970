// Package pipeline runs the gradient-analysis filter over image files:
// loading, smoothing, saving, intermediary export and quality metrics.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gradsmooth/internal/models"
	"gradsmooth/pkg/filter"
	"gradsmooth/pkg/gradient"
	"gradsmooth/pkg/imageio"
	"gradsmooth/pkg/metrics"
	"gradsmooth/pkg/visualization"
)

// Params holds the pipeline configuration.
type Params struct {
	// InputPath is an image file, or a directory whose image files are all
	// processed in numeric filename order.
	InputPath string

	// OutputPath is the output file when InputPath is a file, or the output
	// directory when InputPath is a directory.
	OutputPath string

	// KernelSize is the side of the smoothing window
	KernelSize int

	// Passes is the number of sequential filter runs
	Passes int

	// NumCores bounds the goroutines used within a pass
	NumCores int

	// Channel restricts filtering to one channel; -1 filters every channel.
	Channel int

	// JPEGQuality is used for .jpg outputs; zero means imageio.DefaultJPEGQuality
	JPEGQuality int

	// SaveIntermediaryResults enables export of per-pass gradient maps and outputs
	SaveIntermediaryResults bool

	// IntermediaryDir is where intermediary results are written
	IntermediaryDir string
}

// Result describes one processed image
type Result struct {
	Input   string
	Output  string
	Width   int
	Height  int
	Colors  int
	Elapsed time.Duration
	Metrics metrics.Report
}

// Pipeline processes one image or a directory of images.
type Pipeline struct {
	params  *Params
	results []Result
}

// New creates a pipeline with the provided parameters
func New(params *Params) *Pipeline {
	return &Pipeline{params: params}
}

// Results returns the results of the last Process call
func (p *Pipeline) Results() []Result {
	return p.results
}

// Process runs the pipeline
func (p *Pipeline) Process() error {
	p.results = nil

	info, err := os.Stat(p.params.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if !info.IsDir() {
		return p.processFile(p.params.InputPath, p.params.OutputPath)
	}

	inputs, err := listImages(p.params.InputPath)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no image files found in %s", p.params.InputPath)
	}

	for _, in := range inputs {
		out := filepath.Join(p.params.OutputPath, filepath.Base(in))
		if err := p.processFile(in, out); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(in), err)
		}
	}

	return nil
}

// processFile filters a single image file
func (p *Pipeline) processFile(input, output string) error {
	logger := filter.Logger().With("input", input)
	start := time.Now()

	// Step 1: Load
	logger.Info("loading image")
	img, err := imageio.Load(input)
	if err != nil {
		return err
	}

	stage := p.stageDir(input)
	if p.params.SaveIntermediaryResults {
		if err := imageio.Save(img, filepath.Join(stage, "00_original.png")); err != nil {
			logger.Warn("failed to save original", "error", err)
		}
	}

	// Step 2: Smooth
	logger.Info("filtering", "height", img.Height, "width", img.Width, "colors", img.Colors,
		"kernelSize", p.params.KernelSize, "passes", p.params.Passes)
	smoothed, err := p.smooth(img, stage)
	if err != nil {
		return err
	}

	// Step 3: Save
	logger.Info("saving result", "output", output)
	quality := p.params.JPEGQuality
	if quality == 0 {
		quality = imageio.DefaultJPEGQuality
	}
	if err := imageio.SaveWithQuality(smoothed, output, quality); err != nil {
		return err
	}

	// Step 4: Metrics
	report, err := metrics.Compare(img, smoothed)
	if err != nil {
		return fmt.Errorf("failed to calculate metrics: %w", err)
	}

	p.results = append(p.results, Result{
		Input:   input,
		Output:  output,
		Width:   img.Width,
		Height:  img.Height,
		Colors:  img.Colors,
		Elapsed: time.Since(start),
		Metrics: report,
	})
	logger.Info("done", "rmse", report.RMSE, "psnr", report.PSNR, "elapsed", time.Since(start))

	return nil
}

// smooth applies the filter to every channel, or only to the configured one
func (p *Pipeline) smooth(img *models.Image, stage string) (*models.Image, error) {
	smoother := filter.NewSmoother(filter.Params{
		KernelSize: p.params.KernelSize,
		Passes:     p.params.Passes,
		Workers:    p.params.NumCores,
	})
	if p.params.SaveIntermediaryResults {
		smoother.SetPassObserver(func(pass int, maps *gradient.Maps, output *models.Image) error {
			return saveIntermediaryResult(filepath.Join(stage, fmt.Sprintf("pass_%02d", pass)), maps, output)
		})
	}

	if p.params.Channel < 0 {
		return smoother.Apply(img)
	}

	src, err := img.Channel(p.params.Channel)
	if err != nil {
		return nil, err
	}
	filtered, err := smoother.Apply(src)
	if err != nil {
		return nil, err
	}

	out := img.Clone()
	if err := out.SetChannel(p.params.Channel, filtered); err != nil {
		return nil, err
	}
	return out, nil
}

// stageDir returns the intermediary directory for an input file
func (p *Pipeline) stageDir(input string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(p.params.IntermediaryDir, name)
}

// saveIntermediaryResult writes the gradient maps a pass consumed and the
// image it produced.
func saveIntermediaryResult(dir string, maps *gradient.Maps, output *models.Image) error {
	if err := visualization.NewViewer(maps).SaveFields(dir); err != nil {
		return fmt.Errorf("failed to save gradient maps: %w", err)
	}
	if err := imageio.Save(output, filepath.Join(dir, "output.png")); err != nil {
		return fmt.Errorf("failed to save pass output: %w", err)
	}
	return nil
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// listImages returns the image files of dir, ordered by the number in their
// names and then by name.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, e.Name())
	}

	sort.SliceStable(files, func(i, j int) bool {
		ni, nj := extractNumber(files[i]), extractNumber(files[j])
		if ni != nj {
			return ni < nj
		}
		return files[i] < files[j]
	})

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dir, f)
	}
	return paths, nil
}

// extractNumber returns the first run of digits in filename, or -1
func extractNumber(filename string) int {
	start := -1
	for i, r := range filename {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(filename[start:i])
			return n
		}
	}
	if start >= 0 {
		n, _ := strconv.Atoi(filename[start:])
		return n
	}
	return -1
}
