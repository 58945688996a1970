package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gradsmooth/pkg/config"
	"gradsmooth/pkg/filter"
	"gradsmooth/pkg/pipeline"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "gradsmooth.yaml", "YAML configuration file (defaults are used if it does not exist)")
	writeConfig := flag.Bool("write-config", false, "Write the effective configuration to -config and exit")
	inputPath := flag.String("input", "", "Input image file or directory of images")
	outputPath := flag.String("output", "", "Output image file, or directory when -input is a directory")
	kernelSize := flag.Int("ksize", 0, "Kernel size, odd values expected (overrides config)")
	passes := flag.Int("passes", 0, "Number of sequential filter runs (overrides config)")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (overrides config)")
	channel := flag.Int("channel", -2, "Filter only this channel; -1 filters all (overrides config)")
	saveIntermediary := flag.Bool("save-intermediary", false, "Save per-pass gradient maps and outputs")
	intermediaryDir := flag.String("intermediary-dir", "", "Directory for intermediary results (overrides config)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Command line flags override the configuration file
	if *kernelSize != 0 {
		cfg.Filter.KernelSize = *kernelSize
	}
	if *passes != 0 {
		cfg.Filter.Passes = *passes
	}
	if *numCores != 0 {
		cfg.Filter.NumCores = *numCores
	}
	if *channel != -2 {
		cfg.Filter.Channel = *channel
	}
	if *saveIntermediary {
		cfg.Output.SaveIntermediaryResults = true
	}
	if *intermediaryDir != "" {
		cfg.Output.IntermediaryDir = *intermediaryDir
	}
	if *verbose {
		cfg.Output.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *writeConfig {
		if err := config.SaveConfig(cfg, *configPath); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		fmt.Printf("Configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *inputPath == "" || *outputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	filter.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	fmt.Println("================================")
	fmt.Println("IMAGE SMOOTHING BASED ON GRADIENT ANALYSIS")
	fmt.Println("================================")
	fmt.Printf("Kernel size: %d, passes: %d, cores: %d\n",
		cfg.Filter.KernelSize, cfg.Filter.Passes, cfg.Filter.NumCores)

	params := &pipeline.Params{
		InputPath:               *inputPath,
		OutputPath:              *outputPath,
		KernelSize:              cfg.Filter.KernelSize,
		Passes:                  cfg.Filter.Passes,
		NumCores:                cfg.Filter.NumCores,
		Channel:                 cfg.Filter.Channel,
		JPEGQuality:             cfg.Output.JPEGQuality,
		SaveIntermediaryResults: cfg.Output.SaveIntermediaryResults,
		IntermediaryDir:         cfg.Output.IntermediaryDir,
	}

	p := pipeline.New(params)

	startTime := time.Now()
	if err := p.Process(); err != nil {
		log.Fatalf("Filtering failed: %v", err)
	}
	processingTime := time.Since(startTime)

	fmt.Printf("\nFiltering completed successfully in %.2f seconds!\n\n", processingTime.Seconds())

	for _, r := range p.Results() {
		m := r.Metrics
		fmt.Printf("%s -> %s (%dx%d, %d channels, %.2fs)\n",
			r.Input, r.Output, r.Width, r.Height, r.Colors, r.Elapsed.Seconds())
		fmt.Printf("  RMSE: %.3f  PSNR: %.2f dB  SSIM: %.4f  Correlation: %.4f  Edge preservation: %.3f\n",
			m.RMSE, m.PSNR, m.SSIM, m.Correlation, m.EdgePreserved)
		for ch, cs := range m.Channels {
			fmt.Printf("  channel %d: mean %.2f -> %.2f, stddev %.2f -> %.2f\n",
				ch, cs.MeanBefore, cs.MeanAfter, cs.StdDevBefore, cs.StdDevAfter)
		}
	}

	if cfg.Output.SaveIntermediaryResults {
		fmt.Println("\nIntermediary results saved to:")
		fmt.Printf("%s\n", cfg.Output.IntermediaryDir)
		fmt.Println("Each pass directory holds the gradient magnitude, angle and orientation maps")
		fmt.Println("the pass consumed, and the quantized output it produced.")
	}
}
