package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/photo-field-ocr/internal/batch"
	"github.com/ironsheep/photo-field-ocr/internal/config"
	"github.com/ironsheep/photo-field-ocr/internal/configurator"
	"github.com/ironsheep/photo-field-ocr/internal/extract"
	"github.com/ironsheep/photo-field-ocr/internal/imaging"
	"github.com/ironsheep/photo-field-ocr/internal/ocr"
	"github.com/ironsheep/photo-field-ocr/internal/report"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Tools
const (
	toolAddress = "address"
	toolCoords  = "coords"
)

var errInvalidFolder = errors.New("invalid folder path. Please check and try again")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	tool := os.Args[1]
	switch tool {
	case "--version", "-v", "version":
		fmt.Printf("photo-field-ocr %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		fmt.Printf("  Tesseract:  %s\n", ocr.NewTesseract(ocr.Options{}).Version())
		return
	case "--help", "-h", "help":
		printUsage(os.Stdout)
		return
	case toolAddress, toolCoords:
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", tool)
		printUsage(os.Stderr)
		os.Exit(1)
	}

	// Logs go to stderr; stdout carries the prompts and progress
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug() {
		log.Printf("photo-field-ocr v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		cfg.Dump()
	}

	engine := ocr.NewTesseract(cfg.OCROptions())
	if cfg.Debug() {
		opts := engine.Options()
		log.Printf("Tesseract %s: language=%s preprocess=%t", engine.Version(), opts.Language, opts.Preprocess.Enabled())
	}
	if err := run(context.Background(), tool, cfg, engine, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "photo-field-ocr - extract stamped addresses or GPS coordinates from site photos")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: photo-field-ocr <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  address          Read the address band of every photo (with optional crop tuning)")
	fmt.Fprintln(w, "  coords           Read the Lat/Long stamp of every photo")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  PHOTO_OCR_CONFIG=<file>            YAML configuration file")
	fmt.Fprintln(w, "  PHOTO_OCR_LANGUAGE=eng             Tesseract language(s)")
	fmt.Fprintln(w, "  PHOTO_OCR_TESSDATA_PREFIX=<dir>    Directory holding *.traineddata")
	fmt.Fprintln(w, "  PHOTO_OCR_OUTPUT_MODE=centralized  centralized or per-folder")
	fmt.Fprintln(w, "  PHOTO_OCR_LOG_LEVEL=debug          Enable debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Variables may also be set in a .env file in the working directory.")
}

// run drives one tool end to end: the prompts, the engine check and the batch.
func run(ctx context.Context, tool string, cfg *config.Config, engine ocr.Engine, in io.Reader, out io.Writer) error {
	cache := imaging.NewImageCache()
	session := configurator.New(in, out, engine, cache, configurator.Options{
		DebugCropPath:    cfg.DebugCropPath,
		DebugOverlayPath: cfg.DebugOverlayPath,
		OverlayColor:     cfg.OverlayColor,
	})

	var (
		ex   extract.Extractor
		mode report.OutputMode
	)

	switch tool {
	case toolAddress:
		session.Banner("Image Text Extraction Tool")

		region := cfg.Region
		tune, err := session.WantsTuning()
		if err != nil {
			return err
		}
		if tune {
			if err := engine.Check(); err != nil {
				return err
			}
			if region, err = session.Tune(ctx, region); err != nil {
				return err
			}
			ok, err := session.Confirm()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Exiting...")
				return nil
			}
		}

		ex = extract.NewAddress(engine, cache, region)
		mode = cfg.OutputModeOr(report.Centralized)

	case toolCoords:
		session.Banner("Image Coordinate Extraction Tool")

		ex = extract.NewCoordinates(engine, cache)
		mode = cfg.OutputModeOr(report.PerFolder)

	default:
		return fmt.Errorf("unknown tool %q", tool)
	}

	root, err := session.FolderPath()
	if err != nil {
		return err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return errInvalidFolder
	}

	if err := engine.Check(); err != nil {
		return err
	}

	runner := &batch.Runner{
		Extractor:     ex,
		Cache:         cache,
		Mode:          mode,
		OutputDirName: cfg.OutputDirName,
		Out:           out,
		Debug:         cfg.Debug(),
	}

	sum, err := runner.Run(ctx, root)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nAll done: %s\n", sum)
	return nil
}
