// Package configurator holds the console dialogue of the address tool: the
// start menu, the crop-region tuning loop and the folder prompt.
package configurator

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/photo-field-ocr/internal/extract"
	"github.com/ironsheep/photo-field-ocr/internal/imaging"
	"github.com/ironsheep/photo-field-ocr/internal/ocr"
)

// ErrNoInput is returned when the input ends before a prompt is answered.
var ErrNoInput = errors.New("no input")

// Options controls where tuning previews are written.
type Options struct {
	DebugCropPath    string
	DebugOverlayPath string
	OverlayColor     string
}

// Session reads answers line by line from in and writes prompts to out.
type Session struct {
	scanner *bufio.Scanner
	out     io.Writer

	rec   ocr.Recognizer
	cache *imaging.ImageCache
	opts  Options
}

// New creates a session. rec and cache are used for the tuning preview only.
func New(in io.Reader, out io.Writer, rec ocr.Recognizer, cache *imaging.ImageCache, opts Options) *Session {
	return &Session{
		scanner: bufio.NewScanner(in),
		out:     out,
		rec:     rec,
		cache:   cache,
		opts:    opts,
	}
}

// Banner prints the tool title.
func (s *Session) Banner(title string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintf(s.out, "%s\n%s\n%s\n", line, title, line)
}

// WantsTuning shows the start menu and reports whether the operator chose to
// tune the crop region first. Any answer but "2" processes directly.
func (s *Session) WantsTuning() (bool, error) {
	fmt.Fprintln(s.out, "\nOptions:")
	fmt.Fprintln(s.out, "1. Process images with default settings")
	fmt.Fprintln(s.out, "2. Adjust crop region first (recommended for first use)")

	choice, err := s.ask("\nSelect option (1-2): ")
	if err != nil {
		return false, err
	}
	return choice == "2", nil
}

// regionOption is one entry of the tuning menu.
type regionOption struct {
	Key   string
	Label string

	// Build returns the region for this option, asking follow-up questions
	// when needed. width and height are the sample's dimensions.
	Build func(s *Session, width, height int) (imaging.RegionSpec, error)
}

func regionOptions() []regionOption {
	preset := func(id string) func(*Session, int, int) (imaging.RegionSpec, error) {
		return func(*Session, int, int) (imaging.RegionSpec, error) {
			return imaging.PresetRegion(id), nil
		}
	}

	return []regionOption{
		{Key: "1", Label: "Middle-right area (default)", Build: preset(imaging.PresetMiddleRight)},
		{Key: "2", Label: "Center middle-right area", Build: preset(imaging.PresetCenterMiddleRight)},
		{Key: "3", Label: "Full middle section", Build: preset(imaging.PresetFullMiddle)},
		{Key: "4", Label: "Custom percentage from bottom", Build: (*Session).askPercent},
		{Key: "5", Label: "Custom pixel values", Build: (*Session).askPixels},
	}
}

// Tune asks for a sample photo, lets the operator pick a crop region, runs a
// test extraction on it and writes the crop and overlay previews. It returns
// the chosen region. An unreadable sample returns current unchanged; an
// unknown menu choice or malformed number falls back to the default region.
func (s *Session) Tune(ctx context.Context, current imaging.RegionSpec) (imaging.RegionSpec, error) {
	sample, err := s.ask("Enter path to a test image: ")
	if err != nil {
		return current, err
	}

	if info, statErr := os.Stat(sample); statErr != nil || info.IsDir() {
		fmt.Fprintln(s.out, "Invalid file path.")
		return current, nil
	}

	width, height, err := imaging.Dimensions(s.cache, sample)
	if err != nil {
		fmt.Fprintf(s.out, "Cannot read image: %v\n", err)
		return current, nil
	}
	fmt.Fprintf(s.out, "\nImage dimensions: %dx%d pixels\n", width, height)

	spec, err := s.chooseRegion(width, height)
	if err != nil {
		return current, err
	}

	s.preview(ctx, sample, spec)
	return spec, nil
}

func (s *Session) chooseRegion(width, height int) (imaging.RegionSpec, error) {
	options := regionOptions()

	fmt.Fprintln(s.out, "\nCrop region options:")
	for _, o := range options {
		fmt.Fprintf(s.out, "%s. %s\n", o.Key, o.Label)
	}

	choice, err := s.ask(fmt.Sprintf("\nSelect option (1-%d): ", len(options)))
	if err != nil {
		return imaging.RegionSpec{}, err
	}

	for _, o := range options {
		if o.Key != choice {
			continue
		}
		spec, err := o.Build(s, width, height)
		if errors.Is(err, ErrNoInput) {
			return imaging.RegionSpec{}, err
		}
		if err != nil {
			fmt.Fprintf(s.out, "%v, using default.\n", err)
			return imaging.DefaultRegion(), nil
		}
		return spec, nil
	}

	fmt.Fprintln(s.out, "Invalid choice, using default.")
	return imaging.DefaultRegion(), nil
}

func (s *Session) askPercent(_, _ int) (imaging.RegionSpec, error) {
	answer, err := s.ask("Enter percentage from bottom (e.g., 15): ")
	if err != nil {
		return imaging.RegionSpec{}, err
	}
	p, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return imaging.RegionSpec{}, fmt.Errorf("invalid percentage %q", answer)
	}
	spec := imaging.PercentFromBottomRegion(p)
	if err := spec.Validate(); err != nil {
		return imaging.RegionSpec{}, err
	}
	return spec, nil
}

func (s *Session) askPixels(width, height int) (imaging.RegionSpec, error) {
	prompts := []string{
		fmt.Sprintf("Left (0-%d): ", width),
		fmt.Sprintf("Top (0-%d): ", height),
		fmt.Sprintf("Right (0-%d): ", width),
		fmt.Sprintf("Bottom (0-%d): ", height),
	}

	var v [4]int
	for i, p := range prompts {
		answer, err := s.ask(p)
		if err != nil {
			return imaging.RegionSpec{}, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			return imaging.RegionSpec{}, fmt.Errorf("invalid pixel value %q", answer)
		}
		v[i] = n
	}
	return imaging.PixelRegion(v[0], v[1], v[2], v[3]), nil
}

// preview runs the address extractor on the sample with spec and saves the
// debug images. Failures are reported to the operator, never returned.
func (s *Session) preview(ctx context.Context, sample string, spec imaging.RegionSpec) {
	ex := extract.NewAddress(s.rec, s.cache, spec)
	fmt.Fprintf(s.out, "\nTesting extraction (%s)...\n", ex.Region())

	res := ex.Extract(ctx, sample)
	fmt.Fprintf(s.out, "\nExtracted text:\n%s\n", res.Cell())

	img, err := s.cache.Load(sample)
	if err != nil {
		fmt.Fprintf(s.out, "Cannot reload sample: %v\n", err)
		return
	}
	b := img.Bounds()
	r, err := ex.Rectangle(b.Dx(), b.Dy())
	if err != nil {
		fmt.Fprintf(s.out, "Cannot resolve region: %v\n", err)
		return
	}
	r = r.Add(b.Min)
	log.Printf("Tuning region %s resolved to %v", spec, r)

	if s.opts.DebugCropPath != "" {
		if err := imaging.SaveCrop(img, r, s.opts.DebugCropPath); err != nil {
			fmt.Fprintf(s.out, "Cannot save cropped region: %v\n", err)
		} else {
			fmt.Fprintf(s.out, "\nSaved cropped region to: %s\n", s.opts.DebugCropPath)
		}
	}

	if s.opts.DebugOverlayPath != "" {
		if err := imaging.SaveOverlay(img, r, s.opts.OverlayColor, s.opts.DebugOverlayPath); err != nil {
			fmt.Fprintf(s.out, "Cannot save region overlay: %v\n", err)
		} else {
			fmt.Fprintf(s.out, "Saved region overlay to: %s\n", s.opts.DebugOverlayPath)
		}
	}
}

// Confirm asks whether to use the tuned region. Only "y" (any case) accepts.
func (s *Session) Confirm() (bool, error) {
	answer, err := s.ask("\nUse this crop region? (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

// FolderPath asks for the root folder of the photos.
func (s *Session) FolderPath() (string, error) {
	return s.ask("\nEnter the path to your image folder: ")
}

// ask prints prompt and returns the next trimmed input line.
func (s *Session) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}
