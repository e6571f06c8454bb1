package ocr

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/photo-field-ocr/internal/imaging"
)

// ErrEngineUnavailable is returned by Check when Tesseract cannot be
// initialized with the configured language data.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Mode selects Tesseract's page segmentation behavior.
type Mode int

const (
	// ModeAuto is the engine default: fully automatic page segmentation.
	ModeAuto Mode = iota

	// ModeSingleBlock treats the input as one uniform block of text (psm 6).
	// Suited to a tight crop around a stamped address.
	ModeSingleBlock
)

func (m Mode) String() string {
	switch m {
	case ModeSingleBlock:
		return "single-block"
	default:
		return "auto"
	}
}

func (m Mode) pageSegMode() gosseract.PageSegMode {
	if m == ModeSingleBlock {
		return gosseract.PSM_SINGLE_BLOCK
	}
	return gosseract.PSM_AUTO
}

// Recognizer turns an image, or a region of it, into text.
//
// A nil region means the whole image. The returned text is raw engine output
// with line breaks preserved.
type Recognizer interface {
	Recognize(img image.Image, region *image.Rectangle, mode Mode) (string, error)
}

// Engine is a Recognizer that can report up front whether it is usable.
type Engine interface {
	Recognizer
	Check() error
}

// Options configures the Tesseract recognizer.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "eng+hin".
	Language string

	// TessdataPrefix is the directory holding *.traineddata files.
	// Empty means the engine's compiled-in default.
	TessdataPrefix string

	// Preprocess is applied to the (cropped) image before recognition.
	Preprocess imaging.Preprocess
}

// Tesseract is a Recognizer backed by libtesseract through gosseract.
// A fresh engine client is created for every call.
type Tesseract struct {
	opts Options
}

// NewTesseract returns a recognizer with the given options.
func NewTesseract(opts Options) *Tesseract {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	return &Tesseract{opts: opts}
}

// Options returns the effective options.
func (t *Tesseract) Options() Options { return t.opts }

// Recognize performs OCR on img, or on the sub-image defined by region.
//
// The image is cropped, preprocessed, encoded to PNG in memory and handed to
// Tesseract with the page segmentation mode selected by mode.
//
// # Errors
//
// Returns an error if the region is empty after intersecting with the image,
// if encoding fails, or if the engine cannot be configured or fails to
// recognize. Empty recognized text is not an error.
func (t *Tesseract) Recognize(img image.Image, region *image.Rectangle, mode Mode) (string, error) {
	src := img
	if region != nil {
		src = imaging.Crop(img, *region)
	}
	if t.opts.Preprocess.Enabled() {
		src = t.opts.Preprocess.Apply(src)
	}

	data, err := imaging.EncodePNG(src)
	if err != nil {
		return "", err
	}

	return t.recognizeBytes(data, mode)
}

func (t *Tesseract) recognizeBytes(data []byte, mode Mode) (string, error) {
	client, err := t.newClient()
	if err != nil {
		return "", err
	}
	defer client.Close()

	if err := client.SetPageSegMode(mode.pageSegMode()); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}

func (t *Tesseract) newClient() (*gosseract.Client, error) {
	client := gosseract.NewClient()

	if t.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(t.opts.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	return client, nil
}

// Check runs a recognition on a small blank image. A missing library,
// tessdata directory or language file is returned as ErrEngineUnavailable.
func (t *Tesseract) Check() error {
	blank := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}

	data, err := imaging.EncodePNG(blank)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	if _, err := t.recognizeBytes(data, ModeAuto); err != nil {
		return fmt.Errorf("%w (language %q, tessdata %q): %v",
			ErrEngineUnavailable, t.opts.Language, t.tessdataLabel(), err)
	}
	return nil
}

var _ Engine = (*Tesseract)(nil)

func (t *Tesseract) tessdataLabel() string {
	if t.opts.TessdataPrefix == "" {
		return "default"
	}
	return t.opts.TessdataPrefix
}

// Version returns the linked Tesseract version.
func (t *Tesseract) Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

// Normalize collapses every run of whitespace, line breaks included, into a
// single space and trims both ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
