package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
)

// Preprocess holds the optional filters applied to a region before OCR.
// The zero value leaves the image untouched.
type Preprocess struct {
	// Grayscale drops color before recognition. Stamped text on photos is
	// usually white or yellow on a busy background.
	Grayscale bool `yaml:"grayscale"`

	// Contrast is a change in [-1, 1] passed to bild's contrast adjustment.
	Contrast float64 `yaml:"contrast"`

	// Scale upsamples the region before OCR. 0 and 1 mean no scaling.
	Scale float64 `yaml:"scale"`
}

// Enabled reports whether any filter is configured.
func (p Preprocess) Enabled() bool {
	return p.Grayscale || p.Contrast != 0 || (p.Scale != 0 && p.Scale != 1)
}

// Validate checks the ranges bild and the resampler accept.
func (p Preprocess) Validate() error {
	if p.Contrast < -1 || p.Contrast > 1 {
		return fmt.Errorf("contrast must be in [-1,1], got %g", p.Contrast)
	}
	if p.Scale < 0 {
		return fmt.Errorf("scale must not be negative, got %g", p.Scale)
	}
	return nil
}

// Apply runs the configured filters in order: scale, grayscale, contrast.
func (p Preprocess) Apply(img image.Image) image.Image {
	out := Scale(img, p.Scale)
	if p.Grayscale {
		out = effect.Grayscale(out)
	}
	if p.Contrast != 0 {
		out = adjust.Contrast(out, p.Contrast)
	}
	return out
}
