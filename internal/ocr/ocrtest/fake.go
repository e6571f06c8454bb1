// Package ocrtest provides a scripted ocr.Recognizer for tests that should not
// depend on a Tesseract install.
package ocrtest

import (
	"image"
	"sync"

	"github.com/ironsheep/photo-field-ocr/internal/ocr"
)

// Call records the arguments of one Recognize call.
type Call struct {
	Bounds image.Rectangle
	Region *image.Rectangle
	Mode   ocr.Mode
}

// Recognizer returns Text and Err for every call, or defers to Func when set.
// Check returns CheckErr.
type Recognizer struct {
	Text     string
	Err      error
	CheckErr error
	Func     func(img image.Image, region *image.Rectangle, mode ocr.Mode) (string, error)

	mu    sync.Mutex
	calls []Call
}

// Recognize implements ocr.Recognizer.
func (r *Recognizer) Recognize(img image.Image, region *image.Rectangle, mode ocr.Mode) (string, error) {
	c := Call{Bounds: img.Bounds(), Mode: mode}
	if region != nil {
		rc := *region
		c.Region = &rc
	}

	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()

	if r.Func != nil {
		return r.Func(img, region, mode)
	}
	return r.Text, r.Err
}

// Calls returns a copy of the recorded calls.
func (r *Recognizer) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Check implements ocr.Engine.
func (r *Recognizer) Check() error { return r.CheckErr }

var _ ocr.Engine = (*Recognizer)(nil)
