// Package extract turns a photo into the single string that lands in a report
// cell. Address and Coordinates are the two implementations of Extractor.
package extract

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/photo-field-ocr/internal/imaging"
)

// Markers written in place of a value. They are not errors.
const (
	NoTextFound         = "No text found"
	CoordinatesNotFound = "Coordinates not found"
)

// PhotoColumn is the header of the first report column.
const PhotoColumn = "Photo No."

// Extractor pulls one field out of a photo.
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string

	// Header is the title of the value column.
	Header() string

	// SheetName is the worksheet title, empty for the spreadsheet default.
	SheetName() string

	// Extract never fails: every problem is folded into the Result.
	Extract(ctx context.Context, path string) Result
}

// Result is the outcome for one photo: a value or a failure.
type Result struct {
	Value string
	Err   error
}

// Success wraps an extracted value or a not-found marker.
func Success(value string) Result { return Result{Value: value} }

// Failure wraps an error.
func Failure(err error) Result { return Result{Err: err} }

// OK reports whether the result carries a value.
func (r Result) OK() bool { return r.Err == nil }

// Cell returns the text written to the report for this result.
func (r Result) Cell() string {
	if r.Err != nil {
		return "Error: " + r.Err.Error()
	}
	return r.Value
}

// loader holds what both extractors need to get from a path to pixels.
type loader struct {
	cache *imaging.ImageCache
}

func (l loader) load(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.cache.Load(path)
}

// recoverResult turns a panic during one photo into a Failure so the batch
// moves on to the next file.
func recoverResult(res *Result) {
	if p := recover(); p != nil {
		*res = Failure(fmt.Errorf("panic during extraction: %v", p))
	}
}
