package extract

import (
	"context"
	"regexp"

	"github.com/ironsheep/photo-field-ocr/internal/imaging"
	"github.com/ironsheep/photo-field-ocr/internal/ocr"
)

// latLongPattern matches the GPS stamp, e.g. "Lat 27.1234° Long 78.5678°".
// Values are unsigned decimal degrees; the stamp never prints hemispheres.
// Separators are any whitespace, vertical tab and Unicode spaces (NBSP) included.
var latLongPattern = regexp.MustCompile(
	`Lat` + coordSep + `([0-9]+\.[0-9]+)°?` + coordSep + `Long` + coordSep + `([0-9]+\.[0-9]+)°?`)

const coordSep = `[\s\v\p{Zs}]+`

// MatchCoordinates finds the first latitude/longitude stamp in text and
// returns both numbers exactly as printed.
func MatchCoordinates(text string) (lat, long string, ok bool) {
	m := latLongPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Coordinates reads the GPS stamp from the whole photo.
type Coordinates struct {
	loader
	rec ocr.Recognizer
}

// NewCoordinates returns a coordinate extractor.
func NewCoordinates(rec ocr.Recognizer, cache *imaging.ImageCache) *Coordinates {
	return &Coordinates{loader: loader{cache: cache}, rec: rec}
}

func (c *Coordinates) Name() string      { return "coords" }
func (c *Coordinates) Header() string    { return "Lat, Long" }
func (c *Coordinates) SheetName() string { return "" }

// Extract runs OCR on the full photo in the engine's default mode and
// matches the raw, multi-line text. The result is "<lat>, <long>" or
// CoordinatesNotFound.
func (c *Coordinates) Extract(ctx context.Context, path string) (res Result) {
	defer recoverResult(&res)

	img, err := c.load(ctx, path)
	if err != nil {
		return Failure(err)
	}

	text, err := c.rec.Recognize(img, nil, ocr.ModeAuto)
	if err != nil {
		return Failure(err)
	}

	lat, long, ok := MatchCoordinates(text)
	if !ok {
		return Success(CoordinatesNotFound)
	}
	return Success(lat + ", " + long)
}
