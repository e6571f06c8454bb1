package extract

import (
	"context"
	"image"

	"github.com/ironsheep/photo-field-ocr/internal/imaging"
	"github.com/ironsheep/photo-field-ocr/internal/ocr"
)

// Address reads the stamped address from a crop of each photo.
type Address struct {
	loader
	rec    ocr.Recognizer
	region imaging.RegionSpec
}

// NewAddress returns an address extractor cropping every photo with region.
func NewAddress(rec ocr.Recognizer, cache *imaging.ImageCache, region imaging.RegionSpec) *Address {
	return &Address{loader: loader{cache: cache}, rec: rec, region: region}
}

func (a *Address) Name() string      { return "address" }
func (a *Address) Header() string    { return "Extracted Text" }
func (a *Address) SheetName() string { return "Extracted Text" }

// Region returns the crop spec in use.
func (a *Address) Region() imaging.RegionSpec { return a.region }

// Rectangle resolves the crop spec for a photo of the given size.
func (a *Address) Rectangle(width, height int) (image.Rectangle, error) {
	return imaging.SelectRegion(width, height, a.region)
}

// Extract crops the photo, recognizes it as a single text block and collapses
// whitespace. Empty text yields NoTextFound.
func (a *Address) Extract(ctx context.Context, path string) (res Result) {
	defer recoverResult(&res)

	img, err := a.load(ctx, path)
	if err != nil {
		return Failure(err)
	}

	b := img.Bounds()
	r, err := a.Rectangle(b.Dx(), b.Dy())
	if err != nil {
		return Failure(err)
	}
	r = r.Add(b.Min)

	text, err := a.rec.Recognize(img, &r, ocr.ModeSingleBlock)
	if err != nil {
		return Failure(err)
	}

	if text = ocr.Normalize(text); text == "" {
		return Success(NoTextFound)
	}
	return Success(text)
}
