package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Crop extracts a rectangular region from an image.
//
// The rectangle is intersected with the image bounds. Unlike a validating crop,
// an empty intersection is not an error here; the caller gets an empty image
// and the encoder downstream reports it.
func Crop(img image.Image, r image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, r)
}

// Scale resizes img by factor using Lanczos resampling.
// A factor of 0 or 1 returns the image unchanged.
func Scale(img image.Image, factor float64) image.Image {
	if factor == 1.0 || factor <= 0 {
		return img
	}
	newWidth := int(float64(img.Bounds().Dx()) * factor)
	newHeight := int(float64(img.Bounds().Dy()) * factor)
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
}

// EncodePNG encodes img as PNG bytes, the form handed to the OCR engine.
func EncodePNG(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty image region (%d,%d)-(%d,%d)", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveCrop writes the given region of img to path. The format follows the
// file extension.
func SaveCrop(img image.Image, r image.Rectangle, path string) error {
	cropped := Crop(img, r)
	if cropped.Bounds().Empty() {
		return fmt.Errorf("crop region (%d,%d)-(%d,%d) is empty for image %dx%d",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, img.Bounds().Dx(), img.Bounds().Dy())
	}
	if err := imaging.Save(cropped, path); err != nil {
		return fmt.Errorf("failed to save crop: %w", err)
	}
	return nil
}
