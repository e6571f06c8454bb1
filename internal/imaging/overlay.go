package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultOverlayColor is used when no outline color is configured.
const DefaultOverlayColor = "#FF0000"

// ParseColor parses a "#RRGGBB" hex string.
func ParseColor(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// DrawRegion returns a copy of img with r outlined and everything outside r
// dimmed, so the operator can see where the crop lands on the full photo.
func DrawRegion(img image.Image, r image.Rectangle, outline color.NRGBA, thickness int) *image.NRGBA {
	out := imaging.Clone(img)
	bounds := out.Bounds()
	if thickness < 1 {
		thickness = 1
	}

	dark, _ := colorful.MakeColor(color.Black)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if (image.Point{X: x, Y: y}).In(r) {
				continue
			}
			px, ok := colorful.MakeColor(out.NRGBAAt(x, y))
			if !ok {
				continue
			}
			cr, cg, cb := px.BlendRgb(dark, 0.5).RGB255()
			out.SetNRGBA(x, y, color.NRGBA{R: cr, G: cg, B: cb, A: 255})
		}
	}

	// Outline sits just inside r so it survives when r touches the image edge.
	for t := 0; t < thickness; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			setIn(out, x, r.Min.Y+t, outline)
			setIn(out, x, r.Max.Y-1-t, outline)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			setIn(out, r.Min.X+t, y, outline)
			setIn(out, r.Max.X-1-t, y, outline)
		}
	}

	return out
}

// SaveOverlay draws r on img and writes the result to path.
func SaveOverlay(img image.Image, r image.Rectangle, hex string, path string) error {
	c, err := ParseColor(hex)
	if err != nil {
		return err
	}
	if err := imaging.Save(DrawRegion(img, r, c, 3), path); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}

func setIn(img *image.NRGBA, x, y int, c color.NRGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}
