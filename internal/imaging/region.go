package imaging

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnknownPreset is returned when a RegionSpec names a preset that does not exist.
var ErrUnknownPreset = errors.New("unknown region preset")

// RegionKind identifies which variant of RegionSpec is populated.
type RegionKind int

const (
	// RegionDefault uses the built-in address band.
	RegionDefault RegionKind = iota
	// RegionPreset uses one of the named fraction sets.
	RegionPreset
	// RegionPercentFromBottom takes a full-width strip of the bottom N percent.
	RegionPercentFromBottom
	// RegionPixels uses four explicit pixel values.
	RegionPixels
)

// Fractions describes a rectangle as fractions of image width and height.
type Fractions struct {
	Left, Top, Right, Bottom float64
}

// Preset identifiers. The first three appear in the tuning menu.
const (
	PresetMiddleRight       = "middle-right"
	PresetCenterMiddleRight = "center-middle-right"
	PresetFullMiddle        = "full-middle"
	PresetBottomStrip       = "bottom-strip"
)

// Presets maps preset identifiers to their vertical bands.
var Presets = map[string]Fractions{
	PresetMiddleRight:       {Left: 0.35, Top: 0.55, Right: 1, Bottom: 0.75},
	PresetCenterMiddleRight: {Left: 0.35, Top: 0.75, Right: 1, Bottom: 0.80},
	PresetFullMiddle:        {Left: 0, Top: 0.50, Right: 1, Bottom: 0.75},
	PresetBottomStrip:       {Left: 0, Top: 0.80, Right: 1, Bottom: 1},
}

// DefaultFractions is the band where the stamped address sits on the site photos:
// right of the map thumbnail, above the city line.
var DefaultFractions = Presets[PresetMiddleRight]

// RegionSpec is a closed set of ways to describe a crop rectangle.
// Only the fields belonging to Kind are consulted.
type RegionSpec struct {
	Kind    RegionKind
	Preset  string
	Percent float64
	Pixels  image.Rectangle
}

// DefaultRegion returns the zero spec, which resolves to DefaultFractions.
func DefaultRegion() RegionSpec { return RegionSpec{Kind: RegionDefault} }

// PresetRegion returns a spec for the named preset.
func PresetRegion(id string) RegionSpec { return RegionSpec{Kind: RegionPreset, Preset: id} }

// PercentFromBottomRegion returns a spec covering the bottom p percent of the image.
func PercentFromBottomRegion(p float64) RegionSpec {
	return RegionSpec{Kind: RegionPercentFromBottom, Percent: p}
}

// PixelRegion returns a spec with fixed pixel bounds.
func PixelRegion(left, top, right, bottom int) RegionSpec {
	// image.Rect would canonicalize swapped bounds; keep them as given.
	return RegionSpec{Kind: RegionPixels, Pixels: image.Rectangle{
		Min: image.Point{X: left, Y: top},
		Max: image.Point{X: right, Y: bottom},
	}}
}

// Validate reports whether the spec can be resolved at all.
// It does not check the resulting rectangle against any image size.
func (s RegionSpec) Validate() error {
	switch s.Kind {
	case RegionDefault, RegionPixels:
		return nil
	case RegionPreset:
		if _, ok := Presets[s.Preset]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, s.Preset)
		}
		return nil
	case RegionPercentFromBottom:
		if s.Percent <= 0 || s.Percent > 100 {
			return fmt.Errorf("percent from bottom must be in (0,100], got %g", s.Percent)
		}
		return nil
	default:
		return fmt.Errorf("unknown region kind %d", s.Kind)
	}
}

// String describes the spec for logs and prompts.
func (s RegionSpec) String() string {
	switch s.Kind {
	case RegionPreset:
		return "preset " + s.Preset
	case RegionPercentFromBottom:
		return fmt.Sprintf("bottom %g%%", s.Percent)
	case RegionPixels:
		p := s.Pixels
		return fmt.Sprintf("pixels (%d,%d)-(%d,%d)", p.Min.X, p.Min.Y, p.Max.X, p.Max.Y)
	default:
		return "default"
	}
}

// SelectRegion resolves spec against an image of the given size.
//
// Fractional bounds are truncated toward zero. The result is not clamped or
// validated: a degenerate rectangle is returned as computed and shows up
// downstream as an OCR failure rather than here.
func SelectRegion(width, height int, spec RegionSpec) (image.Rectangle, error) {
	switch spec.Kind {
	case RegionDefault:
		return fromFractions(width, height, DefaultFractions), nil
	case RegionPreset:
		f, ok := Presets[spec.Preset]
		if !ok {
			return image.Rectangle{}, fmt.Errorf("%w: %q", ErrUnknownPreset, spec.Preset)
		}
		return fromFractions(width, height, f), nil
	case RegionPercentFromBottom:
		top := int(float64(height) * (1 - spec.Percent/100))
		return rect(0, top, width, height), nil
	case RegionPixels:
		return spec.Pixels, nil
	default:
		return image.Rectangle{}, fmt.Errorf("unknown region kind %d", spec.Kind)
	}
}

func fromFractions(width, height int, f Fractions) image.Rectangle {
	w, h := float64(width), float64(height)
	return rect(int(w*f.Left), int(h*f.Top), int(w*f.Right), int(h*f.Bottom))
}

func rect(left, top, right, bottom int) image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: left, Y: top},
		Max: image.Point{X: right, Y: bottom},
	}
}
