package imaging

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		hex     string
		want    color.NRGBA
		wantErr bool
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}, false},
		{"#00ff00", color.NRGBA{0, 255, 0, 255}, false},
		{"#FFF", color.NRGBA{255, 255, 255, 255}, false},
		{"", color.NRGBA{}, true},
		{"red", color.NRGBA{}, true},
		{"#GG0000", color.NRGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			got, err := ParseColor(tt.hex)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q): err=%v, wantErr=%v", tt.hex, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q): got %v, want %v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestDrawRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{200, 200, 200, 255})
	outline := color.NRGBA{255, 0, 0, 255}
	r := image.Rect(20, 20, 80, 80)

	out := DrawRegion(img, r, outline, 2)

	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 100 {
		t.Fatalf("overlay dimensions: got %v, want 100x100", out.Bounds())
	}

	// Outline pixels on each edge
	for _, p := range []image.Point{{20, 50}, {21, 50}, {79, 50}, {50, 20}, {50, 79}} {
		if got := out.NRGBAAt(p.X, p.Y); got != outline {
			t.Errorf("outline at %v: got %v, want %v", p, got, outline)
		}
	}

	// Interior untouched
	if got := out.NRGBAAt(50, 50); got != (color.NRGBA{200, 200, 200, 255}) {
		t.Errorf("interior pixel changed: got %v", got)
	}

	// Outside dimmed
	outside := out.NRGBAAt(5, 5)
	if outside.R >= 200 || outside.R == 0 {
		t.Errorf("outside pixel should be dimmed, got %v", outside)
	}

	// Source untouched
	if r, _, _ := rgb8(img.At(20, 50)); r != 200 {
		t.Error("DrawRegion must not modify the source image")
	}
}

func TestDrawRegion_EdgeTouching(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)
	outline := color.NRGBA{0, 0, 255, 255}

	// Region covering the full image must not panic and must still be outlined.
	out := DrawRegion(img, image.Rect(0, 0, 50, 50), outline, 3)
	if got := out.NRGBAAt(0, 0); got != outline {
		t.Errorf("corner: got %v, want %v", got, outline)
	}
	if got := out.NRGBAAt(49, 49); got != outline {
		t.Errorf("far corner: got %v, want %v", got, outline)
	}
}

func TestSaveOverlay(t *testing.T) {
	img := createPatternImage(60, 40)
	path := filepath.Join(t.TempDir(), "debug_region_overlay.png")

	if err := SaveOverlay(img, image.Rect(10, 10, 50, 30), "#00FF00", path); err != nil {
		t.Fatalf("SaveOverlay failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("overlay file not written: %v", err)
	}

	if err := SaveOverlay(img, image.Rect(10, 10, 50, 30), "nope", path); err == nil {
		t.Error("SaveOverlay should fail for an invalid color")
	}
}

func TestPreprocess_Apply(t *testing.T) {
	img := createPatternImage(40, 20)

	t.Run("zero value is identity", func(t *testing.T) {
		var p Preprocess
		if p.Enabled() {
			t.Error("zero Preprocess should not be enabled")
		}
		out := p.Apply(img)
		if out != image.Image(img) {
			t.Error("zero Preprocess should return the input image")
		}
	})

	t.Run("grayscale", func(t *testing.T) {
		p := Preprocess{Grayscale: true}
		out := p.Apply(img)
		r, g, b := rgb8(out.At(5, 5))
		if r != g || g != b {
			t.Errorf("grayscale pixel: got (%d,%d,%d)", r, g, b)
		}
	})

	t.Run("scale", func(t *testing.T) {
		p := Preprocess{Scale: 2}
		out := p.Apply(img)
		if out.Bounds().Dx() != 80 || out.Bounds().Dy() != 40 {
			t.Errorf("scaled: got %v, want 80x40", out.Bounds())
		}
	})

	t.Run("contrast keeps size", func(t *testing.T) {
		p := Preprocess{Contrast: 0.5}
		out := p.Apply(img)
		if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 20 {
			t.Errorf("contrast changed size: %v", out.Bounds())
		}
	})
}

func TestPreprocess_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       Preprocess
		wantErr bool
	}{
		{"zero", Preprocess{}, false},
		{"full", Preprocess{Grayscale: true, Contrast: 0.3, Scale: 2}, false},
		{"contrast high", Preprocess{Contrast: 1.5}, true},
		{"contrast low", Preprocess{Contrast: -2}, true},
		{"negative scale", Preprocess{Scale: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate: err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
