package ocr

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/photo-field-ocr/internal/imaging"
)

// drawText draws text on an image using basicfont
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	point := fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  point,
	}
	d.DrawString(text)
}

// createLinesImage renders lines of text black on white and scales the result
// up so Tesseract has enough pixels per glyph.
func createLinesImage(lines []string, scale int) *image.RGBA {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	w := maxLen*7 + 40
	h := len(lines)*16 + 30
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	for i, line := range lines {
		drawText(small, 20, 20+i*16, line, color.Black)
	}

	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

// requireTesseract skips the test when the engine cannot be initialized.
func requireTesseract(t *testing.T) *Tesseract {
	t.Helper()
	tess := NewTesseract(Options{})
	if err := tess.Check(); err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	return tess
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  123   Main   St\n\nAgra ", "123 Main St Agra"},
		{"single", "single"},
		{"\t tabs\tand\r\nCRLF \n", "tabs and CRLF"},
		{"", ""},
		{" \n\t ", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMode(t *testing.T) {
	if ModeAuto.String() != "auto" {
		t.Errorf("ModeAuto.String: got %q", ModeAuto.String())
	}
	if ModeSingleBlock.String() != "single-block" {
		t.Errorf("ModeSingleBlock.String: got %q", ModeSingleBlock.String())
	}
	if ModeSingleBlock.pageSegMode() == ModeAuto.pageSegMode() {
		t.Error("modes should map to different page segmentation modes")
	}
}

func TestNewTesseract_DefaultLanguage(t *testing.T) {
	tess := NewTesseract(Options{})
	if tess.Options().Language != DefaultLanguage {
		t.Errorf("Language: got %q, want %q", tess.Options().Language, DefaultLanguage)
	}

	tess = NewTesseract(Options{Language: "deu"})
	if tess.Options().Language != "deu" {
		t.Errorf("Language: got %q, want deu", tess.Options().Language)
	}
}

func TestRecognize_EmptyRegion(t *testing.T) {
	// Fails before the engine is touched, so it runs without Tesseract.
	tess := NewTesseract(Options{})
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	region := image.Rect(200, 200, 300, 300)

	_, err := tess.Recognize(img, &region, ModeSingleBlock)
	if err == nil {
		t.Fatal("Recognize should fail for a region outside the image")
	}
	if !strings.Contains(err.Error(), "empty image region") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheck_BadTessdata(t *testing.T) {
	tess := NewTesseract(Options{TessdataPrefix: t.TempDir()})

	err := tess.Check()
	if err == nil {
		t.Skip("engine accepted an empty tessdata directory")
	}
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestRecognize_FullImage(t *testing.T) {
	tess := requireTesseract(t)

	img := createLinesImage([]string{"HELLO WORLD"}, 4)
	text, err := tess.Recognize(img, nil, ModeAuto)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	t.Logf("Extracted text: %q", text)
	if !strings.Contains(strings.ToUpper(text), "HELLO") {
		t.Log("Warning: expected word not recognized - font rendering may be too small")
	}
}

func TestRecognize_Region(t *testing.T) {
	tess := requireTesseract(t)

	img := createLinesImage([]string{"IGNORE THIS", "KEEP THIS"}, 4)
	// Second line only: lines are 16px apart at scale 1.
	region := image.Rect(0, 24*4, img.Bounds().Dx(), img.Bounds().Dy())

	text, err := tess.Recognize(img, &region, ModeSingleBlock)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	t.Logf("Region text: %q", text)
	if strings.Contains(strings.ToUpper(text), "IGNORE") {
		t.Errorf("text outside the region was recognized: %q", text)
	}
}

func TestRecognize_MultiLineKeepsBreaks(t *testing.T) {
	tess := requireTesseract(t)

	img := createLinesImage([]string{"Lat 27.1234", "Long 78.5678"}, 4)
	text, err := tess.Recognize(img, nil, ModeAuto)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	t.Logf("Multi-line text: %q", text)
	if strings.TrimSpace(text) != "" && !strings.Contains(strings.TrimSpace(text), "\n") {
		t.Log("Warning: engine returned a single line for two rendered lines")
	}
}

func TestRecognize_WithPreprocess(t *testing.T) {
	tess := NewTesseract(Options{Preprocess: imaging.Preprocess{Grayscale: true, Scale: 2}})
	if err := tess.Check(); err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}

	img := createLinesImage([]string{"SITE 42"}, 2)
	if _, err := tess.Recognize(img, nil, ModeSingleBlock); err != nil {
		t.Fatalf("Recognize with preprocessing failed: %v", err)
	}
}

func TestVersion(t *testing.T) {
	tess := requireTesseract(t)
	if v := tess.Version(); v == "" {
		t.Error("Version returned empty string")
	}
}
