package pdfocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gardar/img2html/pkg/textextract"
)

func testImage(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	return buf.Bytes()
}

func pngImage(t *testing.T) []byte {
	return testImage(t, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) })
}

var sampleElements = []textextract.TextElement{
	{Text: "Hello", BBox: textextract.BBox{X: 10, Y: 10, W: 40, H: 12}, Confidence: 93},
	{Text: "Þórður", BBox: textextract.BBox{X: 60, Y: 10, W: 50, H: 12}, Confidence: 81},
}

func TestAssembleWithOCR(t *testing.T) {
	out, err := AssembleWithOCR(pngImage(t), sampleElements, DefaultConfig())
	if err != nil {
		t.Fatalf("AssembleWithOCR failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", out[:16])
	}

	res, err := CheckExistingOCRLayers(out, "OCR Text")
	if err != nil {
		t.Fatalf("CheckExistingOCRLayers failed: %v", err)
	}
	if !res.HasOCRLayer || res.OCRLayerName != "OCR Text (Page 1)" {
		t.Errorf("expected OCR layer, got %+v", res)
	}
}

func TestAssembleWithOCRConvertsBMP(t *testing.T) {
	data := testImage(t, func(b *bytes.Buffer, i image.Image) error { return bmp.Encode(b, i) })
	cfg := DefaultConfig()
	cfg.Debug = true

	out, err := AssembleWithOCR(data, sampleElements, cfg)
	if err != nil {
		t.Fatalf("AssembleWithOCR failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
}

func TestAssembleWithOCRNoElements(t *testing.T) {
	if _, err := AssembleWithOCR(pngImage(t), nil, DefaultConfig()); err != nil {
		t.Fatalf("an image without text should still produce a PDF: %v", err)
	}
}

func TestAssembleWithOCRErrors(t *testing.T) {
	tests := []struct {
		name  string
		image []byte
		cfg   OCRConfig
		want  string
	}{
		{"empty image", nil, DefaultConfig(), "no image data"},
		{"not an image", []byte("hello"), DefaultConfig(), "invalid format"},
		{"no layer name", pngImage(t), OCRConfig{Font: DefaultFont}, "layer name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AssembleWithOCR(tt.image, sampleElements, tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got error %v, want one containing %q", err, tt.want)
			}
		})
	}
}

func TestAssembleWithOCREncodingFailures(t *testing.T) {
	elements := []textextract.TextElement{
		{Text: "日本語", BBox: textextract.BBox{X: 1, Y: 1, W: 30, H: 10}, Confidence: 90},
		{Text: "ok", BBox: textextract.BBox{X: 40, Y: 1, W: 10, H: 10}, Confidence: 90},
	}
	_, err := AssembleWithOCR(pngImage(t), elements, DefaultConfig())
	if err == nil || !strings.Contains(err.Error(), "encoding issues in 1 of 2 words") {
		t.Errorf("expected encoding error, got %v", err)
	}
}

func TestCheckExistingOCRLayers(t *testing.T) {
	pdf := []byte("%PDF-1.4\n" +
		"1 0 obj <</Type /OCG /Name (OCR Text \\(Page 3\\))>> endobj\n" +
		"2 0 obj <</Type /OCG /Name (Scanner OCR)>> endobj\n" +
		"3 0 obj <</Type /OCG /Name (Background)>> endobj\n")

	res, err := CheckExistingOCRLayers(pdf, "OCR Text")
	if err != nil {
		t.Fatal(err)
	}
	if !res.HasOCRLayer || res.OCRLayerName != "OCR Text (Page 3)" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.Layers) != 3 {
		t.Errorf("layers = %q", res.Layers)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "Scanner OCR") {
		t.Errorf("warnings = %q", res.Warnings)
	}

	if _, err := CheckExistingOCRLayers(nil, "OCR Text"); err == nil {
		t.Error("expected error for empty PDF")
	}
}

func TestUnescapePDFString(t *testing.T) {
	tests := []struct{ in, want string }{
		{`plain`, "plain"},
		{`a \(b\) c`, "a (b) c"},
		{`back\\slash`, `back\slash`},
		{`cr\r`, "cr\r"},
		{`trailing\`, `trailing\`},
	}
	for _, tt := range tests {
		if got := unescapePDFString(tt.in); got != tt.want {
			t.Errorf("unescapePDFString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
