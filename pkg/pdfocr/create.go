package pdfocr

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/disintegration/imaging"

	"github.com/gardar/img2html/pkg/textextract"
)

// pdfImage is an image in a format fpdf can embed
type pdfImage struct {
	data      []byte
	imageType string
	width     float64
	height    float64
}

// prepareImage reads the image dimensions and re-encodes formats fpdf
// cannot embed (BMP, TIFF, WebP) as PNG
func prepareImage(data []byte) (pdfImage, error) {
	cfg, imageType, err := detectImageType(data)
	if err != nil {
		return pdfImage{}, err
	}

	img := pdfImage{
		data:      data,
		imageType: imageType,
		width:     float64(cfg.Width),
		height:    float64(cfg.Height),
	}
	switch imageType {
	case "PNG", "JPEG", "GIF":
		return img, nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return pdfImage{}, fmt.Errorf("failed to decode %s image: %w", imageType, err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, decoded, imaging.PNG); err != nil {
		return pdfImage{}, fmt.Errorf("failed to convert %s image to PNG: %w", imageType, err)
	}
	img.data = buf.Bytes()
	img.imageType = "PNG"
	return img, nil
}

// createPDFFromImage builds a new PDF page from the image with the OCR text layer.
// This function assumes inputs have been validated by the caller.
func createPDFFromImage(
	img pdfImage,
	elements []textextract.TextElement,
	debug bool,
	layerName string,
	fontConfig FontConfig,
) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	w, h := img.width, img.height

	// Add page with the image's dimensions
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: img.imageType}
	pdf.RegisterImageOptionsReader("img0", opts, bytes.NewReader(img.data))
	pdf.ImageOptions("img0", 0, 0, w, h, false, opts, 0, "")

	if err := drawTextLayer(pdf, elements, layerName, 1, fontConfig, debug); err != nil {
		return nil, fmt.Errorf("failed to draw OCR layer: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// detectImageType tries to figure out whether the data is PNG, JPEG, etc.
func detectImageType(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return cfg, "", fmt.Errorf("failed to decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, "", fmt.Errorf("image has no pixels")
	}
	return cfg, strings.ToUpper(format), nil
}
