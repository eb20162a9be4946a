package pdfocr

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/img2html/pkg/textextract"
)

// textLayer writes words into an optional content group. Image pixels map
// to PDF points one to one, so element boxes are used as they are.
type textLayer struct {
	pdf   *fpdf.Fpdf
	font  FontConfig
	debug bool
}

// layerTitle is the group name shown in PDF viewers, "OCR Text (Page 1)"
func layerTitle(base string, page int) string {
	if page <= 0 {
		return base
	}
	return fmt.Sprintf("%s (Page %d)", base, page)
}

// drawTextLayer adds the layer for page and writes every element into it.
// It fails when more than a tenth of the words are not representable in
// latin-1; those are still drawn with their raw bytes.
func drawTextLayer(pdf *fpdf.Fpdf, elements []textextract.TextElement, layerName string, page int, font FontConfig, debug bool) error {
	l := &textLayer{pdf: pdf, font: font, debug: debug}

	pdf.BeginLayer(pdf.AddLayer(layerTitle(layerName, page), true))
	pdf.SetFont(font.Name, font.Style, font.Size)
	if debug {
		pdf.SetTextColor(255, 0, 0)
		pdf.SetDrawColor(255, 0, 0)
	} else {
		pdf.SetAlpha(0, "Normal")
	}

	failed := 0
	for _, el := range elements {
		if !l.word(el) {
			failed++
		}
	}
	pdf.EndLayer()

	if failed > 0 && failed > len(elements)/10 {
		return fmt.Errorf("character encoding issues in %d of %d words", failed, len(elements))
	}
	return nil
}

// word draws el stretched to the width of its box and reports whether its
// text could be encoded
func (l *textLayer) word(el textextract.TextElement) bool {
	text, err := charmap.ISO8859_1.NewEncoder().String(el.Text)
	if err != nil {
		text = el.Text
	}

	x, y := float64(el.BBox.X), float64(el.BBox.Y)
	w, h := float64(el.BBox.W), float64(el.BBox.H)

	size := l.font.Size
	if sw := l.pdf.GetStringWidth(text); sw > 0 && w > 0 {
		size = l.font.Size * w / sw
	}
	l.pdf.SetFontSize(size)
	l.pdf.Text(x, y+size*l.font.AscentRatio, text)
	l.pdf.SetFontSize(l.font.Size)

	if l.debug {
		l.pdf.Rect(x, y, w, h, "D")
	}
	return err == nil
}
