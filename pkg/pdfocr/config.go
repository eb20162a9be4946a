package pdfocr

import (
	"github.com/sirupsen/logrus"
)

// OCRConfig holds user options for assembling a searchable PDF
type OCRConfig struct {
	Debug     bool               // Draw the text layer in red with word boxes
	LayerName string             // Base name of OCR layer (page number will be appended)
	Logger    logrus.FieldLogger // Receives warnings (nil = discard)
	Font      FontConfig
}

// DefaultConfig returns the layer name and font used by img2html
func DefaultConfig() OCRConfig {
	return OCRConfig{
		LayerName: "OCR Text", // written as "OCR Text (Page 1)"
		Font:      DefaultFont,
	}
}

// FontConfig selects the core font the text layer is set in. Words are
// scaled horizontally to their box, so only the metrics matter.
type FontConfig struct {
	Name        string  // Core font family
	Style       string  // "", "B", "I" or "BI"
	Size        float64 // Point size before fitting to the word box
	AscentRatio float64 // Baseline offset from the box top, as a share of the font size
}

// DefaultFont is Helvetica, whose latin-1 metrics fpdf ships built in
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}
