package hocr

import (
	"fmt"
	"image"
)

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title    string            // Document title
	Language string            // Document language
	Metadata map[string]string // ocr-system, ocr-capabilities, ...
	Pages    []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string            // Unique identifier
	PageNumber int               // Physical page number (ppageno)
	ImageName  string            // Source image filename
	Lang       string            // Language code for this page
	BBox       BoundingBox       // Page coordinates
	Areas      []Area            // Content areas (columns)
	Paragraphs []Paragraph       // Paragraphs directly under page
	Lines      []Line            // Lines directly under page (no parent)
	Metadata   map[string]string // Other page properties
}

// Class assign 'ocr_page' to 'Page' struct
func (Page) Class() string { return "ocr_page" }

// Area represents a content area (column or region)
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string
	Lang       string
	BBox       BoundingBox
	Paragraphs []Paragraph
	Lines      []Line // Text lines directly under area
	Words      []Word // Words directly under area (no line parent)
	Metadata   map[string]string
}

// Class assign 'ocr_carea' to 'Area' struct
func (Area) Class() string { return "ocr_carea" }

// Paragraph represents a paragraph within an area
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID       string
	Lang     string
	BBox     BoundingBox
	Lines    []Line
	Words    []Word // Words directly under paragraph (no line parent)
	Metadata map[string]string
}

// Class assign 'ocr_par' to 'Paragraph' struct
func (Paragraph) Class() string { return "ocr_par" }

// Line represents a line of text.
// Tesseract also emits ocr_header, ocr_caption and ocr_textfloat for
// line-level elements; those are parsed as lines and keep their class in Kind.
type Line struct {
	ID       string
	Kind     string // Original line class, "ocr_line" when empty
	Lang     string
	BBox     BoundingBox
	Baseline string
	Words    []Word
	Metadata map[string]string
}

// Class returns the hOCR class the line was parsed from
func (l Line) Class() string {
	if l.Kind == "" {
		return "ocr_line"
	}
	return l.Kind
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // Recognition confidence (0-100), from x_wconf
	Lang       string
	Metadata   map[string]string
}

// Class assign 'ocrx_word' to 'Word' struct
func (Word) Class() string { return "ocrx_word" }

// BoundingBox represents a rectangle in the image.
// x1, y1 is the top-left corner, x2, y2 the bottom-right corner.
type BoundingBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// NewBoundingBox creates a bounding box from hOCR bbox coordinates
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width of the box
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height of the box
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// Rect converts the box to integer pixel coordinates
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(int(b.X1+0.5), int(b.Y1+0.5), int(b.X2+0.5), int(b.Y2+0.5))
}

// Title renders the box as an hOCR title property ("bbox x1 y1 x2 y2")
func (b BoundingBox) Title() string {
	r := b.Rect()
	return fmt.Sprintf("bbox %d %d %d %d", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
