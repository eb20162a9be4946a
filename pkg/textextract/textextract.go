// Package textextract runs OCR over an image and selects the confident words.
//
// The OCR itself is delegated to an Engine, which reports its result as an
// hOCR document. Extract keeps only words whose confidence exceeds
// MinConfidence.
package textextract

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	stageerrors "github.com/gardar/img2html/internal/errors"
	"github.com/gardar/img2html/pkg/hocr"
	"github.com/gardar/img2html/pkg/imageio"
)

// MinConfidence is the exclusive lower bound on word confidence (0-100)
const MinConfidence = 60

// BBox is a word's bounding box in pixel coordinates, origin top-left
type BBox struct {
	X int
	Y int
	W int
	H int
}

// TextElement is one recognized word kept by the confidence filter
type TextElement struct {
	Text       string
	BBox       BBox
	Confidence float64
}

// Engine performs OCR on a PNG encoded image
type Engine interface {
	Name() string
	Recognize(ctx context.Context, png []byte) (*hocr.HOCR, error)
}

// Extractor is the text stage of the conversion
type Extractor struct {
	engine Engine
	log    logrus.FieldLogger
}

// New returns an Extractor using engine. A nil logger discards output.
func New(engine Engine, log logrus.FieldLogger) *Extractor {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Extractor{engine: engine, log: log}
}

// Engine returns the OCR engine in use
func (e *Extractor) Engine() Engine { return e.engine }

// Recognize loads the image at path and runs the engine over it without
// filtering. Failures are *errors.StageError values for the text stage.
func (e *Extractor) Recognize(ctx context.Context, path string) (*hocr.HOCR, error) {
	img, err := imageio.Load(stageerrors.StageText, path)
	if err != nil {
		return nil, err
	}

	data, err := img.PNG()
	if err != nil {
		return nil, stageerrors.NewImageDecodeError(stageerrors.StageText, path, err)
	}

	e.log.WithFields(logrus.Fields{
		"engine": e.engine.Name(),
		"format": img.Format,
		"width":  img.Image.Bounds().Dx(),
		"height": img.Image.Bounds().Dy(),
	}).Debug("Running OCR")

	doc, err := e.engine.Recognize(ctx, data)
	if err != nil {
		return nil, stageerrors.NewOCRFailedError(path, e.engine.Name(), err)
	}
	return doc, nil
}

// Extract recognizes the image at path and returns its confident words.
// On failure it returns an empty slice and the stage error.
func (e *Extractor) Extract(ctx context.Context, path string) ([]TextElement, error) {
	doc, err := e.Recognize(ctx, path)
	if err != nil {
		return []TextElement{}, err
	}
	return Select(doc), nil
}

// Select returns the words of doc with confidence above MinConfidence,
// in reading order. Words with blank text are dropped as well.
func Select(doc *hocr.HOCR) []TextElement {
	elements := []TextElement{}
	for _, w := range hocr.Words(doc) {
		if w.Confidence <= MinConfidence {
			continue
		}
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		r := w.BBox.Rect()
		elements = append(elements, TextElement{
			Text:       text,
			BBox:       BBox{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()},
			Confidence: w.Confidence,
		})
	}
	return elements
}

// Texts returns the text of each element
func Texts(elements []TextElement) []string {
	texts := make([]string, len(elements))
	for i, el := range elements {
		texts[i] = el.Text
	}
	return texts
}
