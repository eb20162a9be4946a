package pipeline

import (
	"fmt"
	"os"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/sirupsen/logrus"

	stageerrors "github.com/gardar/img2html/internal/errors"
	"github.com/gardar/img2html/pkg/imageio"
	"github.com/gardar/img2html/pkg/pdfocr"
	"github.com/gardar/img2html/pkg/textextract"
	"github.com/gardar/img2html/pkg/textextract/gdocai"
)

// searchablePDF assembles the source image and the kept words into a PDF
func (p *Pipeline) searchablePDF(log *logrus.Entry, imagePath string, texts []textextract.TextElement) ([]byte, error) {
	img, err := imageio.Load(stageerrors.StageText, imagePath)
	if err != nil {
		return nil, err
	}

	data, err := img.Encoded()
	if err != nil {
		return nil, err
	}

	cfg := pdfocr.DefaultConfig()
	cfg.Debug = p.cfg.PDFDebug
	cfg.Logger = log
	p.checkExistingPDF(log, p.cfg.PDF, cfg.LayerName)

	return pdfocr.AssembleWithOCR(data, texts, cfg)
}

// checkExistingPDF warns when path is a PDF that already carries an OCR layer
func (p *Pipeline) checkExistingPDF(log *logrus.Entry, path, layerName string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	check, err := pdfocr.CheckExistingOCRLayers(data, layerName)
	if err != nil {
		log.WithError(err).Debugf("Could not inspect existing %s", path)
		return
	}
	if check.HasOCRLayer {
		log.Warnf("Overwriting %s, which already has OCR layer %q", path, check.OCRLayerName)
	}
	for _, w := range check.Warnings {
		log.Warn(w)
	}
}

func apiJSON(doc *documentaipb.Document) ([]byte, error) {
	out, err := gdocai.ToJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert API response to JSON: %w", err)
	}
	return []byte(out), nil
}

func fieldsJSON(doc *documentaipb.Document) ([]byte, error) {
	out, err := gdocai.ToJSON(gdocai.ExtractFields(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to convert fields to JSON: %w", err)
	}
	return []byte(out), nil
}
