// Package pipeline runs one image through the three conversion stages:
// text extraction, visual segmentation and page assembly.
//
// Stages are independent. A failing stage is logged with its structured
// error and contributes an empty result, so the page is always written
// unless writing the page itself fails.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/sirupsen/logrus"

	"github.com/gardar/img2html/internal/config"
	stageerrors "github.com/gardar/img2html/internal/errors"
	"github.com/gardar/img2html/internal/logging"
	"github.com/gardar/img2html/pkg/hocr"
	"github.com/gardar/img2html/pkg/page"
	"github.com/gardar/img2html/pkg/segment"
	"github.com/gardar/img2html/pkg/textextract"
)

// Pipeline converts images to HTML pages according to a Config
type Pipeline struct {
	cfg       config.Config
	extractor *textextract.Extractor
	segmenter *segment.Segmenter
	log       logrus.FieldLogger
	runID     string
}

// Result summarizes a run. Errors holds the stage errors that were logged.
type Result struct {
	Texts    []textextract.TextElement
	Elements []string
	Output   string
	Errors   []error
}

// New wires a pipeline. Every run shares runID in its log fields.
// A nil logger discards output.
func New(cfg config.Config, extractor *textextract.Extractor, segmenter *segment.Segmenter, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Pipeline{
		cfg:       cfg,
		extractor: extractor,
		segmenter: segmenter,
		log:       log,
		runID:     logging.NewRunID(),
	}
}

// Run converts the image at imagePath. Stage failures are recorded in the
// result rather than returned; the page is written with whatever the other
// stages produced.
func (p *Pipeline) Run(ctx context.Context, imagePath string) Result {
	res := Result{
		Texts:    []textextract.TextElement{},
		Elements: []string{},
	}

	textLog := logging.ForStage(p.log, p.runID, stageerrors.StageText)
	doc, err := p.extractor.Recognize(ctx, imagePath)
	if err != nil {
		logging.LogStageError(textLog, "Text extraction failed", err)
		res.Errors = append(res.Errors, err)
	} else {
		res.Texts = textextract.Select(doc)
		textLog.WithField("words", len(res.Texts)).Info("Extracted text")
		p.writeSidecars(textLog, imagePath, doc, res.Texts)
	}

	segLog := logging.ForStage(p.log, p.runID, stageerrors.StageSegment)
	paths, err := p.segmenter.Segment(ctx, imagePath, p.cfg.OutputDir)
	if err != nil {
		logging.LogStageError(segLog, "Visual segmentation failed", err)
		res.Errors = append(res.Errors, err)
	} else {
		res.Elements = paths
		segLog.WithField("elements", len(paths)).Infof("Visual elements saved to: %s", p.cfg.OutputDir)
	}

	pageLog := logging.ForStage(p.log, p.runID, stageerrors.StagePage)
	sources := page.Sources(p.cfg.Output, res.Elements)
	if err := page.Write(p.cfg.Output, textextract.Texts(res.Texts), sources); err != nil {
		logging.LogStageError(pageLog, "Page assembly failed", err)
		res.Errors = append(res.Errors, err)
	} else {
		res.Output = p.cfg.Output
		pageLog.Infof("HTML saved to: %s", p.cfg.Output)
	}

	return res
}

// responder is implemented by engines that keep their raw Document AI response
type responder interface {
	Response() *documentaipb.Document
}

// writeSidecars writes the optional outputs derived from the OCR result.
// Failures are logged as warnings and do not affect the page.
func (p *Pipeline) writeSidecars(log *logrus.Entry, imagePath string, doc *hocr.HOCR, texts []textextract.TextElement) {
	if p.cfg.HOCR != "" {
		p.writeOutput(log, "hOCR", p.cfg.HOCR, func() ([]byte, error) {
			out, err := hocr.GenerateHOCRDocument(doc)
			return []byte(out), err
		})
	}

	if p.cfg.Text != "" {
		p.writeOutput(log, "Text", p.cfg.Text, func() ([]byte, error) {
			return []byte(hocr.ExtractHOCRText(doc)), nil
		})
	}

	if p.cfg.PDF != "" {
		p.writeOutput(log, "Searchable PDF", p.cfg.PDF, func() ([]byte, error) {
			return p.searchablePDF(log, imagePath, texts)
		})
	}

	if p.cfg.DebugAPI == "" && p.cfg.Fields == "" {
		return
	}
	r, ok := p.extractor.Engine().(responder)
	if !ok || r.Response() == nil {
		log.Warn("Raw API response not available for this OCR engine")
		return
	}
	if p.cfg.DebugAPI != "" {
		p.writeOutput(log, "API response JSON", p.cfg.DebugAPI, func() ([]byte, error) {
			return apiJSON(r.Response())
		})
	}
	if p.cfg.Fields != "" {
		p.writeOutput(log, "Fields JSON", p.cfg.Fields, func() ([]byte, error) {
			return fieldsJSON(r.Response())
		})
	}
}

// writeOutput renders one side output and writes it to path
func (p *Pipeline) writeOutput(log *logrus.Entry, what, path string, render func() ([]byte, error)) {
	data, err := render()
	if err != nil {
		log.WithError(err).Warnf("Failed to render %s", what)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.WithError(stageerrors.NewFilesystemError(stageerrors.StageText, path, "write", err)).
			Warnf("Failed to write %s", what)
		return
	}
	log.Infof("%s saved to: %s", what, path)
}

// String summarizes the result for the final log line
func (r Result) String() string {
	return fmt.Sprintf("%d text elements, %d visual elements, %d stage errors",
		len(r.Texts), len(r.Elements), len(r.Errors))
}
