package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"trim":      strings.TrimSpace,
	"pageTitle": pageTitle,
	"lineTitle": lineTitle,
	"wordTitle": wordTitle,
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// GenerateHOCRDocument creates an hOCR HTML document from the HOCR struct
// using the embedded template
func GenerateHOCRDocument(doc *HOCR) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("HOCR document is nil")
	}

	var buf bytes.Buffer
	if err := hocrTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}

	return buf.String(), nil
}

func pageTitle(p Page) string {
	parts := []string{}
	if p.ImageName != "" {
		parts = append(parts, fmt.Sprintf("image %q", p.ImageName))
	}
	parts = append(parts, p.BBox.Title(), fmt.Sprintf("ppageno %d", p.PageNumber))
	return strings.Join(parts, "; ")
}

func lineTitle(l Line) string {
	if l.Baseline == "" {
		return l.BBox.Title()
	}
	return l.BBox.Title() + "; baseline " + l.Baseline
}

func wordTitle(w Word) string {
	return fmt.Sprintf("%s; x_wconf %d", w.BBox.Title(), int(w.Confidence+0.5))
}
