package pdfocr

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// pdfString matches the body of a PDF literal string, honouring escaped parentheses
const pdfString = `\(((?:\\.|[^\\)])*)\)`

// Optional content groups carry /Type /OCG and /Name in either order
var ocgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)/Type\s*/OCG\s*/Name\s*` + pdfString),
	regexp.MustCompile(`(?s)/OCG\s*<<[^>]*?/Name\s*` + pdfString),
	regexp.MustCompile(`(?s)/Name\s*` + pdfString + `\s*/Type\s*/OCG`),
}

// detectPDFLayers lists the distinct optional content group names in pdfData,
// decoding escaped and UTF-16 names. It scans the raw bytes, so groups inside
// compressed object streams are not seen.
func detectPDFLayers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}

	var layers []string
	for _, re := range ocgPatterns {
		for _, m := range re.FindAllSubmatch(pdfData, -1) {
			name := layerName(m[1])
			if !slices.Contains(layers, name) {
				layers = append(layers, name)
			}
		}
	}
	return layers, nil
}

// layerName decodes the raw body of a /Name literal string
func layerName(raw []byte) string {
	name := unescapePDFString(string(raw))
	if strings.HasPrefix(name, "\xfe\xff") {
		if decoded, err := decodeUTF16BE([]byte(name)); err == nil {
			return decoded
		}
	}
	return name
}

// LayerCheckResult describes the OCR layers found in a PDF
type LayerCheckResult struct {
	Layers       []string // All detected layers
	HasOCRLayer  bool     // A layer named like ours exists
	OCRLayerName string   // The first such layer
	Warnings     []string // Other layers that look like OCR
}

// CheckExistingOCRLayers reports whether pdfData already has a layer named
// ocrLayerName, alone or followed by " (Page N)", and warns about other
// layers whose name mentions OCR.
func CheckExistingOCRLayers(pdfData []byte, ocrLayerName string) (LayerCheckResult, error) {
	var result LayerCheckResult

	layers, err := detectPDFLayers(pdfData)
	if err != nil {
		return result, fmt.Errorf("cannot analyze layers: %w", err)
	}
	result.Layers = layers

	ours := regexp.MustCompile(`^` + regexp.QuoteMeta(ocrLayerName) + `(?:\s*\(Page\s*\d+\))?$`)
	for _, layer := range layers {
		switch {
		case ours.MatchString(layer):
			if !result.HasOCRLayer {
				result.HasOCRLayer = true
				result.OCRLayerName = layer
			}
		case strings.Contains(strings.ToLower(layer), "ocr"):
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Existing layer detected that might contain OCR: %s", layer))
		}
	}
	return result, nil
}
