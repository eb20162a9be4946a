package gdocai

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/img2html/pkg/hocr"
)

// CreateHOCRStruct converts a Document AI proto directly to the HOCR struct
func CreateHOCRStruct(docProto *documentaipb.Document) (*hocr.HOCR, error) {
	if docProto == nil {
		return nil, fmt.Errorf("document is nil")
	}

	var hocrPages []hocr.Page
	for i, page := range docProto.Pages {
		pageNumber := int(page.PageNumber)
		if pageNumber == 0 {
			pageNumber = i + 1
		}
		hocrPages = append(hocrPages, CreateHOCRPage(page, docProto.Text, pageNumber))
	}

	return CreateHOCRDocument(docProto, hocrPages...), nil
}

// CreateHOCRDocument creates an HOCR document structure holding pages.
// If docProto is nil, default values will be used for document properties.
func CreateHOCRDocument(docProto *documentaipb.Document, pages ...hocr.Page) *hocr.HOCR {
	docLang := "unknown"
	if docProto != nil {
		if lang := getDocumentLanguage(docProto); lang != "" {
			docLang = lang
		}
	}

	result := &hocr.HOCR{
		Title:    "Document OCR",
		Language: docLang,
		Metadata: map[string]string{
			"ocr-system":          "Document AI OCR",
			"ocr-number-of-pages": fmt.Sprintf("%d", len(pages)),
			"ocr-capabilities":    "ocrp_lang ocr_page ocr_carea ocr_par ocr_line ocrx_word",
			"ocr-langs":           docLang,
		},
		Pages: append([]hocr.Page{}, pages...),
	}

	if langs := documentLanguages(result); len(langs) > 0 {
		result.Metadata["ocr-langs"] = strings.Join(langs, ", ")
	}
	return result
}

// CreateHOCRPage converts a single Document AI page to an HOCR page.
// Paragraphs are placed in the first block whose text range contains them,
// lines in the first such paragraph, and anything left over goes directly
// on the page.
func CreateHOCRPage(page *documentaipb.Document_Page, fullText string, pageNumber int) hocr.Page {
	ocrPage := hocr.Page{
		ID:         fmt.Sprintf("page_%d", pageNumber),
		PageNumber: pageNumber,
		Metadata:   make(map[string]string),
	}
	if len(page.DetectedLanguages) > 0 {
		ocrPage.Lang = page.DetectedLanguages[0].LanguageCode
	}
	if page.Dimension != nil {
		ocrPage.BBox = hocr.NewBoundingBox(0, 0, float64(page.Dimension.Width), float64(page.Dimension.Height))
	}
	if bbox, ok := getHocrBoundingBox(page.Layout, page.Dimension); ok {
		ocrPage.BBox = bbox
	}

	assignedParas := make(map[int]bool)
	assignedLines := make(map[int]bool)

	convertParagraph := func(pidx int, id string, blockIdx int) hocr.Paragraph {
		para := page.Paragraphs[pidx]
		ocrParagraph := hocr.Paragraph{ID: id, Metadata: make(map[string]string)}
		if bbox, ok := getHocrBoundingBox(para.Layout, page.Dimension); ok {
			ocrParagraph.BBox = bbox
		}
		if len(para.DetectedLanguages) > 0 {
			ocrParagraph.Lang = para.DetectedLanguages[0].LanguageCode
		}
		for lidx, line := range page.Lines {
			if assignedLines[lidx] || !isElementInParent(line.Layout, para.Layout) {
				continue
			}
			assignedLines[lidx] = true
			ocrParagraph.Lines = append(ocrParagraph.Lines,
				convertLineFromProto(line, page, fullText, pageNumber, blockIdx, pidx, lidx))
		}
		return ocrParagraph
	}

	// Content areas (ocr_carea) from blocks
	for aidx, block := range page.Blocks {
		ocrArea := hocr.Area{
			ID:       fmt.Sprintf("carea_%d_%d", pageNumber, aidx),
			Metadata: make(map[string]string),
		}
		if bbox, ok := getHocrBoundingBox(block.Layout, page.Dimension); ok {
			ocrArea.BBox = bbox
		}

		for pidx, para := range page.Paragraphs {
			if assignedParas[pidx] || !isElementInParent(para.Layout, block.Layout) {
				continue
			}
			assignedParas[pidx] = true
			ocrArea.Paragraphs = append(ocrArea.Paragraphs,
				convertParagraph(pidx, fmt.Sprintf("par_%d_%d_%d", pageNumber, aidx, pidx), aidx))
		}

		ocrPage.Areas = append(ocrPage.Areas, ocrArea)
	}

	// Paragraphs not assigned to any block
	for pidx := range page.Paragraphs {
		if assignedParas[pidx] {
			continue
		}
		ocrPage.Paragraphs = append(ocrPage.Paragraphs,
			convertParagraph(pidx, fmt.Sprintf("par_%d_direct_%d", pageNumber, pidx), 0))
	}

	// Lines not assigned to any paragraph
	for lidx, line := range page.Lines {
		if !assignedLines[lidx] {
			ocrPage.Lines = append(ocrPage.Lines,
				convertLineFromProto(line, page, fullText, pageNumber, 0, 0, lidx))
		}
	}

	return ocrPage
}

// documentLanguages collects the languages used on pages and words
func documentLanguages(result *hocr.HOCR) []string {
	seen := map[string]bool{result.Language: true}
	for _, page := range result.Pages {
		seen[page.Lang] = true
	}
	for _, word := range hocr.Words(result) {
		seen[word.Lang] = true
	}

	var langs []string
	for lang := range seen {
		if lang != "" && lang != "unknown" {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// getHocrBoundingBox converts Document AI coordinates to pixel coordinates.
// Normalized vertices (0-1) are scaled to the page dimension; absolute
// vertices are used as they are.
func getHocrBoundingBox(layout *documentaipb.Document_Page_Layout, dimension *documentaipb.Document_Page_Dimension) (hocr.BoundingBox, bool) {
	if layout == nil || layout.BoundingPoly == nil {
		return hocr.BoundingBox{}, false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	add := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	poly := layout.BoundingPoly
	switch {
	case len(poly.NormalizedVertices) > 0 && dimension != nil:
		for _, v := range poly.NormalizedVertices {
			add(float64(v.X)*float64(dimension.Width), float64(v.Y)*float64(dimension.Height))
		}
	case len(poly.Vertices) > 0:
		for _, v := range poly.Vertices {
			add(float64(v.X), float64(v.Y))
		}
	default:
		return hocr.BoundingBox{}, false
	}

	return hocr.NewBoundingBox(math.Round(minX), math.Round(minY), math.Round(maxX), math.Round(maxY)), true
}

// getDocumentLanguage finds the most common language in the document
// by counting language occurrences across all elements
func getDocumentLanguage(doc *documentaipb.Document) string {
	langCount := make(map[string]int)
	for _, page := range doc.Pages {
		for _, lang := range page.DetectedLanguages {
			langCount[lang.LanguageCode]++
		}
		for _, token := range page.Tokens {
			for _, lang := range token.DetectedLanguages {
				langCount[lang.LanguageCode]++
			}
		}
	}

	var mostCommonLang string
	var highestCount int
	for lang, count := range langCount {
		if count > highestCount || (count == highestCount && lang < mostCommonLang) {
			highestCount = count
			mostCommonLang = lang
		}
	}
	return mostCommonLang
}

// isElementInParent reports whether the element's text range lies within the parent's
func isElementInParent(elementLayout, parentLayout *documentaipb.Document_Page_Layout) bool {
	if elementLayout == nil || parentLayout == nil ||
		elementLayout.TextAnchor == nil || parentLayout.TextAnchor == nil ||
		len(elementLayout.TextAnchor.TextSegments) == 0 || len(parentLayout.TextAnchor.TextSegments) == 0 {
		return false
	}

	elementStart := elementLayout.TextAnchor.TextSegments[0].StartIndex
	elementEnd := elementLayout.TextAnchor.TextSegments[0].EndIndex
	parentStart := parentLayout.TextAnchor.TextSegments[0].StartIndex
	parentEnd := parentLayout.TextAnchor.TextSegments[0].EndIndex

	return elementStart >= parentStart && elementEnd <= parentEnd
}

// convertLineFromProto converts a proto line and the tokens inside it to an hOCR line
func convertLineFromProto(line *documentaipb.Document_Page_Line, page *documentaipb.Document_Page,
	fullText string, pageNum, blockIdx, paraIdx, lineIdx int) hocr.Line {

	ocrLine := hocr.Line{
		ID:       fmt.Sprintf("line_%d_%d_%d_%d", pageNum, blockIdx, paraIdx, lineIdx),
		Metadata: make(map[string]string),
	}
	if bbox, ok := getHocrBoundingBox(line.Layout, page.Dimension); ok {
		ocrLine.BBox = bbox
	}
	if len(line.DetectedLanguages) > 0 {
		ocrLine.Lang = line.DetectedLanguages[0].LanguageCode
	}

	for tidx, token := range page.Tokens {
		if !isElementInParent(token.Layout, line.Layout) {
			continue
		}

		word := hocr.Word{
			ID:       fmt.Sprintf("word_%d_%d_%d_%d_%d", pageNum, blockIdx, paraIdx, lineIdx, tidx),
			Text:     tokenText(token, fullText),
			Metadata: make(map[string]string),
		}
		if bbox, ok := getHocrBoundingBox(token.Layout, page.Dimension); ok {
			word.BBox = bbox
		}
		if token.Layout != nil {
			word.Confidence = math.Round(float64(token.Layout.Confidence)*10000) / 100
		}
		if len(token.DetectedLanguages) > 0 {
			word.Lang = token.DetectedLanguages[0].LanguageCode
		}

		ocrLine.Words = append(ocrLine.Words, word)
	}

	return ocrLine
}
