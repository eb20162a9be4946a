package hocr

import (
	"strings"
)

// Words returns every word of the document in reading order:
// page by page, areas first (paragraphs, then lines, then loose words),
// followed by paragraphs and lines placed directly on the page.
func Words(doc *HOCR) []Word {
	if doc == nil {
		return nil
	}

	var words []Word
	for _, page := range doc.Pages {
		for _, line := range pageLines(page) {
			words = append(words, line...)
		}
	}
	return words
}

// ExtractHOCRText joins the document's words into plain text,
// one line per hOCR line and a blank line between pages.
func ExtractHOCRText(doc *HOCR) string {
	if doc == nil {
		return ""
	}

	var builder strings.Builder
	for i, page := range doc.Pages {
		if i > 0 {
			builder.WriteString("\n")
		}
		for _, line := range pageLines(page) {
			texts := make([]string, 0, len(line))
			for _, w := range line {
				if w.Text != "" {
					texts = append(texts, w.Text)
				}
			}
			if len(texts) > 0 {
				builder.WriteString(strings.Join(texts, " "))
				builder.WriteString("\n")
			}
		}
	}
	return builder.String()
}

// pageLines groups a page's words by their enclosing line, treating a run of
// loose words under a paragraph or area as one line
func pageLines(page Page) [][]Word {
	var lines [][]Word
	addPara := func(para Paragraph) {
		for _, line := range para.Lines {
			lines = append(lines, line.Words)
		}
		if len(para.Words) > 0 {
			lines = append(lines, para.Words)
		}
	}

	for _, area := range page.Areas {
		for _, para := range area.Paragraphs {
			addPara(para)
		}
		for _, line := range area.Lines {
			lines = append(lines, line.Words)
		}
		if len(area.Words) > 0 {
			lines = append(lines, area.Words)
		}
	}
	for _, para := range page.Paragraphs {
		addPara(para)
	}
	for _, line := range page.Lines {
		lines = append(lines, line.Words)
	}
	return lines
}
