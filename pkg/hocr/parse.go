package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// ParseHOCR converts raw hOCR data into a structured HOCR object.
func ParseHOCR(data []byte) (HOCR, error) {
	var result HOCR
	result.Metadata = make(map[string]string)

	// Convert to UTF-8 if the document declares a latin-1 charset
	decoded := data
	if enc := detectCharset(data); enc != "" && enc != "utf-8" && enc != "utf8" {
		var err error
		decoded, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return result, fmt.Errorf("failed to decode %s: %w", enc, err)
		}
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, err
	}

	// Extract document metadata from the head section
	extractDocumentMeta(&result, doc)

	// Find and process all ocr_page elements
	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			result.Pages = append(result.Pages, processPage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in HOCR data")
	}
	return result, nil
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	return bboxFromProps(ParseTitle(title))
}

func bboxFromProps(props map[string][]string) *BoundingBox {
	bbox, ok := props["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var coords [4]float64
	for i := range coords {
		v, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		coords[i] = v
	}
	result := NewBoundingBox(coords[0], coords[1], coords[2], coords[3])
	return &result
}

// detectCharset returns the lower-cased charset declared in the document, or ""
func detectCharset(data []byte) string {
	lower := bytes.ToLower(data)
	idx := bytes.Index(lower, []byte("charset="))
	if idx < 0 {
		return ""
	}
	rest := lower[idx+len("charset="):]
	rest = bytes.TrimLeft(rest, `"' `)
	end := bytes.IndexAny(rest, `"';> /`)
	if end < 0 {
		end = len(rest)
	}
	return string(rest[:end])
}

// extractDocumentMeta extracts document-level metadata from the head section
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttrVal(n, "lang"); lang != "" {
					result.Language = lang
				} else if lang := getAttrVal(n, "xml:lang"); lang != "" {
					result.Language = lang
				}
			case "title":
				if n.FirstChild != nil {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name := getAttrVal(n, "name")
				content := getAttrVal(n, "content")
				switch {
				case name == "" || content == "":
				case strings.HasPrefix(name, "ocr-"):
					result.Metadata[name] = content
				case name == "dc.language":
					result.Language = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// processPage extracts page information and its children (areas, paragraphs, lines)
func processPage(n *html.Node) Page {
	page := Page{
		ID:       getAttrVal(n, "id"),
		Lang:     getAttrVal(n, "lang"),
		Metadata: make(map[string]string),
	}

	props := ParseTitle(getAttrVal(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		page.BBox = *bbox
	}
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), `"'`)
	}
	if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
		page.PageNumber, _ = strconv.Atoi(ppageno[0])
	}
	copyProps(page.Metadata, props, "bbox", "image", "ppageno")

	for _, child := range collect(n, "ocr_carea", "ocr_par", lineClasses) {
		switch child.class {
		case "ocr_carea":
			page.Areas = append(page.Areas, processArea(child.node))
		case "ocr_par":
			page.Paragraphs = append(page.Paragraphs, processParagraph(child.node))
		default:
			page.Lines = append(page.Lines, processLine(child.node, child.class))
		}
	}

	return page
}

// processArea extracts area information and its children (paragraphs, lines, words)
func processArea(n *html.Node) Area {
	area := Area{
		ID:       getAttrVal(n, "id"),
		Lang:     getAttrVal(n, "lang"),
		Metadata: make(map[string]string),
	}
	props := ParseTitle(getAttrVal(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		area.BBox = *bbox
	}
	copyProps(area.Metadata, props, "bbox")

	for _, child := range collect(n, "ocr_par", lineClasses, "ocrx_word") {
		switch child.class {
		case "ocr_par":
			area.Paragraphs = append(area.Paragraphs, processParagraph(child.node))
		case "ocrx_word":
			area.Words = append(area.Words, processWord(child.node))
		default:
			area.Lines = append(area.Lines, processLine(child.node, child.class))
		}
	}

	return area
}

// processParagraph extracts paragraph information and its children (lines, words)
func processParagraph(n *html.Node) Paragraph {
	paragraph := Paragraph{
		ID:       getAttrVal(n, "id"),
		Lang:     getAttrVal(n, "lang"),
		Metadata: make(map[string]string),
	}
	props := ParseTitle(getAttrVal(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		paragraph.BBox = *bbox
	}
	copyProps(paragraph.Metadata, props, "bbox")

	for _, child := range collect(n, lineClasses, "ocrx_word") {
		if child.class == "ocrx_word" {
			paragraph.Words = append(paragraph.Words, processWord(child.node))
		} else {
			paragraph.Lines = append(paragraph.Lines, processLine(child.node, child.class))
		}
	}

	return paragraph
}

// processLine extracts line information and its words
func processLine(n *html.Node, class string) Line {
	line := Line{
		ID:       getAttrVal(n, "id"),
		Lang:     getAttrVal(n, "lang"),
		Metadata: make(map[string]string),
	}
	if class != "ocr_line" {
		line.Kind = class
	}

	props := ParseTitle(getAttrVal(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		line.BBox = *bbox
	}
	if baseline, ok := props["baseline"]; ok && len(baseline) > 0 {
		line.Baseline = strings.Join(baseline, " ")
	}
	copyProps(line.Metadata, props, "bbox", "baseline")

	for _, child := range collect(n, "ocrx_word") {
		line.Words = append(line.Words, processWord(child.node))
	}

	return line
}

// processWord extracts the text and properties of a word element
func processWord(n *html.Node) Word {
	word := Word{
		ID:       getAttrVal(n, "id"),
		Lang:     getAttrVal(n, "lang"),
		Text:     extractTextContent(n),
		Metadata: make(map[string]string),
	}

	props := ParseTitle(getAttrVal(n, "title"))
	if bbox := bboxFromProps(props); bbox != nil {
		word.BBox = *bbox
	}
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	if lang, ok := props["lang"]; ok && len(lang) > 0 {
		word.Lang = lang[0]
	}
	copyProps(word.Metadata, props, "bbox", "x_wconf", "lang")

	return word
}

// lineClasses is the collect key for every line-level class
const lineClasses = "ocr_line|ocr_header|ocr_caption|ocr_textfloat"

type classedNode struct {
	node  *html.Node
	class string
}

// collect returns the nearest descendants of n carrying one of the wanted
// classes, in document order. A wanted entry may list alternatives
// separated by '|'. Matching descendants are not searched further.
func collect(n *html.Node, wanted ...string) []classedNode {
	var out []classedNode
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if class := matchClass(node, wanted); class != "" {
				out = append(out, classedNode{node: node, class: class})
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func matchClass(n *html.Node, wanted []string) string {
	for _, w := range wanted {
		for _, alt := range strings.Split(w, "|") {
			if hasClass(n, alt) {
				return alt
			}
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// copyProps stores title properties not already mapped to struct fields
func copyProps(dst map[string]string, props map[string][]string, skip ...string) {
	for k, v := range props {
		skipped := false
		for _, s := range skip {
			if k == s {
				skipped = true
				break
			}
		}
		if !skipped {
			dst[k] = strings.Join(v, " ")
		}
	}
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractTextContent(c))
	}
	return strings.TrimSpace(text.String())
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}
