package hocr

import (
	"strings"
	"testing"
)

func sampleDocument() *HOCR {
	return &HOCR{
		Title:    "element scan",
		Language: "en",
		Metadata: map[string]string{"ocr-system": "img2html"},
		Pages: []Page{{
			ID:        "page_1",
			ImageName: "input.png",
			BBox:      NewBoundingBox(0, 0, 200, 200),
			Areas: []Area{{
				ID:   "block_1_1",
				BBox: NewBoundingBox(10, 10, 150, 60),
				Paragraphs: []Paragraph{{
					ID:   "par_1_1",
					BBox: NewBoundingBox(10, 10, 150, 60),
					Lines: []Line{
						{
							ID:       "line_1_1",
							BBox:     NewBoundingBox(10, 10, 150, 30),
							Baseline: "0 -2",
							Words: []Word{
								{ID: "word_1_1", Text: "Fish", BBox: NewBoundingBox(10, 10, 60, 30), Confidence: 91.6},
								{ID: "word_1_2", Text: "& <chips>", BBox: NewBoundingBox(70, 10, 150, 30), Confidence: 75},
							},
						},
						{
							ID:   "line_1_2",
							Kind: "ocr_caption",
							BBox: NewBoundingBox(10, 40, 90, 60),
							Words: []Word{
								{ID: "word_1_3", Text: "  Menu ", BBox: NewBoundingBox(10, 40, 90, 60), Confidence: 64},
							},
						},
					},
				}},
			}},
		}},
	}
}

func TestGenerateHOCRDocumentRoundTrip(t *testing.T) {
	out, err := GenerateHOCRDocument(sampleDocument())
	if err != nil {
		t.Fatalf("GenerateHOCRDocument failed: %v", err)
	}

	if !strings.Contains(out, `title="bbox 10 10 60 30; x_wconf 92"`) {
		t.Errorf("expected rounded word confidence in output:\n%s", out)
	}
	if !strings.Contains(out, "&amp; &lt;chips&gt;") {
		t.Errorf("expected escaped word text in output:\n%s", out)
	}
	if !strings.Contains(out, `class="ocr_caption"`) {
		t.Errorf("expected line class to be preserved:\n%s", out)
	}

	doc, err := ParseHOCR([]byte(out))
	if err != nil {
		t.Fatalf("ParseHOCR of generated document failed: %v", err)
	}
	if doc.Title != "element scan" || doc.Language != "en" {
		t.Errorf("title/lang = %q/%q", doc.Title, doc.Language)
	}
	if doc.Metadata["ocr-system"] != "img2html" {
		t.Errorf("metadata = %v", doc.Metadata)
	}
	if doc.Pages[0].ImageName != "input.png" {
		t.Errorf("ImageName = %q", doc.Pages[0].ImageName)
	}

	words := Words(&doc)
	want := []string{"Fish", "& <chips>", "Menu"}
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d", len(words), len(want))
	}
	for i, w := range words {
		if w.Text != want[i] {
			t.Errorf("word %d = %q, want %q", i, w.Text, want[i])
		}
	}
	if words[0].Confidence != 92 {
		t.Errorf("confidence = %v, want 92", words[0].Confidence)
	}
	lines := doc.Pages[0].Areas[0].Paragraphs[0].Lines
	if lines[0].Baseline != "0 -2" || lines[1].Class() != "ocr_caption" {
		t.Errorf("line properties not preserved: %+v", lines)
	}
}

func TestGenerateHOCRDocumentNil(t *testing.T) {
	if _, err := GenerateHOCRDocument(nil); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestExtractHOCRText(t *testing.T) {
	doc := sampleDocument()
	doc.Pages = append(doc.Pages, Page{
		ID: "page_2",
		Lines: []Line{{
			Words: []Word{{Text: "second"}, {Text: ""}, {Text: "page"}},
		}},
	})

	got := ExtractHOCRText(doc)
	want := "Fish & <chips>\n  Menu \n\nsecond page\n"
	if got != want {
		t.Errorf("ExtractHOCRText = %q, want %q", got, want)
	}

	if ExtractHOCRText(nil) != "" {
		t.Error("expected empty text for nil document")
	}
}
