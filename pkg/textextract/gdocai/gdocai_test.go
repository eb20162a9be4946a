package gdocai

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/img2html/pkg/hocr"
	"github.com/gardar/img2html/pkg/textextract"
)

func anchor(start, end int64) *documentaipb.Document_TextAnchor {
	return &documentaipb.Document_TextAnchor{
		TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
	}
}

func layout(start, end int64, conf float32, x1, y1, x2, y2 float32) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		TextAnchor: anchor(start, end),
		Confidence: conf,
		BoundingPoly: &documentaipb.BoundingPoly{
			NormalizedVertices: []*documentaipb.NormalizedVertex{
				{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
			},
		},
	}
}

func lang(code string) []*documentaipb.Document_Page_DetectedLanguage {
	return []*documentaipb.Document_Page_DetectedLanguage{{LanguageCode: code, Confidence: 0.9}}
}

// sampleDocument has one block holding one paragraph with the first line,
// and a second line outside any paragraph.
func sampleDocument() *documentaipb.Document {
	return &documentaipb.Document{
		Text: "TEST café\nlow\n",
		Pages: []*documentaipb.Document_Page{{
			PageNumber:        1,
			Dimension:         &documentaipb.Document_Page_Dimension{Width: 200, Height: 100, Unit: "pixels"},
			DetectedLanguages: lang("fr"),
			Blocks: []*documentaipb.Document_Page_Block{
				{Layout: layout(0, 10, 0.9, 0.1, 0.2, 0.6, 0.4)},
			},
			Paragraphs: []*documentaipb.Document_Page_Paragraph{
				{Layout: layout(0, 10, 0.9, 0.1, 0.2, 0.6, 0.4)},
			},
			Lines: []*documentaipb.Document_Page_Line{
				{Layout: layout(0, 10, 0.9, 0.1, 0.2, 0.6, 0.4)},
				{Layout: layout(10, 14, 0.3, 0.1, 0.5, 0.3, 0.7)},
			},
			Tokens: []*documentaipb.Document_Page_Token{
				{Layout: layout(0, 5, 0.98, 0.1, 0.2, 0.3, 0.4), DetectedLanguages: lang("en")},
				{Layout: layout(5, 10, 0.75, 0.35, 0.2, 0.6, 0.4), DetectedLanguages: lang("fr")},
				{Layout: layout(10, 14, 0.3, 0.1, 0.5, 0.3, 0.7), DetectedLanguages: lang("fr")},
			},
		}},
	}
}

func TestCreateHOCRStruct(t *testing.T) {
	doc, err := CreateHOCRStruct(sampleDocument())
	if err != nil {
		t.Fatalf("CreateHOCRStruct failed: %v", err)
	}

	if doc.Language != "fr" {
		t.Errorf("Language = %q, want fr", doc.Language)
	}
	if doc.Metadata["ocr-langs"] != "en, fr" {
		t.Errorf("ocr-langs = %q", doc.Metadata["ocr-langs"])
	}

	page := doc.Pages[0]
	if page.BBox != hocr.NewBoundingBox(0, 0, 200, 100) {
		t.Errorf("page bbox = %+v", page.BBox)
	}
	if len(page.Areas) != 1 || len(page.Areas[0].Paragraphs) != 1 {
		t.Fatalf("unexpected areas: %+v", page.Areas)
	}
	if len(page.Areas[0].Paragraphs[0].Lines) != 1 {
		t.Fatalf("expected one line in the paragraph")
	}
	if len(page.Lines) != 1 {
		t.Fatalf("expected the unassigned line directly on the page, got %d", len(page.Lines))
	}

	words := hocr.Words(doc)
	var texts []string
	for _, w := range words {
		texts = append(texts, w.Text)
	}
	if !reflect.DeepEqual(texts, []string{"TEST", "café", "low"}) {
		t.Errorf("words = %q", texts)
	}
	if words[0].Confidence != 98 || words[1].Confidence != 75 || words[2].Confidence != 30 {
		t.Errorf("confidences = %v %v %v", words[0].Confidence, words[1].Confidence, words[2].Confidence)
	}
	if words[0].BBox != hocr.NewBoundingBox(20, 20, 60, 40) {
		t.Errorf("first word bbox = %+v", words[0].BBox)
	}

	got := textextract.Texts(textextract.Select(doc))
	if !reflect.DeepEqual(got, []string{"TEST", "café"}) {
		t.Errorf("selected = %q", got)
	}
}

func TestCreateHOCRStructAbsoluteVertices(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "Hi",
		Pages: []*documentaipb.Document_Page{{
			Lines: []*documentaipb.Document_Page_Line{{Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, 2)}}},
			Tokens: []*documentaipb.Document_Page_Token{{
				Layout: &documentaipb.Document_Page_Layout{
					TextAnchor: anchor(0, 2),
					Confidence: 0.5,
					BoundingPoly: &documentaipb.BoundingPoly{
						Vertices: []*documentaipb.Vertex{{X: 5, Y: 6}, {X: 25, Y: 6}, {X: 25, Y: 16}, {X: 5, Y: 16}},
					},
				},
			}},
		}},
	}

	result, err := CreateHOCRStruct(doc)
	if err != nil {
		t.Fatal(err)
	}
	if result.Pages[0].PageNumber != 1 {
		t.Errorf("PageNumber = %d, want 1", result.Pages[0].PageNumber)
	}
	words := hocr.Words(result)
	if len(words) != 1 || words[0].BBox != hocr.NewBoundingBox(5, 6, 25, 16) {
		t.Errorf("words = %+v", words)
	}
	if result.Language != "unknown" {
		t.Errorf("Language = %q", result.Language)
	}
}

func TestCreateHOCRStructNil(t *testing.T) {
	if _, err := CreateHOCRStruct(nil); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestEngineRecognize(t *testing.T) {
	var gotMime string
	var gotCfg *Config
	e := New(Config{ProjectID: "p", Location: "eu", ProcessorID: "x"})
	e.process = func(_ context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, error) {
		gotMime, gotCfg = mimeType, cfg
		return sampleDocument(), nil
	}

	doc, err := e.Recognize(context.Background(), []byte("png"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if gotMime != "image/png" || gotCfg.Location != "eu" {
		t.Errorf("process called with %q %+v", gotMime, gotCfg)
	}
	if len(hocr.Words(doc)) != 3 {
		t.Errorf("expected 3 words")
	}
	if e.Response() == nil || e.Response().Text != "TEST café\nlow\n" {
		t.Error("expected raw response to be kept")
	}
	if e.Name() != "gdocai" {
		t.Errorf("Name = %q", e.Name())
	}
}

func TestEngineRecognizeError(t *testing.T) {
	cause := errors.New("permission denied")
	e := New(Config{})
	e.process = func(context.Context, []byte, string, *Config) (*documentaipb.Document, error) {
		return nil, cause
	}
	if _, err := e.Recognize(context.Background(), nil); !errors.Is(err, cause) {
		t.Errorf("expected process error, got %v", err)
	}
	if e.Response() != nil {
		t.Error("no response should be kept on failure")
	}
}

func TestExtractFields(t *testing.T) {
	text := "Name: Ada\nName: Grace\nTotal: 12\n"
	field := func(ks, ke, vs, ve int64) *documentaipb.Document_Page_FormField {
		return &documentaipb.Document_Page_FormField{
			FieldName:  &documentaipb.Document_Page_Layout{TextAnchor: anchor(ks, ke)},
			FieldValue: &documentaipb.Document_Page_Layout{TextAnchor: anchor(vs, ve)},
		}
	}
	doc := &documentaipb.Document{
		Text: text,
		Pages: []*documentaipb.Document_Page{{
			FormFields: []*documentaipb.Document_Page_FormField{
				field(0, 5, 6, 9),
				field(10, 15, 16, 21),
				field(22, 28, 29, 31),
			},
		}},
		Entities: []*documentaipb.Document_Entity{
			{Type: "invoice_id", MentionText: "A-1"},
			{Type: "line_item", MentionText: "2 x tea", Properties: []*documentaipb.Document_Entity{
				{Type: "quantity", MentionText: "2"},
				{Type: "description", MentionText: "tea"},
			}},
			{Type: "", MentionText: "ignored"},
		},
	}

	fields := ExtractFields(doc)
	wantForm := map[string]interface{}{
		"Name":  []string{"Ada", "Grace"},
		"Total": "12",
	}
	if !reflect.DeepEqual(fields.FormFields, wantForm) {
		t.Errorf("form fields = %#v", fields.FormFields)
	}
	wantEntities := map[string]interface{}{
		"invoice_id": "A-1",
		"line_item": map[string]interface{}{
			"_value":      "2 x tea",
			"quantity":    "2",
			"description": "tea",
		},
	}
	if !reflect.DeepEqual(fields.Entities, wantEntities) {
		t.Errorf("entities = %#v", fields.Entities)
	}

	out, err := ToJSON(fields)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"form_fields"`) || !strings.Contains(out, "\n  ") {
		t.Errorf("unexpected JSON:\n%s", out)
	}
}

func TestToJSONProto(t *testing.T) {
	out, err := ToJSON(&documentaipb.Document{Text: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"text"`) || !strings.Contains(out, `"hello"`) {
		t.Errorf("unexpected JSON: %s", out)
	}
}

func TestConfigNames(t *testing.T) {
	cfg := Config{ProjectID: "proj", Location: "eu", ProcessorID: "abc123"}
	if got := cfg.Endpoint(); got != "eu-documentai.googleapis.com:443" {
		t.Errorf("Endpoint = %q", got)
	}
	if got := cfg.ProcessorName(); got != "projects/proj/locations/eu/processors/abc123" {
		t.Errorf("ProcessorName = %q", got)
	}
}

func TestAnchoredTextClamps(t *testing.T) {
	text := []rune("héllo")
	seg := func(s, e int64) *documentaipb.Document_TextAnchor_TextSegment {
		return &documentaipb.Document_TextAnchor_TextSegment{StartIndex: s, EndIndex: e}
	}
	tests := []struct {
		segs []*documentaipb.Document_TextAnchor_TextSegment
		want string
	}{
		{[]*documentaipb.Document_TextAnchor_TextSegment{seg(0, 2)}, "hé"},
		{[]*documentaipb.Document_TextAnchor_TextSegment{seg(3, 99)}, "lo"},
		{[]*documentaipb.Document_TextAnchor_TextSegment{seg(4, 1)}, ""},
		{[]*documentaipb.Document_TextAnchor_TextSegment{seg(0, 1), seg(4, 5)}, "ho"},
	}
	for _, tt := range tests {
		got := anchoredText(&documentaipb.Document_TextAnchor{TextSegments: tt.segs}, text)
		if got != tt.want {
			t.Errorf("anchoredText(%v) = %q, want %q", tt.segs, got, tt.want)
		}
	}
	if anchoredText(nil, text) != "" {
		t.Error("nil anchor should give empty text")
	}
}
