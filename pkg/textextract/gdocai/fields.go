package gdocai

import (
	"slices"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// Fields holds the structured data a form parser or custom extractor
// processor returns alongside the OCR text
type Fields struct {
	FormFields map[string]interface{} `json:"form_fields"`
	Entities   map[string]interface{} `json:"entities"`
}

// ExtractFields collects form fields and extractor entities from a response
func ExtractFields(docProto *documentaipb.Document) Fields {
	return Fields{
		FormFields: ExtractFormFields(docProto),
		Entities:   ExtractEntities(docProto),
	}
}

// ExtractFormFields maps each form field name, without its trailing colon,
// to its value. A name seen with different values maps to all of them.
func ExtractFormFields(docProto *documentaipb.Document) map[string]interface{} {
	fields := make(map[string]interface{})
	text := []rune(docProto.GetText())

	for _, page := range docProto.GetPages() {
		for _, field := range page.GetFormFields() {
			name := strings.TrimSpace(anchoredText(field.GetFieldName().GetTextAnchor(), text))
			value := strings.TrimSpace(anchoredText(field.GetFieldValue().GetTextAnchor(), text))
			addValueToMap(fields, strings.TrimSuffix(name, ":"), value)
		}
	}
	return fields
}

// ExtractEntities maps custom extractor entities by type. An entity with
// properties becomes a nested map holding its own mention text under "_value".
func ExtractEntities(docProto *documentaipb.Document) map[string]interface{} {
	fields := make(map[string]interface{})
	for _, entity := range docProto.GetEntities() {
		if entity.GetType() != "" {
			addEntity(fields, entity)
		}
	}
	return fields
}

func addEntity(fields map[string]interface{}, entity *documentaipb.Document_Entity) {
	key, value := entity.GetType(), entity.GetMentionText()
	if len(entity.GetProperties()) == 0 {
		addValueToMap(fields, key, value)
		return
	}

	var props map[string]interface{}
	switch existing := fields[key].(type) {
	case map[string]interface{}:
		props = existing
	case nil:
		props = make(map[string]interface{})
	default:
		props = map[string]interface{}{"_value": existing}
	}
	if value != "" {
		addValueToMap(props, "_value", value)
	}
	for _, prop := range entity.GetProperties() {
		addEntity(props, prop)
	}
	fields[key] = props
}

// addValueToMap stores value under key. Repeated distinct values turn the
// entry into a []string; a key without a value holds an empty map that
// later properties can fill.
func addValueToMap(fields map[string]interface{}, key, value string) {
	if key == "" {
		return
	}

	existing, ok := fields[key]
	switch {
	case !ok && value == "":
		fields[key] = make(map[string]interface{})
		return
	case !ok:
		fields[key] = value
		return
	case value == "":
		return
	}

	switch v := existing.(type) {
	case string:
		if v != value {
			fields[key] = []string{v, value}
		}
	case []string:
		if !slices.Contains(v, value) {
			fields[key] = append(v, value)
		}
	case map[string]interface{}:
		if len(v) == 0 {
			fields[key] = value
		} else {
			addValueToMap(v, "_value", value)
		}
	}
}
