package logging

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	stageerrors "github.com/gardar/img2html/internal/errors"
)

func TestNewRejectsBadSettings(t *testing.T) {
	if _, err := New("loud", "text", nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("info", "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestForStageJSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", "json", &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ForStage(logger, "run-1", stageerrors.StageSegment).Info("hello")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["run"] != "run-1" || line["stage"] != "segment" || line["msg"] != "hello" {
		t.Errorf("unexpected fields: %v", line)
	}
}

func TestLogStageError(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", "text", &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	entry := ForStage(logger, "run-2", stageerrors.StageText)

	LogStageError(entry, "Error during text extraction",
		stageerrors.NewImageNotFoundError(stageerrors.StageText, "/nope.png", nil))
	out := buf.String()
	if !strings.Contains(out, "error_code=IMAGE_NOT_FOUND") || !strings.Contains(out, "path=/nope.png") {
		t.Errorf("expected stage error fields, got %q", out)
	}

	buf.Reset()
	LogStageError(entry, "plain failure", stderrors.New("boom"))
	if !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("expected plain error field, got %q", buf.String())
	}
}

func TestNewRunIDUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == "" || a == b {
		t.Errorf("expected distinct non-empty run IDs, got %q and %q", a, b)
	}
}
