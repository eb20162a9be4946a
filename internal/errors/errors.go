// Package errors defines the typed errors returned by the conversion stages.
//
// Every stage returns a *StageError instead of swallowing failures, so callers
// can tell "nothing was found" (nil error, empty result) apart from "the stage
// failed" (non-nil error). The pipeline logs these and degrades to an empty
// result for the failing stage.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode classifies a stage failure
type ErrorCode string

const (
	// Input errors
	ErrorImageNotFound ErrorCode = "IMAGE_NOT_FOUND"
	ErrorImageDecode   ErrorCode = "IMAGE_DECODE"

	// Library errors
	ErrorOCRFailed          ErrorCode = "OCR_FAILED"
	ErrorSegmentationFailed ErrorCode = "SEGMENTATION_FAILED"
	ErrorRenderFailed       ErrorCode = "RENDER_FAILED"

	// Filesystem errors
	ErrorFilesystem ErrorCode = "FILESYSTEM"
)

// Stage names used in StageError.Stage and log fields
const (
	StageText    = "text"
	StageSegment = "segment"
	StagePage    = "page"
)

// StageError is a structured failure of one conversion stage
type StageError struct {
	Code      ErrorCode
	Stage     string
	Message   string
	Path      string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// Is matches another *StageError by code, so errors.Is(err, &StageError{Code: ...}) works.
func (e *StageError) Is(target error) bool {
	t, ok := target.(*StageError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Stage == "" || t.Stage == e.Stage)
}

// Factory functions for common errors

func NewImageNotFoundError(stage, path string, cause error) *StageError {
	return &StageError{
		Code:      ErrorImageNotFound,
		Stage:     stage,
		Message:   fmt.Sprintf("Image not found at %s", path),
		Path:      path,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewImageDecodeError(stage, path string, cause error) *StageError {
	return &StageError{
		Code:      ErrorImageDecode,
		Stage:     stage,
		Message:   fmt.Sprintf("Failed to decode image %s", path),
		Path:      path,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewOCRFailedError(path, engine string, cause error) *StageError {
	return &StageError{
		Code:      ErrorOCRFailed,
		Stage:     StageText,
		Message:   fmt.Sprintf("OCR failed with engine: %s", engine),
		Path:      path,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"ocr_engine": engine,
		},
		Cause: cause,
	}
}

func NewSegmentationFailedError(path, detector string, cause error) *StageError {
	return &StageError{
		Code:      ErrorSegmentationFailed,
		Stage:     StageSegment,
		Message:   fmt.Sprintf("Contour detection failed with detector: %s", detector),
		Path:      path,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"detector": detector,
		},
		Cause: cause,
	}
}

func NewFilesystemError(stage, path, op string, cause error) *StageError {
	return &StageError{
		Code:      ErrorFilesystem,
		Stage:     stage,
		Message:   fmt.Sprintf("Failed to %s %s", op, path),
		Path:      path,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"operation": op,
		},
		Cause: cause,
	}
}

func NewRenderFailedError(cause error) *StageError {
	return &StageError{
		Code:      ErrorRenderFailed,
		Stage:     StagePage,
		Message:   "Failed to render HTML page",
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// CodeOf returns the ErrorCode of the first *StageError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var se *StageError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// ToMap converts error to map for structured log fields
func (e *StageError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"stage":      e.Stage,
		"message":    e.Message,
		"timestamp":  e.Timestamp,
	}

	if e.Path != "" {
		result["path"] = e.Path
	}

	for k, v := range e.Details {
		result[k] = v
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	return result
}
