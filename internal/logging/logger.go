package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	stageerrors "github.com/gardar/img2html/internal/errors"
)

// New builds a logrus logger writing to w (stderr when nil).
// format is "text" or "json"; level is any logrus level name.
func New(level, format string, w io.Writer) (*logrus.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}

	return logger, nil
}

// NewRunID returns an identifier attached to every log line of one invocation
func NewRunID() string {
	return uuid.NewString()
}

// ForStage returns an entry tagged with the run and stage fields
func ForStage(logger logrus.FieldLogger, runID, stage string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"run":   runID,
		"stage": stage,
	})
}

// LogStageError logs err with the fields of its *StageError, if it carries one.
func LogStageError(entry *logrus.Entry, msg string, err error) {
	var se *stageerrors.StageError
	if errors.As(err, &se) {
		entry.WithFields(logrus.Fields(se.ToMap())).Error(msg)
		return
	}
	entry.WithError(err).Error(msg)
}
