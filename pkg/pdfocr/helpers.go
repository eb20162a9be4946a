package pdfocr

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/unicode"
)

// unescapePDFString reverses the backslash escapes of a PDF literal string
func unescapePDFString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// decodeUTF16BE decodes a PDF text string that starts with a UTF-16BE BOM
func decodeUTF16BE(b []byte) (string, error) {
	return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().String(string(b))
}

// getLogger returns the configured logger, or one that discards everything
func getLogger(config OCRConfig) logrus.FieldLogger {
	if config.Logger != nil {
		return config.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
