// Package page assembles the recognized text and the cropped element images
// into a static HTML document.
package page

import (
	"bytes"
	"embed"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	stageerrors "github.com/gardar/img2html/internal/errors"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

type pageData struct {
	Texts  []string
	Images []template.URL
}

// Render returns the document: one paragraph per text, then one image per
// source, in the given order. Text is HTML-escaped; sources are trusted as
// URLs and should come from Sources.
func Render(texts []string, sources []template.URL) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Texts: texts, Images: sources}); err != nil {
		return "", stageerrors.NewRenderFailedError(err)
	}
	return buf.String(), nil
}

// Write renders the document and writes it to outputPath, replacing any
// existing file. Referenced images are not checked for existence.
func Write(outputPath string, texts []string, sources []template.URL) error {
	doc, err := Render(texts, sources)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(doc), 0644); err != nil {
		return stageerrors.NewFilesystemError(stageerrors.StagePage, outputPath, "write", err)
	}
	return nil
}

// Sources converts image paths into src URLs relative to the directory the
// HTML file lives in. Segments are percent-escaped and a leading segment
// containing a colon is prefixed with "./" so it is not read as a scheme.
// Paths that cannot be made relative become file:// URLs.
func Sources(outputPath string, paths []string) []template.URL {
	base, baseErr := filepath.Abs(filepath.Dir(outputPath))
	srcs := make([]template.URL, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			srcs[i] = relativeURL(p)
			continue
		}
		if baseErr == nil {
			if rel, err := filepath.Rel(base, abs); err == nil {
				srcs[i] = relativeURL(rel)
				continue
			}
		}
		srcs[i] = fileURL(abs)
	}
	return srcs
}

func relativeURL(p string) template.URL {
	segs := strings.Split(filepath.ToSlash(p), "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	if strings.Contains(segs[0], ":") {
		segs = append([]string{"."}, segs...)
	}
	return template.URL(strings.Join(segs, "/"))
}

func fileURL(abs string) template.URL {
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return template.URL(u.String())
}
