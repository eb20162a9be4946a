// Package cli holds the command-line surface of img2html that does not
// depend on an OCR engine: flag registration, layering flags over the loaded
// configuration, detector lookup and reading the image path.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gardar/img2html/internal/config"
	"github.com/gardar/img2html/pkg/segment"
)

// Prompt is written before the image path is read from standard input
const Prompt = "Enter the path to the image: "

// Flags are the command-line settings. Only flags that were set on the
// command line override the file and environment values.
type Flags struct {
	Config    string
	Output    string
	OutputDir string
	Engine    string
	Languages string
	Segmenter string
	HOCR      string
	Text      string
	PDF       string
	PDFDebug  bool
	DebugAPI  string
	Fields    string
	LogLevel  string
	LogFormat string
}

// Register binds the flags to fs
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to the config YAML file")
	fs.StringVar(&f.Output, "output", "", "HTML output path")
	fs.StringVar(&f.OutputDir, "output-dir", "", "Directory to save cropped visual elements")
	fs.StringVar(&f.Engine, "engine", "", "OCR engine (tesseract or gdocai)")
	fs.StringVar(&f.Languages, "languages", "", "Comma-separated OCR languages")
	fs.StringVar(&f.Segmenter, "segmenter", "", "Contour detector (native or opencv)")
	fs.StringVar(&f.HOCR, "hocr", "", "Path to save hOCR output")
	fs.StringVar(&f.Text, "text", "", "Path to save OCR text output")
	fs.StringVar(&f.PDF, "pdf", "", "Path to save a searchable PDF")
	fs.BoolVar(&f.PDFDebug, "pdf-debug", false, "Draw the PDF text layer visibly with word boxes")
	fs.StringVar(&f.DebugAPI, "debug-api", "", "Path to save API response as JSON for debugging purposes")
	fs.StringVar(&f.Fields, "fields", "", "Path to save form fields and entities JSON")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFormat, "log-format", "", "Log format (text or json)")
}

// Load reads the configuration file and environment, applies the flags that
// were changed on fs, and validates the result.
func (f *Flags) Load(fs *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return cfg, err
	}
	f.apply(fs, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (f *Flags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("output", &cfg.Output, f.Output)
	set("output-dir", &cfg.OutputDir, f.OutputDir)
	set("engine", &cfg.Engine, f.Engine)
	set("segmenter", &cfg.Segmenter, f.Segmenter)
	set("hocr", &cfg.HOCR, f.HOCR)
	set("text", &cfg.Text, f.Text)
	set("pdf", &cfg.PDF, f.PDF)
	set("debug-api", &cfg.DebugAPI, f.DebugAPI)
	set("fields", &cfg.Fields, f.Fields)
	set("log-level", &cfg.LogLevel, f.LogLevel)
	set("log-format", &cfg.LogFormat, f.LogFormat)
	if fs.Changed("languages") {
		cfg.Languages = config.SplitList(f.Languages)
	}
	if fs.Changed("pdf-debug") {
		cfg.PDFDebug = f.PDFDebug
	}
}

// Detector returns the registered contour detector for the configured name.
// A name that validates but was not compiled in is a configuration error.
func Detector(name string) (segment.Detector, error) {
	d, ok := segment.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("invalid configuration: segmenter %q is not available in this build (have %s)",
			name, strings.Join(segment.Registered(), ", "))
	}
	return d, nil
}

// ImagePath returns the image path from args, or prompts on out and reads one
// line from in. The path is made absolute. An empty answer or a failed read
// yields an empty path, which the pipeline reports as a missing image.
func ImagePath(args []string, in io.Reader, out io.Writer) string {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		fmt.Fprint(out, Prompt)
		line, _ := bufio.NewReader(in).ReadString('\n')
		path = strings.TrimSpace(line)
	}
	if path == "" {
		return ""
	}

	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
