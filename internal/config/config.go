// Package config loads img2html settings.
//
// Settings come from, in increasing precedence: built-in defaults, an optional
// YAML file, IMG2HTML_* environment variables (a .env file in the working
// directory is loaded first when present), and finally command-line flags,
// which the CLI applies on top of the returned Config.
//
// Example YAML:
//
//	output: output.html
//	output_dir: output
//	engine: gdocai
//	languages: [eng, deu]
//	segmenter: native
//	gdocai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// OCR engines
const (
	EngineTesseract = "tesseract"
	EngineDocAI     = "gdocai"
)

// Contour detectors
const (
	SegmenterNative = "native"
	SegmenterOpenCV = "opencv"
)

// Config holds the settings of one conversion run
type Config struct {
	Output    string   `yaml:"output"`     // HTML output path
	OutputDir string   `yaml:"output_dir"` // Directory for cropped element images
	Engine    string   `yaml:"engine"`     // OCR engine name
	Languages []string `yaml:"languages"`  // OCR language hints
	Segmenter string   `yaml:"segmenter"`  // Contour detector name

	HOCR     string `yaml:"hocr"`      // Optional hOCR sidecar path
	Text     string `yaml:"text"`      // Optional plain-text dump of the OCR result
	PDF      string `yaml:"pdf"`       // Optional searchable PDF path
	DebugAPI string `yaml:"debug_api"` // Optional Document AI response dump
	Fields   string `yaml:"fields"`    // Optional Document AI form fields and entities as JSON
	PDFDebug bool   `yaml:"pdf_debug"` // Draw the PDF text layer visibly

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	DocAI DocAIConfig `yaml:"gdocai"`
}

// DocAIConfig holds Google Document AI processor settings.
// Credentials are read from GOOGLE_APPLICATION_CREDENTIALS.
type DocAIConfig struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}

// Default returns a config with the stock output locations
func Default() Config {
	return Config{
		Output:    "output.html",
		OutputDir: "output",
		Engine:    EngineTesseract,
		Languages: []string{"eng"},
		Segmenter: SegmenterNative,
		LogLevel:  "info",
		LogFormat: "text",
		DocAI: DocAIConfig{
			Location: "us",
		},
	}
}

// Load reads defaults, the YAML file at path (skipped when path is empty),
// .env and IMG2HTML_* environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// .env is optional; a missing file is not an error
	_ = godotenv.Load()
	applyEnv(&cfg)

	return cfg, nil
}

// applyEnv overrides cfg with any IMG2HTML_* variables that are set
func applyEnv(cfg *Config) {
	setString(&cfg.Output, "IMG2HTML_OUTPUT")
	setString(&cfg.OutputDir, "IMG2HTML_OUTPUT_DIR")
	setString(&cfg.Engine, "IMG2HTML_ENGINE")
	setString(&cfg.Segmenter, "IMG2HTML_SEGMENTER")
	setString(&cfg.HOCR, "IMG2HTML_HOCR")
	setString(&cfg.Text, "IMG2HTML_TEXT")
	setString(&cfg.PDF, "IMG2HTML_PDF")
	setString(&cfg.DebugAPI, "IMG2HTML_DEBUG_API")
	setString(&cfg.Fields, "IMG2HTML_FIELDS")
	setString(&cfg.LogLevel, "IMG2HTML_LOG_LEVEL")
	setString(&cfg.LogFormat, "IMG2HTML_LOG_FORMAT")
	setString(&cfg.DocAI.ProjectID, "IMG2HTML_GDOCAI_PROJECT_ID")
	setString(&cfg.DocAI.Location, "IMG2HTML_GDOCAI_LOCATION")
	setString(&cfg.DocAI.ProcessorID, "IMG2HTML_GDOCAI_PROCESSOR_ID")

	if v := os.Getenv("IMG2HTML_LANGUAGES"); v != "" {
		cfg.Languages = SplitList(v)
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// SplitList splits a comma or plus separated list ("eng,deu" or "eng+deu")
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '+'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks if configuration is usable
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	switch c.Engine {
	case EngineTesseract:
	case EngineDocAI:
		if c.DocAI.ProjectID == "" || c.DocAI.Location == "" || c.DocAI.ProcessorID == "" {
			return fmt.Errorf("engine %s requires gdocai project_id, location and processor_id", EngineDocAI)
		}
	default:
		return fmt.Errorf("unknown OCR engine %q (want %s or %s)", c.Engine, EngineTesseract, EngineDocAI)
	}

	switch c.Segmenter {
	case SegmenterNative, SegmenterOpenCV:
	default:
		return fmt.Errorf("unknown segmenter %q (want %s or %s)", c.Segmenter, SegmenterNative, SegmenterOpenCV)
	}

	if c.DebugAPI != "" && c.Engine != EngineDocAI {
		return fmt.Errorf("debug_api is only available with engine %s", EngineDocAI)
	}

	if c.Fields != "" && c.Engine != EngineDocAI {
		return fmt.Errorf("fields is only available with engine %s", EngineDocAI)
	}

	return nil
}
