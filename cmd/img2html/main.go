// img2html converts a single raster image into a static HTML page.
//
// The text on the image is recognized with OCR and every confident word
// becomes a paragraph. Visual elements are found by contour detection,
// cropped to output/element_{i}.png and referenced from image tags. The page
// is written to output.html.
//
// Usage:
//
//	img2html [image] [flags]
//
// When no image is given the path is read from standard input.
//
// Output options:
//
//	--output string      HTML output path (default "output.html")
//	--output-dir string  Directory for cropped elements (default "output")
//	--hocr string        Path to save hOCR output
//	--text string        Path to save OCR text output
//	--pdf string         Path to save a searchable PDF of the image
//	--debug-api string   Path to save the raw Document AI response as JSON
//	--fields string      Path to save Document AI form fields and entities as JSON
//
// Engine options:
//
//	--engine string      OCR engine: tesseract or gdocai (default "tesseract")
//	--languages string   OCR languages, comma separated (default "eng")
//	--segmenter string   Contour detector: native, or opencv when built with -tags opencv
//	--config string      YAML configuration file
//
// Settings can also be given as IMG2HTML_* environment variables or in a
// .env file. Document AI uses GOOGLE_APPLICATION_CREDENTIALS for
// authentication.
//
// Example:
//
//	img2html scan.png --hocr scan.hocr --pdf scan.pdf
//	echo scan.png | img2html --engine gdocai --config config.yml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gardar/img2html/internal/cli"
)

var flags cli.Flags

var rootCmd = &cobra.Command{
	Use:           "img2html [image]",
	Short:         "Convert an image into an HTML page of its text and visual elements",
	Args:          cobra.MaximumNArgs(1),
	RunE:          runConvert,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags.Register(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
