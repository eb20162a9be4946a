// Package hocr implements parsing and generation of hOCR data, the HTML-based
// format OCR engines use to report recognized text with positions and
// confidence.
//
// hOCR is the common result format of every OCR engine in img2html: Tesseract
// emits it natively and the Document AI engine converts its response into it.
// The text extractor then filters the words of the parsed document.
//
// The package implements the hierarchy defined by hOCR:
// Document → Pages → Areas → Paragraphs → Lines → Words, with metadata at each level.
//
// Key Types:
//
// - HOCR: Top-level structure representing an entire hOCR document
// - Page: 'ocr_page'
// - Area: 'ocr_carea'
// - Paragraph: 'ocr_par'
// - Line: 'ocr_line' (and Tesseract's 'ocr_header', 'ocr_caption', 'ocr_textfloat')
// - Word: 'ocrx_word', with x_wconf confidence
// - BoundingBox: the 'bbox' property
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data from HTML into the object model
// - GenerateHOCRDocument: Generates hOCR HTML from the object model
// - Words: Flattens a document into its words in reading order
package hocr
