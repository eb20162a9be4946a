package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// anchoredText joins the segments of anchor. Segment indices count code
// points of the document text and are clamped to it.
func anchoredText(anchor *documentaipb.Document_TextAnchor, text []rune) string {
	var b strings.Builder
	for _, seg := range anchor.GetTextSegments() {
		start := min(max(int(seg.GetStartIndex()), 0), len(text))
		end := min(max(int(seg.GetEndIndex()), start), len(text))
		b.WriteString(string(text[start:end]))
	}
	return b.String()
}

func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	return anchoredText(layout.GetTextAnchor(), []rune(fullText))
}

// tokenText is a token's text on a single line: surrounding breaks are
// dropped and inner whitespace runs collapse to one space
func tokenText(token *documentaipb.Document_Page_Token, fullText string) string {
	return strings.Join(strings.Fields(textFromLayout(token.GetLayout(), fullText)), " ")
}
