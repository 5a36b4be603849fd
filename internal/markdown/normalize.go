package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/teemow/drive2md/internal/fault"
)

// MIME types the normalizer understands. They mirror the export planner's
// target formats.
const (
	mimeMarkdown = "text/markdown"
	mimeHTML     = "text/html"
	mimePlain    = "text/plain"
	mimeCSV      = "text/csv"
	mimeTSV      = "text/tab-separated-values"
)

// Normalize converts content in the declared format into well-formed
// Markdown. It is a pure transform: no network access, deterministic
// output, and content already in Markdown form is returned byte-for-byte.
func Normalize(data []byte, mimeType string) (string, error) {
	if !utf8.Valid(data) {
		return "", fault.New(fault.ConversionError, "content declared as %q is not valid text", mimeType)
	}

	switch normalizeMimeType(mimeType) {
	case mimeMarkdown, "text/x-markdown":
		return string(data), nil
	case mimePlain:
		return string(data), nil
	case mimeHTML:
		return htmlToMarkdown(data)
	case mimeCSV:
		return delimitedToMarkdown(data, ',')
	case mimeTSV:
		return delimitedToMarkdown(data, '\t')
	default:
		return "", fault.New(fault.ConversionError, "no Markdown rendering for content type %q", mimeType)
	}
}

func normalizeMimeType(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
