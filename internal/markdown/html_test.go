package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToMarkdown(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "heading and list",
			html: "<h1>Hi</h1><ul><li>a</li></ul>",
			want: "# Hi\n\n- a",
		},
		{
			name: "heading levels",
			html: "<h1>One</h1><h2>Two</h2><h3>Three</h3>",
			want: "# One\n\n## Two\n\n### Three",
		},
		{
			name: "paragraph with emphasis",
			html: "<p>Hello <strong>bold</strong> and <em>italic</em> text</p>",
			want: "Hello **bold** and *italic* text",
		},
		{
			name: "hyperlink",
			html: `<p>See <a href="https://example.com/docs">the docs</a>.</p>`,
			want: "See [the docs](https://example.com/docs).",
		},
		{
			name: "ordered list",
			html: "<ol><li>first</li><li>second</li></ol>",
			want: "1. first\n2. second",
		},
		{
			name: "nested list",
			html: "<ul><li>a<ul><li>b</li></ul></li><li>c</li></ul>",
			want: "- a\n  - b\n- c",
		},
		{
			name: "inline code",
			html: "<p>run <code>go test</code> now</p>",
			want: "run `go test` now",
		},
		{
			name: "code block",
			html: "<pre>func main() {\n}</pre>",
			want: "```\nfunc main() {\n}\n```",
		},
		{
			name: "table",
			html: "<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>",
			want: "| A | B |\n| --- | --- |\n| 1 | 2 |",
		},
		{
			name: "scripts and styles are stripped",
			html: "<style>h1{color:red}</style><h1>Hi</h1><script>alert(1)</script>",
			want: "# Hi",
		},
		{
			name: "container markup is transparent",
			html: "<div><section><p>inner</p></section></div>",
			want: "inner",
		},
		{
			name: "blockquote",
			html: "<blockquote>quoted words</blockquote>",
			want: "> quoted words",
		},
		{
			name: "horizontal rule",
			html: "<p>a</p><hr><p>b</p>",
			want: "a\n\n---\n\nb",
		},
		{
			name: "image alt text kept",
			html: `<p>before <img src="x.png" alt="diagram"> after</p>`,
			want: "before diagram after",
		},
		{
			name: "whitespace collapsed",
			html: "<p>spread\n  across\n  lines</p>",
			want: "spread across lines",
		},
		{
			name: "bare text without markup",
			html: "just text",
			want: "just text",
		},
		{
			name: "empty document",
			html: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.html), "text/html")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A full document with head metadata converts to the body content only.
func TestHTMLToMarkdownFullDocument(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><title>ignored</title><meta charset="utf-8"></head>
<body>
<h1>Report</h1>
<p>Summary of <a href="https://example.com">results</a>.</p>
<ul>
<li>one</li>
<li>two</li>
</ul>
</body>
</html>`

	got, err := Normalize([]byte(page), "text/html")
	require.NoError(t, err)
	assert.Equal(t, "# Report\n\nSummary of [results](https://example.com).\n\n- one\n- two", got)
}
