package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/teemow/drive2md/internal/fault"
)

// htmlToMarkdown converts an HTML document into Markdown, preserving
// heading levels, lists, hyperlinks, emphasis, code and tables. Scripts,
// styles and other non-content markup are stripped.
func htmlToMarkdown(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fault.New(fault.ConversionError, "content declared as HTML could not be parsed: %v", err)
	}

	doc.Find("script, style, noscript, iframe, svg").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	r := &htmlRenderer{}
	for _, node := range root.Nodes {
		r.walkBlocks(node)
	}
	r.flushParagraph()

	return strings.Join(r.blocks, "\n\n"), nil
}

// htmlRenderer accumulates Markdown blocks while walking the HTML tree.
// Inline content between block elements is gathered into paragraphs.
type htmlRenderer struct {
	blocks  []string
	pending strings.Builder
}

func (r *htmlRenderer) walkBlocks(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			r.pending.WriteString(collapseSpace(c.Data))
		case html.ElementNode:
			r.element(c)
		}
	}
}

func (r *htmlRenderer) element(n *html.Node) {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		r.flushParagraph()
		if text := strings.TrimSpace(renderInline(n)); text != "" {
			r.addBlock(strings.Repeat("#", level) + " " + text)
		}
	case "p":
		r.flushParagraph()
		if text := strings.TrimSpace(renderInline(n)); text != "" {
			r.addBlock(text)
		}
	case "ul", "ol":
		r.flushParagraph()
		if list := renderList(n, 0); list != "" {
			r.addBlock(list)
		}
	case "pre":
		r.flushParagraph()
		r.addBlock("```\n" + strings.TrimRight(rawText(n), "\n") + "\n```")
	case "blockquote":
		r.flushParagraph()
		if text := strings.TrimSpace(renderInline(n)); text != "" {
			r.addBlock("> " + text)
		}
	case "table":
		r.flushParagraph()
		if table := renderTable(n); table != "" {
			r.addBlock(table)
		}
	case "hr":
		r.flushParagraph()
		r.addBlock("---")
	case "br":
		r.pending.WriteString("\n")
	case "div", "section", "article", "main", "header", "footer", "nav", "aside", "body":
		// Transparent containers: recurse for nested blocks.
		r.walkBlocks(n)
	default:
		// Inline markup at block level joins the pending paragraph.
		r.pending.WriteString(renderInline2(n))
	}
}

func (r *htmlRenderer) addBlock(block string) {
	r.blocks = append(r.blocks, block)
}

func (r *htmlRenderer) flushParagraph() {
	text := strings.TrimSpace(squeezeSpaces(r.pending.String()))
	r.pending.Reset()
	if text != "" {
		r.blocks = append(r.blocks, text)
	}
}

// renderInline renders the children of n as inline Markdown.
func renderInline(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(renderInline2(c))
	}
	return squeezeSpaces(sb.String())
}

// renderInline2 renders a single node as inline Markdown.
func renderInline2(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return collapseSpace(n.Data)
	case html.ElementNode:
		switch n.Data {
		case "a":
			text := strings.TrimSpace(renderInline(n))
			href := attrValue(n, "href")
			if href == "" {
				return text
			}
			if text == "" {
				text = href
			}
			return fmt.Sprintf("[%s](%s)", text, href)
		case "strong", "b":
			if text := strings.TrimSpace(renderInline(n)); text != "" {
				return "**" + text + "**"
			}
		case "em", "i":
			if text := strings.TrimSpace(renderInline(n)); text != "" {
				return "*" + text + "*"
			}
		case "code":
			if text := strings.TrimSpace(rawText(n)); text != "" {
				return "`" + text + "`"
			}
		case "br":
			return "\n"
		case "img":
			// Images cannot be carried into text output; keep the alt text.
			return attrValue(n, "alt")
		case "script", "style", "noscript":
			return ""
		default:
			return renderInline(n)
		}
	}
	return ""
}

// renderList renders a ul/ol element, indenting nested lists.
func renderList(n *html.Node, depth int) string {
	ordered := n.Data == "ol"
	indent := strings.Repeat("  ", depth)

	var items []string
	index := 1
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}

		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", index)
		}
		index++

		var text strings.Builder
		var nested []string
		for lc := c.FirstChild; lc != nil; lc = lc.NextSibling {
			if lc.Type == html.ElementNode && (lc.Data == "ul" || lc.Data == "ol") {
				if sub := renderList(lc, depth+1); sub != "" {
					nested = append(nested, sub)
				}
				continue
			}
			text.WriteString(renderInline2(lc))
		}

		item := indent + marker + strings.TrimSpace(squeezeSpaces(text.String()))
		if len(nested) > 0 {
			item += "\n" + strings.Join(nested, "\n")
		}
		items = append(items, item)
	}

	return strings.Join(items, "\n")
}

// renderTable renders a table element as a Markdown table, treating the
// first row as the header.
func renderTable(n *html.Node) string {
	var rows []string
	var columnCount int

	var visitRows func(*html.Node)
	visitRows = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				visitRows(c)
			case "tr":
				var cells []string
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
						text := strings.TrimSpace(renderInline(cell))
						cells = append(cells, escapeTableCell(text))
					}
				}
				if len(cells) == 0 {
					continue
				}
				if len(cells) > columnCount {
					columnCount = len(cells)
				}
				rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
			}
		}
	}
	visitRows(n)

	if len(rows) == 0 {
		return ""
	}

	separator := "|" + strings.Repeat(" --- |", columnCount)
	out := []string{rows[0], separator}
	out = append(out, rows[1:]...)
	return strings.Join(out, "\n")
}

// rawText concatenates all text below n without Markdown rendering.
func rawText(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var spaceRun = regexp.MustCompile(`[ \t\r\n\f]+`)

// collapseSpace replaces whitespace runs with single spaces while keeping
// boundary spaces, so words split across inline elements stay separated.
func collapseSpace(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}

var doubleSpace = regexp.MustCompile(`  +`)

func squeezeSpaces(s string) string {
	return doubleSpace.ReplaceAllString(s, " ")
}

// escapeTableCell keeps cell content from breaking the table row.
func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
