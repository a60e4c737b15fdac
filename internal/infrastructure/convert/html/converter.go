// Package html converts HTML documents to markdown with goquery.
package html

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domainerrors "github.com/unifiedui/docchat-service/internal/domain/errors"
)

// Extensions handled by this converter.
var Extensions = []string{".html", ".htm"}

// Converter renders HTML files as markdown.
type Converter struct{}

// NewConverter creates a new HTML converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert reads the HTML file at path and returns its markdown rendering.
func (c *Converter) Convert(ctx context.Context, path string) (string, error) {
	name := filepath.Base(path)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", domainerrors.NewConversionError(name, err)
	}

	markdown, err := Render(data)
	if err != nil {
		return "", domainerrors.NewConversionError(name, err)
	}
	return markdown, nil
}

// Render converts an HTML document to markdown.
func Render(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("head, script, style, noscript, template").Remove()

	var b strings.Builder
	renderBlock(doc.Find("body"), &b)
	return normalize(b.String()), nil
}

func renderBlock(sel *goquery.Selection, b *strings.Builder) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		switch tag := goquery.NodeName(node); tag {
		case "#text":
			b.WriteString(collapseSpace(node.Text()))
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level := int(tag[1] - '0')
			b.WriteString("\n\n" + strings.Repeat("#", level) + " " + renderInline(node) + "\n\n")
		case "p", "div", "section", "article", "main", "header", "footer", "nav", "aside", "blockquote":
			b.WriteString("\n\n")
			renderBlock(node, b)
			b.WriteString("\n\n")
		case "ul", "ol":
			b.WriteString("\n\n")
			node.ChildrenFiltered("li").Each(func(i int, item *goquery.Selection) {
				marker := "- "
				if tag == "ol" {
					marker = fmt.Sprintf("%d. ", i+1)
				}
				b.WriteString(marker + renderInline(item) + "\n")
			})
			b.WriteString("\n")
		case "pre":
			b.WriteString("\n\n```\n" + strings.Trim(node.Text(), "\n") + "\n```\n\n")
		case "table":
			b.WriteString("\n\n")
			renderTable(node, b)
			b.WriteString("\n")
		case "br":
			b.WriteString("\n")
		case "hr":
			b.WriteString("\n\n---\n\n")
		default:
			b.WriteString(renderInlineNode(node))
		}
	})
}

func renderInline(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		b.WriteString(renderInlineNode(node))
	})
	return strings.TrimSpace(collapseSpace(b.String()))
}

func renderInlineNode(node *goquery.Selection) string {
	switch goquery.NodeName(node) {
	case "#text":
		return collapseSpace(node.Text())
	case "a":
		text := renderInline(node)
		if href, ok := node.Attr("href"); ok && href != "" {
			return "[" + text + "](" + href + ")"
		}
		return text
	case "code":
		return "`" + node.Text() + "`"
	case "strong", "b":
		return "**" + renderInline(node) + "**"
	case "em", "i":
		return "*" + renderInline(node) + "*"
	case "br":
		return " "
	case "img":
		alt, _ := node.Attr("alt")
		return alt
	default:
		return renderInline(node)
	}
}

func renderTable(table *goquery.Selection, b *strings.Builder) {
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		var cells []string
		row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.ReplaceAll(renderInline(cell), "|", `\|`))
		})
		if len(cells) == 0 {
			return
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		if i == 0 {
			b.WriteString("|" + strings.Repeat(" --- |", len(cells)) + "\n")
		}
	})
}

// collapseSpace folds whitespace runs into single spaces, keeping one
// space at either edge so adjacent inline nodes stay separated.
func collapseSpace(s string) string {
	fields := strings.FieldsFunc(s, isSpace)
	if len(fields) == 0 {
		if s == "" {
			return ""
		}
		return " "
	}

	out := strings.Join(fields, " ")
	if isSpace(rune(s[0])) {
		out = " " + out
	}
	if isSpace(rune(s[len(s)-1])) {
		out += " "
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

// normalize trims lines outside code fences and collapses blank runs.
func normalize(s string) string {
	var out []string
	inFence := false
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			out = append(out, "```")
			continue
		}
		if !inFence {
			line = strings.TrimSpace(line)
			if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
				continue
			}
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
