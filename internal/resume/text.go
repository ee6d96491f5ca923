package resume

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTag          = regexp.MustCompile(`<[^>]+>`)
	xmlEntities      = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
)

// Text extracts plain text from a document, choosing the reader by file extension.
func Text(doc Document) (string, error) {
	switch strings.ToLower(filepath.Ext(doc.Name)) {
	case ".pdf":
		return pdfText(doc.Data)
	case ".docx":
		return docxText(doc.Data)
	case ".txt":
		return string(doc.Data), nil
	default:
		return "", fmt.Errorf("unsupported document type %q", filepath.Ext(doc.Name))
	}
}

// pdfText concatenates the text of every page in page order, one output line
// per text line of the page.
func pdfText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		writePageText(&builder, page.Content().Text)
	}
	return builder.String(), nil
}

// writePageText lays out positioned glyphs as lines. A change of baseline
// starts a new line; a horizontal gap wider than a fraction of the font size
// between glyphs on the same line becomes a space.
func writePageText(builder *strings.Builder, glyphs []pdf.Text) {
	if len(glyphs) == 0 {
		return
	}

	prev := glyphs[0]
	builder.WriteString(prev.S)
	for _, g := range glyphs[1:] {
		tolerance := max(prev.FontSize, g.FontSize) / 2
		switch {
		case math.Abs(g.Y-prev.Y) > max(tolerance, 1):
			builder.WriteString("\n")
		case g.X-(prev.X+prev.W) > 0.15*g.FontSize && !isSpace(prev.S) && !isSpace(g.S):
			builder.WriteString(" ")
		}
		builder.WriteString(g.S)
		prev = g
	}
	builder.WriteString("\n")
}

func isSpace(s string) bool {
	return strings.TrimSpace(s) == ""
}

// docxText returns the document body with one line per paragraph.
func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTag.ReplaceAllString(content, "")
	return xmlEntities.Replace(content), nil
}
