package services

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var previewMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ExtractPreview renders markdown down to a plain-text snippet of at most
// limit runes, appending "..." when the source ran longer. Formatting is
// dropped, raw HTML is skipped, and runs of whitespace collapse to single
// spaces.
func ExtractPreview(markdown string, limit int) string {
	source := []byte(markdown)
	doc := previewMarkdown.Parser().Parse(text.NewReader(source))

	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		// Enough text collected; a little slack keeps truncation accurate
		// after whitespace collapses.
		if buf.Len() > limit*4+16 {
			return ast.WalkStop, nil
		}

		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	plain := strings.Join(strings.Fields(buf.String()), " ")
	runes := []rune(plain)
	if len(runes) <= limit {
		return plain
	}
	return string(runes[:limit]) + "..."
}
