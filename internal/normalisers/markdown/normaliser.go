// Package markdown normalises Markdown specifications and notes to plain text.
package markdown

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise parses the document and keeps its readable text. Code blocks,
// raw HTML and images are dropped; link targets are dropped but link text
// is kept. The title is the first level one heading, then a front matter
// title, then the file name.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	src := bytes.ReplaceAll(raw.Content, []byte("\r\n"), []byte("\n"))
	frontMatter, body := splitFrontMatter(src)

	withMeta := *raw
	if len(frontMatter) > 0 {
		withMeta.Metadata = mergeFrontMatter(raw.Metadata, frontMatter, raw.URI)
	}

	doc := goldmark.DefaultParser().Parse(text.NewReader(body))
	content, title := extract(doc, body)

	return &driven.NormaliseResult{
		Document: normalisers.NewDocument(&withMeta, title, content, "markdown"),
	}, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block.
func splitFrontMatter(src []byte) (frontMatter, body []byte) {
	if !bytes.HasPrefix(src, []byte("---\n")) {
		return nil, src
	}
	rest := src[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, src
	}
	after := rest[end+len("\n---"):]
	if len(after) > 0 && after[0] != '\n' {
		return nil, src
	}
	return rest[:end], bytes.TrimPrefix(after, []byte("\n"))
}

func mergeFrontMatter(base map[string]any, frontMatter []byte, uri string) map[string]any {
	var fields map[string]any
	if err := yaml.Unmarshal(frontMatter, &fields); err != nil {
		logger.Debug("markdown: ignoring front matter in %s: %v", uri, err)
		return base
	}

	merged := make(map[string]any, len(base)+len(fields))
	for k, v := range fields {
		merged[k] = v
	}
	// Caller supplied metadata wins over the file.
	for k, v := range base {
		merged[k] = v
	}
	return merged
}

func extract(doc ast.Node, src []byte) (content, title string) {
	var b strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML, *ast.Image:
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			if entering && node.Level == 1 && title == "" {
				title = inlineText(node, src)
			}
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.Label(src))
			}
		}

		if !entering && n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument {
			endBlock(&b, n)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String()), title
}

// endBlock separates paragraphs and headings by a blank line and other
// blocks by a newline.
func endBlock(b *strings.Builder, n ast.Node) {
	if b.Len() == 0 {
		return
	}
	s := b.String()
	if !strings.HasSuffix(s, "\n") {
		b.WriteByte('\n')
		s += "\n"
	}
	switch n.(type) {
	case *ast.Paragraph, *ast.Heading, *ast.List, *ast.Blockquote, *ast.ThematicBreak:
		if !strings.HasSuffix(s, "\n\n") {
			b.WriteByte('\n')
		}
	}
}

func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Image, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
