package html

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts an HTML document to a normalised document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	page, err := extract(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", raw.URI, err)
	}

	withMeta := *raw
	if len(page.meta) > 0 {
		withMeta.Metadata = make(map[string]any, len(raw.Metadata)+len(page.meta))
		for k, v := range page.meta {
			withMeta.Metadata[k] = v
		}
		for k, v := range raw.Metadata {
			withMeta.Metadata[k] = v
		}
	}

	return &driven.NormaliseResult{
		Document: normalisers.NewDocument(&withMeta, page.title, page.text, "html"),
	}, nil
}

// Elements whose content is never visible text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Object:   true,
}

// Elements that start a new line.
var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Br: true, atom.Caption: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true,
	atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Table: true, atom.Td: true, atom.Th: true,
	atom.Tr: true, atom.Ul: true,
}

// Meta names copied into document metadata.
var metaNames = map[string]bool{
	"author":      true,
	"description": true,
	"keywords":    true,
}

type page struct {
	title string
	text  string
	meta  map[string]string
}

// Text returns the title and visible text of an HTML document.
func Text(src []byte) (title, text string, err error) {
	p, err := extract(src)
	if err != nil {
		return "", "", err
	}
	return p.title, p.text, nil
}

func extract(src []byte) (page, error) {
	var (
		p       page
		lines   []string
		line    strings.Builder
		title   strings.Builder
		skip    int
		inTitle bool
	)

	flush := func() {
		if s := collapse(line.String()); s != "" {
			lines = append(lines, s)
		}
		line.Reset()
	}

	z := xhtml.NewTokenizer(bytes.NewReader(src))
	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return page{}, err
			}
			flush()
			p.title = collapse(title.String())
			p.text = strings.Join(lines, "\n")
			return p, nil

		case xhtml.TextToken:
			switch {
			case inTitle:
				title.Write(z.Text())
			case skip == 0:
				line.Write(z.Text())
			}

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Title:
				inTitle = tt == xhtml.StartTagToken
			case a == atom.Meta && hasAttr:
				readMeta(z, &p)
			case skipped[a]:
				if tt == xhtml.StartTagToken {
					skip++
				}
			case blocks[a]:
				flush()
			}

		case xhtml.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Title:
				inTitle = false
			case skipped[a]:
				if skip > 0 {
					skip--
				}
			case blocks[a]:
				flush()
			}
		}
	}
}

func readMeta(z *xhtml.Tokenizer, p *page) {
	var name, content string
	for {
		key, val, more := z.TagAttr()
		switch strings.ToLower(string(key)) {
		case "name":
			name = strings.ToLower(string(val))
		case "content":
			content = string(val)
		}
		if !more {
			break
		}
	}
	if !metaNames[name] || strings.TrimSpace(content) == "" {
		return
	}
	if p.meta == nil {
		p.meta = make(map[string]string)
	}
	if _, ok := p.meta[name]; !ok {
		p.meta[name] = strings.TrimSpace(content)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
