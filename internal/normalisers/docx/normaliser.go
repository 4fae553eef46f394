// Package docx extracts text from Word documents such as project
// specifications and meeting minutes.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MIMEType is the Office Open XML word processing type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	documentPart   = "word/document.xml"
	corePropsPart  = "docProps/core.xml"
	maxPartSize    = 64 << 20
	wordprocessing = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts paragraph text from the document body, one line per
// paragraph. The title comes from the core properties when set.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	archive, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", raw.URI, domain.ErrInvalidInput)
	}

	body, err := readPart(archive, documentPart)
	if err != nil {
		return nil, fmt.Errorf("read docx %s: %w", raw.URI, err)
	}
	content, err := bodyText(body)
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", raw.URI, domain.ErrInvalidInput)
	}

	withMeta := *raw
	props := coreProperties(archive)
	if props.Creator != "" {
		withMeta.Metadata = make(map[string]any, len(raw.Metadata)+1)
		withMeta.Metadata["author"] = props.Creator
		for k, v := range raw.Metadata {
			withMeta.Metadata[k] = v
		}
	}

	return &driven.NormaliseResult{
		Document: normalisers.NewDocument(&withMeta, strings.TrimSpace(props.Title), content, "docx"),
	}, nil
}

func readPart(archive *zip.Reader, name string) ([]byte, error) {
	f, err := archive.Open(name)
	if err != nil {
		return nil, fmt.Errorf("missing %s: %w", name, domain.ErrInvalidInput)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPartSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, domain.ErrInvalidInput)
	}
	return data, nil
}

// bodyText streams word/document.xml, collecting w:t runs.
func bodyText(data []byte) (string, error) {
	var (
		lines  []string
		line   strings.Builder
		inText bool
	)

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordprocessing {
				continue
			}
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				line.WriteByte('\t')
			case "br", "cr":
				lines = append(lines, line.String())
				line.Reset()
			}
		case xml.EndElement:
			if el.Name.Space != wordprocessing {
				continue
			}
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				lines = append(lines, line.String())
				line.Reset()
			}
		case xml.CharData:
			if inText {
				line.Write(el)
			}
		}
	}
	lines = append(lines, line.String())

	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n"), nil
}

type coreProps struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
}

// coreProperties reads docProps/core.xml; a missing or broken part yields
// empty properties.
func coreProperties(archive *zip.Reader) coreProps {
	var props coreProps
	data, err := readPart(archive, corePropsPart)
	if err != nil {
		return props
	}
	_ = xml.Unmarshal(data, &props)
	props.Creator = strings.TrimSpace(props.Creator)
	return props
}
