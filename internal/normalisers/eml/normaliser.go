// Package eml normalises saved email messages, such as RFI threads and
// transmittals exported from a mail client.
package eml

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers"
	"github.com/custodia-labs/scopeiq-cli/internal/normalisers/html"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// maxDepth bounds nested multipart recursion.
const maxDepth = 8

var headerDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

// Normaliser handles EML (email) documents.
type Normaliser struct{}

// New creates a new EML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"message/rfc822"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts a message to a document whose content starts with the
// address headers followed by the body. Plain text parts are preferred
// over HTML; attachments are skipped.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("read message %s: %w", raw.URI, domain.ErrInvalidInput)
	}

	headers := []struct{ name, value string }{
		{"From", decodeHeader(msg.Header.Get("From"))},
		{"To", decodeHeader(msg.Header.Get("To"))},
		{"Cc", decodeHeader(msg.Header.Get("Cc"))},
		{"Date", msg.Header.Get("Date")},
		{"Subject", decodeHeader(msg.Header.Get("Subject"))},
	}

	body, err := readBody(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body, 0)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", raw.URI, err)
	}

	var content strings.Builder
	withMeta := *raw
	withMeta.Metadata = make(map[string]any, len(raw.Metadata)+len(headers))
	for _, h := range headers {
		if h.value == "" {
			continue
		}
		fmt.Fprintf(&content, "%s: %s\n", h.name, h.value)
		withMeta.Metadata[strings.ToLower(h.name)] = h.value
	}
	for k, v := range raw.Metadata {
		withMeta.Metadata[k] = v
	}
	content.WriteString("\n")
	content.WriteString(body)

	subject := headers[len(headers)-1].value
	return &driven.NormaliseResult{
		Document: normalisers.NewDocument(&withMeta, subject, strings.TrimSpace(content.String()), "eml"),
	}, nil
}

// decodeHeader decodes RFC 2047 encoded words, returning the input when
// decoding fails.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	decoded, err := headerDecoder.DecodeHeader(header)
	if err != nil {
		return header
	}
	return decoded
}

func readBody(contentType, transferEncoding string, r io.Reader, depth int) (string, error) {
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, params = "text/plain", nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if depth >= maxDepth || params["boundary"] == "" {
			return "", nil
		}
		return readMultipart(r, params["boundary"], depth+1)
	}

	data, err := io.ReadAll(decodeTransfer(r, transferEncoding))
	if err != nil {
		return "", fmt.Errorf("decode %s part: %w", transferEncoding, domain.ErrInvalidInput)
	}
	text := toUTF8(data, params["charset"])

	switch mediaType {
	case "text/html":
		_, visible, err := html.Text([]byte(text))
		if err != nil {
			return "", err
		}
		return visible, nil
	case "text/plain", "":
		return strings.ReplaceAll(text, "\r\n", "\n"), nil
	default:
		return "", nil
	}
}

func readMultipart(r io.Reader, boundary string, depth int) (string, error) {
	var plain, rich []string

	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Keep what was readable from a truncated message.
			break
		}

		if disposition, _, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition")); disposition == "attachment" {
			continue
		}

		contentType := part.Header.Get("Content-Type")
		text, err := readBody(contentType, part.Header.Get("Content-Transfer-Encoding"), part, depth)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		if strings.HasPrefix(contentType, "text/html") {
			rich = append(rich, text)
		} else {
			plain = append(plain, text)
		}
	}

	if len(plain) > 0 {
		return strings.Join(plain, "\n"), nil
	}
	return strings.Join(rich, "\n"), nil
}

func decodeTransfer(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	default:
		return r
	}
}

// toUTF8 converts data from the declared charset; unknown charsets are
// passed through unchanged.
func toUTF8(data []byte, charset string) string {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8", "us-ascii":
		return string(data)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(data)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}
