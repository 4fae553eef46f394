package normalisers

import (
	"maps"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// NewDocument builds the normalised form of raw. ID and timestamps are left
// for the importer to assign.
func NewDocument(raw *domain.RawDocument, title, content, format string) domain.Document {
	metadata := maps.Clone(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["mime_type"] = raw.MIMEType
	if format != "" {
		metadata["format"] = format
	}

	if title == "" {
		title = TitleFromMetadataOrURI(raw)
	}

	return domain.Document{
		ProjectID: raw.ProjectID,
		URI:       raw.URI,
		Title:     title,
		Content:   content,
		Metadata:  metadata,
	}
}

// TitleFromMetadataOrURI checks metadata for a title first, then falls back
// to the file name.
func TitleFromMetadataOrURI(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return TitleFromURI(raw.URI)
}

// TitleFromURI turns a file name into a readable title:
// "03-30-00_cast_in_place.md" becomes "03 30 00 cast in place".
func TitleFromURI(uri string) string {
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
