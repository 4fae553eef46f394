package domain

// RawDocument represents file bytes read during import, before normalisation.
type RawDocument struct {
	// ProjectID links to the Project the document is imported into.
	ProjectID string

	// URI is the original location (file path).
	URI string

	// MIMEType is the content type (e.g., "text/markdown").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains importer-specific key-value pairs.
	Metadata map[string]any
}
