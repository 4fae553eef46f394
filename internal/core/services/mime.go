package services

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// knownTypes covers extensions the system MIME table often lacks or maps
// inconsistently across platforms.
var knownTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".log":      "text/plain",
	".csv":      "text/csv",
	".tsv":      "text/tab-separated-values",
	".html":     "text/html",
	".htm":      "text/html",
	".xhtml":    "application/xhtml+xml",
	".eml":      "message/rfc822",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".json":     "application/json",
	".xml":      "application/xml",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
}

// detectMIMEType returns the MIME type for path from its extension.
func detectMIMEType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", fmt.Errorf("%s has no extension: %w", filepath.Base(path), domain.ErrUnsupportedType)
	}
	if t, ok := knownTypes[ext]; ok {
		return t, nil
	}
	if t := mime.TypeByExtension(ext); t != "" {
		base, _, err := mime.ParseMediaType(t)
		if err == nil {
			return base, nil
		}
	}
	return "", fmt.Errorf("extension %s: %w", ext, domain.ErrUnsupportedType)
}
