package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Bytes per chunk (default: 1000)
//   - overlap (int): Overlapping bytes between chunks (default: 200)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	size, hasSize := intFromConfig(cfg, "chunk_size")
	overlap, hasOverlap := intFromConfig(cfg, "overlap")

	if hasSize && size <= 0 {
		return nil, fmt.Errorf("chunker: chunk_size %d: %w", size, domain.ErrInvalidInput)
	}
	if hasSize && hasOverlap && overlap >= size {
		return nil, fmt.Errorf("chunker: overlap %d not below chunk_size %d: %w", overlap, size, domain.ErrInvalidInput)
	}

	var opts []chunker.Option
	if hasSize {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if hasOverlap {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return chunker.New(opts...), nil
}

// intFromConfig extracts an int from a generic config map. It handles the
// int, int64 and float64 types that come from TOML or JSON parsing.
func intFromConfig(cfg map[string]any, key string) (int, bool) {
	switch v := cfg[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
