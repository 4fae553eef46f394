package normalisers

import (
	"cmp"
	"context"
	"fmt"
	"mime"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw documents to the highest-priority normaliser
// registered for their MIME type.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.normalisers = append(r.normalisers, normaliser)
	slices.SortStableFunc(r.normalisers, func(a, b driven.Normaliser) int {
		return cmp.Compare(b.Priority(), a.Priority())
	})
}

// Normalise transforms a raw document using the best matching normaliser.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.lookup(raw.MIMEType)
	if n == nil {
		return nil, fmt.Errorf("no normaliser for %q: %w", raw.MIMEType, domain.ErrUnsupportedType)
	}

	logger.Debug("Normalising %s as %s (priority %d)", raw.URI, raw.MIMEType, n.Priority())
	return n.Normalise(ctx, raw)
}

// Supports reports whether a normaliser is registered for mimeType.
func (r *Registry) Supports(mimeType string) bool {
	return r.lookup(mimeType) != nil
}

// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []string
	for _, n := range r.normalisers {
		types = append(types, n.SupportedMIMETypes()...)
	}
	slices.Sort(types)
	return slices.Compact(types)
}

func (r *Registry) lookup(mimeType string) driven.Normaliser {
	base := baseMIMEType(mimeType)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.normalisers {
		if slices.Contains(n.SupportedMIMETypes(), base) {
			return n
		}
	}
	return nil
}

// baseMIMEType strips parameters: "text/plain; charset=utf-8" becomes
// "text/plain".
func baseMIMEType(mimeType string) string {
	if base, _, err := mime.ParseMediaType(mimeType); err == nil {
		return base
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
