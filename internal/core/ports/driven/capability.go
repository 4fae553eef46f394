package driven

import "github.com/custodia-labs/scopeiq-cli/internal/core/domain"

// CapabilityProbe reports what the output terminal can display.
// Renderers receive the probed result instead of inspecting the
// environment themselves.
type CapabilityProbe interface {
	Probe() domain.Capabilities
}
