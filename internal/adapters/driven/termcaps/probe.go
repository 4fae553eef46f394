// Package termcaps reports what the output terminal can display.
package termcaps

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
)

// Ensure Probe and Static implement the interface.
var (
	_ driven.CapabilityProbe = (*Probe)(nil)
	_ driven.CapabilityProbe = Static{}
)

// Environment variables consulted by Probe.
const (
	// EnvColor forces a colour level: none, ansi, ansi256 or truecolor.
	EnvColor = "SCOPEIQ_COLOR"

	// EnvNoColor disables colour when set to any non-empty value.
	EnvNoColor = "NO_COLOR"
)

// Probe inspects a terminal file and the environment.
type Probe struct {
	out    *os.File
	getenv func(string) string
}

// Option configures a Probe.
type Option func(*Probe)

// WithGetenv replaces os.Getenv.
func WithGetenv(getenv func(string) string) Option {
	return func(p *Probe) {
		p.getenv = getenv
	}
}

// New creates a probe for out, usually os.Stdout.
func New(out *os.File, opts ...Option) *Probe {
	p := &Probe{out: out, getenv: os.Getenv}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe returns the current capabilities. A forced level in SCOPEIQ_COLOR
// wins over NO_COLOR, which wins over terminal detection. Output that is
// not a terminal gets no colour unless forced.
func (p *Probe) Probe() domain.Capabilities {
	var caps domain.Capabilities

	fd := int(p.out.Fd())
	caps.Interactive = term.IsTerminal(fd)
	if caps.Interactive {
		if w, _, err := term.GetSize(fd); err == nil {
			caps.Width = w
		}
	}

	output := termenv.NewOutput(p.out)
	if caps.Interactive {
		caps.Color = levelFor(output.ColorProfile())
		caps.DarkBackground = output.HasDarkBackground()
	} else {
		caps.DarkBackground = true
	}

	caps.NoColorRequested = p.getenv(EnvNoColor) != ""

	if forced := strings.ToLower(strings.TrimSpace(p.getenv(EnvColor))); forced != "" {
		if level, ok := domain.ParseColorLevel(forced); ok {
			caps.Color = level
			caps.NoColorRequested = false
		} else {
			logger.Warn("Ignoring %s=%q", EnvColor, forced)
		}
	}

	logger.Debug("Terminal: interactive=%t width=%d color=%s dark=%t no_color=%t",
		caps.Interactive, caps.Width, caps.Color, caps.DarkBackground, caps.NoColorRequested)
	return caps
}

// levelFor maps a termenv profile to a colour level.
func levelFor(profile termenv.Profile) domain.ColorLevel {
	switch profile {
	case termenv.TrueColor:
		return domain.ColorTrueColor
	case termenv.ANSI256:
		return domain.ColorANSI256
	case termenv.ANSI:
		return domain.ColorANSI
	default:
		return domain.ColorNone
	}
}

// Static is a fixed capability set for tests and forced modes.
type Static domain.Capabilities

// Probe returns the fixed capabilities.
func (s Static) Probe() domain.Capabilities {
	return domain.Capabilities(s)
}
