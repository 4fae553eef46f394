package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/termcaps"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

func TestCapsCmd(t *testing.T) {
	svc := setupTestServices(t)

	out, err := executeCommand(t, "caps")
	require.NoError(t, err)
	assert.Contains(t, out, "Colour:          ansi256")
	assert.Contains(t, out, "Width:           120")
	assert.Contains(t, out, "Colour mode:     auto")
	assert.Contains(t, out, "Styled output:   yes")

	require.NoError(t, svc.settings.Set("render.color", "never"))
	out, err = executeCommand(t, "caps")
	require.NoError(t, err)
	assert.Contains(t, out, "Colour mode:     never")
	assert.Contains(t, out, "Styled output:   no")
}

func TestCapsCmd_NoColorRequested(t *testing.T) {
	setupTestServices(t)
	capabilityProbe = termcaps.Static{Color: domain.ColorTrueColor, NoColorRequested: true}

	out, err := executeCommand(t, "caps")

	require.NoError(t, err)
	assert.Contains(t, out, "NO_COLOR:        yes")
	assert.Contains(t, out, "Styled output:   no")
}

func TestCapsCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "caps", "--json")
	require.NoError(t, err)

	var caps domain.Capabilities
	require.NoError(t, json.Unmarshal([]byte(out), &caps))
	assert.Equal(t, domain.ColorANSI256, caps.Color)
	assert.Equal(t, 120, caps.Width)
	assert.True(t, caps.DarkBackground)
}

func TestCapsCmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand(t, "caps")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "capability probe not configured")
}
