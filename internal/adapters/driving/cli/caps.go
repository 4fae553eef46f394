package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var capsCmd = &cobra.Command{
	Use:   "caps",
	Short: "Show detected terminal capabilities",
	Long: `Print what scopeiq detected about the terminal: colour depth, whether
output is interactive, its width and background. SCOPEIQ_COLOR forces a
colour level; NO_COLOR disables colour.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStores: "true"},
	RunE:        runCaps,
}

func init() {
	capsCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(capsCmd)
}

func runCaps(cmd *cobra.Command, _ []string) error {
	if capabilityProbe == nil {
		return errors.New("capability probe not configured")
	}

	caps := capabilityProbe.Probe()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(caps, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal capabilities: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	mode := currentSettings().Render.Color
	effective := mode.Apply(caps)

	cmd.Printf("Colour:          %s\n", caps.Color)
	cmd.Printf("Interactive:     %s\n", yesNo(caps.Interactive))
	cmd.Printf("Width:           %d\n", caps.Width)
	cmd.Printf("Dark background: %s\n", yesNo(caps.DarkBackground))
	cmd.Printf("NO_COLOR:        %s\n", yesNo(caps.NoColorRequested))
	cmd.Printf("Colour mode:     %s\n", mode)
	cmd.Printf("Styled output:   %s\n", yesNo(effective.SupportsColor()))
	return nil
}
