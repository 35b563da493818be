package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// presetsCommand creates the presets command for listing sheet presets.
func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List available sheet presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Sheet Presets"))
			for _, p := range c.cfg.SheetPresets() {
				printInfo("%s", p.Name)
				printDetail("%g × %g %s · $%.2f base · up to %d images · %g DPI export",
					p.Width, p.Height, p.Unit, p.Price, p.MaxItems, p.ExportDPI)
			}
			return nil
		},
	}
}
