package cli

import (
	"github.com/spf13/cobra"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/layout"
)

// layoutCommand creates the layout command for automatic arrangement.
func (c *CLI) layoutCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "layout <project.json>",
		Short: "Arrange a project's images with an automatic layout",
		Long: `Arrange a project's images with an automatic layout strategy.

Modes:
  grid   uniform rows and columns, items shrunk to fit their cell
  shelf  rows of varying height, items keep their relative sizes
  smart  size-sorted shelf packing for tight sheet utilization`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			m, err := layout.ParseMode(mode)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidLayout, err, "invalid layout mode")
			}

			p, err := readProjectFile(args[0])
			if err != nil {
				return err
			}
			logger.Debugf("Arranging %d items on %s", len(p.Items), p.Sheet.Name)

			items, err := layout.Apply(m, p.Items, p.Sheet)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidLayout, err, "applying layout")
			}
			if err := p.ReplaceItems(items); err != nil {
				return err
			}
			p.View.LayoutMode = string(m)

			if err := writeProjectFile(args[0], p); err != nil {
				return err
			}
			printSuccess("Arranged %d image(s) with %s layout", len(p.Items), m)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(layout.ModeGrid), "layout mode: grid, shelf, smart")
	return cmd
}
