package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/sheet"
	"github.com/printforge/gangsheet/pkg/units"
)

// newCommand creates the new command for starting a project file.
func (c *CLI) newCommand() *cobra.Command {
	var preset, unit, output string
	var dpi float64

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new gang sheet project file",
		Long:  `Create a new gang sheet project file. Without --preset an interactive picker is shown when running on a terminal; otherwise the default preset is used.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := c.chooseSheet(preset)
			if err != nil {
				return err
			}
			if unit != "" {
				u, err := units.Parse(unit)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidUnit, err, "invalid unit")
				}
				sh.Unit = u
			}
			if dpi > 0 {
				sh.ExportDPI = dpi
			}

			p := project.New(sh)
			if err := writeProjectFile(output, p); err != nil {
				return err
			}

			printSuccess("Created %s", output)
			printDetail("%s · %g × %g %s · export at %g DPI", sh.Name, sh.Width, sh.Height, sh.Unit, sh.ExportDPI)
			printNextStep("Add images", "gangsheet add "+output+" image.png")
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "sheet preset name (see 'gangsheet presets')")
	cmd.Flags().StringVar(&unit, "unit", "", "measurement unit: inch, centimeter, pixel")
	cmd.Flags().Float64Var(&dpi, "dpi", 0, "export resolution in DPI (default 300)")
	cmd.Flags().StringVarP(&output, "output", "o", defaultProjectFile, "project file to create")

	return cmd
}

// chooseSheet resolves the sheet preset: by name when given, interactively
// on a terminal, and the default preset otherwise.
func (c *CLI) chooseSheet(preset string) (sheet.Sheet, error) {
	presets := c.cfg.SheetPresets()
	if preset != "" {
		for _, p := range presets {
			if p.Name == preset {
				return p, nil
			}
		}
		return sheet.Sheet{}, errors.New(errors.ErrCodeInvalidInput, "unknown sheet preset: %q", preset)
	}
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return pickPreset(presets)
	}
	return sheet.Default(), nil
}
