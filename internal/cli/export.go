package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/printforge/gangsheet/pkg/export"
)

// exportCommand creates the export command for producing print artifacts.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <project.json>",
		Short: "Export a gang sheet as SVG, PNG, or PDF",
		Long: `Export a gang sheet as a print-ready artifact. The format is taken
from the output file extension (default SVG). PNG and PDF need
rsvg-convert on PATH; without it the export degrades to SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			p, err := readProjectFile(args[0])
			if err != nil {
				return err
			}

			format := formatFromPath(output)
			exporter := export.New(export.WithLogger(logger))
			snap := export.Snap(p)

			var res export.Result
			if format == export.FormatSVG {
				res = exporter.Vector(snap)
			} else {
				// External renderers can take a while on large sheets.
				sp := newSpinner(cmd.Context(), "Rendering "+format+"...")
				sp.Start()
				res, err = exporter.Export(cmd.Context(), snap, format)
				sp.Stop()
				if err != nil {
					return err
				}
			}

			path := output
			if path == "" {
				path = res.Filename
			} else if res.Format != format {
				// Degraded output gets the extension it actually is.
				path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + res.Format
			}
			if err := os.WriteFile(path, res.Data, 0644); err != nil {
				return err
			}

			if res.Format != format {
				printWarning("%s renderer unavailable, wrote %s instead", format, res.Format)
			}
			printSuccess("Exported %s at %g DPI", res.Format, p.Sheet.ExportDPI)
			printFile(path)
			printSheetStats(len(p.Items), p.TotalPrice())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg, .png, or .pdf)")
	return cmd
}

// formatFromPath derives the export format from the output extension.
// An empty or unknown extension falls back to SVG.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return export.FormatPNG
	case ".pdf":
		return export.FormatPDF
	}
	return export.FormatSVG
}
