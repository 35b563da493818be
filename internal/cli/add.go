package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/printforge/gangsheet/pkg/upload"
)

// addCommand creates the add command for uploading images into a project.
func (c *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <project.json> <images...>",
		Short: "Add images to a gang sheet project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			projectPath := args[0]

			p, err := readProjectFile(projectPath)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			files := make([]upload.File, 0, len(args)-1)
			for _, path := range args[1:] {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				files = append(files, upload.File{
					Name:      filepath.Base(path),
					SourceRef: upload.DataURL(data),
					Data:      data,
				})
			}

			items := upload.DecodeAll(p.Sheet, files, logger)
			for _, it := range items {
				if err := p.Add(it); err != nil {
					return err
				}
			}
			if err := writeProjectFile(projectPath, p); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Decoded %d of %d images", len(items), len(files)))

			if skipped := len(files) - len(items); skipped > 0 {
				printWarning("Skipped %d file(s) that are not decodable images", skipped)
			}
			printSuccess("Added %d image(s) to %s", len(items), projectPath)
			printSheetStats(len(p.Items), p.TotalPrice())
			return nil
		},
	}
}
