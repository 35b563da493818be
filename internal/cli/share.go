package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/printforge/gangsheet/pkg/codec"
	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/project"
)

// shareCommand creates the share command for encoding a project as a URL
// and decoding received share payloads.
func (c *CLI) shareCommand() *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "share <project.json>",
		Short: "Create a shareable link for a gang sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProjectFile(args[0])
			if err != nil {
				return err
			}
			if base == "" {
				base = c.cfg.Share.BaseURL
			}
			url, err := codec.ShareURL(base, p)
			if err != nil {
				return err
			}
			printSuccess("Share link for %s", args[0])
			fmt.Println("  " + StyleLink.Render(url))
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base URL for the link (default from config)")

	cmd.AddCommand(c.shareDecodeCommand())
	return cmd
}

// shareDecodeCommand turns a share token or URL back into a project file.
func (c *CLI) shareDecodeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode <token-or-url>",
		Short: "Decode a share link into a project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := args[0]

			var p *project.Project
			var err error
			if strings.Contains(arg, "://") {
				p, err = codec.FromURL(arg)
				if err == nil && p == nil {
					err = errors.New(errors.ErrCodeSharePayloadInvalid, "URL carries no shared sheet")
				}
			} else {
				p, err = codec.DecodeShare(arg)
			}
			if err != nil {
				return err
			}

			if err := writeProjectFile(output, p); err != nil {
				return err
			}
			printSuccess("Decoded shared sheet into %s", output)
			printDetail("%s · %d image(s)", p.Sheet.Name, len(p.Items))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultProjectFile, "project file to write")
	return cmd
}
