// Package cli implements the gangsheet command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/printforge/gangsheet/pkg/buildinfo"
	"github.com/printforge/gangsheet/pkg/config"
	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/store"
)

// defaultProjectFile is the project file name used when -o is not given.
const defaultProjectFile = "gangsheet.json"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. Configuration is loaded before any command runs, and the
// logger rides along on the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "gangsheet",
		Short:        "Gangsheet arranges images on print-ready gang sheets",
		Long:         `Gangsheet is a CLI and server for building gang sheets: upload images, arrange them manually or with automatic layouts, and export print-ready SVG, PNG, or PDF artifacts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default gangsheet.toml, or $GANGSHEET_CONFIG)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.shareCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newStore opens the persistence backend selected in the configuration.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	sc := c.cfg.Store
	switch sc.Backend {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     sc.RedisAddr,
			Password: sc.RedisPassword,
			DB:       sc.RedisDB,
			Prefix:   sc.RedisPrefix,
		})
	case config.StoreMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        sc.MongoURI,
			Database:   sc.MongoDatabase,
			Collection: sc.MongoCollection,
		})
	case config.StoreFile, "":
		return store.NewFileStore(sc.Dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend: %q", sc.Backend)
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}
