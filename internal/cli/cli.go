// Package cli implements the sastopo2svg command-line interface.
//
// The main commands are:
//   - render: Convert a topology snapshot into SVG, HTML, DOT, or JSON
//   - serve: Render a snapshot and serve the result over HTTP
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sasutils/sastopo2svg/pkg/buildinfo"
	"github.com/sasutils/sastopo2svg/pkg/config"
	"github.com/sasutils/sastopo2svg/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "sastopo2svg"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the settings
// from the user's config file. A missing config file yields the defaults.
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := config.LoadDefault()
	if err != nil {
		cfg = config.Default()
	}
	return &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "sastopo2svg renders SAS topology snapshots as interactive diagrams",
		Long:         `sastopo2svg converts a serialized SAS fabric topology snapshot into a layered node-link diagram: initiators on the left, expanders and ports in the middle, targets on the right, with clickable vertices exposing their properties.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				c.Config = cfg
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/sastopo2svg/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// parseFormats parses a comma-separated format string into a slice,
// falling back to the configured defaults when empty.
func (c *CLI) parseFormats(s string) []string {
	if s == "" {
		return c.Config.Formats
	}
	return strings.Split(s, ",")
}
