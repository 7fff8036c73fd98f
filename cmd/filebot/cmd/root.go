// Package cmd provides the filebot CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/filebot/internal/cli"
	"github.com/hyperjump/filebot/internal/config"
	"github.com/hyperjump/filebot/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time with -ldflags "-X github.com/hyperjump/filebot/cmd/filebot/cmd.Version=...".
var Version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/filebot/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool
}

// NewRootCmd creates the root command for the filebot CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "filebot",
		Short: "Telegram inline bot that searches indexed files",
		Long: `filebot indexes files posted to Telegram channels and answers inline
queries ("@bot phrase" or "@bot phrase | type") with matching files.

Run 'filebot serve' to start the bot and its HTTP API.`,
		Version:      Version,
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate("filebot version {{.Version}}\n")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "config file path")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newSearchCmd(opts),
		newIndexCmd(opts),
		newDeleteCmd(opts),
		newStatusCmd(opts),
		newReindexCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// setup loads and validates the config and builds the logger.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, resolved, err := loadConfig(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	debug := cfg.Debug || o.debug
	logger, err := utils.NewLogger(debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", resolved), zap.Bool("debug", debug))
	return cfg, logger, nil
}

// withComponents opens storage and the index under the instance lock and runs fn.
func (o *rootOptions) withComponents(fn func(cfg *config.Config, c *Components) error) error {
	cfg, logger, err := o.setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	components, err := initializeComponents(cfg, logger, cfg.Debug || o.debug)
	if err != nil {
		return err
	}
	defer components.Close()
	return fn(cfg, components)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func parseFormat(s string) (cli.OutputFormat, error) {
	switch s {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}
