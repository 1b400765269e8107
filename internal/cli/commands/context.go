package commands

import (
	"log/slog"
	"net/http"

	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/config"
	"github.com/ProsePal/ebooklib-autoupdate/internal/cli/output"
	"github.com/ProsePal/ebooklib-autoupdate/internal/license"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the configuration, logger and renderer the root
// command stored in the command context. Commands run on their own fall back to
// the last loaded configuration and a renderer on the command's writers.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if cfg == nil {
		cfg = getConfig()
	}
	renderer := config.GetRenderer(ctx)
	if renderer == nil {
		renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(ctx),
		Renderer: renderer,
	}
}

// getConfig returns the current configuration, or the defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// newFetcher builds a license fetcher from the configuration.
func (c *CommandContext) newFetcher() *license.Fetcher {
	f := license.NewFetcher(c.Cfg.LicenseURL, c.Logger)
	f.Retries = c.Cfg.LicenseRetries
	f.BaseDelay = c.Cfg.LicenseBackoff
	f.Client = &http.Client{Timeout: c.Cfg.LicenseTimeout}
	return f
}
