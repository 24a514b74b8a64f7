// Package commands implements the recset subcommands.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/recset-labs/recset/internal/cli/config"
	"github.com/recset-labs/recset/internal/cli/output"
	"github.com/recset-labs/recset/internal/state"
	"github.com/spf13/cobra"
)

type configKey struct{}
type rendererKey struct{}

// WithConfig stores the loaded config in the command context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithRenderer stores the renderer in the command context.
func WithRenderer(ctx context.Context, r *output.Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// GetConfig retrieves the config from the command context, falling back
// to defaults when the command runs outside the root's pre-run.
func GetConfig(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{
		StatePath:    config.DefaultStateFile,
		OutputFormat: config.DefaultOutput,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(cmd *cobra.Command) *output.Renderer {
	if r, ok := cmd.Context().Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
}

// openStore opens the baseline database configured for this invocation,
// creating its directory if needed.
func openStore(cmd *cobra.Command) (*state.SQLiteStore, error) {
	cfg := GetConfig(cmd.Context())

	dir := filepath.Dir(cfg.StatePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	return store, nil
}
