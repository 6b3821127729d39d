package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/benchrules/internal/catalog"
	"github.com/leapstack-labs/benchrules/internal/cli/config"
	"github.com/leapstack-labs/benchrules/internal/cli/output"
	"github.com/leapstack-labs/benchrules/internal/engine"
	"github.com/leapstack-labs/benchrules/internal/registry"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds a CommandContext from the config and logger stored
// in the command's context.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	mode, err := output.ParseMode(cfg.Format)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// Generation is the outcome of running the configured catalogs through the engine.
type Generation struct {
	Result *engine.Result
	Pairs  int
}

// Generate loads the configured catalogs and generates their rules.
func (c *CommandContext) Generate(ctx context.Context) (*Generation, error) {
	if err := c.Cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c.Logger.Debug("loading catalogs", "catalogs", c.Cfg.Catalogs)
	docs, err := catalog.LoadFiles(ctx, c.Cfg.Catalogs)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}

	reg, err := registry.FromDocuments(docs...)
	if err != nil {
		return nil, fmt.Errorf("failed to index catalogs: %w", err)
	}
	models, configs := reg.Count()
	c.Logger.Debug("indexed catalogs", "models", models, "compile_configs", configs)

	pairs, err := reg.ResolveBenchmarks()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve benchmarks: %w", err)
	}
	if len(pairs) == 0 {
		c.Logger.Warn("catalogs define no benchmarks", "catalogs", len(docs))
	}

	eng := engine.New(engine.Config{
		ModelsDir: c.Cfg.ModelsDir,
		IreeDir:   c.Cfg.IreeDir,
		Logger:    c.Logger,
	})
	result, err := eng.Generate(pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rules: %w", err)
	}

	return &Generation{Result: result, Pairs: len(pairs)}, nil
}
