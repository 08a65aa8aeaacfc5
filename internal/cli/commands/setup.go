// Package commands implements the dashcat subcommands.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dsa-labs/dashcat/internal/classify"
	"github.com/dsa-labs/dashcat/internal/cli/config"
	"github.com/dsa-labs/dashcat/internal/cli/output"
	"github.com/dsa-labs/dashcat/internal/engine"
	"github.com/dsa-labs/dashcat/internal/source"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a pipeline engine built
// from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc := NewCommandContextWithoutEngine(cmd)

	eng, err := createEngine(cc.Cfg, cc.Logger)
	if err != nil {
		return nil, err
	}
	cc.Engine = eng
	return cc, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that don't run the pipeline.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, with defaults when the root
// command's config load has not run (tests invoking a command directly).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		ProjectName:  config.DefaultProjectName,
		OutputDir:    config.DefaultOutputDir,
		ServeAddr:    config.DefaultServeAddr,
		OutputFormat: config.DefaultOutput,
	}
}

// createEngine loads the classification inputs and builds the configured
// sources into a pipeline engine.
func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	rules, err := classify.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	meta, err := classify.LoadMetadata(cfg.MetadataPath)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	overrides := classify.LoadOverrides(cfg.OverridesPath, logger)

	sources := source.Build(cfg.Credentials(), logger)
	if len(sources) == 0 {
		logger.Warn("no sources configured; the catalog will be empty")
	}

	return engine.New(engine.Config{
		Sources:     sources,
		Rules:       rules,
		Metadata:    meta,
		Overrides:   overrides,
		ProjectName: cfg.ProjectName,
		Logger:      logger,
	}), nil
}
