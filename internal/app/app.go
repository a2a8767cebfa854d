package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/startable/startable-go/internal/config"
	"github.com/startable/startable-go/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	pipeline *config.Pipeline
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and the resolved
// pipeline model. outW receives pipeline output when the output path is
// empty or "-"; logs go to logW.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var pipeline *config.Pipeline
	if appConfig.PipelinePath != "" {
		// Load the pipeline into the format-agnostic model first.
		cfgModel, err := loader.Load(ctx, appConfig.PipelinePath)
		if err != nil {
			// A failure to load config is a fatal startup error.
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		pipeline = cfgModel.Pipeline
		logger.Debug("Configuration loaded and translated into unified model.")
	} else {
		pipeline = directPipeline(appConfig)
		logger.Debug("Pipeline assembled from command-line flags.")
	}

	return &App{
		outW:     outW,
		logger:   logger,
		pipeline: pipeline,
	}
}

// directPipeline builds a single-input pipeline model from CLI flags.
func directPipeline(appConfig *Config) *config.Pipeline {
	return &config.Pipeline{
		Inputs: []*config.Input{{
			Path: appConfig.InputPath,
			Sep:  appConfig.Sep,
		}},
		Output: &config.Output{
			Path:   appConfig.OutputPath,
			Format: appConfig.OutputFormat,
		},
		Tolerant: appConfig.Tolerant,
	}
}

// Pipeline returns the resolved pipeline model. This is primarily for testing.
func (a *App) Pipeline() *config.Pipeline {
	return a.pipeline
}
