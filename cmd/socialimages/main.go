// Package main provides the CLI entry point for socialimages.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/socialimages/pkg/adapters/chromebrowser"
	"github.com/user/socialimages/pkg/adapters/filesink"
	"github.com/user/socialimages/pkg/adapters/ggrenderer"
	"github.com/user/socialimages/pkg/adapters/logger"
	"github.com/user/socialimages/pkg/adapters/nullsink"
	"github.com/user/socialimages/pkg/adapters/osfilesystem"
	"github.com/user/socialimages/pkg/adapters/rodbrowser"
	"github.com/user/socialimages/pkg/config"
	"github.com/user/socialimages/pkg/orchestrator"
	"github.com/user/socialimages/pkg/pipeline"
	"github.com/user/socialimages/pkg/ports"
	"github.com/user/socialimages/pkg/stages/capture"
	"github.com/user/socialimages/pkg/stages/compose"
	"github.com/user/socialimages/pkg/stages/contactsheet"
	"github.com/user/socialimages/pkg/summarizer"
)

var version = "dev"

// Exit codes reported to the shell.
const (
	exitFailure   = 1
	exitTemplate  = 2
	exitStyles    = 3
	exitDataFile  = 4
	exitOutputDir = 5
)

func main() {
	app := &cli.App{
		Name:    "socialimages",
		Usage:   l10n.T("Generate social preview images from an HTML template"),
		Version: version,
		Description: l10n.T("socialimages renders one 1200x630 PNG per record of a data file " +
			"by loading an HTML template into headless Chromium."),
		Flags:  flags(),
		Action: run,
	}

	// urfave/cli prints the version as "<name> version <version>"
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, l10n.F("socialimages version %s", c.App.Version))
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

// run executes the preview generation.
func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, exitFailure)
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var browser ports.Browser
	switch cfg.Engine {
	case config.EngineRod:
		browser = rodbrowser.New()
	default:
		browser = chromebrowser.New()
	}

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	// Create stages
	composeStage := compose.NewStage(sink, log)
	captureStage := capture.NewStage(log)
	contactSheetStage := contactsheet.NewStage(renderer, log)

	orch := orchestrator.New(
		composeStage,
		captureStage,
		contactSheetStage,
		browser,
		fs,
		sink,
		log,
	)

	orchConfig := cfg.ToOrchestratorConfig()
	result, runErr := orch.Run(ctx, orchConfig)

	if path := c.String("summary"); path != "" {
		summary := summarizer.NewBuilder().
			WithRun(result).
			WithSettings(summarizer.Settings{
				SiteName:          orchConfig.SiteName,
				Theme:             string(orchConfig.Theme),
				Engine:            cfg.Engine,
				LaunchMode:        orchConfig.Browser.Mode.String(),
				ViewportWidth:     orchConfig.Viewport.Width,
				ViewportHeight:    orchConfig.Viewport.Height,
				DeviceScaleFactor: orchConfig.Viewport.DeviceScaleFactor,
			}).
			WithError(runErr).
			Build()
		writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter(), fs)
		if err := writer.Write(path, summary); err != nil {
			log.Warn("Failed to write summary: %s", err)
		} else {
			log.Info("Summary saved to %s", path)
		}
	}

	if runErr != nil {
		return cli.Exit("", exitCode(runErr))
	}
	return nil
}

// exitCode maps a run error to a process exit code.
func exitCode(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrInvalidTemplatePath):
		return exitTemplate
	case errors.Is(err, pipeline.ErrInvalidStylesPath):
		return exitStyles
	case errors.Is(err, pipeline.ErrInvalidDataFile):
		return exitDataFile
	case errors.Is(err, pipeline.ErrInvalidOutputDir):
		return exitOutputDir
	default:
		return exitFailure
	}
}
