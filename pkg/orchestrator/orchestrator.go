// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/user/socialimages/pkg/assets"
	"github.com/user/socialimages/pkg/dataset"
	"github.com/user/socialimages/pkg/pipeline"
	"github.com/user/socialimages/pkg/ports"
	"github.com/user/socialimages/pkg/session"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Inputs
	OutputDir    string // Must exist; symlinks are resolved
	ImageDir     string // Preview directory name under OutputDir
	DataFile     string
	TemplatePath string // Empty uses the bundled template
	StylesPath   string // Empty uses the bundled stylesheet

	// Template parameters
	SiteName string
	Theme    pipeline.Theme

	// Rendering
	Browser         ports.BrowserOptions
	Viewport        pipeline.Viewport
	HeadingSelector string
	LoadTimeout     time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	opts := session.DefaultOptions()
	return Config{
		OutputDir:       "_site",
		ImageDir:        "previews",
		DataFile:        "pages.json",
		SiteName:        "11ty Rocks!",
		Theme:           pipeline.DefaultTheme,
		Browser:         opts.Browser,
		Viewport:        opts.Viewport,
		HeadingSelector: opts.HeadingSelector,
		LoadTimeout:     opts.LoadTimeout,
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	composeStage      pipeline.Stage[pipeline.TemplateInput, pipeline.ComposeResult]
	captureStage      pipeline.Stage[pipeline.CaptureInput, pipeline.CaptureResult]
	contactSheetStage pipeline.Stage[pipeline.ContactSheetInput, pipeline.ContactSheetResult]
	browser           ports.Browser
	fs                ports.FileSystem
	sink              ports.DebugSink
	logger            ports.Logger
}

// New creates a new Orchestrator.
func New(
	composeStage pipeline.Stage[pipeline.TemplateInput, pipeline.ComposeResult],
	captureStage pipeline.Stage[pipeline.CaptureInput, pipeline.CaptureResult],
	contactSheetStage pipeline.Stage[pipeline.ContactSheetInput, pipeline.ContactSheetResult],
	browser ports.Browser,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		composeStage:      composeStage,
		captureStage:      captureStage,
		contactSheetStage: contactSheetStage,
		browser:           browser,
		fs:                fs,
		sink:              sink,
		logger:            logger,
	}
}

// inputs are the validated, resolved inputs of a run.
type inputs struct {
	outputDir    string
	previewDir   string
	dataFile     string
	templatePath string
	stylesPath   string
	template     string
	styles       string
	records      []pipeline.Record
}

// Run validates the configuration, then renders one preview per record.
// No browser is launched unless every input is valid. Once launched, the
// browser is always closed before Run returns.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()
	o.logger.Info("Starting social images...")

	in, err := o.resolve(config)
	if err != nil {
		o.logger.Error("Invalid configuration: %s", err)
		return RunResult{}, err
	}

	result := RunResult{
		OutputDir:    in.outputDir,
		PreviewDir:   in.previewDir,
		DataFile:     in.dataFile,
		TemplatePath: in.templatePath,
		StylesPath:   in.stylesPath,
		SiteName:     config.SiteName,
		Theme:        config.Theme,
		Records:      len(in.records),
	}

	if err := o.ensurePreviewDir(in.previewDir); err != nil {
		o.logger.Error("Invalid configuration: %s", err)
		return result, err
	}

	if o.sink.Enabled() {
		o.saveRecords(in.records)
	}

	// 1. Compose the document
	composed, err := o.composeStage.Execute(ctx, pipeline.TemplateInput{
		HTML:     in.template,
		CSS:      in.styles,
		SiteName: config.SiteName,
		Theme:    config.Theme,
	})
	if err != nil {
		return result, fmt.Errorf("compose stage: %w", err)
	}
	result.Applied = composed.Applied

	// 2. Render and capture in one browser session
	sess := session.New(o.browser, o.fs, o.logger, session.Options{
		Browser:         config.Browser,
		Viewport:        config.Viewport,
		HeadingSelector: config.HeadingSelector,
		LoadTimeout:     config.LoadTimeout,
	})

	var captured pipeline.CaptureResult
	err = sess.Run(ctx, func(ctx context.Context, s *session.Session) error {
		loadStart := time.Now()
		if err := s.Load(ctx, composed.HTML); err != nil {
			return fmt.Errorf("load template: %w", err)
		}
		if err := s.SetViewport(ctx); err != nil {
			return err
		}
		result.LoadMs = time.Since(loadStart).Milliseconds()

		captureStart := time.Now()
		var err error
		captured, err = o.captureStage.Execute(ctx, pipeline.CaptureInput{
			Records:    in.records,
			PreviewDir: in.previewDir,
			Target:     s,
			KeepImages: o.sink.Enabled(),
		})
		result.CaptureMs = time.Since(captureStart).Milliseconds()
		if err != nil {
			return fmt.Errorf("capture stage: %w", err)
		}
		return nil
	})

	result.Artifacts = captured.Artifacts
	result.MissingHeading = captured.MissingHeading
	result.TotalMs = time.Since(start).Milliseconds()

	if err != nil {
		o.logger.Error("Social images failed: %s", err)
		return result, err
	}

	o.logPreviewDir(in.previewDir)

	// 3. Contact sheet (debug only)
	if o.sink.Enabled() && len(captured.Artifacts) > 0 {
		sheetInput := pipeline.DefaultContactSheetInput()
		sheetInput.Artifacts = captured.Artifacts
		sheet, err := o.contactSheetStage.Execute(ctx, sheetInput)
		if err != nil {
			o.logger.Warn("Contact sheet failed: %s", err)
		} else if err := o.sink.SaveContactSheet(sheet.Image); err != nil {
			o.logger.Warn("Contact sheet failed: %s", err)
		}
	}

	// Image bytes are only kept for the contact sheet
	for i := range result.Artifacts {
		result.Artifacts[i].Image = nil
	}

	o.logger.Info("Social images complete!")
	return result, nil
}

// resolve turns the configured paths into real paths and reads every input.
func (o *Orchestrator) resolve(config Config) (inputs, error) {
	var in inputs
	var err error

	in.outputDir, err = o.fs.RealPath(config.OutputDir)
	if err != nil {
		return in, &ValidationError{Kind: pipeline.ErrInvalidOutputDir, Path: config.OutputDir, Err: err}
	}
	in.previewDir = filepath.Join(in.outputDir, config.ImageDir)

	in.templatePath, in.template, err = o.readSource(config.TemplatePath, assets.TemplateName, assets.Template(), pipeline.ErrInvalidTemplatePath)
	if err != nil {
		return in, err
	}
	in.stylesPath, in.styles, err = o.readSource(config.StylesPath, assets.StylesName, assets.Styles(), pipeline.ErrInvalidStylesPath)
	if err != nil {
		return in, err
	}

	in.dataFile, err = o.fs.RealPath(config.DataFile)
	if err != nil {
		return in, &ValidationError{Kind: pipeline.ErrInvalidDataFile, Path: config.DataFile, Err: err}
	}
	data, err := o.fs.ReadFile(in.dataFile)
	if err != nil {
		return in, &ValidationError{Kind: pipeline.ErrInvalidDataFile, Path: in.dataFile, Err: err}
	}
	in.records, err = dataset.Parse(data, dataset.DetectFormat(in.dataFile))
	if err != nil {
		return in, &ValidationError{Kind: pipeline.ErrInvalidDataFile, Path: in.dataFile, Err: err}
	}
	o.logger.Info("Loaded %d records from %s", len(in.records), in.dataFile)

	return in, nil
}

// readSource reads an override file, or returns the bundled content when
// path is empty.
func (o *Orchestrator) readSource(path, bundledName, bundled string, kind error) (string, string, error) {
	if path == "" {
		return "bundled:" + bundledName, bundled, nil
	}

	resolved, err := o.fs.RealPath(path)
	if err != nil {
		return "", "", &ValidationError{Kind: kind, Path: path, Err: err}
	}
	data, err := o.fs.ReadFile(resolved)
	if err != nil {
		return "", "", &ValidationError{Kind: kind, Path: resolved, Err: err}
	}
	return resolved, string(data), nil
}

// ensurePreviewDir creates the preview directory if needed. Only the last
// path element is created.
func (o *Orchestrator) ensurePreviewDir(dir string) error {
	exists, err := o.fs.Exists(dir)
	if err != nil {
		return &ValidationError{Kind: pipeline.ErrInvalidOutputDir, Path: dir, Err: err}
	}
	if exists {
		return nil
	}
	if err := o.fs.Mkdir(dir); err != nil {
		return &ValidationError{Kind: pipeline.ErrInvalidOutputDir, Path: dir, Err: err}
	}
	o.logger.Info("Created preview directory %s", dir)
	return nil
}

// saveRecords writes the loaded records to the debug sink. Failures only warn.
func (o *Orchestrator) saveRecords(records []pipeline.Record) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err == nil {
		err = o.sink.SaveRecordsJSON(data)
	}
	if err != nil {
		o.logger.Warn("Failed to save debug output: %s", err)
	}
}

// logPreviewDir reports how many files the preview directory holds once the
// batch is written. Files left from earlier runs are counted too.
func (o *Orchestrator) logPreviewDir(dir string) {
	names, err := o.fs.ReadDir(dir)
	if err != nil {
		o.logger.Warn("Failed to list preview directory %s: %s", dir, err)
		return
	}
	o.logger.Debug("Preview directory %s holds %d files", dir, len(names))
}
