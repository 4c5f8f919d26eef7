// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/socialimages/pkg/orchestrator"
	"github.com/user/socialimages/pkg/pipeline"
	"github.com/user/socialimages/pkg/ports"
)

// Engine names accepted by the engine setting.
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
)

// Config represents the full configuration for socialimages.
// Keys match the command line flags.
type Config struct {
	// Inputs
	OutputDir    string `yaml:"outputDir"`
	ImageDir     string `yaml:"imageDir"`
	DataFile     string `yaml:"dataFile"`
	TemplatePath string `yaml:"templatePath"`
	StylesPath   string `yaml:"stylesPath"`

	// Template parameters
	SiteName string `yaml:"siteName"`
	Theme    string `yaml:"theme"`

	// Browser
	WSL             bool   `yaml:"wsl"`
	ChromePath      string `yaml:"chromePath"`
	Engine          string `yaml:"engine"`
	Headless        bool   `yaml:"headless"`
	TimeoutSec      int    `yaml:"timeout"`
	NetworkIdleMs   int    `yaml:"networkIdleMs"`
	HeadingSelector string `yaml:"headingSelector"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debugDir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputDir: "_site",
		ImageDir:  "previews",
		DataFile:  "pages.json",

		SiteName: "11ty Rocks!",
		Theme:    string(pipeline.DefaultTheme),

		Engine:          EngineChromedp,
		Headless:        true,
		TimeoutSec:      30,
		NetworkIdleMs:   500,
		HeadingSelector: "h1",

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks settings that have a closed set of values.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineChromedp, EngineRod:
	default:
		return fmt.Errorf("unknown engine %q (want %s or %s)", c.Engine, EngineChromedp, EngineRod)
	}
	if c.TimeoutSec < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.TimeoutSec)
	}
	return nil
}

// LaunchMode returns the browser launch mode selected by the wsl setting.
func (c Config) LaunchMode() ports.LaunchMode {
	if c.WSL {
		return ports.LaunchSystem
	}
	return ports.LaunchBundled
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	oc := orchestrator.DefaultConfig()

	oc.OutputDir = c.OutputDir
	oc.ImageDir = c.ImageDir
	oc.DataFile = c.DataFile
	oc.TemplatePath = c.TemplatePath
	oc.StylesPath = c.StylesPath

	oc.SiteName = c.SiteName
	oc.Theme = pipeline.Theme(c.Theme)

	oc.Browser.Mode = c.LaunchMode()
	oc.Browser.ChromePath = c.ChromePath
	// System mode always runs headless
	oc.Browser.Headless = c.Headless || c.WSL
	if c.NetworkIdleMs > 0 {
		oc.Browser.NetworkIdle = time.Duration(c.NetworkIdleMs) * time.Millisecond
	}
	if c.TimeoutSec > 0 {
		oc.LoadTimeout = time.Duration(c.TimeoutSec) * time.Second
	}
	if c.HeadingSelector != "" {
		oc.HeadingSelector = c.HeadingSelector
	}

	return oc
}
