package main

import (
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/socialimages/pkg/config"
)

// flags returns the command line flags. Names of input flags match the
// config file keys.
func flags() []cli.Flag {
	inputs := l10n.T("Inputs")
	template := l10n.T("Template")
	browser := l10n.T("Browser")
	debug := l10n.T("Debug")
	logging := l10n.T("Logging")

	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: inputs,
			Usage: l10n.T("YAML config file, flags override its values")},
		&cli.StringFlag{Name: "outputDir", Aliases: []string{"o"}, Category: inputs,
			Usage: l10n.T("Existing output directory (default: _site)")},
		&cli.StringFlag{Name: "imageDir", Category: inputs,
			Usage: l10n.T("Preview directory under outputDir (default: previews)")},
		&cli.StringFlag{Name: "dataFile", Aliases: []string{"d"}, Category: inputs,
			Usage: l10n.T("JSON or YAML file of records (default: pages.json)")},

		&cli.StringFlag{Name: "templatePath", Category: template,
			Usage: l10n.T("HTML template (default: bundled template)")},
		&cli.StringFlag{Name: "stylesPath", Category: template,
			Usage: l10n.T("CSS stylesheet (default: bundled stylesheet)")},
		&cli.StringFlag{Name: "siteName", Category: template,
			Usage: l10n.T("Site name shown on every preview (default: 11ty Rocks!)")},
		&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Category: template,
			Usage: l10n.T("Theme class applied to the template (default: blue)")},
		&cli.StringFlag{Name: "heading-selector", Category: template,
			Usage: l10n.T("Element that receives each record title (default: h1)")},

		&cli.BoolFlag{Name: "wsl", Category: browser,
			Usage: l10n.T("Use the Chrome installed on the host instead of a bundled Chromium")},
		&cli.StringFlag{Name: "chrome-path", EnvVars: []string{"CHROME_PATH"}, Category: browser,
			Usage: l10n.T("Path to Chrome executable")},
		&cli.StringFlag{Name: "engine", Category: browser,
			Usage: l10n.T("Browser automation engine (chromedp, rod)")},
		&cli.BoolFlag{Name: "no-headless", Category: browser,
			Usage: l10n.T("Run browser in non-headless mode")},
		&cli.IntFlag{Name: "timeout", Category: browser,
			Usage: l10n.T("Template load timeout in seconds (default: 30)")},

		&cli.BoolFlag{Name: "debug", Category: debug,
			Usage: l10n.T("Enable debug output")},
		&cli.StringFlag{Name: "debug-dir", Category: debug,
			Usage: l10n.T("Directory for debug output (default: ./debug)")},
		&cli.StringFlag{Name: "summary", Category: debug,
			Usage: l10n.T("Output execution summary to file (Markdown format)")},

		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Category: logging,
			Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Category: logging,
			Usage: l10n.T("Suppress all log output")},
	}
}

// loadConfig builds the configuration from defaults, the optional config
// file, and the flags that were set explicitly.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	overlayString(c, "outputDir", &cfg.OutputDir)
	overlayString(c, "imageDir", &cfg.ImageDir)
	overlayString(c, "dataFile", &cfg.DataFile)
	overlayString(c, "templatePath", &cfg.TemplatePath)
	overlayString(c, "stylesPath", &cfg.StylesPath)
	overlayString(c, "siteName", &cfg.SiteName)
	overlayString(c, "theme", &cfg.Theme)
	overlayString(c, "heading-selector", &cfg.HeadingSelector)
	overlayString(c, "chrome-path", &cfg.ChromePath)
	overlayString(c, "engine", &cfg.Engine)
	overlayString(c, "debug-dir", &cfg.DebugDir)

	if c.IsSet("wsl") {
		cfg.WSL = c.Bool("wsl")
	}
	if c.IsSet("no-headless") {
		cfg.Headless = !c.Bool("no-headless")
	}
	if c.IsSet("timeout") {
		cfg.TimeoutSec = c.Int("timeout")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}

	return cfg, cfg.Validate()
}

func overlayString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}
