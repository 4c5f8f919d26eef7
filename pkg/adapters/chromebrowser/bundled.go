package chromebrowser

import (
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"

	"github.com/user/socialimages/pkg/ports"
)

// provisionChromium downloads (once) the Chromium build pinned by
// playwright-go and returns its executable path. Tests replace it.
var provisionChromium = func() (string, error) {
	if err := playwright.Install(&playwright.RunOptions{
		Browsers: []string{"chromium"},
	}); err != nil {
		return "", fmt.Errorf("install chromium: %w", err)
	}

	pw, err := playwright.Run(&playwright.RunOptions{SkipInstallBrowsers: true})
	if err != nil {
		return "", fmt.Errorf("start playwright driver: %w", err)
	}
	defer pw.Stop()

	path := pw.Chromium.ExecutablePath()
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("chromium executable: %w", err)
	}
	return path, nil
}

// resolveLaunchPath picks the executable for opts.Mode.
// System mode resolves with ResolveChromePath and only looks at the host.
// Bundled mode provisions Chromium unless a path is configured, and falls
// back to a host browser when provisioning fails.
func resolveLaunchPath(opts ports.BrowserOptions) (string, error) {
	if opts.Mode == ports.LaunchSystem {
		if path := ResolveChromePath(opts.ChromePath, opts.Mode); path != "" {
			return path, nil
		}
		return "", fmt.Errorf("chrome not found: install google-chrome or chromium, set CHROME_PATH, or use --chrome-path")
	}

	if path := configuredChromePath(opts.ChromePath); path != "" {
		return path, nil
	}

	path, err := provisionChromium()
	if err == nil {
		return path, nil
	}
	if host := findSystemChrome(opts.Mode); host != "" {
		return host, nil
	}
	return "", fmt.Errorf("chromium not available: %w", err)
}
