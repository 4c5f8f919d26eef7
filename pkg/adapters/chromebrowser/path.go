package chromebrowser

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/user/socialimages/pkg/ports"
)

// ResolveChromePath resolves the Chrome executable for a launch mode:
// 1. explicitPath, when non-empty
// 2. the CHROME_PATH environment variable
// 3. a browser installed on the host, searched per mode
//
// Bundled mode prefers Chromium builds; system mode prefers Google Chrome,
// matching hosts such as WSL where google-chrome is installed by hand.
// An empty result means the caller should provision a bundled Chromium.
func ResolveChromePath(explicitPath string, mode ports.LaunchMode) string {
	if path := configuredChromePath(explicitPath); path != "" {
		return path
	}
	return findSystemChrome(mode)
}

// configuredChromePath returns explicitPath, else CHROME_PATH, else "".
func configuredChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}
	return os.Getenv("CHROME_PATH")
}

func findSystemChrome(mode ports.LaunchMode) string {
	for _, candidate := range candidates(runtime.GOOS, mode) {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

// candidates lists executable names or absolute paths to probe, in order.
func candidates(goos string, mode ports.LaunchMode) []string {
	var chromium, chrome []string

	switch goos {
	case "darwin":
		chromium = []string{"/Applications/Chromium.app/Contents/MacOS/Chromium"}
		chrome = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "windows":
		for _, root := range []string{os.Getenv("PROGRAMFILES"), os.Getenv("PROGRAMFILES(X86)"), os.Getenv("LOCALAPPDATA")} {
			if root == "" {
				continue
			}
			chromium = append(chromium, root+"\\Chromium\\Application\\chrome.exe")
			chrome = append(chrome, root+"\\Google\\Chrome\\Application\\chrome.exe")
		}
	default:
		chromium = []string{"chromium", "chromium-browser"}
		chrome = []string{"google-chrome", "google-chrome-stable"}
	}

	if mode == ports.LaunchSystem {
		return append(chrome, chromium...)
	}
	return append(chromium, chrome...)
}

// resolveExecutable checks an absolute path with os.Stat and a bare
// command name with exec.LookPath.
func resolveExecutable(nameOrPath string) string {
	if len(nameOrPath) > 0 && (nameOrPath[0] == '/' || (len(nameOrPath) > 1 && nameOrPath[1] == ':')) {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}

	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
