// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"time"
)

// Browser abstracts the headless browser that renders preview templates.
// An implementation owns one browser process and one page.
type Browser interface {
	// Launch starts the browser with the given options and opens a page.
	Launch(ctx context.Context, opts BrowserOptions) error

	// SetContent replaces the page document with html and blocks until the
	// network has been idle for opts.NetworkIdle and document.fonts.ready
	// has resolved.
	SetContent(ctx context.Context, html string) error

	// SetViewport sets the viewport in CSS pixels with a device scale factor.
	SetViewport(ctx context.Context, width, height int, deviceScaleFactor float64) error

	// SetInnerHTML replaces the inner HTML of the first element matching
	// selector. It reports false when no element matches.
	SetInnerHTML(ctx context.Context, selector, html string) (bool, error)

	// CaptureClip returns a PNG screenshot of the given rectangle in CSS pixels.
	CaptureClip(ctx context.Context, clip Clip) ([]byte, error)

	// Close closes all pages and terminates the browser process.
	Close() error
}

// LaunchMode selects how the browser executable is located.
type LaunchMode int

const (
	// LaunchBundled uses an explicit path, CHROME_PATH, or a provisioned Chromium.
	LaunchBundled LaunchMode = iota
	// LaunchSystem uses a Chrome/Chromium installed on the host.
	LaunchSystem
)

// String returns the string representation of the launch mode.
func (m LaunchMode) String() string {
	switch m {
	case LaunchSystem:
		return "system"
	default:
		return "bundled"
	}
}

// BrowserOptions configures browser launch settings.
type BrowserOptions struct {
	Mode        LaunchMode
	ChromePath  string        // Explicit executable path, overrides lookup
	Headless    bool          // Run without a visible window (default: true)
	NetworkIdle time.Duration // Quiet window required before the render is stable
}

// DefaultBrowserOptions returns BrowserOptions with default values.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Mode:        LaunchBundled,
		Headless:    true,
		NetworkIdle: 500 * time.Millisecond,
	}
}

// Clip is a capture rectangle in CSS pixels.
type Clip struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}
