// Package rodbrowser provides a browser implementation using go-rod.
package rodbrowser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/user/socialimages/pkg/ports"
)

const fontsReadyScript = `() => document.fonts.ready.then(() => document.fonts.status)`

const setInnerHTMLScript = `(selector, html) => {
	const el = document.querySelector(selector);
	if (!el) {
		return false;
	}
	el.innerHTML = html;
	return true;
}`

// Browser implements ports.Browser using go-rod.
type Browser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	opts     ports.BrowserOptions
}

// New creates a new Browser.
func New() *Browser {
	return &Browser{}
}

// binPath returns the executable to launch. An empty path lets rod download
// its pinned Chromium.
func binPath(opts ports.BrowserOptions) (string, error) {
	if opts.ChromePath != "" {
		return opts.ChromePath, nil
	}
	for _, key := range []string{"CHROME_PATH", "ROD_BROWSER_BIN"} {
		if bin := os.Getenv(key); bin != "" {
			return bin, nil
		}
	}
	if opts.Mode == ports.LaunchSystem {
		if path, ok := launcher.LookPath(); ok {
			return path, nil
		}
		return "", errors.New("chrome not found: install google-chrome or chromium, set CHROME_PATH, or use --chrome-path")
	}
	return "", nil
}

// Launch starts Chrome through the rod launcher and opens a blank page.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	bin, err := binPath(opts)
	if err != nil {
		return err
	}

	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("hide-scrollbars").
		Set("font-render-hinting", "none")
	if bin != "" {
		l = l.Bin(bin)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("connect: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		l.Cleanup()
		return fmt.Errorf("open page: %w", err)
	}

	b.launcher, b.browser, b.page, b.opts = l, browser, page, opts
	return nil
}

func (b *Browser) pageFor(ctx context.Context) (*rod.Page, error) {
	if b.page == nil {
		return nil, errors.New("browser not launched")
	}
	return b.page.Context(ctx), nil
}

// SetContent replaces the document and waits for the network to stay idle
// for the configured window, then for web fonts.
func (b *Browser) SetContent(ctx context.Context, html string) error {
	p, err := b.pageFor(ctx)
	if err != nil {
		return err
	}

	idle := b.opts.NetworkIdle
	if idle <= 0 {
		idle = ports.DefaultBrowserOptions().NetworkIdle
	}

	// Armed before the document is set so the first requests are seen
	wait := p.WaitRequestIdle(idle, nil, nil, nil)
	if err := p.SetDocumentContent(html); err != nil {
		return fmt.Errorf("set document content: %w", err)
	}
	wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := p.Eval(fontsReadyScript); err != nil {
		return fmt.Errorf("wait for fonts: %w", err)
	}
	return nil
}

// SetViewport overrides the device metrics of the page.
func (b *Browser) SetViewport(ctx context.Context, width, height int, deviceScaleFactor float64) error {
	p, err := b.pageFor(ctx)
	if err != nil {
		return err
	}
	return p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: deviceScaleFactor,
		Mobile:            false,
	})
}

// SetInnerHTML assigns innerHTML on the first element matching selector.
func (b *Browser) SetInnerHTML(ctx context.Context, selector, html string) (bool, error) {
	p, err := b.pageFor(ctx)
	if err != nil {
		return false, err
	}
	res, err := p.Eval(setInnerHTMLScript, selector, html)
	if err != nil {
		return false, fmt.Errorf("evaluate: %w", err)
	}
	return res.Value.Bool(), nil
}

// CaptureClip returns a PNG of the clip rectangle at the emulated scale factor.
func (b *Browser) CaptureClip(ctx context.Context, clip ports.Clip) ([]byte, error) {
	p, err := b.pageFor(ctx)
	if err != nil {
		return nil, err
	}
	data, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      clip.X,
			Y:      clip.Y,
			Width:  clip.Width,
			Height: clip.Height,
			Scale:  1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// Close closes every page, then the browser, and removes the launcher's
// temporary profile.
func (b *Browser) Close() error {
	if b.browser == nil {
		return nil
	}

	browser := b.browser.Timeout(5 * time.Second)
	if pages, err := browser.Pages(); err == nil {
		for _, p := range pages {
			p.Close()
		}
	}

	err := b.browser.Close()
	b.launcher.Cleanup()
	b.launcher, b.browser, b.page = nil, nil, nil

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
