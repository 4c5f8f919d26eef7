// Package chromebrowser provides a browser implementation using chromedp.
package chromebrowser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/user/socialimages/pkg/ports"
)

// fontsReadyScript resolves once every pending web font has loaded.
const fontsReadyScript = `document.fonts.ready.then(() => document.fonts.status)`

// setInnerHTMLScript is formatted with a JSON encoded selector and HTML.
const setInnerHTMLScript = `(function(selector, html) {
	const el = document.querySelector(selector);
	if (!el) {
		return false;
	}
	el.innerHTML = html;
	return true;
})(%s, %s)`

// Browser implements ports.Browser using chromedp.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	opts    ports.BrowserOptions
	tracker *tracker
}

// New creates a new Browser.
func New() *Browser {
	return &Browser{}
}

// allocatorOptions returns the Chrome flags for a headless capture browser.
func allocatorOptions(execPath string, headless bool) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.ExecPath(execPath),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-software-rasterizer", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("font-render-hinting", "none"),
	}
	if headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}
	return opts
}

// Launch starts the browser and opens its page. The browser process is
// bound to ctx and ends when ctx is cancelled.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	execPath, err := resolveLaunchPath(opts)
	if err != nil {
		return err
	}

	b.opts = opts
	b.tracker = newTracker()
	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(ctx, allocatorOptions(execPath, opts.Headless)...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx)

	chromedp.ListenTarget(b.ctx, b.tracker.handle)

	// The first Run starts the process and attaches to the initial tab
	if err := chromedp.Run(b.ctx, network.Enable()); err != nil {
		b.cancel()
		b.allocCancel()
		b.ctx, b.allocCtx = nil, nil
		return fmt.Errorf("start %s: %w", execPath, err)
	}

	return nil
}

// run executes actions on the page, bounded by the caller's ctx.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	if b.ctx == nil {
		return fmt.Errorf("browser not launched")
	}

	callCtx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		callCtx, cancelDeadline = context.WithDeadline(callCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(callCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// SetContent replaces the document of the main frame, then waits for the
// network to go quiet and for web fonts to finish loading.
func (b *Browser) SetContent(ctx context.Context, html string) error {
	idle := b.opts.NetworkIdle
	if idle <= 0 {
		idle = ports.DefaultBrowserOptions().NetworkIdle
	}

	var status string
	return b.run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			b.tracker.reset()
			if err := page.SetDocumentContent(tree.Frame.ID, html).Do(ctx); err != nil {
				return fmt.Errorf("set document content: %w", err)
			}
			return nil
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return b.tracker.waitIdle(ctx, idle)
		}),
		chromedp.Evaluate(fontsReadyScript, &status, func(p *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
}

// SetViewport overrides the device metrics of the page.
func (b *Browser) SetViewport(ctx context.Context, width, height int, deviceScaleFactor float64) error {
	return b.run(ctx,
		emulation.SetDeviceMetricsOverride(int64(width), int64(height), deviceScaleFactor, false),
	)
}

// SetInnerHTML assigns innerHTML on the first element matching selector.
func (b *Browser) SetInnerHTML(ctx context.Context, selector, html string) (bool, error) {
	sel, err := json.Marshal(selector)
	if err != nil {
		return false, err
	}
	content, err := json.Marshal(html)
	if err != nil {
		return false, err
	}

	var found bool
	script := fmt.Sprintf(setInnerHTMLScript, sel, content)
	if err := b.run(ctx, chromedp.Evaluate(script, &found)); err != nil {
		return false, fmt.Errorf("evaluate: %w", err)
	}
	return found, nil
}

// CaptureClip returns a PNG of the clip rectangle at the emulated scale factor.
func (b *Browser) CaptureClip(ctx context.Context, clip ports.Clip) ([]byte, error) {
	var data []byte
	err := b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		data, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      clip.X,
				Y:      clip.Y,
				Width:  clip.Width,
				Height: clip.Height,
				Scale:  1,
			}).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return data, nil
}

// Close closes every page target, then the browser itself.
func (b *Browser) Close() error {
	if b.ctx == nil {
		return nil
	}

	closeCtx, cancel := context.WithTimeout(b.ctx, 5*time.Second)
	targets, err := chromedp.Targets(closeCtx)
	cancel()
	if err == nil {
		current := chromedp.FromContext(b.ctx).Target
		for _, info := range targets {
			if info.Type != "page" || (current != nil && info.TargetID == current.TargetID) {
				continue
			}
			pageCtx, pageCancel := chromedp.NewContext(b.ctx, chromedp.WithTargetID(info.TargetID))
			if err := chromedp.Run(pageCtx); err == nil {
				chromedp.Cancel(pageCtx)
			}
			pageCancel()
		}
	}

	// Cancel on the allocating context closes the last page and the browser
	closeErr := chromedp.Cancel(b.ctx)
	b.cancel()
	b.allocCancel()
	b.ctx, b.allocCtx = nil, nil

	if closeErr != nil && !errors.Is(closeErr, context.Canceled) {
		return fmt.Errorf("close browser: %w", closeErr)
	}
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
