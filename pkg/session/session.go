// Package session manages the browser session shared by a capture batch.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/socialimages/pkg/pipeline"
	"github.com/user/socialimages/pkg/ports"
)

// State is the lifecycle state of a Session.
type State int

const (
	// StateIdle is a session whose browser has not been launched.
	StateIdle State = iota
	// StateLaunched has a running browser with an empty page.
	StateLaunched
	// StateLoaded has the composed template rendered and stable.
	StateLoaded
	// StateCapturing has the capture viewport applied.
	StateCapturing
	// StateClosed has released the browser. It is terminal.
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLaunched:
		return "launched"
	case StateLoaded:
		return "loaded"
	case StateCapturing:
		return "capturing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DefaultHeadingSelector selects the element rewritten with each record title.
const DefaultHeadingSelector = "h1"

// Options configures a Session.
type Options struct {
	Browser         ports.BrowserOptions
	Viewport        pipeline.Viewport
	HeadingSelector string
	LoadTimeout     time.Duration // Upper bound for loading the template
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		Browser:         ports.DefaultBrowserOptions(),
		Viewport:        pipeline.DefaultViewport(),
		HeadingSelector: DefaultHeadingSelector,
		LoadTimeout:     30 * time.Second,
	}
}

// Session owns one browser and its page for the lifetime of a batch.
// It is not safe for concurrent use; captures share one mutable document.
type Session struct {
	browser ports.Browser
	fs      ports.FileSystem
	logger  ports.Logger
	opts    Options
	state   State
}

// New creates a new idle Session.
func New(browser ports.Browser, fs ports.FileSystem, logger ports.Logger, opts Options) *Session {
	if opts.HeadingSelector == "" {
		opts.HeadingSelector = DefaultHeadingSelector
	}
	return &Session{
		browser: browser,
		fs:      fs,
		logger:  logger.WithComponent("session"),
		opts:    opts,
		state:   StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Ensure Session implements pipeline.CaptureTarget
var _ pipeline.CaptureTarget = (*Session)(nil)

func (s *Session) expect(op string, want State) error {
	if s.state != want {
		return fmt.Errorf("%w: %s requires %s session, got %s", pipeline.ErrInvalidState, op, want, s.state)
	}
	return nil
}

// Launch starts the browser.
func (s *Session) Launch(ctx context.Context) error {
	if err := s.expect("launch", StateIdle); err != nil {
		return err
	}

	s.logger.Debug("Launching browser (%s)", s.opts.Browser.Mode.String())
	if err := s.browser.Launch(ctx, s.opts.Browser); err != nil {
		return fmt.Errorf("%w: %v", pipeline.ErrBrowserLaunch, err)
	}

	s.state = StateLaunched
	return nil
}

// Load renders html in the page and waits for network quiescence and font
// readiness. The page document is created once per session.
func (s *Session) Load(ctx context.Context, html string) error {
	if err := s.expect("load", StateLaunched); err != nil {
		return err
	}

	loadCtx := ctx
	if s.opts.LoadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, s.opts.LoadTimeout)
		defer cancel()
	}

	s.logger.Debug("Loading template (%d bytes)", len(html))
	start := time.Now()
	if err := s.browser.SetContent(loadCtx, html); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(loadCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %v", pipeline.ErrRenderTimeout, s.opts.LoadTimeout, err)
		}
		return fmt.Errorf("%w: %v", pipeline.ErrRender, err)
	}
	s.logger.Debug("Template rendered in %d ms", time.Since(start).Milliseconds())

	s.state = StateLoaded
	return nil
}

// SetViewport applies the capture viewport. It holds for every later capture.
func (s *Session) SetViewport(ctx context.Context) error {
	if err := s.expect("set viewport", StateLoaded); err != nil {
		return err
	}

	vp := s.opts.Viewport
	px := vp.Physical()
	s.logger.Debug("Setting viewport: %dx%d at %.1fx (%dx%d pixels)", vp.Width, vp.Height, vp.DeviceScaleFactor, px.Width, px.Height)
	if err := s.browser.SetViewport(ctx, vp.Width, vp.Height, vp.DeviceScaleFactor); err != nil {
		return fmt.Errorf("%w: set viewport: %v", pipeline.ErrRender, err)
	}

	s.state = StateCapturing
	return nil
}

// Mutate replaces the heading content with the record title. The title is
// inserted as HTML. A document without a heading is reported, not failed.
func (s *Session) Mutate(ctx context.Context, record pipeline.Record) (bool, error) {
	if err := s.expect("mutate", StateCapturing); err != nil {
		return false, err
	}

	found, err := s.browser.SetInnerHTML(ctx, s.opts.HeadingSelector, record.Title)
	if err != nil {
		return false, fmt.Errorf("%w: set title: %v", pipeline.ErrCapture, err)
	}
	if !found {
		s.logger.Warn("No %s element in template, %s keeps the template text", s.opts.HeadingSelector, record.FileName())
	}
	return found, nil
}

// Capture screenshots the viewport rectangle and writes it to path,
// replacing any existing file.
func (s *Session) Capture(ctx context.Context, path string) ([]byte, error) {
	if err := s.expect("capture", StateCapturing); err != nil {
		return nil, err
	}

	vp := s.opts.Viewport
	data, err := s.browser.CaptureClip(ctx, ports.Clip{
		X:      0,
		Y:      0,
		Width:  float64(vp.Width),
		Height: float64(vp.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", pipeline.ErrCapture, err)
	}

	if err := s.fs.WriteFile(path, data); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", pipeline.ErrCapture, path, err)
	}
	return data, nil
}

// Close closes all pages and terminates the browser. Closing an idle or
// already closed session does nothing.
func (s *Session) Close() error {
	switch s.state {
	case StateIdle, StateClosed:
		return nil
	}

	s.state = StateClosed
	if err := s.browser.Close(); err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	s.logger.Debug("Browser closed")
	return nil
}

// Run launches the session, calls fn and closes the session afterwards,
// whether fn succeeds, fails or panics. A close failure is joined with the
// error returned by fn.
func (s *Session) Run(ctx context.Context, fn func(ctx context.Context, s *Session) error) (err error) {
	if err := s.Launch(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	return fn(ctx, s)
}
