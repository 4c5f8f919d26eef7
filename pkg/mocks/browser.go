// Package mocks provides mock implementations for testing.
package mocks

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/user/socialimages/pkg/ports"
)

// CaptureCall records a CaptureClip call.
type CaptureCall struct {
	Clip    ports.Clip
	Heading string // Heading inner HTML at capture time
}

// Browser is a mock implementation of ports.Browser.
// Without overrides it behaves like a page whose document has an h1 when
// the loaded HTML contains "<h1", and returns real PNGs sized by the clip
// and the device scale factor.
type Browser struct {
	LaunchFunc       func(ctx context.Context, opts ports.BrowserOptions) error
	SetContentFunc   func(ctx context.Context, html string) error
	SetViewportFunc  func(ctx context.Context, width, height int, deviceScaleFactor float64) error
	SetInnerHTMLFunc func(ctx context.Context, selector, html string) (bool, error)
	CaptureClipFunc  func(ctx context.Context, clip ports.Clip) ([]byte, error)
	CloseFunc        func() error

	mu sync.Mutex

	// Track calls for assertions
	Launches    int
	Closes      int
	LaunchOpts  ports.BrowserOptions
	Content     string
	Heading     string
	ScaleFactor float64
	Calls       []string
	Captures    []CaptureCall
}

func (m *Browser) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	m.record("Launch")
	m.mu.Lock()
	m.Launches++
	m.LaunchOpts = opts
	m.mu.Unlock()
	if m.LaunchFunc != nil {
		return m.LaunchFunc(ctx, opts)
	}
	return nil
}

func (m *Browser) SetContent(ctx context.Context, html string) error {
	m.record("SetContent")
	m.mu.Lock()
	m.Content = html
	m.mu.Unlock()
	if m.SetContentFunc != nil {
		return m.SetContentFunc(ctx, html)
	}
	return nil
}

func (m *Browser) SetViewport(ctx context.Context, width, height int, deviceScaleFactor float64) error {
	m.record("SetViewport")
	m.mu.Lock()
	m.ScaleFactor = deviceScaleFactor
	m.mu.Unlock()
	if m.SetViewportFunc != nil {
		return m.SetViewportFunc(ctx, width, height, deviceScaleFactor)
	}
	return nil
}

func (m *Browser) SetInnerHTML(ctx context.Context, selector, html string) (bool, error) {
	m.record("SetInnerHTML")
	if m.SetInnerHTMLFunc != nil {
		return m.SetInnerHTMLFunc(ctx, selector, html)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !strings.Contains(m.Content, "<"+selector) {
		return false, nil
	}
	m.Heading = html
	return true, nil
}

func (m *Browser) CaptureClip(ctx context.Context, clip ports.Clip) ([]byte, error) {
	m.record("CaptureClip")
	m.mu.Lock()
	m.Captures = append(m.Captures, CaptureCall{Clip: clip, Heading: m.Heading})
	scale := m.ScaleFactor
	m.mu.Unlock()
	if m.CaptureClipFunc != nil {
		return m.CaptureClipFunc(ctx, clip)
	}
	if scale <= 0 {
		scale = 1
	}
	return EncodePNG(int(clip.Width*scale), int(clip.Height*scale))
}

func (m *Browser) Close() error {
	m.record("Close")
	m.mu.Lock()
	m.Closes++
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// EncodePNG returns a blank RGBA PNG of the given size.
func EncodePNG(width, height int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
