package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/user/socialimages/pkg/adapters/ggrenderer"
	"github.com/user/socialimages/pkg/adapters/logger"
	"github.com/user/socialimages/pkg/adapters/nullsink"
	"github.com/user/socialimages/pkg/mocks"
	"github.com/user/socialimages/pkg/pipeline"
	"github.com/user/socialimages/pkg/ports"
	"github.com/user/socialimages/pkg/stages/capture"
	"github.com/user/socialimages/pkg/stages/compose"
	"github.com/user/socialimages/pkg/stages/contactsheet"
)

const pagesJSON = `[
	{"title": "Hello World", "imgName": "hello"},
	{"title": "Second <em>post</em>", "imgName": "second"}
]`

func newOrchestrator(browser ports.Browser, fs ports.FileSystem, sink ports.DebugSink) *Orchestrator {
	log := logger.NewNoop()
	return New(
		compose.NewStage(sink, log),
		capture.NewStage(log),
		contactsheet.NewStage(ggrenderer.New(), log),
		browser,
		fs,
		sink,
		log,
	)
}

func newFS() *mocks.FileSystem {
	fs := mocks.NewFileSystem()
	fs.AddDir("/site")
	fs.AddFile("/data/pages.json", []byte(pagesJSON))
	return fs
}

func testConfig() Config {
	config := DefaultConfig()
	config.OutputDir = "/site"
	config.DataFile = "/data/pages.json"
	return config
}

func TestOrchestrator_Run(t *testing.T) {
	browser := &mocks.Browser{}
	fs := newFS()
	o := newOrchestrator(browser, fs, nullsink.New())

	result, err := o.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Exactly one file per record, in record order
	order := fs.WriteOrder()
	want := []string{"/site/previews/hello.png", "/site/previews/second.png"}
	if len(order) != len(want) {
		t.Fatalf("write order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("write %d = %s, want %s", i, order[i], want[i])
		}
	}

	entries, err := fs.ReadDir("/site/previews")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected no extra files in preview dir, got %v", entries)
	}

	for _, path := range want {
		data, _ := fs.GetFile(path)
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: decode: %v", path, err)
		}
		if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 630 {
			t.Errorf("%s: size = %dx%d, want 1200x630", path, img.Bounds().Dx(), img.Bounds().Dy())
		}
	}

	// The second capture sees the second title
	if browser.Captures[1].Heading != "Second <em>post</em>" {
		t.Errorf("second capture heading = %q", browser.Captures[1].Heading)
	}
	if browser.Launches != 1 || browser.Closes != 1 {
		t.Errorf("launches=%d closes=%d, want 1/1", browser.Launches, browser.Closes)
	}

	if result.Records != 2 || len(result.Artifacts) != 2 {
		t.Errorf("unexpected result counts: %+v", result)
	}
	if result.PreviewDir != "/site/previews" {
		t.Errorf("PreviewDir = %s", result.PreviewDir)
	}
	if !result.Applied.SiteName || !result.Applied.Style || !result.Applied.Theme {
		t.Errorf("expected bundled template to apply every substitution, got %+v", result.Applied)
	}
}

func TestOrchestrator_Run_ComposedDocument(t *testing.T) {
	browser := &mocks.Browser{}
	o := newOrchestrator(browser, newFS(), nullsink.New())

	config := testConfig()
	config.SiteName = "My Blog"
	config.Theme = pipeline.ThemeSunset

	if _, err := o.Run(context.Background(), config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html := browser.Content
	if !strings.Contains(html, "My Blog") {
		t.Error("expected site name in loaded document")
	}
	if !strings.Contains(html, `class="sunset"`) || strings.Contains(html, `class="blue"`) {
		t.Error("expected theme class to be replaced")
	}
	if strings.Contains(html, "{{ style }}") {
		t.Error("expected style placeholder to be replaced")
	}
}

func TestOrchestrator_Run_Idempotent(t *testing.T) {
	fs := newFS()
	o := newOrchestrator(&mocks.Browser{}, fs, nullsink.New())

	for i := 0; i < 2; i++ {
		if _, err := o.Run(context.Background(), testConfig()); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}

	entries, _ := fs.ReadDir("/site/previews")
	if len(entries) != 2 {
		t.Errorf("expected the same two files after re-running, got %v", entries)
	}
}

func TestOrchestrator_Run_EmptyRecords(t *testing.T) {
	browser := &mocks.Browser{}
	fs := mocks.NewFileSystem()
	fs.AddDir("/site")
	fs.AddFile("/data/pages.json", []byte(`[]`))
	o := newOrchestrator(browser, fs, nullsink.New())

	result, err := o.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.WriteOrder()) != 0 || len(result.Artifacts) != 0 {
		t.Errorf("expected no files, got %v", fs.WriteOrder())
	}
	if browser.Launches != 1 || browser.Closes != 1 {
		t.Errorf("launches=%d closes=%d, want 1/1", browser.Launches, browser.Closes)
	}
}

func TestOrchestrator_Run_ValidationBeforeLaunch(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config, *mocks.FileSystem)
		want   error
	}{
		{
			name:   "missing output dir",
			modify: func(c *Config, fs *mocks.FileSystem) { c.OutputDir = "/nope" },
			want:   pipeline.ErrInvalidOutputDir,
		},
		{
			name:   "missing data file",
			modify: func(c *Config, fs *mocks.FileSystem) { c.DataFile = "/data/missing.json" },
			want:   pipeline.ErrInvalidDataFile,
		},
		{
			name: "malformed data file",
			modify: func(c *Config, fs *mocks.FileSystem) {
				fs.AddFile("/data/broken.json", []byte(`{not json`))
				c.DataFile = "/data/broken.json"
			},
			want: pipeline.ErrInvalidDataFile,
		},
		{
			name: "imgName outside preview dir",
			modify: func(c *Config, fs *mocks.FileSystem) {
				fs.AddFile("/data/escape.json", []byte(`[{"title": "A", "imgName": "../escape"}]`))
				c.DataFile = "/data/escape.json"
			},
			want: pipeline.ErrInvalidDataFile,
		},
		{
			name:   "missing template",
			modify: func(c *Config, fs *mocks.FileSystem) { c.TemplatePath = "/social/template.html" },
			want:   pipeline.ErrInvalidTemplatePath,
		},
		{
			name:   "missing stylesheet",
			modify: func(c *Config, fs *mocks.FileSystem) { c.StylesPath = "/social/style.css" },
			want:   pipeline.ErrInvalidStylesPath,
		},
		{
			name: "preview dir cannot be created",
			modify: func(c *Config, fs *mocks.FileSystem) {
				fs.MkdirFunc = func(path string) error { return errors.New("permission denied") }
			},
			want: pipeline.ErrInvalidOutputDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			browser := &mocks.Browser{}
			fs := newFS()
			config := testConfig()
			tt.modify(&config, fs)

			_, err := newOrchestrator(browser, fs, nullsink.New()).Run(context.Background(), config)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *ValidationError, got %T", err)
			}
			if browser.Launches != 0 {
				t.Errorf("expected no browser launch, got %d", browser.Launches)
			}
			if len(fs.WriteOrder()) != 0 {
				t.Errorf("expected no files written, got %v", fs.WriteOrder())
			}
		})
	}
}

func TestOrchestrator_Run_TemplateOverrides(t *testing.T) {
	browser := &mocks.Browser{}
	fs := newFS()
	fs.AddFile("/social/template.html", []byte(`<style>{{ style }}</style><div class="blue"><h1>x</h1>{{ siteName }}</div>`))
	fs.AddFile("/social/style.css", []byte(`h1 { color: red; }`))
	fs.AddSymlink("/link/template.html", "/social/template.html")
	o := newOrchestrator(browser, fs, nullsink.New())

	config := testConfig()
	config.TemplatePath = "/link/template.html"
	config.StylesPath = "/social/style.css"

	result, err := o.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TemplatePath != "/social/template.html" {
		t.Errorf("expected symlink to be resolved, got %s", result.TemplatePath)
	}
	if !strings.Contains(browser.Content, "h1 { color: red; }") {
		t.Errorf("expected custom stylesheet in document, got %q", browser.Content)
	}
}

func TestOrchestrator_Run_SymlinkedOutputDir(t *testing.T) {
	fs := newFS()
	fs.AddSymlink("/public", "/site")
	o := newOrchestrator(&mocks.Browser{}, fs, nullsink.New())

	config := testConfig()
	config.OutputDir = "/public"

	result, err := o.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PreviewDir != "/site/previews" {
		t.Errorf("PreviewDir = %s, want /site/previews", result.PreviewDir)
	}
}

func TestOrchestrator_Run_LaunchFailure(t *testing.T) {
	browser := &mocks.Browser{
		LaunchFunc: func(ctx context.Context, opts ports.BrowserOptions) error {
			return errors.New("no chrome")
		},
	}
	o := newOrchestrator(browser, newFS(), nullsink.New())

	_, err := o.Run(context.Background(), testConfig())
	if !errors.Is(err, pipeline.ErrBrowserLaunch) {
		t.Fatalf("expected ErrBrowserLaunch, got %v", err)
	}
	if browser.Closes != 0 {
		t.Errorf("expected no close after failed launch, got %d", browser.Closes)
	}
}

func TestOrchestrator_Run_LoadFailureStillCloses(t *testing.T) {
	browser := &mocks.Browser{
		SetContentFunc: func(ctx context.Context, html string) error {
			return errors.New("renderer crashed")
		},
	}
	fs := newFS()
	o := newOrchestrator(browser, fs, nullsink.New())

	_, err := o.Run(context.Background(), testConfig())
	if !errors.Is(err, pipeline.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
	if browser.Closes != 1 {
		t.Errorf("expected browser to be closed, got %d closes", browser.Closes)
	}
	if len(fs.WriteOrder()) != 0 {
		t.Errorf("expected no previews, got %v", fs.WriteOrder())
	}
}

func TestOrchestrator_Run_CaptureFailureKeepsPrefix(t *testing.T) {
	calls := 0
	browser := &mocks.Browser{}
	browser.CaptureClipFunc = func(ctx context.Context, clip ports.Clip) ([]byte, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("screenshot failed")
		}
		return mocks.EncodePNG(1200, 630)
	}
	fs := newFS()
	o := newOrchestrator(browser, fs, nullsink.New())

	result, err := o.Run(context.Background(), testConfig())
	if !errors.Is(err, pipeline.ErrCapture) {
		t.Fatalf("expected ErrCapture, got %v", err)
	}
	if !strings.Contains(err.Error(), "second") {
		t.Errorf("expected error to name the failing record, got %q", err)
	}
	if len(result.Artifacts) != 1 || result.Artifacts[0].Name != "hello" {
		t.Errorf("expected first artifact to remain, got %+v", result.Artifacts)
	}
	if _, ok := fs.GetFile("/site/previews/hello.png"); !ok {
		t.Error("expected first preview to stay on disk")
	}
	if browser.Closes != 1 {
		t.Errorf("expected browser to be closed, got %d closes", browser.Closes)
	}
}

func TestOrchestrator_Run_DebugSink(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	fs := newFS()
	o := newOrchestrator(&mocks.Browser{}, fs, sink)

	result, err := o.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.ComposedHTML) == 0 {
		t.Error("expected composed HTML to be saved")
	}
	if !strings.Contains(string(sink.RecordsJSON), `"imgName": "hello"`) {
		t.Errorf("expected records JSON to be saved, got %s", sink.RecordsJSON)
	}
	if sink.ContactSheet == nil {
		t.Error("expected contact sheet to be saved")
	}
	for _, a := range result.Artifacts {
		if a.Image != nil {
			t.Error("expected image bytes to be released from the result")
		}
	}

	// Debug output never lands in the preview directory
	entries, _ := fs.ReadDir("/site/previews")
	if len(entries) != 2 {
		t.Errorf("unexpected preview dir contents: %v", entries)
	}
}

func TestOrchestrator_Run_ContactSheetFailureIsNotFatal(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	fs := newFS()
	log := logger.NewNoop()
	failing := pipeline.StageFunc[pipeline.ContactSheetInput, pipeline.ContactSheetResult](
		func(ctx context.Context, input pipeline.ContactSheetInput) (pipeline.ContactSheetResult, error) {
			return pipeline.ContactSheetResult{}, errors.New("no fonts")
		})
	o := New(compose.NewStage(sink, log), capture.NewStage(log), failing, &mocks.Browser{}, fs, sink, log)

	result, err := o.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("expected 2 artifacts, got %d", len(result.Artifacts))
	}
	if sink.ContactSheet != nil {
		t.Error("expected no contact sheet when the stage fails")
	}
}

func TestOrchestrator_Run_ComposeFailureSkipsLaunch(t *testing.T) {
	browser := &mocks.Browser{}
	log := logger.NewNoop()
	sink := nullsink.New()
	failing := pipeline.StageFunc[pipeline.TemplateInput, pipeline.ComposeResult](
		func(ctx context.Context, input pipeline.TemplateInput) (pipeline.ComposeResult, error) {
			return pipeline.ComposeResult{}, errors.New("broken template")
		})
	o := New(failing, capture.NewStage(log), contactsheet.NewStage(ggrenderer.New(), log), browser, newFS(), sink, log)

	_, err := o.Run(context.Background(), testConfig())
	if err == nil || !strings.Contains(err.Error(), "compose stage") {
		t.Fatalf("expected compose stage error, got %v", err)
	}
	if browser.Launches != 0 {
		t.Errorf("expected no launch, got %d", browser.Launches)
	}
}

func TestOrchestrator_Run_RecordsDumpFailureWarns(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	sink.SaveRecordsJSONFunc = func([]byte) error { return errors.New("disk full") }
	log := mocks.NewLogger()
	o := New(compose.NewStage(sink, log), capture.NewStage(log), contactsheet.NewStage(ggrenderer.New(), log), &mocks.Browser{}, newFS(), sink, log)

	if _, err := o.Run(context.Background(), testConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	warnings := log.Find(ports.LevelWarn, "Failed to save debug output")
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %+v", log.Entries())
	}
	if !strings.Contains(warnings[0].Text(), "disk full") {
		t.Errorf("expected warning to carry the cause, got %q", warnings[0].Text())
	}
}

func TestOrchestrator_Run_ImageLinesPrecedeCompletion(t *testing.T) {
	log := mocks.NewLogger()
	sink := nullsink.New()
	o := New(compose.NewStage(sink, log), capture.NewStage(log), contactsheet.NewStage(ggrenderer.New(), log), &mocks.Browser{}, newFS(), sink, log)

	if _, err := o.Run(context.Background(), testConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var lines []string
	for _, e := range log.Entries() {
		if e.Level == ports.LevelInfo && strings.HasPrefix(e.Msg, "Image: ") {
			if e.Component != "capture" {
				t.Errorf("expected the capture stage to log %q, got component %q", e.Text(), e.Component)
			}
			lines = append(lines, e.Text())
		}
	}
	want := []string{"Image: hello.png", "Image: second.png"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Errorf("image lines = %v, want %v", lines, want)
	}
}

func TestOrchestrator_Run_LogsPreviewDirContents(t *testing.T) {
	fs := newFS()
	fs.AddDir("/site/previews")
	fs.AddFile("/site/previews/stale.png", []byte("old"))
	log := mocks.NewLogger()
	sink := nullsink.New()
	o := New(compose.NewStage(sink, log), capture.NewStage(log), contactsheet.NewStage(ggrenderer.New(), log), &mocks.Browser{}, fs, sink, log)

	if _, err := o.Run(context.Background(), testConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := log.Find(ports.LevelDebug, "Preview directory %s holds")
	if len(found) != 1 {
		t.Fatalf("expected 1 listing line, got %+v", log.Entries())
	}
	if got := found[0].Text(); got != "Preview directory /site/previews holds 3 files" {
		t.Errorf("unexpected listing line %q", got)
	}
}

func TestOrchestrator_Run_PreviewDirListingFailureWarns(t *testing.T) {
	fs := newFS()
	fs.ReadDirFunc = func(string) ([]string, error) { return nil, errors.New("permission denied") }
	log := mocks.NewLogger()
	sink := nullsink.New()
	o := New(compose.NewStage(sink, log), capture.NewStage(log), contactsheet.NewStage(ggrenderer.New(), log), &mocks.Browser{}, fs, sink, log)

	if _, err := o.Run(context.Background(), testConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(log.Find(ports.LevelWarn, "Failed to list preview directory")) != 1 {
		t.Errorf("expected a listing warning, got %+v", log.Entries())
	}
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	browser := &mocks.Browser{}
	o := newOrchestrator(browser, newFS(), nullsink.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.Run(ctx, testConfig()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if browser.Launches != 0 {
		t.Errorf("expected no launch after cancellation, got %d", browser.Launches)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Kind: pipeline.ErrInvalidTemplatePath, Path: "x.html", Err: errors.New("no such file")}
	if err.Error() != "invalid templatePath provided: x.html: no such file" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
