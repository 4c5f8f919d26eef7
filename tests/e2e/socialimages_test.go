// Package e2e contains end-to-end tests for the socialimages CLI.
// This package has no CGO dependencies so it can run with pre-built binaries.
package e2e

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const pagesJSON = `[
  {"title": "Hello World", "imgName": "hello-world"},
  {"title": "Second <em>Post</em>", "imgName": "second-post"}
]`

// getBinaryName returns the test binary name with platform-specific extension
func getBinaryName() string {
	if runtime.GOOS == "windows" {
		return "socialimages-test.exe"
	}
	return "socialimages-test"
}

// getBinaryPath returns the absolute path of the test binary.
// If SOCIALIMAGES_BINARY env var is set, use that instead (for CI with pre-built binaries)
func getBinaryPath(t *testing.T) string {
	if path := os.Getenv("SOCIALIMAGES_BINARY"); path != "" {
		return path
	}
	return filepath.Join(getProjectRoot(t), getBinaryName())
}

// prepareBinary skips unless E2E is enabled and builds the CLI when no
// pre-built binary is provided.
func prepareBinary(t *testing.T) string {
	t.Helper()
	if os.Getenv("SOCIALIMAGES_E2E") != "1" {
		t.Skip("Skipping E2E test (set SOCIALIMAGES_E2E=1 to run)")
	}

	if os.Getenv("SOCIALIMAGES_BINARY") == "" {
		buildCmd := exec.Command("go", "build", "-o", getBinaryName(), "./cmd/socialimages")
		buildCmd.Dir = getProjectRoot(t)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			t.Fatalf("Failed to build CLI: %v\n%s", err, out)
		}
		t.Cleanup(func() { os.Remove(filepath.Join(getProjectRoot(t), getBinaryName())) })
	}
	return getBinaryPath(t)
}

// newSite creates an output directory and a data file in a temp dir.
func newSite(t *testing.T) (siteDir, dataFile string) {
	t.Helper()
	tmpDir := t.TempDir()
	siteDir = filepath.Join(tmpDir, "_site")
	if err := os.Mkdir(siteDir, 0755); err != nil {
		t.Fatalf("Failed to create site dir: %v", err)
	}
	dataFile = filepath.Join(tmpDir, "pages.json")
	if err := os.WriteFile(dataFile, []byte(pagesJSON), 0644); err != nil {
		t.Fatalf("Failed to write data file: %v", err)
	}
	return siteDir, dataFile
}

func runCLI(t *testing.T, bin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

// TestGeneratePreviews renders the bundled template for two records.
func TestGeneratePreviews(t *testing.T) {
	bin := prepareBinary(t)
	siteDir, dataFile := newSite(t)

	stdout, stderr, err := runCLI(t, bin,
		"--outputDir", siteDir,
		"--dataFile", dataFile,
		"--siteName", "E2E Site",
		"--theme", "green",
	)
	if err != nil {
		t.Fatalf("socialimages failed: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}

	previewDir := filepath.Join(siteDir, "previews")
	entries, err := os.ReadDir(previewDir)
	if err != nil {
		t.Fatalf("Failed to read preview dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 previews, got %d", len(entries))
	}

	for _, name := range []string{"hello-world.png", "second-post.png"} {
		f, err := os.Open(filepath.Join(previewDir, name))
		if err != nil {
			t.Errorf("Preview %s not found: %v", name, err)
			continue
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Errorf("Preview %s is not a PNG: %v", name, err)
			continue
		}
		if cfg.Width != 1200 || cfg.Height != 630 {
			t.Errorf("Preview %s is %dx%d, want 1200x630", name, cfg.Width, cfg.Height)
		}
	}

	if !strings.Contains(stdout, "hello-world.png") {
		t.Errorf("Expected image log line in stdout: %s", stdout)
	}
}

// TestGenerateWithDebugAndSummary checks the debug files and the summary.
func TestGenerateWithDebugAndSummary(t *testing.T) {
	bin := prepareBinary(t)
	siteDir, dataFile := newSite(t)
	debugDir := filepath.Join(t.TempDir(), "debug")
	summaryPath := filepath.Join(t.TempDir(), "summary.md")

	stdout, stderr, err := runCLI(t, bin,
		"--outputDir", siteDir,
		"--dataFile", dataFile,
		"--debug",
		"--debug-dir", debugDir,
		"--summary", summaryPath,
	)
	if err != nil {
		t.Fatalf("socialimages failed: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}

	for _, name := range []string{"composed.html", "records.json", "contact-sheet.png"} {
		if _, err := os.Stat(filepath.Join(debugDir, name)); err != nil {
			t.Errorf("Expected %s in debug output: %v", name, err)
		}
	}

	// Debug files never land in the preview dir
	entries, err := os.ReadDir(filepath.Join(siteDir, "previews"))
	if err != nil {
		t.Fatalf("Failed to read preview dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 previews, got %d", len(entries))
	}

	summary, err := os.ReadFile(summaryPath)
	if err != nil {
		t.Fatalf("Summary not written: %v", err)
	}
	if !strings.Contains(string(summary), "# Social Images Summary") {
		t.Errorf("Unexpected summary content:\n%s", summary)
	}
}

// TestExitCodes checks that invalid inputs fail before any browser launch.
func TestExitCodes(t *testing.T) {
	bin := prepareBinary(t)
	siteDir, dataFile := newSite(t)
	missing := filepath.Join(t.TempDir(), "missing")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing output dir", []string{"--outputDir", missing, "--dataFile", dataFile}, 5},
		{"missing data file", []string{"--outputDir", siteDir, "--dataFile", missing + ".json"}, 4},
		{"missing template", []string{"--outputDir", siteDir, "--dataFile", dataFile, "--templatePath", missing + ".html"}, 2},
		{"missing styles", []string{"--outputDir", siteDir, "--dataFile", dataFile, "--stylesPath", missing + ".css"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := runCLI(t, bin, tt.args...)
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("Expected exit error, got %v (stderr: %s)", err, stderr)
			}
			if exitErr.ExitCode() != tt.want {
				t.Errorf("Exit code = %d, want %d (stderr: %s)", exitErr.ExitCode(), tt.want, stderr)
			}
		})
	}

	// No preview dir is created when validation fails
	if _, err := os.Stat(filepath.Join(siteDir, "previews")); !os.IsNotExist(err) {
		t.Errorf("Preview dir should not exist after failed validation: %v", err)
	}
}

// TestVersionCommand tests the version flag
func TestVersionCommand(t *testing.T) {
	bin := prepareBinary(t)

	out, err := exec.Command(bin, "--version").CombinedOutput()
	if err != nil {
		t.Fatalf("Version command failed: %v", err)
	}

	if !strings.Contains(string(out), "socialimages") {
		t.Errorf("Unexpected version output: %s", out)
	}
}

// getProjectRoot returns the project root directory
func getProjectRoot(t *testing.T) string {
	// Start from current working directory and find go.mod
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}
