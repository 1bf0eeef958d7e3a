//go:build integration

package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"text/template"
	"time"
)

// FileEntry describes a file or folder in the vault.
type FileEntry struct {
	Path         string // vault path using forward slashes (e.g., "assets/image.png")
	IsDir        bool   // true for folders
	Content      string // file content (mutually exclusive with Size)
	Size         int64  // create file with this many zero bytes
	CheckContent bool   // expected entries must also match Content
}

// StartFunc runs the command under test until ctx is cancelled.
type StartFunc func(ctx context.Context, configPath string) error

// TestCase is a complete data-driven integration test.
type TestCase struct {
	Name    string        // test name (used for t.Run)
	Config  string        // YAML config with {{.Vault}} template variable
	Before  []FileEntry   // files/folders to create BEFORE the command starts
	Trigger []FileEntry   // files to create AFTER the command starts
	Expect  []FileEntry   // files that SHOULD exist after processing
	Missing []string      // paths that should NOT exist after processing
	Settle  time.Duration // wait this long before checking, for cases where nothing should change
	Timeout time.Duration // how long to wait for expected state (default: 3s)
}

// Harness manages the test environment.
type Harness struct {
	t      *testing.T
	tmpDir string
	vault  string
	cancel context.CancelFunc
	errCh  chan error
}

// Run executes a single test case.
func Run(t *testing.T, tc TestCase, start StartFunc) {
	t.Helper()

	tmpDir := t.TempDir()
	h := &Harness{
		t:      t,
		tmpDir: tmpDir,
		vault:  filepath.Join(tmpDir, "vault"),
		errCh:  make(chan error, 1),
	}

	if err := os.MkdirAll(h.vault, 0755); err != nil {
		t.Fatalf("failed to create vault: %v", err)
	}

	// Create initial folders and files
	h.createEntries(tc.Before)

	h.start(tc.Config, start)

	// Create files that trigger renames
	h.createEntries(tc.Trigger)

	if tc.Settle > 0 {
		time.Sleep(tc.Settle)
	}

	// Wait for expected state
	h.waitAndVerify(tc)

	// Cleanup
	h.cleanup()
}

// RunTable executes multiple test cases as subtests.
func RunTable(t *testing.T, cases []TestCase, start StartFunc) {
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			Run(t, tc, start)
		})
	}
}

func (h *Harness) path(p string) string {
	// Convert forward slashes to OS-specific separator for Windows compatibility
	return filepath.Join(h.vault, filepath.FromSlash(p))
}

// createEntries creates files and folders from FileEntry specs.
func (h *Harness) createEntries(entries []FileEntry) {
	h.t.Helper()

	for _, e := range entries {
		path := h.path(e.Path)

		if e.IsDir {
			if err := os.MkdirAll(path, 0755); err != nil {
				h.t.Fatalf("failed to create folder %s: %v", e.Path, err)
			}
			continue
		}

		// Ensure parent folder exists
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			h.t.Fatalf("failed to create parent folder for %s: %v", e.Path, err)
		}

		// Create file with content or size
		var content []byte
		if e.Content != "" {
			content = []byte(e.Content)
		} else if e.Size > 0 {
			content = make([]byte, e.Size)
		}

		if err := os.WriteFile(path, content, 0644); err != nil {
			h.t.Fatalf("failed to create file %s: %v", e.Path, err)
		}
	}
}

// start writes the config and starts the command.
func (h *Harness) start(configTemplate string, start StartFunc) {
	h.t.Helper()

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		h.t.Fatalf("failed to parse config template: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{
		"Vault": h.vault,
	}); err != nil {
		h.t.Fatalf("failed to execute config template: %v", err)
	}

	configPath := filepath.Join(h.tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		h.t.Fatalf("failed to write config file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	go func() {
		h.errCh <- start(ctx, configPath)
	}()

	// Wait for the watches to be registered
	time.Sleep(200 * time.Millisecond)

	// Check for immediate failure
	select {
	case err := <-h.errCh:
		h.t.Fatalf("command failed to start: %v", err)
	default:
	}
}

// waitAndVerify waits for the expected state and verifies it.
func (h *Harness) waitAndVerify(tc TestCase) {
	h.t.Helper()

	timeout := tc.Timeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(h.problems(tc.Expect, tc.Missing)) == 0 {
			return // Success
		}
		time.Sleep(50 * time.Millisecond)
	}

	// Final check with error reporting
	for _, problem := range h.problems(tc.Expect, tc.Missing) {
		h.t.Error(problem)
	}
}

// problems lists the differences from the expected state.
func (h *Harness) problems(expect []FileEntry, missing []string) []string {
	var problems []string

	for _, e := range expect {
		info, err := os.Stat(h.path(e.Path))
		switch {
		case err != nil:
			problems = append(problems, "expected "+e.Path+" to exist, but it doesn't")
		case e.IsDir && !info.IsDir():
			problems = append(problems, "expected "+e.Path+" to be a folder, but it's a file")
		case !e.IsDir && info.IsDir():
			problems = append(problems, "expected "+e.Path+" to be a file, but it's a folder")
		case e.CheckContent:
			data, err := os.ReadFile(h.path(e.Path))
			if err != nil || string(data) != e.Content {
				problems = append(problems, "expected "+e.Path+" to contain "+quote(e.Content)+", got "+quote(string(data)))
			}
		}
	}

	for _, p := range missing {
		if _, err := os.Stat(h.path(p)); !os.IsNotExist(err) {
			problems = append(problems, "expected "+p+" to NOT exist, but it does")
		}
	}

	return problems
}

func quote(s string) string {
	return "\"" + s + "\""
}

// cleanup stops the command gracefully.
func (h *Harness) cleanup() {
	h.t.Helper()

	if h.cancel != nil {
		h.cancel()
	}

	select {
	case err := <-h.errCh:
		if err != nil {
			h.t.Errorf("command returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		h.t.Error("command did not stop within timeout")
	}
}
