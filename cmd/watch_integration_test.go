//go:build integration

package cmd

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prettymuchbryce/autorename/internal/testutil"
)

// startWatch runs "autorename watch" with args until ctx is cancelled.
func startWatch(args ...string) testutil.StartFunc {
	return func(ctx context.Context, configPath string) error {
		resetFlags(rootCmd)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(io.Discard)
		rootCmd.SetErr(io.Discard)
		rootCmd.SetArgs(append([]string{"--config", configPath, "watch"}, args...))
		return rootCmd.ExecuteContext(ctx)
	}
}

const watchConfig = `
vault: {{.Vault}}
watch:
  debounce: 50ms
  max_age: 5s
logging:
  level: error
`

func TestWatch(t *testing.T) {
	testutil.RunTable(t, []testutil.TestCase{
		{
			Name:   "pasted image is renamed and embed updated",
			Config: watchConfig,
			Before: []testutil.FileEntry{
				testutil.Note("notes/My Note.md", "# Intro\n![[Pasted image.png]]\n"),
				testutil.Dir("assets"),
			},
			Trigger: []testutil.FileEntry{
				testutil.File("assets/Pasted image.png").WithContent("png"),
			},
			Expect: []testutil.FileEntry{
				testutil.File("assets/My Note.png").WithContent("png").ExactContent(),
				testutil.Note("notes/My Note.md", "# Intro\n![[My Note.png]]\n"),
			},
			Missing: []string{"assets/Pasted image.png"},
		},
		{
			Name:   "attachments are numbered",
			Config: watchConfig,
			Before: []testutil.FileEntry{
				testutil.Note("notes/My Note.md", ""),
				testutil.File("assets/My Note.png"),
			},
			Trigger: []testutil.FileEntry{
				testutil.File("assets/a.png"),
			},
			Expect: []testutil.FileEntry{
				testutil.File("assets/My Note.png"),
				testutil.File("assets/My Note-1.png"),
			},
			Missing: []string{"assets/a.png"},
		},
		{
			Name:   "new notes are left alone",
			Config: watchConfig,
			Before: []testutil.FileEntry{
				testutil.Note("notes/My Note.md", ""),
			},
			Trigger: []testutil.FileEntry{
				testutil.Note("notes/Other.md", "text"),
				testutil.File("notes/~draft.png"),
			},
			Expect: []testutil.FileEntry{
				testutil.Note("notes/Other.md", "text"),
				testutil.File("notes/~draft.png"),
			},
			Missing: []string{"notes/My Note.png"},
			Settle:  500 * time.Millisecond,
		},
		{
			Name: "ignored attachments are left alone",
			Config: watchConfig + `
ignore:
  - glob: "private/**"
`,
			Before: []testutil.FileEntry{
				testutil.Note("My Note.md", ""),
				testutil.Dir("private"),
			},
			Trigger: []testutil.FileEntry{
				testutil.File("private/secret.png"),
			},
			Expect: []testutil.FileEntry{
				testutil.File("private/secret.png"),
			},
			Missing: []string{"private/My Note.png"},
			Settle:  500 * time.Millisecond,
		},
		{
			Name:   "hidden folders are not watched",
			Config: watchConfig,
			Before: []testutil.FileEntry{
				testutil.Note("My Note.md", ""),
				testutil.Dir(".obsidian"),
			},
			Trigger: []testutil.FileEntry{
				testutil.File(".obsidian/icon.png"),
			},
			Expect: []testutil.FileEntry{
				testutil.File(".obsidian/icon.png"),
			},
			Settle: 500 * time.Millisecond,
		},
	}, startWatch("--note", "notes/My Note.md"))
}

func TestWatch_RequiresNote(t *testing.T) {
	v := newTestVault(t, nil, "")
	if _, err := v.run("", "watch"); err == nil {
		t.Error("expected error without --note")
	}
}
