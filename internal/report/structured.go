package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/xlab/treeprint"
)

// Styles for the structured reporter
var (
	noteStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // Cyan
	pathStyle   = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // Red
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // Gray
)

const (
	passIcon = "✓"
	failIcon = "✗"
	skipIcon = "⊘"
)

// StructuredReporter outputs a tree-style report of renamed attachments.
type StructuredReporter struct {
	w       io.Writer
	verbose bool

	// Current note state
	currentNote string
	renamed     int

	// Current attachment state
	currentPath string
	checks      []CheckDetail
	results     []Result
}

// NewStructuredWithWriter creates a StructuredReporter writing to a custom writer.
func NewStructuredWithWriter(w io.Writer, verbose bool) *StructuredReporter {
	return &StructuredReporter{
		w:       w,
		verbose: verbose,
	}
}

// StartNote begins reporting for a note.
func (r *StructuredReporter) StartNote(path string) {
	if r == nil {
		return
	}
	r.currentNote = path
	r.renamed = 0
	fmt.Fprintf(r.w, "\n%s\n", noteStyle.Render("━━━ Note: "+path+" ━━━"))
}

// EndNote finishes reporting for current note.
// Returns the number of attachments that were renamed.
func (r *StructuredReporter) EndNote() int {
	if r == nil {
		return 0
	}
	if r.renamed == 0 && !r.verbose {
		fmt.Fprintf(r.w, "%s\n", detailStyle.Render("  No attachments renamed. Use --verbose for more info."))
	}
	return r.renamed
}

// StartAttachment begins reporting for an attachment.
func (r *StructuredReporter) StartAttachment(path string) {
	if r == nil {
		return
	}
	r.currentPath = path
	r.checks = nil
	r.results = nil
}

// RecordCheck records a single check result.
func (r *StructuredReporter) RecordCheck(name string, passed bool, detail string) {
	if r == nil {
		return
	}
	r.checks = append(r.checks, CheckDetail{Name: name, Passed: passed, Detail: detail})
}

// ReportResult records what happened to the attachment.
func (r *StructuredReporter) ReportResult(result Result) {
	if r == nil {
		return
	}
	r.results = append(r.results, result)
	if result.Outcome == OutcomeRenamed {
		r.renamed++
	}
}

// EndAttachment finishes reporting for current attachment.
// Returns true if anything was reported.
func (r *StructuredReporter) EndAttachment() bool {
	if r == nil || r.currentPath == "" {
		return false
	}

	// Quiet mode only shows attachments that something happened to
	if len(r.results) == 0 && !r.verbose {
		return false
	}
	if !r.verbose && len(r.results) == 1 && r.results[0].Outcome == OutcomeUnchanged {
		return false
	}

	r.printAttachment()
	return true
}

// printAttachment outputs the attachment report with tree connectors.
func (r *StructuredReporter) printAttachment() {
	tree := treeprint.NewWithRoot(pathStyle.Render(r.currentPath))
	maxWidth := r.calculateMaxWidth()

	if r.verbose && len(r.checks) > 0 {
		checksBranch := tree.AddBranch("checks:")
		for _, c := range r.checks {
			checksBranch.AddNode(r.formatCheck(c, maxWidth))
		}
	}

	for _, res := range r.results {
		tree.AddNode(r.formatResult(res, maxWidth))
	}

	fmt.Fprint(r.w, tree.String())
}

// calculateMaxWidth calculates the maximum check name width for alignment.
func (r *StructuredReporter) calculateMaxWidth() int {
	maxWidth := len("rename")
	for _, c := range r.checks {
		if len(c.Name) > maxWidth {
			maxWidth = len(c.Name)
		}
	}
	return maxWidth
}

// formatCheck formats a CheckDetail aligned to maxWidth.
func (r *StructuredReporter) formatCheck(c CheckDetail, maxWidth int) string {
	icon := failStyle.Render(failIcon)
	if c.Passed {
		icon = passStyle.Render(passIcon)
	}

	result := fmt.Sprintf("%-*s %s", maxWidth+1, c.Name+":", icon)
	if c.Detail != "" {
		result += " " + detailStyle.Render(c.Detail)
	}
	return result
}

// formatResult formats a rename result aligned to maxWidth.
func (r *StructuredReporter) formatResult(res Result, maxWidth int) string {
	var icon, status string

	switch res.Outcome {
	case OutcomeRenamed:
		icon = passStyle.Render(passIcon)
		status = "→ " + res.NewPath
		if res.Links > 0 {
			status += " " + detailStyle.Render(fmt.Sprintf("(%d %s updated)", res.Links, plural(res.Links, "link", "links")))
		}

	case OutcomeUnchanged:
		icon = passStyle.Render(passIcon)
		status = "unchanged"

	case OutcomeTrashed:
		icon = passStyle.Render(passIcon)
		status = "trashed"

	case OutcomeSkipped:
		icon = skipStyle.Render(skipIcon)
		status = "skipped"
		if res.Reason != "" {
			status += " " + detailStyle.Render("("+res.Reason+")")
		}

	case OutcomeFailed:
		icon = failStyle.Render(failIcon)
		status = "failed"
		if res.Error != "" {
			status += " " + detailStyle.Render("("+res.Error+")")
		}
	}

	return fmt.Sprintf("%-*s %s %s", maxWidth+1, "rename:", icon, status)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// NullReporter is a no-op reporter for when reporting is disabled.
// It allows rename code to call methods unconditionally.
type NullReporter struct{}

func (NullReporter) StartNote(path string)                               {}
func (NullReporter) EndNote() int                                        { return 0 }
func (NullReporter) StartAttachment(path string)                         {}
func (NullReporter) RecordCheck(name string, passed bool, detail string) {}
func (NullReporter) ReportResult(result Result)                          {}
func (NullReporter) EndAttachment() bool                                 { return false }
