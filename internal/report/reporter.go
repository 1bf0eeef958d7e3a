package report

// Reporter provides structured output for rename runs.
// Implementations can format output as tree-style text, JSON, etc.
// All methods are nil-safe - they are no-ops when called on nil.
type Reporter interface {
	// StartNote begins reporting for the attachments of a note
	StartNote(path string)

	// EndNote finishes reporting for current note.
	// Returns the number of attachments that were renamed.
	EndNote() int

	// StartAttachment begins reporting for an attachment
	StartAttachment(path string)

	// RecordCheck records whether the attachment passed a check
	// (ignore patterns, MIME type, name validity).
	RecordCheck(name string, passed bool, detail string)

	// ReportResult records what happened to the attachment
	ReportResult(result Result)

	// EndAttachment finishes reporting for current attachment.
	// Returns true if anything was reported.
	EndAttachment() bool
}

// Outcome represents what happened to an attachment.
type Outcome int

const (
	OutcomeRenamed   Outcome = iota // Attachment was renamed to NewPath
	OutcomeUnchanged                // Rendered path equals the current path
	OutcomeTrashed                  // Attachment was moved to the trash
	OutcomeSkipped                  // Skipped by the user or a check
	OutcomeFailed                   // Rename failed with error
)

// Result describes the outcome of renaming one attachment.
type Result struct {
	Outcome Outcome
	NewPath string // Destination for renamed attachments
	Links   int    // Number of links updated in notes
	Reason  string // Why the attachment was skipped
	Error   string // Error message for failed renames
}

// CheckDetail describes the result of a single check.
type CheckDetail struct {
	Name   string // Check name (e.g., "ignore", "type")
	Passed bool
	Detail string // Human-readable detail
}
