// Package prompt asks the user what to do with an attachment.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 2)
)

// Choice is the user's answer to a rename prompt.
type Choice int

const (
	ChoiceRename Choice = iota // Rename to the proposed path
	ChoiceEdit                 // Edit the proposed name
	ChoiceSkip                 // Keep the current name
	ChoiceCancel               // Keep the current name, or trash the file with delete_on_cancel
)

// Attachment describes the file being renamed.
type Attachment struct {
	Source   string
	Target   string // empty when the proposed name is invalid
	Proposed string // rendered template, shown when Target is empty
	MimeType string
	Image    bool
	Size     int64
}

// Prompter reads answers from a reader and writes prompts to a writer.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// New creates a Prompter. Use os.Stdin and os.Stdout for normal operation,
// or buffers for testing.
func New(reader io.Reader, writer io.Writer) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// Rename shows the proposed rename and asks what to do.
// End of input counts as skip.
func (p *Prompter) Rename(a Attachment) (Choice, error) {
	fmt.Fprintln(p.writer, boxStyle.Render(describe(a)))

	options := "(r)ename, (e)dit, (s)kip, (c)ancel [r]: "
	if a.Target == "" {
		options = "(e)dit, (s)kip, (c)ancel [e]: "
	}
	fmt.Fprint(p.writer, options)

	input, ok, err := p.readLine()
	if err != nil {
		return ChoiceSkip, err
	}
	if !ok {
		return ChoiceSkip, nil
	}

	switch strings.ToLower(input) {
	case "":
		if a.Target == "" {
			return ChoiceEdit, nil
		}
		return ChoiceRename, nil
	case "r", "rename", "y", "yes":
		if a.Target == "" {
			fmt.Fprintln(p.writer, warnStyle.Render("The proposed name is invalid, edit it first."))
			return ChoiceEdit, nil
		}
		return ChoiceRename, nil
	case "e", "edit":
		return ChoiceEdit, nil
	case "s", "skip", "n", "no":
		return ChoiceSkip, nil
	case "c", "cancel", "q", "quit":
		return ChoiceCancel, nil
	default:
		// Invalid input, default to skip for safety
		fmt.Fprintf(p.writer, "Invalid input '%s', skipping.\n", input)
		return ChoiceSkip, nil
	}
}

// Edit asks for a new name. An empty answer keeps current.
func (p *Prompter) Edit(current string) (string, error) {
	fmt.Fprintf(p.writer, "New name %s: ", dimStyle.Render("["+current+"]"))
	input, ok, err := p.readLine()
	if err != nil {
		return current, err
	}
	if !ok || input == "" {
		return current, nil
	}
	return input, nil
}

// Confirm asks a yes/no question. Anything but yes is no.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.writer, "%s [y/N]: ", question)
	input, ok, err := p.readLine()
	if err != nil || !ok {
		return false, err
	}
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine reads one trimmed line. It reports false at end of input.
func (p *Prompter) readLine() (string, bool, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", false, nil
			}
			return strings.TrimSpace(line), true, nil
		}
		return "", false, fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), true, nil
}

func describe(a Attachment) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Rename attachment") + "\n\n")
	b.WriteString(a.Source + "\n")
	if a.Target != "" {
		b.WriteString("→ " + targetStyle.Render(a.Target))
	} else {
		b.WriteString("→ " + warnStyle.Render(fmt.Sprintf("%q is not a valid name", a.Proposed)))
	}

	var details []string
	if a.Image {
		details = append(details, "image")
	}
	if a.MimeType != "" {
		details = append(details, a.MimeType)
	}
	if a.Size > 0 {
		details = append(details, formatSize(a.Size))
	}
	if len(details) > 0 {
		b.WriteString("\n" + dimStyle.Render(strings.Join(details, ", ")))
	}
	return b.String()
}

// formatSize formats a byte count in a human-readable way.
func formatSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	}
}
