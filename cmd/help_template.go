package cmd

import "github.com/spf13/cobra"

const templateHelp = `The name template describes the new path of an attachment. Text outside
placeholders is copied as is.

Placeholders

  A placeholder is a name in braces: {noteName}. One or two braces on either
  side are accepted, so {{ noteName }} and {noteName}} work too. Whitespace
  inside the braces is ignored.

  {noteName}      active note name, without extension        My Note
  {noteParent}    folder of the active note                  Topic/Sub-Topic
  {srcName}       original attachment name, no extension     Pasted image 20251201153340
  {srcParent}     folder of the original attachment          attachments
  {extension}     extension of the original attachment       png
  {header}        nearest heading above --line               Introduction
  {separator}     the separator setting                      -
  {uuid}          random identifier                          da5bdb94-691f-4deb-aca8-0e4fdf6e903d
  {custom}        folder value of the active note            see "autorename folders"
  {DATE:FORMAT}   current date, e.g. {DATE:YYYY-MM-DD}       2025-12-01

  FORMAT uses Moment.js tokens, or strftime directives with
  date_format: strftime. Unknown placeholders are kept as written.

Conditional separators

  A "-" before or after a name inserts the separator on that side, but only
  when the value is not empty:

    {header-}{noteName}   →   Introduction-My Note
                          →   My Note              (no heading above the cursor)

Paths

  Use "/" between folders, also on Windows. Paths start at the vault root.
  Empty, "." and ".." segments are dropped, so foo//./../bar is foo/bar and
  an empty variable never produces an empty folder: {noteName}/{header}/{uuid}

  Missing folders are only created with create_missing_dirs enabled. Check
  your template first: a typo creates folders all over the vault.

Numbers

  When the rendered name is taken, the separator and the next free number are
  appended: image, image-1, image-2. always_number numbers every attachment
  and number_padding sets the minimum number of digits.
`

var templateHelpCmd = &cobra.Command{
	Use:   "template",
	Short: "How to write a name template",
	Long:  templateHelp,
}

func init() {
	rootCmd.AddCommand(templateHelpCmd)
}
