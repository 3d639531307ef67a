// Package output is the terminal layer of hbstree: the charmbracelet/log
// logger handed to the writer, lipgloss styles for cycle reports, the --json
// envelope, CLIError fix hints and the build spinner.
//
// Human output goes to stderr except cycle reports, which commands print to
// their own writer. With --json nothing but JSON documents reach stdout.
package output
