package output

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/kjourdan1/hbstree/internal/template"
)

// PrintCycle writes a human-readable summary of a write cycle to w. In JSON
// mode a CycleJSON document goes to Stdout instead.
func PrintCycle(w io.Writer, report *template.CycleReport) {
	if report == nil {
		return
	}
	if JSONMode {
		JSON(NewCycleJSON(report))
		return
	}

	title := "Rendered"
	if report.DryRun {
		title = "Rendered (dry run)"
	}
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s %d file(s) into %s", title, len(report.Files), report.DestDir)))

	total := 0
	for _, f := range report.Files {
		total += f.Bytes
		dest := f.Dest
		if rel, err := filepath.Rel(report.DestDir, f.Dest); err == nil {
			dest = rel
		}
		fmt.Fprintf(w, "  %s %s %s\n", f.Source, StyleMuted.Render("→"), dest)
	}
	fmt.Fprintln(w, StyleMuted.Render(fmt.Sprintf("%s in %s", FormatBytes(total), report.Duration.Round(time.Millisecond))))
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
