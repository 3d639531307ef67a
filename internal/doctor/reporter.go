package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/kjourdan1/hbstree/internal/output"
)

// StatusIcon returns the emoji/icon for a check status.
func StatusIcon(s Status) string {
	if output.NoColor() {
		switch s {
		case StatusPass:
			return "[PASS]"
		case StatusFail:
			return "[FAIL]"
		case StatusWarn:
			return "[WARN]"
		case StatusSkip:
			return "[SKIP]"
		default:
			return "[????]"
		}
	}
	switch s {
	case StatusPass:
		return "✅"
	case StatusFail:
		return "❌"
	case StatusWarn:
		return "⚠️"
	case StatusSkip:
		return "⏭️"
	default:
		return "❓"
	}
}

// PrintResults writes check results to w. In JSON mode the summary goes to
// stdout as a JSON result instead. The caller decides the exit code from
// summary.HasFailure.
func PrintResults(w io.Writer, summary Summary) {
	if output.JSONMode {
		output.JSON(summary)
		return
	}

	lastCategory := ""
	for _, r := range summary.Results {
		if r.Category != lastCategory {
			printCategoryHeader(w, r.Category)
			lastCategory = r.Category
		}
		printCheckResult(w, r)
	}

	fmt.Fprintln(w)
	printSummaryLine(summary)
}

func printCategoryHeader(w io.Writer, cat string) {
	var label string
	switch cat {
	case "config":
		label = "Configuration"
	case "layout":
		label = "Project Layout"
	case "templates":
		label = "Templates"
	default:
		label = cat
	}
	fmt.Fprintln(w)
	if output.NoColor() {
		fmt.Fprintf(w, "--- %s ---\n", label)
	} else {
		fmt.Fprintln(w, output.StyleTitle.Render("━━ "+label+" ━━"))
	}
}

func printCheckResult(w io.Writer, r CheckResult) {
	icon := StatusIcon(r.Status)
	fmt.Fprintf(w, "  %s  %s\n", icon, r.Message)
	if r.Fix != "" && r.Status != StatusPass {
		if output.NoColor() {
			fmt.Fprintf(w, "       Fix: %s\n", r.Fix)
		} else {
			fmt.Fprintf(w, "       💡 %s\n", r.Fix)
		}
	}
}

func printSummaryLine(s Summary) {
	parts := []string{}
	if s.TotalPass > 0 {
		parts = append(parts, fmt.Sprintf("%d passed", s.TotalPass))
	}
	if s.TotalWarn > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.TotalWarn))
	}
	if s.TotalFail > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.TotalFail))
	}
	if s.TotalSkip > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.TotalSkip))
	}

	line := strings.Join(parts, ", ")

	if s.HasFailure {
		output.Fail(fmt.Sprintf("Doctor found issues: %s", line))
	} else if s.TotalWarn > 0 {
		output.Warn(fmt.Sprintf("Doctor completed with warnings: %s", line))
	} else {
		output.Success(fmt.Sprintf("All checks passed (%s)", line))
	}
}
