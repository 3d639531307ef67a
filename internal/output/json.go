package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kjourdan1/hbstree/internal/template"
)

// Stdout receives every JSON document. Tests swap it for a buffer.
var Stdout io.Writer = os.Stdout

// JSONResult is the envelope written by --json commands.
type JSONResult struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Fix    string      `json:"fix,omitempty"`
}

// CycleJSON is the --json payload of build and watch.
type CycleJSON struct {
	SourceDir  string      `json:"sourceDir"`
	DestDir    string      `json:"destDir"`
	DryRun     bool        `json:"dryRun"`
	Count      int         `json:"count"`
	Bytes      int         `json:"bytes"`
	DurationMs int64       `json:"durationMs"`
	Files      []CycleFile `json:"files"`
}

// CycleFile is one rendered file, with dest relative to DestDir.
type CycleFile struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Bytes  int    `json:"bytes"`
}

// NewCycleJSON flattens a cycle report for JSON output.
func NewCycleJSON(report *template.CycleReport) CycleJSON {
	out := CycleJSON{
		SourceDir:  report.SourceDir,
		DestDir:    report.DestDir,
		DryRun:     report.DryRun,
		Count:      len(report.Files),
		DurationMs: report.Duration.Milliseconds(),
		Files:      make([]CycleFile, 0, len(report.Files)),
	}
	for _, f := range report.Files {
		dest := f.Dest
		if rel, err := filepath.Rel(report.DestDir, f.Dest); err == nil {
			dest = filepath.ToSlash(rel)
		}
		out.Bytes += f.Bytes
		out.Files = append(out.Files, CycleFile{Source: f.Source, Dest: dest, Bytes: f.Bytes})
	}
	return out
}

// JSON writes data in an "ok" envelope.
func JSON(data interface{}) {
	writeJSON(JSONResult{Status: "ok", Data: data})
}

// JSONError writes err in an "error" envelope, with the fix hint of a
// CLIError anywhere in its chain.
func JSONError(err error) {
	result := JSONResult{Status: "error", Error: err.Error()}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		result.Fix = cliErr.Fix
	}
	writeJSON(result)
}

func writeJSON(result JSONResult) {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "error encoding JSON output: %v\n", err)
	}
}
