package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjourdan1/hbstree/internal/template"
)

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "1023 B", FormatBytes(1023))
	assert.Equal(t, "1.0 KiB", FormatBytes(1024))
	assert.Equal(t, "1.5 MiB", FormatBytes(1536*1024))
}

func TestPrintCycle(t *testing.T) {
	Init(false, false)
	report := &template.CycleReport{
		SourceDir: "/site/src",
		DestDir:   "/site/dist",
		Files: []template.FileResult{
			{Source: "index.hbs", Dest: "/site/dist/index.html", Bytes: 12},
			{Source: "docs/a.hbs", Dest: "/site/dist/docs/a.html", Bytes: 30},
		},
		Duration: 15 * time.Millisecond,
		DryRun:   true,
	}

	var buf bytes.Buffer
	PrintCycle(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "Rendered (dry run) 2 file(s) into /site/dist")
	assert.Contains(t, out, "index.hbs")
	assert.Contains(t, out, "docs/a.html")
	assert.Contains(t, out, "42 B in 15ms")
}

func TestPrintCycle_Nil(t *testing.T) {
	var buf bytes.Buffer
	PrintCycle(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestPrintCycle_JSON(t *testing.T) {
	buf := captureJSON(t)
	Init(false, true)
	defer Init(false, false)

	PrintCycle(new(bytes.Buffer), &template.CycleReport{
		SourceDir: "/site/src",
		DestDir:   "/site/dist",
		Files: []template.FileResult{
			{Source: "index.hbs", Dest: "/site/dist/index.html", Bytes: 12},
			{Source: "docs/a.hbs", Dest: "/site/dist/docs/a.html", Bytes: 30},
		},
		Duration: 15 * time.Millisecond,
	})

	var got struct {
		Status string    `json:"status"`
		Data   CycleJSON `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, 2, got.Data.Count)
	assert.Equal(t, 42, got.Data.Bytes)
	assert.Equal(t, int64(15), got.Data.DurationMs)
	assert.Equal(t, "docs/a.html", got.Data.Files[1].Dest)
}
