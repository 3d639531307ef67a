// Package audit records one JSON line per hbstree invocation in
// ~/.hbstree/audit.log and reads them back for the history command.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Event struct {
	Timestamp     string            `json:"timestamp"`
	Operation     string            `json:"operation"`
	Args          []string          `json:"args"`
	Result        string            `json:"result"`
	ExitCode      int               `json:"exitCode"`
	DurationMs    int64             `json:"durationMs"`
	CorrelationID string            `json:"correlationId"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func BuildEvent(args []string, result string, exitCode int, duration time.Duration) Event {
	op, root, configFile := inferFromArgs(args)
	meta := map[string]string{}
	if root != "" {
		meta["root"] = root
	}
	if configFile != "" {
		meta["config"] = configFile
	}
	if len(meta) == 0 {
		meta = nil
	}
	return Event{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Operation:     op,
		Args:          args,
		Result:        result,
		ExitCode:      exitCode,
		DurationMs:    duration.Milliseconds(),
		CorrelationID: fmt.Sprintf("%d", time.Now().UTC().UnixNano()),
		Metadata:      meta,
	}
}

func Write(event Event) error {
	path, err := userAuditPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	line, err := json.Marshal(event)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(line, '\n'))
	return err
}

// ReadUserAudit returns every event in the audit log, oldest first. Lines
// that do not decode are skipped.
func ReadUserAudit() ([]Event, error) {
	path, err := userAuditPath()
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var out []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(line), &event); err == nil {
			out = append(out, event)
		}
	}
	return out, scanner.Err()
}

func (e Event) MetadataValue(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}

func userAuditPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".hbstree", "audit.log"), nil
}

func inferFromArgs(args []string) (operation, root, configFile string) {
	operation = "root"
	for i := 1; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			if takesValue(args[i]) {
				i++
			}
			continue
		}
		operation = args[i]
		break
	}
	for i := 0; i < len(args); i++ {
		if i+1 < len(args) {
			switch args[i] {
			case "--root":
				root = args[i+1]
			case "--config":
				configFile = args[i+1]
			}
		}
		if v, ok := strings.CutPrefix(args[i], "--root="); ok {
			root = v
		}
		if v, ok := strings.CutPrefix(args[i], "--config="); ok {
			configFile = v
		}
	}
	if root == "" {
		root = "."
	}
	return
}

func takesValue(flag string) bool {
	return flag == "--root" || flag == "--config"
}
