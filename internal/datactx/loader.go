// Package datactx computes per-file render contexts from a static map and an
// optional directory of YAML or JSON data files mirroring the source tree.
package datactx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// dataExtensions are tried in order; the first existing file wins.
var dataExtensions = []string{".yaml", ".yml", ".json"}

// Loader merges Static with the data file matching each template.
type Loader struct {
	Static map[string]interface{}
	Dir    string
}

// Context returns the render context for a template path relative to the
// source directory. Keys from the data file override static keys.
func (l Loader) Context(ctx context.Context, filename string) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(l.Static))
	for k, v := range l.Static {
		out[k] = v
	}
	if l.Dir == "" {
		return out, nil
	}

	path, ok := l.DataFile(filename)
	if !ok {
		return out, nil
	}
	data, err := readData(path)
	if err != nil {
		return nil, err
	}
	for k, v := range data {
		out[k] = v
	}
	return out, nil
}

// DataFile returns the data file for filename, if one exists.
func (l Loader) DataFile(filename string) (string, bool) {
	stem := filepath.FromSlash(strings.TrimSuffix(filename, filepath.Ext(filename)))
	for _, ext := range dataExtensions {
		p := filepath.Join(l.Dir, stem+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

func readData(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file %s: %w", path, err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing data file %s: %w", path, err)
	}
	if doc == nil {
		return map[string]interface{}{}, nil
	}
	m, ok := doc.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("data file %s: %w", path, ErrNotMapping)
	}
	return m, nil
}

// ErrNotMapping is returned for data files whose top level is not a mapping.
var ErrNotMapping = errors.New("top level must be a mapping")
