package template

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match expands patterns against cwd and returns the matching files as
// slash-separated paths relative to cwd. Matches are sorted per pattern and
// concatenated in pattern order without duplicates. A pattern that matches
// no file is an error.
func Match(patterns []string, cwd string) ([]string, error) {
	fsys := os.DirFS(cwd)
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			return nil, fmt.Errorf("empty file pattern")
		}
		if path.IsAbs(pattern) || filepath.IsAbs(pattern) {
			return nil, fmt.Errorf("pattern %q must be relative to the source directory", pattern)
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid file pattern %q", pattern)
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching %q in %s: %w", pattern, cwd, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("path or pattern %q did not match any files", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

// listFiles returns the files below dir whose names end with one of exts,
// relative to dir and sorted.
func listFiles(dir string, exts ...string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var out []string
	err = doublestar.GlobWalk(os.DirFS(dir), "**/*", func(p string, d os.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		for _, ext := range exts {
			if strings.HasSuffix(p, ext) {
				out = append(out, p)
				break
			}
		}
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// registryName derives a helper or partial name from a file path relative to
// its registry directory.
func registryName(rel, ext string, leadingSeparator bool) string {
	name := strings.TrimSuffix(filepath.ToSlash(rel), ext)
	name = strings.TrimPrefix(name, "/")
	if leadingSeparator {
		return "/" + name
	}
	return name
}

// resolveDir makes dir absolute against the process working directory.
func resolveDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, dir), nil
}
