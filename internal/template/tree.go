package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Tree is an opaque handle to an input tree. Only the TreeResolver handed to
// Writer.Write needs to understand it.
type Tree interface{}

// TreeResolver turns a tree handle into the directory holding its files.
type TreeResolver func(ctx context.Context, tree Tree) (string, error)

// DirTree is a tree that already exists as a directory on disk.
type DirTree string

// ResolveDirTree resolves DirTree and plain string handles to an absolute
// directory path.
func ResolveDirTree(ctx context.Context, tree Tree) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var dir string
	switch t := tree.(type) {
	case DirTree:
		dir = string(t)
	case string:
		dir = t
	default:
		return "", fmt.Errorf("cannot resolve tree of type %T", tree)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving tree %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("resolving tree %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("resolving tree %s: not a directory", dir)
	}
	return abs, nil
}
