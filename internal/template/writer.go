package template

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"
)

var (
	partialExtensions = []string{".hbs", ".handlebars"}
	helperExtension   = ".js"
)

// FileResult describes one rendered file.
type FileResult struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Bytes  int    `json:"bytes"`
}

// CycleReport summarizes a completed write cycle.
type CycleReport struct {
	SourceDir string        `json:"sourceDir"`
	DestDir   string        `json:"destDir"`
	Files     []FileResult  `json:"files"`
	Duration  time.Duration `json:"duration"`
	DryRun    bool          `json:"dryRun,omitempty"`
}

// Writer renders the files of an input tree that match a set of patterns
// into a destination directory.
type Writer struct {
	tree     Tree
	files    []string
	context  ContextSource
	destFile DestFileFunc
	engine   Engine
	partials PartialSource
	helpers  HelperSource

	leadingSeparator bool
	concurrency      int
	dryRun           bool
	logger           *log.Logger

	// Entries present on the engine before the first load, and the names
	// the previous load registered.
	baseHelpers    map[string]interface{}
	basePartials   map[string]string
	loadedHelpers  map[string]bool
	loadedPartials map[string]bool
}

// New returns a Writer for tree and loads its partials and helpers.
func New(tree Tree, files []string, opts Options) (*Writer, error) {
	if len(files) == 0 {
		return nil, configErrorf("files", "must contain at least one pattern")
	}

	w := &Writer{
		tree:             tree,
		files:            append([]string(nil), files...),
		context:          opts.Context,
		destFile:         opts.DestFile,
		engine:           opts.Engine,
		partials:         opts.Partials,
		helpers:          opts.Helpers,
		leadingSeparator: opts.PreserveLeadingSeparator,
		concurrency:      opts.Concurrency,
		dryRun:           opts.DryRun,
		logger:           opts.Logger,
	}
	if w.destFile == nil {
		w.destFile = DefaultDestFile
	}
	if w.engine == nil {
		w.engine = NewHandlebars()
	}
	if w.concurrency <= 0 {
		w.concurrency = runtime.NumCPU()
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	if reg, ok := w.engine.(Registry); ok {
		w.baseHelpers = reg.HelperFuncs()
		w.basePartials = reg.PartialSources()
	}

	if err := w.LoadPartials(); err != nil {
		return nil, err
	}
	if err := w.LoadHelpers(); err != nil {
		return nil, err
	}
	return w, nil
}

// NewFromMap is New with loosely typed options; see ParseOptions.
func NewFromMap(tree Tree, files []string, raw map[string]interface{}) (*Writer, error) {
	opts, err := ParseOptions(raw)
	if err != nil {
		return nil, err
	}
	return New(tree, files, opts)
}

// Engine returns the engine the writer renders with.
func (w *Writer) Engine() Engine { return w.engine }

// LoadPartials registers every .hbs and .handlebars file below the partials
// directory. Nothing happens when no partials directory is configured.
// Partials registered by a previous load whose file is gone are dropped.
func (w *Writer) LoadPartials() error {
	current := map[string]bool{}
	if !w.partials.IsZero() {
		dir, err := resolveDir(w.partials.Dir())
		if err != nil {
			return fmt.Errorf("resolving partials directory: %w", err)
		}
		files, err := listFiles(dir, partialExtensions...)
		if err != nil {
			return fmt.Errorf("listing partials in %s: %w", dir, err)
		}

		for _, rel := range files {
			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("reading partial %s: %w", rel, err)
			}
			name := registryName(rel, filepath.Ext(rel), w.leadingSeparator)
			w.engine.RegisterPartial(name, string(data))
			current[name] = true
			w.logger.Debug("registered partial", "name", name)
		}
	}

	reg, ok := w.engine.(Registry)
	for name := range w.loadedPartials {
		if current[name] || !ok {
			continue
		}
		if src, base := w.basePartials[name]; base {
			w.engine.RegisterPartial(name, src)
		} else {
			reg.UnregisterPartial(name)
		}
		w.logger.Debug("dropped partial", "name", name)
	}
	w.loadedPartials = current
	return nil
}

// LoadHelpers registers helpers from the configured source. Nothing happens
// when no helper source is configured. Helpers registered by a previous load
// that the source no longer provides are dropped.
func (w *Writer) LoadHelpers() error {
	current := map[string]bool{}
	if err := w.loadHelpers(current); err != nil {
		return err
	}

	reg, ok := w.engine.(Registry)
	for name := range w.loadedHelpers {
		if current[name] || !ok {
			continue
		}
		if fn, base := w.baseHelpers[name]; base {
			if err := w.engine.RegisterHelper(name, fn); err != nil {
				return fmt.Errorf("restoring helper: %w", err)
			}
		} else {
			reg.UnregisterHelper(name)
		}
		w.logger.Debug("dropped helper", "name", name)
	}
	w.loadedHelpers = current
	return nil
}

func (w *Writer) loadHelpers(current map[string]bool) error {
	switch w.helpers.kind {
	case helpersNone:
		return nil
	case helpersMap:
		return w.registerHelpers(w.helpers.funcs, current)
	case helpersFactory:
		funcs, err := w.helpers.factory()
		if err != nil {
			return fmt.Errorf("building helpers: %w", err)
		}
		return w.registerHelpers(funcs, current)
	case helpersDir:
		return w.loadHelperDir(w.helpers.dir, current)
	default:
		return configErrorf("helpers", "has unknown source kind %d", w.helpers.kind)
	}
}

func (w *Writer) loadHelperDir(dir string, current map[string]bool) error {
	abs, err := resolveDir(dir)
	if err != nil {
		return fmt.Errorf("resolving helpers directory: %w", err)
	}
	files, err := listFiles(abs, helperExtension)
	if err != nil {
		return fmt.Errorf("listing helpers in %s: %w", abs, err)
	}

	for _, rel := range files {
		mod, err := compileScript(filepath.Join(abs, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		funcs, err := mod.helpers(registryName(rel, helperExtension, w.leadingSeparator))
		if err != nil {
			return err
		}
		if len(funcs) == 0 {
			w.logger.Debug("helper file exports no functions", "file", rel)
			continue
		}
		if err := w.registerHelpers(funcs, current); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) registerHelpers(funcs map[string]interface{}, current map[string]bool) error {
	for _, name := range sortedKeys(funcs) {
		if err := w.engine.RegisterHelper(name, funcs[name]); err != nil {
			return fmt.Errorf("registering helper: %w", err)
		}
		current[name] = true
		w.logger.Debug("registered helper", "name", name)
	}
	return nil
}

// Write runs one write cycle: it reloads partials and helpers, resolves the
// input tree, and renders every matching file into destDir. The first
// failing file fails the cycle; files already written stay in place.
func (w *Writer) Write(ctx context.Context, resolve TreeResolver, destDir string) (*CycleReport, error) {
	start := time.Now()

	if err := w.LoadPartials(); err != nil {
		return nil, err
	}
	if err := w.LoadHelpers(); err != nil {
		return nil, err
	}

	sourceDir, err := resolve(ctx, w.tree)
	if err != nil {
		return nil, fmt.Errorf("resolving input tree: %w", err)
	}

	matched, err := Match(w.files, sourceDir)
	if err != nil {
		return nil, err
	}
	w.logger.Debug("matched files", "source", sourceDir, "count", len(matched))

	results := make([]FileResult, len(matched))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, file := range matched {
		i, file := i, file
		g.Go(func() (err error) {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("rendering %s: panic: %v", file, r)
				}
			}()
			res, err := w.renderFile(gctx, sourceDir, destDir, file)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", file, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CycleReport{
		SourceDir: sourceDir,
		DestDir:   destDir,
		Files:     results,
		Duration:  time.Since(start),
		DryRun:    w.dryRun,
	}, nil
}

func (w *Writer) renderFile(ctx context.Context, sourceDir, destDir, file string) (FileResult, error) {
	data, err := w.context.Resolve(ctx, file)
	if err != nil {
		return FileResult{}, fmt.Errorf("computing context: %w", err)
	}

	src, err := os.ReadFile(filepath.Join(sourceDir, filepath.FromSlash(file)))
	if err != nil {
		return FileResult{}, err
	}
	tpl, err := w.engine.Compile(string(src))
	if err != nil {
		return FileResult{}, fmt.Errorf("compiling: %w", err)
	}
	out, err := tpl.Render(data)
	if err != nil {
		return FileResult{}, err
	}

	dest := filepath.Join(destDir, filepath.FromSlash(w.destFile(file)))
	res := FileResult{Source: file, Dest: dest, Bytes: len(out)}
	if w.dryRun {
		w.logger.Debug("rendered (dry run)", "file", file, "dest", dest)
		return res, nil
	}

	if err := writeFile(dest, out); err != nil {
		return FileResult{}, err
	}
	w.logger.Debug("rendered", "file", file, "dest", dest, "bytes", len(out))
	return res, nil
}

// writeFile replaces dest with content, creating parent directories.
func writeFile(dest, content string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", dest, err)
	}

	_, statErr := os.Stat(dest)
	if err := atomic.WriteFile(dest, strings.NewReader(content)); err != nil {
		return fmt.Errorf("writing file %s: %w", dest, err)
	}
	if os.IsNotExist(statErr) {
		if err := os.Chmod(dest, 0o644); err != nil {
			return fmt.Errorf("setting mode on %s: %w", dest, err)
		}
	}
	return nil
}
