package driver

import (
	"context"
	"errors"

	"shaderlint/internal/diag"
	"shaderlint/internal/glslang"
	"shaderlint/internal/shader"
	"shaderlint/internal/source"
)

// Options tunes a lint run.
type Options struct {
	MaxDiagnostics int
	// IgnoreWarnings drops warning findings from the result.
	IgnoreWarnings bool
	// WarningsAsErrors promotes warning findings to errors.
	WarningsAsErrors bool
}

// Result is the outcome of linting one file or one linked program.
type Result struct {
	// Path is the file the result belongs to; for a linked program it is
	// the first submitted path.
	Path   string
	Bag    *diag.Bag
	Cached bool
}

// Linter runs the classify -> load -> validate -> parse pipeline. The
// FileSet must be fully loaded before Lint methods run concurrently.
type Linter struct {
	fileSet *source.FileSet
	runner  *glslang.Runner
	cache   *DiskCache
	opts    Options
}

func NewLinter(fileSet *source.FileSet, runner *glslang.Runner, cache *DiskCache, opts Options) *Linter {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	return &Linter{
		fileSet: fileSet,
		runner:  runner,
		cache:   cache,
		opts:    opts,
	}
}

// FileSet returns the set backing this linter, for output formatting.
func (l *Linter) FileSet() *source.FileSet {
	return l.fileSet
}

// LintFile lints a single shader. Classification and load failures produce
// an error diagnostic and the validator is not invoked.
func (l *Linter) LintFile(ctx context.Context, path string) Result {
	bag := diag.NewBag(l.opts.MaxDiagnostics)
	res := Result{Path: path, Bag: bag}

	rec, ok := l.prepare(path, bag)
	if !ok {
		l.finish(bag)
		return res
	}

	file, _ := l.fileSet.GetByPath(path)
	key := cacheKey(file.Hash, l.runner.Path, l.runner.Args)
	if cached, hit := l.cache.Lookup(key, rec.Path); hit {
		for _, d := range cached {
			bag.Add(d)
		}
		res.Cached = true
		l.finish(bag)
		return res
	}

	raw, err := l.runner.Run(ctx, []shader.Record{rec})
	if err != nil {
		bag.Add(diag.NewError(diag.ValInvokeError, path, diag.Point(0, 0), err.Error()))
		l.finish(bag)
		return res
	}

	found := glslang.ParseOutput([]shader.Record{rec}, raw, diag.Point(0, 0))
	l.cache.Store(key, found)
	for _, d := range found {
		bag.Add(d)
	}
	l.finish(bag)
	return res
}

// LintProgram lints several stages of one program together, asking the
// validator to link them. Linked runs bypass the cache: link findings
// depend on the whole stage set, not a single file's content.
func (l *Linter) LintProgram(ctx context.Context, paths []string) Result {
	bag := diag.NewBag(l.opts.MaxDiagnostics)
	res := Result{Bag: bag}
	if len(paths) > 0 {
		res.Path = paths[0]
	}

	records := make([]shader.Record, 0, len(paths))
	for _, path := range paths {
		rec, ok := l.prepare(path, bag)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		l.finish(bag)
		return res
	}

	raw, err := l.runner.Run(ctx, records)
	if err != nil {
		bag.Add(diag.NewError(diag.ValInvokeError, res.Path, diag.Point(0, 0), err.Error()))
		l.finish(bag)
		return res
	}

	for _, d := range glslang.ParseOutput(records, raw, diag.Point(0, 0)) {
		bag.Add(d)
	}
	l.finish(bag)
	return res
}

// prepare classifies and loads one shader, reporting failures into the bag.
func (l *Linter) prepare(path string, bag *diag.Bag) (shader.Record, bool) {
	tokens, err := shader.Classify(path)
	if err != nil {
		code := diag.ClsUnrecognizedExtension
		if errors.Is(err, shader.ErrMissingFilePath) {
			code = diag.ClsMissingFilePath
		}
		bag.Add(diag.NewError(code, path, diag.Point(0, 0), err.Error()))
		return shader.Record{}, false
	}

	file, ok := l.fileSet.GetByPath(path)
	if !ok {
		id, err := l.fileSet.Load(path)
		if err != nil {
			bag.Add(diag.NewError(diag.IOLoadFileError, path, diag.Point(0, 0), "failed to load file: "+err.Error()))
			return shader.Record{}, false
		}
		file = l.fileSet.Get(id)
	}

	return tokens.Record(string(file.Content)), true
}

func (l *Linter) finish(bag *diag.Bag) {
	if l.opts.IgnoreWarnings {
		bag.Filter(func(d *diag.Diagnostic) bool {
			return d.Severity != diag.SevWarning
		})
	}
	if l.opts.WarningsAsErrors {
		bag.Transform(func(d *diag.Diagnostic) *diag.Diagnostic {
			if d.Severity != diag.SevWarning {
				return d
			}
			promoted := *d
			promoted.Severity = diag.SevError
			return &promoted
		})
	}
	bag.Sort()
	bag.Dedup()
}
