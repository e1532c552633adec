package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"shaderlint/internal/diag"
	"shaderlint/internal/shader"
)

// Progress is invoked once per finished file during a directory lint. It is
// called from worker goroutines and must be safe for concurrent use.
type Progress func(Result)

// ListShaderFiles returns a sorted list of every file under dir whose name
// matches a shader naming convention. Unrecognized files are skipped, not
// diagnosed: a source tree legitimately holds more than shaders.
func ListShaderFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, classifyErr := shader.Classify(path); classifyErr == nil {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// LintDir lints every recognized shader under dir, each file independently,
// spread over jobs workers. Results come back in file order regardless of
// completion order.
func (l *Linter) LintDir(ctx context.Context, dir string, jobs int, progress Progress) ([]Result, error) {
	files, err := ListShaderFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	// Preload everything up front: the FileSet is not safe for concurrent
	// mutation, and workers only read from it.
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		if _, err := l.fileSet.Load(path); err != nil {
			loadErrors[path] = err
		}
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each worker writes only its own index, no mutex needed.
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, hadError := loadErrors[path]; hadError {
				bag := diag.NewBag(l.opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, path, diag.Point(0, 0), "failed to load file: "+loadErr.Error()))
				results[i] = Result{Path: path, Bag: bag}
			} else {
				results[i] = l.LintFile(gctx, path)
			}

			if progress != nil {
				progress(results[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// MergeResults folds per-file bags into one sorted bag for output.
func MergeResults(results []Result) *diag.Bag {
	total := 0
	for _, res := range results {
		total += res.Bag.Len()
	}
	merged := diag.NewBag(max(total, 1))
	for _, res := range results {
		merged.Merge(res.Bag)
	}
	merged.Sort()
	return merged
}
