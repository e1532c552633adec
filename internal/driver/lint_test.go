package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"
	"testing"

	"shaderlint/internal/diag"
	"shaderlint/internal/glslang"
	"shaderlint/internal/source"
)

// fakeValidator writes a shell stand-in that prints the given output and
// exits with the given code.
func fakeValidator(t *testing.T, output string, exitCode int) *glslang.Runner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test uses a shell script stand-in")
	}

	bin := filepath.Join(t.TempDir(), "fake-validator")
	script := "#!/bin/sh\n"
	if output != "" {
		script += "cat <<'EOF'\n" + output + "\nEOF\n"
	}
	script += "exit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return &glslang.Runner{Path: bin}
}

func writeShader(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLintFileReportsCompileFinding(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "a.vert", "void main() { float y = x; }\n")
	runner := fakeValidator(t, "ERROR: 0:1: 'x' : undeclared identifier", 1)

	l := NewLinter(source.NewFileSet(), runner, nil, Options{})
	res := l.LintFile(context.Background(), path)

	if res.Cached {
		t.Error("first run reported as cached")
	}
	items := res.Bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(items))
	}
	d := items[0]
	if d.Code != diag.ValCompile || d.Severity != diag.SevError {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.File != path {
		t.Errorf("File = %q, want %q", d.File, path)
	}
	// Output is column:line, both 1-based and clamped.
	if d.Range.Start != (diag.Position{Line: 0, Col: 0}) {
		t.Errorf("Range.Start = %+v", d.Range.Start)
	}
}

// glslangValidator frequently reports several different errors for the
// same line, all at column 0. Deduplication must not collapse them.
func TestLintFileKeepsDistinctFindingsAtSamePosition(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "a.vert", "int x = y;\n")
	output := "ERROR: 0:1: 'y' : undeclared identifier\nERROR: 0:1: '=' : cannot convert from 'float' to 'int'"
	runner := fakeValidator(t, output, 1)

	l := NewLinter(source.NewFileSet(), runner, nil, Options{})
	res := l.LintFile(context.Background(), path)

	items := res.Bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(items), items)
	}
	if items[0].Message == items[1].Message {
		t.Errorf("messages collapsed: %q", items[0].Message)
	}
}

func TestLintFileUnrecognizedExtension(t *testing.T) {
	runner := &glslang.Runner{Path: "/nonexistent"}
	l := NewLinter(source.NewFileSet(), runner, nil, Options{})

	res := l.LintFile(context.Background(), "readme.txt")

	items := res.Bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(items))
	}
	// The validator must not run: a ValInvokeError here would mean it did.
	if items[0].Code != diag.ClsUnrecognizedExtension {
		t.Errorf("code = %v, want ClsUnrecognizedExtension", items[0].Code)
	}
	if items[0].Severity != diag.SevError {
		t.Errorf("severity = %v, want error", items[0].Severity)
	}
}

func TestLintFileMissingFile(t *testing.T) {
	runner := &glslang.Runner{Path: "/nonexistent"}
	l := NewLinter(source.NewFileSet(), runner, nil, Options{})

	res := l.LintFile(context.Background(), filepath.Join(t.TempDir(), "ghost.vert"))

	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOLoadFileError {
		t.Fatalf("diagnostics = %+v, want one IOLoadFileError", items)
	}
}

func TestLintFileInvokeError(t *testing.T) {
	dir := t.TempDir()
	path := writeShader(t, dir, "a.vert", "void main() {}\n")
	runner := &glslang.Runner{Path: filepath.Join(dir, "no-such-binary")}

	l := NewLinter(source.NewFileSet(), runner, nil, Options{})
	res := l.LintFile(context.Background(), path)

	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.ValInvokeError {
		t.Fatalf("diagnostics = %+v, want one ValInvokeError", items)
	}
}

func TestLintFileWarningHandling(t *testing.T) {
	output := "WARNING: 2:1: extension is being used"

	t.Run("ignore warnings", func(t *testing.T) {
		dir := t.TempDir()
		path := writeShader(t, dir, "a.vert", "void main() {}\n")
		l := NewLinter(source.NewFileSet(), fakeValidator(t, output, 0), nil, Options{IgnoreWarnings: true})

		res := l.LintFile(context.Background(), path)
		if res.Bag.Len() != 0 {
			t.Errorf("diagnostics = %+v, want none", res.Bag.Items())
		}
	})

	t.Run("warnings as errors", func(t *testing.T) {
		dir := t.TempDir()
		path := writeShader(t, dir, "a.vert", "void main() {}\n")
		l := NewLinter(source.NewFileSet(), fakeValidator(t, output, 0), nil, Options{WarningsAsErrors: true})

		res := l.LintFile(context.Background(), path)
		items := res.Bag.Items()
		if len(items) != 1 || items[0].Severity != diag.SevError {
			t.Fatalf("diagnostics = %+v, want one promoted error", items)
		}
		if !res.Bag.HasErrors() {
			t.Error("bag reports no errors after promotion")
		}
	})
}

func TestLintFileCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := writeShader(t, dir, "a.vert", "void main() { float y = x; }\n")
	runner := fakeValidator(t, "ERROR: 0:1: 'x' : undeclared identifier", 1)

	l := NewLinter(source.NewFileSet(), runner, cache, Options{})

	first := l.LintFile(context.Background(), path)
	if first.Cached {
		t.Fatal("first run hit the cache")
	}

	second := l.LintFile(context.Background(), path)
	if !second.Cached {
		t.Fatal("second run missed the cache")
	}
	if len(second.Bag.Items()) != len(first.Bag.Items()) {
		t.Fatalf("cached run: %d diagnostics, fresh run: %d", second.Bag.Len(), first.Bag.Len())
	}
	got, want := second.Bag.Items()[0], first.Bag.Items()[0]
	if *got != *want {
		t.Errorf("cached diagnostic = %+v, want %+v", got, want)
	}
}

func TestCacheKeyChangesWithValidatorIdentity(t *testing.T) {
	var hash source.Digest
	hash[0] = 1

	base := cacheKey(hash, "/usr/bin/glslangValidator", nil)
	if cacheKey(hash, "/opt/glslangValidator", nil) == base {
		t.Error("key ignores validator path")
	}
	if cacheKey(hash, "/usr/bin/glslangValidator", []string{"--target-env", "vulkan1.2"}) == base {
		t.Error("key ignores validator args")
	}
	var other source.Digest
	other[0] = 2
	if cacheKey(other, "/usr/bin/glslangValidator", nil) == base {
		t.Error("key ignores content hash")
	}
}

func TestDiskCacheReattachesPath(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	var key source.Digest
	key[0] = 7
	cache.Store(key, []*diag.Diagnostic{
		diag.NewError(diag.ValCompile, "old/location.vert", diag.Point(3, 1), "boom"),
	})

	got, hit := cache.Lookup(key, "new/location.vert")
	if !hit || len(got) != 1 {
		t.Fatalf("Lookup = %v, %v", got, hit)
	}
	if got[0].File != "new/location.vert" {
		t.Errorf("File = %q, want the reattached path", got[0].File)
	}
	if got[0].Message != "boom" || got[0].Range != diag.Point(3, 1) {
		t.Errorf("diagnostic = %+v", got[0])
	}

	var miss source.Digest
	miss[0] = 8
	if _, hit := cache.Lookup(miss, "x"); hit {
		t.Error("unknown key reported as hit")
	}
}

func TestNilCacheIsANoop(t *testing.T) {
	var c *DiskCache
	c.Store(source.Digest{}, nil)
	if _, hit := c.Lookup(source.Digest{}, "x"); hit {
		t.Error("nil cache reported a hit")
	}
}

func TestLintDir(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "a.vert", "void main() {}\n")
	writeShader(t, dir, "b.frag", "void main() {}\n")
	writeShader(t, dir, "readme.txt", "not a shader\n")
	runner := fakeValidator(t, "", 0)

	l := NewLinter(source.NewFileSetWithBase(dir), runner, nil, Options{})

	var progressed atomic.Int32
	results, err := l.LintDir(context.Background(), dir, 2, func(Result) {
		progressed.Add(1)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	// File order, not completion order.
	if filepath.Base(results[0].Path) != "a.vert" || filepath.Base(results[1].Path) != "b.frag" {
		t.Errorf("result order: %q, %q", results[0].Path, results[1].Path)
	}
	if progressed.Load() != 2 {
		t.Errorf("progress called %d times, want 2", progressed.Load())
	}
}

func TestLintDirEmpty(t *testing.T) {
	l := NewLinter(source.NewFileSet(), &glslang.Runner{Path: "/nonexistent"}, nil, Options{})
	results, err := l.LintDir(context.Background(), t.TempDir(), 0, nil)
	if err != nil || results != nil {
		t.Errorf("LintDir on empty dir = %v, %v", results, err)
	}
}

func TestMergeResults(t *testing.T) {
	a := diag.NewBag(4)
	a.Add(diag.NewError(diag.ValCompile, "b.frag", diag.Point(0, 0), "late file"))
	b := diag.NewBag(4)
	b.Add(diag.NewError(diag.ValCompile, "a.vert", diag.Point(0, 0), "early file"))

	merged := MergeResults([]Result{{Path: "b.frag", Bag: a}, {Path: "a.vert", Bag: b}})
	if merged.Len() != 2 {
		t.Fatalf("merged %d diagnostics, want 2", merged.Len())
	}
	if merged.Items()[0].File != "a.vert" {
		t.Errorf("merged output not sorted by file: %+v", merged.Items()[0])
	}
}
