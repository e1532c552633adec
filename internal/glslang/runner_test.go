package glslang

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"shaderlint/internal/shader"
)

func TestLocateExplicitPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "glslangValidator")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(bin)
	if err != nil {
		t.Fatalf("Locate(%q): %v", bin, err)
	}
	if got != bin {
		t.Errorf("Locate = %q, want %q", got, bin)
	}
}

func TestLocateRejectsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	dir := t.TempDir()
	plain := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(plain, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Locate(plain)
	if !errors.Is(err, ErrValidatorNotFound) {
		t.Errorf("Locate(%q) error = %v, want ErrValidatorNotFound", plain, err)
	}
}

func TestLocateMissingPath(t *testing.T) {
	_, err := Locate(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrValidatorNotFound) {
		t.Errorf("error = %v, want ErrValidatorNotFound", err)
	}
}

func TestLocateMissingBareName(t *testing.T) {
	_, err := Locate("definitely-not-a-real-validator-binary")
	if !errors.Is(err, ErrValidatorNotFound) {
		t.Errorf("error = %v, want ErrValidatorNotFound", err)
	}
}

// The runner tolerates non-zero exit codes: the validator signals findings
// that way. A shell stand-in exits 1 after echoing a diagnostic.
func TestRunnerCapturesOutputDespiteExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses a shell script stand-in")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "fake-validator")
	script := "#!/bin/sh\necho \"ERROR: 1:2: fake finding\"\nexit 1\n"
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	tokens, err := shader.Classify("test.vert")
	if err != nil {
		t.Fatal(err)
	}
	rec := tokens.Record("void main() {}")

	r := &Runner{Path: fake}
	out, err := r.Run(context.Background(), []shader.Record{rec})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "ERROR: 1:2: fake finding\n" {
		t.Errorf("output = %q", out)
	}
}

// Same basename from two directories would stage to the same temp file;
// the runner must refuse instead of letting one shader shadow the other.
func TestRunnerRejectsCanonicalNameCollision(t *testing.T) {
	a, err := shader.Classify("a/shader.vert")
	if err != nil {
		t.Fatal(err)
	}
	b, err := shader.Classify("b/shader.vert")
	if err != nil {
		t.Fatal(err)
	}

	r := &Runner{Path: "/nonexistent"}
	_, err = r.Run(context.Background(), []shader.Record{
		a.Record("void main() {}"),
		b.Record("void main() {}"),
	})
	if err == nil {
		t.Fatal("expected an error for colliding canonical names")
	}
	if !strings.Contains(err.Error(), "collision") {
		t.Errorf("error = %v, want a canonical name collision", err)
	}
}

func TestRunnerNoShaders(t *testing.T) {
	r := &Runner{Path: "/nonexistent"}
	out, err := r.Run(context.Background(), nil)
	if err != nil || out != "" {
		t.Errorf("Run with no records = %q, %v; want empty, nil", out, err)
	}
}
