package glslang

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"shaderlint/internal/shader"
)

// DefaultCommand is the validator binary looked up when no explicit path or
// name is configured.
const DefaultCommand = "glslangValidator"

// ErrValidatorNotFound indicates that the configured validator command could
// not be resolved to an executable.
var ErrValidatorNotFound = errors.New("validator executable not found")

// Locate resolves the configured validator command to an executable path.
// A command containing a path separator is checked directly; a bare name is
// resolved through PATH.
func Locate(command string) (string, error) {
	if command == "" {
		command = DefaultCommand
	}
	if strings.ContainsRune(command, os.PathSeparator) || strings.ContainsRune(command, '/') {
		info, err := os.Stat(command)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w: %q", ErrValidatorNotFound, command)
		}
		if info.Mode().Perm()&0o111 == 0 {
			return "", fmt.Errorf("%w: %q is not executable", ErrValidatorNotFound, command)
		}
		return command, nil
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrValidatorNotFound, command)
	}
	return path, nil
}

// Runner invokes the validator over staged shader files.
type Runner struct {
	// Path is the resolved executable path (see Locate).
	Path string
	// Args are extra arguments inserted before the staged file names.
	Args []string
}

// Run stages the records into a temporary directory under their canonical
// names and invokes the validator once over all of them, returning the
// combined stdout/stderr text. A non-zero exit with output is not a runner
// failure: the validator uses its exit code to signal that findings are
// present.
func (r *Runner) Run(ctx context.Context, shaders []shader.Record) (string, error) {
	if len(shaders) == 0 {
		return "", nil
	}

	// Records stage into one flat directory, so equal canonical names
	// (same basename from different directories) would silently overwrite
	// each other.
	seen := make(map[string]string, len(shaders))
	for _, rec := range shaders {
		if prev, dup := seen[rec.CanonicalName]; dup {
			return "", fmt.Errorf("canonical name collision: %q and %q both stage as %s", prev, rec.Path, rec.CanonicalName)
		}
		seen[rec.CanonicalName] = rec.Path
	}

	dir, err := os.MkdirTemp("", "shaderlint-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	args := make([]string, 0, len(r.Args)+len(shaders)+1)
	args = append(args, r.Args...)
	if len(shaders) > 1 {
		// Multiple stages form one program; ask the validator to link them
		// so link-stage findings are reported.
		args = append(args, "-l")
	}
	for _, rec := range shaders {
		staged := filepath.Join(dir, rec.CanonicalName)
		if err := os.WriteFile(staged, []byte(rec.Source), 0o600); err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", rec.CanonicalName, err)
		}
		// The validator runs with Dir set to the staging dir and gets bare
		// canonical names, so its echoed section headers match the records.
		args = append(args, rec.CanonicalName)
	}

	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Dir = dir
	var buf strings.Builder
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err = cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", fmt.Errorf("failed to invoke validator: %w", err)
	}
	return buf.String(), nil
}
