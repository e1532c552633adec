package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"shaderlint/internal/glslang"
)

// ManifestName is the per-project configuration file looked up from the
// lint start directory upward.
const ManifestName = "shaderlint.toml"

// ValidatorConfig selects and parameterizes the external validator.
type ValidatorConfig struct {
	// Command is a bare name resolved through PATH or an explicit path.
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// LintConfig tunes how lint runs behave.
type LintConfig struct {
	Jobs           int `toml:"jobs"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type Config struct {
	Validator ValidatorConfig `toml:"validator"`
	Lint      LintConfig      `toml:"lint"`
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Validator: ValidatorConfig{Command: glslang.DefaultCommand},
		Lint:      LintConfig{MaxDiagnostics: 100},
	}
}

// Load parses a shaderlint.toml, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("validator", "command") || cfg.Validator.Command == "" {
		cfg.Validator.Command = glslang.DefaultCommand
	}
	if !meta.IsDefined("lint", "max_diagnostics") || cfg.Lint.MaxDiagnostics <= 0 {
		cfg.Lint.MaxDiagnostics = 100
	}
	return cfg, nil
}

// Find walks up from startDir looking for a shaderlint.toml.
func Find(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		info, statErr := os.Stat(candidate)
		if statErr == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
			return "", false, statErr
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover loads the nearest manifest above startDir, or Default when none
// exists.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
