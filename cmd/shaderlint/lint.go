package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shaderlint/internal/config"
	"shaderlint/internal/diag"
	"shaderlint/internal/diagfmt"
	"shaderlint/internal/driver"
	"shaderlint/internal/glslang"
	"shaderlint/internal/source"
	"shaderlint/internal/version"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <shader|directory>...",
	Short: "Validate shaders and report findings",
	Long:  `Validate one or more shader files, or every recognized shader under a directory, through the configured GLSL validator`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	lintCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	lintCmd.Flags().Bool("link", false, "link the given files as one program (file arguments only)")
	lintCmd.Flags().Bool("no-cache", false, "disable the persistent result cache")
	lintCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	lintCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	lintCmd.Flags().Bool("show-source", false, "print the offending source line under each finding")
	lintCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	lintCmd.Flags().Bool("ui", false, "show interactive progress for directory processing")
	lintCmd.Flags().String("validator", "", "validator command or path (overrides shaderlint.toml)")
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	link, err := cmd.Flags().GetBool("link")
	if err != nil {
		return fmt.Errorf("failed to get link flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	showSource, err := cmd.Flags().GetBool("show-source")
	if err != nil {
		return fmt.Errorf("failed to get show-source flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	useUI, err := cmd.Flags().GetBool("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	validatorFlag, err := cmd.Flags().GetString("validator")
	if err != nil {
		return fmt.Errorf("failed to get validator flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if err := applyColorFlag(cmd); err != nil {
		return err
	}

	switch format {
	case "pretty", "json", "sarif", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	startDir := args[0]
	if st, statErr := os.Stat(startDir); statErr != nil || !st.IsDir() {
		startDir = filepath.Dir(startDir)
	}
	fileSet := source.NewFileSetWithBase(startDir)

	cfg, err := config.Discover(startDir)
	if err != nil {
		bag := diag.NewBag(1)
		bag.Add(diag.NewError(diag.CfgParseError, "", diag.Point(0, 0), err.Error()))
		if renderErr := renderBag(cmd, bag, fileSet, format, fullPath, showSource, maxDiagnostics); renderErr != nil {
			return renderErr
		}
		return silentExit(cmd)
	}
	if validatorFlag != "" {
		cfg.Validator.Command = validatorFlag
	}
	if jobs == 0 {
		jobs = cfg.Lint.Jobs
	}
	maxDiagnostics = resolveMaxDiagnostics(maxDiagnostics,
		cmd.Root().PersistentFlags().Changed("max-diagnostics"), cfg.Lint.MaxDiagnostics)

	validatorPath, err := glslang.Locate(cfg.Validator.Command)
	if err != nil {
		// Resolution failure is itself a diagnostic so CI consumers see it
		// in the format they asked for.
		bag := diag.NewBag(1)
		bag.Add(diag.NewError(diag.ValNotFound, "", diag.Point(0, 0), err.Error()))
		if renderErr := renderBag(cmd, bag, fileSet, format, fullPath, showSource, maxDiagnostics); renderErr != nil {
			return renderErr
		}
		return silentExit(cmd)
	}
	runner := &glslang.Runner{Path: validatorPath, Args: cfg.Validator.Args}

	var cache *driver.DiskCache
	if !noCache {
		// A cache that cannot be opened is skipped, never fatal.
		cache, _ = driver.OpenDiskCache("shaderlint")
	}

	linter := driver.NewLinter(fileSet, runner, cache, driver.Options{
		MaxDiagnostics:   maxDiagnostics,
		IgnoreWarnings:   noWarnings,
		WarningsAsErrors: warningsAsErrors,
	})

	results, err := collectResults(cmd, linter, args, link, jobs, useUI)
	if err != nil {
		return err
	}

	merged := driver.MergeResults(results)
	if err := renderBag(cmd, merged, fileSet, format, fullPath, showSource, maxDiagnostics); err != nil {
		return err
	}

	if !quiet && format == "pretty" {
		printSummary(cmd, results, merged)
	}

	if merged.HasErrors() {
		return silentExit(cmd)
	}
	return nil
}

func collectResults(cmd *cobra.Command, linter *driver.Linter, args []string, link bool, jobs int, useUI bool) ([]driver.Result, error) {
	ctx := cmd.Context()

	var files []string
	var dirs []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err == nil && st.IsDir() {
			dirs = append(dirs, arg)
			continue
		}
		// Missing files fall through: the driver reports them as I/O
		// diagnostics instead of aborting the whole run.
		files = append(files, arg)
	}
	if link && len(dirs) > 0 {
		return nil, fmt.Errorf("--link expects shader files, not directories")
	}

	var results []driver.Result
	if link {
		results = append(results, linter.LintProgram(ctx, files))
	} else {
		for _, path := range files {
			results = append(results, linter.LintFile(ctx, path))
		}
	}

	for _, dir := range dirs {
		var dirResults []driver.Result
		var err error
		if useUI && isTerminal(os.Stdout) {
			dirResults, err = runLintDirWithUI(ctx, linter, dir, jobs)
		} else {
			dirResults, err = linter.LintDir(ctx, dir, jobs, nil)
		}
		if err != nil {
			return nil, err
		}
		results = append(results, dirResults...)
	}
	return results, nil
}

func renderBag(cmd *cobra.Command, bag *diag.Bag, fileSet *source.FileSet, format string, fullPath, showSource bool, maxDiagnostics int) error {
	out := cmd.OutOrStdout()

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(out, bag, fileSet, diagfmt.PrettyOpts{
			Color:      !color.NoColor,
			PathMode:   pathMode,
			ShowSource: showSource,
		})
		return nil
	case "json":
		return diagfmt.JSON(out, bag, fileSet, diagfmt.JSONOpts{PathMode: pathMode, Max: maxDiagnostics})
	case "sarif":
		return diagfmt.Sarif(out, bag, fileSet, diagfmt.SarifRunMeta{
			ToolName:       "shaderlint",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args,
		})
	case "short":
		if s := diag.FormatShortDiagnostics(bag.Items()); s != "" {
			_, err := fmt.Fprintln(out, s)
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func printSummary(cmd *cobra.Command, results []driver.Result, merged *diag.Bag) {
	errors, warnings := 0, 0
	for _, d := range merged.Items() {
		switch d.Severity {
		case diag.SevError:
			errors++
		case diag.SevWarning:
			warnings++
		}
	}
	cached := 0
	for _, res := range results {
		if res.Cached {
			cached++
		}
	}

	out := cmd.OutOrStdout()
	if cached > 0 {
		fmt.Fprintf(out, "%d shader(s), %d error(s), %d warning(s), %d cached\n", len(results), errors, warnings, cached)
		return
	}
	fmt.Fprintf(out, "%d shader(s), %d error(s), %d warning(s)\n", len(results), errors, warnings)
}

// resolveMaxDiagnostics prefers the manifest value only when the flag was
// not set on the command line. An explicit flag always wins, even when it
// restates the default.
func resolveMaxDiagnostics(flagValue int, flagChanged bool, cfgValue int) int {
	if !flagChanged && cfgValue > 0 {
		return cfgValue
	}
	return flagValue
}

// applyColorFlag resolves the persistent --color flag against the terminal.
func applyColorFlag(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("unknown color mode: %s (must be auto, on or off)", mode)
	}
	return nil
}

// silentExit suppresses cobra's usage output: the diagnostics were already
// printed, the error only carries the exit code.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
