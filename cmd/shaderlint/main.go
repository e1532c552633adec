package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"shaderlint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "shaderlint",
	Short: "GLSL shader linter built on glslangValidator",
	Long:  `shaderlint resolves shader stages from filenames, runs the reference GLSL validator and reports its findings as structured diagnostics`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
