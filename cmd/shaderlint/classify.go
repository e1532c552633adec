package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"shaderlint/internal/shader"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <shader>...",
	Short: "Resolve shader stages from filenames without validating",
	Long:  `Show which pipeline stage each filename maps to and the canonical name it would be submitted under`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

type classification struct {
	Path          string `json:"path"`
	Stage         string `json:"stage,omitempty"`
	CanonicalName string `json:"canonical_name,omitempty"`
	Error         string `json:"error,omitempty"`
}

func init() {
	classifyCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	out := cmd.OutOrStdout()
	results := make([]classification, 0, len(args))
	failed := false
	for _, path := range args {
		tokens, err := shader.Classify(path)
		if err != nil {
			failed = true
			results = append(results, classification{Path: path, Error: err.Error()})
			continue
		}
		results = append(results, classification{
			Path:          path,
			Stage:         tokens.Stage.Name,
			CanonicalName: tokens.CanonicalName,
		})
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	case "pretty":
		for _, res := range results {
			if res.Error != "" {
				fmt.Fprintf(out, "%s: %s\n", res.Path, res.Error)
				continue
			}
			fmt.Fprintf(out, "%s: %s stage -> %s\n", res.Path, res.Stage, res.CanonicalName)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if failed {
		return silentExit(cmd)
	}
	return nil
}
