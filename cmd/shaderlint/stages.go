package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shaderlint/internal/stage"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the recognized shader stages and their naming conventions",
	RunE:  runStages,
}

func runStages(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%-26s %-8s %-8s %s\n", "STAGE", "LETTER", "SHORT", "EXTENSION")
	for _, st := range stage.All {
		letter := st.Letter
		if letter == "" {
			letter = "-"
		}
		fmt.Fprintf(out, "%-26s %-8s %-8s .%s\n", st.Name, letter, st.Short, st.Ext)
	}
	return nil
}
