package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cyclescope-domain-api",
	Short: "AI analysis of the six CycleScope market domains",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(diagnoseCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
