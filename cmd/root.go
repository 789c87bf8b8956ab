package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "assessment",
	Short: "AI-generated assessment service",
	Long:  "Assessment service that generates quizzes, scores attempts and produces explanations and remarks using generative models.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("addr", "", "HTTP listen address (overrides ASSESS_HTTP_ADDR)")
	rootCmd.PersistentFlags().String("db", "", "Database DSN (overrides ASSESS_DB_DSN)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
