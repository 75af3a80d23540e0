package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/radnus321/learning-by-teaching/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "teachback",
	Short: "Learn by teaching a simulated student",
	Long: "Teachback is a terminal app where you learn by teaching: explain a topic to an AI student,\n" +
		"field its follow-up questions, and get graded on how well your explanation landed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Missing .env is fine; keys can come from the environment proper.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TEACHBACK_DB env var)")
	rootCmd.PersistentFlags().String("topics", "", "Path to a topics YAML file (defaults to the built-in catalog)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TEACHBACK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
