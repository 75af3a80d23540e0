package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radnus321/learning-by-teaching/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your teaching scores over time",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		history, err := s.ScoreHistory(context.Background(), localUserID())
		if err != nil {
			return fmt.Errorf("load score history: %w", err)
		}
		if len(history) == 0 {
			fmt.Println("No scored turns yet. Run a teaching session first.")
			return nil
		}

		fmt.Printf("%-19s  %7s  %7s  %8s  %11s  %10s\n",
			"When", "Overall", "Clarity", "Complete", "Understood", "Engagement")
		fmt.Println(strings.Repeat("─", 76))

		var sum float64
		for _, rec := range history {
			fmt.Printf("%-19s  %6.0f%%  %6.0f%%  %7.0f%%  %10.0f%%  %9.0f%%\n",
				rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				rec.OverallScore*100,
				rec.TeacherClarity*100,
				rec.TeacherCompleteness*100,
				rec.StudentUnderstanding*100,
				rec.StudentEngagement*100,
			)
			sum += rec.OverallScore
		}

		fmt.Println(strings.Repeat("─", 76))
		fmt.Printf("%d turns, average overall %.0f%%\n", len(history), sum/float64(len(history))*100)
		return nil
	},
}
