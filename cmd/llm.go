package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radnus321/learning-by-teaching/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model call audit log",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStoreFor(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		calls, err := s.RecentLLMCalls(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query calls: %w", err)
		}
		if len(calls) == 0 {
			fmt.Println("No model calls recorded yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, c := range calls {
			if purpose != "" && c.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !c.Success {
				ok = "✗"
			}
			model := c.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-5d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
				c.ID,
				c.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				c.Purpose,
				model,
				c.InputTokens,
				c.OutputTokens,
				c.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for a model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStoreFor(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		c, err := s.LLMCallByID(context.Background(), uint(id))
		if err != nil {
			return fmt.Errorf("get call: %w", err)
		}
		if c == nil {
			return fmt.Errorf("call %d not found", id)
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:        %d\n", c.ID)
		fmt.Printf("Time:      %s\n", c.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Provider:  %s\n", c.Provider)
		fmt.Printf("Model:     %s\n", c.Model)
		fmt.Printf("Purpose:   %s\n", c.Purpose)
		fmt.Printf("Tokens:    %d in / %d out\n", c.InputTokens, c.OutputTokens)
		fmt.Printf("Latency:   %dms\n", c.LatencyMs)
		fmt.Printf("Success:   %v\n", c.Success)
		if c.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", c.ErrorMessage)
		}

		fmt.Println()
		fmt.Println(sep)
		fmt.Println("REQUEST")
		fmt.Println(sep)
		if c.Request != "" {
			fmt.Println(c.Request)
		} else {
			fmt.Println("(not captured)")
		}

		fmt.Println(sep)
		fmt.Println("RESPONSE")
		fmt.Println(sep)
		if c.Response != "" {
			fmt.Println(c.Response)
		} else {
			fmt.Println("(not captured)")
		}

		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated token usage per call purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStoreFor(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.LLMUsageByPurpose(context.Background())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No model usage recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Println(strings.Repeat("─", 72))

		var totalCalls, totalIn, totalOut int
		for _, u := range usage {
			total := u.InputTokens + u.OutputTokens
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
				u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, total, u.AvgLatencyMs)
			totalCalls += u.Calls
			totalIn += u.InputTokens
			totalOut += u.OutputTokens
		}

		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)
		return nil
	},
}

func openStoreFor(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. student, evaluator, scorer, qa-pool)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
