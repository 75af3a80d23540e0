package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/radnus321/learning-by-teaching/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete your teaching history",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		userID := localUserID()

		if !force {
			fmt.Printf("This deletes every interaction for %q. Continue? [y/N] ", userID)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.ToLower(strings.TrimSpace(line)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.ResetUser(context.Background(), userID); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Println("Teaching history deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
}
