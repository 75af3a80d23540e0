package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topics available for teaching sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		for _, t := range cat.List() {
			fmt.Printf("%-24s  %s\n", t.Name, t.Description)
			if t.Index != "" {
				fmt.Printf("%-24s  index: %s", "", t.Index)
				if t.Namespace != "" {
					fmt.Printf(" (namespace %s)", t.Namespace)
				}
				fmt.Println()
			}
		}
		return nil
	},
}
