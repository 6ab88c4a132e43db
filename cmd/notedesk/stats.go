package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print note statistics and exit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		ctrl, closeRepo, err := buildController(ctx)
		if err != nil {
			fatal("open database", err)
		}
		defer closeRepo()

		stats := ctrl.GetStatistics()
		fmt.Printf("total:     %d\n", stats.Total)
		fmt.Printf("completed: %d\n", stats.Completed)
		fmt.Printf("pending:   %d\n", stats.Pending)
		fmt.Printf("important: %d\n", stats.Important)

		byPriority := make(map[string]int, len(stats.ByPriority))
		for priority, count := range stats.ByPriority {
			byPriority[string(priority)] = count
		}
		fmt.Println("\nby priority:")
		for _, name := range sortedCountKeys(byPriority) {
			fmt.Printf("  %-12s %d\n", name, byPriority[name])
		}
		fmt.Println("\nby category:")
		for _, name := range sortedCountKeys(stats.ByCategory) {
			fmt.Printf("  %-12s %d\n", name, stats.ByCategory[name])
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func sortedCountKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
