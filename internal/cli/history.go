package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeatlas/codeatlas/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent analyses",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No analyses recorded yet")
		return nil
	}

	for _, r := range records {
		target := r.Root
		if r.Repo != "" {
			target = r.Repo
		}
		fmt.Printf("%s  %-40s  %4d files  %4d edges  %d cycles  (%s)\n",
			r.StartedAt.Format(time.DateTime),
			target,
			r.FileCount,
			r.EdgeCount,
			r.CycleCount,
			r.Duration.Round(time.Millisecond),
		)
	}
	return nil
}
