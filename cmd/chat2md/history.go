package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat2md/internal/config"
	"github.com/Zuo-Peng/chat2md/internal/ledger"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous conversion runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if _, err := os.Stat(cfg.LedgerPath); os.IsNotExist(err) {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			db, err := ledger.Open(cfg.LedgerPath)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer db.Close()

			runs, err := db.RecentRuns(limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			for _, r := range runs {
				fmt.Printf("%s  %s -> %s  converted=%d errors=%d attachments=%d\n",
					r.StartedAt.Local().Format("2006-01-02 15:04"),
					r.InputPath, r.OutputDir,
					r.Converted, r.Errors, r.Attachments)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max runs to show")

	return cmd
}
