package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat2md/internal/config"
	"github.com/Zuo-Peng/chat2md/internal/convert"
	"github.com/Zuo-Peng/chat2md/internal/ledger"
)

func convertCmd(logger *zap.Logger) *cobra.Command {
	var input, output, snapshot string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert conversations.json into one Markdown document per conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if input != "" {
				cfg.InputPath = input
			}
			if output != "" {
				cfg.OutputDir = output
			}
			if snapshot != "" {
				cfg.SnapshotPath = snapshot
			}

			fsys := afero.NewOsFs()
			if ok, _ := afero.Exists(fsys, cfg.InputPath); !ok {
				return fmt.Errorf("input file %q not found: export your Claude data and place conversations.json in the working directory, or pass --input", cfg.InputPath)
			}

			runner := &convert.Runner{
				FS:     fsys,
				Log:    logger,
				Out:    os.Stdout,
				Now:    time.Now,
				Styled: term.IsTerminal(int(os.Stdout.Fd())),
			}

			started := time.Now()
			stats, err := runner.Run(convert.Options{
				InputPath:    cfg.InputPath,
				OutputDir:    cfg.OutputDir,
				SnapshotPath: cfg.SnapshotPath,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Done. %s\n", stats)
			recordRun(logger, cfg, started, stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Path to the exported conversations.json")
	cmd.Flags().StringVar(&output, "output", "", "Directory to write Markdown documents into")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Path of the schema snapshot file")

	return cmd
}

// recordRun appends the run to the SQLite ledger. History is a
// convenience, so every failure here is only a warning.
func recordRun(logger *zap.Logger, cfg *config.Config, started time.Time, stats convert.Stats) {
	db, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		logger.Warn("open run ledger", zap.Error(err))
		return
	}
	defer db.Close()

	err = db.RecordRun(ledger.Run{
		ID:          uuid.NewString(),
		StartedAt:   started,
		FinishedAt:  time.Now(),
		InputPath:   cfg.InputPath,
		OutputDir:   cfg.OutputDir,
		Converted:   stats.Converted,
		Errors:      stats.Errors,
		Attachments: stats.Attachments,
	})
	if err != nil {
		logger.Warn("record run", zap.Error(err))
	}
}
