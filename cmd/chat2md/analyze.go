package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat2md/internal/analyze"
	"github.com/Zuo-Peng/chat2md/internal/archive"
	"github.com/Zuo-Peng/chat2md/internal/config"
)

var styleSection = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

func analyzeCmd(logger *zap.Logger) *cobra.Command {
	var report string

	cmd := &cobra.Command{
		Use:   "analyze <export.json>",
		Short: "Inspect a Claude export: statistics, attachments, schema shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if report == "" {
				report = cfg.ReportPath
			}

			fsys := afero.NewOsFs()
			records, err := archive.Load(fsys, args[0])
			if err != nil {
				return err
			}

			rep := analyze.Analyze(records, time.Now)

			data, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			if err := afero.WriteFile(fsys, report, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write report %s: %w", report, err)
			}

			printReport(rep, term.IsTerminal(int(os.Stdout.Fd())))
			fmt.Printf("\nReport written to %s\n", report)
			return nil
		},
	}

	cmd.Flags().StringVar(&report, "report", "", "Path of the JSON report (default from config)")

	return cmd
}

func printReport(rep *analyze.Report, styled bool) {
	section := func(title string) {
		if styled {
			title = styleSection.Render(title)
		}
		fmt.Printf("\n=== %s ===\n", title)
	}

	section("Conversations")
	fmt.Printf("  Total:     %d\n", rep.Conversations)
	fmt.Printf("  Empty:     %d\n", rep.EmptyConversations)
	fmt.Printf("  Malformed: %d\n", rep.MalformedRecords)
	if rep.EarliestCreated != "" {
		fmt.Printf("  Earliest:  %s\n", rep.EarliestCreated)
	}
	if rep.LatestUpdated != "" {
		fmt.Printf("  Latest:    %s\n", rep.LatestUpdated)
	}

	section("Messages")
	fmt.Printf("  Total: %d\n", rep.Messages)
	for _, sender := range sortedKeys(rep.MessagesBySender) {
		fmt.Printf("  %-10s %d\n", sender+":", rep.MessagesBySender[sender])
	}
	fmt.Printf("  With code fences: %d\n", rep.MessagesWithCodeFences)
	fmt.Printf("  Artifact blocks:  %d\n", rep.ArtifactBlocks)

	section("Attachments")
	fmt.Printf("  Total: %d (%.1f KB)\n", rep.Attachments, float64(rep.AttachmentBytes)/1024)
	for _, ft := range sortedKeys(rep.AttachmentsByType) {
		fmt.Printf("  %s: %d\n", ft, rep.AttachmentsByType[ft])
	}

	section("Schema")
	fmt.Printf("  Key paths: %d\n", len(rep.SchemaKeyPaths))
	for _, k := range rep.SchemaKeyPaths {
		fmt.Printf("  %s\n", k)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
