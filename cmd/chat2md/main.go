package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:     "chat2md",
		Short:   "Convert Claude chat exports into per-conversation Markdown documents",
		Version: version,
	}

	rootCmd.AddCommand(convertCmd(logger))
	rootCmd.AddCommand(analyzeCmd(logger))
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
