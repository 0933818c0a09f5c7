package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds every path the tool reads or writes. Defaults are
// relative to the working directory so the binary can sit next to an
// export and just run; the run ledger lives under the user config dir
// because it spans runs from any directory.
type Config struct {
	InputPath    string `toml:"input_path"`
	OutputDir    string `toml:"output_dir"`
	SnapshotPath string `toml:"snapshot_path"`
	ReportPath   string `toml:"report_path"`
	LedgerPath   string `toml:"ledger_path"`
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:    "conversations.json",
		OutputDir:    "output",
		SnapshotPath: "schema_snapshot.json",
		ReportPath:   "export_analysis.json",
		LedgerPath:   filepath.Join(home, ".config", "chat2md", "history.db"),
	}

	cfgPath := filepath.Join(home, ".config", "chat2md", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	// expand ~ in paths
	cfg.InputPath = expandHome(cfg.InputPath, home)
	cfg.OutputDir = expandHome(cfg.OutputDir, home)
	cfg.SnapshotPath = expandHome(cfg.SnapshotPath, home)
	cfg.ReportPath = expandHome(cfg.ReportPath, home)
	cfg.LedgerPath = expandHome(cfg.LedgerPath, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
