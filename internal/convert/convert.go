package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/chat2md/internal/archive"
	"github.com/Zuo-Peng/chat2md/internal/markdown"
	"github.com/Zuo-Peng/chat2md/internal/schema"
)

var (
	styleOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleDim  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type Options struct {
	InputPath    string
	OutputDir    string
	SnapshotPath string
}

type Stats struct {
	Converted   int
	Errors      int
	Attachments int
}

func (s Stats) String() string {
	return fmt.Sprintf("converted=%d errors=%d attachments=%d",
		s.Converted, s.Errors, s.Attachments)
}

// Runner drives one end-to-end conversion. Progress lines go to Out;
// warnings and per-record failures go to the logger. Styled controls
// lipgloss coloring and is normally tied to Out being a terminal.
type Runner struct {
	FS     afero.Fs
	Log    *zap.Logger
	Out    io.Writer
	Now    func() time.Time
	Styled bool
}

// Run converts every conversation in the export, strictly in input
// order. Only a missing/unparseable input or an unusable output
// directory fail the run; one bad record is counted and skipped, and
// the schema tracker is purely advisory.
func (r *Runner) Run(opts Options) (Stats, error) {
	var stats Stats

	records, err := archive.Load(r.FS, opts.InputPath)
	if err != nil {
		return stats, err
	}

	tracker := &schema.Tracker{FS: r.FS, Log: r.Log, Path: opts.SnapshotPath, Now: r.Now}
	r.reportDiff(tracker.Track(records))

	if err := r.FS.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}

	renderer := &markdown.Renderer{FS: r.FS, Log: r.Log, Now: r.Now}

	fmt.Fprintf(r.Out, "Converting %d conversation(s)...\n", len(records))
	for i, raw := range records {
		conv, err := archive.Decode(raw)
		if err != nil {
			stats.Errors++
			r.Log.Warn("skipping malformed conversation",
				zap.Int("index", i), zap.Error(err))
			continue
		}

		doc, err := renderer.Render(conv, i, opts.OutputDir)
		if err != nil {
			stats.Errors++
			r.Log.Warn("skipping conversation, render failed",
				zap.Int("index", i), zap.String("uuid", conv.UUID), zap.Error(err))
			continue
		}

		path := filepath.Join(opts.OutputDir, doc.Filename)
		if err := afero.WriteFile(r.FS, path, []byte(doc.Content), 0o644); err != nil {
			stats.Errors++
			r.Log.Warn("skipping conversation, write failed",
				zap.Int("index", i), zap.String("path", path), zap.Error(err))
			continue
		}

		stats.Converted++
		stats.Attachments += doc.AttachmentCount
		fmt.Fprintf(r.Out, "  %s %s %s\n",
			r.style(styleOK, "✓"),
			doc.Filename,
			r.style(styleDim, fmt.Sprintf("(%d attachments)", doc.AttachmentCount)))
	}

	return stats, nil
}

func (r *Runner) reportDiff(diff schema.Diff) {
	switch {
	case diff.FirstRun:
		fmt.Fprintln(r.Out, r.style(styleDim, "Schema: first run, baseline snapshot saved."))
	case diff.Unchanged():
		fmt.Fprintln(r.Out, r.style(styleDim, "Schema: unchanged since last run."))
	default:
		fmt.Fprintln(r.Out, r.style(styleWarn, "Schema drift detected:"))
		for _, k := range diff.Added {
			fmt.Fprintf(r.Out, "  + %s\n", k)
		}
		for _, k := range diff.Removed {
			fmt.Fprintf(r.Out, "  - %s\n", k)
		}
	}
}

func (r *Runner) style(s lipgloss.Style, text string) string {
	if !r.Styled {
		return text
	}
	return s.Render(text)
}
