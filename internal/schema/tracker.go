package schema

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Snapshot is the persisted shape of one analyzed export.
type Snapshot struct {
	Keys                       []string `json:"keys"`
	LastUpdated                string   `json:"last_updated"`
	TotalConversationsAnalyzed int      `json:"total_conversations_analyzed"`
	SampleConversationKeys     []string `json:"sample_conversation_keys"`
}

// Diff is the result of comparing the current run against the prior
// snapshot.
type Diff struct {
	FirstRun bool
	Added    []string
	Removed  []string
}

func (d Diff) Unchanged() bool {
	return !d.FirstRun && len(d.Added) == 0 && len(d.Removed) == 0
}

// Tracker diffs the key-path shape of the export against the snapshot
// persisted by the previous run. Everything about it is advisory: a
// corrupt prior snapshot degrades to a first run and a failed persist
// is only a warning, so it can never block a conversion.
type Tracker struct {
	FS   afero.Fs
	Log  *zap.Logger
	Path string
	Now  func() time.Time
}

// Track computes the current key-path set, diffs it against the prior
// snapshot, and unconditionally persists the fresh snapshot. Each run
// is compared only against the immediately preceding one.
func (t *Tracker) Track(records []json.RawMessage) Diff {
	current := CollectKeyPaths(records)

	diff := Diff{FirstRun: true}
	if prev, ok := t.load(); ok {
		diff.FirstRun = false
		diff.Added, diff.Removed = diffKeys(prev.Keys, current)
	}

	snap := Snapshot{
		Keys:                       current,
		LastUpdated:                t.Now().UTC().Format(time.RFC3339),
		TotalConversationsAnalyzed: len(records),
	}
	if len(records) > 0 {
		snap.SampleConversationKeys = TopLevelKeys(records[0])
	}
	t.persist(snap)

	return diff
}

func (t *Tracker) load() (*Snapshot, bool) {
	data, err := afero.ReadFile(t.FS, t.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.Log.Warn("read schema snapshot, treating as first run",
				zap.String("path", t.Path), zap.Error(err))
		}
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Log.Warn("corrupt schema snapshot, treating as first run",
			zap.String("path", t.Path), zap.Error(err))
		return nil, false
	}
	return &snap, true
}

func (t *Tracker) persist(snap Snapshot) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		t.Log.Warn("encode schema snapshot", zap.Error(err))
		return
	}
	if err := afero.WriteFile(t.FS, t.Path, append(data, '\n'), 0o644); err != nil {
		t.Log.Warn("persist schema snapshot",
			zap.String("path", t.Path), zap.Error(err))
	}
}

// diffKeys returns current−prev and prev−current. Both inputs are
// already sorted, so the outputs are too.
func diffKeys(prev, current []string) (added, removed []string) {
	prevSet := make(map[string]struct{}, len(prev))
	for _, k := range prev {
		prevSet[k] = struct{}{}
	}
	curSet := make(map[string]struct{}, len(current))
	for _, k := range current {
		curSet[k] = struct{}{}
	}

	for _, k := range current {
		if _, ok := prevSet[k]; !ok {
			added = append(added, k)
		}
	}
	for _, k := range prev {
		if _, ok := curSet[k]; !ok {
			removed = append(removed, k)
		}
	}
	return added, removed
}
