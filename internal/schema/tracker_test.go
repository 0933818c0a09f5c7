package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTracker(fs afero.Fs) *Tracker {
	return &Tracker{
		FS:   fs,
		Log:  zap.NewNop(),
		Path: "schema_snapshot.json",
		Now:  func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestTrack_FirstRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	tracker := newTracker(fs)

	diff := tracker.Track([]json.RawMessage{rec(`{"uuid":"a"}`)})
	assert.True(t, diff.FirstRun)
	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)

	// snapshot persisted for the next run
	data, err := afero.ReadFile(fs, "schema_snapshot.json")
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, []string{"uuid"}, snap.Keys)
	assert.Equal(t, 1, snap.TotalConversationsAnalyzed)
	assert.Equal(t, []string{"uuid"}, snap.SampleConversationKeys)
	assert.Equal(t, "2025-03-01T12:00:00Z", snap.LastUpdated)
}

func TestTrack_Unchanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	tracker := newTracker(fs)
	records := []json.RawMessage{rec(`{"uuid":"a","name":"x"}`)}

	tracker.Track(records)
	diff := tracker.Track(records)

	assert.False(t, diff.FirstRun)
	assert.True(t, diff.Unchanged())
}

func TestTrack_AddedAndRemoved(t *testing.T) {
	fs := afero.NewMemMapFs()
	tracker := newTracker(fs)

	tracker.Track([]json.RawMessage{
		rec(`{"uuid":"a","chat_messages":[{"sender":"human"}]}`),
	})
	diff := tracker.Track([]json.RawMessage{
		rec(`{"uuid":"a","chat_messages":[{"sender":"human","assistant_type":"core"}]}`),
	})

	assert.False(t, diff.FirstRun)
	assert.Equal(t, []string{"chat_messages.assistant_type"}, diff.Added)
	assert.Empty(t, diff.Removed)

	diff = tracker.Track([]json.RawMessage{rec(`{"uuid":"a"}`)})
	assert.ElementsMatch(t, []string{
		"chat_messages",
		"chat_messages.sender",
		"chat_messages.assistant_type",
	}, diff.Removed)
}

func TestTrack_CorruptSnapshotTreatedAsFirstRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "schema_snapshot.json", []byte("{{{"), 0o644))

	tracker := newTracker(fs)
	diff := tracker.Track([]json.RawMessage{rec(`{"uuid":"a"}`)})
	assert.True(t, diff.FirstRun)

	// and the corrupt file was replaced by a valid one
	data, err := afero.ReadFile(fs, "schema_snapshot.json")
	require.NoError(t, err)
	var snap Snapshot
	assert.NoError(t, json.Unmarshal(data, &snap))
}

func TestTrack_PersistFailureStillReturnsDiff(t *testing.T) {
	base := afero.NewMemMapFs()
	prev, err := json.Marshal(Snapshot{Keys: []string{"uuid"}})
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(base, "schema_snapshot.json", prev, 0o644))

	// reads succeed, the snapshot write fails; the diff must survive
	tracker := newTracker(afero.NewReadOnlyFs(base))
	diff := tracker.Track([]json.RawMessage{rec(`{"uuid":"a","name":"x"}`)})

	assert.False(t, diff.FirstRun)
	assert.Equal(t, []string{"name"}, diff.Added)
	assert.Empty(t, diff.Removed)

	// the old snapshot is still in place, untouched
	data, err := afero.ReadFile(base, "schema_snapshot.json")
	require.NoError(t, err)
	assert.Equal(t, prev, data)
}

func TestTrack_SnapshotAlwaysOverwritten(t *testing.T) {
	fs := afero.NewMemMapFs()
	tracker := newTracker(fs)

	tracker.Track([]json.RawMessage{rec(`{"uuid":"a","name":"x"}`)})
	tracker.Track([]json.RawMessage{rec(`{"uuid":"a"}`)})

	data, err := afero.ReadFile(fs, "schema_snapshot.json")
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, []string{"uuid"}, snap.Keys)
}
