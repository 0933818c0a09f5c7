package archive

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// Load reads an export file and returns its records still undecoded,
// one RawMessage per conversation. Keeping records raw means one
// malformed conversation fails on its own later instead of poisoning
// the whole batch; only a missing file, invalid JSON, or a non-array
// root fail here.
func Load(fs afero.Fs, path string) ([]json.RawMessage, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse export %s: expected a JSON array of conversations: %w", path, err)
	}
	return records, nil
}

// Decode unmarshals a single conversation record.
func Decode(raw json.RawMessage) (*Conversation, error) {
	var conv Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return &conv, nil
}
