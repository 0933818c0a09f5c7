package archive

import (
	"encoding/json"
	"time"
)

// Conversation is one record of a Claude data export. Timestamps stay
// as raw strings; the export mixes offset formats and some records
// carry none at all, so parsing is deferred to the point of use.
type Conversation struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
	Messages  []Message `json:"chat_messages"`
}

// Message keeps its content blocks undecoded so a single malformed
// block cannot fail the whole message; see Blocks.
type Message struct {
	Sender      string            `json:"sender"`
	CreatedAt   string            `json:"created_at"`
	Text        string            `json:"text"`
	Content     []json.RawMessage `json:"content"`
	Attachments []Attachment      `json:"attachments"`
}

// ContentBlock is the decoded form of one content entry. Only "text"
// and "tool_use" are meaningful today; anything else is carried
// through with its Type set and is up to the caller to skip.
type ContentBlock struct {
	Type  string         `json:"type"`
	Text  string         `json:"text"`
	Name  string         `json:"name"`
	Input *ArtifactInput `json:"input"`
}

// ArtifactInput is the payload of a tool_use block named "artifacts".
type ArtifactInput struct {
	Content  string `json:"content"`
	Language string `json:"language"`
	Title    string `json:"title"`
}

type Attachment struct {
	FileName         string `json:"file_name"`
	FileType         string `json:"file_type"`
	FileSize         int64  `json:"file_size"`
	ExtractedContent string `json:"extracted_content"`
}

// Blocks decodes the message's content blocks, silently dropping any
// that do not unmarshal. New block types the export grows are kept
// (with their Type tag) so callers can decide; structurally broken
// entries are not.
func (m *Message) Blocks() []ContentBlock {
	blocks := make([]ContentBlock, 0, len(m.Content))
	for _, raw := range m.Content {
		var b ContentBlock
		if err := json.Unmarshal(raw, &b); err != nil {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// ParseTimestamp accepts the timestamp shapes seen in real exports.
// Returns the zero time when the value is empty or unrecognizable.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	// try RFC3339
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	// try RFC3339Nano
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	// try ISO8601 without timezone
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
