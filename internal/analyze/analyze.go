package analyze

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Zuo-Peng/chat2md/internal/archive"
	"github.com/Zuo-Peng/chat2md/internal/schema"
)

// Report is the diagnostic summary of one export file. It is written
// verbatim as the JSON report and also drives the console rendering.
type Report struct {
	Conversations          int            `json:"conversations"`
	MalformedRecords       int            `json:"malformed_records"`
	EmptyConversations     int            `json:"empty_conversations"`
	Messages               int            `json:"messages"`
	MessagesBySender       map[string]int `json:"messages_by_sender"`
	Attachments            int            `json:"attachments"`
	AttachmentsByType      map[string]int `json:"attachments_by_type"`
	AttachmentBytes        int64          `json:"attachment_bytes"`
	ArtifactBlocks         int            `json:"artifact_blocks"`
	MessagesWithCodeFences int            `json:"messages_with_code_fences"`
	EarliestCreated        string         `json:"earliest_created,omitempty"`
	LatestUpdated          string         `json:"latest_updated,omitempty"`
	SchemaKeyPaths         []string       `json:"schema_key_paths"`
	GeneratedAt            string         `json:"generated_at"`
}

// Analyze computes corpus statistics over an export without writing
// any documents. It tolerates records the converter would reject;
// those are only counted as malformed.
func Analyze(records []json.RawMessage, now func() time.Time) *Report {
	rep := &Report{
		MessagesBySender:  make(map[string]int),
		AttachmentsByType: make(map[string]int),
		GeneratedAt:       now().UTC().Format(time.RFC3339),
	}

	var earliest, latest time.Time

	for _, raw := range records {
		conv, err := archive.Decode(raw)
		if err != nil {
			rep.MalformedRecords++
			continue
		}
		rep.Conversations++
		if len(conv.Messages) == 0 {
			rep.EmptyConversations++
		}

		if t := archive.ParseTimestamp(conv.CreatedAt); !t.IsZero() {
			if earliest.IsZero() || t.Before(earliest) {
				earliest = t
			}
		}
		if t := archive.ParseTimestamp(conv.UpdatedAt); !t.IsZero() {
			if t.After(latest) {
				latest = t
			}
		}

		for i := range conv.Messages {
			msg := &conv.Messages[i]
			rep.Messages++
			sender := msg.Sender
			if sender == "" {
				sender = "unknown"
			}
			rep.MessagesBySender[sender]++

			fenced := strings.Contains(msg.Text, "```")
			for _, b := range msg.Blocks() {
				switch b.Type {
				case "text":
					if strings.Contains(b.Text, "```") {
						fenced = true
					}
				case "tool_use":
					if b.Name == "artifacts" && b.Input != nil && b.Input.Content != "" {
						rep.ArtifactBlocks++
					}
				}
			}
			if fenced {
				rep.MessagesWithCodeFences++
			}

			for _, att := range msg.Attachments {
				rep.Attachments++
				ft := att.FileType
				if ft == "" {
					ft = "unknown"
				}
				rep.AttachmentsByType[ft]++
				size := att.FileSize
				if size == 0 {
					size = int64(len(att.ExtractedContent))
				}
				rep.AttachmentBytes += size
			}
		}
	}

	if !earliest.IsZero() {
		rep.EarliestCreated = earliest.UTC().Format(time.RFC3339)
	}
	if !latest.IsZero() {
		rep.LatestUpdated = latest.UTC().Format(time.RFC3339)
	}
	rep.SchemaKeyPaths = schema.CollectKeyPaths(records)

	return rep
}
