package markdown

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/chat2md/internal/archive"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 9, 7, 0, 0, time.UTC)
}

func newRenderer() (*Renderer, afero.Fs) {
	fs := afero.NewMemMapFs()
	return &Renderer{FS: fs, Log: zap.NewNop(), Now: fixedNow}, fs
}

func sampleConversation() *archive.Conversation {
	return &archive.Conversation{
		UUID:      "abc-123",
		Name:      "Fix the parser",
		CreatedAt: "2024-01-15T10:30:00Z",
		UpdatedAt: "2024-01-16T08:00:00Z",
		Messages: []archive.Message{
			{
				Sender:    "human",
				CreatedAt: "2024-01-15T10:30:00Z",
				Content:   []json.RawMessage{raw(`{"type":"text","text":"hello"}`)},
			},
			{
				Sender:    "assistant",
				CreatedAt: "2024-01-15T10:31:00Z",
				Content:   []json.RawMessage{raw(`{"type":"text","text":"hi there"}`)},
			},
		},
	}
}

func TestRender_FilenameAndHeader(t *testing.T) {
	r, _ := newRenderer()
	doc, err := r.Render(sampleConversation(), 0, "out")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-15_FixTheParser_2024-01-16.md", doc.Filename)
	assert.Equal(t, 0, doc.AttachmentCount)

	assert.Contains(t, doc.Content, "# Claude Conversation")
	assert.Contains(t, doc.Content, `- **Title:** "Fix the parser"`)
	assert.Contains(t, doc.Content, "- **Created:** Monday, January 15, 2024")
	assert.Contains(t, doc.Content, "- **Link:** https://claude.ai/chat/abc-123")
	assert.Contains(t, doc.Content, "- **Conversation ID:** abc-123")
	assert.Contains(t, doc.Content, "- **Total Messages:** 2")
	assert.Contains(t, doc.Content, "- **Generated:** Saturday, March 1, 2025")
	assert.Contains(t, doc.Content, "## 👤 Human[^1]")
	assert.Contains(t, doc.Content, "## 🤖 Assistant[^2]")
	assert.Contains(t, doc.Content, "[^2]: ")
	assert.Contains(t, doc.Content, "*End of Conversation*")
}

func TestRender_MissingDatesAndTitle(t *testing.T) {
	r, _ := newRenderer()
	conv := &archive.Conversation{UUID: "x"}

	doc, err := r.Render(conv, 4, "out")
	require.NoError(t, err)

	// untitled, no timestamps: ordinal title, unknown-date for both halves
	assert.Equal(t, "unknown-date_Conversation5_unknown-date.md", doc.Filename)
	assert.Contains(t, doc.Content, `- **Title:** "Conversation_5"`)
}

func TestRender_UpdateDateFallsBackToCreated(t *testing.T) {
	r, _ := newRenderer()
	conv := &archive.Conversation{Name: "Notes", CreatedAt: "2024-02-01T00:00:00Z"}

	doc, err := r.Render(conv, 0, "out")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01_Notes_2024-02-01.md", doc.Filename)
}

func TestRender_CollisionAddsTimeSuffix(t *testing.T) {
	r, fs := newRenderer()

	first, err := r.Render(sampleConversation(), 0, "out")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, filepath.Join("out", first.Filename), []byte(first.Content), 0o644))

	second, err := r.Render(sampleConversation(), 1, "out")
	require.NoError(t, err)

	// first writer keeps the undecorated name; the second gets _THHMM
	assert.Equal(t, "2024-01-15_FixTheParser_2024-01-16.md", first.Filename)
	assert.Equal(t, "2024-01-15_FixTheParser_2024-01-16_T0907.md", second.Filename)
}

func TestRender_ZeroMessages(t *testing.T) {
	r, fs := newRenderer()
	conv := &archive.Conversation{UUID: "e", Name: "Empty", CreatedAt: "2024-01-01T00:00:00Z"}

	doc, err := r.Render(conv, 0, "out")
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "*No messages found in this conversation.*")
	assert.Equal(t, 0, doc.AttachmentCount)

	exists, err := afero.DirExists(fs, "out/2024-01-01_Empty_2024-01-01_attachments")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRender_UnknownSender(t *testing.T) {
	r, _ := newRenderer()
	conv := &archive.Conversation{
		Name:      "Odd",
		CreatedAt: "2024-01-01T00:00:00Z",
		Messages: []archive.Message{
			{Sender: "system", Text: "booted"},
			{Text: "no sender at all"},
		},
	}

	doc, err := r.Render(conv, 0, "out")
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "## 🤖 System[^1]")
	assert.Contains(t, doc.Content, "## 🤖 Assistant[^2]")
}

func TestRender_MultiByteSenderLabel(t *testing.T) {
	r, _ := newRenderer()
	conv := &archive.Conversation{
		Name:      "Accents",
		CreatedAt: "2024-01-01T00:00:00Z",
		Messages: []archive.Message{
			{Sender: "ägent", Text: "hallo"},
		},
	}

	doc, err := r.Render(conv, 0, "out")
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(doc.Content))
	assert.Contains(t, doc.Content, "## 🤖 Ägent[^1]")
}

func TestRender_AttachmentsSection(t *testing.T) {
	r, fs := newRenderer()
	conv := sampleConversation()
	conv.Messages[0].Attachments = []archive.Attachment{
		{FileName: "data.csv", FileType: "text/plain", FileSize: 2048, ExtractedContent: "a,b\n1,2"},
	}

	doc, err := r.Render(conv, 0, "out")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.AttachmentCount)

	base := "2024-01-15_FixTheParser_2024-01-16"
	assert.Contains(t, doc.Content, "**Attachments:**")
	assert.Contains(t, doc.Content, "- [data.csv](./"+base+"_attachments/data.csv) (2.0 KB)")
	assert.Contains(t, doc.Content, "Keep this document and that folder together")

	data, err := afero.ReadFile(fs, "out/"+base+"_attachments/data.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2", string(data))
}
