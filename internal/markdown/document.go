package markdown

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/chat2md/internal/archive"
)

const permalinkBase = "https://claude.ai/chat/"

// Document is one rendered conversation, ready to be flushed.
type Document struct {
	Content         string
	Filename        string
	AttachmentCount int
}

// Renderer builds one Markdown document per conversation. The clock is
// injected because it leaks into output twice: the generation stamp in
// the footer and the T-suffix used for filename disambiguation.
type Renderer struct {
	FS  afero.Fs
	Log *zap.Logger
	Now func() time.Time
}

// Render produces the document for conv, materializing its attachments
// as a side effect. ordinal is the 0-based position in the batch, used
// only to synthesize a title for unnamed conversations.
//
// Filename collisions across conversations are resolved first-writer-
// wins: only the exact undecorated name is probed, and when taken a
// _THHMM suffix is appended. Two identically named conversations
// rendered within the same wall-clock minute still collide; that is a
// known limitation, not silently papered over.
func (r *Renderer) Render(conv *archive.Conversation, ordinal int, outputDir string) (*Document, error) {
	title := conv.Name
	if title == "" {
		title = fmt.Sprintf("Conversation_%d", ordinal+1)
	}

	created := FormatShortDate(conv.CreatedAt)
	if created == "" {
		created = "unknown-date"
	}
	updated := FormatShortDate(conv.UpdatedAt)
	if updated == "" {
		updated = created
	}
	base := fmt.Sprintf("%s_%s_%s", created, SanitizeTitle(title), updated)

	exists, err := afero.Exists(r.FS, filepath.Join(outputDir, base+".md"))
	if err != nil {
		return nil, fmt.Errorf("probe output name: %w", err)
	}
	if exists {
		suffix := r.Now().Format("_T1504")
		r.Log.Warn("output filename taken, adding time suffix",
			zap.String("base", base), zap.String("suffix", suffix))
		base += suffix
	}

	mat := &Materializer{FS: r.FS, Log: r.Log}
	refs, err := mat.Materialize(conv, outputDir, base)
	if err != nil {
		return nil, err
	}

	byMessage := make(map[int][]AttachmentRef)
	for _, ref := range refs {
		byMessage[ref.MessageIndex] = append(byMessage[ref.MessageIndex], ref)
	}

	var b strings.Builder
	b.WriteString("# Claude Conversation\n\n")
	b.WriteString("## Conversation Metadata\n\n")
	fmt.Fprintf(&b, "- **Title:** %q\n", title)
	fmt.Fprintf(&b, "- **Created:** %s\n", FormatWeekdayDate(conv.CreatedAt))
	fmt.Fprintf(&b, "- **Last Updated:** %s\n", FormatWeekdayDate(conv.UpdatedAt))
	fmt.Fprintf(&b, "- **Link:** %s%s\n", permalinkBase, conv.UUID)
	fmt.Fprintf(&b, "- **Conversation ID:** %s\n", conv.UUID)
	fmt.Fprintf(&b, "- **Total Messages:** %d\n", len(conv.Messages))
	b.WriteString("- **Model:** Claude (exact version not recorded in export)\n")
	fmt.Fprintf(&b, "- **Generated:** %s\n", FormatWeekdayDate(r.Now().Format(time.RFC3339)))
	b.WriteString("\n---\n\n")

	if len(conv.Messages) == 0 {
		b.WriteString("*No messages found in this conversation.*\n\n")
	}

	for i := range conv.Messages {
		msg := &conv.Messages[i]
		n := i + 1
		icon, label := senderBadge(msg.Sender)
		fmt.Fprintf(&b, "## %s %s[^%d]\n\n", icon, label, n)

		b.WriteString(ExtractText(msg))
		b.WriteString("\n\n")

		if atts := byMessage[n]; len(atts) > 0 {
			b.WriteString("**Attachments:**\n\n")
			for _, a := range atts {
				if a.Size > 0 {
					fmt.Fprintf(&b, "- [%s](%s) (%.1f KB)\n", a.DisplayName, a.RelativePath, float64(a.Size)/1024)
				} else {
					fmt.Fprintf(&b, "- [%s](%s)\n", a.DisplayName, a.RelativePath)
				}
			}
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "[^%d]: %s\n\n", n, FormatDualTime(msg.CreatedAt))
	}

	b.WriteString("---\n\n")
	b.WriteString("*End of Conversation*\n\n")
	b.WriteString("*Local times reflect the time zone of the machine that ran the conversion; the UTC values are authoritative.*\n")
	if len(refs) > 0 {
		fmt.Fprintf(&b, "\n*%d attachment(s) were extracted into `%s_attachments/`. Keep this document and that folder together.*\n", len(refs), base)
	}

	return &Document{
		Content:         b.String(),
		Filename:        base + ".md",
		AttachmentCount: len(refs),
	}, nil
}

// senderBadge picks the icon and heading label for a message sender.
// Anything that is not "human" gets the assistant treatment so that
// unknown sender values never break rendering.
func senderBadge(sender string) (icon, label string) {
	if sender == "human" {
		return "👤", "Human"
	}
	if sender == "" {
		return "🤖", "Assistant"
	}
	r, size := utf8.DecodeRuneInString(sender)
	return "🤖", string(unicode.ToUpper(r)) + sender[size:]
}
