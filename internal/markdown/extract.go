package markdown

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/chat2md/internal/archive"
)

// ExtractText renders a message's content blocks to Markdown. Text
// blocks become paragraphs; tool_use blocks named "artifacts" become a
// bold title plus a fenced code block; every other block type is
// dropped (the schema tracker is the signal when the export grows new
// ones). When the blocks yield nothing, the legacy flat text field is
// the fallback.
func ExtractText(msg *archive.Message) string {
	var parts []string
	for _, b := range msg.Blocks() {
		switch b.Type {
		case "text":
			if b.Text != "" {
				parts = append(parts, b.Text)
			}
		case "tool_use":
			if b.Name == "artifacts" && b.Input != nil && b.Input.Content != "" {
				parts = append(parts, renderArtifact(b.Input))
			}
		}
	}

	out := strings.Join(parts, "\n\n")
	if out == "" {
		return msg.Text
	}
	return out
}

func renderArtifact(in *archive.ArtifactInput) string {
	title := in.Title
	if title == "" {
		title = "Artifact"
	}
	return fmt.Sprintf("**%s**\n\n```%s\n%s\n```", title, in.Language, in.Content)
}
