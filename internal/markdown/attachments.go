package markdown

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Zuo-Peng/chat2md/internal/archive"
)

// AttachmentRef points a rendered document at one materialized
// attachment file. MessageIndex is 1-based and matches the message
// numbering in the document body.
type AttachmentRef struct {
	DisplayName  string
	FileName     string
	RelativePath string
	Size         int64
	MessageIndex int
}

// extByType maps the attachment MIME types seen in exports to file
// extensions. Anything unlisted is persisted as plain text, which is
// what extracted_content holds anyway.
var extByType = map[string]string{
	"text/plain":      ".txt",
	"text/markdown":   ".md",
	"text/html":       ".html",
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

func extensionFor(fileType string) string {
	if ext, ok := extByType[fileType]; ok {
		return ext
	}
	return ".txt"
}

// Materializer writes one conversation's attachments into a side
// directory next to the document.
type Materializer struct {
	FS  afero.Fs
	Log *zap.Logger
}

// Materialize persists every attachment of conv under
// <outputDir>/<baseName>_attachments and returns references for
// embedding. Conversations without attachments produce no directory.
// Filename collisions are only tracked within this conversation: a
// name seen twice gets the content hash spliced in before the
// extension. A single failed write is logged and skipped, never
// failing the conversation.
func (m *Materializer) Materialize(conv *archive.Conversation, outputDir, baseName string) ([]AttachmentRef, error) {
	total := 0
	for _, msg := range conv.Messages {
		total += len(msg.Attachments)
	}
	if total == 0 {
		return nil, nil
	}

	dirName := baseName + "_attachments"
	if err := m.FS.MkdirAll(filepath.Join(outputDir, dirName), 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}

	used := make(map[string]bool)
	refs := make([]AttachmentRef, 0, total)

	for mi, msg := range conv.Messages {
		for ai, att := range msg.Attachments {
			name := att.FileName
			if name == "" {
				name = fmt.Sprintf("attachment_%d_%d", mi, ai)
			}
			if filepath.Ext(name) == "" {
				name += extensionFor(att.FileType)
			}
			if used[name] {
				ext := filepath.Ext(name)
				name = strings.TrimSuffix(name, ext) + "_" + ContentHash(att.ExtractedContent) + ext
			}
			used[name] = true

			path := filepath.Join(outputDir, dirName, name)
			if err := afero.WriteFile(m.FS, path, []byte(att.ExtractedContent), 0o644); err != nil {
				m.Log.Warn("write attachment failed, skipping",
					zap.String("path", path), zap.Error(err))
				continue
			}

			size := att.FileSize
			if size == 0 {
				size = int64(len(att.ExtractedContent))
			}
			display := att.FileName
			if display == "" {
				display = name
			}
			refs = append(refs, AttachmentRef{
				DisplayName:  display,
				FileName:     name,
				RelativePath: "./" + dirName + "/" + name,
				Size:         size,
				MessageIndex: mi + 1,
			})
		}
	}

	return refs, nil
}
