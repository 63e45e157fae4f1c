package imap

import (
	"bytes"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
)

// previewLimit caps the extracted body preview length in runes.
const previewLimit = 500

// bodyPreview parses a raw RFC 2822 message and extracts a truncated
// text/plain preview for the classifier.
func bodyPreview(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		// Parsing failed; treat the whole thing as plain text.
		return truncate(string(raw))
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if !strings.HasPrefix(contentType, "text/plain") {
			continue
		}
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}
		return truncate(string(body))
	}

	return ""
}

func truncate(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > previewLimit {
		runes = runes[:previewLimit]
	}
	return string(runes)
}
