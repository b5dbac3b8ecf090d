package domain

import "strings"

const attachmentOpen = "[FILE CONTENT:"

// WithAttachment appends a text file to a message the way the model expects to read it.
func WithAttachment(text, name, content string) string {
	return text + "\n\n" + attachmentOpen + " " + name + "]\n" + content + "\n[/FILE]\n"
}

// DisplayText hides attached file bodies when a transcript is shown.
func DisplayText(text string) string {
	parts := strings.Split(text, attachmentOpen)
	if len(parts) == 1 {
		return text
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for range parts[1:] {
		b.WriteString("\n[File Attached]")
	}
	return b.String()
}
