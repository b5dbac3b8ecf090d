package generation

import (
	"regexp"
	"strings"
)

// The html-tagged alternative is tried first at each position; only the first block is used.
var codeBlockRe = regexp.MustCompile("(?i)```html\\n([\\s\\S]*?)\\n?```|```([\\s\\S]*?)\\n?```")

type Parsed struct {
	// Display is the conversational part shown in chat.
	Display string
	// Code is the captured block. Empty when Found is false.
	Code  string
	Found bool
}

// ParseResponse splits a model reply into chat text and an optional code block.
// placeholder replaces the display text when nothing but the block was returned.
func ParseResponse(text, placeholder string) Parsed {
	m := codeBlockRe.FindStringSubmatchIndex(text)
	if m == nil {
		return Parsed{Display: text}
	}

	var code string
	switch {
	case m[2] >= 0:
		code = text[m[2]:m[3]]
	case m[4] >= 0:
		code = text[m[4]:m[5]]
	}

	display := strings.TrimSpace(text[:m[0]] + text[m[1]:])
	if display == "" {
		display = placeholder
	}

	return Parsed{Display: display, Code: code, Found: true}
}
