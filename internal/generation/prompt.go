package generation

import (
	"fmt"
	"strings"

	"github.com/avan-studio/avan-backend/internal/i18n"
)

// MinCodeLength is the size above which the current artifact is treated as code to modify.
const MinCodeLength = 50

// MaxHistory is how many prior message texts are replayed to the model.
const MaxHistory = 3

const techStack = `<script src="https://cdn.tailwindcss.com"></script>
<link href="https://fonts.googleapis.com/css2?family=Inter:wght@300;400;600;800&family=Heebo:wght@300;400;700&display=swap" rel="stylesheet">
<script src="https://unpkg.com/lucide@latest"></script>
<script>tailwind.config = { theme: { extend: { fontFamily: { sans: ['Heebo', 'Inter', 'sans-serif'] } } } }</script>`

func SystemInstruction(lang string) string {
	target := i18n.Name(lang)

	var b strings.Builder
	b.WriteString("You are AVAN, a senior frontend architect.\n")
	b.WriteString("You create only premium, modern websites. No basic designs.\n\n")
	b.WriteString("LANGUAGE:\n")
	fmt.Fprintf(&b, "You MUST respond and generate content in %s.\n", target)
	fmt.Fprintf(&b, "Your conversational reply AND the visible website text (headings, paragraphs, buttons) MUST be in %s.\n\n", target)
	b.WriteString("RULES:\n")
	b.WriteString("1. Output: return a SINGLE complete HTML document with embedded CSS (Tailwind) and JS.\n")
	b.WriteString("2. Style: Tailwind CSS via CDN, gradients, glassmorphism, large typography, whitespace, subtle animations. Lucide icons, Unsplash images.\n")
	b.WriteString("3. Iterative workflow: if you are given \"Current Code\" you MUST modify it according to the request. Do not remove features unless asked.\n")
	b.WriteString("4. Format: ALWAYS wrap the code in exactly one ```html ... ``` block. Keep the conversational reply VERY short.\n\n")
	b.WriteString("Technical stack:\n")
	b.WriteString(techStack)
	b.WriteString("\n")
	return b.String()
}

// BuildPrompt composes the final user turn from the request and the current artifact.
func BuildPrompt(userRequest, currentCode string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Request: %s\n\n", userRequest)

	if len(currentCode) > MinCodeLength {
		b.WriteString("--- CURRENT CODE (MODIFY THIS) ---\n")
		b.WriteString(currentCode)
		b.WriteString("\n----------------------------------\n")
		b.WriteString("INSTRUCTIONS: Apply the user's request to the code above. Return the FULL updated code. Remember to write content in the requested language.")
	} else {
		b.WriteString("INSTRUCTIONS: Create a brand new PREMIUM website based on the request.")
	}
	return b.String()
}

// BuildRequest replays history as user turns, then the composed prompt.
func BuildRequest(userRequest string, history []string, currentCode, lang string) Request {
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}

	turns := make([]Turn, 0, len(history)+1)
	for _, h := range history {
		turns = append(turns, Turn{Role: RoleUser, Text: h})
	}
	turns = append(turns, Turn{Role: RoleUser, Text: BuildPrompt(userRequest, currentCode)})

	return Request{
		SystemInstruction: SystemInstruction(lang),
		Temperature:       Temperature,
		Turns:             turns,
	}
}
