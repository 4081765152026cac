package ai

import (
	"log"
	"os"
	"strings"
)

// defaultPreamble is the built-in Cortex persona, used when no override
// file is configured.
const defaultPreamble = `You are Cortex, a warm and encouraging AI companion living inside a habit-tracking app.
You help people build better daily routines, celebrate their wins, and nudge them kindly when they slip.

Personality:
- Supportive and upbeat, never preachy or judgmental
- Speaks in short, conversational sentences suited to being read aloud
- Uses the occasional light joke, but stays focused on the user's wellbeing
- Remembers this is a voice conversation: no lists, no headings, no markdown`

// loadPreamble reads the persona preamble once at startup.
func loadPreamble(path string) string {
	if path == "" {
		return defaultPreamble
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[ai] failed to read prompt file %s, using built-in persona: %v", path, err)
		return defaultPreamble
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return defaultPreamble
}

// buildSystemPrompt composes the per-turn system message: persona
// preamble, fresh time and date phrases, conversation rules, and the
// flattened history block.
func buildSystemPrompt(preamble, sender, clockPhrase, datePhrase, contextBlock string) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n")
	b.WriteString("* Current time: ")
	b.WriteString(clockPhrase)
	b.WriteString(" Date: ")
	b.WriteString(datePhrase)
	b.WriteString(" You are talking to ")
	b.WriteString(sender)
	b.WriteString("\n* Don't mention the user, date and time unless necessary")
	b.WriteString("\n* Keep responses concise and natural for voice output")
	b.WriteString("\n* CRITICAL: After generating your response text, you MUST call the ")
	b.WriteString(AvatarToolName)
	b.WriteString(" function to set the avatar's facial expression and body language based on your response content and tone")
	b.WriteString("\n\nChat history:\n")
	b.WriteString(contextBlock)
	return b.String()
}
