package ai

import (
	"regexp"
	"strings"

	"github.com/wanjiku/cortex-avatar/backend/internal/model/chat"
)

// resetToken wipes the session when it appears anywhere in the utterance.
const resetToken = "/start"

var (
	replyPrefixPattern = regexp.MustCompile(`^Cortex:\s*`)
	markupPattern      = regexp.MustCompile(`<[^>]+>`)
)

// BuildContext flattens stored turns into the prompt's history block:
// one "{user}\n{reply}" pair per turn, newline-joined in chronological
// order. Empty history yields an empty string.
func BuildContext(turns []chat.Turn) string {
	if len(turns) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(turns))
	for _, turn := range turns {
		blocks = append(blocks, turn.You+"\n"+sanitizeReply(turn.Cortex))
	}
	return strings.Join(blocks, "\n")
}

// IsResetCommand reports whether the utterance asks for a fresh session.
func IsResetCommand(message string) bool {
	return strings.Contains(strings.ToLower(message), resetToken)
}

// sanitizeReply strips the legacy reply-prefix label and any markup tags
// from a stored reply before it re-enters the prompt.
func sanitizeReply(reply string) string {
	reply = replyPrefixPattern.ReplaceAllString(reply, "")
	return markupPattern.ReplaceAllString(reply, "")
}
