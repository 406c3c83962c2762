package chat

import (
	"fmt"
	"strconv"
	"strings"

	"TenantPilot/entity"
)

// NormalizeInput trims and lowercases user input before matching.
func NormalizeInput(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Recognized continuation tokens, English and Portuguese.
var (
	affirmativeTokens = map[string]bool{"yes": true, "y": true, "sim": true, "s": true}
	negativeTokens    = map[string]bool{"no": true, "n": true, "não": true, "nao": true}
)

// IsAffirmative reports whether the input is a recognized "yes" token.
func IsAffirmative(text string) bool {
	return affirmativeTokens[NormalizeInput(text)]
}

// IsNegative reports whether the input is a recognized "no" token.
func IsNegative(text string) bool {
	return negativeTokens[NormalizeInput(text)]
}

// lastTurns returns at most n trailing entries of the history.
func lastTurns(history []entity.ConversationMessage, n int) []entity.ConversationMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// FormatNumberedMenu renders typed options as a numbered text list for
// plain-text transports.
func FormatNumberedMenu(text string, options []entity.ChatOption) string {
	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\n")
	for i, opt := range options {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, opt.Label))
	}
	return sb.String()
}

// MatchNumberToOption converts a number string ("1", "2", …) to the
// corresponding option key. Returns empty string if no match.
func MatchNumberToOption(text string, options []entity.ChatOption) string {
	num, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || num < 1 || num > len(options) {
		return ""
	}
	return options[num-1].Key
}
