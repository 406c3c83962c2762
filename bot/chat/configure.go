package chat

import (
	"context"
	"strconv"
	"strings"

	"TenantPilot/entity"
)

// ConfigureIntent is one of the five things the configure menu can do.
type ConfigureIntent int

const (
	IntentUnknown ConfigureIntent = iota
	IntentEntities
	IntentBankAccounts
	IntentDocuments
	IntentConversation
	IntentExit
)

var configureOptions = []entity.ChatOption{
	{Key: "entities", Label: "Manage entities (subsidiaries, divisions, branches)"},
	{Key: "bank_accounts", Label: "Connect bank accounts"},
	{Key: "documents", Label: "Upload business documents"},
	{Key: "chat", Label: "Ask me anything about your business"},
	{Key: "exit", Label: "Exit setup"},
}

// ConfigureOptions returns the menu options in dispatch order.
func ConfigureOptions() []entity.ChatOption {
	out := make([]entity.ChatOption, len(configureOptions))
	copy(out, configureOptions)
	return out
}

// Keyword sets per intent, checked in fixed priority order. This is a
// many-to-one classifier: several phrasings map to the same intent.
var intentKeywords = []struct {
	intent ConfigureIntent
	words  []string
}{
	{IntentEntities, []string{"entit", "subsidiar", "division", "branch"}},
	{IntentBankAccounts, []string{"bank", "account"}},
	{IntentDocuments, []string{"document", "upload", "file"}},
	{IntentConversation, []string{"chat", "talk", "ask", "question", "assistant"}},
	{IntentExit, []string{"exit", "done", "quit", "close"}},
}

// ParseConfigureOption normalizes the input and matches it against the five
// intents. Numeric shortcuts ("1".."5") take priority over keyword matches.
func ParseConfigureOption(raw string) ConfigureIntent {
	text := NormalizeInput(raw)
	if text == "" {
		return IntentUnknown
	}

	if num, err := strconv.Atoi(text); err == nil {
		if num >= 1 && num <= len(configureOptions) {
			return ConfigureIntent(num)
		}
		return IntentUnknown
	}

	for _, group := range intentKeywords {
		for _, word := range group.words {
			if strings.Contains(text, word) {
				return group.intent
			}
		}
	}
	return IntentUnknown
}

// handleConfigureOption dispatches configure-menu input. Unrecognized input
// re-prompts the same options and never advances the step counter.
func (c *Controller) handleConfigureOption(ctx context.Context, m Messenger, state *ChatState, text string) error {
	switch ParseConfigureOption(text) {
	case IntentEntities:
		return c.startEntityFlow(ctx, m, state)

	case IntentBankAccounts:
		// Navigates away from the assistant; terminal for this session.
		if err := c.sendText(state, m, "Opening the bank accounts section — follow the connect flow there, and come back when you're done."); err != nil {
			return err
		}
		state.ResetSubFlows()
		state.Mode = ModeNone
		return nil

	case IntentDocuments:
		return c.startDocumentFlow(ctx, m, state)

	case IntentConversation:
		return c.startConversation(ctx, m, state)

	case IntentExit:
		state.CurrentStep = len(c.configureSteps) - 1
		return c.enterStep(ctx, m, state)

	default:
		return c.sendMenu(state, m, "Sorry, I didn't catch that — pick one of these:", ConfigureOptions())
	}
}
