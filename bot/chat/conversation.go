package chat

import (
	"context"
	"fmt"
	"log/slog"

	"TenantPilot/entity"
	"TenantPilot/internal/lib/sl"
)

const (
	// historyWindow caps how many trailing history entries are sent with each
	// turn. Local history keeps growing; only the request size is bounded.
	historyWindow = 6

	// reminderThreshold is the history length at which the one-time exit
	// keyword reminder is shown.
	reminderThreshold = 10
)

var conversationExitTokens = map[string]bool{
	"exit": true,
	"done": true,
	"stop": true,
	"menu": true,
}

// startConversation enters free-form conversation mode with empty history.
func (c *Controller) startConversation(ctx context.Context, m Messenger, state *ChatState) error {
	state.ResetSubFlows()
	state.ConversationMode = true
	return c.sendText(state, m, "Ask me anything about your business — say \"menu\" whenever you're done.")
}

// handleConversationTurn relays one exchange to the conversation
// collaborator. Exit keywords are checked before anything else.
func (c *Controller) handleConversationTurn(ctx context.Context, m Messenger, state *ChatState, text string) error {
	if conversationExitTokens[NormalizeInput(text)] {
		exchanged := len(state.ConversationHistory)
		state.ConversationMode = false
		state.ConversationHistory = nil
		state.ExitReminderShown = false
		if err := c.sendText(state, m, fmt.Sprintf("Good talk — we exchanged %d messages.", exchanged)); err != nil {
			return err
		}
		return c.returnToMenu(m, state)
	}

	state.ConversationHistory = append(state.ConversationHistory, entity.ConversationMessage{
		Role:    entity.RoleUser,
		Content: text,
	})

	reply, err := c.conversation.Chat(ctx, text, lastTurns(state.ConversationHistory, historyWindow))
	if err != nil {
		c.log.With(
			slog.String("session_id", state.SessionID),
			sl.Err(err),
		).Error("conversation turn failed")
		if err := c.sendText(state, m, "I'm having trouble answering right now."); err != nil {
			return err
		}
		return c.returnToMenu(m, state)
	}

	state.ConversationHistory = append(state.ConversationHistory, entity.ConversationMessage{
		Role:    entity.RoleAssistant,
		Content: reply.Response,
	})
	if err := c.sendText(state, m, reply.Response); err != nil {
		return err
	}

	if n := len(reply.KnowledgeExtracted); n > 0 {
		if err := c.sendText(state, m, fmt.Sprintf("📌 I noted %d new facts about your business.", n)); err != nil {
			return err
		}
	}

	if len(state.ConversationHistory) >= reminderThreshold && !state.ExitReminderShown {
		state.ExitReminderShown = true
		return c.sendText(state, m, "Tip: say \"exit\", \"done\", \"stop\" or \"menu\" to go back to setup.")
	}
	return nil
}
