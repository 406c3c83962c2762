package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"TenantPilot/entity"
	"TenantPilot/internal/lib/sl"
)

// startEntityFlow opens the 3-step entity wizard with a fresh draft.
func (c *Controller) startEntityFlow(ctx context.Context, m Messenger, state *ChatState) error {
	state.ResetSubFlows()
	state.CreatingEntity = true
	state.EntityStep = 0
	state.EntityDraft = &entity.EntityDraft{}
	return c.promptEntityStep(m, state)
}

func (c *Controller) promptEntityStep(m Messenger, state *ChatState) error {
	switch state.EntityStep {
	case 0:
		return c.sendText(state, m, "Let's add an entity. What's its name?")
	case 1:
		return c.sendText(state, m, "Describe it briefly, or send \"skip\".")
	default:
		return c.sendText(state, m, "What type is it? (subsidiary, division, branch or other)")
	}
}

// handleEntityStep collects name → description → type, then submits.
func (c *Controller) handleEntityStep(ctx context.Context, m Messenger, state *ChatState, text string) error {
	if state.EntityDraft == nil {
		state.EntityDraft = &entity.EntityDraft{}
	}

	switch state.EntityStep {
	case 0:
		state.EntityDraft.Name = strings.TrimSpace(text)
		state.EntityStep = 1
		return c.promptEntityStep(m, state)
	case 1:
		desc := strings.TrimSpace(text)
		if strings.EqualFold(desc, "skip") {
			desc = ""
		}
		state.EntityDraft.Description = desc
		state.EntityStep = 2
		return c.promptEntityStep(m, state)
	default:
		// Unknown types silently coerce to "other"; the wizard never
		// bounces an answer back.
		state.EntityDraft.Type = entity.ParseEntityType(text)
		return c.submitEntity(ctx, m, state)
	}
}

// submitEntity sends the completed draft atomically and discards it.
func (c *Controller) submitEntity(ctx context.Context, m Messenger, state *ChatState) error {
	draft := *state.EntityDraft
	state.EntityDraft = nil
	state.CreatingEntity = false
	state.EntityStep = 0

	if err := c.tenants.CreateEntity(ctx, draft); err != nil {
		c.log.With(
			slog.String("session_id", state.SessionID),
			slog.String("entity", draft.Name),
			sl.Err(err),
		).Error("entity creation failed")
		if err := c.sendText(state, m, fmt.Sprintf("I couldn't save %s right now.", draft.Name)); err != nil {
			return err
		}
		return c.returnToMenu(m, state)
	}

	if err := c.sendText(state, m, fmt.Sprintf("%s added ✅", draft.Name)); err != nil {
		return err
	}
	state.AwaitingEntityContinue = true
	return c.sendText(state, m, "Add another entity? (yes/no)")
}

// handleEntityContinue is the repeat-until-declined loop. Only recognized
// affirmative/negative tokens move it; anything else re-prompts.
func (c *Controller) handleEntityContinue(ctx context.Context, m Messenger, state *ChatState, text string) error {
	switch {
	case IsAffirmative(text):
		state.AwaitingEntityContinue = false
		return c.startEntityFlow(ctx, m, state)
	case IsNegative(text):
		state.AwaitingEntityContinue = false
		return c.returnToMenu(m, state)
	default:
		return c.sendText(state, m, "Please answer yes or no — add another entity?")
	}
}
