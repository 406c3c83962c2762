package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"TenantPilot/entity"
	"TenantPilot/internal/lib/sl"
)

// Controller owns every session's ChatState and routes each user input to
// whichever sub-flow is currently active, falling back to the linear step
// sequencer. One input is processed at a time per session; the Processing
// flag is checked at every input-accepting entry point.
type Controller struct {
	storage      StateStorage
	tenants      TenantService
	documents    DocumentService
	conversation ConversationService
	archive      DocumentArchive
	listener     MessageListener

	createSteps     []StepDefinition
	configureSteps  []StepDefinition
	defaultTenantID string

	mu        sync.Mutex
	overrides map[string]*entity.Tenant

	log *slog.Logger
}

// NewController creates a controller with the step tables loaded once.
func NewController(storage StateStorage, tenants TenantService, documents DocumentService, conversation ConversationService, defaultTenantID string, log *slog.Logger) *Controller {
	return &Controller{
		storage:         storage,
		tenants:         tenants,
		documents:       documents,
		conversation:    conversation,
		createSteps:     CreateTenantSteps(),
		configureSteps:  ConfigureTenantSteps(),
		defaultTenantID: defaultTenantID,
		overrides:       make(map[string]*entity.Tenant),
		log:             log.With(sl.Module("chat.controller")),
	}
}

// SetArchive enables staging of uploaded documents for retry.
func (c *Controller) SetArchive(archive DocumentArchive) {
	c.archive = archive
}

// SetMessageListener sets the transcript listener.
func (c *Controller) SetMessageListener(l MessageListener) {
	c.listener = l
}

// SetCurrentTenant installs a session-scoped tenant override. The hosting
// surface uses this when it already knows the active tenant, saving the
// resolver a network round trip.
func (c *Controller) SetCurrentTenant(sessionID string, tenant *entity.Tenant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides[sessionID] = tenant
}

func (c *Controller) override(sessionID string) *entity.Tenant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overrides[sessionID]
}

// realTenant reports whether t identifies an actual configured tenant.
// The sentinel default tenant id means "no tenant yet".
func (c *Controller) realTenant(t *entity.Tenant) bool {
	return t != nil && t.ID != "" && t.ID != c.defaultTenantID
}

// resolveCurrentTenant tries, in order: the session override, the hint
// supplied with the open request, and the authenticated who-am-I call.
// Every failure is swallowed; nil means "start the create wizard".
func (c *Controller) resolveCurrentTenant(ctx context.Context, sessionID string, hint *entity.Tenant) *entity.Tenant {
	if t := c.override(sessionID); c.realTenant(t) {
		return t
	}
	if c.realTenant(hint) {
		return hint
	}
	t, err := c.tenants.CurrentTenant(ctx)
	if err != nil {
		c.log.With(
			slog.String("session_id", sessionID),
			sl.Err(err),
		).Debug("tenant lookup failed, assuming new user")
		return nil
	}
	if c.realTenant(t) {
		return t
	}
	return nil
}

// OpenSession starts (or resumes) a session. The resolved tenant decides the
// top-level wizard: no tenant → create, existing tenant → configure.
func (c *Controller) OpenSession(ctx context.Context, m Messenger, platform, sessionID, chatID string, hint *entity.Tenant) (*ChatState, error) {
	state, err := c.storage.Load(ctx, platform, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if state != nil {
		// Closing the window never tears the session down; reopening
		// resumes exactly where the user left off. No handler survives
		// a reconnect, so a persisted in-flight flag is always stale.
		state.Processing = false
		if err := c.promptResume(ctx, m, state); err != nil {
			return nil, err
		}
		return state, c.storage.Save(ctx, state)
	}

	state = NewChatState(platform, sessionID, chatID)

	if tenant := c.resolveCurrentTenant(ctx, sessionID, hint); tenant != nil {
		state.Mode = ModeConfigureTenant
		state.TenantID = tenant.ID
		state.TenantName = tenant.CompanyName
		c.sendText(state, m, fmt.Sprintf("Welcome back to %s!", tenant.CompanyName))
		c.sendMenu(state, m, c.configureSteps[0].Message, ConfigureOptions())
	} else {
		state.Mode = ModeCreateTenant
		if err := c.enterStep(ctx, m, state); err != nil {
			return nil, err
		}
	}

	c.log.With(
		slog.String("platform", platform),
		slog.String("session_id", sessionID),
		slog.String("mode", string(state.Mode)),
	).Info("session opened")

	return state, c.storage.Save(ctx, state)
}

// promptResume re-sends the prompt for whatever the session is waiting on.
func (c *Controller) promptResume(ctx context.Context, m Messenger, state *ChatState) error {
	switch {
	case state.ConversationMode:
		return c.sendText(state, m, "We were chatting — ask away, or say \"menu\" to go back to setup.")
	case state.AwaitingEntityContinue:
		return c.sendText(state, m, "Add another entity? (yes/no)")
	case state.CreatingEntity:
		return c.promptEntityStep(m, state)
	case state.AwaitingDocumentContinue:
		return c.sendText(state, m, "Upload another document? (yes/no)")
	case state.AwaitingDocumentUpload:
		return c.sendMenu(state, m, "Attach the document you'd like me to process:", DocumentTypeOptions())
	case state.Mode == ModeConfigureTenant && state.CurrentStep == 0:
		return c.sendMenu(state, m, c.configureSteps[0].Message, ConfigureOptions())
	case state.Mode == ModeCreateTenant:
		steps := c.stepsFor(state.Mode)
		if state.CurrentStep < len(steps) && steps[state.CurrentStep].Question != "" {
			return c.sendText(state, m, steps[state.CurrentStep].Question)
		}
	}
	return nil
}

// HandleMessage processes one text input for a session. It is the single
// entry point for text from every transport.
func (c *Controller) HandleMessage(ctx context.Context, m Messenger, platform, sessionID, text string) error {
	state, err := c.storage.Load(ctx, platform, sessionID)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		// Message before open: treat it as opening the session.
		_, err := c.OpenSession(ctx, m, platform, sessionID, sessionID, nil)
		return err
	}

	if state.Processing {
		c.log.With(
			slog.String("platform", platform),
			slog.String("session_id", sessionID),
		).Warn("input ignored, previous handler still in flight")
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	state.Processing = true
	if err := c.storage.Save(ctx, state); err != nil {
		state.Processing = false
		return fmt.Errorf("saving state: %w", err)
	}
	defer func() {
		state.Processing = false
		state.UpdatedAt = time.Now()
		if err := c.storage.Save(ctx, state); err != nil {
			c.log.With(
				slog.String("session_id", sessionID),
				sl.Err(err),
			).Error("saving state after input")
		}
	}()

	c.recordIncoming(state, text)
	_ = m.SendTyping(state.ChatID)

	switch {
	case state.ConversationMode:
		return c.handleConversationTurn(ctx, m, state, text)
	case state.AwaitingEntityContinue:
		return c.handleEntityContinue(ctx, m, state, text)
	case state.CreatingEntity:
		return c.handleEntityStep(ctx, m, state, text)
	case state.AwaitingDocumentContinue:
		return c.handleDocumentContinue(ctx, m, state, text)
	case state.AwaitingDocumentUpload:
		return c.handleDocumentText(ctx, m, state, text)
	default:
		return c.advanceSequence(ctx, m, state, text)
	}
}

func (c *Controller) stepsFor(mode Mode) []StepDefinition {
	switch mode {
	case ModeCreateTenant:
		return c.createSteps
	case ModeConfigureTenant:
		return c.configureSteps
	default:
		return nil
	}
}

// advanceSequence is the linear step sequencer: store the answer, move to
// the next step and prompt it. The configure menu step never stores text —
// its input goes to the option dispatcher.
func (c *Controller) advanceSequence(ctx context.Context, m Messenger, state *ChatState, text string) error {
	steps := c.stepsFor(state.Mode)
	if steps == nil {
		// Wizard finished earlier in this session.
		return c.sendText(state, m, "Setup is finished here — refresh the page to keep working in your workspace.")
	}
	if state.Mode == ModeConfigureTenant && state.CurrentStep == 0 {
		return c.handleConfigureOption(ctx, m, state, text)
	}
	if state.CurrentStep >= len(steps) {
		return c.complete(ctx, m, state)
	}

	step := steps[state.CurrentStep]
	if step.Field != "" && !step.Final {
		state.Set(step.Field, strings.TrimSpace(text))
	}
	state.CurrentStep++
	return c.enterStep(ctx, m, state)
}

// enterStep prompts the current step; a Final step short-circuits straight
// to completion without waiting for more input.
func (c *Controller) enterStep(ctx context.Context, m Messenger, state *ChatState) error {
	steps := c.stepsFor(state.Mode)
	if state.CurrentStep >= len(steps) {
		return c.complete(ctx, m, state)
	}

	step := steps[state.CurrentStep]
	if step.Message != "" {
		if state.Mode == ModeConfigureTenant && step.ID == StepIDMenu {
			if err := c.sendMenu(state, m, step.Message, ConfigureOptions()); err != nil {
				return err
			}
		} else if err := c.sendText(state, m, step.Message); err != nil {
			return err
		}
	}
	if step.Question != "" {
		if err := c.sendText(state, m, step.Question); err != nil {
			return err
		}
	}
	if step.Final {
		return c.complete(ctx, m, state)
	}
	return nil
}

// returnToMenu resets every sub-flow and re-offers the configure options.
func (c *Controller) returnToMenu(m Messenger, state *ChatState) error {
	state.ResetSubFlows()
	state.CurrentStep = 0
	return c.sendMenu(state, m, "What would you like to configure next?", ConfigureOptions())
}

// Transcript recording: every inbound and outbound message becomes a typed
// record handed to the listener for persistence and broadcast.

func (c *Controller) recordIncoming(state *ChatState, text string) {
	if c.listener == nil {
		return
	}
	c.listener.SaveAndBroadcastChatMessage(entity.ChatMessage{
		Platform:  state.Platform,
		SessionID: state.SessionID,
		ChatID:    state.ChatID,
		Direction: "incoming",
		Sender:    "user",
		Text:      text,
		CreatedAt: time.Now(),
	})
}

func (c *Controller) recordOutgoing(state *ChatState, text string, options []entity.ChatOption) {
	if c.listener == nil {
		return
	}
	c.listener.SaveAndBroadcastChatMessage(entity.ChatMessage{
		Platform:  state.Platform,
		SessionID: state.SessionID,
		ChatID:    state.ChatID,
		Direction: "outgoing",
		Sender:    "bot",
		Text:      text,
		Options:   options,
		CreatedAt: time.Now(),
	})
}

func (c *Controller) sendText(state *ChatState, m Messenger, text string) error {
	if err := m.SendText(state.ChatID, text); err != nil {
		c.log.With(
			slog.String("session_id", state.SessionID),
			sl.Err(err),
		).Warn("sending message")
		return err
	}
	c.recordOutgoing(state, text, nil)
	return nil
}

func (c *Controller) sendMenu(state *ChatState, m Messenger, text string, options []entity.ChatOption) error {
	if err := m.SendMenu(state.ChatID, text, options); err != nil {
		c.log.With(
			slog.String("session_id", state.SessionID),
			sl.Err(err),
		).Warn("sending menu")
		return err
	}
	c.recordOutgoing(state, text, options)
	return nil
}
