package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"TenantPilot/entity"
)

func startEntity(t *testing.T, c *Controller, m *fakeMessenger) *ChatState {
	t.Helper()
	state := openConfigured(t, c, m)
	if err := c.HandleMessage(context.Background(), m, "web", "s1", "1"); err != nil {
		t.Fatalf("start entity flow: %v", err)
	}
	if !state.CreatingEntity {
		t.Fatal("entity flow did not start")
	}
	m.reset()
	return state
}

func TestEntityFlowCollectsAndSubmits(t *testing.T) {
	tenants := &fakeTenantService{}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}
	state := startEntity(t, c, m)
	ctx := context.Background()

	for _, answer := range []string{"North Branch", "Our northern office", "branch"} {
		if err := c.HandleMessage(ctx, m, "web", "s1", answer); err != nil {
			t.Fatalf("HandleMessage(%q): %v", answer, err)
		}
	}

	if len(tenants.entities) != 1 {
		t.Fatalf("CreateEntity called %d times, want 1", len(tenants.entities))
	}
	draft := tenants.entities[0]
	if draft.Name != "North Branch" || draft.Description != "Our northern office" || draft.Type != entity.EntityBranch {
		t.Errorf("submitted draft = %+v", draft)
	}
	if !state.AwaitingEntityContinue {
		t.Error("expected the add-another prompt after submission")
	}
	if state.EntityDraft != nil {
		t.Error("draft must be discarded after submission")
	}
}

func TestEntityDescriptionSkip(t *testing.T) {
	tenants := &fakeTenantService{}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}
	startEntity(t, c, m)
	ctx := context.Background()

	for _, answer := range []string{"Sub Co", "SKIP", "subsidiary"} {
		if err := c.HandleMessage(ctx, m, "web", "s1", answer); err != nil {
			t.Fatalf("HandleMessage(%q): %v", answer, err)
		}
	}

	if tenants.entities[0].Description != "" {
		t.Errorf("Description = %q, want empty after skip", tenants.entities[0].Description)
	}
}

// Unknown entity types coerce silently to "other"; the wizard never bounces.
func TestEntityTypeCoercion(t *testing.T) {
	tenants := &fakeTenantService{}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}
	startEntity(t, c, m)
	ctx := context.Background()

	for _, answer := range []string{"HQ", "skip", "headquarters"} {
		if err := c.HandleMessage(ctx, m, "web", "s1", answer); err != nil {
			t.Fatalf("HandleMessage(%q): %v", answer, err)
		}
	}

	if tenants.entities[0].Type != entity.EntityOther {
		t.Errorf("Type = %q, want other", tenants.entities[0].Type)
	}
}

func TestEntityContinueLoop(t *testing.T) {
	tenants := &fakeTenantService{}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}
	state := startEntity(t, c, m)
	ctx := context.Background()

	for _, answer := range []string{"One", "skip", "division"} {
		if err := c.HandleMessage(ctx, m, "web", "s1", answer); err != nil {
			t.Fatalf("HandleMessage(%q): %v", answer, err)
		}
	}

	// Unrecognized answer re-prompts without moving.
	m.reset()
	if err := c.HandleMessage(ctx, m, "web", "s1", "maybe"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !state.AwaitingEntityContinue {
		t.Error("ambiguous answer must keep the continue prompt active")
	}
	if !strings.Contains(m.all(), "yes or no") {
		t.Errorf("expected a yes/no re-prompt, got %q", m.all())
	}

	// "sim" restarts the flow.
	if err := c.HandleMessage(ctx, m, "web", "s1", "sim"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !state.CreatingEntity || state.EntityStep != 0 {
		t.Error("affirmative answer must restart the entity wizard")
	}

	for _, answer := range []string{"Two", "skip", "division"} {
		if err := c.HandleMessage(ctx, m, "web", "s1", answer); err != nil {
			t.Fatalf("HandleMessage(%q): %v", answer, err)
		}
	}
	m.reset()

	// "no" returns to the menu.
	if err := c.HandleMessage(ctx, m, "web", "s1", "no"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if state.CreatingEntity || state.AwaitingEntityContinue {
		t.Error("negative answer must leave the entity flow")
	}
	if len(m.menus) == 0 {
		t.Error("expected the configure menu after declining")
	}
	if len(tenants.entities) != 2 {
		t.Errorf("CreateEntity called %d times, want 2", len(tenants.entities))
	}
}

func TestEntitySubmitFailureReturnsToMenu(t *testing.T) {
	tenants := &fakeTenantService{entityErr: errors.New("api down")}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}
	state := startEntity(t, c, m)
	ctx := context.Background()

	for _, answer := range []string{"Ghost", "skip", "other"} {
		if err := c.HandleMessage(ctx, m, "web", "s1", answer); err != nil {
			t.Fatalf("HandleMessage(%q): %v", answer, err)
		}
	}

	if state.CreatingEntity || state.AwaitingEntityContinue {
		t.Error("failed submission must abandon the flow")
	}
	if !strings.Contains(m.all(), "couldn't save Ghost") {
		t.Errorf("missing failure message in %q", m.all())
	}
	if len(m.menus) == 0 {
		t.Error("expected the configure menu after the failure")
	}
}
