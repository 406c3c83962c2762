package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"TenantPilot/entity"
)

// Shared fakes for the controller tests.

type fakeMessenger struct {
	texts  []string
	menus  []string
	typing int
}

func (m *fakeMessenger) SendText(chatID, text string) error {
	m.texts = append(m.texts, text)
	return nil
}

func (m *fakeMessenger) SendMenu(chatID, text string, options []entity.ChatOption) error {
	m.menus = append(m.menus, text)
	return nil
}

func (m *fakeMessenger) SendTyping(chatID string) error {
	m.typing++
	return nil
}

func (m *fakeMessenger) all() string {
	return strings.Join(append(append([]string{}, m.texts...), m.menus...), "\n")
}

func (m *fakeMessenger) reset() {
	m.texts = nil
	m.menus = nil
}

type fakeTenantService struct {
	current    *entity.Tenant
	currentErr error
	created    *entity.Tenant
	createErr  error
	switchErr  error
	entityErr  error

	payloads []entity.TenantPayload
	switched []string
	entities []entity.EntityDraft
}

func (f *fakeTenantService) CurrentTenant(ctx context.Context) (*entity.Tenant, error) {
	return f.current, f.currentErr
}

func (f *fakeTenantService) CreateTenant(ctx context.Context, payload entity.TenantPayload) (*entity.Tenant, error) {
	f.payloads = append(f.payloads, payload)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created != nil {
		return f.created, nil
	}
	return &entity.Tenant{ID: "t-new", CompanyName: payload.BasicInfo.CompanyName}, nil
}

func (f *fakeTenantService) SwitchTenant(ctx context.Context, tenantID string) error {
	f.switched = append(f.switched, tenantID)
	return f.switchErr
}

func (f *fakeTenantService) CreateEntity(ctx context.Context, draft entity.EntityDraft) error {
	f.entities = append(f.entities, draft)
	return f.entityErr
}

type fakeDocumentService struct {
	result *entity.UploadResult
	err    error

	filenames []string
	docTypes  []entity.DocumentType
	contents  []string
}

func (f *fakeDocumentService) Upload(ctx context.Context, filename string, file io.Reader, docType entity.DocumentType) (*entity.UploadResult, error) {
	body, _ := io.ReadAll(file)
	f.filenames = append(f.filenames, filename)
	f.docTypes = append(f.docTypes, docType)
	f.contents = append(f.contents, string(body))
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &entity.UploadResult{}, nil
}

type fakeConversationService struct {
	reply *entity.ChatReply
	err   error

	messages  []string
	histories [][]entity.ConversationMessage
}

func (f *fakeConversationService) Chat(ctx context.Context, message string, history []entity.ConversationMessage) (*entity.ChatReply, error) {
	f.messages = append(f.messages, message)
	snapshot := make([]entity.ConversationMessage, len(history))
	copy(snapshot, history)
	f.histories = append(f.histories, snapshot)
	if f.err != nil {
		return nil, f.err
	}
	if f.reply != nil {
		return f.reply, nil
	}
	return &entity.ChatReply{Response: "ok"}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(tenants *fakeTenantService, documents *fakeDocumentService, conversation *fakeConversationService) *Controller {
	if tenants == nil {
		tenants = &fakeTenantService{}
	}
	if documents == nil {
		documents = &fakeDocumentService{}
	}
	if conversation == nil {
		conversation = &fakeConversationService{}
	}
	return NewController(NewMemoryStateStorage(), tenants, documents, conversation, "default", testLogger())
}

func openConfigured(t *testing.T, c *Controller, m *fakeMessenger) *ChatState {
	t.Helper()
	state, err := c.OpenSession(context.Background(), m, "web", "s1", "s1", &entity.Tenant{ID: "t1", CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if state.Mode != ModeConfigureTenant {
		t.Fatalf("Mode = %q, want configure", state.Mode)
	}
	m.reset()
	return state
}

func TestOpenSessionNewUserStartsCreateWizard(t *testing.T) {
	c := newTestController(nil, nil, nil)
	m := &fakeMessenger{}

	state, err := c.OpenSession(context.Background(), m, "web", "s1", "s1", nil)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if state.Mode != ModeCreateTenant {
		t.Errorf("Mode = %q, want create", state.Mode)
	}
	if !strings.Contains(m.all(), "company's name") {
		t.Errorf("opening replies missing the first question: %q", m.all())
	}
}

func TestOpenSessionExistingTenantShowsMenu(t *testing.T) {
	tenants := &fakeTenantService{current: &entity.Tenant{ID: "t1", CompanyName: "Acme"}}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}

	state, err := c.OpenSession(context.Background(), m, "web", "s1", "s1", nil)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if state.Mode != ModeConfigureTenant {
		t.Errorf("Mode = %q, want configure", state.Mode)
	}
	if state.TenantName != "Acme" {
		t.Errorf("TenantName = %q, want Acme", state.TenantName)
	}
	if len(m.menus) == 0 {
		t.Error("expected the configure menu to be sent")
	}
	if !strings.Contains(m.all(), "Welcome back") {
		t.Errorf("missing greeting in %q", m.all())
	}
}

// The sentinel default tenant id never counts as a real tenant.
func TestOpenSessionSentinelTenant(t *testing.T) {
	tenants := &fakeTenantService{current: &entity.Tenant{ID: "default", CompanyName: "placeholder"}}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}

	state, err := c.OpenSession(context.Background(), m, "web", "s1", "s1", nil)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if state.Mode != ModeCreateTenant {
		t.Errorf("Mode = %q, want create for sentinel tenant", state.Mode)
	}
}

// A failed who-am-I lookup is swallowed: the user just gets the create wizard.
func TestOpenSessionLookupFailure(t *testing.T) {
	tenants := &fakeTenantService{currentErr: errors.New("boom")}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}

	state, err := c.OpenSession(context.Background(), m, "web", "s1", "s1", nil)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if state.Mode != ModeCreateTenant {
		t.Errorf("Mode = %q, want create when lookup fails", state.Mode)
	}
}

func TestOpenSessionOverrideWins(t *testing.T) {
	tenants := &fakeTenantService{currentErr: errors.New("unreachable")}
	c := newTestController(tenants, nil, nil)
	c.SetCurrentTenant("s1", &entity.Tenant{ID: "t9", CompanyName: "Override Co"})
	m := &fakeMessenger{}

	state, err := c.OpenSession(context.Background(), m, "web", "s1", "s1", nil)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if state.Mode != ModeConfigureTenant || state.TenantID != "t9" {
		t.Errorf("override ignored: mode=%q tenant=%q", state.Mode, state.TenantID)
	}
}

func TestReopenResumesSession(t *testing.T) {
	c := newTestController(nil, nil, nil)
	m := &fakeMessenger{}
	ctx := context.Background()

	if _, err := c.OpenSession(ctx, m, "web", "s1", "s1", nil); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if err := c.HandleMessage(ctx, m, "web", "s1", "Acme"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	m.reset()

	again, err := c.OpenSession(ctx, m, "web", "s1", "s1", nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if again.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d after reopen, want 1", again.CurrentStep)
	}
	if !strings.Contains(m.all(), "what does the company do") {
		t.Errorf("resume did not re-ask the pending question: %q", m.all())
	}
}

func TestProcessingGuardDropsInput(t *testing.T) {
	c := newTestController(nil, nil, nil)
	m := &fakeMessenger{}
	ctx := context.Background()

	state, err := c.OpenSession(ctx, m, "web", "s1", "s1", nil)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	state.Processing = true
	m.reset()

	if err := c.HandleMessage(ctx, m, "web", "s1", "Acme"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(m.texts) != 0 || len(m.menus) != 0 {
		t.Errorf("guarded input still produced replies: %q", m.all())
	}
	if state.CurrentStep != 0 {
		t.Errorf("guarded input advanced the wizard to step %d", state.CurrentStep)
	}
}

// A crash mid-handler can persist Processing=true; reopening the session
// must clear it so input is accepted again.
func TestReopenClearsStaleProcessingFlag(t *testing.T) {
	c := newTestController(nil, nil, nil)
	m := &fakeMessenger{}
	ctx := context.Background()

	state, err := c.OpenSession(ctx, m, "web", "s1", "s1", nil)
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	state.Processing = true
	if err := c.storage.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := c.OpenSession(ctx, m, "web", "s1", "s1", nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if again.Processing {
		t.Fatal("stale Processing flag must be cleared on reopen")
	}

	m.reset()
	if err := c.HandleMessage(ctx, m, "web", "s1", "Acme"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if again.CurrentStep != 1 {
		t.Errorf("CurrentStep = %d, input still dropped after reopen", again.CurrentStep)
	}
	if len(m.texts) == 0 {
		t.Error("expected the next question after the reopened session accepted input")
	}
}

func TestEmptyInputIgnored(t *testing.T) {
	c := newTestController(nil, nil, nil)
	m := &fakeMessenger{}
	ctx := context.Background()

	state, _ := c.OpenSession(ctx, m, "web", "s1", "s1", nil)
	m.reset()

	if err := c.HandleMessage(ctx, m, "web", "s1", "   "); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(m.texts) != 0 || state.CurrentStep != 0 {
		t.Error("blank input should be a no-op")
	}
}

func TestMessageBeforeOpenOpensSession(t *testing.T) {
	c := newTestController(nil, nil, nil)
	m := &fakeMessenger{}

	if err := c.HandleMessage(context.Background(), m, "web", "s1", "hello"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(m.all(), "company's name") {
		t.Errorf("expected the create wizard to open, got %q", m.all())
	}
}

func runCreateWizard(t *testing.T, c *Controller, m *fakeMessenger, answers ...string) {
	t.Helper()
	ctx := context.Background()
	if _, err := c.OpenSession(ctx, m, "web", "s1", "s1", nil); err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	for _, answer := range answers {
		if err := c.HandleMessage(ctx, m, "web", "s1", answer); err != nil {
			t.Fatalf("HandleMessage(%q): %v", answer, err)
		}
	}
}

func TestCreateWizardHappyPath(t *testing.T) {
	tenants := &fakeTenantService{}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}

	runCreateWizard(t, c, m, "Acme & Sons", "We sell anvils", "retail", "yes")

	if len(tenants.payloads) != 1 {
		t.Fatalf("CreateTenant called %d times, want 1", len(tenants.payloads))
	}
	payload := tenants.payloads[0]
	if payload.BasicInfo.CompanyName != "Acme & Sons" {
		t.Errorf("CompanyName = %q", payload.BasicInfo.CompanyName)
	}
	if payload.ChartOfAccounts.Template != "retail" {
		t.Errorf("Template = %q, want retail", payload.ChartOfAccounts.Template)
	}
	if len(tenants.switched) != 1 || tenants.switched[0] != "t-new" {
		t.Errorf("SwitchTenant calls = %v, want [t-new]", tenants.switched)
	}
	if !strings.Contains(m.all(), "ready") {
		t.Errorf("missing success message in %q", m.all())
	}

	state, _ := c.storage.Load(context.Background(), "web", "s1")
	if state.Mode != ModeNone {
		t.Errorf("Mode = %q after completion, want none", state.Mode)
	}
	if state.TenantID != "t-new" {
		t.Errorf("TenantID = %q, want t-new", state.TenantID)
	}
}

// Creation failing means nothing was saved: the wizard restarts from scratch.
func TestCreateFailureRestartsWizard(t *testing.T) {
	tenants := &fakeTenantService{createErr: errors.New("platform down")}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}

	runCreateWizard(t, c, m, "Acme", "anvils", "retail", "yes")

	state, _ := c.storage.Load(context.Background(), "web", "s1")
	if state.CurrentStep != 0 {
		t.Errorf("CurrentStep = %d after failed creation, want 0", state.CurrentStep)
	}
	if len(state.UserData) != 0 {
		t.Errorf("UserData = %v, want cleared", state.UserData)
	}
	if state.Mode != ModeCreateTenant {
		t.Errorf("Mode = %q, want create so the user can try again", state.Mode)
	}
	if len(tenants.switched) != 0 {
		t.Error("SwitchTenant must not be called when creation fails")
	}
	if !strings.Contains(m.all(), "start over") {
		t.Errorf("missing restart message in %q", m.all())
	}
}

// Switch failing after a successful creation must NOT discard anything.
func TestSwitchFailureKeepsTenant(t *testing.T) {
	tenants := &fakeTenantService{switchErr: errors.New("switch down")}
	c := newTestController(tenants, nil, nil)
	m := &fakeMessenger{}

	runCreateWizard(t, c, m, "Acme", "anvils", "retail", "yes")

	state, _ := c.storage.Load(context.Background(), "web", "s1")
	if state.TenantID != "t-new" {
		t.Errorf("TenantID = %q, the created tenant must be kept", state.TenantID)
	}
	if len(state.UserData) == 0 {
		t.Error("UserData must survive a failed switch")
	}
	if state.Mode != ModeNone {
		t.Errorf("Mode = %q, want none", state.Mode)
	}
	if !strings.Contains(m.all(), "refresh") {
		t.Errorf("missing manual-refresh hint in %q", m.all())
	}
}

func TestConfigureUnknownInputReprompts(t *testing.T) {
	c := newTestController(&fakeTenantService{}, nil, nil)
	m := &fakeMessenger{}
	state := openConfigured(t, c, m)

	if err := c.HandleMessage(context.Background(), m, "web", "s1", "purple monkey dishwasher"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if state.CurrentStep != 0 {
		t.Errorf("unknown input advanced the menu to step %d", state.CurrentStep)
	}
	if len(m.menus) == 0 {
		t.Error("expected the menu to be re-offered")
	}
}

func TestConfigureExit(t *testing.T) {
	c := newTestController(&fakeTenantService{}, nil, nil)
	m := &fakeMessenger{}
	state := openConfigured(t, c, m)

	if err := c.HandleMessage(context.Background(), m, "web", "s1", "5"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if state.Mode != ModeNone {
		t.Errorf("Mode = %q after exit, want none", state.Mode)
	}
	if !strings.Contains(m.all(), "All set") {
		t.Errorf("missing goodbye in %q", m.all())
	}
}

func TestConfigureBankAccountsIsTerminal(t *testing.T) {
	c := newTestController(&fakeTenantService{}, nil, nil)
	m := &fakeMessenger{}
	state := openConfigured(t, c, m)

	if err := c.HandleMessage(context.Background(), m, "web", "s1", "connect my bank"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if state.Mode != ModeNone {
		t.Errorf("Mode = %q, want none after navigating away", state.Mode)
	}
	if !strings.Contains(m.all(), "bank accounts section") {
		t.Errorf("missing handoff message in %q", m.all())
	}
}

// After a wizard ended, further text gets the finished notice.
func TestFinishedSessionText(t *testing.T) {
	c := newTestController(&fakeTenantService{}, nil, nil)
	m := &fakeMessenger{}
	openConfigured(t, c, m)

	if err := c.HandleMessage(context.Background(), m, "web", "s1", "5"); err != nil {
		t.Fatalf("exit: %v", err)
	}
	m.reset()
	if err := c.HandleMessage(context.Background(), m, "web", "s1", "hello again"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(m.all(), "finished") {
		t.Errorf("expected the finished notice, got %q", m.all())
	}
}
