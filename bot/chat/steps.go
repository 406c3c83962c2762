package chat

// StepDefinition describes one step of a top-level wizard. The tables below
// are the only source of wizard structure; they are loaded once at controller
// construction and never mutated.
type StepDefinition struct {
	ID       string
	Message  string // informational text shown on entering the step
	Question string // prompt that waits for an answer; empty for menu/terminal steps
	Field    string // user-data key the answer is stored under
	Required bool
	Final    bool // short-circuits straight to completion, no further input
}

// User-data fields collected by the create-tenant wizard.
const (
	FieldCompanyName = "company_name"
	FieldDescription = "description"
	FieldIndustry    = "industry"
	FieldUseTemplate = "use_template"
)

// Step IDs with special sequencer handling.
const (
	StepIDMenu   = "menu"
	StepIDCreate = "create"
)

// CreateTenantSteps is the ordered step table for first-time setup.
func CreateTenantSteps() []StepDefinition {
	return []StepDefinition{
		{
			ID:       "welcome",
			Message:  "Hi! I'll help you set up your company workspace — four quick questions and you're in.",
			Question: "What is your company's name?",
			Field:    FieldCompanyName,
			Required: true,
		},
		{
			ID:       "description",
			Question: "In a sentence or two, what does the company do?",
			Field:    FieldDescription,
		},
		{
			ID:       "industry",
			Question: "What industry are you in? (e.g. retail, technology, services)",
			Field:    FieldIndustry,
			Required: true,
		},
		{
			ID:       "use_template",
			Question: "Want to start from a ready-made chart of accounts for your industry? (yes/no)",
			Field:    FieldUseTemplate,
			Required: true,
		},
		{
			ID:      StepIDCreate,
			Message: "Thanks! Creating your workspace now…",
			Final:   true,
		},
	}
}

// ConfigureTenantSteps is the ordered step table for an already-configured
// tenant. The menu step never stores free text; its input is routed to the
// configure option dispatcher.
func ConfigureTenantSteps() []StepDefinition {
	return []StepDefinition{
		{
			ID:      StepIDMenu,
			Message: "What would you like to work on?",
		},
		{
			ID:      "goodbye",
			Message: "All set. Come back any time you want to adjust your workspace. 👋",
			Final:   true,
		},
	}
}
