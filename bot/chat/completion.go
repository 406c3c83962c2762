package chat

import (
	"context"
	"fmt"
	"log/slog"

	"TenantPilot/entity"
	"TenantPilot/internal/lib/sl"
)

// Chart-of-accounts template ids.
const (
	TemplateGeneral = "general"
	TemplateCustom  = "custom"
)

// industryTemplates maps normalized industry answers to template ids.
var industryTemplates = map[string]string{
	"retail":        "retail",
	"ecommerce":     "retail",
	"e-commerce":    "retail",
	"restaurant":    "restaurant",
	"food":          "restaurant",
	"hospitality":   "restaurant",
	"technology":    "technology",
	"tech":          "technology",
	"software":      "technology",
	"saas":          "technology",
	"services":      "services",
	"consulting":    "services",
	"agency":        "services",
	"manufacturing": "manufacturing",
	"industrial":    "manufacturing",
}

// TemplateForIndustry picks a chart-of-accounts template from the free-text
// industry answer. The lookup only applies when the user opted into a
// template; unmapped industries fall back to the generic template.
func TemplateForIndustry(industry string, useTemplate bool) string {
	if !useTemplate {
		return TemplateCustom
	}
	if template, ok := industryTemplates[NormalizeInput(industry)]; ok {
		return template
	}
	return TemplateGeneral
}

// BuildTenantPayload assembles the tenant-creation payload from the
// wizard answers.
func BuildTenantPayload(data map[string]string) entity.TenantPayload {
	info := entity.TenantBasicInfo{
		CompanyName: data[FieldCompanyName],
		Description: data[FieldDescription],
		Industry:    data[FieldIndustry],
	}
	coa := entity.ChartOfAccounts{
		Template: TemplateForIndustry(data[FieldIndustry], IsAffirmative(data[FieldUseTemplate])),
	}
	return entity.NewTenantPayload(info, coa)
}

// complete fires when a wizard runs out of steps or hits a Final step.
func (c *Controller) complete(ctx context.Context, m Messenger, state *ChatState) error {
	switch state.Mode {
	case ModeCreateTenant:
		return c.completeCreate(ctx, m, state)
	case ModeConfigureTenant:
		// The goodbye step already printed its message; nothing to assemble.
		state.ResetSubFlows()
		state.Mode = ModeNone
		return nil
	default:
		return nil
	}
}

// completeCreate creates the tenant and switches the user over. The two
// failures are deliberately asymmetric: creation failing means nothing
// happened and the wizard restarts from scratch; switch failing after a
// successful creation must NOT discard anything — the tenant exists.
func (c *Controller) completeCreate(ctx context.Context, m Messenger, state *ChatState) error {
	payload := BuildTenantPayload(state.UserData)

	tenant, err := c.tenants.CreateTenant(ctx, payload)
	if err != nil {
		c.log.With(
			slog.String("session_id", state.SessionID),
			slog.String("company", payload.BasicInfo.CompanyName),
			sl.Err(err),
		).Error("tenant creation failed")
		state.CurrentStep = 0
		state.UserData = make(map[string]string)
		if err := c.sendText(state, m, "I couldn't create your workspace — nothing was saved, so let's start over."); err != nil {
			return err
		}
		return c.enterStep(ctx, m, state)
	}

	state.TenantID = tenant.ID
	state.TenantName = tenant.CompanyName
	if err := c.sendText(state, m, fmt.Sprintf("%s is ready! 🎉", tenant.CompanyName)); err != nil {
		return err
	}

	if err := c.tenants.SwitchTenant(ctx, tenant.ID); err != nil {
		c.log.With(
			slog.String("session_id", state.SessionID),
			slog.String("tenant_id", tenant.ID),
			sl.Err(err),
		).Error("tenant switch failed after creation")
		state.Mode = ModeNone
		return c.sendText(state, m, "Your workspace was created, but I couldn't switch you over automatically — please refresh the page to start using it.")
	}

	state.Mode = ModeNone
	return c.sendText(state, m, "You've been switched to the new workspace. Refresh to see it.")
}
