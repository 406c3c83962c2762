package chat

import "testing"

func TestTemplateForIndustry(t *testing.T) {
	cases := []struct {
		industry    string
		useTemplate bool
		want        string
	}{
		{"retail", true, "retail"},
		{"Retail", true, "retail"},
		{"e-commerce", true, "retail"},
		{"restaurant", true, "restaurant"},
		{"hospitality", true, "restaurant"},
		{"SaaS", true, "technology"},
		{"software", true, "technology"},
		{"consulting", true, "services"},
		{"manufacturing", true, "manufacturing"},
		{"industrial", true, "manufacturing"},
		{"underwater basket weaving", true, TemplateGeneral},
		{"", true, TemplateGeneral},
		{"retail", false, TemplateCustom},
		{"anything", false, TemplateCustom},
	}
	for _, tc := range cases {
		if got := TemplateForIndustry(tc.industry, tc.useTemplate); got != tc.want {
			t.Errorf("TemplateForIndustry(%q, %v) = %q, want %q", tc.industry, tc.useTemplate, got, tc.want)
		}
	}
}

func TestBuildTenantPayload(t *testing.T) {
	data := map[string]string{
		FieldCompanyName: "Acme & Sons, Ltd.",
		FieldDescription: "We sell anvils",
		FieldIndustry:    "Retail",
		FieldUseTemplate: "sim",
	}

	payload := BuildTenantPayload(data)

	// The company name travels verbatim, punctuation included.
	if payload.BasicInfo.CompanyName != "Acme & Sons, Ltd." {
		t.Errorf("CompanyName = %q, want the raw answer", payload.BasicInfo.CompanyName)
	}
	if payload.BasicInfo.Description != "We sell anvils" {
		t.Errorf("Description = %q", payload.BasicInfo.Description)
	}
	if payload.ChartOfAccounts.Template != "retail" {
		t.Errorf("Template = %q, want %q", payload.ChartOfAccounts.Template, "retail")
	}
	if payload.Entities == nil || payload.BankAccounts == nil || payload.CryptoWallets == nil {
		t.Error("payload collections must be empty, not nil")
	}
}

func TestBuildTenantPayloadDeclinedTemplate(t *testing.T) {
	payload := BuildTenantPayload(map[string]string{
		FieldCompanyName: "Solo",
		FieldIndustry:    "technology",
		FieldUseTemplate: "no",
	})
	if payload.ChartOfAccounts.Template != TemplateCustom {
		t.Errorf("Template = %q, want %q after declining", payload.ChartOfAccounts.Template, TemplateCustom)
	}
}
