package entity

// Tenant is a configured business/organization unit the assistant
// can create or configure.
type Tenant struct {
	ID          string `json:"id" bson:"id"`
	CompanyName string `json:"company_name" bson:"company_name"`
}

// TenantBasicInfo carries the answers collected by the create-tenant wizard.
type TenantBasicInfo struct {
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
}

// ChartOfAccounts selects the accounting category template for a new tenant.
type ChartOfAccounts struct {
	Template string `json:"template"`
}

// TenantPayload is the tenant-creation request body. Entities, bank accounts
// and crypto wallets are always sent as empty lists — they are configured
// after the tenant exists.
type TenantPayload struct {
	BasicInfo       TenantBasicInfo `json:"basic_info"`
	Entities        []EntityDraft   `json:"entities"`
	ChartOfAccounts ChartOfAccounts `json:"chart_of_accounts"`
	BankAccounts    []any           `json:"bank_accounts"`
	CryptoWallets   []any           `json:"crypto_wallets"`
}

// NewTenantPayload builds a payload with all list fields initialized,
// so they serialize as [] instead of null.
func NewTenantPayload(info TenantBasicInfo, coa ChartOfAccounts) TenantPayload {
	return TenantPayload{
		BasicInfo:       info,
		Entities:        []EntityDraft{},
		ChartOfAccounts: coa,
		BankAccounts:    []any{},
		CryptoWallets:   []any{},
	}
}
