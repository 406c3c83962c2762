package tenant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"TenantPilot/entity"
	"TenantPilot/internal/config"
	"TenantPilot/internal/lib/sl"
)

// TokenProvider hands out a fresh bearer token for each call.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type Service struct {
	BaseURL         string
	DefaultTenantID string
	tokens          TokenProvider
	client          *http.Client
	Log             *slog.Logger
}

func NewTenantService(conf *config.Config, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		BaseURL:         conf.Platform.BaseURL,
		DefaultTenantID: conf.Platform.DefaultTenantID,
		tokens:          tokens,
		client:          &http.Client{Timeout: time.Duration(conf.Platform.TimeoutSeconds) * time.Second},
		Log:             logger.With(sl.Module("tenant service")),
	}
}

func (r *Service) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		requestBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %v", err)
		}
		body = bytes.NewBuffer(requestBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	token, err := r.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth token: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	return respBody, nil
}

// CurrentTenant asks the platform who the caller is. A missing or
// placeholder tenant id means the user has no workspace yet.
func (r *Service) CurrentTenant(ctx context.Context) (*entity.Tenant, error) {
	body, err := r.do(ctx, "GET", "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}

	response, err := ParseTenantResponse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("response indicated failure: %s", response.Message)
	}

	if response.Tenant.ID == "" || response.Tenant.ID == r.DefaultTenantID {
		return nil, nil
	}

	r.Log.With(
		slog.String("tenant_id", response.Tenant.ID),
	).Debug("current tenant")

	return &response.Tenant, nil
}

func (r *Service) CreateTenant(ctx context.Context, payload entity.TenantPayload) (*entity.Tenant, error) {
	body, err := r.do(ctx, "POST", "/api/tenants", payload)
	if err != nil {
		return nil, err
	}

	response, err := ParseTenantResponse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("response indicated failure: %s", response.Message)
	}

	r.Log.With(
		slog.String("tenant_id", response.Tenant.ID),
		slog.String("company", response.Tenant.CompanyName),
	).Info("tenant created")

	return &response.Tenant, nil
}

func (r *Service) SwitchTenant(ctx context.Context, tenantID string) error {
	body, err := r.do(ctx, "POST", "/api/tenants/switch", map[string]string{"tenant_id": tenantID})
	if err != nil {
		return err
	}

	response, err := ParseStatusResponse(body)
	if err != nil {
		return fmt.Errorf("failed to parse response: %v", err)
	}
	if !response.Success {
		return fmt.Errorf("response indicated failure: %s", response.Message)
	}

	r.Log.With(
		slog.String("tenant_id", tenantID),
	).Info("switched tenant")

	return nil
}

func (r *Service) CreateEntity(ctx context.Context, draft entity.EntityDraft) error {
	body, err := r.do(ctx, "POST", "/api/entities", draft)
	if err != nil {
		return err
	}

	response, err := ParseStatusResponse(body)
	if err != nil {
		return fmt.Errorf("failed to parse response: %v", err)
	}
	if !response.Success {
		return fmt.Errorf("response indicated failure: %s", response.Message)
	}

	r.Log.With(
		slog.String("entity", draft.Name),
		slog.String("type", string(draft.Type)),
	).Debug("entity created")

	return nil
}
