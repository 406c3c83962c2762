package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
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

type UploadResponse struct {
	Success bool                `json:"success"`
	Result  entity.UploadResult `json:"data"`
	Message string              `json:"message"`
}

type Service struct {
	BaseURL string
	tokens  TokenProvider
	client  *http.Client
	Log     *slog.Logger
}

func NewDocumentService(conf *config.Config, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		BaseURL: conf.Platform.BaseURL,
		tokens:  tokens,
		client:  &http.Client{Timeout: time.Duration(conf.Platform.TimeoutSeconds) * time.Second},
		Log:     logger.With(sl.Module("document service")),
	}
}

// Upload posts the file as multipart form data and is processed
// synchronously by the platform.
func (r *Service) Upload(ctx context.Context, filename string, file io.Reader, docType entity.DocumentType) (*entity.UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %v", err)
	}
	size, err := io.Copy(part, io.LimitReader(file, entity.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %v", err)
	}
	if size > entity.MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds the %d MB limit", filename, entity.MaxFileSize>>20)
	}

	if err = writer.WriteField("document_type", string(docType)); err != nil {
		return nil, fmt.Errorf("failed to write form field: %v", err)
	}
	if err = writer.WriteField("process_immediately", "true"); err != nil {
		return nil, fmt.Errorf("failed to write form field: %v", err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.BaseURL+"/api/documents/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	token, err := r.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth token: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Content-Type", writer.FormDataContentType())

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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	var response UploadResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("response indicated failure: %s", response.Message)
	}

	r.Log.With(
		slog.String("filename", filename),
		slog.String("type", string(docType)),
		slog.Int("knowledge", len(response.Result.KnowledgeExtracted)),
	).Debug("document processed")

	return &response.Result, nil
}
