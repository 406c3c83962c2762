package document

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"TenantPilot/entity"
)

type staticTokens string

func (s staticTokens) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

func testService(baseURL string) *Service {
	return &Service{
		BaseURL: baseURL,
		tokens:  staticTokens("test-token"),
		client:  &http.Client{Timeout: 5 * time.Second},
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestUploadMultipartFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/documents/upload" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("document_type"); got != "invoice" {
			t.Errorf("document_type = %q", got)
		}
		if got := r.FormValue("process_immediately"); got != "true" {
			t.Errorf("process_immediately = %q", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "inv-42.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		body, _ := io.ReadAll(file)
		if string(body) != "pdf-bytes" {
			t.Errorf("file body = %q", body)
		}

		json.NewEncoder(w).Encode(UploadResponse{
			Success: true,
			Result:  entity.UploadResult{KnowledgeExtracted: []string{"supplier", "due date"}},
		})
	}))
	defer server.Close()

	result, err := testService(server.URL).Upload(context.Background(), "inv-42.pdf", strings.NewReader("pdf-bytes"), entity.DocInvoice)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(result.KnowledgeExtracted) != 2 {
		t.Errorf("KnowledgeExtracted = %v", result.KnowledgeExtracted)
	}
}

func TestUploadEnvelopeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(UploadResponse{Success: false, Message: "unreadable"})
	}))
	defer server.Close()

	_, err := testService(server.URL).Upload(context.Background(), "x.pdf", strings.NewReader("x"), entity.DocOther)
	if err == nil {
		t.Fatal("expected an error for success:false")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	huge := io.LimitReader(neverEnding('a'), entity.MaxFileSize+1)
	_, err := testService(server.URL).Upload(context.Background(), "huge.bin", huge, entity.DocOther)
	if err == nil {
		t.Fatal("expected an error for an oversized file")
	}
	if called {
		t.Error("oversized file must be rejected before any request is sent")
	}
}

type neverEnding byte

func (b neverEnding) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(b)
	}
	return len(p), nil
}
