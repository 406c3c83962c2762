package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStaticToken(t *testing.T) {
	p := &TokenProvider{staticToken: "abc", log: testLogger()}

	token, err := p.Token(context.Background())
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "abc" {
		t.Errorf("token = %q", token)
	}
}

func TestUnconfigured(t *testing.T) {
	p := &TokenProvider{log: testLogger()}

	_, err := p.Token(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestContextCancelledDuringRetry(t *testing.T) {
	p := &TokenProvider{
		source:     failingSource{},
		retryDelay: time.Minute,
		log:        testLogger(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Token(ctx)
	if err == nil {
		t.Fatal("expected an error")
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled context must cut the retry wait short")
	}
}

type failingSource struct{}

func (failingSource) Token() (*oauth2.Token, error) { return nil, errors.New("nope") }
