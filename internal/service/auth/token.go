package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"TenantPilot/internal/config"
	"TenantPilot/internal/lib/sl"
)

var (
	// ErrNotReady is returned while a token fetch is still in flight and no
	// token has been issued yet.
	ErrNotReady = errors.New("auth token not ready")

	// ErrNotAuthenticated is returned when no token source is configured at
	// all; callers should surface this instead of retrying.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// TokenProvider hands out bearer tokens for the platform collaborators.
// It wraps the client-credentials grant and falls back to a static token
// when one is configured instead.
type TokenProvider struct {
	source      oauth2.TokenSource
	staticToken string
	retryDelay  time.Duration
	log         *slog.Logger
}

func NewTokenProvider(conf *config.Config, logger *slog.Logger) *TokenProvider {
	p := &TokenProvider{
		staticToken: conf.Auth.StaticToken,
		retryDelay:  time.Duration(conf.Auth.RetryDelayMS) * time.Millisecond,
		log:         logger.With(sl.Module("auth")),
	}

	if conf.Auth.TokenURL != "" && conf.Auth.ClientID != "" {
		cc := &clientcredentials.Config{
			ClientID:     conf.Auth.ClientID,
			ClientSecret: conf.Auth.ClientSecret,
			TokenURL:     conf.Auth.TokenURL,
		}
		p.source = cc.TokenSource(context.Background())
		p.log.With(
			slog.String("token_url", conf.Auth.TokenURL),
			sl.Secret("client_id", conf.Auth.ClientID),
		).Info("client-credentials token source configured")
	} else if p.staticToken != "" {
		p.log.Info("using static platform token")
	}

	return p
}

// Token returns a bearer token, waiting out one short retry when the first
// fetch reports the source is not ready yet.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	if p.source == nil {
		if p.staticToken != "" {
			return p.staticToken, nil
		}
		return "", ErrNotAuthenticated
	}

	token, err := p.fetch()
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrNotReady) {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(p.retryDelay):
	}

	return p.fetch()
}

func (p *TokenProvider) fetch() (string, error) {
	token, err := p.source.Token()
	if err != nil {
		p.log.With(
			sl.Err(err),
		).Warn("token fetch failed")
		return "", ErrNotReady
	}
	if !token.Valid() {
		return "", ErrNotReady
	}
	return token.AccessToken, nil
}
