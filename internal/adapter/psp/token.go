package psp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pix-gateway/internal/core/ports"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	tokenCacheTimeout = 2 * time.Second
	tokenExpiryMargin = time.Minute
)

// cachedTokenSource shares access tokens through cache so replicas do not
// each request their own.
type cachedTokenSource struct {
	base  oauth2.TokenSource
	cache ports.TokenCache
	key   string
	log   zerolog.Logger
	now   func() time.Time
}

func (s *cachedTokenSource) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), tokenCacheTimeout)
	defer cancel()

	if tok := s.cached(ctx); tok != nil {
		return tok, nil
	}

	tok, err := s.base.Token()
	if err != nil {
		return nil, tokenError(err)
	}
	s.store(ctx, tok)
	return tok, nil
}

func (s *cachedTokenSource) cached(ctx context.Context) *oauth2.Token {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Msg("psp: token cache read failed")
		return nil
	}
	if raw == nil {
		return nil
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil
	}
	if tok.AccessToken == "" || tok.Expiry.Before(s.now().Add(tokenExpiryMargin)) {
		return nil
	}
	return &tok
}

func (s *cachedTokenSource) store(ctx context.Context, tok *oauth2.Token) {
	if s.cache == nil || tok.Expiry.IsZero() {
		return
	}
	ttl := tok.Expiry.Sub(s.now()) - tokenExpiryMargin
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(tok)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.key, raw, ttl); err != nil {
		s.log.Warn().Err(err).Msg("psp: token cache write failed")
	}
}

func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return &Error{
			Op:      "token",
			Status:  re.Response.StatusCode,
			Name:    re.ErrorCode,
			Message: strings.TrimSpace(string(re.Body)),
		}
	}
	return fmt.Errorf("psp token: %w", err)
}
