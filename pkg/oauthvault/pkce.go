// Package oauthvault implements the OAuth 2.0 PKCE (S256) handshake used
// to authorize the social API client, and the AES-256-GCM vault that
// keeps the resulting refresh token encrypted at rest.
package oauthvault

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
)

// Challenge is one PKCE handshake: the verifier kept client-side and the
// S256 challenge sent to the authorization endpoint, plus the opaque
// state string returned unmodified in the callback to guard against CSRF.
type Challenge struct {
	Verifier  string
	Challenge string
	State     string
}

// NewChallenge generates a fresh PKCE verifier/challenge pair via
// golang.org/x/oauth2's own PKCE helpers, plus a state string from
// crypto/rand for the callback's CSRF guard.
func NewChallenge() (Challenge, error) {
	state, err := randomURLSafeString(16)
	if err != nil {
		return Challenge{}, fmt.Errorf("oauthvault: generate state: %w", err)
	}

	verifier := oauth2.GenerateVerifier()
	sum := sha256.Sum256([]byte(verifier))
	return Challenge{
		Verifier:  verifier,
		Challenge: base64.RawURLEncoding.EncodeToString(sum[:]),
		State:     state,
	}, nil
}

// AuthCodeURL builds the authorization-endpoint URL for this handshake,
// attaching the S256 challenge derived from c.Verifier.
func (c Challenge) AuthCodeURL(cfg *oauth2.Config) string {
	return cfg.AuthCodeURL(c.State, oauth2.S256ChallengeOption(c.Verifier))
}

// Exchange trades an authorization code for a token, presenting the PKCE
// verifier so the authorization server can recompute and check the
// challenge it was given in AuthCodeURL.
func (c Challenge) Exchange(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	token, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(c.Verifier))
	if err != nil {
		return nil, fmt.Errorf("oauthvault: exchange code: %w", err)
	}
	return token, nil
}

func randomURLSafeString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
