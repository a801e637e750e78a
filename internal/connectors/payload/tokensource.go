package payload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/accords-library/search-sync/internal/core/domain"
)

// TokenType is the Authorization scheme Payload expects.
const TokenType = "JWT"

// loginPath is the credential exchange endpoint.
const loginPath = "/users/login"

// loginTokenSource implements oauth2.TokenSource by logging in to Payload.
// Wrap it in oauth2.ReuseTokenSource to cache tokens until expiry.
type loginTokenSource struct {
	ctx      context.Context
	http     *http.Client
	url      string
	email    string
	password string
}

// newLoginTokenSource creates a token source for the given credentials.
func newLoginTokenSource(ctx context.Context, client *http.Client, baseURL, email, password string) *loginTokenSource {
	return &loginTokenSource{
		ctx:      ctx,
		http:     client,
		url:      baseURL + loginPath,
		email:    email,
		password: password,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	// Exp is the token expiry in Unix seconds.
	Exp int64 `json:"exp"`
}

// Token implements oauth2.TokenSource.
func (s *loginTokenSource) Token() (*oauth2.Token, error) {
	payload, err := json.Marshal(loginRequest{Email: s.email, Password: s.password})
	if err != nil {
		return nil, fmt.Errorf("encode login: %w", err)
	}

	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: login: %w", domain.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read login response: %w", domain.ErrConnectivity, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, s.url, body)
	}

	var login loginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if login.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", domain.ErrUnauthorized)
	}

	token := &oauth2.Token{
		AccessToken: login.Token,
		TokenType:   TokenType,
	}
	if login.Exp > 0 {
		token.Expiry = time.Unix(login.Exp, 0)
	}
	return token, nil
}
