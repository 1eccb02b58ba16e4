package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Upstream tokens last an hour; renew with a margin so a long fan-out never
// rides an expiring token.
const tokenLifetime = 50 * time.Minute

// TokenSource logs into the POS auth endpoint and hands out a cached bearer
// token until it nears expiry. Safe for concurrent use by the venue fan-out.
type TokenSource struct {
	authURL      string
	clientID     string
	clientSecret string
	static       string
	httpClient   *http.Client
	now          func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewTokenSource(authURL, clientID, clientSecret, static string, httpClient *http.Client) *TokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TokenSource{
		authURL:      authURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		static:       static,
		httpClient:   httpClient,
		now:          time.Now,
	}
}

// Token returns a valid bearer token. A failed login falls back to the
// static token when one is configured.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.clientID == "" {
		if t.static != "" {
			return t.static, nil
		}
		return "", errors.New("pos: no credentials configured")
	}
	if t.token != "" && t.now().Before(t.expiresAt) {
		return t.token, nil
	}

	token, err := t.login(ctx)
	if err != nil {
		if t.static != "" {
			return t.static, nil
		}
		return "", err
	}
	t.token = token
	t.expiresAt = t.now().Add(tokenLifetime)
	return token, nil
}

func (t *TokenSource) login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"clientId":       t.clientID,
		"clientSecret":   t.clientSecret,
		"userAccessType": "TOAST_MACHINE_CLIENT",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.authURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pos login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pos login: %s: %s", resp.Status, body)
	}

	var auth struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", fmt.Errorf("pos login decode: %w", err)
	}
	if auth.Token.AccessToken == "" {
		return "", errors.New("pos login: empty access token")
	}
	return auth.Token.AccessToken, nil
}
