// Package notify delivers run summaries to people: a chat channel via
// incoming webhook and an email hand-off.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// SlackWebhook posts plain-text messages to a Slack incoming webhook. With
// no URL configured it logs the message instead, which is what local runs
// want.
type SlackWebhook struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewSlackWebhook(url string, httpClient *http.Client, logger *slog.Logger) *SlackWebhook {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SlackWebhook{url: url, httpClient: httpClient, logger: logger}
}

func (s *SlackWebhook) Notify(ctx context.Context, text string) error {
	if s.url == "" {
		s.logger.Info("slack webhook not configured, logging message", "text", text)
		return nil
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("slack payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack post: %s: %s", resp.Status, body)
	}
	return nil
}
