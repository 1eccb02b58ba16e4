package notify

import (
	"context"
	"log/slog"
	"strings"
)

// LogMailer writes would-be emails to the log. It stands in until an
// outbound mail integration exists; the recipient list is kept so the log
// shows who would have received the summary.
type LogMailer struct {
	from   string
	to     []string
	logger *slog.Logger
}

func NewLogMailer(from string, to []string, logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{from: from, to: to, logger: logger}
}

func (m *LogMailer) Send(_ context.Context, subject, body string) error {
	m.logger.Info("email delivery not wired, logging instead",
		"from", m.from,
		"to", strings.Join(m.to, ","),
		"subject", subject,
		"body_bytes", len(body),
	)
	return nil
}
