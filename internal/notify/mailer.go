package notify

import (
	"context"
	"fmt"

	"goodfood/pkg/logger"
)

// Mailer is the external mail transport collaborator.
type Mailer interface {
	Send(ctx context.Context, address, subject, body string) error
}

// LogMailer records the send instead of performing it. Stands in for a real
// SMTP transport in development deployments.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, address, subject, _ string) error {
	m.log.Info("email_sent", fmt.Sprintf("Sent %q to %s", subject, address))
	return nil
}
