package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"techwatch/internal/observability/logging"
)

// SMTPConfig holds the delivery settings for the SMTP sink. Password is the
// only secret; it comes from the environment, never from configuration files.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Sender    string
	Recipient string
	Timeout   time.Duration
}

// Validate checks that the config can address and reach a mail server.
func (c SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.Sender == "" {
		return fmt.Errorf("sender address is required")
	}
	if c.Recipient == "" {
		return fmt.Errorf("recipient address is required")
	}
	return nil
}

// SMTPMailer delivers rendered digests over SMTP.
type SMTPMailer struct {
	client *mail.Client
	cfg    SMTPConfig
}

// NewSMTPMailer creates an SMTP sink. Authentication is plain over an
// implicit STARTTLS upgrade, which is what the common transactional
// providers expect.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("smtp config: %w", err)
	}

	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Username == "" {
		cfg.Username = cfg.Sender
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPMailer{client: client, cfg: cfg}, nil
}

// Deliver sends the rendered HTML digest to the configured recipient.
func (m *SMTPMailer) Deliver(ctx context.Context, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.cfg.Recipient); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send digest to %s: %w", m.cfg.Recipient, err)
	}

	logging.FromContext(ctx).Info("digest delivered",
		slog.String("recipient", m.cfg.Recipient),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(htmlBody)))
	return nil
}
