package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"storeit/internal/config"
)

// smtpSender implements Sender over SMTP.
type smtpSender struct {
	client *gomail.Client
	from   string
}

// NewSMTP creates an SMTP-backed Sender from configuration.
func NewSMTP(cfg config.SMTPConfig) (Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &smtpSender{client: client, from: cfg.From}, nil
}

// SendOTP emails the verification code.
func (s *smtpSender) SendOTP(ctx context.Context, to, code string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject("Your verification code")
	msg.SetBodyString(gomail.TypeTextPlain,
		fmt.Sprintf("Your verification code is %s. It expires shortly; if you did not request it, ignore this email.", code))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}
