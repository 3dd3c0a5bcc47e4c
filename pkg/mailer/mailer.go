package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
)

// Sender delivers the transactional mail the platform needs.
type Sender interface {
	SendRegistrationOTP(ctx context.Context, email, code string) error
	SendPasswordResetOTP(ctx context.Context, email, code string) error
}

type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Mailer sends mail through Resend. In dev mode without an API key it logs
// the message instead of sending.
type Mailer struct {
	emails emailsAPI
	from   string
	dev    bool
	logg   *logger.Logger
}

func New(cfg config.ResendConfig, dev bool, logg *logger.Logger) *Mailer {
	m := &Mailer{
		from: cfg.DefaultFrom,
		dev:  dev,
		logg: logg,
	}
	if cfg.APIKey != "" {
		m.emails = resend.NewClient(cfg.APIKey).Emails
	}
	return m
}

// SendRegistrationOTP mails the signup verification code.
func (m *Mailer) SendRegistrationOTP(ctx context.Context, email, code string) error {
	subject := "Verify your PhoneBech account"
	body := fmt.Sprintf("Your PhoneBech verification code is %s. It expires in 10 minutes.", code)
	return m.send(ctx, "registration_otp", email, subject, body)
}

// SendPasswordResetOTP mails the password reset code.
func (m *Mailer) SendPasswordResetOTP(ctx context.Context, email, code string) error {
	subject := "Reset your PhoneBech password"
	body := fmt.Sprintf("Your PhoneBech password reset code is %s. It expires in 10 minutes.", code)
	return m.send(ctx, "password_reset_otp", email, subject, body)
}

func (m *Mailer) send(ctx context.Context, kind, email, subject, body string) error {
	if m.emails == nil {
		if m.dev {
			if m.logg != nil {
				ctx = m.logg.WithFields(ctx, map[string]any{"type": kind, "to": email, "subject": subject})
				m.logg.Info(ctx, "email sent (dev mode)")
			}
			return nil
		}
		return errors.New("mailer not configured (missing resend api key)")
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	if _, err := m.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("sending %s email: %w", kind, err)
	}
	if m.logg != nil {
		ctx = m.logg.WithFields(ctx, map[string]any{"type": kind, "to": email})
		m.logg.Info(ctx, "email sent")
	}
	return nil
}
