package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/resend/resend-go/v2"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
)

type captureEmails struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (c *captureEmails) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.sent = append(c.sent, params)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func TestSendRegistrationOTPIncludesCode(t *testing.T) {
	capture := &captureEmails{}
	m := &Mailer{emails: capture, from: "PhoneBechpk <noreply@phonebechpk.com>"}

	if err := m.SendRegistrationOTP(context.Background(), "buyer@example.com", "482913"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(capture.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(capture.sent))
	}
	sent := capture.sent[0]
	if sent.To[0] != "buyer@example.com" {
		t.Fatalf("unexpected recipient %v", sent.To)
	}
	if !strings.Contains(sent.Text, "482913") {
		t.Fatalf("body should contain the code, got %q", sent.Text)
	}
	if sent.From != "PhoneBechpk <noreply@phonebechpk.com>" {
		t.Fatalf("unexpected from %q", sent.From)
	}
}

func TestDevModeSkipsSendWithoutKey(t *testing.T) {
	m := New(config.ResendConfig{DefaultFrom: "PhoneBechpk <noreply@phonebechpk.com>"}, true, nil)
	if err := m.SendPasswordResetOTP(context.Background(), "buyer@example.com", "111111"); err != nil {
		t.Fatalf("dev mode should not error, got %v", err)
	}
}

func TestProdModeRequiresKey(t *testing.T) {
	m := New(config.ResendConfig{DefaultFrom: "x"}, false, nil)
	if err := m.SendRegistrationOTP(context.Background(), "buyer@example.com", "111111"); err == nil {
		t.Fatalf("expected error without api key")
	}
}
