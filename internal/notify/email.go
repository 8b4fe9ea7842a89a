package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// EmailNotifier delivers notifications through Resend.
type EmailNotifier struct {
	client    *resend.Client
	fromEmail string
}

func NewEmailNotifier(apiKey, fromEmail string) *EmailNotifier {
	return &EmailNotifier{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

func (n *EmailNotifier) Publish(ctx context.Context, recipient, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    n.fromEmail,
		To:      []string{recipient},
		Subject: subject,
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">%s</h2>
				<p>%s</p>
				<p style="color: #888; font-size: 14px; margin-top: 16px;">
					Sent by PeerPulse — your organization's feedback system.
				</p>
			</div>
		`, subject, body),
	}

	sent, err := n.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("📧 Notification sent to %s (ID: %s)", recipient, sent.Id)
	return nil
}
