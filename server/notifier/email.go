package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/stridehq/stride/store"
)

// EmailNotifier sends reminder emails through Resend. Without an API key it
// logs instead of sending, which keeps dev environments quiet.
type EmailNotifier struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
}

// NewEmailNotifier creates an email notifier. An empty apiKey disables
// actual sending.
func NewEmailNotifier(apiKey, fromEmail, toEmail string) *EmailNotifier {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &EmailNotifier{
		client:    client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, reminder *store.Reminder, goal *store.Goal) {
	subject := fmt.Sprintf("Reminder: %s", goal.Title)
	body := fmt.Sprintf("Time to work on your goal %q.\n\n%s\n", goal.Title, goal.Description)

	if n.client == nil {
		slog.Info("reminder email sent (dev mode)", "reminder", reminder.ID, "goal", goal.UID, "subject", subject)
		return
	}

	params := &resend.SendEmailRequest{
		From:    n.fromEmail,
		To:      []string{n.toEmail},
		Subject: subject,
		Text:    body,
	}
	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		slog.Warn("failed to send reminder email", "reminder", reminder.ID, "goal", goal.UID, "error", err)
		return
	}
	slog.Info("reminder email sent", "reminder", reminder.ID, "goal", goal.UID)
}
