package notifier

import (
	"context"
	"log/slog"

	"github.com/stridehq/stride/store"
)

// PushNotifier emits push reminders. The actual transport (APNs, FCM, web
// push) is deployment-specific; this implementation logs the firing so the
// scheduler path is complete end to end.
type PushNotifier struct{}

// NewPushNotifier creates a push notifier.
func NewPushNotifier() *PushNotifier {
	return &PushNotifier{}
}

func (*PushNotifier) Notify(ctx context.Context, reminder *store.Reminder, goal *store.Goal) {
	slog.Info("reminder push fired", "reminder", reminder.ID, "goal", goal.UID, "title", goal.Title)
}
