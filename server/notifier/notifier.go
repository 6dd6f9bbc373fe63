// Package notifier delivers fired reminders to their configured channel.
// Delivery is fire-and-forget from the scheduler's perspective: failures are
// logged by the channel, never retried by the caller, and duplicates are
// possible under the scheduler's at-least-once policy.
package notifier

import (
	"context"
	"log/slog"

	"github.com/stridehq/stride/store"
)

// Notifier delivers one fired reminder for the given goal.
type Notifier interface {
	Notify(ctx context.Context, reminder *store.Reminder, goal *store.Goal)
}

// Dispatcher routes a reminder to the notifier for its channel.
type Dispatcher struct {
	email Notifier
	push  Notifier
}

// NewDispatcher creates a dispatcher over the channel notifiers.
func NewDispatcher(email, push Notifier) *Dispatcher {
	return &Dispatcher{email: email, push: push}
}

func (d *Dispatcher) Notify(ctx context.Context, reminder *store.Reminder, goal *store.Goal) {
	switch reminder.Channel {
	case store.ReminderChannelEmail:
		d.email.Notify(ctx, reminder, goal)
	case store.ReminderChannelPush:
		d.push.Notify(ctx, reminder, goal)
	default:
		slog.Warn("reminder has unknown channel", "reminder", reminder.ID, "channel", reminder.Channel)
	}
}
