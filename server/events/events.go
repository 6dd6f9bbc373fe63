// Package events defines the in-process event publication contract.
// Publishers are called at-least-once after the durable write; delivery to
// subscribers is not guaranteed by the publishing side.
package events

import (
	"context"
	"log/slog"
)

// ProgressCreated is emitted after a progress entry is durably written.
type ProgressCreated struct {
	EntryUID  string  `json:"entry_uid"`
	GoalUID   string  `json:"goal_uid"`
	CreatorID int32   `json:"creator_id"`
	Note      string  `json:"note"`
	Value     float64 `json:"value"`
	CreatedTs int64   `json:"created_ts"`
}

// Publisher broadcasts domain events to interested subscribers
// (live-update transports, audit sinks).
type Publisher interface {
	PublishProgressCreated(ctx context.Context, event *ProgressCreated)
}

// LogPublisher logs events instead of broadcasting them. It stands in when
// no live-update transport is wired.
type LogPublisher struct{}

// NewLogPublisher creates a log-only publisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (*LogPublisher) PublishProgressCreated(ctx context.Context, event *ProgressCreated) {
	slog.Info("progress entry created", "goal", event.GoalUID, "entry", event.EntryUID, "value", event.Value)
}
