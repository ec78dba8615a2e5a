package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tiffinbill/internal/amqp"
	"tiffinbill/internal/storage"
)

// ActivityWorker consumes activity events off the queue and appends them
// to the SQLite audit trail. Events are informational; a failed insert
// nacks the message so it is retried.
type ActivityWorker struct {
	storage *storage.SQLiteRepository
}

func NewActivityWorker(storage *storage.SQLiteRepository) *ActivityWorker {
	return &ActivityWorker{storage: storage}
}

// HandleMessage records a single activity event.
func (w *ActivityWorker) HandleMessage(msg *amqp.ActivityMessage) error {
	ctx := context.Background()

	slog.InfoContext(ctx, "Recording activity event",
		"kind", msg.Kind,
		"detail", msg.Detail)

	if err := w.storage.RecordActivity(ctx, msg.Kind, msg.Detail, msg.OccurredAt); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// LogRecentActivity writes a startup summary of the latest recorded
// events, useful for checking the trail after worker downtime.
func (w *ActivityWorker) LogRecentActivity(ctx context.Context, limit int) error {
	entries, err := w.storage.ListRecentActivity(ctx, limit)
	if err != nil {
		return fmt.Errorf("list recent activity: %w", err)
	}

	if len(entries) == 0 {
		slog.InfoContext(ctx, "Activity trail is empty")
		return nil
	}

	slog.InfoContext(ctx, "Recent activity",
		"count", len(entries),
		"latest_kind", entries[0].Kind,
		"latest_at", entries[0].OccurredAt)
	return nil
}
