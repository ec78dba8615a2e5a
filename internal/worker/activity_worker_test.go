package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tiffinbill/internal/amqp"
	"tiffinbill/internal/storage"
)

func newTestWorker(t *testing.T) *ActivityWorker {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return NewActivityWorker(repo)
}

func TestHandleMessageRecordsActivity(t *testing.T) {
	w := newTestWorker(t)

	msg := amqp.NewActivityMessage(amqp.EventPDFExported, "Monu.pdf")
	if err := w.HandleMessage(msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	entries, err := w.storage.ListRecentActivity(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentActivity() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(entries))
	}
	if entries[0].Kind != amqp.EventPDFExported || entries[0].Detail != "Monu.pdf" {
		t.Errorf("entry = %+v, want kind %q detail %q", entries[0], amqp.EventPDFExported, "Monu.pdf")
	}
}

func TestLogRecentActivity(t *testing.T) {
	w := newTestWorker(t)

	// Empty trail must not error.
	if err := w.LogRecentActivity(context.Background(), 5); err != nil {
		t.Fatalf("LogRecentActivity() on empty trail error = %v", err)
	}

	for _, kind := range []string{amqp.EventItemAdded, amqp.EventThemeApplied} {
		msg := &amqp.ActivityMessage{Kind: kind, Detail: "x", OccurredAt: time.Now()}
		if err := w.HandleMessage(msg); err != nil {
			t.Fatalf("HandleMessage(%s) error = %v", kind, err)
		}
	}

	if err := w.LogRecentActivity(context.Background(), 5); err != nil {
		t.Fatalf("LogRecentActivity() error = %v", err)
	}
}
