package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "tiffinbill.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestClientListRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	names, err := repo.LoadClientList(ctx)
	if err != nil {
		t.Fatalf("LoadClientList on fresh db: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("fresh db returned %v, want empty list", names)
	}

	want := []string{"Monu", "Raju"}
	if err := repo.SaveClientList(ctx, want); err != nil {
		t.Fatalf("SaveClientList: %v", err)
	}

	got, err := repo.LoadClientList(ctx)
	if err != nil {
		t.Fatalf("LoadClientList: %v", err)
	}
	if len(got) != 2 || got[0] != "Monu" || got[1] != "Raju" {
		t.Errorf("LoadClientList = %v, want %v", got, want)
	}

	// Overwrite keeps only the latest list.
	if err := repo.SaveClientList(ctx, []string{"Raju"}); err != nil {
		t.Fatalf("SaveClientList overwrite: %v", err)
	}
	got, err = repo.LoadClientList(ctx)
	if err != nil {
		t.Fatalf("LoadClientList after overwrite: %v", err)
	}
	if len(got) != 1 || got[0] != "Raju" {
		t.Errorf("LoadClientList after overwrite = %v, want [Raju]", got)
	}
}

func TestActivityLog(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	if err := repo.RecordActivity(ctx, "client.added", "Monu", now); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}
	if err := repo.RecordActivity(ctx, "pdf.exported", "Monu.pdf", now); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}

	entries, err := repo.ListRecentActivity(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentActivity: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Kind != "pdf.exported" {
		t.Errorf("newest first: got %q, want pdf.exported", entries[0].Kind)
	}
	if entries[1].Detail != "Monu" {
		t.Errorf("detail = %q, want Monu", entries[1].Detail)
	}
}
