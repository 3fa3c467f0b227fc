package overrides

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/util/dbutil"
)

func setupDBStore(t *testing.T) *DBStore {
	t.Helper()
	raw, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = raw.Close() })
	db, err := dbutil.NewWithDB(raw, "sqlite3")
	if err != nil {
		t.Fatalf("wrap db: %v", err)
	}
	store, err := NewDBStore(context.Background(), db)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func TestDBStoreUpdateResetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupDBStore(t)

	err := store.Update(ctx, "main", func(rec *Record) {
		rec.ProfileOverride = strPtr("coding")
		rec.AllowOverride = []string{"read"}
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	rec, err := store.Get(ctx, "main")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.ProfileOverride == nil || *rec.ProfileOverride != "coding" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	hadOverrides, err := store.Reset(ctx, "main")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !hadOverrides {
		t.Fatal("first reset should report overrides were active")
	}
	hadOverrides, err = store.Reset(ctx, "main")
	if err != nil {
		t.Fatalf("second reset: %v", err)
	}
	if hadOverrides {
		t.Fatal("second reset must report no overrides")
	}

	rec, err = store.Get(ctx, "main")
	if err != nil {
		t.Fatalf("get after reset: %v", err)
	}
	if !rec.IsEmpty() {
		t.Fatalf("expected empty record after reset: %+v", rec)
	}
}

func TestDBStorePreservesUnknownFields(t *testing.T) {
	ctx := context.Background()
	store := setupDBStore(t)
	_, err := store.db.Exec(ctx,
		`INSERT INTO tool_session_overrides (session_key, overrides, updated_at) VALUES ($1, $2, $3)`,
		"main", `{"toolsAllowOverride": ["read"], "customField": "kept"}`, int64(1))
	if err != nil {
		t.Fatalf("seed row: %v", err)
	}

	if _, err := store.Reset(ctx, "main"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	raw, found, err := store.loadRaw(ctx, "main")
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	if !found {
		t.Fatal("row with unknown fields must survive reset")
	}
	if raw["customField"] != "kept" {
		t.Fatalf("unknown field lost: %v", raw)
	}
	if _, ok := raw["toolsAllowOverride"]; ok {
		t.Fatal("override field should be cleared")
	}
}

func TestDBStoreDeletesEmptyRows(t *testing.T) {
	ctx := context.Background()
	store := setupDBStore(t)
	err := store.Update(ctx, "main", func(rec *Record) {
		rec.DenyOverride = []string{"exec"}
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := store.Reset(ctx, "main"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, found, err := store.loadRaw(ctx, "main"); err != nil {
		t.Fatalf("load raw: %v", err)
	} else if found {
		t.Fatal("fully cleared record should drop its row")
	}
}

func TestDBStoreEntries(t *testing.T) {
	ctx := context.Background()
	store := setupDBStore(t)
	for _, key := range []string{"one", "two"} {
		err := store.Update(ctx, key, func(rec *Record) {
			rec.ProfileOverride = strPtr("minimal")
		})
		if err != nil {
			t.Fatalf("update %s: %v", key, err)
		}
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Record.ProfileOverride == nil {
			t.Fatalf("entry %s missing record data", entry.SessionKey)
		}
		if entry.UpdatedAt.IsZero() {
			t.Fatalf("entry %s missing updated_at", entry.SessionKey)
		}
	}
}

func TestDBStoreRefusesWithoutSession(t *testing.T) {
	ctx := context.Background()
	store := setupDBStore(t)
	if err := store.Update(ctx, "", func(*Record) {}); err != ErrNoActiveSession {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}
