package overrides

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mau.fi/util/dbutil"
	"go.mau.fi/util/jsontime"
)

// DBStore persists session override records in a database table, one row
// per session key. The raw record JSON is stored as a document so unknown
// fields survive write-through. Updates to the same key serialize through
// a transaction; different keys can update in parallel.
type DBStore struct {
	db *dbutil.Database
}

const createOverridesTable = `
CREATE TABLE IF NOT EXISTS tool_session_overrides (
	session_key TEXT PRIMARY KEY,
	overrides   TEXT NOT NULL,
	updated_at  BIGINT NOT NULL
)
`

// NewDBStore creates the table if needed and returns the store.
func NewDBStore(ctx context.Context, db *dbutil.Database) (*DBStore, error) {
	if _, err := db.Exec(ctx, createOverridesTable); err != nil {
		return nil, fmt.Errorf("create overrides table: %w", err)
	}
	return &DBStore{db: db}, nil
}

// Entry is a stored row, exposed for listings and diagnostics.
type Entry struct {
	SessionKey string             `json:"sessionKey"`
	UpdatedAt  jsontime.UnixMilli `json:"updatedAt"`
	Record     Record             `json:"-"`
}

func (s *DBStore) Get(ctx context.Context, sessionKey string) (Record, error) {
	if err := s.check(ctx, sessionKey); err != nil {
		return Record{}, err
	}
	raw, found, err := s.loadRaw(ctx, sessionKey)
	if err != nil || !found {
		return Record{}, err
	}
	return recordFromRaw(raw), nil
}

func (s *DBStore) Update(ctx context.Context, sessionKey string, mutate func(*Record)) error {
	if err := s.check(ctx, sessionKey); err != nil {
		return err
	}
	_, err := s.updateTxn(ctx, sessionKey, mutate)
	return err
}

func (s *DBStore) Reset(ctx context.Context, sessionKey string) (bool, error) {
	if err := s.check(ctx, sessionKey); err != nil {
		return false, err
	}
	return s.updateTxn(ctx, sessionKey, func(rec *Record) {
		rec.Clear()
	})
}

// Entries lists all stored session rows, newest first. Rows kept only for
// unknown fields are included.
func (s *DBStore) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT session_key, overrides, updated_at FROM tool_session_overrides ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var entry Entry
		var rawJSON string
		var updatedAt int64
		if err := rows.Scan(&entry.SessionKey, &rawJSON, &updatedAt); err != nil {
			return nil, err
		}
		entry.UpdatedAt = jsontime.UM(time.UnixMilli(updatedAt))
		var raw map[string]any
		if err := json.Unmarshal([]byte(rawJSON), &raw); err == nil {
			entry.Record = recordFromRaw(raw)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *DBStore) check(ctx context.Context, sessionKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil || strings.TrimSpace(sessionKey) == "" {
		return ErrNoActiveSession
	}
	return nil
}

func (s *DBStore) updateTxn(ctx context.Context, sessionKey string, mutate func(*Record)) (bool, error) {
	var hadOverrides bool
	err := s.db.DoTxn(ctx, nil, func(ctx context.Context) error {
		raw, _, err := s.loadRaw(ctx, sessionKey)
		if err != nil {
			return err
		}
		rec := recordFromRaw(raw)
		hadOverrides = !rec.IsEmpty()

		mutate(&rec)
		applyRecordToRaw(raw, rec)
		if len(raw) == 0 {
			_, err = s.db.Exec(ctx,
				`DELETE FROM tool_session_overrides WHERE session_key=$1`, sessionKey)
			return err
		}
		payload, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		_, err = s.db.Exec(ctx,
			`INSERT INTO tool_session_overrides (session_key, overrides, updated_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (session_key)
			 DO UPDATE SET overrides=excluded.overrides, updated_at=excluded.updated_at`,
			sessionKey, string(payload), time.Now().UnixMilli())
		return err
	})
	return hadOverrides, err
}

func (s *DBStore) loadRaw(ctx context.Context, sessionKey string) (map[string]any, bool, error) {
	var rawJSON string
	err := s.db.QueryRow(ctx,
		`SELECT overrides FROM tool_session_overrides WHERE session_key=$1`, sessionKey,
	).Scan(&rawJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return map[string]any{}, false, nil
		}
		return nil, false, err
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(rawJSON), &raw); err != nil {
		return nil, false, fmt.Errorf("parse overrides for %s: %w", sessionKey, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, true, nil
}
