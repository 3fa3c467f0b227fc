package overrides

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
)

// DefaultStorePath is used when no session store path is configured.
const DefaultStorePath = "sessions/sessions.json"

// FileStore persists session override records in a single JSON document:
// a `sessions` map keyed by session key. Updates are load-modify-write
// under a store-wide mutex and flush atomically (tmp file + rename) before
// returning.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: strings.TrimSpace(path)}
}

// ResolveStorePath expands a configured store path, substituting
// `{agentId}` and falling back to the default relative path.
func ResolveStorePath(raw, agentID string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultStorePath
	}
	expanded := strings.ReplaceAll(trimmed, "{agentId}", strings.TrimSpace(agentID))
	if strings.HasPrefix(expanded, "~") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, strings.TrimPrefix(expanded, "~"))
		}
	}
	return filepath.Clean(expanded)
}

func (s *FileStore) Get(ctx context.Context, sessionKey string) (Record, error) {
	if err := s.check(ctx, sessionKey); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return Record{}, err
	}
	entry, _ := sessionEntry(doc, sessionKey)
	return recordFromRaw(entry), nil
}

func (s *FileStore) Update(ctx context.Context, sessionKey string, mutate func(*Record)) error {
	if err := s.check(ctx, sessionKey); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.updateLocked(ctx, sessionKey, mutate)
	return err
}

func (s *FileStore) Reset(ctx context.Context, sessionKey string) (bool, error) {
	if err := s.check(ctx, sessionKey); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, sessionKey, func(rec *Record) {
		rec.Clear()
	})
}

func (s *FileStore) check(ctx context.Context, sessionKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.path == "" || strings.TrimSpace(sessionKey) == "" {
		return ErrNoActiveSession
	}
	return nil
}

// updateLocked runs the read-modify-write cycle. It reports whether the
// record had any overrides before the mutation.
func (s *FileStore) updateLocked(ctx context.Context, sessionKey string, mutate func(*Record)) (bool, error) {
	doc, err := s.load()
	if err != nil {
		return false, err
	}
	entry, sessions := sessionEntry(doc, sessionKey)
	rec := recordFromRaw(entry)
	hadOverrides := !rec.IsEmpty()

	mutate(&rec)
	applyRecordToRaw(entry, rec)
	if len(entry) == 0 {
		delete(sessions, sessionKey)
	} else {
		sessions[sessionKey] = entry
	}

	// Cancellation before the flush leaves the persisted state untouched.
	if err := ctx.Err(); err != nil {
		return hadOverrides, err
	}
	if err := s.save(doc); err != nil {
		return hadOverrides, err
	}
	return hadOverrides, nil
}

func (s *FileStore) load() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read session store: %w", err)
	}
	var doc map[string]any
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse session store %s: %w", s.path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func (s *FileStore) save(doc map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	payload, err := json5.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp." + uuid.NewString()
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	_ = os.WriteFile(s.path+".bak", payload, 0o644)
	return nil
}

// sessionEntry returns the raw record for a session key together with the
// sessions map it lives in, creating both as needed.
func sessionEntry(doc map[string]any, sessionKey string) (map[string]any, map[string]any) {
	sessions, ok := doc["sessions"].(map[string]any)
	if !ok {
		sessions = map[string]any{}
		doc["sessions"] = sessions
	}
	entry, ok := sessions[sessionKey].(map[string]any)
	if !ok {
		entry = map[string]any{}
	}
	return entry, sessions
}
