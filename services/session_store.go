package services

import (
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// SessionStore persists the single authoritative assembly session. Load
// returns (nil, nil) when no session exists.
type SessionStore interface {
	Load() (*AssemblySession, error)
	Save(*AssemblySession) error
	Clear() error
	HasSession() (bool, error)
}

const (
	sessionsCollection = "assembly_sessions"
	sessionKey         = "current"
)

// RecordSessionStore keeps the serialized session in a single PocketBase
// record, keyed so only one session ever exists.
type RecordSessionStore struct {
	app core.App
}

// NewRecordSessionStore returns a store backed by the given app's database.
func NewRecordSessionStore(app core.App) *RecordSessionStore {
	return &RecordSessionStore{app: app}
}

func (s *RecordSessionStore) find() (*core.Record, error) {
	records, err := s.app.FindRecordsByFilter(
		sessionsCollection,
		"key = {:key}", "", 1, 0,
		map[string]any{"key": sessionKey},
	)
	if err != nil {
		return nil, fmt.Errorf("find session record: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Load returns the persisted session. A blob that no longer decodes is
// treated the same as no session.
func (s *RecordSessionStore) Load() (*AssemblySession, error) {
	record, err := s.find()
	if err != nil || record == nil {
		return nil, err
	}

	raw := record.GetString("data")
	if raw == "" {
		return nil, nil
	}

	var session AssemblySession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, nil
	}
	return &session, nil
}

// Save writes the full session, replacing whatever was stored before.
func (s *RecordSessionStore) Save(session *AssemblySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	record, err := s.find()
	if err != nil {
		return err
	}
	if record == nil {
		col, err := s.app.FindCollectionByNameOrId(sessionsCollection)
		if err != nil {
			return fmt.Errorf("sessions collection not found: %w", err)
		}
		record = core.NewRecord(col)
		record.Set("key", sessionKey)
	}

	record.Set("data", string(data))
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is a no-op.
func (s *RecordSessionStore) Clear() error {
	record, err := s.find()
	if err != nil || record == nil {
		return err
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// HasSession reports whether a session record exists, without decoding it.
func (s *RecordSessionStore) HasSession() (bool, error) {
	record, err := s.find()
	return record != nil, err
}
