package browser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/consult-agent/internal/types"
)

// SessionRecord is the on-disk handle to the resident browser. Exactly one
// exists per machine; it is the sole source of truth for whether a booking is
// currently in flight. Read-modify-write on it is not atomic; the tool
// assumes a single user on a single machine.
type SessionRecord struct {
	WSEndpoint    string              `json:"ws_endpoint"`
	CreatedAt     time.Time           `json:"created_at"`
	LoggedIn      bool                `json:"logged_in"`
	BookingFilled bool                `json:"booking_filled"`
	CurrentExpert string              `json:"current_expert,omitempty"`
	Draft         *types.BookingDraft `json:"draft,omitempty"`
}

// StateStore persists the SessionRecord as a single keyed JSON document.
// Absence and corruption both read as "no session" rather than failing.
type StateStore struct {
	path string
}

// NewStateStore returns a store backed by the given file path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the current record. A missing or unparseable file yields nil.
func (s *StateStore) Load() *SessionRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil
	}
	if rec.WSEndpoint == "" {
		return nil
	}
	return &rec
}

// Save writes the record, creating the parent directory if needed.
func (s *StateStore) Save(rec *SessionRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Delete removes the record; a missing file is fine.
func (s *StateStore) Delete() {
	_ = os.Remove(s.path)
}
