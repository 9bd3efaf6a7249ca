package browser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/consult-agent/internal/types"
)

func TestStateStoreRoundTrip(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "session.json"))

	rec := &SessionRecord{
		WSEndpoint:    "ws://127.0.0.1:9223/devtools/browser/abc",
		CreatedAt:     time.Now().Truncate(time.Second),
		LoggedIn:      true,
		BookingFilled: true,
		CurrentExpert: "alice",
		Draft:         &types.BookingDraft{Expert: "alice", Duration: 30, Topic: "pricing", EstimatedCost: 127.50},
	}
	require.NoError(t, store.Save(rec))

	got := store.Load()
	require.NotNil(t, got)
	assert.Equal(t, rec.WSEndpoint, got.WSEndpoint)
	assert.True(t, got.LoggedIn)
	assert.True(t, got.BookingFilled)
	assert.Equal(t, "alice", got.CurrentExpert)
	require.NotNil(t, got.Draft)
	assert.Equal(t, 127.50, got.Draft.EstimatedCost)
}

func TestStateStoreAbsentReadsNil(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "missing.json"))
	assert.Nil(t, store.Load())
}

func TestStateStoreCorruptReadsNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("%%%"), 0o600))
	assert.Nil(t, NewStateStore(path).Load())
}

func TestStateStoreEmptyEndpointReadsNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"logged_in":true}`), 0o600))
	assert.Nil(t, NewStateStore(path).Load())
}

func TestStateStoreDelete(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(&SessionRecord{WSEndpoint: "ws://x"}))
	store.Delete()
	assert.Nil(t, store.Load())

	// Deleting twice is fine.
	store.Delete()
}

func TestClearStaleLocks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"SingletonLock", "SingletonCookie", "SingletonSocket"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Preferences"), []byte("{}"), 0o600))

	clearStaleLocks(dir)

	for _, name := range []string{"SingletonLock", "SingletonCookie", "SingletonSocket"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err))
	}
	// Real profile data is untouched.
	_, err := os.Stat(filepath.Join(dir, "Preferences"))
	assert.NoError(t, err)
}
