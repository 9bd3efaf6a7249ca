package budget

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLedger(t *testing.T, cap float64) *Ledger {
	t.Helper()
	return NewLedger(filepath.Join(t.TempDir(), "budget.json"), cap)
}

func TestLedgerAppendAndAggregate(t *testing.T) {
	l := tempLedger(t, 500)

	require.NoError(t, l.AddEntry("alice", 30, 4.25))
	require.NoError(t, l.AddEntry("bob", 60, 2.00))

	month := time.Now().Format("2006-01")
	assert.Equal(t, 247.50, l.GetMonthlySpend(month))
	// Empty month means the current one.
	assert.Equal(t, 247.50, l.GetMonthlySpend(""))
}

func TestLedgerEntriesAreAppendOnly(t *testing.T) {
	l := tempLedger(t, 500)
	require.NoError(t, l.AddEntry("alice", 30, 4.00))
	require.NoError(t, l.AddEntry("alice", 30, 4.00))

	assert.Equal(t, 240.0, l.GetMonthlySpend(""))
}

func TestLedgerOtherMonthIsEmpty(t *testing.T) {
	l := tempLedger(t, 500)
	require.NoError(t, l.AddEntry("alice", 30, 4.00))
	assert.Zero(t, l.GetMonthlySpend("1999-01"))
}

func TestLedgerIsOverBudget(t *testing.T) {
	l := tempLedger(t, 100)
	require.NoError(t, l.AddEntry("alice", 30, 3.00)) // $90

	assert.False(t, l.IsOverBudget(10, ""))
	assert.True(t, l.IsOverBudget(10.01, ""))
}

func TestLedgerWarning(t *testing.T) {
	l := tempLedger(t, 100)
	require.NoError(t, l.AddEntry("alice", 30, 3.00))

	assert.Empty(t, l.Warning(5))
	warning := l.Warning(50)
	assert.Contains(t, warning, "$140.00")
	assert.Contains(t, warning, "$100.00")
}

func TestLedgerAbsentFileReadsEmpty(t *testing.T) {
	l := NewLedger(filepath.Join(t.TempDir(), "missing.json"), 100)
	assert.Zero(t, l.GetMonthlySpend(""))
	assert.False(t, l.IsOverBudget(0, ""))
}

func TestLedgerCorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	l := NewLedger(path, 100)
	assert.Zero(t, l.GetMonthlySpend(""))

	// Writes still work after corruption; the bad document is replaced.
	require.NoError(t, l.AddEntry("alice", 15, 2.00))
	assert.Equal(t, 30.0, l.GetMonthlySpend(""))
}
