// Package budget is the monthly spend ledger consumed by the booking flow. It
// is advisory only: the core asks it for warnings before filling and records an
// entry after a confirmed submit, but it never blocks anything by itself.
package budget

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

const monthKeyLayout = "2006-01"

// Entry is one booked call. Entries are append-only and never mutated, only
// aggregated for reads.
type Entry struct {
	Date     time.Time `json:"date"`
	Expert   string    `json:"expert"`
	Duration int       `json:"duration"`
	Rate     float64   `json:"rate"`
	Total    float64   `json:"total"`
}

// Ledger is a month-keyed JSON document on disk. Absence and corruption both
// read as an empty ledger.
type Ledger struct {
	path       string
	monthlyCap float64
}

// NewLedger returns a ledger backed by path with the given advisory cap.
func NewLedger(path string, monthlyCap float64) *Ledger {
	return &Ledger{path: path, monthlyCap: monthlyCap}
}

// Cap returns the configured monthly cap.
func (l *Ledger) Cap() float64 { return l.monthlyCap }

// GetMonthlySpend sums entries for the given "YYYY-MM" month; empty means the
// current month.
func (l *Ledger) GetMonthlySpend(month string) float64 {
	if month == "" {
		month = time.Now().Format(monthKeyLayout)
	}
	total := 0.0
	for _, e := range l.load()[month] {
		total += e.Total
	}
	return math.Round(total*100) / 100
}

// IsOverBudget reports whether the month's spend plus additionalCost exceeds
// the cap.
func (l *Ledger) IsOverBudget(additionalCost float64, month string) bool {
	return l.GetMonthlySpend(month)+additionalCost > l.monthlyCap
}

// Warning formats the advisory message for a prospective cost, or "" when the
// cost fits the cap.
func (l *Ledger) Warning(additionalCost float64) string {
	if !l.IsOverBudget(additionalCost, "") {
		return ""
	}
	spent := l.GetMonthlySpend("")
	return fmt.Sprintf("booking would bring this month's spend to $%.2f, over the $%.2f cap (currently $%.2f)",
		spent+additionalCost, l.monthlyCap, spent)
}

// AddEntry appends a confirmed booking under the current month.
func (l *Ledger) AddEntry(expert string, duration int, rate float64) error {
	months := l.load()
	key := time.Now().Format(monthKeyLayout)
	months[key] = append(months[key], Entry{
		Date:     time.Now(),
		Expert:   expert,
		Duration: duration,
		Rate:     rate,
		Total:    math.Round(rate*float64(duration)*100) / 100,
	})
	return l.save(months)
}

func (l *Ledger) load() map[string][]Entry {
	months := make(map[string][]Entry)
	data, err := os.ReadFile(l.path)
	if err != nil {
		return months
	}
	if err := json.Unmarshal(data, &months); err != nil {
		return make(map[string][]Entry)
	}
	return months
}

func (l *Ledger) save(months map[string][]Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(months, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0o600)
}
