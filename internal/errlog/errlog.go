// Package errlog keeps a deduplicated, time-bounded history of failing
// checks across diagnostic runs.
package errlog

import (
	"strings"
	"sync"

	"opencode-diag/internal/domain"
)

// maxTimes bounds how many recent occurrences each entry retains.
const maxTimes = 5

// fallbackTimeKey marks reports whose timestamp was absent.
const fallbackTimeKey = "--:--"

// Entry records recent occurrence times for one failing check name.
type Entry struct {
	Name  string   `json:"name"`
	Times []string `json:"times"` // newest first, HH:MM
}

// FormatTimes renders the occurrence times as a comma-separated string.
func (e Entry) FormatTimes() string {
	return strings.Join(e.Times, ", ")
}

// Log groups check failures by name in order of first occurrence. It is
// safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []*Entry
}

// New creates an empty error log.
func New() *Log {
	return &Log{}
}

// ProcessReport records every Error and Warning check in the report under
// the report's HH:MM time key. Callers feed each finished report exactly
// once; feeding it again double-counts the occurrences.
func (l *Log) ProcessReport(report *domain.DiagnosticReport) {
	key := timeKey(report.Timestamp)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, check := range report.Checks() {
		if check == nil || !check.Status.IsIssue() {
			continue
		}
		l.add(check.Name, key)
	}
}

// add upserts one occurrence, keeping entries in first-seen order.
func (l *Log) add(name, key string) {
	for _, entry := range l.entries {
		if entry.Name == name {
			entry.Times = append([]string{key}, entry.Times...)
			if len(entry.Times) > maxTimes {
				entry.Times = entry.Times[:maxTimes]
			}
			return
		}
	}
	l.entries = append(l.entries, &Entry{Name: name, Times: []string{key}})
}

// timeKey extracts the HH:MM portion of a report timestamp. Short but
// non-empty timestamps pass through unchanged.
func timeKey(timestamp string) string {
	if timestamp == "" {
		return fallbackTimeKey
	}
	if len(timestamp) >= 16 {
		return timestamp[11:16]
	}
	return timestamp
}

// Entries returns a snapshot of the log in first-occurrence order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		copied := *entry
		copied.Times = append([]string(nil), entry.Times...)
		out = append(out, copied)
	}
	return out
}

// Len returns the number of distinct failing check names.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear removes all recorded entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
