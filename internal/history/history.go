// Package history keeps the ordered log of dispatched commands.
package history

import "github.com/fentz26/toyrobot/internal/models"

// Log is an append-only list of history entries. Only Clear removes entries.
type Log struct {
	entries []models.HistoryEntry
}

// New creates an empty log.
func New() *Log {
	return &Log{}
}

// Append stores e with the next 1-based sequence number and returns it.
func (l *Log) Append(e models.HistoryEntry) models.HistoryEntry {
	e.Seq = len(l.entries) + 1
	l.entries = append(l.entries, e)
	return e
}

// Entries returns a copy of the entries in insertion order.
func (l *Log) Entries() []models.HistoryEntry {
	return append([]models.HistoryEntry(nil), l.entries...)
}

// Clear drops every entry.
func (l *Log) Clear() {
	l.entries = nil
}
