package domain

import (
	"singletask/internal/repository/sqlite"
)

// CaptureFromDatabase converts a captures row to a domain Capture
func CaptureFromDatabase(row sqlite.Capture) Capture {
	return Capture{ID: row.ID, Content: row.Content}
}

// CapturesFromDatabase converts captures rows to domain Captures
func CapturesFromDatabase(rows []*sqlite.Capture) []*Capture {
	captures := make([]*Capture, len(rows))
	for i, row := range rows {
		c := CaptureFromDatabase(*row)
		captures[i] = &c
	}
	return captures
}

// TimerEntryFromDatabase converts a task_timer row to a domain TimerEntry
func TimerEntryFromDatabase(row sqlite.TimerEntry) TimerEntry {
	return TimerEntry{ID: row.ID, Task: row.Task, Hours: row.Hours}
}

// TimerEntriesFromDatabase converts task_timer rows to domain TimerEntries
func TimerEntriesFromDatabase(rows []*sqlite.TimerEntry) []*TimerEntry {
	entries := make([]*TimerEntry, len(rows))
	for i, row := range rows {
		e := TimerEntryFromDatabase(*row)
		entries[i] = &e
	}
	return entries
}
