package domain

import (
	"fmt"

	"singletask/internal/repository/sqlite"
)

// NoTaskSelected is the current-task title used when no task is selected
const NoTaskSelected = sqlite.NoTaskSelected

// State is the transient session state persisted by the snapshot
type State struct {
	Title     string  `json:"current_task_title" yaml:"current_task_title"`
	Hours     float64 `json:"current_task_hours" yaml:"current_task_hours"`
	TasksText string  `json:"tasks_text" yaml:"tasks_text"`
}

// DefaultState is the state of a fresh environment
func DefaultState() State {
	return State{Title: NoTaskSelected}
}

// HasTask reports whether a real task is selected
func (s State) HasTask() bool {
	return s.Title != NoTaskSelected
}

// HoursLabel formats the accumulated hours for display
func (s State) HoursLabel() string {
	return fmt.Sprintf("Hours spent: %.2f", s.Hours)
}
