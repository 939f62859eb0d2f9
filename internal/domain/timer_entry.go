package domain

// TimerEntry is one row of timer history. Hours is the cumulative total of the
// task's session at the moment the timer stopped.
type TimerEntry struct {
	ID    int64   `json:"id" yaml:"id"`
	Task  string  `json:"task" yaml:"task"`
	Hours float64 `json:"hours" yaml:"hours"`
}
