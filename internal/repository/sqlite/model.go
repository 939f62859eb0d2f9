package sqlite

// NoTaskSelected is the current-task title meaning no task is being timed.
// Timer stops against it are never recorded.
const NoTaskSelected = "No task selected"

// Capture is a row of the captures table
type Capture struct {
	ID      int64
	Content string
}

// TimerEntry is a row of the task_timer table. Hours is the cumulative
// session total at the time the timer was stopped, not a delta.
type TimerEntry struct {
	ID    int64
	Task  string
	Hours float64
}
