package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"singletask/internal/domain"
	apperrors "singletask/internal/errors"
	"singletask/internal/logging"
	"singletask/internal/repository/sqlite"
	"singletask/internal/services"
	"singletask/internal/validation"
)

// Phase is the lifecycle state of the application context
type Phase int

const (
	// Uninitialized is the phase before the snapshot has been loaded
	Uninitialized Phase = iota
	// Active is the phase after Start; every operation is available
	Active
	// Closed is the phase after Shutdown
	Closed
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// SnapshotStore persists the session state
type SnapshotStore interface {
	Save(state domain.State) error
	Load() (domain.State, error)
	Quarantine() (string, error)
	Path() string
}

// StopResult describes what a timer stop did
type StopResult struct {
	Stopped  bool          `json:"stopped"`
	Elapsed  time.Duration `json:"elapsed"`
	Hours    float64       `json:"hours"`
	Recorded bool          `json:"recorded"`
}

// API is every action the presentation layer can take. Implementations are
// driven from a single event loop and are not safe for concurrent use.
type API interface {
	// Lifecycle
	Start(ctx context.Context) error
	SaveState(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Phase() Phase

	// Session state
	State() domain.State
	SetTasksText(text string) error
	SelectTask() (string, error)
	SetCurrentTask(title string) (string, error)

	// Timer
	StartTimer() (bool, error)
	StopTimer(ctx context.Context) (StopResult, error)
	TimerStatus() services.TimerStatus
	TimerElapsed() time.Duration
	ListTimerHistory(ctx context.Context) ([]*domain.TimerEntry, error)

	// Captures
	SaveCapture(ctx context.Context, content string) (*domain.Capture, error)
	GetCapture(ctx context.Context, id int64) (*domain.Capture, error)
	ListCaptures(ctx context.Context) ([]*domain.Capture, error)
	DeleteCapture(ctx context.Context, id int64) (bool, error)
}

// Options configures New
type Options struct {
	Clock  services.Clock
	Logger *slog.Logger
}

type apiImpl struct {
	repo      sqlite.Repository
	snapshot  SnapshotStore
	timer     *services.Timer
	logger    *slog.Logger
	validator *validation.Validator

	phase Phase
	state domain.State
}

// New creates the application context. It owns repo and closes it on Shutdown.
func New(repo sqlite.Repository, snapshot SnapshotStore, opts Options) API {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &apiImpl{
		repo:      repo,
		snapshot:  snapshot,
		timer:     services.NewTimer(opts.Clock),
		logger:    logger,
		validator: validation.NewValidator(),
		phase:     Uninitialized,
		state:     domain.DefaultState(),
	}
}

func (a *apiImpl) requireActive(operation string) error {
	if a.phase != Active {
		return apperrors.NewLifecycleError(operation, a.phase.String())
	}
	return nil
}

// Start loads the snapshot exactly once and saves it straight back.
// A corrupt snapshot is moved aside and the session starts from defaults.
func (a *apiImpl) Start(ctx context.Context) error {
	if a.phase != Uninitialized {
		return apperrors.NewLifecycleError("start", a.phase.String())
	}

	state, err := a.snapshot.Load()
	if err != nil {
		if !apperrors.IsCorruptSnapshot(err) {
			return err
		}
		a.logger.Warn("snapshot unreadable, starting from defaults", "path", a.snapshot.Path(), "error", err)
		if moved, qErr := a.snapshot.Quarantine(); qErr != nil {
			a.logger.Warn("could not move corrupt snapshot aside", "error", qErr)
		} else {
			a.logger.Info("corrupt snapshot preserved", "path", moved)
		}
		state = domain.DefaultState()
	}

	a.state = state
	a.phase = Active
	a.logger.Debug("session started", "title", state.Title, "hours", state.Hours)

	return a.SaveState(ctx)
}

// SaveState writes the in-memory session state to the snapshot
func (a *apiImpl) SaveState(ctx context.Context) error {
	if err := a.requireActive("save state"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.snapshot.Save(a.persistedState()); err != nil {
		return err
	}
	a.logger.Debug("state saved", "path", a.snapshot.Path())
	return nil
}

// persistedState is the session state as written to the snapshot. The task list
// is trimmed here, not when it is edited.
func (a *apiImpl) persistedState() domain.State {
	state := a.state
	state.TasksText = strings.TrimSpace(state.TasksText)
	return state
}

// Shutdown saves the state one last time and then closes the database.
// Calling it again is a no-op.
func (a *apiImpl) Shutdown(ctx context.Context) error {
	if a.phase == Closed {
		return nil
	}

	var saveErr error
	if a.phase == Active {
		if a.timer.Running() {
			a.logger.Warn("timer still running at shutdown, elapsed time discarded",
				"task", a.state.Title, "elapsed", a.timer.Elapsed().Round(time.Second))
		}
		saveErr = a.snapshot.Save(a.persistedState())
	}

	a.phase = Closed
	closeErr := a.repo.Close()
	if closeErr != nil {
		closeErr = apperrors.NewDatabaseError("close database", closeErr)
	}
	return errors.Join(saveErr, closeErr)
}

// Phase returns the lifecycle phase
func (a *apiImpl) Phase() Phase {
	return a.phase
}

// State returns a copy of the session state
func (a *apiImpl) State() domain.State {
	return a.state
}

// SetTasksText replaces the task list as typed. A leading blank line is kept,
// so selecting afterwards deselects the current task.
func (a *apiImpl) SetTasksText(text string) error {
	if err := a.requireActive("edit tasks"); err != nil {
		return err
	}
	a.state.TasksText = text
	return nil
}

// SelectTask makes the first line of the task list the current task
func (a *apiImpl) SelectTask() (string, error) {
	return a.SetCurrentTask(a.validator.FirstLine(a.state.TasksText))
}

// SetCurrentTask selects title as the current task and resets its hours.
// A blank title deselects the task without touching hours.
// A running timer is left running.
func (a *apiImpl) SetCurrentTask(title string) (string, error) {
	if err := a.requireActive("set current task"); err != nil {
		return "", err
	}

	title = a.validator.TrimAndValidateString(title)
	if title == "" {
		a.state.Title = domain.NoTaskSelected
		return a.state.Title, nil
	}

	if a.timer.Running() {
		a.logger.Warn("current task changed while timer running", "from", a.state.Title, "to", title)
	}
	a.state.Title = title
	a.state.Hours = 0
	return a.state.Title, nil
}

// StartTimer starts the timer. It returns false when it was already running.
func (a *apiImpl) StartTimer() (bool, error) {
	if err := a.requireActive("start timer"); err != nil {
		return false, err
	}
	started := a.timer.Start()
	if started {
		a.logger.Debug("timer started", "task", a.state.Title)
	}
	return started, nil
}

// StopTimer stops the timer, adds the elapsed hours to the current task and,
// when a real task is selected, appends the new cumulative total to history.
func (a *apiImpl) StopTimer(ctx context.Context) (StopResult, error) {
	if err := a.requireActive("stop timer"); err != nil {
		return StopResult{}, err
	}

	elapsed, ok := a.timer.Stop()
	if !ok {
		return StopResult{Hours: a.state.Hours}, nil
	}

	a.state.Hours += services.DurationToHours(elapsed)
	result := StopResult{Stopped: true, Elapsed: elapsed, Hours: a.state.Hours}

	recorded, err := a.repo.RecordTimerStop(ctx, a.state.Title, a.state.Hours)
	if err != nil {
		return result, err
	}
	result.Recorded = recorded
	a.logger.Debug("timer stopped", "task", a.state.Title, "elapsed", elapsed, "hours", a.state.Hours, "recorded", recorded)

	return result, nil
}

// TimerStatus returns whether the timer is idle or running
func (a *apiImpl) TimerStatus() services.TimerStatus {
	return a.timer.Status()
}

// TimerElapsed returns the time on the running timer
func (a *apiImpl) TimerElapsed() time.Duration {
	return a.timer.Elapsed()
}

// ListTimerHistory returns every recorded timer stop, oldest first
func (a *apiImpl) ListTimerHistory(ctx context.Context) ([]*domain.TimerEntry, error) {
	if err := a.requireActive("list timer history"); err != nil {
		return nil, err
	}
	rows, err := a.repo.ListTimerEntries(ctx)
	if err != nil {
		return nil, err
	}
	return domain.TimerEntriesFromDatabase(rows), nil
}

// SaveCapture stores trimmed content in the inbox. Blank content is ignored
// and reported as a nil capture.
func (a *apiImpl) SaveCapture(ctx context.Context, content string) (*domain.Capture, error) {
	if err := a.requireActive("save capture"); err != nil {
		return nil, err
	}

	content = a.validator.TrimAndValidateString(content)
	id, ok, err := a.repo.AddCapture(ctx, content)
	if err != nil || !ok {
		return nil, err
	}
	a.logger.Debug("capture saved", "id", id)
	return &domain.Capture{ID: id, Content: content}, nil
}

// GetCapture returns one capture, or a not-found error
func (a *apiImpl) GetCapture(ctx context.Context, id int64) (*domain.Capture, error) {
	if err := a.requireActive("get capture"); err != nil {
		return nil, err
	}
	row, err := a.repo.GetCapture(ctx, id)
	if err != nil {
		return nil, err
	}
	c := domain.CaptureFromDatabase(*row)
	return &c, nil
}

// ListCaptures returns the inbox in insertion order
func (a *apiImpl) ListCaptures(ctx context.Context) ([]*domain.Capture, error) {
	if err := a.requireActive("list captures"); err != nil {
		return nil, err
	}
	rows, err := a.repo.ListCaptures(ctx)
	if err != nil {
		return nil, err
	}
	return domain.CapturesFromDatabase(rows), nil
}

// DeleteCapture removes a capture. Unknown ids are ignored and reported as false.
func (a *apiImpl) DeleteCapture(ctx context.Context, id int64) (bool, error) {
	if err := a.requireActive("delete capture"); err != nil {
		return false, err
	}
	if !a.validator.IsValidID(id) {
		return false, nil
	}
	deleted, err := a.repo.DeleteCapture(ctx, id)
	if err == nil && deleted {
		a.logger.Debug("capture deleted", "id", id)
	}
	return deleted, err
}
