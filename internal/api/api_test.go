package api

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"singletask/internal/domain"
	apperrors "singletask/internal/errors"
	"singletask/internal/repository/sqlite"
	"singletask/internal/services"
	"singletask/internal/snapshot"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	api      API
	repo     *sqlite.SQLiteRepository
	snapshot *snapshot.Store
	clock    *fakeClock
	dir      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	repo, err := sqlite.New(context.Background(), filepath.Join(dir, "tasks.db"))
	require.NoError(t, err)

	snap := snapshot.New(filepath.Join(dir, "app_state.json"), 0)
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	a := New(repo, snap, Options{Clock: clock.Now})
	t.Cleanup(func() { a.Shutdown(context.Background()) })

	return &testEnv{api: a, repo: repo, snapshot: snap, clock: clock, dir: dir}
}

func startedEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	require.NoError(t, env.api.Start(context.Background()))
	return env
}

func TestStart_FreshEnvironment(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, Uninitialized, env.api.Phase())
	require.NoError(t, env.api.Start(context.Background()))
	assert.Equal(t, Active, env.api.Phase())
	assert.Equal(t, domain.State{Title: "No task selected"}, env.api.State())

	// Start saves immediately
	saved, err := env.snapshot.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultState(), saved)
	_, err = os.Stat(env.snapshot.Path())
	assert.NoError(t, err)
}

func TestStart_RestoresSnapshot(t *testing.T) {
	env := newTestEnv(t)
	want := domain.State{Title: "write report", Hours: 1.5, TasksText: "write report\nreview PR"}
	require.NoError(t, env.snapshot.Save(want))

	require.NoError(t, env.api.Start(context.Background()))
	assert.Equal(t, want, env.api.State())
}

func TestStart_OnlyOnce(t *testing.T) {
	env := startedEnv(t)

	err := env.api.Start(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeLifecycle))
}

func TestStart_CorruptSnapshotFallsBackToDefaults(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.snapshot.Path(), []byte(`{"current_task_title": `), 0644))

	require.NoError(t, env.api.Start(context.Background()))
	assert.Equal(t, domain.DefaultState(), env.api.State())

	preserved, err := os.ReadFile(env.snapshot.Path() + snapshot.CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, `{"current_task_title": `, string(preserved))

	saved, err := env.snapshot.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultState(), saved)
}

func TestOperationsBeforeStart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.api.SaveCapture(ctx, "too early")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeLifecycle))

	_, err = env.api.StartTimer()
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeLifecycle))

	assert.True(t, apperrors.IsErrorType(env.api.SaveState(ctx), apperrors.ErrorTypeLifecycle))
}

func TestShutdown_SavesThenCloses(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	require.NoError(t, env.api.SetTasksText("write report\nreview PR"))
	_, err := env.api.SelectTask()
	require.NoError(t, err)

	require.NoError(t, env.api.Shutdown(ctx))
	assert.Equal(t, Closed, env.api.Phase())

	saved, err := env.snapshot.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.State{Title: "write report", TasksText: "write report\nreview PR"}, saved)

	_, err = env.repo.ListCaptures(ctx)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase), "database should be closed")

	assert.NoError(t, env.api.Shutdown(ctx))
	_, err = env.api.SaveCapture(ctx, "after close")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeLifecycle))
}

func TestShutdown_BeforeStartDoesNotWriteSnapshot(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.api.Shutdown(context.Background()))
	_, err := os.Stat(env.snapshot.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestShutdown_RunningTimerIsDiscarded(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, err := env.api.SetCurrentTask("write report")
	require.NoError(t, err)
	_, err = env.api.StartTimer()
	require.NoError(t, err)
	env.clock.Advance(time.Hour)

	require.NoError(t, env.api.Shutdown(ctx))

	saved, err := env.snapshot.Load()
	require.NoError(t, err)
	assert.Equal(t, 0.0, saved.Hours)
}

func TestCaptureScenario(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	c1, err := env.api.SaveCapture(ctx, "buy milk")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c1.ID)

	c2, err := env.api.SaveCapture(ctx, "call mom")
	require.NoError(t, err)
	assert.Equal(t, int64(2), c2.ID)

	deleted, err := env.api.DeleteCapture(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	captures, err := env.api.ListCaptures(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*domain.Capture{{ID: 2, Content: "call mom"}}, captures)
}

func TestSaveCapture_TrimsAndIgnoresBlank(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	c, err := env.api.SaveCapture(ctx, "  an idea\n")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "an idea", c.Content)

	for _, blank := range []string{"", "   ", "\n"} {
		c, err := env.api.SaveCapture(ctx, blank)
		require.NoError(t, err)
		assert.Nil(t, c)
	}

	captures, err := env.api.ListCaptures(ctx)
	require.NoError(t, err)
	assert.Len(t, captures, 1)
}

func TestGetCapture(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	saved, err := env.api.SaveCapture(ctx, "copy me")
	require.NoError(t, err)

	got, err := env.api.GetCapture(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = env.api.GetCapture(ctx, 99)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestDeleteCapture_UnknownOrInvalidID(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	for _, id := range []int64{0, -1, 404} {
		deleted, err := env.api.DeleteCapture(ctx, id)
		require.NoError(t, err)
		assert.False(t, deleted)
	}
}

func TestSelectTask(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	require.NoError(t, env.api.SetTasksText("  write report  \nreview PR\n"))
	assert.Equal(t, "  write report  \nreview PR\n", env.api.State().TasksText)

	title, err := env.api.SelectTask()
	require.NoError(t, err)
	assert.Equal(t, "write report", title)
	assert.Equal(t, "write report", env.api.State().Title)

	// only the ends of the whole list are trimmed on save
	require.NoError(t, env.api.SaveState(ctx))
	saved, err := env.snapshot.Load()
	require.NoError(t, err)
	assert.Equal(t, "write report  \nreview PR", saved.TasksText)
}

func TestSelectTask_LeadingBlankLineDeselects(t *testing.T) {
	env := startedEnv(t)

	_, err := env.api.SetCurrentTask("write report")
	require.NoError(t, err)

	require.NoError(t, env.api.SetTasksText("\nreview PR"))
	title, err := env.api.SelectTask()
	require.NoError(t, err)
	assert.Equal(t, domain.NoTaskSelected, title)
}

func TestSelectTask_BlankFirstLineDeselectsWithoutResettingHours(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, err := env.api.SetCurrentTask("write report")
	require.NoError(t, err)
	_, _ = env.api.StartTimer()
	env.clock.Advance(30 * time.Minute)
	_, err = env.api.StopTimer(ctx)
	require.NoError(t, err)

	require.NoError(t, env.api.SetTasksText(""))
	title, err := env.api.SelectTask()
	require.NoError(t, err)
	assert.Equal(t, domain.NoTaskSelected, title)
	assert.InDelta(t, 0.5, env.api.State().Hours, 1e-9)
}

func TestSetCurrentTask_ResetsHours(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, err := env.api.SetCurrentTask("first")
	require.NoError(t, err)
	_, _ = env.api.StartTimer()
	env.clock.Advance(time.Hour)
	_, err = env.api.StopTimer(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, env.api.State().Hours, 1e-9)

	_, err = env.api.SetCurrentTask("second")
	require.NoError(t, err)
	assert.Equal(t, 0.0, env.api.State().Hours)
}

func TestTimerScenario(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, err := env.api.SetCurrentTask("write report")
	require.NoError(t, err)

	started, err := env.api.StartTimer()
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, services.TimerRunning, env.api.TimerStatus())

	env.clock.Advance(1800 * time.Second)
	assert.Equal(t, 30*time.Minute, env.api.TimerElapsed())

	result, err := env.api.StopTimer(ctx)
	require.NoError(t, err)
	assert.True(t, result.Stopped)
	assert.True(t, result.Recorded)
	assert.Equal(t, 30*time.Minute, result.Elapsed)
	assert.InDelta(t, 0.5, result.Hours, 1e-9)
	assert.InDelta(t, 0.5, env.api.State().Hours, 1e-9)
	assert.Equal(t, services.TimerIdle, env.api.TimerStatus())

	history, err := env.api.ListTimerHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "write report", history[0].Task)
	assert.InDelta(t, 0.5, history[0].Hours, 1e-9)
}

func TestTimer_RecordsCumulativeHours(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, err := env.api.SetCurrentTask("write report")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _ = env.api.StartTimer()
		env.clock.Advance(15 * time.Minute)
		_, err := env.api.StopTimer(ctx)
		require.NoError(t, err)
	}

	history, err := env.api.ListTimerHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.InDelta(t, 0.25, history[0].Hours, 1e-9)
	assert.InDelta(t, 0.50, history[1].Hours, 1e-9)
	assert.InDelta(t, 0.75, history[2].Hours, 1e-9)
}

func TestTimer_NoTaskSelectedIsNotRecorded(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, _ = env.api.StartTimer()
	env.clock.Advance(36 * time.Minute)
	result, err := env.api.StopTimer(ctx)
	require.NoError(t, err)

	assert.True(t, result.Stopped)
	assert.False(t, result.Recorded)
	assert.InDelta(t, 0.6, env.api.State().Hours, 1e-9)

	history, err := env.api.ListTimerHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTimer_BlankSnapshotTitleStopsCleanly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	data := `{"current_task_title": "  ", "current_task_hours": 0.25, "tasks_text": ""}`
	require.NoError(t, os.WriteFile(env.snapshot.Path(), []byte(data), 0644))
	require.NoError(t, env.api.Start(ctx))
	assert.Equal(t, domain.NoTaskSelected, env.api.State().Title)

	_, err := env.api.StartTimer()
	require.NoError(t, err)
	env.clock.Advance(30 * time.Minute)

	result, err := env.api.StopTimer(ctx)
	require.NoError(t, err)
	assert.True(t, result.Stopped)
	assert.False(t, result.Recorded)
	assert.InDelta(t, 0.75, env.api.State().Hours, 1e-9)
}

func TestTimer_StopWithoutStartIsNoop(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, err := env.api.SetCurrentTask("write report")
	require.NoError(t, err)

	result, err := env.api.StopTimer(ctx)
	require.NoError(t, err)
	assert.False(t, result.Stopped)
	assert.False(t, result.Recorded)
	assert.Equal(t, 0.0, env.api.State().Hours)

	history, err := env.api.ListTimerHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTimer_StartTwiceKeepsFirstStart(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, _ = env.api.StartTimer()
	env.clock.Advance(10 * time.Minute)
	started, err := env.api.StartTimer()
	require.NoError(t, err)
	assert.False(t, started)

	env.clock.Advance(20 * time.Minute)
	result, err := env.api.StopTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, result.Elapsed)
}

func TestTimer_SwitchingTaskWhileRunningKeepsTimer(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, _ = env.api.SetCurrentTask("first")
	_, _ = env.api.StartTimer()
	env.clock.Advance(time.Hour)

	_, err := env.api.SetCurrentTask("second")
	require.NoError(t, err)
	assert.Equal(t, services.TimerRunning, env.api.TimerStatus())

	result, err := env.api.StopTimer(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.Hours, 1e-9)

	history, err := env.api.ListTimerHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "second", history[0].Task)
}

func TestSaveState_ReflectsMemoryNotDatabase(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	_, _ = env.api.SetCurrentTask("write report")
	_, _ = env.api.StartTimer()
	env.clock.Advance(time.Hour)
	_, err := env.api.StopTimer(ctx)
	require.NoError(t, err)
	_, _ = env.api.SetCurrentTask("next thing")

	require.NoError(t, env.api.SaveState(ctx))
	saved, err := env.snapshot.Load()
	require.NoError(t, err)
	assert.Equal(t, "next thing", saved.Title)
	assert.Equal(t, 0.0, saved.Hours)
}

type failingSnapshot struct {
	*snapshot.Store
	saveErr error
	loadErr error
}

func (f *failingSnapshot) Save(state domain.State) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Store.Save(state)
}

func (f *failingSnapshot) Load() (domain.State, error) {
	if f.loadErr != nil {
		return domain.DefaultState(), f.loadErr
	}
	return f.Store.Load()
}

func TestStart_UnreadableSnapshotIsFatal(t *testing.T) {
	dir := t.TempDir()
	repo, err := sqlite.New(context.Background(), filepath.Join(dir, "tasks.db"))
	require.NoError(t, err)

	readErr := apperrors.NewSnapshotError("read", "app_state.json", errors.New("permission denied"))
	snap := &failingSnapshot{Store: snapshot.New(filepath.Join(dir, "app_state.json"), 0), loadErr: readErr}
	a := New(repo, snap, Options{})
	defer a.Shutdown(context.Background())

	err = a.Start(context.Background())
	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, Uninitialized, a.Phase())
}

func TestShutdown_ReportsSaveFailureAndStillCloses(t *testing.T) {
	dir := t.TempDir()
	repo, err := sqlite.New(context.Background(), filepath.Join(dir, "tasks.db"))
	require.NoError(t, err)

	snap := &failingSnapshot{Store: snapshot.New(filepath.Join(dir, "app_state.json"), 0)}
	a := New(repo, snap, Options{})
	require.NoError(t, a.Start(context.Background()))

	snap.saveErr = apperrors.NewSnapshotError("write", "app_state.json", errors.New("disk full"))
	err = a.Shutdown(context.Background())
	assert.ErrorIs(t, err, snap.saveErr)
	assert.Equal(t, Closed, a.Phase())

	_, err = repo.ListCaptures(context.Background())
	assert.Error(t, err)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "unknown", Phase(9).String())
}
