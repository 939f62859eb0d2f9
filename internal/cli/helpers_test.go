package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"singletask/internal/api"
	"singletask/internal/config"
	"singletask/internal/repository/sqlite"
	"singletask/internal/snapshot"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type testApp struct {
	*App
	out       *bytes.Buffer
	errOut    *bytes.Buffer
	clock     *fakeClock
	clipboard *fakeClipboard
	snapshot  *snapshot.Store
}

// setupTestApp starts an application context over a temporary directory
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	dir := t.TempDir()

	repo, err := sqlite.New(context.Background(), filepath.Join(dir, "tasks.db"))
	require.NoError(t, err)

	snap := snapshot.New(filepath.Join(dir, "app_state.json"), 0)
	clock := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	session := api.New(repo, snap, api.Options{Clock: clock.Now})
	require.NoError(t, session.Start(context.Background()))
	t.Cleanup(func() { _ = session.Shutdown(context.Background()) })

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	clip := &fakeClipboard{}
	app := NewApp(session, config.NewConfig(), WithOutput(out, errOut), WithClipboard(clip.WriteAll))

	return &testApp{App: app, out: out, errOut: errOut, clock: clock, clipboard: clip, snapshot: snap}
}

// output returns and clears everything written so far
func (a *testApp) output() string {
	s := a.out.String()
	a.out.Reset()
	return s
}
