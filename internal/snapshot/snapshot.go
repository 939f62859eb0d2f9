package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"singletask/internal/domain"
	apperrors "singletask/internal/errors"
	"singletask/internal/validation"
)

// CorruptSuffix is appended to a snapshot file that failed to parse when it is moved aside
const CorruptSuffix = ".corrupt"

// file is the on-disk layout. Pointers distinguish absent keys from zero values.
type file struct {
	Title     *string  `json:"current_task_title"`
	Hours     *float64 `json:"current_task_hours"`
	TasksText *string  `json:"tasks_text"`
}

// Store owns a single snapshot file. Writes replace the file atomically;
// the last writer wins.
type Store struct {
	path           string
	dirPermissions fs.FileMode
	timerValidator *validation.TimerValidator
}

// New creates a snapshot store for path. Nothing is touched on disk until Save or Load.
func New(path string, dirPermissions fs.FileMode) *Store {
	if dirPermissions == 0 {
		dirPermissions = 0755
	}
	return &Store{
		path:           path,
		dirPermissions: dirPermissions,
		timerValidator: validation.NewTimerValidator(),
	}
}

// Path returns the snapshot file location
func (s *Store) Path() string {
	return s.path
}

// Save writes state to a temporary file in the same directory and renames it
// over the snapshot, so a crash mid-write leaves the previous snapshot intact.
func (s *Store) Save(state domain.State) error {
	data, err := json.Marshal(file{
		Title:     &state.Title,
		Hours:     &state.Hours,
		TasksText: &state.TasksText,
	})
	if err != nil {
		return apperrors.NewSnapshotError("encode", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, s.dirPermissions); err != nil {
		return apperrors.NewSnapshotError("create directory", s.path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return apperrors.NewSnapshotError("create temp file", s.path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return apperrors.NewSnapshotError("write", s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		return apperrors.NewSnapshotError("sync", s.path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return apperrors.NewSnapshotError("chmod", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewSnapshotError("close", s.path, err)
	}
	tmp = nil

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewSnapshotError("rename", s.path, err)
	}
	return nil
}

// Load reads the snapshot. A missing file yields domain.DefaultState and no error;
// missing keys take their default values and a blank title means no task is selected. A file that cannot be parsed yields
// domain.DefaultState together with a corrupt-snapshot error so the caller can
// decide whether to continue.
func (s *Store) Load() (domain.State, error) {
	state := domain.DefaultState()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return state, nil
		}
		return state, apperrors.NewSnapshotError("read", s.path, err)
	}

	var f file
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f); err != nil {
		return domain.DefaultState(), apperrors.NewCorruptSnapshotError(s.path, err)
	}
	if dec.More() {
		return domain.DefaultState(), apperrors.NewCorruptSnapshotError(s.path, fmt.Errorf("trailing data after snapshot object"))
	}

	if f.Title != nil && strings.TrimSpace(*f.Title) != "" {
		state.Title = *f.Title
	}
	if f.Hours != nil {
		if err := s.timerValidator.ValidateHours("current_task_hours", *f.Hours); err != nil {
			return domain.DefaultState(), apperrors.NewCorruptSnapshotError(s.path, err)
		}
		state.Hours = *f.Hours
	}
	if f.TasksText != nil {
		state.TasksText = *f.TasksText
	}
	return state, nil
}

// Quarantine moves an unreadable snapshot aside so the next Save starts clean
// while the bad file stays available for inspection. It returns the new path.
func (s *Store) Quarantine() (string, error) {
	dest := s.path + CorruptSuffix
	if err := os.Rename(s.path, dest); err != nil {
		return "", apperrors.NewSnapshotError("quarantine", s.path, err)
	}
	return dest, nil
}
