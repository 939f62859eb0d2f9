package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	apperrors "singletask/internal/errors"
	"singletask/internal/repository/sqlite/migrations"
	"singletask/internal/validation"

	_ "modernc.org/sqlite"
)

// Repository is the durable store for captures and timer history
type Repository interface {
	// Init creates both tables if absent. Safe to call repeatedly.
	Init(ctx context.Context) error

	// Captures
	AddCapture(ctx context.Context, content string) (int64, bool, error)
	GetCapture(ctx context.Context, id int64) (*Capture, error)
	ListCaptures(ctx context.Context) ([]*Capture, error)
	DeleteCapture(ctx context.Context, id int64) (bool, error)

	// Timer history (append-only)
	RecordTimerStop(ctx context.Context, task string, cumulativeHours float64) (bool, error)
	ListTimerEntries(ctx context.Context) ([]*TimerEntry, error)

	Close() error
}

// SQLiteRepository implements Repository on a single database file
type SQLiteRepository struct {
	db             *sql.DB
	timerValidator *validation.TimerValidator
}

// New opens the database at dbPath and initialises the schema
func New(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.NewDatabaseError("open database", err)
	}
	// Single writer. Also keeps ":memory:" databases on one connection.
	db.SetMaxOpenConns(1)

	repo := &SQLiteRepository{
		db:             db,
		timerValidator: validation.NewTimerValidator(),
	}
	if err := repo.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// Init creates the captures and task_timer tables if they do not exist
func (r *SQLiteRepository) Init(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return apperrors.NewDatabaseError("open database", err)
	}
	version, dirty, err := migrations.Version(r.db)
	if err != nil {
		return apperrors.NewDatabaseError("read schema version", err)
	}
	if dirty {
		return apperrors.NewDatabaseError("create tables",
			fmt.Errorf("schema version %d was left half-applied; repair the database before opening it", version))
	}
	if err := migrations.RunMigrations(r.db); err != nil {
		return apperrors.NewDatabaseError("create tables", err)
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// AddCapture inserts a capture and returns its generated id. Content that is
// blank after trimming is skipped and reported with ok=false.
func (r *SQLiteRepository) AddCapture(ctx context.Context, content string) (int64, bool, error) {
	if strings.TrimSpace(content) == "" {
		return 0, false, nil
	}

	query := `INSERT INTO captures (content) VALUES (?)`
	id, err := ExecuteWithLastInsertID(ctx, r.db, "insert capture", query, content)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// GetCapture retrieves a capture by id
func (r *SQLiteRepository) GetCapture(ctx context.Context, id int64) (*Capture, error) {
	query := `SELECT id, content FROM captures WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanCapture, "capture", fmt.Sprintf("%d", id), id)
}

// ListCaptures returns every capture in insertion order
func (r *SQLiteRepository) ListCaptures(ctx context.Context) ([]*Capture, error) {
	query := `SELECT id, content FROM captures ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanCaptures, "captures")
}

// DeleteCapture removes a capture. Deleting an unknown id is a no-op reported with deleted=false.
func (r *SQLiteRepository) DeleteCapture(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM captures WHERE id = ?`
	rows, err := ExecuteWithRowsAffected(ctx, r.db, "delete capture", query, id)
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// RecordTimerStop appends a history row holding the cumulative hours for task.
// Stops against NoTaskSelected are skipped and reported with recorded=false.
func (r *SQLiteRepository) RecordTimerStop(ctx context.Context, task string, cumulativeHours float64) (bool, error) {
	if task == NoTaskSelected {
		return false, nil
	}
	if err := r.timerValidator.ValidateTimerStop(task, cumulativeHours); err != nil {
		return false, err
	}

	query := `INSERT INTO task_timer (task, hours) VALUES (?, ?)`
	if _, err := ExecuteWithLastInsertID(ctx, r.db, "insert timer entry", query, task, cumulativeHours); err != nil {
		return false, err
	}
	return true, nil
}

// ListTimerEntries returns the timer history in insertion order
func (r *SQLiteRepository) ListTimerEntries(ctx context.Context) ([]*TimerEntry, error) {
	query := `SELECT id, task, COALESCE(hours, 0) FROM task_timer ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanTimerEntries, "timer entries")
}
