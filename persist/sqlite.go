package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pthm-cable/aipop/world"
)

// SQLiteStore archives every saved snapshot in a SQLite database.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// Entry describes one archived snapshot.
type Entry struct {
	ID          int64
	RunID       string
	Tick        int64
	SavedAt     time.Time
	Population  int
	Food        int
	PayloadSize int
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}
	if strings.TrimSpace(s.path) == "" {
		return errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap *world.Snapshot) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO snapshots (run_id, tick, saved_at, population, food, payload) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.RunID, snap.Tick, snap.SavedAt.UTC().Format(time.RFC3339Nano),
		len(snap.Individuals), len(snap.Food), payload,
	)
	return err
}

// Load returns the most recently archived snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (*world.Snapshot, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	return scanSnapshot(db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots ORDER BY id DESC LIMIT 1`))
}

// Get returns the archived snapshot with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*world.Snapshot, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	return scanSnapshot(db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE id = ?`, id))
}

// List returns archived snapshots, oldest first. An empty runID lists all runs.
func (s *SQLiteStore) List(ctx context.Context, runID string) ([]Entry, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, run_id, tick, saved_at, population, food, length(payload)
		FROM snapshots
		WHERE ? = '' OR run_id = ?
		ORDER BY id`, runID, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var savedAt string
		if err := rows.Scan(&e.ID, &e.RunID, &e.Tick, &savedAt, &e.Population, &e.Food, &e.PayloadSize); err != nil {
			return nil, err
		}
		if e.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
			return nil, fmt.Errorf("snapshot %d saved_at: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func scanSnapshot(row *sql.Row) (*world.Snapshot, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var snap world.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			saved_at TEXT NOT NULL,
			population INTEGER NOT NULL,
			food INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS snapshots_run_id ON snapshots (run_id);
	`)
	return err
}
