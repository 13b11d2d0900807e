// Package storage provides SQLite-based persistence for recorded solves.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for solve persistence.
type Store struct {
	db *sql.DB
}

// SolveRecord is one stored solve: the puzzle size, the JSON scramble
// snapshot, the JSON move list, and summary columns for browsing.
type SolveRecord struct {
	ID        int64
	N         int
	D         int
	Scramble  string
	Moves     string
	MoveCount int
	Solved    bool
	Duration  int // seconds
	CreatedAt time.Time
}

// PuzzleName renders the record's size as n^d.
func (r SolveRecord) PuzzleName() string {
	return fmt.Sprintf("%d^%d", r.N, r.D)
}

// SolveStats summarizes the stored solves of one puzzle size.
type SolveStats struct {
	TotalSolves  int
	Finished     int
	BestMoves    int // 0 when no finished solve exists
	BestDuration int // seconds, 0 when no finished solve exists
	LastPlayed   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS solves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			n INTEGER NOT NULL,
			d INTEGER NOT NULL,
			scramble TEXT NOT NULL,
			moves TEXT NOT NULL,
			move_count INTEGER NOT NULL DEFAULT 0,
			solved INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_solves_size ON solves(d, n);
		CREATE INDEX IF NOT EXISTS idx_solves_recent ON solves(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSolve records a solve. Returns the ID of the inserted record.
func (s *Store) SaveSolve(rec SolveRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO solves (n, d, scramble, moves, move_count, solved, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.N, rec.D, rec.Scramble, rec.Moves, rec.MoveCount, rec.Solved, rec.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save solve: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSolves retrieves the most recent solves across all puzzle sizes.
func (s *Store) RecentSolves(limit int) ([]SolveRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, n, d, scramble, moves, move_count, solved, duration_secs, created_at
		 FROM solves
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solves: %w", err)
	}
	defer rows.Close()

	var records []SolveRecord
	for rows.Next() {
		rec, err := scanSolve(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SolveByID retrieves a single solve record.
func (s *Store) SolveByID(id int64) (*SolveRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, n, d, scramble, moves, move_count, solved, duration_secs, created_at
		 FROM solves
		 WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solve: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("storage: solve %d not found", id)
	}
	rec, err := scanSolve(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SizeStats summarizes the stored solves of one puzzle size.
func (s *Store) SizeStats(n, d int) (*SolveStats, error) {
	stats := &SolveStats{}

	var best, bestDur sql.NullInt64
	var last any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(solved), 0),
		        MIN(CASE WHEN solved THEN move_count END),
		        MIN(CASE WHEN solved THEN duration_secs END),
		        MAX(created_at)
		 FROM solves
		 WHERE n = ? AND d = ?`,
		n, d,
	).Scan(&stats.TotalSolves, &stats.Finished, &best, &bestDur, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query stats: %w", err)
	}

	if best.Valid {
		stats.BestMoves = int(best.Int64)
	}
	if bestDur.Valid {
		stats.BestDuration = int(bestDur.Int64)
	}
	stats.LastPlayed = parseTime(last)

	return stats, nil
}

func scanSolve(rows *sql.Rows) (SolveRecord, error) {
	var rec SolveRecord
	var createdAt any
	if err := rows.Scan(
		&rec.ID, &rec.N, &rec.D, &rec.Scramble, &rec.Moves,
		&rec.MoveCount, &rec.Solved, &rec.Duration, &createdAt,
	); err != nil {
		return rec, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// parseTime handles the datetime column arriving as time.Time or string.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
