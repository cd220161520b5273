package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xiaot623/roastbattle/domain"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite. The default DSN is a shared
// in-memory database, so history lives only as long as the process.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: a pooled second connection to an in-memory DSN would see
	// its own empty database.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS rounds (
			round_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			user_roast TEXT NOT NULL,
			ai_roast TEXT NOT NULL,
			user_score TEXT NOT NULL,
			ai_score TEXT NOT NULL,
			winner TEXT NOT NULL,
			ai_fallback INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_session ON rounds(session_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, created_at) VALUES (?, ?)`,
		session.SessionID, session.CreatedAt)
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, created_at FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendRound stores one complete round. A single INSERT keeps the append
// atomic: either the full record lands or nothing does.
func (s *SQLiteStore) AppendRound(ctx context.Context, round *domain.RoundRecord) error {
	userScore, err := json.Marshal(round.UserScore)
	if err != nil {
		return fmt.Errorf("failed to marshal user score: %w", err)
	}
	aiScore, err := json.Marshal(round.AIScore)
	if err != nil {
		return fmt.Errorf("failed to marshal ai score: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rounds (round_id, session_id, user_roast, ai_roast, user_score, ai_score, winner, ai_fallback, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		round.RoundID, round.SessionID, round.UserRoast, round.AIRoast,
		string(userScore), string(aiScore), round.Winner, round.AIFallback, round.CreatedAt)
	return err
}

// GetRounds retrieves rounds for a session in insertion order. When limit is
// positive only the most recent limit rounds are returned, still oldest
// first.
func (s *SQLiteStore) GetRounds(ctx context.Context, sessionID string, limit int) ([]domain.RoundRecord, error) {
	query := `SELECT round_id, session_id, user_roast, ai_roast, user_score, ai_score, winner, ai_fallback, created_at
		FROM rounds WHERE session_id = ? ORDER BY rowid DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []domain.RoundRecord
	for rows.Next() {
		var round domain.RoundRecord
		var userScore, aiScore string
		if err := rows.Scan(&round.RoundID, &round.SessionID, &round.UserRoast, &round.AIRoast,
			&userScore, &aiScore, &round.Winner, &round.AIFallback, &round.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(userScore), &round.UserScore); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user score: %w", err)
		}
		if err := json.Unmarshal([]byte(aiScore), &round.AIScore); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ai score: %w", err)
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query walks newest-first for the LIMIT; flip back to insertion order.
	for i, j := 0, len(rounds)-1; i < j; i, j = i+1, j-1 {
		rounds[i], rounds[j] = rounds[j], rounds[i]
	}
	return rounds, nil
}

// DeleteRounds removes all rounds for a session.
func (s *SQLiteStore) DeleteRounds(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM rounds WHERE session_id = ?`, sessionID)
	return err
}

// WinnerCounts returns per-winner round counts for a session.
func (s *SQLiteStore) WinnerCounts(ctx context.Context, sessionID string) (map[domain.Winner]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT winner, COUNT(*) FROM rounds WHERE session_id = ? GROUP BY winner`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Winner]int)
	for rows.Next() {
		var winner domain.Winner
		var n int
		if err := rows.Scan(&winner, &n); err != nil {
			return nil, err
		}
		counts[winner] = n
	}
	return counts, rows.Err()
}
