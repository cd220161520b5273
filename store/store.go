// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/xiaot623/roastbattle/domain"
)

// Store defines the interface for session and round storage.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// Round operations. AppendRound stores a complete record atomically;
	// GetRounds returns records in insertion order, optionally only the most
	// recent limit rounds.
	AppendRound(ctx context.Context, round *domain.RoundRecord) error
	GetRounds(ctx context.Context, sessionID string, limit int) ([]domain.RoundRecord, error)
	DeleteRounds(ctx context.Context, sessionID string) error

	// WinnerCounts returns the number of rounds per winner for a session.
	WinnerCounts(ctx context.Context, sessionID string) (map[domain.Winner]int, error)

	// Lifecycle
	Close() error
}
