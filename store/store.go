// Package store defines the persistence interface and its SQLite
// implementation: the read-only candidate tables and the client-token to
// assistant-session mapping.
package store

import (
	"context"
	"errors"

	"github.com/hireloop/concierge/domain"
)

// ErrSessionNotFound is returned when a client token has no session mapping.
var ErrSessionNotFound = errors.New("session not found")

// Store defines the interface for data persistence.
type Store interface {
	// Session mapping
	CreateSession(ctx context.Context, token, assistantSessionID string) error
	GetSession(ctx context.Context, token string) (string, error)

	// Candidate reads
	SearchCandidates(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error)

	// Lifecycle
	Close() error
}
