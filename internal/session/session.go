// Package session holds the per-session list of saved queries.
// A Session is created when a front end starts and cleared when it ends;
// nothing outlives the process.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/fleveque/stock-agent/internal/model"
	"github.com/fleveque/stock-agent/internal/storage"
)

// EmptyQueryMessage is shown when the user submits a blank query.
const EmptyQueryMessage = "Please type a query."

// ErrEmptyQuery is returned by Save for blank queries.
var ErrEmptyQuery = errors.New("empty query")

// Session owns the saved-query history of one user session.
// The HTTP front end serves requests concurrently, so access is serialized.
type Session struct {
	mu    sync.Mutex
	id    string
	repo  storage.HistoryRepository
	limit int
}

// New starts a session whose Recent view shows at most displayLimit entries.
func New(repo storage.HistoryRepository, displayLimit int) *Session {
	return &Session{id: uuid.NewString(), repo: repo, limit: displayLimit}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// IsBlank reports whether query has no content.
func IsBlank(query string) bool { return strings.TrimSpace(query) == "" }

// Save appends query to the history.
func (s *Session) Save(ctx context.Context, query string) (*model.HistoryEntry, error) {
	if IsBlank(query) {
		return nil, ErrEmptyQuery
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &model.HistoryEntry{SessionID: s.id, Query: strings.TrimSpace(query)}
	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("saving query: %w", err)
	}
	return entry, nil
}

// Recent returns the display window: the newest entries first. Older entries
// stay in storage, they are only hidden.
func (s *Session) Recent(ctx context.Context) ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Recent(ctx, s.id, s.limit)
}

// All returns every saved entry, oldest first.
func (s *Session) All(ctx context.Context) ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.All(ctx, s.id)
}

// Close clears the session's history.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Clear(ctx, s.id); err != nil {
		return fmt.Errorf("clearing session %s: %w", s.id, err)
	}
	return nil
}

// Count returns the number of saved entries, hidden ones included.
func (s *Session) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Count(ctx, s.id)
}
