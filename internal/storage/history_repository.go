package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/stock-agent/internal/model"
)

// ErrNotFound is returned when a record doesn't exist.
var ErrNotFound = errors.New("not found")

// HistoryRepository persists saved queries per session.
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.HistoryEntry) error
	Recent(ctx context.Context, sessionID string, limit int) ([]model.HistoryEntry, error)
	All(ctx context.Context, sessionID string) ([]model.HistoryEntry, error)
	Count(ctx context.Context, sessionID string) (int64, error)
	Clear(ctx context.Context, sessionID string) error
}

type sqliteHistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new SQLite-backed HistoryRepository.
func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &sqliteHistoryRepository{db: db}
}

func (r *sqliteHistoryRepository) Append(ctx context.Context, entry *model.HistoryEntry) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO history_entries (session_id, query)
		VALUES (:session_id, :query)
	`, entry)
	if err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

// Recent returns up to limit entries, newest first. Ordering is by id, not
// created_at: CURRENT_TIMESTAMP has one-second resolution.
func (r *sqliteHistoryRepository) Recent(ctx context.Context, sessionID string, limit int) ([]model.HistoryEntry, error) {
	entries := []model.HistoryEntry{}
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM history_entries WHERE session_id = ? ORDER BY id DESC LIMIT ?",
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent history: %w", err)
	}
	return entries, nil
}

// All returns every entry in insertion order.
func (r *sqliteHistoryRepository) All(ctx context.Context, sessionID string) ([]model.HistoryEntry, error) {
	entries := []model.HistoryEntry{}
	err := r.db.SelectContext(ctx, &entries,
		"SELECT * FROM history_entries WHERE session_id = ? ORDER BY id ASC", sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}

func (r *sqliteHistoryRepository) Count(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM history_entries WHERE session_id = ?", sessionID)
	return count, err
}

func (r *sqliteHistoryRepository) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM history_entries WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("clearing history for session %s: %w", sessionID, err)
	}
	return nil
}
