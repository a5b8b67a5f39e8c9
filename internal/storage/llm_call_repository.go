package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/stock-agent/internal/model"
)

// LLMCallRepository handles persistence of LLM call tracking.
type LLMCallRepository interface {
	Create(ctx context.Context, call *model.LLMCall) error
	Count(ctx context.Context) (int64, error)
	CountFailed(ctx context.Context) (int64, error)
}

type sqliteLLMCallRepository struct {
	db *sqlx.DB
}

// NewLLMCallRepository creates a new SQLite-backed LLMCallRepository.
func NewLLMCallRepository(db *sqlx.DB) LLMCallRepository {
	return &sqliteLLMCallRepository{db: db}
}

func (r *sqliteLLMCallRepository) Create(ctx context.Context, call *model.LLMCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_calls (provider, model, prompt_chars, success, error_text, duration_ms)
		VALUES (:provider, :model, :prompt_chars, :success, :error_text, :duration_ms)
	`, call)
	if err != nil {
		return fmt.Errorf("creating llm call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteLLMCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM llm_calls")
	return count, err
}

func (r *sqliteLLMCallRepository) CountFailed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM llm_calls WHERE success = 0")
	return count, err
}
