package model

import "time"

// HistoryEntry is a query the user explicitly saved during a session.
type HistoryEntry struct {
	ID        int64     `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Query     string    `db:"query" json:"query"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LLMCall tracks each call to a language-model provider.
type LLMCall struct {
	ID          int64     `db:"id" json:"id"`
	Provider    string    `db:"provider" json:"provider"`
	Model       string    `db:"model" json:"model"`
	PromptChars int       `db:"prompt_chars" json:"prompt_chars"`
	Success     bool      `db:"success" json:"success"`
	ErrorText   *string   `db:"error_text" json:"error_text,omitempty"`
	DurationMs  *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
