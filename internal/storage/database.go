// Package storage handles data persistence: SQLite database and filesystem.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Blank import: registers the SQLite driver.
)

// MemoryPath is the DSN for a database that lives only as long as the process.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS history_entries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    query      TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS llm_calls (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    provider     TEXT NOT NULL,
    model        TEXT NOT NULL,
    prompt_chars INTEGER NOT NULL DEFAULT 0,
    success      BOOLEAN NOT NULL DEFAULT 0,
    error_text   TEXT,
    duration_ms  INTEGER,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_history_session ON history_entries(session_id);
CREATE INDEX IF NOT EXISTS idx_llm_calls_provider ON llm_calls(provider);
`

// NewDatabase opens a SQLite connection and runs migrations.
// Pass MemoryPath (the default) to keep everything in process memory.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	// WAL only makes sense for file databases; SQLite ignores it in memory.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", dbPath)
	if dbPath == MemoryPath {
		dsn = fmt.Sprintf("%s?_foreign_keys=on", dbPath)
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Ping actually opens the connection (Open is lazy in database/sql)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// One connection: a single writer for file databases, and for ":memory:"
	// every new connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
