package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"pulse/internal/platform/config"
)

// Open connects to the sqlite database at the configured path, creating the
// parent directory and schema on first use.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", cfg.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := InitSchema(db); err != nil {
		return nil, err
	}

	return db, nil
}

// InitSchema creates all tables if they do not exist yet. It is safe to call
// on every startup.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	created_at TEXT DEFAULT (datetime('now')),
	archived INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS project_members (
	project_id TEXT REFERENCES projects(id),
	member_name TEXT NOT NULL,
	role TEXT DEFAULT 'contributor',
	PRIMARY KEY (project_id, member_name)
);

CREATE TABLE IF NOT EXISTS status_updates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id TEXT REFERENCES projects(id),
	author TEXT NOT NULL,
	status_text TEXT NOT NULL,
	created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS hooks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	url TEXT NOT NULL,
	method TEXT DEFAULT 'POST',
	headers_json TEXT,
	body_template TEXT,
	enabled INTEGER DEFAULT 1
);

CREATE TABLE IF NOT EXISTS project_hooks (
	project_id TEXT REFERENCES projects(id),
	hook_id TEXT REFERENCES hooks(id),
	event_filter TEXT,
	enabled INTEGER DEFAULT 1,
	PRIMARY KEY (project_id, hook_id)
);

CREATE TABLE IF NOT EXISTS hook_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id TEXT,
	hook_id TEXT,
	event_type TEXT,
	status_code INTEGER,
	response_body TEXT,
	error TEXT,
	created_at TEXT DEFAULT (datetime('now'))
);
`
