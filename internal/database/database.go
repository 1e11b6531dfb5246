package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Config holds database configuration
type Config struct {
	Path string
}

// Open initializes the database connection and runs migrations.
// The returned handle is passed explicitly to each repository.
func Open(cfg Config) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Run migrations
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// OpenMemory opens an in-memory database, used by tests
func OpenMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	// A second connection would see a different empty database
	db.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate runs all database migrations
func Migrate(db *sql.DB) error {
	// Create migrations table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	// Run each migration
	for _, m := range migrations {
		if err := runMigration(db, m); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
	}

	return nil
}

type migration struct {
	name string
	up   string
}

func runMigration(db *sql.DB, m migration) error {
	// Check if already applied
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", m.name).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Already applied
	}

	// Run migration
	if _, err := db.Exec(m.up); err != nil {
		return err
	}

	// Record migration
	_, err = db.Exec("INSERT INTO migrations (name) VALUES (?)", m.name)
	return err
}

var migrations = []migration{
	{
		name: "001_create_clients",
		up: `
			CREATE TABLE clients (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				public_id TEXT NOT NULL UNIQUE,
				email TEXT NOT NULL UNIQUE,
				first_name TEXT NOT NULL DEFAULT '',
				last_name TEXT NOT NULL DEFAULT '',
				phone TEXT,
				status TEXT NOT NULL DEFAULT 'active',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_clients_email ON clients(email);
			CREATE INDEX idx_clients_status ON clients(status);
		`,
	},
	{
		name: "002_create_staff_users",
		up: `
			CREATE TABLE staff_users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				public_id TEXT NOT NULL UNIQUE,
				email TEXT NOT NULL UNIQUE,
				display_name TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'front_desk',
				disabled INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				last_login DATETIME
			);
			CREATE INDEX idx_staff_users_email ON staff_users(email);
		`,
	},
	{
		name: "003_create_login_tokens",
		up: `
			CREATE TABLE login_tokens (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				client_id INTEGER NOT NULL,
				token_hash TEXT NOT NULL UNIQUE,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				expires_at DATETIME NOT NULL,
				consumed_at DATETIME,
				ip_address TEXT,
				user_agent TEXT,
				FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_login_tokens_token_hash ON login_tokens(token_hash);
			CREATE INDEX idx_login_tokens_client_id ON login_tokens(client_id);
			CREATE INDEX idx_login_tokens_expires_at ON login_tokens(expires_at);
		`,
	},
	{
		name: "004_create_sessions",
		up: `
			CREATE TABLE sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				public_id TEXT NOT NULL UNIQUE,
				kind TEXT NOT NULL DEFAULT 'client',
				client_id INTEGER,
				staff_id INTEGER,
				token_hash TEXT NOT NULL UNIQUE,
				refresh_token_hash TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				expires_at DATETIME NOT NULL,
				last_seen_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				revoked_at DATETIME,
				ip_address TEXT,
				user_agent TEXT,
				FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE,
				FOREIGN KEY (staff_id) REFERENCES staff_users(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_sessions_token_hash ON sessions(token_hash);
			CREATE INDEX idx_sessions_client_id ON sessions(client_id);
			CREATE INDEX idx_sessions_expires_at ON sessions(expires_at);
		`,
	},
	{
		name: "005_create_access_logs",
		up: `
			CREATE TABLE access_logs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
				client_id INTEGER,
				staff_id INTEGER,
				session_id TEXT,
				action TEXT NOT NULL,
				resource_type TEXT,
				resource_id TEXT,
				ip_address TEXT,
				user_agent TEXT,
				details TEXT,
				FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE SET NULL,
				FOREIGN KEY (staff_id) REFERENCES staff_users(id) ON DELETE SET NULL
			);
			CREATE INDEX idx_access_logs_timestamp ON access_logs(timestamp);
			CREATE INDEX idx_access_logs_client_id ON access_logs(client_id);
			CREATE INDEX idx_access_logs_action ON access_logs(action);
		`,
	},
	{
		name: "006_create_documents",
		up: `
			CREATE TABLE documents (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				public_id TEXT NOT NULL UNIQUE,
				client_id INTEGER NOT NULL,
				kind TEXT NOT NULL,
				title TEXT NOT NULL,
				url TEXT NOT NULL,
				signed_at DATETIME,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_documents_client_id ON documents(client_id);
		`,
	},
	{
		name: "007_create_notifications",
		up: `
			CREATE TABLE notifications (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				public_id TEXT NOT NULL UNIQUE,
				client_id INTEGER NOT NULL,
				title TEXT NOT NULL,
				body TEXT NOT NULL DEFAULT '',
				read_at DATETIME,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (client_id) REFERENCES clients(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_notifications_client_id ON notifications(client_id);
		`,
	},
}
