package migrations

import (
	"context"
	"database/sql"
)

// createUsersTable creates the users table
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   "users",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGINT AUTO_INCREMENT PRIMARY KEY,
					username VARCHAR(50) NOT NULL,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					salt VARCHAR(255) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT idx_username UNIQUE (username),
					CONSTRAINT idx_email UNIQUE (email)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createSessionsTable creates the sessions table
func createSessionsTable() Migration {
	return Migration{
		Name:        "create_sessions_table",
		Description: "Creates the sessions table for refresh token tracking",
		TableName:   "sessions",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS sessions (
					session_id VARCHAR(36) PRIMARY KEY,
					user_id BIGINT NOT NULL,
					jwt_id VARCHAR(255) NOT NULL,
					expires_at TIMESTAMP NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_sessions_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
					INDEX idx_jwt_id (jwt_id),
					INDEX idx_sessions_user_id (user_id),
					INDEX idx_expires_at (expires_at)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createUserRecordsTable creates the user_records table. Records are opaque
// JSON payloads keyed by (user_id, record_key).
func createUserRecordsTable() Migration {
	return Migration{
		Name:        "create_user_records_table",
		Description: "Creates the user_records key-value store",
		TableName:   "user_records",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS user_records (
					record_id BIGINT AUTO_INCREMENT PRIMARY KEY,
					user_id BIGINT NOT NULL,
					record_key VARCHAR(100) NOT NULL,
					payload JSON NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_records_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
					CONSTRAINT idx_user_record_key UNIQUE (user_id, record_key)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// GetMigrations returns all migrations in execution order. Order matters:
// tables with foreign keys come after the tables they reference.
func GetMigrations() []Migration {
	return []Migration{
		createUsersTable(),
		createSessionsTable(),
		createUserRecordsTable(),
	}
}
