// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database structures,
// including table names and column names. These constants ensure consistent and
// correct database access patterns throughout the application, reducing the risk
// of SQL errors and simplifying database schema changes.
package constants

// Table Names define the names of database tables used in the application.
// Using these constants instead of string literals ensures consistency
// and makes database schema changes easier to implement.
const (
	// TableUsers is the name of the table storing user account information.
	TableUsers = "users"

	// TableSessions is the name of the table storing user session information.
	TableSessions = "sessions"

	// TableUserRecords is the name of the table storing per-user key-value
	// records mirrored from client devices.
	TableUserRecords = "user_records"
)

// Common Column Names define frequently used database column names.
// These constants ensure consistent column name usage in SQL queries.
const (
	// ColumnID is the generic primary key column name.
	ColumnID = "id"

	// ColumnUserID is the column name for user identifier foreign keys.
	ColumnUserID = "user_id"

	// ColumnUsername is the column name for user usernames.
	ColumnUsername = "username"

	// ColumnEmail is the column name for user email addresses.
	ColumnEmail = "email"

	// ColumnPasswordHash is the column name for hashed passwords.
	ColumnPasswordHash = "password_hash"

	// ColumnSalt is the column name for password salt values.
	ColumnSalt = "salt"

	// ColumnCreatedAt is the column name for creation timestamps.
	ColumnCreatedAt = "created_at"

	// ColumnUpdatedAt is the column name for last-update timestamps.
	ColumnUpdatedAt = "updated_at"

	// ColumnSessionID is the column name for session identifiers.
	ColumnSessionID = "session_id"

	// ColumnJWTID is the column name for JWT identifiers.
	ColumnJWTID = "jwt_id"

	// ColumnExpiresAt is the column name for expiration timestamps.
	ColumnExpiresAt = "expires_at"

	// ColumnRecordID is the primary key column name of the record store.
	ColumnRecordID = "record_id"

	// ColumnRecordKey is the column name for record keys in the key-value store.
	ColumnRecordKey = "record_key"

	// ColumnPayload is the column name for JSON record payloads.
	ColumnPayload = "payload"
)

// Index Names define database index names.
// These constants are used when creating or referencing database indexes.
const (
	// IndexJWTID is the name of the index on JWT identifiers.
	IndexJWTID = "idx_jwt_id"
)
