// Package repository provides data access interfaces and implementations for the Project 1356 API.
//
// This file implements the record repository, the persistence surface for the
// application's keyed record store. Each user owns at most one record per key
// (application state, commitment, profile, notification settings), and every
// payload is stored as an opaque JSON document. The store never interprets
// payloads; all domain validation happens above this layer.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/database"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// RecordRepository defines methods for reading and writing a user's keyed records.
// Payloads are opaque JSON documents; a write replaces the previous payload for
// the same (user, key) pair atomically.
type RecordRepository interface {
	// Get retrieves the payload stored under the given key for a user.
	//
	// Returns:
	//   - The raw JSON payload if the record exists
	//   - NotFoundError if the user has no record under the key
	//   - Other errors for database issues
	Get(ctx context.Context, userID int64, key string) (json.RawMessage, error)

	// GetMany retrieves the payloads for several keys in one query.
	// Keys with no stored record are simply absent from the result map;
	// missing keys are not an error.
	GetMany(ctx context.Context, userID int64, keys []string) (map[string]json.RawMessage, error)

	// Set stores a payload under the given key for a user, replacing any
	// previous payload for the same key.
	Set(ctx context.Context, userID int64, key string, payload json.RawMessage) error

	// Delete removes the record stored under the given key for a user.
	//
	// Returns:
	//   - NotFoundError if the user has no record under the key
	//   - nil on successful deletion
	Delete(ctx context.Context, userID int64, key string) error

	// DeleteMany removes the records stored under the given keys for a user.
	// Keys with no stored record are skipped; the call succeeds as long as
	// the statement executes, making it safe to use for a full reset.
	DeleteMany(ctx context.Context, userID int64, keys []string) error
}

// MySQLRecordRepository is a MySQL implementation of RecordRepository.
type MySQLRecordRepository struct {
	db *database.Pool
}

// NewRecordRepository creates a new RecordRepository implementation for MySQL.
func NewRecordRepository(db *database.Pool) RecordRepository {
	return &MySQLRecordRepository{
		db: db,
	}
}

// Get retrieves the payload stored under the given key for a user.
func (r *MySQLRecordRepository) Get(ctx context.Context, userID int64, key string) (json.RawMessage, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
		SELECT payload
		FROM user_records
		WHERE user_id = ? AND record_key = ?
	`

	// Execute the query
	var payload json.RawMessage
	err := r.db.QueryRowContext(ctx, query, userID, key).Scan(&payload)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID, key},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Record", key)
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return payload, nil
}

// GetMany retrieves the payloads for several keys in one query.
func (r *MySQLRecordRepository) GetMany(ctx context.Context, userID int64, keys []string) (map[string]json.RawMessage, error) {
	records := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return records, nil
	}

	// Start query timer
	startTime := time.Now()

	// Build the placeholder list for the IN clause
	placeholders := ""
	args := make([]interface{}, 0, len(keys)+1)
	args = append(args, userID)
	for i, key := range keys {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, key)
	}

	// Define the query
	query := fmt.Sprintf(`
		SELECT record_key, payload
		FROM user_records
		WHERE user_id = ? AND record_key IN (%s)
	`, placeholders)

	// Execute the query
	rows, err := r.db.QueryContext(ctx, query, args...)

	// Log the query execution
	utils.LogDBQuery(
		query,
		args,
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	// Parse the results
	for rows.Next() {
		var key string
		var payload json.RawMessage
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records[key] = payload
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	return records, nil
}

// Set stores a payload under the given key for a user, replacing any
// previous payload for the same key.
func (r *MySQLRecordRepository) Set(ctx context.Context, userID int64, key string, payload json.RawMessage) error {
	// Start query timer
	startTime := time.Now()

	record := models.NewUserRecord(userID, key, payload)

	// Upsert keyed on the (user_id, record_key) unique index
	query := `
		INSERT INTO user_records (user_id, record_key, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)
	`

	// Execute the query
	_, err := r.db.ExecContext(
		ctx,
		query,
		record.UserID,
		record.Key,
		record.Payload,
		record.CreatedAt,
		record.UpdatedAt,
	)

	// Log the query execution (payload content is never logged)
	utils.LogDBQuery(
		query,
		[]interface{}{record.UserID, record.Key, fmt.Sprintf("[%d bytes]", len(record.Payload)), record.CreatedAt, record.UpdatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == constants.MySQLErrorForeignKeyConstraint {
			return utils.NewNotFoundError("User", userID)
		}
		return fmt.Errorf("failed to store record: %w", err)
	}

	log.Info().
		Int64(constants.ColumnUserID, userID).
		Str(constants.ColumnRecordKey, key).
		Int("payload_bytes", len(record.Payload)).
		Msg("Record stored")

	return nil
}

// Delete removes the record stored under the given key for a user.
func (r *MySQLRecordRepository) Delete(ctx context.Context, userID int64, key string) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `DELETE FROM user_records WHERE user_id = ? AND record_key = ?`

	// Execute the query
	result, err := r.db.ExecContext(ctx, query, userID, key)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID, key},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("Record", key)
	}

	log.Info().
		Int64(constants.ColumnUserID, userID).
		Str(constants.ColumnRecordKey, key).
		Msg("Record deleted")

	return nil
}

// DeleteMany removes the records stored under the given keys for a user.
func (r *MySQLRecordRepository) DeleteMany(ctx context.Context, userID int64, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	// Start query timer
	startTime := time.Now()

	// Build the placeholder list for the IN clause
	placeholders := ""
	args := make([]interface{}, 0, len(keys)+1)
	args = append(args, userID)
	for i, key := range keys {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, key)
	}

	// Define the query
	query := fmt.Sprintf(`DELETE FROM user_records WHERE user_id = ? AND record_key IN (%s)`, placeholders)

	// Execute the query
	result, err := r.db.ExecContext(ctx, query, args...)

	// Log the query execution
	utils.LogDBQuery(
		query,
		args,
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to delete records: %w", err)
	}

	// Log the deletion
	rowsAffected, _ := result.RowsAffected()
	log.Info().
		Int64(constants.ColumnUserID, userID).
		Strs("record_keys", keys).
		Int64("count", rowsAffected).
		Msg("Records deleted for user")

	return nil
}
