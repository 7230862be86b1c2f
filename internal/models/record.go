// Package models provides data structures and operations for the Project 1356 application.
// This file contains the row model of the per-user key-value record store.
// Records hold the JSON-serialized domain documents the mobile client reads
// and writes: app state, commitment, profile and notification settings.
package models

import (
	"encoding/json"
	"time"

	"github.com/project1356/backend/internal/constants"
)

// UserRecord represents one row of the user_records table: a JSON payload
// stored under a string key, scoped to a user. The (user_id, record_key)
// pair is unique.
type UserRecord struct {
	// ID is the unique identifier for this record row
	ID int64 `json:"id" db:"record_id"`

	// UserID references the user who owns this record
	UserID int64 `json:"user_id" db:"user_id"`

	// Key is the record key, one of the well-known record keys
	Key string `json:"key" db:"record_key"`

	// Payload is the JSON document stored under the key
	Payload json.RawMessage `json:"payload" db:"payload"`

	// CreatedAt records when this record was first written
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt records when this record was last written
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the UserRecord model.
func (r *UserRecord) TableName() string {
	return constants.TableUserRecords
}

// NewUserRecord creates a new UserRecord for the given user, key and payload.
func NewUserRecord(userID int64, key string, payload json.RawMessage) *UserRecord {
	now := time.Now()
	return &UserRecord{
		UserID:    userID,
		Key:       key,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
