package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/project1356/backend/internal/models"
)

func TestUserRecord_TableName(t *testing.T) {
	// Create a test record
	record := &models.UserRecord{
		ID:      1,
		UserID:  100,
		Key:     "commitment",
		Payload: json.RawMessage(`{"goal_count":6}`),
	}

	// Verify the table name
	tableName := record.TableName()
	assert.Equal(t, "user_records", tableName, "TableName should return the correct database table name")
}

func TestNewUserRecord(t *testing.T) {
	payload := json.RawMessage(`{"is_onboarded":true}`)

	// Create a new record
	now := time.Now()
	record := models.NewUserRecord(100, "app_state", payload)

	// Verify the record was created correctly
	assert.NotNil(t, record, "NewUserRecord should return a non-nil UserRecord")
	assert.Equal(t, int64(100), record.UserID, "Record should have the provided user ID")
	assert.Equal(t, "app_state", record.Key, "Record should have the provided key")
	assert.Equal(t, payload, record.Payload, "Record should have the provided payload")
	assert.WithinDuration(t, now, record.CreatedAt, time.Second, "CreatedAt should be set to current time")
	assert.WithinDuration(t, now, record.UpdatedAt, time.Second, "UpdatedAt should be set to current time")
	assert.Equal(t, int64(0), record.ID, "A new UserRecord should have zero ID until saved to database")
}
