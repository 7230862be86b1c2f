package repository_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/database"
	"github.com/project1356/backend/internal/repository"
)

// setupRecordRepositoryTest creates a new test database connection and mock
func setupRecordRepositoryTest(t *testing.T) (*repository.MySQLRecordRepository, sqlmock.Sqlmock, func()) {
	// Create a new SQL mock database
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	// Create a database pool with the mock database
	dbPool := &database.Pool{DB: db}

	// Create a new repository with the mocked database
	repo := repository.NewRecordRepository(dbPool).(*repository.MySQLRecordRepository)

	// Return the repository, mock and a cleanup function
	return repo, mock, func() {
		db.Close()
	}
}

func TestRecordRepository_Get(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	key := constants.RecordKeyProfile
	payload := []byte(`{"name":"Alex","age":30}`)

	// Set up query result
	rows := sqlmock.NewRows([]string{"payload"}).AddRow(payload)

	// Expected query with placeholders for the user ID and record key
	mock.ExpectQuery("SELECT payload FROM user_records WHERE user_id = \\? AND record_key = \\?").
		WithArgs(userID, key).
		WillReturnRows(rows)

	// Execute the method being tested
	result, err := repo.Get(context.Background(), userID, key)

	// Assert the results
	assert.NoError(t, err)
	assert.JSONEq(t, string(payload), string(result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Get_NotFound(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	key := constants.RecordKeyCommitment

	// Mock database response - empty result
	mock.ExpectQuery("SELECT payload FROM user_records WHERE user_id = \\? AND record_key = \\?").
		WithArgs(userID, key).
		WillReturnError(sql.ErrNoRows)

	// Execute the method being tested
	result, err := repo.Get(context.Background(), userID, key)

	// Assert the results
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Get_DatabaseError(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	key := constants.RecordKeyAppState

	// Mock a database error
	dbErr := errors.New("database connection error")
	mock.ExpectQuery("SELECT payload FROM user_records WHERE user_id = \\? AND record_key = \\?").
		WithArgs(userID, key).
		WillReturnError(dbErr)

	// Execute the method being tested
	result, err := repo.Get(context.Background(), userID, key)

	// Assert the results
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to get record")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_GetMany(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	keys := []string{constants.RecordKeyCommitment, constants.RecordKeyProfile, constants.RecordKeyNotificationSettings}

	// Only two of the three requested keys have stored records
	rows := sqlmock.NewRows([]string{"record_key", "payload"}).
		AddRow(constants.RecordKeyCommitment, []byte(`{"mode":"TEAM_MODE"}`)).
		AddRow(constants.RecordKeyProfile, []byte(`{"name":"Alex"}`))

	// Expected query with placeholders for the user ID and the key list
	mock.ExpectQuery("SELECT record_key, payload FROM user_records WHERE user_id = \\? AND record_key IN").
		WithArgs(userID, keys[0], keys[1], keys[2]).
		WillReturnRows(rows)

	// Execute the method being tested
	records, err := repo.GetMany(context.Background(), userID, keys)

	// Assert the results
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.JSONEq(t, `{"mode":"TEAM_MODE"}`, string(records[constants.RecordKeyCommitment]))
	assert.JSONEq(t, `{"name":"Alex"}`, string(records[constants.RecordKeyProfile]))
	assert.NotContains(t, records, constants.RecordKeyNotificationSettings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_GetMany_NoKeys(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Execute the method being tested with no keys; no query should run
	records, err := repo.GetMany(context.Background(), 100, nil)

	// Assert the results
	assert.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_GetMany_DatabaseError(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	keys := []string{constants.RecordKeyAppState}

	// Mock a database error
	dbErr := errors.New("database connection error")
	mock.ExpectQuery("SELECT record_key, payload FROM user_records WHERE user_id = \\? AND record_key IN").
		WithArgs(userID, keys[0]).
		WillReturnError(dbErr)

	// Execute the method being tested
	records, err := repo.GetMany(context.Background(), userID, keys)

	// Assert the results
	assert.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "failed to get records")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Set(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	key := constants.RecordKeyProfile
	payload := json.RawMessage(`{"name":"Alex"}`)

	// Expected upsert with placeholders for the arguments
	mock.ExpectExec("INSERT INTO user_records").
		WithArgs(userID, key, []byte(payload), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Execute the method being tested
	err := repo.Set(context.Background(), userID, key, payload)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Set_Replace(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	key := constants.RecordKeyAppState
	payload := json.RawMessage(`{"is_onboarded":true}`)

	// MySQL reports two affected rows when ON DUPLICATE KEY UPDATE replaces
	mock.ExpectExec("INSERT INTO user_records").
		WithArgs(userID, key, []byte(payload), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	// Execute the method being tested
	err := repo.Set(context.Background(), userID, key, payload)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Set_UnknownUser(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(999)
	key := constants.RecordKeyProfile
	payload := json.RawMessage(`{"name":"Alex"}`)

	// Mock a MySQL foreign key error for a missing user row
	fkErr := &mysql.MySQLError{
		Number:  1452,
		Message: "Cannot add or update a child row: a foreign key constraint fails",
	}
	mock.ExpectExec("INSERT INTO user_records").
		WithArgs(userID, key, []byte(payload), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(fkErr)

	// Execute the method being tested
	err := repo.Set(context.Background(), userID, key, payload)

	// Assert the results
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Set_DatabaseError(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	key := constants.RecordKeyNotificationSettings
	payload := json.RawMessage(`{"frequency":"daily"}`)

	// Mock a database error
	dbErr := errors.New("database connection error")
	mock.ExpectExec("INSERT INTO user_records").
		WithArgs(userID, key, []byte(payload), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(dbErr)

	// Execute the method being tested
	err := repo.Set(context.Background(), userID, key, payload)

	// Assert the results
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store record")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Delete(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	key := constants.RecordKeyProfile

	// Expected query with placeholders for the user ID and record key
	mock.ExpectExec("DELETE FROM user_records WHERE user_id = \\? AND record_key = \\?").
		WithArgs(userID, key).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Execute the method being tested
	err := repo.Delete(context.Background(), userID, key)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Delete_NotFound(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	key := constants.RecordKeyCommitment

	// Expected query with placeholders, but no rows affected
	mock.ExpectExec("DELETE FROM user_records WHERE user_id = \\? AND record_key = \\?").
		WithArgs(userID, key).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Execute the method being tested
	err := repo.Delete(context.Background(), userID, key)

	// Assert the results
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_DeleteMany(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	keys := constants.AllRecordKeys
	require.Len(t, keys, 4)

	// Expected query with placeholders for the user ID and the key list
	mock.ExpectExec("DELETE FROM user_records WHERE user_id = \\? AND record_key IN").
		WithArgs(userID, keys[0], keys[1], keys[2], keys[3]).
		WillReturnResult(sqlmock.NewResult(0, int64(len(keys))))

	// Execute the method being tested
	err := repo.DeleteMany(context.Background(), userID, keys)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_DeleteMany_NoKeys(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Execute the method being tested with no keys; no query should run
	err := repo.DeleteMany(context.Background(), 100, nil)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_DeleteMany_NoMatches(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	keys := []string{constants.RecordKeyProfile}

	// A delete that matches nothing is still a success
	mock.ExpectExec("DELETE FROM user_records WHERE user_id = \\? AND record_key IN").
		WithArgs(userID, keys[0]).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Execute the method being tested
	err := repo.DeleteMany(context.Background(), userID, keys)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_DeleteMany_DatabaseError(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupRecordRepositoryTest(t)
	defer cleanup()

	// Set up test data
	userID := int64(100)
	keys := []string{constants.RecordKeyAppState, constants.RecordKeyCommitment}

	// Mock a database error
	dbErr := errors.New("database connection error")
	mock.ExpectExec("DELETE FROM user_records WHERE user_id = \\? AND record_key IN").
		WithArgs(userID, keys[0], keys[1]).
		WillReturnError(dbErr)

	// Execute the method being tested
	err := repo.DeleteMany(context.Background(), userID, keys)

	// Assert the results
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete records")
	assert.NoError(t, mock.ExpectationsWereMet())
}
