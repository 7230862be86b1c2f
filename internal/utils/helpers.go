// Package utils provides utility functions and helpers for common operations
// used throughout the application. It includes error checking, data
// sanitization for logging, and small string operations that simplify
// repeated tasks.
package utils

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/project1356/backend/internal/constants"
)

// IsDuplicateKeyError checks if an error is a MySQL duplicate-entry error.
// Repositories use it to map unique constraint violations to DuplicateError
// values.
func IsDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == constants.MySQLErrorDuplicateEntry
}

// MaskEmail masks the user part of an email address, showing only the first
// and last character. Used when email addresses end up in log output.
//
// For example: "user@example.com" becomes "u***r@example.com"
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	user := parts[0]
	domain := parts[1]

	if len(user) <= 2 {
		return email
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + domain
}

// SanitizeKeys removes potentially sensitive fields from a map.
// It recursively traverses through maps and slices of maps to sanitize
// nested structures before they reach log output.
func SanitizeKeys(data map[string]interface{}) map[string]interface{} {
	// List of keys to remove or mask
	sensitiveKeys := map[string]bool{
		constants.ColumnPasswordHash: true,
		constants.ColumnSalt:         true,
		"password":                   true,
		"token":                      true,
		"secret":                     true,
	}

	result := make(map[string]interface{})

	for k, v := range data {
		// Skip sensitive keys
		if sensitiveKeys[strings.ToLower(k)] {
			result[k] = constants.LogRedactedValue
			continue
		}

		// Handle nested maps
		if nestedMap, ok := v.(map[string]interface{}); ok {
			result[k] = SanitizeKeys(nestedMap)
			continue
		}

		// Handle nested map slices
		if nestedMapSlice, ok := v.([]map[string]interface{}); ok {
			sanitizedSlice := make([]map[string]interface{}, len(nestedMapSlice))
			for i, nestedMap := range nestedMapSlice {
				sanitizedSlice[i] = SanitizeKeys(nestedMap)
			}
			result[k] = sanitizedSlice
			continue
		}

		// Pass through all other values
		result[k] = v
	}

	return result
}

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}
