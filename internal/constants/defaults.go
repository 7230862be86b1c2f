// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide sensible defaults for configuration settings, establish
// boundaries for resource usage, and define security parameters. Changes to these
// values may significantly impact application behavior, performance, and security.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
// These constants provide sensible defaults for core application settings.
const (
	// DefaultAppName is the application name used in logs and config.
	DefaultAppName = "Project1356"

	// DefaultServerHost is the default HTTP server bind address.
	DefaultServerHost = "127.0.0.1"

	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBHost is the default database host.
	DefaultDBHost = "localhost"

	// DefaultDBPort is the default MySQL/MariaDB port.
	DefaultDBPort = 3306

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"
)

// Environment Types define the recognized application running environments.
// These constants are used to adjust behavior based on the deployment environment.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request Size Limits define the maximum allowed sizes for client payloads.
// These constants help prevent denial of service via excessive resource consumption.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes

	// MaxBackupPayloadSize is the maximum size in bytes of an encrypted backup
	// accepted for import. Backups are small JSON documents; anything larger
	// is rejected before decryption is attempted.
	MaxBackupPayloadSize = 524288 // 512KB in bytes
)

// Default Password Hash Settings define the parameters for password hashing.
// These constants balance security and performance for password storage.
const (
	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	// Higher values increase security but require more memory.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	// Higher values increase security but require more CPU time.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	// This affects the number of threads used during hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	// Longer salts increase resistance to rainbow table attacks.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated hash.
	// Longer hashes increase resistance to brute force attacks.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	// This allows faster startup in resource-constrained development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	// This allows faster startup in resource-constrained development environments.
	DevPasswordHashIterations = 1
)

// Notification Defaults define fallback values for reminder scheduling.
const (
	// DefaultReminderHour is the local hour of day (24h clock) at which
	// daily countdown reminders fire when the client has not chosen one.
	DefaultReminderHour = 9

	// DefaultNotificationFrequency is the reminder cadence applied when
	// no notification settings record exists for a user.
	DefaultNotificationFrequency = "daily"
)

// Auth Constants define values related to token management.
// These constants control authentication token behavior.
const (
	// DefaultJWTIssuer is the issuer claim value for JWT tokens.
	DefaultJWTIssuer = "project1356-api"

	// BearerTokenPrefix is the prefix for Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "
)
