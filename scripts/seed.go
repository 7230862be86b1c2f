// Package scripts provides utility scripts for database and system management.
//
// This package implements database seeding functionality to populate initial
// data for local development. The seeding system works similarly to
// migrations, tracking executed seeds to ensure they only run once, making
// the process idempotent and safe to run on both new and existing databases.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/database"
)

// Demo account credentials seeded in development environments.
// The account gives a fresh checkout something to log in with.
const (
	demoUsername = "demo"
	demoEmail    = "demo@project1356.local"
	demoPassword = "demo-password-1356"
)

// Seeder handles database seeding.
// It provides methods to run seeds that populate the database
// with initial development data.
type Seeder struct {
	db          *database.Pool
	passwordCfg *auth.PasswordConfig
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - db: A database connection pool to use for seeding
//   - passwordCfg: Password hashing configuration for seeded accounts
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(db *database.Pool, passwordCfg *auth.PasswordConfig) *Seeder {
	return &Seeder{
		db:          db,
		passwordCfg: passwordCfg,
	}
}

// SeedDatabase seeds the database with initial development data.
// It creates the seeds tracking table if it doesn't exist, then runs
// all seed functions that haven't been executed yet.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	// Create seeds table if it doesn't exist
	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	// Get executed seeds
	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	// Run seeds that haven't been executed yet
	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context, tx *sql.Tx) error
	}{
		{"demo_account", s.seedDemoAccount},
		// Add more seeds here if needed
	}

	for _, seed := range seeds {
		if !executedSeeds[seed.Name] {
			log.Info().Str("seed", seed.Name).Msg("Running seed")
			if err := s.runSeed(ctx, seed.Name, seed.SeedFunc); err != nil {
				return err
			}
		} else {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds table if it doesn't exist.
// This table tracks which seed operations have been executed.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - error: Any error encountered during table creation, nil if successful
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns a map of executed seeds.
// The map keys are seed names and values are always true.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//
// Returns:
//   - map[string]bool: A map containing names of executed seeds
//   - error: Any error encountered while retrieving seeds, nil if successful
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM seeds`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed executes a single seed function inside a transaction and records
// it in the seeds table so it never runs twice.
//
// Parameters:
//   - ctx: Context for database operations and cancellation
//   - name: The name of the seed to record
//   - seedFunc: The seed function to execute
//
// Returns:
//   - error: Any error encountered during the seed, nil if successful
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO seeds (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to record seed %s: %w", name, err)
		}

		return nil
	})
}

// seedDemoAccount creates the demo user if no user with that username
// exists yet. The account is only meant for local development; production
// deployments run with seeding disabled.
func (s *Seeder) seedDemoAccount(ctx context.Context, tx *sql.Tx) error {
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, demoUsername).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Debug().Str("username", demoUsername).Msg("Demo account already exists")
		return nil
	}

	hash, salt, err := auth.HashPassword(demoPassword, s.passwordCfg)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, salt, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		demoUsername, demoEmail, hash, salt, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert demo user: %w", err)
	}

	log.Info().Str("username", demoUsername).Msg("Seeded demo account")
	return nil
}
