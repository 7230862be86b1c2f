// Package server provides the HTTP server implementation for the commitment
// tracking API. It handles routing, middleware configuration, and server
// lifecycle management.
//
// The server follows a structured initialization approach with dependency
// injection and proper lifecycle management: database → auth providers →
// repositories → services → handlers → routes. It handles graceful shutdown
// and periodic maintenance tasks.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/backup"
	"github.com/project1356/backend/internal/config"
	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/database"
	"github.com/project1356/backend/internal/handlers"
	"github.com/project1356/backend/internal/repository"
	"github.com/project1356/backend/internal/service"
	"github.com/project1356/backend/migrations"
	"github.com/project1356/backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
// It centralizes handler management for consistent request processing
// and simplifies dependency injection throughout the application.
type Handlers struct {
	// AuthHandler manages authentication-related endpoints
	AuthHandler *handlers.AuthHandler

	// UserHandler manages user profile and account endpoints
	UserHandler *handlers.UserHandler

	// CommitmentHandler manages commitment setup, status, and goal endpoints
	CommitmentHandler *handlers.CommitmentHandler

	// StateHandler manages app state and user profile endpoints
	StateHandler *handlers.StateHandler

	// SettingsHandler manages notification settings and schedule endpoints
	SettingsHandler *handlers.SettingsHandler

	// BackupHandler manages encrypted backup export and import endpoints
	BackupHandler *handlers.BackupHandler
}

// AuthProviders contains all authentication providers for the application.
// This structure encapsulates authentication-related dependencies
// to simplify initialization and testing.
type AuthProviders struct {
	// JWTService handles JWT token generation and validation
	JWTService *auth.JWTService

	// PasswordCfg contains password hashing and validation configuration
	PasswordCfg *auth.PasswordConfig
}

// Server represents the API server for the commitment tracking application.
// It encapsulates all server components and handles server lifecycle management,
// including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// authProviders contains authentication services
	authProviders *AuthProviders

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
// It initializes the database, authentication providers, repositories,
// services, and handlers, then sets up the HTTP routes.
//
// Parameters:
//   - cfg: Application configuration including database, server, and auth settings
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
func NewServer(cfg *config.AppConfig) (*Server, error) {
	// Create server instance
	s := &Server{
		Config: cfg,
	}

	// Initialize components
	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.setupAuthProviders(); err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	if err := s.setupRepositories(); err != nil {
		return nil, fmt.Errorf("failed to set up repositories: %w", err)
	}

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	if err := s.setupHandlers(); err != nil {
		return nil, fmt.Errorf("failed to set up handlers: %w", err)
	}

	// Set up routes
	s.SetupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations.
// It ensures the database schema is up-to-date before the server starts
// accepting requests.
//
// Returns:
//   - An error if database connection or migration fails
func (s *Server) setupDatabase() error {
	// Connect to the database
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	// Run migrations to create tables if they don't exist
	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Seed the demo account in development environments
	if s.Config.App.IsDevelopment() {
		seeder := scripts.NewSeeder(db, auth.ConfigFromAppConfig(s.Config))
		if err := seeder.SeedDatabase(context.Background()); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return nil
}

// setupAuthProviders initializes authentication providers.
// It creates services for JWT token management and password handling.
//
// Returns:
//   - An error if auth provider initialization fails
func (s *Server) setupAuthProviders() error {
	// Create JWT service
	jwtService := auth.NewJWTService(&s.Config.JWT)

	// Create password config
	passwordCfg := auth.ConfigFromAppConfig(s.Config)

	// Store providers
	s.authProviders = &AuthProviders{
		JWTService:  jwtService,
		PasswordCfg: passwordCfg,
	}

	return nil
}

// repositories holds all repositories used by the server.
// These provide data access abstraction for different domain entities.
var repositories struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	recordRepo  repository.RecordRepository
}

// setupRepositories initializes all data repositories.
// It creates repository instances for each domain entity using the
// database connection.
//
// Returns:
//   - An error if repository initialization fails
func (s *Server) setupRepositories() error {
	// Initialize repositories
	repositories.userRepo = repository.NewUserRepository(s.Db)
	repositories.sessionRepo = repository.NewSessionRepository(s.Db)
	repositories.recordRepo = repository.NewRecordRepository(s.Db)

	return nil
}

// services holds all services used by the server.
// These provide business logic implementations for the application.
var services struct {
	authService         *service.AuthService
	userService         *service.UserService
	commitmentService   *service.CommitmentService
	notificationService *service.NotificationService
	backupService       *service.BackupService
}

// setupServices initializes all business services.
// It creates service instances using the previously initialized repositories.
//
// Returns:
//   - An error if service initialization fails or required dependencies are missing
func (s *Server) setupServices() error {
	// Initialize services with explicit error handling
	if s.authProviders == nil || s.authProviders.JWTService == nil {
		return fmt.Errorf("JWT service not initialized")
	}
	if s.authProviders.PasswordCfg == nil {
		return fmt.Errorf("password config not initialized")
	}

	// Initialize services
	services.authService = service.NewAuthService(
		repositories.userRepo,
		repositories.sessionRepo,
		s.authProviders.JWTService,
		s.authProviders.PasswordCfg,
	)

	services.userService = service.NewUserService(
		repositories.userRepo,
		repositories.sessionRepo,
		repositories.recordRepo,
		s.authProviders.PasswordCfg,
	)

	services.commitmentService = service.NewCommitmentService(repositories.recordRepo)

	services.notificationService = service.NewNotificationService(
		service.NewLogNotifier(),
		s.Config.Notifications.ReminderHour,
	)

	services.backupService = service.NewBackupService(repositories.recordRepo, backup.NewCodec())

	return nil
}

// setupHandlers initializes all HTTP request handlers.
// It creates handler instances using the previously initialized services.
//
// Returns:
//   - An error if handler initialization fails or required services are missing
func (s *Server) setupHandlers() error {
	// Initialize handlers with proper dependency injection
	s.Handlers = &Handlers{
		AuthHandler:       handlers.NewAuthHandler(services.authService, s.authProviders.JWTService),
		UserHandler:       handlers.NewUserHandler(services.userService, services.authService),
		CommitmentHandler: handlers.NewCommitmentHandler(services.commitmentService),
		StateHandler:      handlers.NewStateHandler(services.commitmentService),
		SettingsHandler:   handlers.NewSettingsHandler(services.commitmentService, services.notificationService),
		BackupHandler:     handlers.NewBackupHandler(services.backupService),
	}

	// Validate that services are properly initialized
	if s.Handlers.AuthHandler == nil {
		return fmt.Errorf("failed to initialize AuthHandler")
	}

	return nil
}

// Start starts the HTTP server and sets up signal handling for graceful shutdown.
// It runs in a blocking mode, waiting for either server errors or shutdown signals.
//
// Returns:
//   - An error if the server fails to start or encounters an error during operation
//
// This method performs the following operations:
// 1. Starts the HTTP server in a separate goroutine
// 2. Sets up signal handling for graceful shutdown (SIGINT, SIGTERM)
// 3. Initializes periodic maintenance tasks
// 4. Blocks until an error occurs or a shutdown signal is received
// 5. Performs graceful shutdown when requested
func (s *Server) Start() error {
	// Create a channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start the server in a separate goroutine
	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	// Create a channel to listen for OS signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Set up maintenance tasks
	s.SetupMaintenanceTasks()

	// Block until an OS signal or an error is received
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		// Create a context with a timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		// Shutdown the server
		if err := s.Shutdown(ctx); err != nil {
			// Shutdown the server immediately if graceful shutdown fails
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, closing all connections properly.
// It ensures in-flight requests are completed before shutting down.
//
// Parameters:
//   - ctx: Context with timeout for the shutdown operation
//
// Returns:
//   - An error if shutdown fails within the context timeout
func (s *Server) Shutdown(ctx context.Context) error {
	// Shutdown the HTTP server
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	// Close the database connection
	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// SetupMaintenanceTasks sets up periodic maintenance tasks for the server.
// It creates a background goroutine that cleans up expired sessions at
// regular intervals to prevent database bloat.
//
// The tasks run on a fixed schedule defined by constants.DBMaintenanceInterval.
// Each iteration has its own timeout to prevent long-running operations from
// blocking the next run.
func (s *Server) SetupMaintenanceTasks() {
	// Set up a ticker for maintenance tasks
	ticker := time.NewTicker(constants.DBMaintenanceInterval)
	go func() {
		for range ticker.C {
			// Create a context with a timeout
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)

			// Cleanup expired sessions
			if count, err := services.authService.CleanupExpiredSessions(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to cleanup expired sessions")
			} else if count > 0 {
				log.Info().Int64("count", count).Msg("Cleaned up expired sessions")
			}

			// Call cancel at the end of each iteration to avoid resource leak
			cancel()
		}
	}()
}
