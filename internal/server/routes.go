package server

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/middleware"
	"github.com/project1356/backend/internal/utils"
)

// SetupRoutes configures all HTTP routes for the server.
// It organizes routes into logical groups with appropriate middleware:
//   - Public routes for health checks and authentication
//   - Protected routes requiring a valid access token
//
// Authentication endpoints are rate limited to slow down credential
// stuffing attempts. All other middleware (CORS, request IDs, panic
// recovery, security headers) applies to every route.
func (s *Server) SetupRoutes() {
	// Create router
	r := chi.NewRouter()

	// Get allowed origins from configuration or use default values
	allowedOrigins := s.getAllowedOrigins()

	// Custom CORS middleware that applies to all routes
	// This ensures CORS headers are applied properly and consistently
	r.Use(corsMiddleware(allowedOrigins))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())

	// Rate limiter shared by the authentication endpoints
	authLimiter := middleware.NewRateLimiter(20, time.Minute)

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, func(w http.ResponseWriter, r *http.Request) {
			// Check database connection
			err := s.Db.HealthCheck(r.Context())
			if err != nil {
				log.Error().Err(err).Msg("Health check failed")
				utils.Error(w, http.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", nil)
				return
			}

			utils.JSON(w, http.StatusOK, map[string]string{
				"status":  "healthy",
				"version": s.Config.App.Version,
			})
		})

		r.Get(constants.VersionPath, func(w http.ResponseWriter, r *http.Request) {
			utils.JSON(w, http.StatusOK, map[string]string{
				"version":     s.Config.App.Version,
				"environment": s.Config.App.Environment,
			})
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Authentication routes
		r.Route("/auth", func(r chi.Router) {
			// Public auth endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(authLimiter))

				r.Post("/signup", s.Handlers.AuthHandler.Register)
				r.Post("/login", s.Handlers.AuthHandler.Login)
				r.Post("/refresh", s.Handlers.AuthHandler.RefreshToken)
				r.Post("/logout", s.Handlers.AuthHandler.Logout)

				// Explicitly handle OPTIONS preflight request for /verify endpoint
				r.Options("/verify", handlePreflight(allowedOrigins))
			})

			// Protected auth endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.authProviders.JWTService))
				// verify JWT tokens used for user sessions
				r.Get("/verify", s.Handlers.AuthHandler.VerifyToken)
				// security feature to log out all sessions
				r.Post("/logout-all", s.Handlers.AuthHandler.LogoutAll)
			})
		})

		// User routes
		r.Route("/users", func(r chi.Router) {
			// Public availability checks used by the signup form
			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.NoCache)
				r.Get("/check/username", s.Handlers.UserHandler.CheckUsername)
				r.Get("/check/email", s.Handlers.UserHandler.CheckEmail)
			})

			// Protected user endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.authProviders.JWTService))

				r.Route("/me", func(r chi.Router) {
					r.Get("/", s.Handlers.UserHandler.GetCurrentUser)
					r.Put("/", s.Handlers.UserHandler.UpdateUser)
					r.Delete("/", s.Handlers.UserHandler.DeleteAccount)
					r.Post("/change-password", s.Handlers.UserHandler.ChangePassword)
					r.Get("/sessions", s.Handlers.UserHandler.GetActiveSessions)
					r.Delete("/sessions/{sessionID}", s.Handlers.UserHandler.InvalidateSession)
				})
			})
		})

		// Commitment routes (all protected)
		r.Route("/commitment", func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))

			r.Post("/", s.Handlers.CommitmentHandler.SetupCommitment)
			r.Get("/", s.Handlers.CommitmentHandler.GetCommitment)
			r.Get("/status", s.Handlers.CommitmentHandler.Status)

			// Goal routes
			r.Route("/goals", func(r chi.Router) {
				r.Post("/", s.Handlers.CommitmentHandler.AddGoal)
				r.Put("/{goalID}", s.Handlers.CommitmentHandler.UpdateGoal)
				r.Post("/{goalID}/lock", s.Handlers.CommitmentHandler.ToggleGoalLock)
			})
		})

		// App state and profile routes (all protected)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))

			r.Get("/state", s.Handlers.StateHandler.LoadAppState)
			r.Put("/state", s.Handlers.StateHandler.UpdateAppState)
			r.Get("/profile", s.Handlers.StateHandler.GetProfile)
			r.Put("/profile", s.Handlers.StateHandler.UpdateProfile)
		})

		// Notification routes (all protected)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))

			r.Get("/settings/notifications", s.Handlers.SettingsHandler.GetNotificationSettings)
			r.Put("/settings/notifications", s.Handlers.SettingsHandler.UpdateNotificationSettings)
			r.Get("/notifications/schedule", s.Handlers.SettingsHandler.GetSchedule)
		})

		// Backup routes (all protected)
		r.Route("/backup", func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))

			r.Get("/export", s.Handlers.BackupHandler.Export)
			r.Post("/import", s.Handlers.BackupHandler.Import)
		})
	})

	// Set the router
	s.router = r
}

// GetRouter returns the configured router.
//
// Returns:
//   - The chi.Router implementation used by the server
//
// This method is primarily used for testing and for
// integrating the router with other components.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// originAllowed reports whether the request origin is covered by the
// allowed origins list. A "*" entry allows any origin.
func originAllowed(allowedOrigins []string, origin string) bool {
	return utils.ContainsString(allowedOrigins, "*") || utils.ContainsString(allowedOrigins, origin)
}

// handlePreflight is an explicit handler for OPTIONS preflight requests.
// It responds with a 204 No Content status, along with appropriate CORS
// headers to allow the specified origins, methods, and headers.
func handlePreflight(allowedOrigins []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Check if the origin is allowed
		if originAllowed(allowedOrigins, origin) {
			w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token, X-Request-ID")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "300")
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// corsMiddleware creates a custom CORS middleware with the specified allowed origins.
// It checks incoming requests against the allowed origins list, adds appropriate
// CORS headers to responses, and handles OPTIONS preflight requests. It supports
// credentials mode for authenticated cross-origin requests.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Check if the request's origin is in our allowed list
			if originAllowed(allowedOrigins, origin) {
				// Set CORS headers for all responses, not just OPTIONS
				w.Header().Set("Access-Control-Allow-Origin", origin)

				// These headers are essential for credentials mode
				w.Header().Set("Access-Control-Allow-Credentials", "true")

				// For non-OPTIONS requests, just set these headers and continue
				if r.Method != "OPTIONS" {
					next.ServeHTTP(w, r)
					return
				}

				// Handle OPTIONS preflight requests
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "300")

				// Respond to preflight request
				w.WriteHeader(http.StatusNoContent)
				return
			}

			// If origin is not allowed, continue without setting CORS headers
			next.ServeHTTP(w, r)
		})
	}
}

// getAllowedOrigins resolves the allowed CORS origins for this server.
// Configuration takes precedence, then the ALLOWED_ORIGINS environment
// variable, then a default list suitable for local development and the
// mobile app webview.
func (s *Server) getAllowedOrigins() []string {
	if s.Config != nil && len(s.Config.CORS.AllowedOrigins) > 0 {
		return s.Config.CORS.AllowedOrigins
	}

	// Check if ALLOWED_ORIGINS is set in environment
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv != "" {
		// Split by comma and trim spaces
		origins := strings.Split(allowedOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		log.Info().Strs("allowed_origins", origins).Msg("Using CORS allowed origins from environment")
		return origins
	}

	// Default values cover the local dev server and the Capacitor webview
	defaultOrigins := []string{"http://localhost:5173", "https://localhost:5173", "capacitor://localhost", "http://localhost"}
	log.Info().Strs("allowed_origins", defaultOrigins).Msg("Using default CORS allowed origins")
	return defaultOrigins
}
