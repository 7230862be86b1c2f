package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// AuthHandler handles authentication-related routes
type AuthHandler struct {
	authService AuthServiceInterface
	jwtService  JWTServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface, jwtService JWTServiceInterface) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Register handles user signup
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var reg models.UserRegistration
	if err := utils.DecodeAndValidate(r, &reg); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Register the user
	user, err := h.authService.RegisterUser(r.Context(), &reg)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the newly created user
	utils.JSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var creds models.UserCredentials
	if err := utils.DecodeAndValidate(r, &creds); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Authenticate the user
	user, accessToken, refreshToken, err := h.authService.AuthenticateUser(r.Context(), &creds)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Ensure we have a valid configuration
	if h.jwtService.GetConfig() == nil {
		utils.InternalServerError(w, errors.New("JWT configuration not initialized"))
		return
	}

	// Set the refresh token as an HTTP-only cookie
	refreshExpiry := h.jwtService.GetConfig().RefreshExpiry
	secure := r.TLS != nil || !strings.Contains(h.jwtService.GetConfig().Issuer, "localhost")
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(refreshExpiry.Seconds()),
		Expires:  time.Now().Add(refreshExpiry),
	})

	// Return the access token and user info
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(h.jwtService.GetConfig().Expiry.Seconds()),
	})
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	// Get the refresh token from the cookie
	cookie, err := r.Cookie(constants.RefreshTokenCookie)
	if err != nil {
		utils.Unauthorized(w, "Refresh token not found")
		return
	}

	// Refresh the tokens
	accessToken, newRefreshToken, err := h.authService.RefreshTokens(r.Context(), cookie.Value)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Set the new refresh token as a cookie
	refreshExpiry := h.jwtService.GetConfig().RefreshExpiry
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    newRefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(refreshExpiry.Seconds()),
		Expires:  time.Now().Add(refreshExpiry),
	})

	// Return the new access token
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(h.jwtService.GetConfig().Expiry.Seconds()),
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Get the refresh token from the cookie
	cookie, err := r.Cookie(constants.RefreshTokenCookie)
	if err == nil {
		// Invalidate the session
		_ = h.authService.Logout(r.Context(), cookie.Value)
	}

	// Clear the refresh token cookie
	clearRefreshCookie(w, r)

	// Return success
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully logged out",
	})
}

// LogoutAll handles logging out all sessions for a user
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Invalidate all sessions
	if err := h.authService.LogoutAll(r.Context(), userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Clear the refresh token cookie
	clearRefreshCookie(w, r)

	// Return success
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully logged out of all sessions",
	})
}

// VerifyToken checks if the current token is valid
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	// The auth middleware already verified the token
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	username, _ := auth.GetUsername(r)
	email, _ := auth.GetEmail(r)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user_id":       userID,
		"username":      username,
		"email":         email,
	})
}

// clearRefreshCookie expires the refresh token cookie on the client.
func clearRefreshCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
