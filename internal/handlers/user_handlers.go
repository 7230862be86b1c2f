package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// UserHandler handles user account routes
type UserHandler struct {
	userService UserServiceInterface
	authService AuthServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService UserServiceInterface, authService AuthServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// GetCurrentUser handles retrieving the current user's account
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Get the user
	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the user
	utils.JSON(w, http.StatusOK, user)
}

// UpdateUser handles updating the current user's account
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var update models.UserUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Update the user
	user, err := h.userService.UpdateUser(r.Context(), userID, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the updated user
	utils.JSON(w, http.StatusOK, user)
}

// ChangePassword handles changing the current user's password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var req struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
	}
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// The auth service verifies the current password before storing the new
	// hash and revokes every active session on success
	if err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return success
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": constants.MsgPasswordChanged,
	})
}

// DeleteAccount handles deleting the current user's account
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var req struct {
		Password string `json:"password" validate:"required"`
		Confirm  string `json:"confirm" validate:"required,eq=DELETE"`
	}
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Delete the account together with its sessions and records
	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return success
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": constants.MsgUserDeleted,
	})
}

// CheckUsername handles checking if a username is available
func (h *UserHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	// Get the username from the query string
	username := r.URL.Query().Get("username")
	if username == "" {
		utils.BadRequest(w, "Username parameter is required", nil)
		return
	}

	// Check availability
	available, err := h.userService.CheckUsername(r.Context(), username)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the result
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"username":  username,
		"available": available,
	})
}

// CheckEmail handles checking if an email is available
func (h *UserHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	// Get the email from the query string
	email := r.URL.Query().Get("email")
	if email == "" {
		utils.BadRequest(w, "Email parameter is required", nil)
		return
	}

	// Check availability
	available, err := h.userService.CheckEmail(r.Context(), email)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the result
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"email":     email,
		"available": available,
	})
}

// GetActiveSessions handles listing the current user's active sessions
func (h *UserHandler) GetActiveSessions(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Get the sessions
	sessions, err := h.userService.GetUserActiveSessions(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the sessions
	utils.JSON(w, http.StatusOK, sessions)
}

// InvalidateSession handles invalidating one of the current user's sessions
func (h *UserHandler) InvalidateSession(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Get the session ID from the URL
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		utils.BadRequest(w, "session_id parameter is required", nil)
		return
	}

	// Invalidate the session
	if err := h.userService.InvalidateSession(r.Context(), userID, sessionID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return success
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Session successfully invalidated",
	})
}
