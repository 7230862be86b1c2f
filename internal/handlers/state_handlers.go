package handlers

import (
	"net/http"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// StateHandler handles app state and profile routes
type StateHandler struct {
	commitmentService CommitmentServiceInterface
}

// NewStateHandler creates a new StateHandler
func NewStateHandler(commitmentService CommitmentServiceInterface) *StateHandler {
	return &StateHandler{
		commitmentService: commitmentService,
	}
}

// LoadAppState handles the startup state load. The response carries a
// was_reset flag when a tampered countdown was detected and cleared.
func (h *StateHandler) LoadAppState(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Load the state
	state, err := h.commitmentService.LoadAppState(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the state
	utils.JSON(w, http.StatusOK, state)
}

// UpdateAppState handles storing new onboarding flags
func (h *StateHandler) UpdateAppState(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var state models.AppState
	if err := utils.DecodeAndValidate(r, &state); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Store the state
	updated, err := h.commitmentService.UpdateAppState(r.Context(), userID, &state)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the stored state
	utils.JSON(w, http.StatusOK, updated)
}

// GetProfile handles retrieving the user's profile
func (h *StateHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Get the profile
	profile, err := h.commitmentService.GetProfile(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the profile
	utils.JSON(w, http.StatusOK, profile)
}

// UpdateProfile handles a partial profile edit
func (h *StateHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var update models.ProfileUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Apply the edit
	profile, err := h.commitmentService.UpdateProfile(r.Context(), userID, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the updated profile
	utils.JSON(w, http.StatusOK, profile)
}
