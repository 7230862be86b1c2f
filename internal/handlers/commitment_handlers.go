package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// CommitmentHandler handles commitment and goal routes
type CommitmentHandler struct {
	commitmentService CommitmentServiceInterface
}

// NewCommitmentHandler creates a new CommitmentHandler
func NewCommitmentHandler(commitmentService CommitmentServiceInterface) *CommitmentHandler {
	return &CommitmentHandler{
		commitmentService: commitmentService,
	}
}

// SetupCommitment handles creating the user's commitment
func (h *CommitmentHandler) SetupCommitment(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var setup models.CommitmentSetup
	if err := utils.DecodeAndValidate(r, &setup); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Create the commitment
	commitment, err := h.commitmentService.SetupCommitment(r.Context(), userID, &setup)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the new commitment
	utils.JSON(w, http.StatusCreated, commitment)
}

// GetCommitment handles retrieving the user's commitment
func (h *CommitmentHandler) GetCommitment(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Get the commitment
	commitment, err := h.commitmentService.GetCommitment(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the commitment
	utils.JSON(w, http.StatusOK, commitment)
}

// Status handles computing the commitment status at a given instant
func (h *CommitmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Resolve the evaluation instant, defaulting to now
	at, err := utils.GetInstantParam(r, models.NowMillis())
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Compute the status
	status, err := h.commitmentService.Status(r.Context(), userID, at)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the status
	utils.JSON(w, http.StatusOK, status)
}

// AddGoal handles appending a goal to the user's commitment
func (h *CommitmentHandler) AddGoal(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var input models.GoalInput
	if err := utils.DecodeAndValidate(r, &input); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Add the goal
	goal, err := h.commitmentService.AddGoal(r.Context(), userID, &input)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the new goal
	utils.JSON(w, http.StatusCreated, goal)
}

// UpdateGoal handles editing a goal's text fields
func (h *CommitmentHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Get the goal ID from the URL
	goalID := chi.URLParam(r, "goalID")
	if goalID == "" {
		utils.BadRequest(w, "goal_id parameter is required", nil)
		return
	}

	// Decode and validate the request body
	var update models.GoalUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Update the goal
	goal, err := h.commitmentService.UpdateGoal(r.Context(), userID, goalID, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the updated goal
	utils.JSON(w, http.StatusOK, goal)
}

// ToggleGoalLock handles flipping a goal's lock state
func (h *CommitmentHandler) ToggleGoalLock(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Get the goal ID from the URL
	goalID := chi.URLParam(r, "goalID")
	if goalID == "" {
		utils.BadRequest(w, "goal_id parameter is required", nil)
		return
	}

	// Toggle the lock
	goal, err := h.commitmentService.ToggleGoalLock(r.Context(), userID, goalID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the updated goal
	utils.JSON(w, http.StatusOK, goal)
}
