package handlers

import (
	"net/http"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// SettingsHandler handles notification settings and schedule routes
type SettingsHandler struct {
	commitmentService   CommitmentServiceInterface
	notificationService NotificationServiceInterface
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(commitmentService CommitmentServiceInterface, notificationService NotificationServiceInterface) *SettingsHandler {
	return &SettingsHandler{
		commitmentService:   commitmentService,
		notificationService: notificationService,
	}
}

// GetNotificationSettings handles retrieving the user's notification settings
func (h *SettingsHandler) GetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Get the settings, falling back to the stored defaults
	settings, err := h.commitmentService.GetNotificationSettings(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the settings
	utils.JSON(w, http.StatusOK, settings)
}

// UpdateNotificationSettings handles replacing the user's notification settings
func (h *SettingsHandler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var settings models.NotificationSettings
	if err := utils.DecodeAndValidate(r, &settings); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Store the settings
	updated, err := h.commitmentService.UpdateNotificationSettings(r.Context(), userID, &settings)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Re-sync the notifier with the new settings. Users without a
	// commitment have nothing to schedule yet.
	commitment, err := h.commitmentService.GetCommitment(r.Context(), userID)
	if err != nil && !utils.IsNotFoundError(err) {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}
	if commitment != nil {
		if _, err := h.notificationService.SyncSchedule(commitment, updated, models.NowMillis()); err != nil {
			utils.ErrorFromAppError(w, utils.ParseError(err))
			return
		}
	}

	// Return the stored settings
	utils.JSON(w, http.StatusOK, updated)
}

// GetSchedule handles computing the pending notification plan for the user.
// Users without a commitment get an empty plan rather than an error.
func (h *SettingsHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
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

	// Get the commitment. No commitment means nothing to schedule.
	commitment, err := h.commitmentService.GetCommitment(r.Context(), userID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.JSON(w, http.StatusOK, []models.ScheduleEntry{})
			return
		}
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Get the settings
	settings, err := h.commitmentService.GetNotificationSettings(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Build and return the plan
	entries := h.notificationService.BuildSchedule(commitment, settings, at)
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	utils.JSON(w, http.StatusOK, entries)
}
