package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/project1356/backend/internal/auth"
	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// BackupHandler handles encrypted backup export and import routes
type BackupHandler struct {
	backupService BackupServiceInterface
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService BackupServiceInterface) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
	}
}

// Export handles generating an encrypted backup of the user's records.
// The response is a JSON file download whose data field is the opaque blob.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Generate the encrypted payload
	data, err := h.backupService.GenerateExportData(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Build a filename from the username when available
	username, _ := auth.GetUsername(r)
	safeUsername := strings.Map(func(c rune) rune {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return c
		}
		return '_'
	}, username)
	if safeUsername == "" {
		safeUsername = "user"
	}
	filename := fmt.Sprintf("%s_backup.json", safeUsername)

	// Return the payload as a downloadable file
	utils.JsonFile(w, models.BackupImport{Data: data}, filename)
}

// Import handles restoring records from an encrypted backup payload
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	// Get the user ID from the context
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Cap the request size before reading the payload
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxBackupPayloadSize)

	// Decode and validate the request body
	var req models.BackupImport
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Restore the records. A corrupt payload fails before any write.
	if err := h.backupService.ImportData(r.Context(), userID, req.Data); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return success
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Backup successfully restored",
	})
}
