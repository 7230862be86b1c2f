package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/project1356/backend/internal/backup"
	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/repository"
	"github.com/project1356/backend/internal/utils"
)

// BackupService assembles encrypted export bundles from the record store and
// applies imported bundles back onto it.
type BackupService struct {
	recordRepo repository.RecordRepository
	codec      *backup.Codec
}

// NewBackupService creates a new BackupService.
func NewBackupService(recordRepo repository.RecordRepository, codec *backup.Codec) *BackupService {
	return &BackupService{
		recordRepo: recordRepo,
		codec:      codec,
	}
}

// exportRecordKeys are the record keys gathered into an export bundle. App
// state is deliberately absent: onboarding state is derived from the
// commitment record on import.
var exportRecordKeys = []string{
	constants.RecordKeyCommitment,
	constants.RecordKeyProfile,
	constants.RecordKeyNotificationSettings,
}

// GenerateExportData gathers the user's records into a bundle and encrypts
// it into an opaque backup string. Missing records leave their bundle part
// nil; a user with no records at all still gets a valid, decryptable backup.
func (s *BackupService) GenerateExportData(ctx context.Context, userID int64) (string, error) {
	payloads, err := s.recordRepo.GetMany(ctx, userID, exportRecordKeys)
	if err != nil {
		utils.LogBackup("export", userID, false, "record read failed")
		return "", fmt.Errorf("failed to gather records for export: %w", err)
	}

	bundle := &models.ExportBundle{
		Version:    constants.BackupVersion,
		ExportedAt: models.NowMillis(),
	}

	if payload, ok := payloads[constants.RecordKeyCommitment]; ok {
		var commitment models.UserCommitment
		if err := unmarshalRecord(payload, &commitment); err != nil {
			return "", fmt.Errorf("failed to read commitment record: %w", err)
		}
		bundle.Commitment = &commitment
	}

	if payload, ok := payloads[constants.RecordKeyProfile]; ok {
		var profile models.UserProfile
		if err := unmarshalRecord(payload, &profile); err != nil {
			return "", fmt.Errorf("failed to read profile record: %w", err)
		}
		bundle.Profile = &profile
	}

	if payload, ok := payloads[constants.RecordKeyNotificationSettings]; ok {
		var settings models.NotificationSettings
		if err := unmarshalRecord(payload, &settings); err != nil {
			return "", fmt.Errorf("failed to read notification settings record: %w", err)
		}
		bundle.Settings = &settings
	}

	data, err := s.codec.Encrypt(bundle)
	if err != nil {
		utils.LogBackup("export", userID, false, "encryption failed")
		return "", fmt.Errorf("failed to encrypt export bundle: %w", err)
	}

	utils.LogBackup("export", userID, true, "")
	return data, nil
}

// ImportData decrypts a backup string and writes its records back into the
// store. Only parts present in the bundle are written; absent parts leave
// the user's existing records untouched. Decryption happens before any
// write, so a corrupt backup never leaves the store partially updated.
func (s *BackupService) ImportData(ctx context.Context, userID int64, data string) error {
	bundle, err := s.codec.Decrypt(data)
	if err != nil {
		utils.LogBackup("import", userID, false, "decryption failed")
		return err
	}

	if bundle.Commitment != nil {
		if err := s.importRecord(ctx, userID, constants.RecordKeyCommitment, bundle.Commitment); err != nil {
			return err
		}

		// A restored commitment implies completed onboarding. The other
		// onboarding flags keep their stored values.
		state := &models.AppState{}
		payload, err := s.recordRepo.Get(ctx, userID, constants.RecordKeyAppState)
		if err == nil {
			if err := unmarshalRecord(payload, state); err != nil {
				return fmt.Errorf("failed to read app state record: %w", err)
			}
		} else if !utils.IsNotFoundError(err) {
			return fmt.Errorf("failed to read app state record: %w", err)
		}
		state.IsOnboarded = true
		if err := s.importRecord(ctx, userID, constants.RecordKeyAppState, state); err != nil {
			return err
		}
	}

	if bundle.Profile != nil {
		if err := s.importRecord(ctx, userID, constants.RecordKeyProfile, bundle.Profile); err != nil {
			return err
		}
	}

	if bundle.Settings != nil {
		if err := s.importRecord(ctx, userID, constants.RecordKeyNotificationSettings, bundle.Settings); err != nil {
			return err
		}
	}

	utils.LogBackup("import", userID, true, "")
	log.Info().
		Int64(constants.UserIDContextKey, userID).
		Str("version", bundle.Version).
		Bool("has_commitment", bundle.Commitment != nil).
		Bool("has_profile", bundle.Profile != nil).
		Bool("has_settings", bundle.Settings != nil).
		Msg("Backup imported")

	return nil
}

// importRecord stamps and stores a single restored record.
func (s *BackupService) importRecord(ctx context.Context, userID int64, key string, record interface{}) error {
	payload, err := marshalStamped(record)
	if err != nil {
		return fmt.Errorf("failed to prepare %s record for import: %w", key, err)
	}
	if err := s.recordRepo.Set(ctx, userID, key, payload); err != nil {
		utils.LogBackup("import", userID, false, "record write failed")
		return fmt.Errorf("failed to restore %s record: %w", key, err)
	}
	return nil
}
