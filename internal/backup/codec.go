// Package backup implements the encrypted backup codec. A backup is the
// user's export bundle serialized to JSON, encrypted with AES-256-GCM and
// base64-encoded into a single opaque string the user can store anywhere.
//
// The cipher key is derived from a passphrase embedded in the binary, so
// every installation produces mutually readable backups. This is
// obfuscation against casual inspection, not confidentiality against a
// determined attacker; the trade-off is recorded in DESIGN.md.
package backup

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/project1356/backend/internal/constants"
	"github.com/project1356/backend/internal/models"
	"github.com/project1356/backend/internal/utils"
)

// Codec encrypts and decrypts export bundles.
type Codec struct {
	key []byte
}

// NewCodec creates a Codec with the key derived from the embedded passphrase.
func NewCodec() *Codec {
	key := sha256.Sum256([]byte(constants.BackupPassphrase))
	return &Codec{key: key[:]}
}

// Encrypt serializes the bundle to JSON and encrypts it into an opaque
// base64 string. Failures wrap ErrEncryptionFailure.
func (c *Codec) Encrypt(bundle *models.ExportBundle) (string, error) {
	plaintext, err := json.Marshal(bundle)
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrEncryptionFailure, err)
	}

	ciphertext, err := utils.EncryptString(string(plaintext), c.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", utils.ErrEncryptionFailure, err)
	}

	return ciphertext, nil
}

// Decrypt decodes an opaque backup string back into an export bundle.
// Leading and trailing whitespace is tolerated, since backups travel
// through clipboards and text files. Every distinct failure surfaces as a
// corrupt-backup error with a cause-specific message; no partial bundle is
// ever returned.
func (c *Codec) Decrypt(data string) (*models.ExportBundle, error) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return nil, utils.NewCorruptBackupError(errors.New("incomplete or invalid ciphertext"))
	}

	plaintext, err := utils.DecryptString(trimmed, c.key)
	if err != nil {
		return nil, utils.NewCorruptBackupError(fmt.Errorf("backup may be truncated or from an incompatible version: %v", err))
	}

	plainTrimmed := strings.TrimSpace(plaintext)
	if plainTrimmed == "" {
		return nil, utils.NewCorruptBackupError(errors.New("incomplete or invalid ciphertext"))
	}

	// A bundle is always a JSON object; anything else decrypted cleanly is
	// still not a backup.
	if plainTrimmed[0] != '{' {
		return nil, utils.NewCorruptBackupError(errors.New("backup content is not a record bundle"))
	}

	var bundle models.ExportBundle
	if err := json.Unmarshal([]byte(plainTrimmed), &bundle); err != nil {
		return nil, utils.NewCorruptBackupError(fmt.Errorf("backup content is not a valid record bundle: %v", err))
	}

	return &bundle, nil
}
