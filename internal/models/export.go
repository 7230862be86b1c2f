package models

// ExportBundle represents the complete set of user records gathered for an
// encrypted backup. It is transient: it exists only between the record reads
// and the cipher, and is never persisted unencrypted. Any of the three parts
// may be nil when the corresponding record does not exist.
type ExportBundle struct {
	// Commitment is the user's commitment record, if any
	Commitment *UserCommitment `json:"commitment,omitempty"`

	// Profile is the user's profile record, if any
	Profile *UserProfile `json:"profile,omitempty"`

	// Settings is the user's notification settings record, if any
	Settings *NotificationSettings `json:"settings,omitempty"`

	// Version identifies the backup format
	Version string `json:"version"`

	// ExportedAt is the instant the bundle was assembled, in epoch milliseconds
	ExportedAt int64 `json:"exported_at"`
}

// BackupImport represents the request body of a backup import: the pasted
// opaque ciphertext produced by a previous export.
type BackupImport struct {
	// Data is the encrypted backup string
	Data string `json:"data" validate:"required"`
}
