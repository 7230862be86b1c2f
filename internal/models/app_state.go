package models

// AppState represents the onboarding-related flags persisted as the
// app_state record. Together with the presence of a commitment record it
// drives the client's initial route decision.
type AppState struct {
	// IsOnboarded is true once the user has completed commitment setup
	IsOnboarded bool `json:"is_onboarded"`

	// HasSeenContext is true once the introductory context screens were shown
	HasSeenContext bool `json:"has_seen_context"`

	// NotificationsGranted records whether the device notification permission
	// was granted during onboarding
	NotificationsGranted bool `json:"notifications_granted"`
}

// AppStateResponse is the app-state load payload. It combines the stored
// flags with the commitment presence check so the client can pick its
// initial route in one round trip. WasReset is true when stored data failed
// verification and was cleared during this load.
type AppStateResponse struct {
	// State holds the stored onboarding flags
	State AppState `json:"state"`

	// HasCommitment is true when a commitment record exists
	HasCommitment bool `json:"has_commitment"`

	// WasReset is true when an integrity failure cleared the user's records
	WasReset bool `json:"was_reset,omitempty"`
}
