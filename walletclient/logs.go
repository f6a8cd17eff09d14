package walletclient

import (
	"github.com/digicred/walletgo"
)

// Action describes what a log entry records.
type Action string

const (
	ActionRegistration       = Action("registration")
	ActionCredentialAdded    = Action("credential-added")
	ActionCredentialRemoved  = Action("credential-removed")
	ActionVerificationAdded  = Action("verification-added")
	ActionProofGenerated     = Action("proof-generated")
	ActionProofShared        = Action("proof-shared")
	ActionTokenRefreshed     = Action("token-refreshed")
	ActionVerificationStated = Action("verification-state-changed")
)

// LogEntry is a log entry of a past wallet event.
type LogEntry struct {
	// ID is the bbolt auto-increment index, set by storage on insert.
	ID   uint64             `json:"id"`
	Type Action             `json:"type"`
	Time walletgo.Timestamp `json:"time"`

	// Event-specific info
	CredentialID   string                     `json:",omitempty"`
	VerificationID string                     `json:",omitempty"`
	DocumentTypes  []string                   `json:",omitempty"`
	State          walletgo.VerificationState `json:",omitempty"`
}
