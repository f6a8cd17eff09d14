package walletclient

import (
	"encoding/json"

	"github.com/go-errors/errors"
	"github.com/hashicorp/go-multierror"

	"github.com/digicred/walletgo"
)

// Wallet is the persisted aggregate of everything a wallet holds. It is a
// pure in-memory value: mutations are synchronous data changes and never
// perform I/O. Persistence is the caller's move after a successful mutation.
// The aggregate assumes a single writer; wrap it in a mutex or actor when
// sharing.
type Wallet struct {
	Agent         *walletgo.AgentInfo            `json:"agent,omitempty"`
	Token         *walletgo.TokenInfo            `json:"token,omitempty"`
	Connections   []walletgo.ConnectionInfo      `json:"connections,omitempty"`
	Invitations   []walletgo.InvitationInfo      `json:"invitations,omitempty"`
	Credentials   []*walletgo.CredentialRecord   `json:"credentials,omitempty"`
	Verifications []*walletgo.VerificationRecord `json:"verifications,omitempty"`

	// GeneratedProof is the currently generated, not yet shared proof. It is
	// a preview that may be discarded before sharing, so it lives outside
	// the historical verification list.
	GeneratedProof *walletgo.VerificationRecord `json:"generated_proof,omitempty"`
}

// NewWallet returns the aggregate created on successful registration.
func NewWallet(agent walletgo.AgentInfo, token walletgo.TokenInfo) *Wallet {
	return &Wallet{Agent: &agent, Token: &token}
}

// AddCredential appends the record. No deduplication happens here: the
// transport layer delivers at most once, and enforcing uniqueness is the
// caller's responsibility.
func (w *Wallet) AddCredential(record *walletgo.CredentialRecord) {
	w.Credentials = append(w.Credentials, record)
}

// RemoveCredential removes every record with the given id, defending against
// accidental duplicates. It reports whether anything was removed.
func (w *Wallet) RemoveCredential(id string) bool {
	kept := w.Credentials[:0]
	removed := false
	for _, record := range w.Credentials {
		if record.ID == id {
			removed = true
			continue
		}
		kept = append(kept, record)
	}
	w.Credentials = kept
	return removed
}

// Credential returns the first record with the given id, or nil.
func (w *Wallet) Credential(id string) *walletgo.CredentialRecord {
	for _, record := range w.Credentials {
		if record.ID == id {
			return record
		}
	}
	return nil
}

// AddVerification appends the record; the list is append-only apart from
// RemoveVerification.
func (w *Wallet) AddVerification(record *walletgo.VerificationRecord) {
	w.Verifications = append(w.Verifications, record)
}

// RemoveVerification removes every verification with the given id.
func (w *Wallet) RemoveVerification(id string) bool {
	kept := w.Verifications[:0]
	removed := false
	for _, record := range w.Verifications {
		if record.ID == id {
			removed = true
			continue
		}
		kept = append(kept, record)
	}
	w.Verifications = kept
	return removed
}

// Verification returns the first verification with the given id, or nil.
func (w *Wallet) Verification(id string) *walletgo.VerificationRecord {
	for _, record := range w.Verifications {
		if record.ID == id {
			return record
		}
	}
	return nil
}

// SetGeneratedProof stores the proof preview in the currently-generated
// slot, replacing any previous one.
func (w *Wallet) SetGeneratedProof(record *walletgo.VerificationRecord) {
	w.GeneratedProof = record
}

// DiscardGeneratedProof drops the proof preview without sharing it.
func (w *Wallet) DiscardGeneratedProof() {
	w.GeneratedProof = nil
}

// AddConnection appends an established connection.
func (w *Wallet) AddConnection(conn walletgo.ConnectionInfo) {
	w.Connections = append(w.Connections, conn)
}

// AddInvitation appends a historical invitation.
func (w *Wallet) AddInvitation(inv walletgo.InvitationInfo) {
	w.Invitations = append(w.Invitations, inv)
}

// RefreshToken replaces the token wholesale. There are no merge semantics.
func (w *Wallet) RefreshToken(token walletgo.TokenInfo) {
	w.Token = &token
}

// Serialize renders the wallet as the single JSON document that is persisted.
func (w *Wallet) Serialize() ([]byte, error) {
	return json.Marshal(w)
}

// ParseWallet decodes a persisted wallet document.
func ParseWallet(bts []byte) (*Wallet, error) {
	wallet := &Wallet{}
	if err := json.Unmarshal(bts, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Validate checks the aggregate's identity invariants, reporting every
// violation rather than the first.
func (w *Wallet) Validate() error {
	var result *multierror.Error

	seen := map[string]bool{}
	for _, record := range w.Credentials {
		if record.ID == "" {
			result = multierror.Append(result, &walletgo.MissingFieldError{Field: "id"})
			continue
		}
		if seen[record.ID] {
			result = multierror.Append(result, errors.Errorf("duplicate credential id %s", record.ID))
		}
		seen[record.ID] = true
	}

	seen = map[string]bool{}
	for _, record := range w.Verifications {
		if record.ID == "" {
			result = multierror.Append(result, &walletgo.MissingFieldError{Field: "id"})
			continue
		}
		if seen[record.ID] {
			result = multierror.Append(result, errors.Errorf("duplicate verification id %s", record.ID))
		}
		seen[record.ID] = true
	}

	for _, record := range w.Verifications {
		if record.Request != nil {
			if err := record.Request.Validate(); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}
