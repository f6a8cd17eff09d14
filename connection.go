package walletgo

// AgentInfo describes the cloud agent a wallet is registered with.
type AgentInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
	DID      string `json:"did,omitempty"`
}

// ConnectionInfo is an established pairwise connection with another agent.
type ConnectionInfo struct {
	ID        string     `json:"id"`
	Label     string     `json:"label,omitempty"`
	MyDID     string     `json:"my_did,omitempty"`
	TheirDID  string     `json:"their_did,omitempty"`
	State     string     `json:"state,omitempty"`
	CreatedAt *Timestamp `json:"created_at,omitempty"`
}

// InvitationInfo is a historical, persisted invitation, distinct from the
// transient InvitationEnvelope produced while unwrapping.
type InvitationInfo struct {
	ID        string         `json:"id"`
	URL       string         `json:"url,omitempty"`
	Label     string         `json:"label,omitempty"`
	Kind      InvitationKind `json:"kind,omitempty"`
	CreatedAt *Timestamp     `json:"created_at,omitempty"`
}
