package walletgo

import (
	"encoding/json"
)

// Wire shape of a JSON-LD Verifiable Credential as far as this package reads
// it. Claim structure beyond the type array is agent-defined sample data, so
// credentialSubject stays opaque here; structured access belongs to claim
// projection, not the decoder.
type jsonldCredential struct {
	Context json.RawMessage `json:"@context,omitempty"`
	Type    []string        `json:"type,omitempty"`
	Subject json.RawMessage `json:"credentialSubject,omitempty"`
}

// jsonldPayload covers both wire shapes: an offer wraps the credential under
// a "credential" key, a stored credential is the bare object.
type jsonldPayload struct {
	Credential *jsonldCredential `json:"credential,omitempty"`
	jsonldCredential
}

func decodeJSONLDCredential(payload []byte) (*CredentialRecord, error) {
	env, err := decodeRecordEnvelope(payload)
	if err != nil {
		return nil, err
	}
	return &CredentialRecord{
		ID:            env.ID,
		Format:        FormatJSONLD,
		Role:          env.Role,
		State:         env.State,
		IssuerDID:     env.IssuerDID,
		Connection:    env.Conn,
		DocumentTypes: jsonldDocumentTypes(payload),
		RawPayload:    append(json.RawMessage(nil), payload...),
	}, nil
}

// jsonldDocumentTypes reads the VC type array from whichever shape the
// payload has: credential.type for offers, type for stored credentials.
// Absence degrades to no document types, never an error.
func jsonldDocumentTypes(payload []byte) []string {
	var body jsonldPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil
	}
	if body.Credential != nil && len(body.Credential.Type) > 0 {
		return body.Credential.Type
	}
	if len(body.Type) > 0 {
		return body.Type
	}
	return nil
}

// jsonldSubject returns the raw credentialSubject of either payload shape.
func jsonldSubject(payload []byte) json.RawMessage {
	var body jsonldPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil
	}
	if body.Credential != nil && len(body.Credential.Subject) > 0 {
		return body.Credential.Subject
	}
	return body.Subject
}
