package walletgo

import (
	"encoding/json"

	"github.com/go-errors/errors"
)

// CredentialRecord is the unified wallet view of a credential regardless of
// the technology that produced it. Exactly one format is set per record and
// only that format's decoder is ever invoked on its payload.
//
// DocumentTypes is derived once at decode time and never recomputed, so that
// matching a record to a preview template stays deterministic for the
// lifetime of the record.
type CredentialRecord struct {
	ID            string                 `json:"id"`
	Format        CredentialFormat       `json:"format"`
	Role          Role                   `json:"role"`
	State         CredentialState        `json:"state"`
	IssuerDID     string                 `json:"issuer_did,omitempty"`
	DocumentTypes []string               `json:"document_types,omitempty"`
	RawPayload    json.RawMessage        `json:"raw_payload,omitempty"`
	Connection    *ConnectionInfo        `json:"connection,omitempty"`
	Indy          *IndyCredentialDetails `json:"indy,omitempty"`
}

// IndyCredentialDetails carries the ledger identifiers and free-form
// properties specific to Indy/AnonCreds credentials. The other formats keep
// their claims in the raw payload and expose them only through projection.
type IndyCredentialDetails struct {
	CredentialDefinitionID string              `json:"cred_def_id,omitempty"`
	SchemaName             string              `json:"schema_name,omitempty"`
	SchemaVersion          string              `json:"schema_version,omitempty"`
	Properties             map[string]AnyValue `json:"properties,omitempty"`
}

// MarshalJSON writes the canonical wire tag of the format, so persisted
// wallet files round-trip through the same registry that decodes invitations.
func (f CredentialFormat) MarshalJSON() ([]byte, error) {
	if f == "" {
		return json.Marshal("")
	}
	tag := f.AttachmentFormatTag()
	if tag == "" {
		return nil, errors.Errorf("unknown credential format %q", string(f))
	}
	return json.Marshal(tag)
}

func (f *CredentialFormat) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	if tag == "" {
		*f = ""
		return nil
	}
	format, ok := ResolveCredentialFormat([]string{tag})
	if !ok {
		return &Error{ErrorCode: ErrorUnknownFormat, Info: tag}
	}
	*f = format
	return nil
}

func (f VerificationRequestFormat) MarshalJSON() ([]byte, error) {
	if f == "" {
		return json.Marshal("")
	}
	tag := f.AttachmentFormatTag()
	if tag == "" {
		return nil, errors.Errorf("unknown verification request format %q", string(f))
	}
	return json.Marshal(tag)
}

func (f *VerificationRequestFormat) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	if tag == "" {
		*f = ""
		return nil
	}
	format, ok := ResolveVerificationFormat([]string{tag})
	if !ok {
		return &Error{ErrorCode: ErrorUnknownFormat, Info: tag}
	}
	*f = format
	return nil
}

// DecodeCredential decodes an agent credential payload of the given format
// into a CredentialRecord. The id, role and state discriminants are required
// and their absence is fatal; claim-bearing fields degrade to empty.
func DecodeCredential(format CredentialFormat, payload []byte) (*CredentialRecord, error) {
	switch format {
	case FormatIndy:
		return decodeIndyCredential(payload)
	case FormatJSONLD:
		return decodeJSONLDCredential(payload)
	case FormatMDoc:
		return decodeMDocCredential(payload)
	default:
		return nil, &Error{ErrorCode: ErrorUnknownFormat, Info: string(format)}
	}
}

// NewCredentialOffer builds an inbound offer record from an unwrapped
// invitation. When the declared formats are not recognized it returns
// (nil, nil): the offer cannot be previewed, but the caller may still act on
// the raw invitation. The record id is chosen by the caller.
func NewCredentialOffer(id string, envelope *InvitationEnvelope) (*CredentialRecord, error) {
	if envelope.Kind != KindOfferCredential {
		return nil, errors.Errorf("invitation is a %s, not an offer", envelope.Kind)
	}
	format, ok := ResolveCredentialFormat(envelope.Formats)
	if !ok {
		return nil, nil
	}

	record := &CredentialRecord{
		ID:         id,
		Format:     format,
		Role:       RoleHolder,
		State:      CredentialStateInboundOffer,
		RawPayload: append(json.RawMessage(nil), envelope.Payload...),
	}

	switch format {
	case FormatIndy:
		fillIndyOffer(record, envelope.Payload)
	case FormatJSONLD:
		record.DocumentTypes = jsonldDocumentTypes(envelope.Payload)
	case FormatMDoc:
		record.DocumentTypes = mdocDocumentTypes(envelope.Payload)
	}
	return record, nil
}

// recordEnvelope holds the id/role/state discriminants shared by all stored
// credential shapes.
type recordEnvelope struct {
	ID        string          `json:"id"`
	Role      Role            `json:"role"`
	State     CredentialState `json:"state"`
	IssuerDID string          `json:"issuer_did"`
	Conn      *ConnectionInfo `json:"connection"`
}

// decodeRecordEnvelope extracts the shared discriminants. Missing
// discriminants are fatal: decoders never guess a default for them.
func decodeRecordEnvelope(payload []byte) (*recordEnvelope, error) {
	var env recordEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &Error{ErrorCode: ErrorSerialization, Err: err}
	}
	if env.ID == "" {
		return nil, missingField("id")
	}
	if env.Role == "" {
		return nil, missingField("role")
	}
	if env.State == "" {
		return nil, missingField("state")
	}
	return &env, nil
}
