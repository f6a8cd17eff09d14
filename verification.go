package walletgo

import (
	"encoding/json"
	"time"

	"github.com/go-errors/errors"

	"github.com/digicred/walletgo/presentationex"
)

// VerificationRecord is the unified wallet view of a proof exchange.
type VerificationRecord struct {
	ID            string            `json:"id"`
	Role          Role              `json:"role"`
	State         VerificationState `json:"state"`
	VerifierDID   string            `json:"verifier_did,omitempty"`
	ProofSchemaID string            `json:"proof_schema_id,omitempty"`

	// Display metadata extracted at decode time. Extraction failures degrade
	// to empty strings: a request with unparseable metadata is still usable
	// for the accept/reject/share action, only its label is blank.
	Name          string   `json:"name,omitempty"`
	Purpose       string   `json:"purpose,omitempty"`
	DocumentTypes []string `json:"document_types,omitempty"`

	Request         *ProofRequest                   `json:"proof_request,omitempty"`
	GeneratedClaims *AnyValue                       `json:"generated_claims,omitempty"`
	Created         *Timestamp                      `json:"created,omitempty"`
	StateTimes      map[VerificationState]Timestamp `json:"state_times,omitempty"`
	RawPayload      json.RawMessage                 `json:"raw_payload,omitempty"`
}

// ProofRequest is the tagged union over the proof request technologies.
// Exactly the variant matching Format may be set; a mismatch is a decode
// error, never a silent default.
type ProofRequest struct {
	Format                 VerificationRequestFormat              `json:"format"`
	PresentationDefinition *presentationex.PresentationDefinition `json:"presentation_definition,omitempty"`
	Indy                   *IndyProofRequest                      `json:"indy,omitempty"`
	MDoc                   *MDocRequest                           `json:"mdoc,omitempty"`
}

// MDocRequest is a mobile-document proof request in the flattened
// attribute-array shape shared with the mdoc credential detail view.
type MDocRequest struct {
	DocType    string          `json:"docType,omitempty"`
	Attributes []MDocAttribute `json:"attributes,omitempty"`
}

// Validate checks that exactly the variant matching Format is populated.
func (r *ProofRequest) Validate() error {
	mismatch := func(got string) error {
		return errors.Errorf("proof request variant %s does not match format %s", got, r.Format)
	}
	switch r.Format {
	case VerificationFormatPresentationExchange:
		if r.Indy != nil || r.MDoc != nil {
			return mismatch("indy/mdoc")
		}
	case VerificationFormatIndyProof:
		if r.PresentationDefinition != nil || r.MDoc != nil {
			return mismatch("presentation-exchange/mdoc")
		}
	case VerificationFormatMDocRequest:
		if r.PresentationDefinition != nil || r.Indy != nil {
			return mismatch("presentation-exchange/indy")
		}
	default:
		return &Error{ErrorCode: ErrorUnknownFormat, Info: string(r.Format)}
	}
	return nil
}

// Transition moves the record to a new state, recording when.
func (r *VerificationRecord) Transition(state VerificationState, at time.Time) {
	r.State = state
	if r.StateTimes == nil {
		r.StateTimes = map[VerificationState]Timestamp{}
	}
	r.StateTimes[state] = Timestamp(at)
}

// DecodeVerification decodes an agent verification payload of the given
// format. The id, role and state discriminants are required; display
// metadata degrades to empty.
func DecodeVerification(format VerificationRequestFormat, payload []byte) (*VerificationRecord, error) {
	var env struct {
		ID            string            `json:"id"`
		Role          Role              `json:"role"`
		State         VerificationState `json:"state"`
		VerifierDID   string            `json:"verifier_did"`
		ProofSchemaID string            `json:"proof_schema_id"`
	}
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

	record := &VerificationRecord{
		ID:            env.ID,
		Role:          env.Role,
		State:         env.State,
		VerifierDID:   env.VerifierDID,
		ProofSchemaID: env.ProofSchemaID,
		RawPayload:    append(json.RawMessage(nil), payload...),
	}
	if err := fillVerificationRequest(record, format, payload); err != nil {
		return nil, err
	}
	return record, nil
}

// NewVerificationRequest builds an inbound request record from an unwrapped
// invitation. Unrecognized formats yield (nil, nil): no preview, raw action
// still available to the caller.
func NewVerificationRequest(id string, envelope *InvitationEnvelope) (*VerificationRecord, error) {
	if envelope.Kind != KindRequestPresentation {
		return nil, errors.Errorf("invitation is a %s, not a presentation request", envelope.Kind)
	}
	format, ok := ResolveVerificationFormat(envelope.Formats)
	if !ok {
		return nil, nil
	}

	now := Timestamp(time.Now())
	record := &VerificationRecord{
		ID:         id,
		Role:       RoleProver,
		State:      VerificationStateInboundRequest,
		Created:    &now,
		RawPayload: append(json.RawMessage(nil), envelope.Payload...),
	}
	if err := fillVerificationRequest(record, format, envelope.Payload); err != nil {
		return nil, err
	}
	return record, nil
}

func fillVerificationRequest(record *VerificationRecord, format VerificationRequestFormat, payload []byte) error {
	switch format {
	case VerificationFormatPresentationExchange:
		fillPresentationExchange(record, payload)
	case VerificationFormatIndyProof:
		fillIndyProofRequest(record, payload)
	case VerificationFormatMDocRequest:
		fillMDocRequest(record, payload)
	default:
		return &Error{ErrorCode: ErrorUnknownFormat, Info: string(format)}
	}
	if record.Request != nil {
		return record.Request.Validate()
	}
	return nil
}

// fillPresentationExchange extracts metadata from the first input descriptor
// only. Multi-descriptor definitions are accepted but unsupported: they do
// not error, extraction just reads index 0.
func fillPresentationExchange(record *VerificationRecord, payload []byte) {
	var body struct {
		PresentationDefinition *presentationex.PresentationDefinition `json:"presentation_definition"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.PresentationDefinition == nil {
		record.Request = &ProofRequest{Format: VerificationFormatPresentationExchange}
		return
	}
	record.Request = &ProofRequest{
		Format:                 VerificationFormatPresentationExchange,
		PresentationDefinition: body.PresentationDefinition,
	}
	if len(body.PresentationDefinition.InputDescriptors) == 0 {
		return
	}
	descriptor := body.PresentationDefinition.InputDescriptors[0]
	record.Name = descriptor.Name
	record.Purpose = descriptor.Purpose
	if descriptor.ID != "" {
		record.DocumentTypes = []string{descriptor.ID}
	}
}

func fillIndyProofRequest(record *VerificationRecord, payload []byte) {
	// The request may arrive under a proof_request key or as the top-level
	// object; both occur in agent traffic.
	var wrapped struct {
		ProofRequest *IndyProofRequest `json:"proof_request"`
	}
	req := &IndyProofRequest{}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.ProofRequest != nil {
		req = wrapped.ProofRequest
	} else if err := json.Unmarshal(payload, req); err != nil {
		record.Request = &ProofRequest{Format: VerificationFormatIndyProof, Indy: req}
		return
	}
	record.Request = &ProofRequest{Format: VerificationFormatIndyProof, Indy: req}
	record.Name = req.Name
	record.DocumentTypes, record.Purpose = indyProofMetadata(req)
}

func fillMDocRequest(record *VerificationRecord, payload []byte) {
	req := &MDocRequest{}
	if err := json.Unmarshal(payload, req); err != nil || len(req.Attributes) == 0 {
		req.Attributes = mdocAttributes(payload)
	}
	record.Request = &ProofRequest{Format: VerificationFormatMDocRequest, MDoc: req}
	record.DocumentTypes = mdocDocumentTypes(payload)
}
