package walletgo

import (
	"encoding/json"
	"strings"

	"github.com/go-errors/errors"

	"github.com/digicred/walletgo/internal/common"
)

// InvitationKind distinguishes what an invitation asks the wallet to do.
type InvitationKind string

// Invitation kinds
const (
	KindOfferCredential     = InvitationKind("offer-credential")
	KindRequestPresentation = InvitationKind("request-presentation")
)

// InvitationEnvelope is the unwrapped product of an out-of-band invitation.
// It is transient: constructed once per scan or fetch, consumed by a
// credential or verification decoder, then discarded. Only the decoded
// record is ever persisted.
type InvitationEnvelope struct {
	ID      string
	URL     string
	Label   string
	Comment string
	Kind    InvitationKind
	Formats []string
	Payload []byte
}

// Wire shapes of the DIDComm attachment envelope. Only the envelope shape is
// consumed here; the transport protocol itself is out of scope.
type invitationMessage struct {
	Type           string       `json:"@type"`
	ID             string       `json:"@id"`
	Label          string       `json:"label,omitempty"`
	RequestsAttach []attachment `json:"requests~attach"`
}

type attachment struct {
	ID       string         `json:"@id,omitempty"`
	MimeType string         `json:"mime-type,omitempty"`
	Data     attachmentData `json:"data"`
}

type attachmentData struct {
	Base64 string          `json:"base64,omitempty"`
	JSON   json.RawMessage `json:"json,omitempty"`
}

type protocolMessage struct {
	Type                       string             `json:"@type"`
	ID                         string             `json:"@id"`
	Comment                    string             `json:"comment,omitempty"`
	Formats                    []attachmentFormat `json:"formats"`
	CredentialPreview          *credentialPreview `json:"credential_preview,omitempty"`
	OffersAttach               []attachment       `json:"offers~attach,omitempty"`
	RequestPresentationsAttach []attachment       `json:"request_presentations~attach,omitempty"`
}

type attachmentFormat struct {
	AttachID string `json:"attach_id,omitempty"`
	Format   string `json:"format"`
}

type credentialPreview struct {
	Type       string             `json:"@type,omitempty"`
	Attributes []previewAttribute `json:"attributes"`
}

type previewAttribute struct {
	Name     string `json:"name"`
	MimeType string `json:"mime-type,omitempty"`
	Value    string `json:"value"`
}

func malformedInvitation(err error) *Error {
	return &Error{ErrorCode: ErrorMalformedInvitation, Err: err}
}

// ParseInvitation unwraps a raw out-of-band invitation into an
// InvitationEnvelope. The first requests~attach entry is always the one
// unwrapped; agents sending multiple attachments get no merging or
// disambiguation. Structural failures return ErrorMalformedInvitation and
// never a partial envelope.
func ParseInvitation(url string, raw []byte) (*InvitationEnvelope, error) {
	var msg invitationMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, malformedInvitation(err)
	}
	if len(msg.RequestsAttach) == 0 {
		return nil, malformedInvitation(errors.New("invitation carries no requests~attach"))
	}

	inner, err := attachmentBytes(msg.RequestsAttach[0])
	if err != nil {
		return nil, malformedInvitation(err)
	}

	var protocol protocolMessage
	if err := json.Unmarshal(inner, &protocol); err != nil {
		return nil, malformedInvitation(err)
	}

	kind, payloadAttachments, err := classifyProtocolMessage(&protocol)
	if err != nil {
		return nil, err
	}

	payload, err := attachmentBytes(payloadAttachments[0])
	if err != nil {
		return nil, malformedInvitation(err)
	}

	formats := make([]string, 0, len(protocol.Formats))
	for _, f := range protocol.Formats {
		formats = append(formats, f.Format)
	}

	if shouldMergeIndyPreview(formats, protocol.CredentialPreview) {
		payload, err = mergeIndyPreview(protocol.CredentialPreview, payload)
		if err != nil {
			return nil, malformedInvitation(err)
		}
	}

	return &InvitationEnvelope{
		ID:      msg.ID,
		URL:     url,
		Label:   msg.Label,
		Comment: protocol.Comment,
		Kind:    kind,
		Formats: formats,
		Payload: payload,
	}, nil
}

// classifyProtocolMessage reads the envelope type tag to decide whether the
// invitation offers a credential or requests a presentation.
func classifyProtocolMessage(protocol *protocolMessage) (InvitationKind, []attachment, error) {
	switch {
	case strings.Contains(protocol.Type, string(KindOfferCredential)):
		if len(protocol.OffersAttach) == 0 {
			return "", nil, malformedInvitation(errors.New("offer-credential message carries no offers~attach"))
		}
		return KindOfferCredential, protocol.OffersAttach, nil
	case strings.Contains(protocol.Type, string(KindRequestPresentation)):
		if len(protocol.RequestPresentationsAttach) == 0 {
			return "", nil, malformedInvitation(errors.New("request-presentation message carries no request_presentations~attach"))
		}
		return KindRequestPresentation, protocol.RequestPresentationsAttach, nil
	default:
		return "", nil, malformedInvitation(errors.Errorf("unrecognized message type %q", protocol.Type))
	}
}

func attachmentBytes(att attachment) ([]byte, error) {
	if att.Data.Base64 != "" {
		bts, err := common.Base64Decode([]byte(att.Data.Base64))
		if err != nil {
			return nil, errors.WrapPrefix(err, "attachment base64", 0)
		}
		return bts, nil
	}
	if len(att.Data.JSON) > 0 {
		return att.Data.JSON, nil
	}
	return nil, errors.New("attachment carries no data")
}

// shouldMergeIndyPreview reports whether the Indy preview/payload
// reconciliation applies: only when the declared format set is exactly the
// legacy Indy offer tag and the message carries a credential preview.
func shouldMergeIndyPreview(formats []string, preview *credentialPreview) bool {
	return len(formats) == 1 && formats[0] == FormatTagIndyOffer && preview != nil
}

// mergeIndyPreview reconciles Indy's split between the credential preview
// (human labels) and the offer payload (ledger identifiers) into a single
// document: the preview's attribute map, with the payload's cred_def_id, when
// present, injected under a synthetic key so the Indy decoder sees one shape.
func mergeIndyPreview(preview *credentialPreview, payload []byte) ([]byte, error) {
	var offer struct {
		CredDefID string `json:"cred_def_id"`
	}
	if err := json.Unmarshal(payload, &offer); err != nil {
		return nil, err
	}

	merged := make([]AnyField, 0, len(preview.Attributes)+1)
	for _, attr := range preview.Attributes {
		merged = append(merged, AnyField{Key: attr.Name, Value: NewAnyString(attr.Value)})
	}
	if offer.CredDefID != "" {
		merged = append(merged, AnyField{Key: "cred_def_id", Value: NewAnyString(offer.CredDefID)})
	}

	return json.Marshal(NewAnyObject(merged...))
}
