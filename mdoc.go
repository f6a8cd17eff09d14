package walletgo

import (
	"encoding/json"
)

// MDocAttribute is one disclosed claim of a mobile document, identified by
// namespace and element id. The card detail shape additionally reports
// per-claim digest validity.
type MDocAttribute struct {
	Namespace string   `json:"ns,omitempty"`
	ID        string   `json:"id"`
	Value     AnyValue `json:"value"`
	IsValid   bool     `json:"isValid,omitempty"`
}

// mdocPayload is the card detail shape: a flattened attribute array plus
// verification metadata. The alternative raw shape keys claims by namespace
// and is handled by shape detection, not configuration.
type mdocPayload struct {
	DocType             string          `json:"docType,omitempty"`
	Attributes          []MDocAttribute `json:"attributes,omitempty"`
	IssuerCertificate   string          `json:"issuerCertificate,omitempty"`
	DigestsValid        *bool           `json:"digestsValid,omitempty"`
	DisclosedAttributes int             `json:"disclosedAttributes,omitempty"`
	TotalAttributes     int             `json:"totalAttributes,omitempty"`
}

func decodeMDocCredential(payload []byte) (*CredentialRecord, error) {
	env, err := decodeRecordEnvelope(payload)
	if err != nil {
		return nil, err
	}
	return &CredentialRecord{
		ID:            env.ID,
		Format:        FormatMDoc,
		Role:          env.Role,
		State:         env.State,
		IssuerDID:     env.IssuerDID,
		Connection:    env.Conn,
		DocumentTypes: mdocDocumentTypes(payload),
		RawPayload:    append(json.RawMessage(nil), payload...),
	}, nil
}

// mdocDocumentTypes reads the ISO docType: from the top level when present,
// else from a docType entry in the flattened attribute array. Both absent
// means no document types.
func mdocDocumentTypes(payload []byte) []string {
	var body mdocPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil
	}
	if body.DocType != "" {
		return []string{body.DocType}
	}
	for _, attr := range body.Attributes {
		if attr.ID == "docType" {
			if s, ok := attr.Value.StringValue(); ok {
				return []string{s}
			}
		}
	}
	return nil
}

// mdocAttributes extracts the claim list from either mdoc shape: the
// flattened attribute array when present, else the namespace-keyed object
// whose nested objects hold the claims. Malformed payloads degrade to nil.
func mdocAttributes(payload []byte) []MDocAttribute {
	var body mdocPayload
	if err := json.Unmarshal(payload, &body); err == nil && len(body.Attributes) > 0 {
		return body.Attributes
	}

	doc, err := ParseAnyValue(payload)
	if err != nil || doc.Kind() != AnyObject {
		return nil
	}
	var attrs []MDocAttribute
	for _, ns := range doc.Fields() {
		if ns.Value.Kind() != AnyObject {
			continue
		}
		for _, claim := range ns.Value.Fields() {
			attrs = append(attrs, MDocAttribute{Namespace: ns.Key, ID: claim.Key, Value: claim.Value, IsValid: true})
		}
	}
	return attrs
}
