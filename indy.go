package walletgo

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Wire shape of an agent-held Indy credential record. The properties bag is
// agent-defined and stays dynamically typed.
type indyCredentialPayload struct {
	CredDefID     string              `json:"cred_def_id"`
	SchemaName    string              `json:"schema_name"`
	SchemaVersion string              `json:"schema_version"`
	CredJSON      json.RawMessage     `json:"cred_json"`
	Properties    map[string]AnyValue `json:"properties"`
}

// IndyProofRequest is the ledger proof request shape: a map of attribute
// referents, each optionally restricted by credential definition, schema id
// or issuer DID.
type IndyProofRequest struct {
	Name                string                               `json:"name,omitempty"`
	Version             string                               `json:"version,omitempty"`
	Nonce               string                               `json:"nonce,omitempty"`
	CredDefID           string                               `json:"cred_def_id,omitempty"`
	RequestedAttributes map[string]IndyProofRequestAttr      `json:"requested_attributes,omitempty"`
	RequestedPredicates map[string]IndyProofRequestPredicate `json:"requested_predicates,omitempty"`
}

// IndyProofRequestAttr is a single requested attribute referent.
type IndyProofRequestAttr struct {
	Name         string     `json:"name,omitempty"`
	Names        []string   `json:"names,omitempty"`
	Restrictions []AnyValue `json:"restrictions,omitempty"`
}

// IndyProofRequestPredicate is a requested predicate referent.
type IndyProofRequestPredicate struct {
	Name         string     `json:"name,omitempty"`
	PType        string     `json:"p_type,omitempty"`
	PValue       int32      `json:"p_value,omitempty"`
	Restrictions []AnyValue `json:"restrictions,omitempty"`
}

func decodeIndyCredential(payload []byte) (*CredentialRecord, error) {
	env, err := decodeRecordEnvelope(payload)
	if err != nil {
		return nil, err
	}

	var body indyCredentialPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, &Error{ErrorCode: ErrorSerialization, Err: err}
	}

	record := &CredentialRecord{
		ID:         env.ID,
		Format:     FormatIndy,
		Role:       env.Role,
		State:      env.State,
		IssuerDID:  env.IssuerDID,
		Connection: env.Conn,
		Indy: &IndyCredentialDetails{
			CredentialDefinitionID: body.CredDefID,
			SchemaName:             body.SchemaName,
			SchemaVersion:          body.SchemaVersion,
			Properties:             body.Properties,
		},
		DocumentTypes: indyDocumentTypes(&body),
	}

	// The embedded signed-credential object mixes typed and stringly fields,
	// so the payload is re-serialized in normalized form instead of being
	// kept verbatim when one is present.
	if len(body.CredJSON) > 0 {
		normalized, err := normalizeJSON(payload)
		if err != nil {
			return nil, &Error{ErrorCode: ErrorSerialization, Err: err}
		}
		record.RawPayload = normalized
	} else {
		record.RawPayload = append(json.RawMessage(nil), payload...)
	}
	return record, nil
}

// indyDocumentTypes derives the preview-matching types for an Indy payload:
// the top-level cred_def_id when present, else the one embedded in the signed
// credential, else none.
func indyDocumentTypes(body *indyCredentialPayload) []string {
	if body.CredDefID != "" {
		return []string{body.CredDefID}
	}
	if len(body.CredJSON) > 0 {
		var cred struct {
			CredDefID string `json:"cred_def_id"`
		}
		if err := json.Unmarshal(body.CredJSON, &cred); err == nil && cred.CredDefID != "" {
			return []string{cred.CredDefID}
		}
	}
	return nil
}

// fillIndyOffer populates the Indy variant fields from an offer payload.
// Offers come in two shapes: the raw ledger offer (schema_id, cred_def_id,
// nonce, ...) and the merged preview document produced by the attachment
// resolver, a flat map of attribute labels plus a cred_def_id key. The
// unrecognized keys of either shape become the record's properties.
func fillIndyOffer(record *CredentialRecord, payload []byte) {
	var doc map[string]interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return
	}

	var offer struct {
		CredDefID     string                 `mapstructure:"cred_def_id"`
		SchemaID      string                 `mapstructure:"schema_id"`
		SchemaName    string                 `mapstructure:"schema_name"`
		SchemaVersion string                 `mapstructure:"schema_version"`
		Rest          map[string]interface{} `mapstructure:",remain"`
	}
	if err := mapstructure.Decode(doc, &offer); err != nil {
		return
	}

	details := &IndyCredentialDetails{
		CredentialDefinitionID: offer.CredDefID,
		SchemaName:             offer.SchemaName,
		SchemaVersion:          offer.SchemaVersion,
	}
	if len(offer.Rest) > 0 {
		details.Properties = make(map[string]AnyValue, len(offer.Rest))
		for key, val := range offer.Rest {
			av, err := anyValueOf(val)
			if err != nil {
				continue
			}
			details.Properties[key] = av
		}
	}
	record.Indy = details
	if offer.CredDefID != "" {
		record.DocumentTypes = []string{offer.CredDefID}
	}
}

// indyProofMetadata extracts the document-type candidates and the purpose
// text of an Indy proof request. A top-level cred_def_id wins outright;
// otherwise every string-valued restriction entry counts as a type candidate,
// since Indy requests restrict by cred def, schema id or issuer DID
// interchangeably. Referents are walked in sorted order to keep the
// extraction deterministic.
func indyProofMetadata(req *IndyProofRequest) (docTypes []string, purpose string) {
	if req.CredDefID != "" {
		return []string{req.CredDefID}, ""
	}

	referents := make([]string, 0, len(req.RequestedAttributes))
	for referent := range req.RequestedAttributes {
		referents = append(referents, referent)
	}
	sort.Strings(referents)

	var purposes []string
	for _, referent := range referents {
		attr := req.RequestedAttributes[referent]
		for _, restriction := range attr.Restrictions {
			for _, field := range restriction.Fields() {
				if field.Value.Kind() == AnyString {
					docTypes = append(docTypes, field.Value.Str())
				}
			}
		}
		if attr.Name != "" {
			purposes = append(purposes, attr.Name)
		}
	}
	return docTypes, strings.Join(purposes, " ")
}

func anyValueOf(v interface{}) (AnyValue, error) {
	bts, err := json.Marshal(v)
	if err != nil {
		return AnyValue{}, err
	}
	return ParseAnyValue(bts)
}

// normalizeJSON re-serializes JSON through the dynamic value model, producing
// a canonical byte form with original member order.
func normalizeJSON(payload []byte) (json.RawMessage, error) {
	v, err := ParseAnyValue(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
