package walletgo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeCredentialRequiresDiscriminants(t *testing.T) {
	tests := map[string]string{
		"id":    `{"role":"holder","state":"stored"}`,
		"role":  `{"id":"cred-1","state":"stored"}`,
		"state": `{"id":"cred-1","role":"holder"}`,
	}
	for field, payload := range tests {
		for _, format := range []CredentialFormat{FormatIndy, FormatJSONLD, FormatMDoc} {
			_, err := DecodeCredential(format, []byte(payload))
			require.Error(t, err, field)
			var serr *Error
			require.ErrorAs(t, err, &serr)
			require.Equal(t, ErrorMissingField, serr.ErrorCode, field)

			var merr *MissingFieldError
			require.ErrorAs(t, err, &merr)
			require.Equal(t, field, merr.Field)
		}
	}
}

func TestDecodeCredentialUnknownFormat(t *testing.T) {
	_, err := DecodeCredential(CredentialFormat("bogus"), []byte(`{}`))
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, ErrorUnknownFormat, serr.ErrorCode)
}

func TestNewCredentialOfferUnknownFormat(t *testing.T) {
	record, err := NewCredentialOffer("cred-1", &InvitationEnvelope{
		Kind:    KindOfferCredential,
		Formats: []string{"unknown-format@v9"},
		Payload: []byte(`{}`),
	})
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestNewCredentialOfferKindMismatch(t *testing.T) {
	_, err := NewCredentialOffer("cred-1", &InvitationEnvelope{
		Kind:    KindRequestPresentation,
		Formats: []string{"mso_mdoc"},
	})
	require.Error(t, err)
}

func TestNewCredentialOfferMDoc(t *testing.T) {
	record, err := NewCredentialOffer("cred-1", &InvitationEnvelope{
		Kind:    KindOfferCredential,
		Formats: []string{"mso_mdoc"},
		Payload: []byte(`{"docType":"au.gov.servicesaustralia.medicare.card"}`),
	})
	require.NoError(t, err)
	require.Equal(t, FormatMDoc, record.Format)
	require.Equal(t, RoleHolder, record.Role)
	require.Equal(t, CredentialStateInboundOffer, record.State)
	require.Equal(t, []string{"au.gov.servicesaustralia.medicare.card"}, record.DocumentTypes)
}

func TestCredentialRecordJSONRoundtrip(t *testing.T) {
	record := &CredentialRecord{
		ID:            "cred-1",
		Format:        FormatJSONLD,
		Role:          RoleHolder,
		State:         CredentialStateStored,
		IssuerDID:     "did:sov:issuer",
		DocumentTypes: []string{"VerifiableCredential", "PermanentResidentCard"},
		RawPayload:    json.RawMessage(`{"type":["VerifiableCredential","PermanentResidentCard"]}`),
	}
	bts, err := json.Marshal(record)
	require.NoError(t, err)
	// The format serializes as its canonical wire tag.
	require.Contains(t, string(bts), `"format":"aries/ld-proof-vc-detail@v1.0"`)

	parsed := &CredentialRecord{}
	require.NoError(t, json.Unmarshal(bts, parsed))
	require.Equal(t, record, parsed)
}

func TestIndyCredentialRecordJSONRoundtrip(t *testing.T) {
	// The embedded signed credential triggers the normalized payload form;
	// the decoded record must survive persistence byte-for-byte.
	payload := `{"id":"cred-2","role":"holder","state":"stored","issuer_did":"did:sov:issuer",` +
		`"cred_def_id":"Whs71TiiEmFuwmMKsW4c4Y:3:CL:22:TAG1","schema_name":"medicare","schema_version":"1.0",` +
		`"cred_json":{"cred_def_id":"Whs71TiiEmFuwmMKsW4c4Y:3:CL:22:TAG1","values":{"first_name":{"raw":"John","encoded":"1234"}}},` +
		`"properties":{"first_name":"John"}}`
	record, err := DecodeCredential(FormatIndy, []byte(payload))
	require.NoError(t, err)
	require.Equal(t, payload, string(record.RawPayload))
	require.Equal(t, []string{"Whs71TiiEmFuwmMKsW4c4Y:3:CL:22:TAG1"}, record.DocumentTypes)

	bts, err := json.Marshal(record)
	require.NoError(t, err)
	require.Contains(t, string(bts), `"format":"hlindy-zkp-v1.0"`)

	parsed := &CredentialRecord{}
	require.NoError(t, json.Unmarshal(bts, parsed))
	require.Equal(t, record, parsed)
}

func TestMDocCredentialRecordJSONRoundtrip(t *testing.T) {
	payload := `{"id":"cred-3","role":"holder","state":"stored",` +
		`"docType":"au.gov.servicesaustralia.medicare.card",` +
		`"attributes":[{"ns":"au.gov.servicesaustralia.medicare.card","id":"number","value":"5124954801","isValid":true}]}`
	record, err := DecodeCredential(FormatMDoc, []byte(payload))
	require.NoError(t, err)
	require.Equal(t, []string{"au.gov.servicesaustralia.medicare.card"}, record.DocumentTypes)

	bts, err := json.Marshal(record)
	require.NoError(t, err)
	require.Contains(t, string(bts), `"format":"mso_mdoc"`)

	parsed := &CredentialRecord{}
	require.NoError(t, json.Unmarshal(bts, parsed))
	require.Equal(t, record, parsed)
}

func TestCredentialFormatUnmarshalUnknownTag(t *testing.T) {
	record := &CredentialRecord{}
	err := json.Unmarshal([]byte(`{"id":"cred-1","format":"unknown-format@v9"}`), record)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, ErrorUnknownFormat, serr.ErrorCode)
}
