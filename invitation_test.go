package walletgo

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func b64(t *testing.T, doc interface{}) string {
	bts, err := json.Marshal(doc)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(bts)
}

// wrapInvitation builds the out-of-band envelope around a protocol message.
func wrapInvitation(t *testing.T, protocol interface{}) []byte {
	bts, err := json.Marshal(map[string]interface{}{
		"@type": "https://didcomm.org/out-of-band/1.1/invitation",
		"@id":   "inv-1",
		"label": "Example Issuer",
		"requests~attach": []map[string]interface{}{{
			"@id":       "request-0",
			"mime-type": "application/json",
			"data":      map[string]string{"base64": b64(t, protocol)},
		}},
	})
	require.NoError(t, err)
	return bts
}

func offerMessage(t *testing.T, formats []string, payload interface{}, preview interface{}) map[string]interface{} {
	formatEntries := make([]map[string]string, len(formats))
	for i, f := range formats {
		formatEntries[i] = map[string]string{"attach_id": fmt.Sprintf("attach-%d", i), "format": f}
	}
	msg := map[string]interface{}{
		"@type":   "https://didcomm.org/issue-credential/2.0/offer-credential",
		"@id":     "offer-0",
		"comment": "have a credential",
		"formats": formatEntries,
		"offers~attach": []map[string]interface{}{{
			"@id":  "attach-0",
			"data": map[string]string{"base64": b64(t, payload)},
		}},
	}
	if preview != nil {
		msg["credential_preview"] = preview
	}
	return msg
}

func presentationMessage(t *testing.T, formats []string, payload interface{}) map[string]interface{} {
	formatEntries := make([]map[string]string, len(formats))
	for i, f := range formats {
		formatEntries[i] = map[string]string{"attach_id": fmt.Sprintf("attach-%d", i), "format": f}
	}
	return map[string]interface{}{
		"@type":   "https://didcomm.org/present-proof/2.0/request-presentation",
		"@id":     "request-0",
		"formats": formatEntries,
		"request_presentations~attach": []map[string]interface{}{{
			"@id":  "attach-0",
			"data": map[string]string{"base64": b64(t, payload)},
		}},
	}
}

func TestParseInvitationOffer(t *testing.T) {
	raw := wrapInvitation(t, offerMessage(t,
		[]string{"aries/ld-proof-vc-detail@v1.0"},
		map[string]interface{}{"credential": map[string]interface{}{"type": []string{"VerifiableCredential"}}},
		nil,
	))

	envelope, err := ParseInvitation("https://issuer.example.com/invite", raw)
	require.NoError(t, err)
	require.Equal(t, "inv-1", envelope.ID)
	require.Equal(t, "https://issuer.example.com/invite", envelope.URL)
	require.Equal(t, "Example Issuer", envelope.Label)
	require.Equal(t, "have a credential", envelope.Comment)
	require.Equal(t, KindOfferCredential, envelope.Kind)
	require.Equal(t, []string{"aries/ld-proof-vc-detail@v1.0"}, envelope.Formats)
	require.JSONEq(t, `{"credential":{"type":["VerifiableCredential"]}}`, string(envelope.Payload))
}

func TestParseInvitationPresentationRequest(t *testing.T) {
	raw := wrapInvitation(t, presentationMessage(t,
		[]string{"hlindy/proof-req@v2.0"},
		map[string]interface{}{"name": "age check"},
	))

	envelope, err := ParseInvitation("", raw)
	require.NoError(t, err)
	require.Equal(t, KindRequestPresentation, envelope.Kind)
	require.Equal(t, []string{"hlindy/proof-req@v2.0"}, envelope.Formats)
}

func TestParseInvitationIndyPreviewMerge(t *testing.T) {
	preview := map[string]interface{}{
		"@type": "https://didcomm.org/issue-credential/2.0/credential-preview",
		"attributes": []map[string]string{
			{"name": "first_name", "value": "John"},
			{"name": "last_name", "value": "Doe"},
		},
	}
	raw := wrapInvitation(t, offerMessage(t,
		[]string{"hlindy-zkp-v1.0"},
		map[string]interface{}{"cred_def_id": "Whs71TiiEmFuwmMKsW4c4Y:3:CL:22:TAG1", "schema_id": "sch:1"},
		preview,
	))

	envelope, err := ParseInvitation("", raw)
	require.NoError(t, err)
	// The preview attributes and the payload's cred_def_id merge into one
	// document, in preview order with the ledger id last.
	require.Equal(t,
		`{"first_name":"John","last_name":"Doe","cred_def_id":"Whs71TiiEmFuwmMKsW4c4Y:3:CL:22:TAG1"}`,
		string(envelope.Payload))
}

func TestParseInvitationIndyPreviewMergeNoCredDefID(t *testing.T) {
	preview := map[string]interface{}{
		"attributes": []map[string]string{{"name": "first_name", "value": "John"}},
	}
	raw := wrapInvitation(t, offerMessage(t,
		[]string{"hlindy-zkp-v1.0"},
		map[string]interface{}{"schema_id": "sch:1"},
		preview,
	))

	envelope, err := ParseInvitation("", raw)
	require.NoError(t, err)
	// A payload without a cred_def_id contributes nothing to the merge.
	require.Equal(t, `{"first_name":"John"}`, string(envelope.Payload))
}

func TestParseInvitationNoPreviewMergeForOtherFormats(t *testing.T) {
	preview := map[string]interface{}{
		"attributes": []map[string]string{{"name": "first_name", "value": "John"}},
	}
	payload := map[string]interface{}{"docType": "org.iso.18013.5.1.mDL"}
	raw := wrapInvitation(t, offerMessage(t, []string{"mso_mdoc"}, payload, preview))

	envelope, err := ParseInvitation("", raw)
	require.NoError(t, err)
	require.JSONEq(t, `{"docType":"org.iso.18013.5.1.mDL"}`, string(envelope.Payload))
}

func TestParseInvitationFirstAttachmentWins(t *testing.T) {
	first := offerMessage(t, []string{"mso_mdoc"}, map[string]interface{}{"docType": "first"}, nil)
	second := offerMessage(t, []string{"mso_mdoc"}, map[string]interface{}{"docType": "second"}, nil)
	bts, err := json.Marshal(map[string]interface{}{
		"@id": "inv-1",
		"requests~attach": []map[string]interface{}{
			{"data": map[string]string{"base64": b64(t, first)}},
			{"data": map[string]string{"base64": b64(t, second)}},
		},
	})
	require.NoError(t, err)

	envelope, err := ParseInvitation("", bts)
	require.NoError(t, err)
	require.JSONEq(t, `{"docType":"first"}`, string(envelope.Payload))
}

func TestParseInvitationJSONAttachment(t *testing.T) {
	// Attachments may carry data.json instead of data.base64.
	bts, err := json.Marshal(map[string]interface{}{
		"@id": "inv-1",
		"requests~attach": []map[string]interface{}{{
			"data": map[string]interface{}{
				"json": map[string]interface{}{
					"@type":   "https://didcomm.org/issue-credential/2.0/offer-credential",
					"formats": []map[string]string{{"format": "mso_mdoc"}},
					"offers~attach": []map[string]interface{}{{
						"data": map[string]interface{}{"json": map[string]string{"docType": "org.iso.18013.5.1.mDL"}},
					}},
				},
			},
		}},
	})
	require.NoError(t, err)

	envelope, err := ParseInvitation("", bts)
	require.NoError(t, err)
	require.Equal(t, KindOfferCredential, envelope.Kind)
	require.JSONEq(t, `{"docType":"org.iso.18013.5.1.mDL"}`, string(envelope.Payload))
}

func TestParseInvitationMalformed(t *testing.T) {
	offerNoAttach := map[string]interface{}{
		"@type": "https://didcomm.org/issue-credential/2.0/offer-credential",
	}

	tests := map[string][]byte{
		"not json":       []byte(`{{`),
		"no attachments": []byte(`{"@id":"inv-1","requests~attach":[]}`),
		"bad base64": []byte(`{"@id":"inv-1","requests~attach":[
			{"data":{"base64":"!!!not-base64!!!"}}]}`),
		"empty attachment": []byte(`{"@id":"inv-1","requests~attach":[{"data":{}}]}`),
		"inner not json":   wrapInvitationRaw(t, "aGVsbG8"), // "hello"
		"unknown message type": wrapInvitation(t, map[string]interface{}{
			"@type": "https://didcomm.org/basicmessage/1.0/message",
		}),
		"offer without offers~attach": wrapInvitation(t, offerNoAttach),
	}

	for name, raw := range tests {
		_, err := ParseInvitation("", raw)
		require.Error(t, err, name)
		var serr *Error
		require.ErrorAs(t, err, &serr, name)
		require.Equal(t, ErrorMalformedInvitation, serr.ErrorCode, name)
	}
}

func wrapInvitationRaw(t *testing.T, base64Data string) []byte {
	bts, err := json.Marshal(map[string]interface{}{
		"@id": "inv-1",
		"requests~attach": []map[string]interface{}{{
			"data": map[string]string{"base64": base64Data},
		}},
	})
	require.NoError(t, err)
	return bts
}
