package walletgo

// CredentialFormat identifies the credential technology carried by an
// invitation attachment. Every CredentialRecord carries exactly one format,
// and only that format's decoder is ever invoked on its payload.
type CredentialFormat string

// Credential formats
const (
	FormatIndy   = CredentialFormat("indy")
	FormatJSONLD = CredentialFormat("jsonld")
	FormatMDoc   = CredentialFormat("mdoc")
)

// VerificationRequestFormat identifies the proof request technology.
type VerificationRequestFormat string

// Verification request formats
const (
	VerificationFormatPresentationExchange = VerificationRequestFormat("presentation-exchange")
	VerificationFormatIndyProof            = VerificationRequestFormat("indy-proof")
	VerificationFormatMDocRequest          = VerificationRequestFormat("mdoc-request")
)

// Attachment format tags as declared on the wire by issuer and verifier agents.
const (
	FormatTagIndyOffer     = "hlindy-zkp-v1.0"
	FormatTagJSONLDDetail  = "aries/ld-proof-vc-detail@v1.0"
	FormatTagJSONLDProofVC = "aries/ld-proof-vc@v1.0"
	FormatTagMDoc          = "mso_mdoc"
	FormatTagIndyProofReq  = "hlindy/proof-req@v2.0"
	FormatTagPresExDef     = "dif/presentation-exchange/definitions@v1.0"
)

// credentialFormatTags maps each credential format to the set of attachment
// format tags it accepts.
var credentialFormatTags = map[CredentialFormat][]string{
	FormatIndy:   {FormatTagIndyOffer},
	FormatJSONLD: {FormatTagJSONLDDetail, FormatTagJSONLDProofVC},
	FormatMDoc:   {FormatTagMDoc},
}

var verificationFormatTags = map[VerificationRequestFormat][]string{
	VerificationFormatPresentationExchange: {FormatTagPresExDef},
	VerificationFormatIndyProof:            {FormatTagIndyProofReq},
	VerificationFormatMDocRequest:          {FormatTagMDoc},
}

// resolution order is fixed so that dispatch is deterministic
var credentialFormatOrder = []CredentialFormat{FormatIndy, FormatJSONLD, FormatMDoc}

var verificationFormatOrder = []VerificationRequestFormat{
	VerificationFormatPresentationExchange, VerificationFormatIndyProof, VerificationFormatMDocRequest,
}

// ResolveCredentialFormat maps the format tags declared by an invitation to a
// credential format. Dispatch is by set containment: the declared tags must
// all be accepted by the resolved format. Unrecognized tags yield false, not
// an error; callers must treat such invitations as non-decodable.
func ResolveCredentialFormat(declared []string) (CredentialFormat, bool) {
	if len(declared) == 0 {
		return "", false
	}
	for _, format := range credentialFormatOrder {
		if containsAll(credentialFormatTags[format], declared) {
			return format, true
		}
	}
	return "", false
}

// ResolveVerificationFormat is the proof request counterpart of
// ResolveCredentialFormat.
func ResolveVerificationFormat(declared []string) (VerificationRequestFormat, bool) {
	if len(declared) == 0 {
		return "", false
	}
	for _, format := range verificationFormatOrder {
		if containsAll(verificationFormatTags[format], declared) {
			return format, true
		}
	}
	return "", false
}

// AttachmentFormatTag returns the canonical wire tag used when re-serializing
// a record of this format.
func (f CredentialFormat) AttachmentFormatTag() string {
	if tags := credentialFormatTags[f]; len(tags) > 0 {
		return tags[0]
	}
	return ""
}

// AttachmentFormatTag returns the canonical wire tag for the request format.
func (f VerificationRequestFormat) AttachmentFormatTag() string {
	if tags := verificationFormatTags[f]; len(tags) > 0 {
		return tags[0]
	}
	return ""
}

func containsAll(accepted, declared []string) bool {
	for _, tag := range declared {
		if !stringsContains(accepted, tag) {
			return false
		}
	}
	return true
}

func stringsContains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
