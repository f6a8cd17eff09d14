package walletgo

import (
	"fmt"
	"strconv"
	"time"
)

// Role encodes which side of a credential or proof exchange the wallet plays.
type Role string

// ErrorCode classifies wallet protocol errors.
type ErrorCode string

// Error is a wallet protocol or decoding error.
type Error struct {
	Err error
	ErrorCode
	Info string
}

// Roles
const (
	RoleIssuer   = Role("issuer")
	RoleHolder   = Role("holder")
	RoleVerifier = Role("verifier")
	RoleProver   = Role("prover")
)

// Error codes
const (
	// Invitation envelope structurally unparseable
	ErrorMalformedInvitation = ErrorCode("malformedInvitation")
	// Declared attachment format not recognized
	ErrorUnknownFormat = ErrorCode("unknownFormat")
	// A required discriminant field is absent from a payload
	ErrorMissingField = ErrorCode("missingField")
	// Payload bytes are not valid JSON for the expected shape
	ErrorSerialization = ErrorCode("serializationError")
	// Error in HTTP communication
	ErrorTransport = ErrorCode("httpError")
	// Wallet storage failure
	ErrorStorage = ErrorCode("storageError")
)

// CredentialState is the lifecycle state of a credential exchange.
type CredentialState string

// Credential states
const (
	CredentialStateOutboundRequest = CredentialState("outbound-request")
	CredentialStateInboundRequest  = CredentialState("inbound-request")
	CredentialStateOutboundOffer   = CredentialState("outbound-offer")
	CredentialStateInboundOffer    = CredentialState("inbound-offer")
	CredentialStateAccepted        = CredentialState("accepted")
	CredentialStateRejected        = CredentialState("rejected")
	CredentialStateIssued          = CredentialState("issued")
	CredentialStateStored          = CredentialState("stored")
	CredentialStateFailed          = CredentialState("failed")
	CredentialStateDeleted         = CredentialState("deleted")
)

// VerificationState is the lifecycle state of a proof exchange.
type VerificationState string

// Verification states
const (
	VerificationStateOutboundRequest = VerificationState("outbound-request")
	VerificationStateInboundRequest  = VerificationState("inbound-request")
	VerificationStateAccepted        = VerificationState("accepted")
	VerificationStateRejected        = VerificationState("rejected")
	VerificationStateProofGenerated  = VerificationState("proof-generated")
	VerificationStateProofShared     = VerificationState("proof-shared")
	VerificationStatePassed          = VerificationState("passed")
	VerificationStateFailed          = VerificationState("failed")
	VerificationStateDeleted         = VerificationState("deleted")
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", string(e.ErrorCode), e.Err.Error())
	}
	if e.Info != "" {
		return fmt.Sprintf("%s: %s", string(e.ErrorCode), e.Info)
	}
	return string(e.ErrorCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when a payload lacks a required discriminant field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", string(ErrorMissingField), e.Field)
}

func missingField(name string) *Error {
	return &Error{ErrorCode: ErrorMissingField, Err: &MissingFieldError{Field: name}}
}

// Timestamp is a time.Time that marshals to Unix timestamps.
type Timestamp time.Time

func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	ts, err := strconv.Atoi(string(b))
	if err != nil {
		return err
	}
	*t = Timestamp(time.Unix(int64(ts), 0))
	return nil
}

func (t Timestamp) String() string {
	return fmt.Sprint(time.Time(t).Unix())
}
