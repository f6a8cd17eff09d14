// Package walletgo normalizes digital-credential exchange artifacts produced
// by heterogeneous issuer and verifier agents into one typed domain model a
// wallet can store, preview and act on. It unwraps DIDComm-style invitation
// envelopes, detects the credential technology from self-describing format
// tags (Indy/AnonCreds, JSON-LD Verifiable Credentials, ISO mdoc), decodes
// payloads through format-specific rules, and projects raw claim bags into
// display-ready pairs. The walletclient subpackage holds the persisted wallet
// aggregate and its storage.
package walletgo
