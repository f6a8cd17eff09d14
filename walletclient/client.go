// Package walletclient implements the holder-side wallet: the persisted
// aggregate of credentials, verifications, connections and token state,
// together with the storage and event log behind it.
package walletclient

import (
	"sync"
	"time"

	"github.com/go-errors/errors"

	"github.com/digicred/walletgo"
)

// Client wraps the wallet aggregate with storage. Every mutation is applied
// to the in-memory wallet first and persisted immediately after; the event
// log records what happened. Client serializes its mutations, so callers do
// not need their own locking.
type Client struct {
	wallet  *Wallet
	storage Storage

	sync.Mutex
}

// New opens storage at the given path and loads the wallet if one was
// persisted before. A wallet only comes into existence through Register.
func New(storagePath string) (*Client, error) {
	return NewWithStorage(NewBoltStorage(storagePath))
}

// NewWithStorage is New with caller-supplied storage.
func NewWithStorage(storage Storage) (*Client, error) {
	client := &Client{storage: storage}
	if err := storage.EnsureStorageExists(); err != nil {
		return nil, err
	}
	wallet, found, err := storage.LoadWallet()
	if err != nil {
		return nil, &walletgo.Error{ErrorCode: walletgo.ErrorStorage, Err: err}
	}
	if found {
		if err := wallet.Validate(); err != nil {
			return nil, &walletgo.Error{ErrorCode: walletgo.ErrorStorage, Err: err, Info: "stored wallet is inconsistent"}
		}
		client.wallet = wallet
	}
	return client, nil
}

// Close closes the underlying storage.
func (client *Client) Close() error {
	return client.storage.Close()
}

// Registered reports whether a wallet exists.
func (client *Client) Registered() bool {
	client.Lock()
	defer client.Unlock()
	return client.wallet != nil
}

// Wallet returns the live aggregate. Callers must not mutate it; mutations
// go through the Client so they are persisted and logged.
func (client *Client) Wallet() *Wallet {
	client.Lock()
	defer client.Unlock()
	return client.wallet
}

// Register creates the wallet after successful agent registration and
// persists it.
func (client *Client) Register(agent walletgo.AgentInfo, token walletgo.TokenInfo) error {
	client.Lock()
	defer client.Unlock()

	if client.wallet != nil {
		return errors.New("wallet already registered")
	}
	client.wallet = NewWallet(agent, token)
	return client.persist(&LogEntry{Type: ActionRegistration, Time: walletgo.Timestamp(time.Now())})
}

// AddCredential appends the record and persists.
func (client *Client) AddCredential(record *walletgo.CredentialRecord) error {
	client.Lock()
	defer client.Unlock()

	if err := client.assertRegistered(); err != nil {
		return err
	}
	client.wallet.AddCredential(record)
	return client.persist(&LogEntry{
		Type:          ActionCredentialAdded,
		Time:          walletgo.Timestamp(time.Now()),
		CredentialID:  record.ID,
		DocumentTypes: record.DocumentTypes,
	})
}

// RemoveCredential removes every credential with the given id and persists.
// Removing an unknown id is an error.
func (client *Client) RemoveCredential(id string) error {
	client.Lock()
	defer client.Unlock()

	if err := client.assertRegistered(); err != nil {
		return err
	}
	if !client.wallet.RemoveCredential(id) {
		return errors.Errorf("unknown credential %s", id)
	}
	return client.persist(&LogEntry{
		Type:         ActionCredentialRemoved,
		Time:         walletgo.Timestamp(time.Now()),
		CredentialID: id,
	})
}

// AddVerification appends the record and persists.
func (client *Client) AddVerification(record *walletgo.VerificationRecord) error {
	client.Lock()
	defer client.Unlock()

	if err := client.assertRegistered(); err != nil {
		return err
	}
	client.wallet.AddVerification(record)
	return client.persist(&LogEntry{
		Type:           ActionVerificationAdded,
		Time:           walletgo.Timestamp(time.Now()),
		VerificationID: record.ID,
		DocumentTypes:  record.DocumentTypes,
	})
}

// SetGeneratedProof stores a generated proof preview and persists. The
// preview stays out of the verification list until shared.
func (client *Client) SetGeneratedProof(record *walletgo.VerificationRecord) error {
	client.Lock()
	defer client.Unlock()

	if err := client.assertRegistered(); err != nil {
		return err
	}
	record.Transition(walletgo.VerificationStateProofGenerated, time.Now())
	client.wallet.SetGeneratedProof(record)
	return client.persist(&LogEntry{
		Type:           ActionProofGenerated,
		Time:           walletgo.Timestamp(time.Now()),
		VerificationID: record.ID,
	})
}

// ShareGeneratedProof promotes the generated proof into the verification
// list as shared. Without a pending proof it is an error.
func (client *Client) ShareGeneratedProof() error {
	client.Lock()
	defer client.Unlock()

	if err := client.assertRegistered(); err != nil {
		return err
	}
	proof := client.wallet.GeneratedProof
	if proof == nil {
		return errors.New("no generated proof to share")
	}
	proof.Transition(walletgo.VerificationStateProofShared, time.Now())
	if existing := client.wallet.Verification(proof.ID); existing == nil {
		client.wallet.AddVerification(proof)
	} else {
		*existing = *proof
	}
	client.wallet.DiscardGeneratedProof()
	return client.persist(&LogEntry{
		Type:           ActionProofShared,
		Time:           walletgo.Timestamp(time.Now()),
		VerificationID: proof.ID,
	})
}

// DiscardGeneratedProof drops a pending proof preview, if any, and persists.
func (client *Client) DiscardGeneratedProof() error {
	client.Lock()
	defer client.Unlock()

	if err := client.assertRegistered(); err != nil {
		return err
	}
	client.wallet.DiscardGeneratedProof()
	return client.persist(nil)
}

// TransitionVerification moves a stored verification to a new state and
// persists.
func (client *Client) TransitionVerification(id string, state walletgo.VerificationState) error {
	client.Lock()
	defer client.Unlock()

	if err := client.assertRegistered(); err != nil {
		return err
	}
	record := client.wallet.Verification(id)
	if record == nil {
		return errors.Errorf("unknown verification %s", id)
	}
	record.Transition(state, time.Now())
	return client.persist(&LogEntry{
		Type:           ActionVerificationStated,
		Time:           walletgo.Timestamp(time.Now()),
		VerificationID: id,
		State:          state,
	})
}

// RefreshToken replaces the agent token wholesale and persists.
func (client *Client) RefreshToken(token walletgo.TokenInfo) error {
	client.Lock()
	defer client.Unlock()

	if err := client.assertRegistered(); err != nil {
		return err
	}
	client.wallet.RefreshToken(token)
	return client.persist(&LogEntry{Type: ActionTokenRefreshed, Time: walletgo.Timestamp(time.Now())})
}

// Reset destroys the wallet. The event log is kept: it records that the
// wallet existed, not its contents.
func (client *Client) Reset() error {
	client.Lock()
	defer client.Unlock()

	client.wallet = nil
	return client.storage.DeleteWallet()
}

// LoadNewestLogs returns the latest event log entries, newest first.
func (client *Client) LoadNewestLogs(max int) ([]*LogEntry, error) {
	return client.storage.LoadNewestLogs(max)
}

// assertRegistered must be called with the lock held.
func (client *Client) assertRegistered() error {
	if client.wallet == nil {
		return errors.New("wallet not registered")
	}
	return nil
}

// persist stores the wallet and appends the log entry, if any. Must be
// called with the lock held and after the in-memory mutation succeeded.
func (client *Client) persist(entry *LogEntry) error {
	if err := client.storage.StoreWallet(client.wallet); err != nil {
		return &walletgo.Error{ErrorCode: walletgo.ErrorStorage, Err: err}
	}
	if entry == nil {
		return nil
	}
	if err := client.storage.AddLogEntry(entry); err != nil {
		return &walletgo.Error{ErrorCode: walletgo.ErrorStorage, Err: err}
	}
	return nil
}
