package walletclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/digicred/walletgo"
)

func testStorages(t *testing.T) map[string]Storage {
	return map[string]Storage{
		"bolt": NewBoltStorage(t.TempDir()),
		"file": NewFileStorage(t.TempDir()),
	}
}

func TestStorageWalletRoundtrip(t *testing.T) {
	for name, storage := range testStorages(t) {
		require.NoError(t, storage.EnsureStorageExists(), name)

		_, found, err := storage.LoadWallet()
		require.NoError(t, err, name)
		require.False(t, found, name)

		wallet := NewWallet(walletgo.AgentInfo{DID: "did:peer:agent"}, walletgo.TokenInfo{AccessToken: "tok"})
		wallet.AddCredential(&walletgo.CredentialRecord{ID: "cred-1", Format: walletgo.FormatIndy})
		require.NoError(t, storage.StoreWallet(wallet), name)

		loaded, found, err := storage.LoadWallet()
		require.NoError(t, err, name)
		require.True(t, found, name)
		require.Equal(t, wallet, loaded, name)

		require.NoError(t, storage.DeleteWallet(), name)
		_, found, err = storage.LoadWallet()
		require.NoError(t, err, name)
		require.False(t, found, name)

		require.NoError(t, storage.Close(), name)
	}
}

func TestStorageLogSequence(t *testing.T) {
	for name, storage := range testStorages(t) {
		require.NoError(t, storage.EnsureStorageExists(), name)

		now := walletgo.Timestamp(time.Now())
		for _, id := range []string{"cred-1", "cred-2", "cred-3"} {
			require.NoError(t, storage.AddLogEntry(&LogEntry{
				Type:         ActionCredentialAdded,
				Time:         now,
				CredentialID: id,
			}), name)
		}

		logs, err := storage.LoadNewestLogs(2)
		require.NoError(t, err, name)
		require.Len(t, logs, 2, name)
		require.Equal(t, "cred-3", logs[0].CredentialID, name)
		require.Equal(t, "cred-2", logs[1].CredentialID, name)

		// Paging continues from the oldest entry of the previous page.
		older, err := storage.LoadLogsBefore(logs[1].ID, 10)
		require.NoError(t, err, name)
		require.Len(t, older, 1, name)
		require.Equal(t, "cred-1", older[0].CredentialID, name)

		require.NoError(t, storage.Close(), name)
	}
}
