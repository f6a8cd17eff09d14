package walletclient

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/digicred/walletgo/internal/common"
)

// fileStorage is a plain-file Storage for environments without bbolt, such
// as tests and throwaway CLI runs. The wallet lives in a single JSON file
// written atomically; logs live in a sibling file as a JSON array.
type fileStorage struct {
	storagePath string
}

const (
	walletFile = "wallet.json"
	logsFile   = "logs.json"
)

// NewFileStorage returns file-based storage rooted at the given path.
func NewFileStorage(storagePath string) Storage {
	return &fileStorage{storagePath: storagePath}
}

func (f *fileStorage) path(p string) string {
	return filepath.Join(f.storagePath, p)
}

func (f *fileStorage) EnsureStorageExists() error {
	return common.EnsureDirectoryExists(f.storagePath)
}

func (f *fileStorage) Close() error {
	return nil
}

func (f *fileStorage) StoreWallet(wallet *Wallet) error {
	bts, err := wallet.Serialize()
	if err != nil {
		return err
	}
	return common.SaveFile(f.path(walletFile), bts)
}

func (f *fileStorage) LoadWallet() (*Wallet, bool, error) {
	bts, err := os.ReadFile(f.path(walletFile))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	wallet, err := ParseWallet(bts)
	if err != nil {
		return nil, true, err
	}
	return wallet, true, nil
}

func (f *fileStorage) DeleteWallet() error {
	err := os.Remove(f.path(walletFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *fileStorage) AddLogEntry(entry *LogEntry) error {
	logs, err := f.loadAll()
	if err != nil {
		return err
	}
	entry.ID = uint64(len(logs)) + 1
	logs = append(logs, entry)
	bts, err := json.Marshal(logs)
	if err != nil {
		return err
	}
	return common.SaveFile(f.path(logsFile), bts)
}

func (f *fileStorage) LoadNewestLogs(max int) ([]*LogEntry, error) {
	logs, err := f.loadAll()
	if err != nil {
		return nil, err
	}
	return newestFirst(logs, uint64(len(logs))+1, max), nil
}

func (f *fileStorage) LoadLogsBefore(index uint64, max int) ([]*LogEntry, error) {
	logs, err := f.loadAll()
	if err != nil {
		return nil, err
	}
	return newestFirst(logs, index, max), nil
}

func (f *fileStorage) loadAll() ([]*LogEntry, error) {
	bts, err := os.ReadFile(f.path(logsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var logs []*LogEntry
	return logs, json.Unmarshal(bts, &logs)
}

// newestFirst returns at most max entries with ID < before, newest first.
func newestFirst(logs []*LogEntry, before uint64, max int) []*LogEntry {
	result := make([]*LogEntry, 0, max)
	for i := len(logs) - 1; i >= 0 && len(result) < max; i-- {
		if logs[i].ID < before {
			result = append(result, logs[i])
		}
	}
	return result
}
