package walletclient

import (
	"encoding/binary"
	"encoding/json"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/digicred/walletgo/internal/common"
)

// Storage persists the wallet aggregate and the event log. Implementations
// store the wallet as a single document; partial updates are not part of the
// contract.
type Storage interface {
	EnsureStorageExists() error
	Close() error

	StoreWallet(wallet *Wallet) error
	LoadWallet() (wallet *Wallet, found bool, err error)
	DeleteWallet() error

	AddLogEntry(entry *LogEntry) error
	LoadNewestLogs(max int) ([]*LogEntry, error)
	LoadLogsBefore(index uint64, max int) ([]*LogEntry, error)
}

// storage is the bbolt-backed Storage implementation.
type storage struct {
	storagePath string
	db          *bbolt.DB
}

const databaseFile = "db"

// Bucketnames bbolt
const (
	walletBucket = "wallet" // Key/value: walletKey -> *Wallet
	logsBucket   = "logs"   // Key: (auto-increment index), value: *LogEntry
)

const walletKey = "wallet"

// NewBoltStorage returns bbolt-backed storage rooted at the given path.
func NewBoltStorage(storagePath string) Storage {
	return &storage{storagePath: storagePath}
}

func (s *storage) path(p string) string {
	return filepath.Join(s.storagePath, p)
}

// EnsureStorageExists initializes the wallet storage folder, ensuring that
// it is in a usable state. Setting it up in a properly protected location
// is the responsibility of the user.
func (s *storage) EnsureStorageExists() error {
	var err error
	if err = common.AssertPathExists(s.storagePath); err != nil {
		return err
	}
	s.db, err = bbolt.Open(s.path(databaseFile), 0600, &bbolt.Options{Timeout: 1 * time.Second})
	return err
}

func (s *storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *storage) txStore(tx *bbolt.Tx, key string, value interface{}, bucketName string) error {
	b, err := tx.CreateBucketIfNotExists([]byte(bucketName))
	if err != nil {
		return err
	}
	btsValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return b.Put([]byte(key), btsValue)
}

func (s *storage) txLoad(tx *bbolt.Tx, key string, dest interface{}, bucketName string) (found bool, err error) {
	b := tx.Bucket([]byte(bucketName))
	if b == nil {
		return false, nil
	}
	bts := b.Get([]byte(key))
	if bts == nil {
		return false, nil
	}
	return true, json.Unmarshal(bts, dest)
}

func (s *storage) load(key string, dest interface{}, bucketName string) (found bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		found, err = s.txLoad(tx, key, dest, bucketName)
		return err
	})
	return
}

func (s *storage) StoreWallet(wallet *Wallet) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return s.txStore(tx, walletKey, wallet, walletBucket)
	})
}

func (s *storage) LoadWallet() (*Wallet, bool, error) {
	wallet := &Wallet{}
	found, err := s.load(walletKey, wallet, walletBucket)
	if err != nil || !found {
		return nil, found, err
	}
	return wallet, true, nil
}

func (s *storage) DeleteWallet() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(walletBucket))
		if err != nil {
			return err
		}
		return b.Delete([]byte(walletKey))
	})
}

func (s *storage) AddLogEntry(entry *LogEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return s.txAddLogEntry(tx, entry)
	})
}

func (s *storage) txAddLogEntry(tx *bbolt.Tx, entry *LogEntry) error {
	b, err := tx.CreateBucketIfNotExists([]byte(logsBucket))
	if err != nil {
		return err
	}

	entry.ID, err = b.NextSequence()
	if err != nil {
		return err
	}
	k := s.logEntryKeyToBytes(entry.ID)
	v, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return b.Put(k, v)
}

func (s *storage) logEntryKeyToBytes(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// LoadLogsBefore returns all logs stored before the log with the given ID,
// sorted from new to old, with a maximum result length of 'max'.
func (s *storage) LoadLogsBefore(index uint64, max int) ([]*LogEntry, error) {
	return s.loadLogs(max, func(c *bbolt.Cursor) (key, value []byte) {
		c.Seek(s.logEntryKeyToBytes(index))
		return c.Prev()
	})
}

// LoadNewestLogs returns the latest logs sorted from new to old, with a
// maximum result length of 'max'.
func (s *storage) LoadNewestLogs(max int) ([]*LogEntry, error) {
	return s.loadLogs(max, func(c *bbolt.Cursor) (key, value []byte) {
		return c.Last()
	})
}

func (s *storage) loadLogs(max int, startAt func(*bbolt.Cursor) (key, value []byte)) ([]*LogEntry, error) {
	logs := make([]*LogEntry, 0, max)
	return logs, s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(logsBucket))
		if bucket == nil {
			return nil
		}
		c := bucket.Cursor()

		for k, v := startAt(c); k != nil && len(logs) < max; k, v = c.Prev() {
			var log LogEntry
			if err := json.Unmarshal(v, &log); err != nil {
				return err
			}

			logs = append(logs, &log)
		}
		return nil
	})
}
