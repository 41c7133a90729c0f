package receipt

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const receiptBucketName = "receipts"

// DB defines the interface for the local receipt archive
type DB interface {
	// SaveReceipt saves a processed receipt to the archive
	SaveReceipt(processed *ProcessedReceipt) error

	// GetReceipt retrieves a processed receipt by ID
	GetReceipt(id string) (*ProcessedReceipt, error)

	// ListReceipts returns all processed receipts
	ListReceipts() ([]*ProcessedReceipt, error)

	// DeleteReceipt removes a processed receipt from the archive
	DeleteReceipt(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(receiptBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveReceipt saves a processed receipt to the archive
func (b *BoltDB) SaveReceipt(processed *ProcessedReceipt) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucketName))
		data, err := json.Marshal(processed)
		if err != nil {
			return fmt.Errorf("marshaling receipt: %w", err)
		}
		return bucket.Put([]byte(processed.ID), data)
	})
}

// GetReceipt retrieves a processed receipt by ID
func (b *BoltDB) GetReceipt(id string) (*ProcessedReceipt, error) {
	var processed *ProcessedReceipt
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("receipt not found: %s", id)
		}
		return json.Unmarshal(data, &processed)
	})
	if err != nil {
		return nil, err
	}
	return processed, nil
}

// ListReceipts returns all processed receipts
func (b *BoltDB) ListReceipts() ([]*ProcessedReceipt, error) {
	receipts := make([]*ProcessedReceipt, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var processed ProcessedReceipt
			if err := json.Unmarshal(v, &processed); err != nil {
				return fmt.Errorf("unmarshaling receipt: %w", err)
			}
			receipts = append(receipts, &processed)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// DeleteReceipt removes a processed receipt from the archive
func (b *BoltDB) DeleteReceipt(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucketName))
		return bucket.Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
