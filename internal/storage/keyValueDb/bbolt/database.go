// Package bbolt implements keyValueDb.DB over a single-file bolt database.
// It is the default backend: the account space is small and read-heavy, and
// bolt's single-writer transactions match the engine's serialized apply loop.
package bbolt

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/openauction/auctiond/internal/storage/keyValueDb"
)

// bucketAccounts holds the whole account space.
var bucketAccounts = []byte("accounts")

type BBoltDB struct {
	db *bbolt.DB
}

// Open opens (or creates) the database file and its bucket.
func Open(path string) (*BBoltDB, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAccounts)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &BBoltDB{db: db}, nil
}

func (b *BBoltDB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if b.db == nil {
		return nil, keyValueDb.ErrDBClosed
	}

	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		got := tx.Bucket(bucketAccounts).Get(key)
		if got == nil {
			return keyValueDb.ErrKeyNotFound
		}
		// Copy out: bolt values are only valid during the transaction.
		value = make([]byte, len(got))
		copy(value, got)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *BBoltDB) Has(ctx context.Context, key []byte) (bool, error) {
	if b.db == nil {
		return false, keyValueDb.ErrDBClosed
	}

	var exists bool
	err := b.db.View(func(tx *bbolt.Tx) error {
		exists = tx.Bucket(bucketAccounts).Get(key) != nil
		return nil
	})
	return exists, err
}

func (b *BBoltDB) Write(ctx context.Context, key []byte, value []byte) error {
	if b.db == nil {
		return keyValueDb.ErrDBClosed
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).Put(key, value)
	})
}

func (b *BBoltDB) Delete(ctx context.Context, key []byte) error {
	if b.db == nil {
		return keyValueDb.ErrDBClosed
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).Delete(key)
	})
}

func (b *BBoltDB) Batch(ctx context.Context, ops []keyValueDb.BatchOperation) error {
	if b.db == nil {
		return keyValueDb.ErrDBClosed
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAccounts)
		for _, op := range ops {
			var err error
			switch op.Type {
			case keyValueDb.BatchPut:
				err = bucket.Put(op.Key, op.Value)
			case keyValueDb.BatchDelete:
				err = bucket.Delete(op.Key)
			default:
				return fmt.Errorf("%w: unknown batch operation type %d", keyValueDb.ErrBatchOperationFailed, op.Type)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BBoltDB) Iterator(ctx context.Context, start, end []byte) (keyValueDb.Iterator, error) {
	if b.db == nil {
		return nil, keyValueDb.ErrDBClosed
	}

	// Snapshot the range up front; ranges over the account space are small
	// and this keeps the read transaction short-lived.
	var keys, values [][]byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(bucketAccounts).Cursor()

		var k, v []byte
		if start == nil {
			k, v = cursor.First()
		} else {
			k, v = cursor.Seek(start)
		}
		for ; k != nil; k, v = cursor.Next() {
			if end != nil && bytes.Compare(k, end) >= 0 {
				break
			}
			keyCopy := make([]byte, len(k))
			copy(keyCopy, k)
			valCopy := make([]byte, len(v))
			copy(valCopy, v)
			keys = append(keys, keyCopy)
			values = append(values, valCopy)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &snapshotIterator{keys: keys, values: values, pos: -1}, nil
}

func (b *BBoltDB) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

type snapshotIterator struct {
	keys   [][]byte
	values [][]byte
	pos    int
}

func (it *snapshotIterator) Next() bool {
	if it.pos+1 >= len(it.keys) {
		return false
	}
	it.pos++
	return true
}

func (it *snapshotIterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.keys) {
		return nil
	}
	return it.keys[it.pos]
}

func (it *snapshotIterator) Value() []byte {
	if it.pos < 0 || it.pos >= len(it.values) {
		return nil
	}
	return it.values[it.pos]
}

func (it *snapshotIterator) Error() error { return nil }
func (it *snapshotIterator) Close() error { return nil }
