package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/meghashyamc/searchform/logger"
	bolt "go.etcd.io/bbolt"
)

// BoltStore is a local secrets vault for machines without a secrets file.
type BoltStore struct {
	store  *bolt.DB
	logger logger.Logger
}

const secretsBucket = "secrets"

var errBucketNotFound = errors.New("bucket not found")

func NewBoltStore(logger logger.Logger, path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		logger.Error("failed to create secrets vault directory", "err", err.Error(), "path", path)
		return nil, fmt.Errorf("failed to create secrets vault directory: %w", err)
	}

	store, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		logger.Error("failed to open secrets vault", "err", err.Error(), "path", path)
		return nil, fmt.Errorf("failed to open secrets vault: %w", err)
	}

	boltStore := &BoltStore{
		store:  store,
		logger: logger,
	}

	if err := boltStore.initBucket(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return boltStore, nil
}

func (b *BoltStore) initBucket() error {
	return b.store.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(secretsBucket))
		if err != nil {
			b.logger.Error("failed to create bucket", "err", err.Error())
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return nil
	})
}

func (b *BoltStore) Set(key string, value string) error {
	if err := validateKey(key); err != nil {
		b.logger.Error("key cannot be empty", "key", key)
		return err
	}

	return b.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(secretsBucket))
		if bucket == nil {
			b.logger.Error("bucket not found", "bucket", secretsBucket)
			return errBucketNotFound
		}

		if err := bucket.Put([]byte(key), []byte(value)); err != nil {
			b.logger.Error("failed to set secret", "key", key, "err", err.Error())
			return fmt.Errorf("failed to set secret %s: %w", key, err)
		}

		return nil
	})
}

func (b *BoltStore) Get(key string) (string, error) {
	if err := validateKey(key); err != nil {
		b.logger.Error("key cannot be empty", "key", key)
		return "", err
	}

	var value []byte
	err := b.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(secretsBucket))
		if bucket == nil {
			b.logger.Error("bucket not found", "bucket", secretsBucket)
			return errBucketNotFound
		}

		v := bucket.Get([]byte(key))
		if v == nil {
			return &NotFoundError{Key: key}
		}

		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			b.logger.Debug("secret not found in vault", "key", key)
		}
		return "", err
	}

	return string(value), nil
}

func (b *BoltStore) Delete(key string) error {
	if err := validateKey(key); err != nil {
		b.logger.Error("key cannot be empty", "key", key)
		return err
	}

	return b.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(secretsBucket))
		if bucket == nil {
			b.logger.Error("bucket not found", "bucket", secretsBucket)
			return errBucketNotFound
		}

		if bucket.Get([]byte(key)) == nil {
			return &NotFoundError{Key: key}
		}

		if err := bucket.Delete([]byte(key)); err != nil {
			b.logger.Error("failed to delete secret", "key", key, "err", err.Error())
			return fmt.Errorf("failed to delete secret %s: %w", key, err)
		}

		return nil
	})
}

// Keys lists the stored secret names in sorted order. Values are never listed.
func (b *BoltStore) Keys() ([]string, error) {
	var keys []string
	err := b.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(secretsBucket))
		if bucket == nil {
			return errBucketNotFound
		}

		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		b.logger.Error("failed to list secrets", "err", err.Error())
		return nil, err
	}
	sort.Strings(keys)

	return keys, nil
}

func (b *BoltStore) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
