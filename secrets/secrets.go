// Package secrets resolves the bearer tokens and user ids the search variants send upstream.
package secrets

import (
	"errors"
	"strings"
)

type Store interface {
	Get(key string) (string, error)
}

// Chain asks each store in order and returns the first value found.
type Chain []Store

func (c Chain) Get(key string) (string, error) {
	for _, store := range c {
		if store == nil {
			continue
		}
		value, err := store.Get(key)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}

	return "", &NotFoundError{Key: key}
}

// Lookup returns the secret stored under key, or "" when it is absent or unreadable.
func Lookup(store Store, key string) string {
	if store == nil {
		return ""
	}
	value, err := store.Get(key)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(value)
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return &InvalidKeyError{Key: key, Reason: "key cannot be empty"}
	}

	return nil
}
