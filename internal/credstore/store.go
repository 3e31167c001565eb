// Package credstore persists the API token and account id between runs.
//
// The underlying Badger database is opened and closed around every access,
// so no lock is held between calls. Badger's directory lock makes a
// concurrent open from another process fail instead of corrupting data.
package credstore

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
)

type Key string

const (
	KeyToken     Key = "token"
	KeyAccountID Key = "account_id"
)

var ErrUnknownKey = errors.New("unknown credentials key")

type OpenOptions struct {
	Path          string
	EncryptionKey []byte // 16, 24 or 32 bytes; nil disables encryption.
}

type Store struct {
	mu   sync.Mutex
	opts OpenOptions
}

func Open(opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("credstore: path is required")
	}
	switch len(opts.EncryptionKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("credstore: invalid encryption key length %d", len(opts.EncryptionKey))
	}
	return &Store{opts: opts}, nil
}

// Load returns the persisted value and whether it was ever set.
func (s *Store) Load(key Key) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		value string
		found bool
	)
	err := s.withDB(func(db *badger.DB) error {
		return db.View(func(txn *badger.Txn) error {
			var err error
			value, found, err = get(txn, key)
			return err
		})
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// Save persists value if it is not empty and returns the value actually
// stored under the key afterwards ("" if the key was never set).
func (s *Store) Save(key Key, value string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var stored string
	err := s.withDB(func(db *badger.DB) error {
		return db.Update(func(txn *badger.Txn) error {
			if value != "" {
				if err := txn.Set([]byte(key), []byte(value)); err != nil {
					return err
				}
				stored = value
				return nil
			}

			v, _, err := get(txn, key)
			stored = v
			return err
		})
	})
	if err != nil {
		return "", err
	}
	return stored, nil
}

func (s *Store) withDB(f func(db *badger.DB) error) error {
	bopts := badger.DefaultOptions(s.opts.Path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if len(s.opts.EncryptionKey) > 0 {
		bopts = bopts.
			WithEncryptionKey(s.opts.EncryptionKey).
			WithIndexCacheSize(1 << 20)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return fmt.Errorf("credstore: open %q: %w", s.opts.Path, err)
	}

	if err := f(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("credstore: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("credstore: close: %w", err)
	}
	return nil
}

func get(txn *badger.Txn, key Key) (string, bool, error) {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	var v string
	err = item.Value(func(val []byte) error {
		v = string(val)
		return nil
	})
	return v, err == nil, err
}

func validateKey(key Key) error {
	switch key {
	case KeyToken, KeyAccountID:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownKey, string(key))
}

// ParseKey expects 32 bytes as hex or base64. Returns nil if input is empty.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x")); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("key must be base64(32 bytes) or hex(32 bytes)")
}
