// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptostore.
//
// go-cryptostore is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package indexed provides a bbolt-backed implementation of the
// storage.Backend interface. It is the middle tier of the backend cascade:
// a transactional, single-file store used when the plain file store is not
// writable. Every operation runs inside its own bbolt transaction, so a
// reader can observe the old or new value of a slot but never a torn one.
package indexed

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/jeremyhahn/go-cryptostore/pkg/storage"
	bolt "go.etcd.io/bbolt"
)

// bucketName is the single bucket holding all slots.
var bucketName = []byte("cryptostore")

// Storage is a bbolt-backed implementation of storage.Backend.
type Storage struct {
	mu     sync.RWMutex
	db     *bolt.DB
	closed bool
}

// New opens (creating if necessary) the bbolt database at the given path
// and ensures the cryptostore bucket exists.
func New(path string) (storage.Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("indexed storage: database path cannot be empty")
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("indexed storage: failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("indexed storage: failed to create bucket: %w", err)
	}

	return &Storage{db: db}, nil
}

// Get retrieves the value for the given slot.
// Returns storage.ErrNotFound if the slot does not exist.
// The returned byte slice is a copy and safe to retain after the call.
func (s *Storage) Get(slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrClosed
	}

	var result []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketName).Get([]byte(slot))
		if value == nil {
			return storage.ErrNotFound
		}
		// bbolt values are only valid inside the transaction
		result = make([]byte, len(value))
		copy(result, value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Put stores the value for the given slot.
// If the slot already exists, it will be overwritten.
func (s *Storage) Put(slot string, value []byte, opts *storage.Options) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storage.ErrClosed
	}

	if slot == "" {
		return storage.ErrInvalidSlot
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(slot), value)
	})
	if err != nil {
		return fmt.Errorf("indexed storage: failed to write slot %q: %w", slot, err)
	}

	return nil
}

// Delete removes the slot and its value from storage.
// Returns storage.ErrNotFound if the slot does not exist.
func (s *Storage) Delete(slot string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storage.ErrClosed
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get([]byte(slot)) == nil {
			return storage.ErrNotFound
		}
		return b.Delete([]byte(slot))
	})
	if err == storage.ErrNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("indexed storage: failed to delete slot %q: %w", slot, err)
	}

	return nil
}

// List returns all slots with the given prefix.
// If prefix is empty, all slots are returned.
// Slots are returned in bbolt's byte order, which is sorted.
func (s *Storage) List(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrClosed
	}

	slots := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			slots = append(slots, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("indexed storage: failed to list slots: %w", err)
	}

	return slots, nil
}

// Exists checks if a slot exists in storage.
func (s *Storage) Exists(slot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, storage.ErrClosed
	}

	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(bucketName).Get([]byte(slot)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("indexed storage: failed to check slot %q: %w", slot, err)
	}

	return exists, nil
}

// Close closes the underlying database.
// After calling Close, all other operations will return storage.ErrClosed.
// Multiple calls to Close are safe and will return nil.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return s.db.Close()
}
