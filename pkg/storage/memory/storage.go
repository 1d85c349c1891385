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

// Package memory provides an in-memory implementation of the storage.Backend
// interface. It is the last-resort tier of the backend cascade: contents are
// scoped to the owning store instance and lost when it goes away. Each
// instance is explicitly constructed and injected, never shared module state.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/jeremyhahn/go-cryptostore/pkg/storage"
)

// Storage is an in-memory implementation of storage.Backend.
// It uses a map to store slot-value pairs and is fully thread-safe.
// All byte slices are defensively copied to prevent external modification.
type Storage struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// New creates a new in-memory storage backend.
// The returned storage is ready to use and implements storage.Backend.
func New() storage.Backend {
	return &Storage{
		data: make(map[string][]byte),
	}
}

// Get retrieves the value for the given slot.
// Returns storage.ErrNotFound if the slot does not exist.
// Returns storage.ErrClosed if the storage has been closed.
// The returned byte slice is a defensive copy and safe to modify.
func (s *Storage) Get(slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrClosed
	}

	value, exists := s.data[slot]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a defensive copy to prevent external modification
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Put stores the value for the given slot.
// If the slot already exists, it will be overwritten.
// The Options parameter is accepted for interface compatibility only.
// Returns storage.ErrClosed if the storage has been closed.
// The value byte slice is defensively copied to prevent external modification.
func (s *Storage) Put(slot string, value []byte, opts *storage.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	if slot == "" {
		return storage.ErrInvalidSlot
	}

	// Store a defensive copy to prevent external modification
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	s.data[slot] = valueCopy

	return nil
}

// Delete removes the slot and its value from storage.
// Returns storage.ErrNotFound if the slot does not exist.
// Returns storage.ErrClosed if the storage has been closed.
func (s *Storage) Delete(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	if _, exists := s.data[slot]; !exists {
		return storage.ErrNotFound
	}

	delete(s.data, slot)
	return nil
}

// List returns all slots with the given prefix.
// If prefix is empty, all slots are returned.
// Slots are returned in sorted order for consistent results.
// Returns storage.ErrClosed if the storage has been closed.
func (s *Storage) List(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrClosed
	}

	var slots []string
	for slot := range s.data {
		if prefix == "" || strings.HasPrefix(slot, prefix) {
			slots = append(slots, slot)
		}
	}

	// Sort for consistent ordering
	sort.Strings(slots)
	return slots, nil
}

// Exists checks if a slot exists in storage.
// Returns storage.ErrClosed if the storage has been closed.
func (s *Storage) Exists(slot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, storage.ErrClosed
	}

	_, exists := s.data[slot]
	return exists, nil
}

// Close releases any resources held by the backend and marks it as closed.
// After calling Close, all other operations will return storage.ErrClosed.
// Multiple calls to Close are safe and will return nil.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	// Clear the data map to help with garbage collection
	s.data = nil

	return nil
}
