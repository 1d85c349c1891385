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

// Package storage provides an abstraction layer for the key-value storage
// backends that hold encrypted envelopes and persisted key material. It
// supports file-based, indexed (bbolt) and in-memory implementations with a
// common interface.
package storage

import (
	"io/fs"
)

// Backend defines the interface for storage backends.
// All implementations must be thread-safe.
type Backend interface {
	// Get retrieves the value for the given slot.
	// Returns ErrNotFound if the slot does not exist.
	Get(slot string) ([]byte, error)

	// Put stores the value for the given slot with optional metadata.
	// If the slot already exists, it will be overwritten.
	Put(slot string, value []byte, opts *Options) error

	// Delete removes the slot and its value from storage.
	// Returns ErrNotFound if the slot does not exist.
	Delete(slot string) error

	// List returns all slots with the given prefix.
	// If prefix is empty, all slots are returned.
	List(prefix string) ([]string, error)

	// Exists checks if a slot exists in storage.
	Exists(slot string) (bool, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Options contains optional parameters for storage operations.
type Options struct {
	// Path is the base path for file-based storage backends
	Path string

	// Permissions sets the file permissions for file-based storage
	Permissions fs.FileMode
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Path:        "",
		Permissions: 0600, // Read/write for owner only
	}
}
