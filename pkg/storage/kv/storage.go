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

// Package kv provides a synchronous file-per-slot implementation of the
// storage.Backend interface. It is the preferred tier of the backend
// cascade. The filesystem is abstracted through afero so tests can run
// against an in-memory filesystem.
package kv

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jeremyhahn/go-cryptostore/pkg/storage"
	"github.com/spf13/afero"
)

const (
	// Default directory permissions (owner rwx only)
	defaultDirPerms = 0700

	// File permissions based on slot prefix
	keysFilePerms = 0600 // keys/* = owner rw only
	defaultPerms  = 0600 // default = owner rw only
)

// Storage is a file-based implementation of storage.Backend.
// It stores slot-value pairs as files in a directory hierarchy and is
// thread-safe.
type Storage struct {
	mu      sync.RWMutex
	fs      afero.Fs
	rootDir string
}

// New creates a new kv storage backend rooted at the specified directory
// on the host filesystem. The root directory is created with 0700
// permissions if it doesn't exist.
func New(rootDir string) (storage.Backend, error) {
	return NewWithFs(afero.NewOsFs(), rootDir)
}

// NewWithFs creates a new kv storage backend on the given afero filesystem.
func NewWithFs(fsys afero.Fs, rootDir string) (storage.Backend, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("kv storage: root directory cannot be empty")
	}

	// Create root directory if it doesn't exist
	if err := fsys.MkdirAll(rootDir, defaultDirPerms); err != nil {
		return nil, fmt.Errorf("kv storage: failed to create root directory: %w", err)
	}

	return &Storage{
		fs:      fsys,
		rootDir: rootDir,
	}, nil
}

// Get retrieves the value for the given slot.
// Returns storage.ErrNotFound if the slot does not exist.
func (s *Storage) Get(slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath, err := s.slotToPath(slot)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("kv storage: failed to read slot %q: %w", slot, err)
	}

	return data, nil
}

// Put stores the value for the given slot.
// If the slot already exists, it will be overwritten.
// File permissions are determined by the slot prefix:
//   - keys/* = 0600 (owner rw only)
//   - default = 0600 (owner rw only)
func (s *Storage) Put(slot string, value []byte, opts *storage.Options) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath, err := s.slotToPath(slot)
	if err != nil {
		return err
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(filePath)
	if err := s.fs.MkdirAll(dir, defaultDirPerms); err != nil {
		return fmt.Errorf("kv storage: failed to create directory for slot %q: %w", slot, err)
	}

	perms := s.getFilePermissions(slot, opts)

	if err := afero.WriteFile(s.fs, filePath, value, perms); err != nil {
		return fmt.Errorf("kv storage: failed to write slot %q: %w", slot, err)
	}

	return nil
}

// Delete removes the slot and its value from storage.
// Returns storage.ErrNotFound if the slot does not exist.
func (s *Storage) Delete(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath, err := s.slotToPath(slot)
	if err != nil {
		return err
	}

	if _, err := s.fs.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("kv storage: failed to stat slot %q: %w", slot, err)
	}

	if err := s.fs.Remove(filePath); err != nil {
		return fmt.Errorf("kv storage: failed to delete slot %q: %w", slot, err)
	}

	return nil
}

// List returns all slots with the given prefix.
// If prefix is empty, all slots are returned.
// Slots are returned in sorted order.
func (s *Storage) List(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]string, 0)

	err := afero.Walk(s.fs, s.rootDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if info.IsDir() {
			return nil
		}

		slot, err := s.pathToSlot(path)
		if err != nil {
			return err
		}

		if prefix == "" || strings.HasPrefix(slot, prefix) {
			slots = append(slots, slot)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("kv storage: failed to list slots: %w", err)
	}

	// Sort for consistent ordering
	sort.Strings(slots)
	return slots, nil
}

// Exists checks if a slot exists in storage.
func (s *Storage) Exists(slot string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath, err := s.slotToPath(slot)
	if err != nil {
		return false, err
	}

	_, err = s.fs.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("kv storage: failed to check slot %q: %w", slot, err)
	}

	return true, nil
}

// Close releases any resources held by the backend.
// For kv storage, this is a no-op but provided for interface compliance.
func (s *Storage) Close() error {
	return nil
}

// slotToPath converts a storage slot to a file path, validating the slot
// name first.
func (s *Storage) slotToPath(slot string) (string, error) {
	if err := validateSlot(slot); err != nil {
		return "", err
	}
	return filepath.Join(s.rootDir, slot), nil
}

// validateSlot validates slot names. Slots are internal: path separators
// are allowed for namespacing, traversal is not.
func validateSlot(slot string) error {
	if slot == "" {
		return storage.ErrInvalidSlot
	}

	// Check for null bytes
	if strings.Contains(slot, "\x00") {
		return fmt.Errorf("%w: contains null byte", storage.ErrInvalidSlot)
	}

	// Check for absolute paths
	if filepath.IsAbs(slot) {
		return fmt.Errorf("%w: absolute path", storage.ErrInvalidSlot)
	}

	// Reject any traversal segment
	cleaned := filepath.Clean(slot)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) ||
		strings.Contains(cleaned, string(filepath.Separator)+".."+string(filepath.Separator)) ||
		strings.HasSuffix(cleaned, string(filepath.Separator)+"..") {
		return fmt.Errorf("%w: path traversal attempt", storage.ErrInvalidSlot)
	}

	return nil
}

// pathToSlot converts a file path back to a storage slot.
func (s *Storage) pathToSlot(path string) (string, error) {
	rel, err := filepath.Rel(s.rootDir, path)
	if err != nil {
		return "", fmt.Errorf("kv storage: failed to convert path to slot: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// getFilePermissions determines the file permissions based on the slot prefix.
func (s *Storage) getFilePermissions(slot string, opts *storage.Options) fs.FileMode {
	// If options specify permissions, use them
	if opts != nil && opts.Permissions != 0 {
		return opts.Permissions
	}

	if strings.HasPrefix(slot, storage.KeyPrefix) {
		return keysFilePerms
	}
	return defaultPerms
}
