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

package storage

import (
	"errors"
	"strings"
)

const (
	// RecordPrefix is the namespace under which encrypted envelopes are stored.
	RecordPrefix = "records/"

	// KeyPrefix is the namespace under which key material is stored.
	KeyPrefix = "keys/"
)

// RecordPath returns the storage slot for an encrypted record with the
// given record key. The path follows the convention: records/{key}
func RecordPath(recordKey string) string {
	return RecordPrefix + recordKey
}

// KeySlotPath returns the storage slot for the key material with the given
// slot name. The path follows the convention: keys/{name}.key
func KeySlotPath(name string) string {
	return KeyPrefix + name + ".key"
}

// ListRecords retrieves all record keys from the backend by listing all
// slots with the records/ prefix and stripping it.
// Returns an empty slice if no records exist.
// Returns an error if the backend operation fails.
func ListRecords(backend Backend) ([]string, error) {
	slots, err := backend.List(RecordPrefix)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(slots))
	for _, s := range slots {
		key := strings.TrimPrefix(s, RecordPrefix)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// RemoveAll deletes every record in the records/ namespace plus the named
// key slot. Individual delete failures do not abort the sweep; the first
// non-NotFound error is returned after all slots have been attempted, so a
// failure on one slot cannot prevent clearing the others.
func RemoveAll(backend Backend, keySlot string) error {
	var firstErr error

	slots, err := backend.List(RecordPrefix)
	if err != nil {
		firstErr = err
	} else {
		for _, s := range slots {
			if err := backend.Delete(s); err != nil && !errors.Is(err, ErrNotFound) {
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}

	if err := backend.Delete(KeySlotPath(keySlot)); err != nil && !errors.Is(err, ErrNotFound) {
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
