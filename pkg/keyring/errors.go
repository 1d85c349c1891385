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

package keyring

import "errors"

var (
	// ErrInvalidKeyBits indicates a key bit length outside 128/192/256.
	// This is a configuration error, not a runtime-recoverable one.
	ErrInvalidKeyBits = errors.New("keyring: invalid key bit length")

	// ErrInvalidKeyMaterial indicates raw key bytes of an unusable length.
	ErrInvalidKeyMaterial = errors.New("keyring: invalid key material")

	// ErrCorruptKeySlot indicates the persisted key slot holds data that
	// cannot be decoded back into key material.
	ErrCorruptKeySlot = errors.New("keyring: corrupt key slot")

	// ErrStorageRequired indicates no storage backend was configured.
	ErrStorageRequired = errors.New("keyring: storage backend is required")
)
