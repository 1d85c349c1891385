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

import "errors"

var (
	// ErrClosed is returned when attempting to use a closed storage.
	ErrClosed = errors.New("storage: closed")

	// ErrNotFound is returned when a slot is not found.
	ErrNotFound = errors.New("storage: not found")

	// ErrInvalidSlot is returned when a slot name is invalid or empty.
	ErrInvalidSlot = errors.New("storage: invalid slot")

	// ErrInvalidData is returned when persisted data is invalid or malformed.
	ErrInvalidData = errors.New("storage: invalid data")

	// ErrBackendUnavailable is returned when no requested backend tier
	// could be opened.
	ErrBackendUnavailable = errors.New("storage: backend unavailable")
)
