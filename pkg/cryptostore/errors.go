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

package cryptostore

import "errors"

var (
	// ErrNoKey is returned by Decrypt when no key has ever been persisted
	// and no password was supplied to derive one from.
	ErrNoKey = errors.New("cryptostore: no key available")

	// ErrInvalidRecordKey is returned when a record key is empty.
	ErrInvalidRecordKey = errors.New("cryptostore: invalid record key")

	// ErrInvalidBackup is returned when a backup document is nil or
	// carries an unknown format tag.
	ErrInvalidBackup = errors.New("cryptostore: invalid backup document")

	// ErrInvalidConfig is returned for unusable construction-time
	// options, e.g. a cipher/key-length combination the suite rejects.
	ErrInvalidConfig = errors.New("cryptostore: invalid configuration")
)
