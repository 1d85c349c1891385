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

package envelope

import "errors"

var (
	// ErrAuthenticationFailed is returned when the AEAD integrity check
	// fails on decrypt. This indicates a wrong key, a wrong password, or a
	// corrupted envelope; the cipher cannot distinguish between them.
	ErrAuthenticationFailed = errors.New("envelope: authentication failed")

	// ErrMalformedEnvelope is returned when an envelope cannot be decoded
	// (bad base64, or shorter than the nonce prefix).
	ErrMalformedEnvelope = errors.New("envelope: malformed envelope")

	// ErrInvalidKey is returned when key material has the wrong length for
	// the configured cipher suite.
	ErrInvalidKey = errors.New("envelope: invalid key length")

	// ErrUnsupportedSuite is returned when an unknown cipher suite is
	// requested.
	ErrUnsupportedSuite = errors.New("envelope: unsupported cipher suite")
)
