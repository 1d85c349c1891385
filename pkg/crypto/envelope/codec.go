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

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// EncodeValue converts a value to the plaintext string fed to the cipher.
// Strings pass through unchanged; everything else is JSON-encoded.
func EncodeValue(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("envelope: value is not JSON-serializable: %w", err)
	}
	return string(data), nil
}

// DecodeValue reverses EncodeValue: the decrypted string is JSON-parsed
// when possible, otherwise returned as the raw string. The envelope
// carries no type tag, so a plain string that happens to be valid JSON
// comes back as JSON.
func DecodeValue(plaintext string) any {
	if !utf8.ValidString(plaintext) {
		return plaintext
	}

	var v any
	if err := json.Unmarshal([]byte(plaintext), &v); err != nil {
		return plaintext
	}
	return v
}
