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

package kdf

// XORFoldAdapter implements the Adapter interface with a positional
// XOR-fold of the password bytes. This is the fallback-only derivation for
// environments without cryptographic primitives: deterministic, cheap,
// and explicitly weak; a password guess verifies in microseconds. It
// must never be selected when PBKDF2 is available.
type XORFoldAdapter struct{}

// NewXORFoldAdapter creates a new XOR-fold adapter
func NewXORFoldAdapter() *XORFoldAdapter {
	return &XORFoldAdapter{}
}

// DeriveKey folds the password bytes into the requested key length,
// XOR-masking each output byte with its position.
func (x *XORFoldAdapter) DeriveKey(ikm []byte, params *Params) ([]byte, error) {
	if err := x.ValidateParams(params); err != nil {
		return nil, err
	}

	if len(ikm) == 0 {
		return nil, ErrInvalidIKM
	}

	key := make([]byte, params.KeyLength)
	for i := range key {
		key[i] = ikm[i%len(ikm)] ^ byte(i)
	}
	return key, nil
}

// Algorithm returns the KDF algorithm
func (x *XORFoldAdapter) Algorithm() Algorithm {
	return AlgorithmXORFold
}

// ValidateParams validates XOR-fold parameters. The salt is unused: the
// fold is deterministic from the password alone.
func (x *XORFoldAdapter) ValidateParams(params *Params) error {
	if params == nil {
		return ErrInvalidKeyLength
	}

	if params.Algorithm != AlgorithmXORFold {
		return ErrUnsupportedAlgorithm
	}

	if params.KeyLength <= 0 {
		return ErrInvalidKeyLength
	}

	return nil
}
