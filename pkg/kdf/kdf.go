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

// Package kdf derives key material from passwords. Two adapters exist:
// PBKDF2 for the authenticated cipher path, and a deliberately simple
// XOR-fold for environments without cryptographic primitives. Derivation
// is deterministic by contract: the same password and salt must always
// produce byte-identical key material, so data encrypted in one session
// can be decrypted in another without persisting the derived key.
package kdf

import (
	"crypto"
	"errors"
)

// Algorithm represents the key derivation function algorithm type
type Algorithm string

const (
	// AlgorithmPBKDF2 represents Password-Based Key Derivation Function 2 (RFC 2898)
	AlgorithmPBKDF2 Algorithm = "PBKDF2"

	// AlgorithmXORFold represents the fallback positional XOR-fold
	// derivation. It is NOT a cryptographic KDF and exists only for
	// degraded environments.
	AlgorithmXORFold Algorithm = "XORFold"
)

// String returns the string representation of the KDF algorithm
func (a Algorithm) String() string {
	return string(a)
}

// Params contains parameters for key derivation
type Params struct {
	// Algorithm specifies which KDF algorithm to use
	Algorithm Algorithm

	// Salt is the derivation salt. For this engine the salt is
	// deterministic (a fixed prefix plus the origin string), never
	// random; determinism across sessions is a hard requirement.
	Salt []byte

	// Iterations specifies the number of iterations (PBKDF2 only)
	Iterations int

	// KeyLength is the desired output key length in bytes
	KeyLength int

	// Hash is the hash function to use (PBKDF2 only)
	Hash crypto.Hash
}

// Adapter is the interface for key derivation function adapters
type Adapter interface {
	// DeriveKey derives a key from the input key material using the
	// specified parameters.
	// Returns the derived key or an error if derivation fails
	DeriveKey(ikm []byte, params *Params) ([]byte, error)

	// Algorithm returns the KDF algorithm this adapter implements
	Algorithm() Algorithm

	// ValidateParams validates the KDF parameters for this algorithm
	// Returns an error if parameters are invalid or incompatible
	ValidateParams(params *Params) error
}

// Common errors
var (
	// ErrInvalidSalt indicates the salt is invalid (nil, empty, or too short)
	ErrInvalidSalt = errors.New("kdf: invalid salt")

	// ErrInvalidKeyLength indicates the requested key length is invalid
	ErrInvalidKeyLength = errors.New("kdf: invalid key length")

	// ErrInvalidIterations indicates the iteration count is invalid
	ErrInvalidIterations = errors.New("kdf: invalid iterations")

	// ErrInvalidHash indicates the hash function is invalid or not supported
	ErrInvalidHash = errors.New("kdf: invalid or unsupported hash function")

	// ErrInvalidIKM indicates the input key material is invalid
	ErrInvalidIKM = errors.New("kdf: invalid input key material")

	// ErrUnsupportedAlgorithm indicates the algorithm is not supported by this adapter
	ErrUnsupportedAlgorithm = errors.New("kdf: unsupported algorithm")
)

// DefaultParams returns the engine's fixed parameters for each algorithm.
// The PBKDF2 iteration count is part of the persisted-data contract:
// changing it changes every derived key, so it is a constant, not a
// tunable.
func DefaultParams(algorithm Algorithm) *Params {
	switch algorithm {
	case AlgorithmPBKDF2:
		return &Params{
			Algorithm:  AlgorithmPBKDF2,
			Iterations: Pbkdf2Iterations,
			KeyLength:  32,
			Hash:       crypto.SHA256,
		}
	case AlgorithmXORFold:
		return &Params{
			Algorithm: AlgorithmXORFold,
			KeyLength: 32,
		}
	default:
		return nil
	}
}
