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

// Package envelope implements the cipher engine producing the encrypted
// envelopes stored by go-cryptostore.
//
// The engine has exactly two mutually exclusive modes, fixed for its
// lifetime:
//
//   - Authenticated: an AEAD cipher (AES-GCM or ChaCha20-Poly1305) with a
//     fresh random 12-byte nonce per call. Envelope wire format is
//     base64(nonce || ciphertext+tag).
//   - Fallback: a positional XOR mask against the key bytes, base64
//     encoded. No integrity and weak confidentiality; it exists solely so
//     the system degrades to better-than-plaintext on environments
//     without an AEAD primitive.
//
// Envelopes carry no mode tag; the decrypt path assumes the mode that was
// active at save time. Decrypting an envelope under the wrong mode fails
// or yields garbage, a documented limitation of the persisted format.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/jeremyhahn/go-cryptostore/pkg/crypto/rand"
	"golang.org/x/crypto/chacha20poly1305"
)

// Suite identifies the cipher suite used in authenticated mode.
type Suite string

const (
	// SuiteAESGCM is AES-GCM (key sizes 16, 24 or 32 bytes).
	SuiteAESGCM Suite = "aes-gcm"

	// SuiteChaCha20Poly1305 is ChaCha20-Poly1305 (32-byte keys only).
	SuiteChaCha20Poly1305 Suite = "chacha20poly1305"

	// SuiteXOR is the fallback positional XOR mask. Selecting it forces
	// the engine into fallback mode.
	SuiteXOR Suite = "xor"
)

// String returns the string representation of the suite.
func (s Suite) String() string {
	return string(s)
}

// Mode is the engine's operating mode, a closed tagged choice selected
// once at construction and never re-probed per call.
type Mode int

const (
	// ModeAuthenticated encrypts with an AEAD cipher.
	ModeAuthenticated Mode = iota

	// ModeFallback encrypts with the XOR mask.
	ModeFallback
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAuthenticated:
		return "authenticated"
	case ModeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// NonceSize is the nonce length prefixed to authenticated envelopes.
// Both supported AEAD suites use 12-byte nonces.
const NonceSize = 12

// Engine encrypts and decrypts envelopes in a single fixed mode.
// It is stateless apart from its configuration and safe for concurrent use.
type Engine struct {
	mode  Mode
	suite Suite
	rng   *rand.Resolver
}

// New creates an engine in the given mode. The suite selects the AEAD
// cipher for authenticated mode and is ignored in fallback mode. The rng
// supplies nonces; it must be the secure source for authenticated mode to
// keep its guarantees (nonce reuse under the same key breaks both
// confidentiality and integrity).
func New(mode Mode, suite Suite, rng *rand.Resolver) (*Engine, error) {
	if rng == nil {
		rng = rand.NewResolver()
	}

	switch suite {
	case SuiteAESGCM, SuiteChaCha20Poly1305:
	case SuiteXOR:
		mode = ModeFallback
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSuite, suite)
	}

	return &Engine{
		mode:  mode,
		suite: suite,
		rng:   rng,
	}, nil
}

// Mode returns the engine's fixed operating mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Suite returns the engine's cipher suite.
func (e *Engine) Suite() Suite {
	return e.suite
}

// Encrypt encrypts a value under the given key material and returns the
// base64 envelope. Non-string values are JSON-encoded before encryption.
func (e *Engine) Encrypt(key []byte, value any) (string, error) {
	plaintext, err := EncodeValue(value)
	if err != nil {
		return "", err
	}

	if e.mode == ModeFallback {
		return e.encryptFallback(key, []byte(plaintext))
	}
	return e.encryptAuthenticated(key, []byte(plaintext))
}

// Decrypt decrypts an envelope under the given key material. The decrypted
// string is JSON-parsed when possible, otherwise returned as-is, so both
// plain strings and structured values round-trip. Authenticated mode
// returns ErrAuthenticationFailed when the integrity check fails.
func (e *Engine) Decrypt(key []byte, env string) (any, error) {
	var plaintext []byte
	var err error

	if e.mode == ModeFallback {
		plaintext, err = e.decryptFallback(key, env)
	} else {
		plaintext, err = e.decryptAuthenticated(key, env)
	}
	if err != nil {
		return nil, err
	}

	return DecodeValue(string(plaintext)), nil
}

func (e *Engine) encryptAuthenticated(key, plaintext []byte) (string, error) {
	aead, err := e.newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce, err := e.rng.Rand(NonceSize)
	if err != nil {
		return "", fmt.Errorf("envelope: failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext+tag after the nonce prefix
	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *Engine) decryptAuthenticated(key []byte, env string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	if len(raw) < NonceSize {
		return nil, fmt.Errorf("%w: shorter than nonce prefix", ErrMalformedEnvelope)
	}

	aead, err := e.newAEAD(key)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := raw[:NonceSize], raw[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	return plaintext, nil
}

// encryptFallback XORs each plaintext byte with the key byte at the same
// position modulo key length. Self-inverse, length-preserving, no nonce.
func (e *Engine) encryptFallback(key, plaintext []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrInvalidKey
	}

	masked := make([]byte, len(plaintext))
	for i, b := range plaintext {
		masked[i] = b ^ key[i%len(key)]
	}
	return base64.StdEncoding.EncodeToString(masked), nil
}

func (e *Engine) decryptFallback(key []byte, env string) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}

	raw, err := base64.StdEncoding.DecodeString(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	plaintext := make([]byte, len(raw))
	for i, b := range raw {
		plaintext[i] = b ^ key[i%len(key)]
	}
	return plaintext, nil
}

// newAEAD constructs the AEAD cipher for the configured suite.
func (e *Engine) newAEAD(key []byte) (cipher.AEAD, error) {
	switch e.suite {
	case SuiteChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %d bytes for %s", ErrInvalidKey, len(key), e.suite)
		}
		return aead, nil

	case SuiteAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %d bytes for %s", ErrInvalidKey, len(key), e.suite)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("envelope: failed to create GCM: %w", err)
		}
		return gcm, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSuite, e.suite)
	}
}
