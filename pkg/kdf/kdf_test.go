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

import (
	"bytes"
	"crypto"
	"errors"
	"testing"
)

var testSalt = []byte("cryptostore-v1:test-origin")

// TestPBKDF2Deterministic verifies the same password and salt always
// derive the same key.
func TestPBKDF2Deterministic(t *testing.T) {
	adapter := NewPBKDF2Adapter()
	params := DefaultParams(AlgorithmPBKDF2)
	params.Salt = testSalt

	a, err := adapter.DeriveKey([]byte("correct horse battery staple"), params)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	b, err := adapter.DeriveKey([]byte("correct horse battery staple"), params)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("same password derived different keys")
	}
	if len(a) != params.KeyLength {
		t.Errorf("derived key length = %d, want %d", len(a), params.KeyLength)
	}
}

// TestPBKDF2PasswordSensitivity verifies different passwords derive
// different keys.
func TestPBKDF2PasswordSensitivity(t *testing.T) {
	adapter := NewPBKDF2Adapter()
	params := DefaultParams(AlgorithmPBKDF2)
	params.Salt = testSalt

	a, err := adapter.DeriveKey([]byte("password-one"), params)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	b, err := adapter.DeriveKey([]byte("password-two"), params)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}

	if bytes.Equal(a, b) {
		t.Error("different passwords derived identical keys")
	}
}

// TestPBKDF2SaltSensitivity verifies different salts derive different
// keys from the same password.
func TestPBKDF2SaltSensitivity(t *testing.T) {
	adapter := NewPBKDF2Adapter()

	paramsA := DefaultParams(AlgorithmPBKDF2)
	paramsA.Salt = []byte("cryptostore-v1:origin-a")
	paramsB := DefaultParams(AlgorithmPBKDF2)
	paramsB.Salt = []byte("cryptostore-v1:origin-b")

	a, err := adapter.DeriveKey([]byte("password"), paramsA)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	b, err := adapter.DeriveKey([]byte("password"), paramsB)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}

	if bytes.Equal(a, b) {
		t.Error("different salts derived identical keys")
	}
}

// TestPBKDF2KeyLengths verifies all supported key strengths derive.
func TestPBKDF2KeyLengths(t *testing.T) {
	adapter := NewPBKDF2Adapter()

	for _, length := range []int{16, 24, 32} {
		params := DefaultParams(AlgorithmPBKDF2)
		params.Salt = testSalt
		params.KeyLength = length

		key, err := adapter.DeriveKey([]byte("password"), params)
		if err != nil {
			t.Fatalf("DeriveKey(%d) error = %v", length, err)
		}
		if len(key) != length {
			t.Errorf("derived key length = %d, want %d", len(key), length)
		}
	}
}

// TestPBKDF2ValidateParams exercises parameter validation.
func TestPBKDF2ValidateParams(t *testing.T) {
	tests := []struct {
		name    string
		params  *Params
		wantErr error
	}{
		{
			name:    "nil params",
			params:  nil,
			wantErr: ErrInvalidKeyLength,
		},
		{
			name: "wrong algorithm",
			params: &Params{
				Algorithm:  AlgorithmXORFold,
				Salt:       testSalt,
				Iterations: Pbkdf2Iterations,
				KeyLength:  32,
				Hash:       crypto.SHA256,
			},
			wantErr: ErrUnsupportedAlgorithm,
		},
		{
			name: "zero key length",
			params: &Params{
				Algorithm:  AlgorithmPBKDF2,
				Salt:       testSalt,
				Iterations: Pbkdf2Iterations,
				Hash:       crypto.SHA256,
			},
			wantErr: ErrInvalidKeyLength,
		},
		{
			name: "short salt",
			params: &Params{
				Algorithm:  AlgorithmPBKDF2,
				Salt:       []byte("tooshort"),
				Iterations: Pbkdf2Iterations,
				KeyLength:  32,
				Hash:       crypto.SHA256,
			},
			wantErr: ErrInvalidSalt,
		},
		{
			name: "zero iterations",
			params: &Params{
				Algorithm: AlgorithmPBKDF2,
				Salt:      testSalt,
				KeyLength: 32,
				Hash:      crypto.SHA256,
			},
			wantErr: ErrInvalidIterations,
		},
		{
			name: "missing hash",
			params: &Params{
				Algorithm:  AlgorithmPBKDF2,
				Salt:       testSalt,
				Iterations: Pbkdf2Iterations,
				KeyLength:  32,
			},
			wantErr: ErrInvalidHash,
		},
	}

	adapter := NewPBKDF2Adapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := adapter.ValidateParams(tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateParams() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestPBKDF2EmptyPassword verifies empty input key material is rejected.
func TestPBKDF2EmptyPassword(t *testing.T) {
	adapter := NewPBKDF2Adapter()
	params := DefaultParams(AlgorithmPBKDF2)
	params.Salt = testSalt

	if _, err := adapter.DeriveKey(nil, params); !errors.Is(err, ErrInvalidIKM) {
		t.Errorf("DeriveKey(nil) error = %v, want ErrInvalidIKM", err)
	}
}

// TestXORFoldDeterministic verifies the fold is deterministic and honors
// the requested length.
func TestXORFoldDeterministic(t *testing.T) {
	adapter := NewXORFoldAdapter()
	params := DefaultParams(AlgorithmXORFold)

	a, err := adapter.DeriveKey([]byte("password"), params)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	b, err := adapter.DeriveKey([]byte("password"), params)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("same password folded to different keys")
	}
	if len(a) != params.KeyLength {
		t.Errorf("folded key length = %d, want %d", len(a), params.KeyLength)
	}
}

// TestXORFoldPattern verifies the positional fold: each output byte is
// the password byte at that position modulo its length, XOR the position.
func TestXORFoldPattern(t *testing.T) {
	adapter := NewXORFoldAdapter()
	params := DefaultParams(AlgorithmXORFold)
	params.KeyLength = 8

	ikm := []byte("abc")
	key, err := adapter.DeriveKey(ikm, params)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}

	for i := range key {
		want := ikm[i%len(ikm)] ^ byte(i)
		if key[i] != want {
			t.Errorf("key[%d] = %#x, want %#x", i, key[i], want)
		}
	}
}

// TestXORFoldSaltIgnored verifies the fold ignores the salt entirely.
func TestXORFoldSaltIgnored(t *testing.T) {
	adapter := NewXORFoldAdapter()

	paramsA := DefaultParams(AlgorithmXORFold)
	paramsA.Salt = []byte("salt-a")
	paramsB := DefaultParams(AlgorithmXORFold)
	paramsB.Salt = []byte("salt-b")

	a, err := adapter.DeriveKey([]byte("password"), paramsA)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	b, err := adapter.DeriveKey([]byte("password"), paramsB)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("XOR-fold output varied with salt")
	}
}

// TestXORFoldEmptyPassword verifies empty input is rejected.
func TestXORFoldEmptyPassword(t *testing.T) {
	adapter := NewXORFoldAdapter()
	params := DefaultParams(AlgorithmXORFold)

	if _, err := adapter.DeriveKey(nil, params); !errors.Is(err, ErrInvalidIKM) {
		t.Errorf("DeriveKey(nil) error = %v, want ErrInvalidIKM", err)
	}
}

// TestDefaultParams verifies the fixed parameter sets.
func TestDefaultParams(t *testing.T) {
	p := DefaultParams(AlgorithmPBKDF2)
	if p.Iterations != Pbkdf2Iterations {
		t.Errorf("PBKDF2 iterations = %d, want %d", p.Iterations, Pbkdf2Iterations)
	}
	if p.Hash != crypto.SHA256 {
		t.Errorf("PBKDF2 hash = %v, want SHA256", p.Hash)
	}
	if p.KeyLength != 32 {
		t.Errorf("PBKDF2 key length = %d, want 32", p.KeyLength)
	}

	x := DefaultParams(AlgorithmXORFold)
	if x.KeyLength != 32 {
		t.Errorf("XORFold key length = %d, want 32", x.KeyLength)
	}

	if DefaultParams(Algorithm("bogus")) != nil {
		t.Error("DefaultParams(bogus) expected nil")
	}
}
