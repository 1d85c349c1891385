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

// Package keyring owns the symmetric key material: generation, password
// derivation, raw import/export and persistence through a storage backend.
// Key material is always treated as extractable raw bytes for portability;
// the persisted form is a JSON array of integers under a fixed key slot,
// byte-compatible with the layout described in the storage contract.
package keyring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jeremyhahn/go-cryptostore/pkg/crypto/rand"
	"github.com/jeremyhahn/go-cryptostore/pkg/kdf"
	"github.com/jeremyhahn/go-cryptostore/pkg/logging"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage"
)

// saltPrefix is the static component of the deterministic derivation
// salt. Changing it invalidates every password-derived key, so it is a
// constant, not configuration.
const saltPrefix = "cryptostore-v1:"

// DefaultKeySlot is the key slot name used when none is configured.
const DefaultKeySlot = "master"

// DefaultKeyBits is the key length used when none is configured.
const DefaultKeyBits = 256

// Material is a symmetric secret: 16 to 32 raw bytes depending on the
// configured strength. The zero value is absent key material.
type Material struct {
	bytes []byte
}

// NewMaterial wraps raw bytes as key material. The bytes are defensively
// copied.
func NewMaterial(b []byte) Material {
	raw := make([]byte, len(b))
	copy(raw, b)
	return Material{bytes: raw}
}

// Raw returns a defensive copy of the raw key bytes.
func (m Material) Raw() []byte {
	out := make([]byte, len(m.bytes))
	copy(out, m.bytes)
	return out
}

// Len returns the key length in bytes.
func (m Material) Len() int {
	return len(m.bytes)
}

// IsZero reports whether this is absent key material.
func (m Material) IsZero() bool {
	return len(m.bytes) == 0
}

// Config configures a Manager.
type Config struct {
	// Storage persists the key slot. Required.
	Storage storage.Backend

	// RNG supplies random key bytes. Nil resolves a new one.
	RNG *rand.Resolver

	// Logger for warnings. Nil uses the default logger.
	Logger *logging.Logger

	// KeySlot is the logical slot name the key persists under.
	// Defaults to DefaultKeySlot.
	KeySlot string

	// KeyBits is the key strength: 128, 192 or 256.
	// Defaults to DefaultKeyBits.
	KeyBits int

	// Origin is the deterministic-salt component. Defaults to the
	// hostname. The same password on the same origin must always derive
	// the same key, so this must be stable across sessions.
	Origin string

	// Authenticated selects the derivation adapter: PBKDF2 when the
	// authenticated cipher path is active, XOR-fold otherwise.
	Authenticated bool
}

// Manager generates, derives and persists key material. The facade never
// touches key bytes directly; it requests them here.
type Manager struct {
	storage storage.Backend
	rng     *rand.Resolver
	log     *logging.Logger
	adapter kdf.Adapter
	keySlot string
	keyBits int
	salt    []byte
}

// NewManager creates a key manager. Invalid key bit lengths are rejected
// here as fatal configuration errors.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil || cfg.Storage == nil {
		return nil, ErrStorageRequired
	}

	keyBits := cfg.KeyBits
	if keyBits == 0 {
		keyBits = DefaultKeyBits
	}
	switch keyBits {
	case 128, 192, 256:
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyBits, keyBits)
	}

	keySlot := cfg.KeySlot
	if keySlot == "" {
		keySlot = DefaultKeySlot
	}

	origin := cfg.Origin
	if origin == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "localhost"
		}
		origin = host
	}

	rng := cfg.RNG
	if rng == nil {
		rng = rand.NewResolver()
	}

	log := cfg.Logger
	if log == nil {
		log = logging.DefaultLogger()
	}

	var adapter kdf.Adapter
	if cfg.Authenticated {
		adapter = kdf.NewPBKDF2Adapter()
	} else {
		adapter = kdf.NewXORFoldAdapter()
	}

	return &Manager{
		storage: cfg.Storage,
		rng:     rng,
		log:     log,
		adapter: adapter,
		keySlot: keySlot,
		keyBits: keyBits,
		salt:    []byte(saltPrefix + origin),
	}, nil
}

// KeySlot returns the configured key slot name.
func (m *Manager) KeySlot() string {
	return m.keySlot
}

// Generate produces fresh random key material of the configured strength.
// When the RNG has degraded to the insecure PRNG a warning is logged; the
// key still functions but provides degraded security.
func (m *Manager) Generate() (Material, error) {
	if m.rng.Degraded() {
		m.log.Warn("generating key from degraded PRNG; key provides reduced security",
			"source", m.rng.Source().String())
	}

	raw, err := m.rng.Rand(m.keyBits / 8)
	if err != nil {
		return Material{}, fmt.Errorf("keyring: failed to generate key: %w", err)
	}
	return Material{bytes: raw}, nil
}

// DeriveFromPassword deterministically derives key material from a
// password. The salt is the static prefix plus the configured origin,
// never random, so the same password re-derives the same key in every
// session on the same origin. Parameter failures propagate: they are
// configuration errors.
func (m *Manager) DeriveFromPassword(password string) (Material, error) {
	params := kdf.DefaultParams(m.adapter.Algorithm())
	params.Salt = m.salt
	params.KeyLength = m.keyBits / 8

	raw, err := m.adapter.DeriveKey([]byte(password), params)
	if err != nil {
		return Material{}, fmt.Errorf("keyring: derivation failed: %w", err)
	}
	return Material{bytes: raw}, nil
}

// ExportRaw returns the persistable raw byte form of the key material.
func (m *Manager) ExportRaw(k Material) []byte {
	return k.Raw()
}

// ImportRaw wraps raw bytes back into key material, validating the length.
func (m *Manager) ImportRaw(b []byte) (Material, error) {
	switch len(b) {
	case 16, 24, 32:
		return NewMaterial(b), nil
	default:
		return Material{}, fmt.Errorf("%w: %d bytes", ErrInvalidKeyMaterial, len(b))
	}
}

// Persist writes the key material to the configured key slot as a JSON
// array of integers.
func (m *Manager) Persist(k Material) error {
	if k.IsZero() {
		return ErrInvalidKeyMaterial
	}

	ints := make([]int, k.Len())
	for i, b := range k.bytes {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		return fmt.Errorf("keyring: failed to encode key slot: %w", err)
	}

	slot := storage.KeySlotPath(m.keySlot)
	if err := m.storage.Put(slot, data, storage.DefaultOptions()); err != nil {
		return fmt.Errorf("keyring: failed to persist key: %w", err)
	}
	return nil
}

// Retrieve reads the persisted key material. An absent key slot is not an
// error: it signals first use, reported as (zero, false, nil).
func (m *Manager) Retrieve() (Material, bool, error) {
	slot := storage.KeySlotPath(m.keySlot)
	data, err := m.storage.Get(slot)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Material{}, false, nil
		}
		return Material{}, false, fmt.Errorf("keyring: failed to read key slot: %w", err)
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return Material{}, false, fmt.Errorf("%w: %v", ErrCorruptKeySlot, err)
	}

	raw := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return Material{}, false, fmt.Errorf("%w: byte value %d out of range", ErrCorruptKeySlot, v)
		}
		raw[i] = byte(v)
	}

	mat, err := m.ImportRaw(raw)
	if err != nil {
		return Material{}, false, fmt.Errorf("%w: %v", ErrCorruptKeySlot, err)
	}
	return mat, true, nil
}
