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

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-cryptostore/pkg/capability"
	"github.com/jeremyhahn/go-cryptostore/pkg/crypto/envelope"
	"github.com/jeremyhahn/go-cryptostore/pkg/crypto/rand"
	"github.com/jeremyhahn/go-cryptostore/pkg/keyring"
	"github.com/jeremyhahn/go-cryptostore/pkg/logging"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage/factory"
)

// Store is the encrypted storage facade. It wires the capability probe,
// key manager, cipher engine and storage backend cascade behind the
// narrow Save/Load/ClearAll contract, with Encrypt/Decrypt/Rekey exposed
// for callers that want precise errors.
//
// Error policy: the low-level operations (Encrypt, Decrypt, Rekey)
// propagate wrapped sentinel errors. The high-level operations (Save,
// Load, ClearAll) never do: they log and return false/nil, because they
// are called from surfaces that cannot usefully unwind further. Load in
// particular cannot distinguish "no such record" from "wrong password"
// from "corrupted data"; all three return nil.
type Store struct {
	caps    capability.Set
	engine  *envelope.Engine
	backend storage.Backend
	tier    factory.Tier
	keys    *keyring.Manager
	log     *logging.Logger
	keySlot string
}

// New constructs a store: probes capabilities once, fixes the cipher mode,
// resolves the storage backend cascade and prepares the key manager. The
// probed capability set is immutable for the store's lifetime. A record
// saved under one capability set and loaded under another (after an
// environment change) is an explicit failure mode of the persisted format.
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	prober := capability.NewProber(&capability.Config{
		Suite:       cfg.Suite,
		Fs:          cfg.Fs,
		RootDir:     cfg.RootDir,
		IndexedPath: cfg.IndexedPath,
	})
	caps := prober.Probe()

	mode := envelope.ModeAuthenticated
	suite := cfg.Suite
	if !caps.HasAuthenticatedCipher {
		mode = envelope.ModeFallback
		suite = envelope.SuiteXOR
		cfg.Logger.Warn("authenticated cipher unavailable; using fallback cipher",
			"suite", cfg.Suite.String())
	}

	rng := rand.NewResolver()
	if rng.Degraded() {
		cfg.Logger.Warn("secure random source unavailable; running with degraded PRNG")
	}

	engine, err := envelope.New(mode, suite, rng)
	if err != nil {
		return nil, err
	}

	backend, tier, err := factory.Resolve(&factory.Config{
		Preferred:   cfg.Backend,
		Fs:          cfg.Fs,
		RootDir:     cfg.RootDir,
		IndexedPath: cfg.IndexedPath,
		Logger:      cfg.Logger,
	}, caps)
	if err != nil {
		return nil, err
	}

	keys, err := keyring.NewManager(&keyring.Config{
		Storage:       backend,
		RNG:           rng,
		Logger:        cfg.Logger,
		KeySlot:       cfg.KeySlot,
		KeyBits:       cfg.KeyBits,
		Origin:        cfg.Origin,
		Authenticated: mode == envelope.ModeAuthenticated,
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	return &Store{
		caps:    caps,
		engine:  engine,
		backend: backend,
		tier:    tier,
		keys:    keys,
		log:     cfg.Logger,
		keySlot: cfg.KeySlot,
	}, nil
}

// Capabilities returns the capability set probed at construction.
func (s *Store) Capabilities() capability.Set {
	return s.caps
}

// Mode returns the cipher mode fixed at construction.
func (s *Store) Mode() envelope.Mode {
	return s.engine.Mode()
}

// Tier returns the storage tier the cascade resolved to.
func (s *Store) Tier() factory.Tier {
	return s.tier
}

// Rekey replaces the persisted key. With a password, the key is derived
// deterministically from it; with an empty password a fresh random key is
// generated. Either way the key slot is overwritten: the last key wins,
// regardless of where it came from. This is the sharp edge of the engine:
// a password-guarded Encrypt rekeys the store, and a later no-password
// Encrypt will use that password-derived key until someone rekeys again.
// Isolated here so the coupling is visible at the call site.
func (s *Store) Rekey(password string) error {
	_, err := s.rekey(password)
	return err
}

func (s *Store) rekey(password string) (keyring.Material, error) {
	var key keyring.Material
	var err error

	if password != "" {
		key, err = s.keys.DeriveFromPassword(password)
	} else {
		key, err = s.keys.Generate()
	}
	if err != nil {
		return keyring.Material{}, err
	}

	if err := s.keys.Persist(key); err != nil {
		return keyring.Material{}, err
	}
	return key, nil
}

// Encrypt encrypts a value and returns the base64 envelope. A non-empty
// password rekeys the store first (see Rekey). With no password, the
// persisted key is used, generating and persisting one on first use.
// Concurrent first-use encryption can race on key generation; the second
// persisted key wins and orphans data encrypted under the first. Accepted
// limitation for the single-user context this serves.
func (s *Store) Encrypt(value any, password string) (string, error) {
	key, err := s.encryptionKey(password)
	if err != nil {
		return "", err
	}
	return s.engine.Encrypt(key.Raw(), value)
}

// Decrypt decrypts an envelope. A non-empty password always derives the
// key from that password, so a wrong password fails authentication rather
// than silently using the stored key. With no password the stored key is
// used; ErrNoKey is returned when there is none.
func (s *Store) Decrypt(env string, password string) (any, error) {
	key, err := s.decryptionKey(password)
	if err != nil {
		return nil, err
	}
	return s.engine.Decrypt(key.Raw(), env)
}

// Save encrypts value and stores it under recordKey. It never returns an
// error: any failure is logged and reported as false, the only failure
// signal for this call.
func (s *Store) Save(recordKey string, value any, password string) bool {
	if recordKey == "" {
		s.log.Error(ErrInvalidRecordKey)
		return false
	}

	env, err := s.Encrypt(value, password)
	if err != nil {
		s.log.Errorf("save %q: encryption failed: %v", recordKey, err)
		return false
	}

	slot := storage.RecordPath(recordKey)
	if err := s.backend.Put(slot, []byte(env), storage.DefaultOptions()); err != nil {
		s.log.Errorf("save %q: storage failed: %v", recordKey, err)
		return false
	}

	return true
}

// Load retrieves and decrypts the record stored under recordKey. It
// returns nil both when the record does not exist and when decryption
// fails (wrong password, corrupt envelope, no key); callers cannot
// distinguish the cases from this return value alone.
func (s *Store) Load(recordKey string, password string) any {
	if recordKey == "" {
		return nil
	}

	slot := storage.RecordPath(recordKey)
	data, err := s.backend.Get(slot)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Errorf("load %q: storage failed: %v", recordKey, err)
		}
		return nil
	}

	value, err := s.Decrypt(string(data), password)
	if err != nil {
		s.log.Debugf("load %q: decryption failed: %v", recordKey, err)
		return nil
	}

	return value
}

// ClearAll removes the key slot and every stored record. Per-slot
// failures are swallowed so one backend failure cannot prevent clearing
// the rest; the sweep's first error is logged and reported as false. A
// subsequent Save regenerates a fresh key and works normally.
func (s *Store) ClearAll() bool {
	if err := storage.RemoveAll(s.backend, s.keySlot); err != nil {
		s.log.Errorf("clear-all: %v", err)
		return false
	}
	return true
}

// Records lists the record keys currently stored.
func (s *Store) Records() ([]string, error) {
	return storage.ListRecords(s.backend)
}

// Close releases the underlying storage backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// encryptionKey resolves the key for an Encrypt call: password ⇒ rekey;
// otherwise the persisted key, generated and persisted on first use.
func (s *Store) encryptionKey(password string) (keyring.Material, error) {
	if password != "" {
		return s.rekey(password)
	}

	key, found, err := s.keys.Retrieve()
	if err != nil {
		return keyring.Material{}, err
	}
	if found {
		return key, nil
	}

	// First use: generate and persist
	return s.rekey("")
}

// decryptionKey resolves the key for a Decrypt call: password ⇒ derive
// (without persisting); otherwise the stored key or ErrNoKey.
func (s *Store) decryptionKey(password string) (keyring.Material, error) {
	if password != "" {
		return s.keys.DeriveFromPassword(password)
	}

	key, found, err := s.keys.Retrieve()
	if err != nil {
		return keyring.Material{}, err
	}
	if !found {
		return keyring.Material{}, fmt.Errorf("%w: no persisted key and no password", ErrNoKey)
	}
	return key, nil
}
