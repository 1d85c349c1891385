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

// Package capability detects which cryptographic and storage primitives
// are usable in the current environment. The probe runs once at store
// construction; its result is an immutable Set that selects the cipher
// mode and storage tier for the lifetime of the store instance.
//
// Probing never returns an error: an absent or broken capability is
// recorded as false. The store probes are transient write-then-delete
// checks: the key-value probe writes and removes a marker file, which
// catches read-only mounts and quota failures a plain stat would miss,
// and the indexed probe removes the database file it created when none
// existed beforehand.
package capability

import (
	"bytes"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/jeremyhahn/go-cryptostore/pkg/crypto/envelope"
	"github.com/jeremyhahn/go-cryptostore/pkg/crypto/rand"
	"github.com/spf13/afero"
	bolt "go.etcd.io/bbolt"
)

// probeFileName is the transient file written and deleted by the
// key-value store probe.
const probeFileName = ".capability-probe"

// Set records which primitives are available. Computed once; immutable
// afterward.
type Set struct {
	// HasAuthenticatedCipher is true when the configured AEAD suite
	// passes a seal/open self-check.
	HasAuthenticatedCipher bool

	// HasPersistentKeyValueStore is true when the kv store directory is
	// writable.
	HasPersistentKeyValueStore bool

	// HasIndexedStore is true when the indexed store database can be
	// opened.
	HasIndexedStore bool

	// HasTextCodec is true when UTF-8 text round-trips losslessly.
	// Informational only: Go strings carry UTF-8 natively, so no code
	// path gates on this flag. It is surfaced for diagnostics.
	HasTextCodec bool
}

// Config configures what the prober checks.
type Config struct {
	// Suite is the cipher suite to self-check. SuiteXOR probes as
	// no-authenticated-cipher, forcing fallback mode.
	Suite envelope.Suite

	// Fs is the filesystem holding the kv store. Nil defaults to the
	// host filesystem.
	Fs afero.Fs

	// RootDir is the kv store root directory. Empty probes as
	// no-persistent-store.
	RootDir string

	// IndexedPath is the indexed store database file. Empty probes as
	// no-indexed-store.
	IndexedPath string
}

// Prober probes the environment described by its Config.
type Prober struct {
	suite       envelope.Suite
	fs          afero.Fs
	rootDir     string
	indexedPath string
}

// NewProber creates a prober for the given configuration.
func NewProber(cfg *Config) *Prober {
	if cfg == nil {
		cfg = &Config{}
	}
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	suite := cfg.Suite
	if suite == "" {
		suite = envelope.SuiteAESGCM
	}
	return &Prober{
		suite:       suite,
		fs:          fs,
		rootDir:     cfg.RootDir,
		indexedPath: cfg.IndexedPath,
	}
}

// Probe computes the capability set. It never fails; each check records
// false on any error.
func (p *Prober) Probe() Set {
	return Set{
		HasAuthenticatedCipher:     p.probeAuthenticatedCipher(),
		HasPersistentKeyValueStore: p.probeKeyValueStore(),
		HasIndexedStore:            p.probeIndexedStore(),
		HasTextCodec:               p.probeTextCodec(),
	}
}

// probeAuthenticatedCipher runs a seal/open round-trip over a throwaway
// key with the configured suite.
func (p *Prober) probeAuthenticatedCipher() bool {
	if p.suite == envelope.SuiteXOR {
		return false
	}

	eng, err := envelope.New(envelope.ModeAuthenticated, p.suite, rand.NewResolver())
	if err != nil {
		return false
	}

	key, err := rand.NewResolver().Rand(32)
	if err != nil {
		return false
	}

	const fixture = "capability self-check"
	env, err := eng.Encrypt(key, fixture)
	if err != nil {
		return false
	}
	out, err := eng.Decrypt(key, env)
	if err != nil {
		return false
	}
	s, ok := out.(string)
	return ok && s == fixture
}

// probeKeyValueStore writes and deletes a transient file under the kv
// root. This catches read-only filesystems and quota failures.
func (p *Prober) probeKeyValueStore() bool {
	if p.rootDir == "" {
		return false
	}

	if err := p.fs.MkdirAll(p.rootDir, 0700); err != nil {
		return false
	}

	probePath := filepath.Join(p.rootDir, probeFileName)
	payload := []byte("probe")

	if err := afero.WriteFile(p.fs, probePath, payload, 0600); err != nil {
		return false
	}

	read, err := afero.ReadFile(p.fs, probePath)
	if err != nil || !bytes.Equal(read, payload) {
		_ = p.fs.Remove(probePath)
		return false
	}

	return p.fs.Remove(probePath) == nil
}

// probeIndexedStore opens and closes the indexed store database. A short
// open timeout keeps the probe from hanging on a locked database file.
// Opening creates the file when it does not exist yet, so the probe
// removes it again in that case to stay transient.
func (p *Prober) probeIndexedStore() bool {
	if p.indexedPath == "" {
		return false
	}

	_, statErr := os.Stat(p.indexedPath)
	existed := statErr == nil

	db, err := bolt.Open(p.indexedPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return false
	}
	if err := db.Close(); err != nil {
		return false
	}
	if !existed {
		_ = os.Remove(p.indexedPath)
	}
	return true
}

// probeTextCodec verifies UTF-8 text round-trips through a byte slice.
func (p *Prober) probeTextCodec() bool {
	const fixture = "text codec self-check é世界"
	if !utf8.ValidString(fixture) {
		return false
	}
	return string([]byte(fixture)) == fixture
}
