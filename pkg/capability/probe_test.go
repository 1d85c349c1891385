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

package capability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeremyhahn/go-cryptostore/pkg/crypto/envelope"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage/indexed"
	"github.com/spf13/afero"
)

// TestProbeAllAvailable verifies a healthy environment probes fully
// capable.
func TestProbeAllAvailable(t *testing.T) {
	dir := t.TempDir()
	prober := NewProber(&Config{
		Suite:       envelope.SuiteAESGCM,
		Fs:          afero.NewOsFs(),
		RootDir:     dir,
		IndexedPath: filepath.Join(dir, "probe.db"),
	})

	caps := prober.Probe()

	if !caps.HasAuthenticatedCipher {
		t.Error("HasAuthenticatedCipher = false on healthy platform")
	}
	if !caps.HasPersistentKeyValueStore {
		t.Error("HasPersistentKeyValueStore = false with writable root")
	}
	if !caps.HasIndexedStore {
		t.Error("HasIndexedStore = false with writable database path")
	}
	if !caps.HasTextCodec {
		t.Error("HasTextCodec = false")
	}
}

// TestProbeChaCha verifies the ChaCha20-Poly1305 self-check passes.
func TestProbeChaCha(t *testing.T) {
	prober := NewProber(&Config{Suite: envelope.SuiteChaCha20Poly1305})
	if !prober.Probe().HasAuthenticatedCipher {
		t.Error("HasAuthenticatedCipher = false for chacha20poly1305")
	}
}

// TestProbeXORSuite verifies the XOR suite probes as
// no-authenticated-cipher.
func TestProbeXORSuite(t *testing.T) {
	prober := NewProber(&Config{Suite: envelope.SuiteXOR})
	if prober.Probe().HasAuthenticatedCipher {
		t.Error("HasAuthenticatedCipher = true for xor suite")
	}
}

// TestProbeUnknownSuite verifies an unknown suite fails the cipher probe
// rather than erroring.
func TestProbeUnknownSuite(t *testing.T) {
	prober := NewProber(&Config{Suite: envelope.Suite("rot13")})
	if prober.Probe().HasAuthenticatedCipher {
		t.Error("HasAuthenticatedCipher = true for unknown suite")
	}
}

// TestProbeNoStorePaths verifies empty paths probe as no-store.
func TestProbeNoStorePaths(t *testing.T) {
	prober := NewProber(&Config{Suite: envelope.SuiteAESGCM})
	caps := prober.Probe()

	if caps.HasPersistentKeyValueStore {
		t.Error("HasPersistentKeyValueStore = true with empty root")
	}
	if caps.HasIndexedStore {
		t.Error("HasIndexedStore = true with empty database path")
	}
}

// TestProbeReadOnlyFs verifies a read-only filesystem fails the kv probe.
func TestProbeReadOnlyFs(t *testing.T) {
	prober := NewProber(&Config{
		Suite:   envelope.SuiteAESGCM,
		Fs:      afero.NewReadOnlyFs(afero.NewMemMapFs()),
		RootDir: "/store",
	})

	if prober.Probe().HasPersistentKeyValueStore {
		t.Error("HasPersistentKeyValueStore = true on read-only filesystem")
	}
}

// TestProbeCleansUp verifies the kv probe removes its transient file.
func TestProbeCleansUp(t *testing.T) {
	fsys := afero.NewMemMapFs()
	prober := NewProber(&Config{
		Suite:   envelope.SuiteAESGCM,
		Fs:      fsys,
		RootDir: "/store",
	})

	if !prober.Probe().HasPersistentKeyValueStore {
		t.Fatal("HasPersistentKeyValueStore = false on writable memmap fs")
	}

	exists, err := afero.Exists(fsys, filepath.Join("/store", probeFileName))
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("probe file left behind")
	}
}

// TestProbeIndexedCleansUp verifies the indexed probe does not leave a
// database file behind when none existed before.
func TestProbeIndexedCleansUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.db")
	prober := NewProber(&Config{
		Suite:       envelope.SuiteAESGCM,
		IndexedPath: path,
	})

	if !prober.Probe().HasIndexedStore {
		t.Fatal("HasIndexedStore = false with writable database path")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("database file left behind, stat err = %v", err)
	}
}

// TestProbeIndexedKeepsExisting verifies the indexed probe does not
// remove a database that was already present.
func TestProbeIndexedKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.db")
	db, err := indexed.New(path)
	if err != nil {
		t.Fatalf("indexed.New() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	prober := NewProber(&Config{
		Suite:       envelope.SuiteAESGCM,
		IndexedPath: path,
	})

	if !prober.Probe().HasIndexedStore {
		t.Fatal("HasIndexedStore = false on existing database")
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("existing database removed, stat err = %v", err)
	}
}

// TestProbeNilConfig verifies nil config defaults never panic.
func TestProbeNilConfig(t *testing.T) {
	caps := NewProber(nil).Probe()
	if !caps.HasAuthenticatedCipher {
		t.Error("HasAuthenticatedCipher = false with default suite")
	}
	if !caps.HasTextCodec {
		t.Error("HasTextCodec = false")
	}
}
