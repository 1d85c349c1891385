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
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeremyhahn/go-cryptostore/pkg/crypto/envelope"
	"github.com/jeremyhahn/go-cryptostore/pkg/keyring"
	"github.com/jeremyhahn/go-cryptostore/pkg/logging"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage/factory"
	"github.com/spf13/afero"
)

// DefaultDirName is the directory under the user home directory that
// holds the kv store and the indexed database when no root is configured.
const DefaultDirName = ".cryptostore"

// IndexedFileName is the indexed store's database file name inside the
// root directory.
const IndexedFileName = "cryptostore.db"

// Config is the construction-time configuration surface of the store.
// All fields are optional; zero values resolve to working defaults.
type Config struct {
	// KeySlot is the logical slot name the symmetric key persists under.
	// Defaults to keyring.DefaultKeySlot.
	KeySlot string

	// KeyBits is the key strength: 128, 192 or 256.
	// Defaults to keyring.DefaultKeyBits.
	KeyBits int

	// Suite selects the authenticated cipher. SuiteXOR forces fallback
	// mode regardless of probed capabilities.
	// Defaults to envelope.SuiteAESGCM.
	Suite envelope.Suite

	// Backend is the preferred storage tier; the cascade degrades from
	// here when the probe finds the tier unavailable.
	// Defaults to factory.TierKV.
	Backend factory.Tier

	// RootDir is the directory holding the kv store and the indexed
	// database. Defaults to ~/.cryptostore.
	RootDir string

	// IndexedPath overrides the indexed database location.
	// Defaults to RootDir/cryptostore.db.
	IndexedPath string

	// Origin is the deterministic password-salt component.
	// Defaults to the hostname.
	Origin string

	// Fs is the filesystem for probing and the kv tier. Nil defaults to
	// the host filesystem.
	Fs afero.Fs

	// Logger receives the warnings that Save/Load/ClearAll downgrade
	// errors into. Nil uses the default logger.
	Logger *logging.Logger
}

// normalize fills defaults in place and validates cross-field constraints.
func (c *Config) normalize() error {
	if c.KeySlot == "" {
		c.KeySlot = keyring.DefaultKeySlot
	}
	if c.KeyBits == 0 {
		c.KeyBits = keyring.DefaultKeyBits
	}
	if c.Suite == "" {
		c.Suite = envelope.SuiteAESGCM
	}
	if c.Backend == "" {
		c.Backend = factory.TierKV
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.Logger == nil {
		c.Logger = logging.DefaultLogger()
	}
	if c.RootDir == "" && c.Backend != factory.TierMemory {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("%w: no root directory and no home directory: %v", ErrInvalidConfig, err)
		}
		c.RootDir = filepath.Join(home, DefaultDirName)
	}
	if c.IndexedPath == "" && c.RootDir != "" {
		c.IndexedPath = filepath.Join(c.RootDir, IndexedFileName)
	}

	// ChaCha20-Poly1305 only takes 256-bit keys
	if c.Suite == envelope.SuiteChaCha20Poly1305 && c.KeyBits != 256 {
		return fmt.Errorf("%w: %s requires 256-bit keys, got %d",
			ErrInvalidConfig, c.Suite, c.KeyBits)
	}

	return nil
}
