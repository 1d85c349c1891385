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

package cli

import (
	"github.com/jeremyhahn/go-cryptostore/internal/config"
	"github.com/jeremyhahn/go-cryptostore/pkg/crypto/envelope"
	"github.com/jeremyhahn/go-cryptostore/pkg/cryptostore"
	"github.com/jeremyhahn/go-cryptostore/pkg/logging"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage/factory"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// Backend is the preferred storage tier (kv, indexed, memory)
	Backend string

	// RootDir is the directory for the kv store and indexed database
	RootDir string

	// Suite is the cipher suite name (aes-gcm, chacha20poly1305)
	Suite string

	// Password derives the encryption key when non-empty
	Password string

	// Verbose enables verbose logging
	Verbose bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{}
}

// OpenStore loads the file/env configuration, overlays the flags that
// were set, and constructs the store.
func (c *Config) OpenStore() (*cryptostore.Store, error) {
	app, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, err
	}

	// Flags win over file and environment
	if c.Backend != "" {
		app.Backend = c.Backend
	}
	if c.RootDir != "" {
		app.RootDir = c.RootDir
	}
	if c.Suite != "" {
		app.Suite = c.Suite
	}
	if c.Verbose {
		app.Debug = true
	}

	return cryptostore.New(&cryptostore.Config{
		KeySlot: app.KeySlot,
		KeyBits: app.KeyBits,
		Suite:   envelope.Suite(app.Suite),
		Backend: factory.ParseTier(app.Backend),
		RootDir: app.RootDir,
		Origin:  app.Origin,
		Logger:  logging.NewLogger(app.Debug),
	})
}
