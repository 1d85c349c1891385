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

// Package config loads CLI configuration from file, environment and
// defaults via viper. Precedence: explicit flags > environment
// (CRYPTOSTORE_*) > config file > defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// App is the on-disk CLI configuration.
type App struct {
	// Backend is the preferred storage tier: kv, indexed or memory.
	Backend string `mapstructure:"backend"`

	// RootDir is the directory holding the kv store and the indexed
	// database.
	RootDir string `mapstructure:"root_dir"`

	// Suite is the cipher suite: aes-gcm or chacha20poly1305.
	Suite string `mapstructure:"suite"`

	// KeyBits is the key strength: 128, 192 or 256.
	KeyBits int `mapstructure:"key_bits"`

	// KeySlot is the logical slot name the key persists under.
	KeySlot string `mapstructure:"key_slot"`

	// Origin is the deterministic salt component for password
	// derivation. Empty uses the hostname.
	Origin string `mapstructure:"origin"`

	// Debug enables debug logging.
	Debug bool `mapstructure:"debug"`
}

// Load reads cryptostore.yaml from the usual locations, applies
// CRYPTOSTORE_* environment overrides and fills defaults. A missing
// config file is not an error.
func Load(configFile string) (*App, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("cryptostore")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.cryptostore")
		v.AddConfigPath("/etc/cryptostore")
	}

	// Every key needs a default (even an empty one): AutomaticEnv only
	// surfaces env values through Unmarshal for keys viper already knows.
	v.SetDefault("backend", "kv")
	v.SetDefault("root_dir", "")
	v.SetDefault("suite", "aes-gcm")
	v.SetDefault("key_bits", 256)
	v.SetDefault("key_slot", "master")
	v.SetDefault("origin", "")
	v.SetDefault("debug", false)

	v.SetEnvPrefix("CRYPTOSTORE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var app App
	if err := v.Unmarshal(&app); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &app, nil
}
