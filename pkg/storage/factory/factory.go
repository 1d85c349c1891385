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

// Package factory resolves the storage backend cascade. The caller names
// a preferred tier; the factory selects it only if the capability probe
// confirmed it is available, otherwise it cascades to the next tier:
// kv (file) -> indexed (bbolt) -> memory. The memory tier always
// succeeds, so resolution cannot fail outright; degradation is logged,
// not raised.
package factory

import (
	"fmt"

	"github.com/jeremyhahn/go-cryptostore/pkg/capability"
	"github.com/jeremyhahn/go-cryptostore/pkg/logging"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage/indexed"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage/kv"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage/memory"
	"github.com/spf13/afero"
)

// Tier names a storage backend tier.
type Tier string

const (
	// TierKV is the synchronous file-per-slot store (preferred).
	TierKV Tier = "kv"

	// TierIndexed is the transactional bbolt store.
	TierIndexed Tier = "indexed"

	// TierMemory is the in-memory store, lost when the process exits.
	TierMemory Tier = "memory"
)

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// ParseTier parses a tier name. Unknown names resolve to TierKV, the
// default preference.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierKV, TierIndexed, TierMemory:
		return Tier(s)
	default:
		return TierKV
	}
}

// Config configures backend resolution.
type Config struct {
	// Preferred is the tier the caller configured. The cascade starts
	// here and only moves down.
	Preferred Tier

	// Fs is the filesystem for the kv tier. Nil defaults to the host
	// filesystem.
	Fs afero.Fs

	// RootDir is the kv tier's root directory.
	RootDir string

	// IndexedPath is the indexed tier's database file.
	IndexedPath string

	// Logger for degradation warnings. Nil uses the default logger.
	Logger *logging.Logger
}

// Resolve returns the backend for the highest tier that is both at or
// below the preferred tier and confirmed available by the capability set.
// A probe can pass and the open still fail (the environment changed in
// between); open failures cascade the same way as probe failures.
func Resolve(cfg *Config, caps capability.Set) (storage.Backend, Tier, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = logging.DefaultLogger()
	}

	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	preferred := cfg.Preferred
	if preferred == "" {
		preferred = TierKV
	}

	for _, tier := range cascadeFrom(preferred) {
		switch tier {
		case TierKV:
			if !caps.HasPersistentKeyValueStore {
				log.Debug("kv tier unavailable, cascading", "root", cfg.RootDir)
				continue
			}
			backend, err := kv.NewWithFs(fs, cfg.RootDir)
			if err != nil {
				log.Warn("kv tier failed to open, cascading", "err", err.Error())
				continue
			}
			return backend, TierKV, nil

		case TierIndexed:
			if !caps.HasIndexedStore {
				log.Debug("indexed tier unavailable, cascading", "path", cfg.IndexedPath)
				continue
			}
			backend, err := indexed.New(cfg.IndexedPath)
			if err != nil {
				log.Warn("indexed tier failed to open, cascading", "err", err.Error())
				continue
			}
			return backend, TierIndexed, nil

		case TierMemory:
			if preferred != TierMemory {
				log.Warn("no persistent tier available; data will not survive restart")
			}
			return memory.New(), TierMemory, nil
		}
	}

	// Unreachable: the cascade always ends at the memory tier.
	return nil, "", fmt.Errorf("%w: no tier could be resolved", storage.ErrBackendUnavailable)
}

// cascadeFrom returns the tiers to try, starting at the preferred one.
func cascadeFrom(preferred Tier) []Tier {
	switch preferred {
	case TierIndexed:
		return []Tier{TierIndexed, TierMemory}
	case TierMemory:
		return []Tier{TierMemory}
	default:
		return []Tier{TierKV, TierIndexed, TierMemory}
	}
}
