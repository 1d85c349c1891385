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

package factory

import (
	"path/filepath"
	"testing"

	"github.com/jeremyhahn/go-cryptostore/pkg/capability"
	"github.com/spf13/afero"
)

// TestParseTier verifies tier name parsing and the default.
func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{in: "kv", want: TierKV},
		{in: "indexed", want: TierIndexed},
		{in: "memory", want: TierMemory},
		{in: "", want: TierKV},
		{in: "bogus", want: TierKV},
	}

	for _, tt := range tests {
		if got := ParseTier(tt.in); got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestResolveKV verifies the preferred kv tier is selected when its
// capability is present.
func TestResolveKV(t *testing.T) {
	backend, tier, err := Resolve(&Config{
		Preferred: TierKV,
		Fs:        afero.NewMemMapFs(),
		RootDir:   "/store",
	}, capability.Set{HasPersistentKeyValueStore: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defer backend.Close()

	if tier != TierKV {
		t.Errorf("Resolve() tier = %v, want TierKV", tier)
	}
}

// TestResolveCascadeToIndexed verifies the cascade skips an unavailable
// kv tier.
func TestResolveCascadeToIndexed(t *testing.T) {
	backend, tier, err := Resolve(&Config{
		Preferred:   TierKV,
		IndexedPath: filepath.Join(t.TempDir(), "cascade.db"),
	}, capability.Set{HasIndexedStore: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defer backend.Close()

	if tier != TierIndexed {
		t.Errorf("Resolve() tier = %v, want TierIndexed", tier)
	}
}

// TestResolveCascadeToMemory verifies the cascade bottoms out at the
// memory tier when nothing persistent is available.
func TestResolveCascadeToMemory(t *testing.T) {
	backend, tier, err := Resolve(&Config{Preferred: TierKV}, capability.Set{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defer backend.Close()

	if tier != TierMemory {
		t.Errorf("Resolve() tier = %v, want TierMemory", tier)
	}

	// Memory tier must be usable
	if err := backend.Put("records/x", []byte("v"), nil); err != nil {
		t.Errorf("Put() on memory tier error = %v", err)
	}
}

// TestResolvePreferredMemory verifies an explicit memory preference
// never touches persistent tiers.
func TestResolvePreferredMemory(t *testing.T) {
	backend, tier, err := Resolve(&Config{Preferred: TierMemory}, capability.Set{
		HasPersistentKeyValueStore: true,
		HasIndexedStore:            true,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defer backend.Close()

	if tier != TierMemory {
		t.Errorf("Resolve() tier = %v, want TierMemory", tier)
	}
}

// TestResolvePreferredIndexed verifies an indexed preference does not
// cascade upward to kv.
func TestResolvePreferredIndexed(t *testing.T) {
	backend, tier, err := Resolve(&Config{
		Preferred:   TierIndexed,
		Fs:          afero.NewMemMapFs(),
		RootDir:     "/store",
		IndexedPath: filepath.Join(t.TempDir(), "pref.db"),
	}, capability.Set{
		HasPersistentKeyValueStore: true,
		HasIndexedStore:            true,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defer backend.Close()

	if tier != TierIndexed {
		t.Errorf("Resolve() tier = %v, want TierIndexed", tier)
	}
}

// TestResolveOpenFailureCascades verifies a passing probe but failing
// open still cascades instead of erroring.
func TestResolveOpenFailureCascades(t *testing.T) {
	// Probe says kv is fine, but the root dir is empty so the open fails
	backend, tier, err := Resolve(&Config{
		Preferred: TierKV,
		Fs:        afero.NewMemMapFs(),
		RootDir:   "",
	}, capability.Set{HasPersistentKeyValueStore: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defer backend.Close()

	if tier != TierMemory {
		t.Errorf("Resolve() tier = %v, want TierMemory", tier)
	}
}

// TestResolveNilConfig verifies nil config resolves without panicking.
func TestResolveNilConfig(t *testing.T) {
	backend, tier, err := Resolve(nil, capability.Set{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	defer backend.Close()

	if tier != TierMemory {
		t.Errorf("Resolve() tier = %v, want TierMemory", tier)
	}
}
