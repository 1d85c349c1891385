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

package rand

import (
	"bytes"
	"sync"
	"testing"
)

// TestNewResolver verifies the probe resolves the secure source on a
// healthy platform.
func TestNewResolver(t *testing.T) {
	r := NewResolver()
	if r.Degraded() {
		t.Skip("platform CSPRNG unavailable")
	}
	if r.Source() != SourceSecure {
		t.Errorf("Source() = %v, want SourceSecure", r.Source())
	}
}

// TestRandLength verifies requested lengths are honored.
func TestRandLength(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{name: "zero", n: 0},
		{name: "aes-128", n: 16},
		{name: "aes-192", n: 24},
		{name: "aes-256", n: 32},
		{name: "nonce", n: 12},
	}

	for _, r := range []*Resolver{NewResolver(), NewDegradedResolver()} {
		for _, tt := range tests {
			t.Run(r.Source().String()+"/"+tt.name, func(t *testing.T) {
				buf, err := r.Rand(tt.n)
				if err != nil {
					t.Fatalf("Rand(%d) error = %v", tt.n, err)
				}
				if len(buf) != tt.n {
					t.Errorf("Rand(%d) returned %d bytes", tt.n, len(buf))
				}
			})
		}
	}
}

// TestRandNegative verifies negative lengths are rejected.
func TestRandNegative(t *testing.T) {
	if _, err := NewResolver().Rand(-1); err == nil {
		t.Error("Rand(-1) expected error, got nil")
	}
}

// TestRandVaries verifies consecutive reads differ. A 32-byte collision
// from either source would be astronomically unlikely.
func TestRandVaries(t *testing.T) {
	for _, r := range []*Resolver{NewResolver(), NewDegradedResolver()} {
		a, err := r.Rand(32)
		if err != nil {
			t.Fatalf("Rand() error = %v", err)
		}
		b, err := r.Rand(32)
		if err != nil {
			t.Fatalf("Rand() error = %v", err)
		}
		if bytes.Equal(a, b) {
			t.Errorf("consecutive Rand() reads identical from %s source", r.Source())
		}
	}
}

// TestDegradedResolver verifies the forced degraded path.
func TestDegradedResolver(t *testing.T) {
	r := NewDegradedResolver()
	if !r.Degraded() {
		t.Error("Degraded() = false for degraded resolver")
	}
	if r.Source() != SourceDegraded {
		t.Errorf("Source() = %v, want SourceDegraded", r.Source())
	}
	if r.Source().String() != "degraded" {
		t.Errorf("Source().String() = %q, want degraded", r.Source().String())
	}
}

// TestDegradedConcurrent verifies the degraded PRNG is safe under
// concurrent use.
func TestDegradedConcurrent(t *testing.T) {
	r := NewDegradedResolver()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := r.Rand(16); err != nil {
					t.Errorf("Rand() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
