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

// Package rand resolves the best available random source. The secure
// source is the platform CSPRNG; when it cannot be read the resolver
// degrades to a time-seeded PRNG. The degraded source is suitable only for
// making the engine function at all on broken platforms. It is NOT
// cryptographically secure, and callers must surface Degraded() to the
// operator instead of treating both sources as equivalent.
package rand

import (
	crand "crypto/rand"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"
)

// Source identifies which random source a Resolver is backed by.
type Source int

const (
	// SourceSecure is the platform CSPRNG (crypto/rand).
	SourceSecure Source = iota

	// SourceDegraded is a time-seeded PRNG used only when the CSPRNG
	// cannot be read. Keys generated from this source provide degraded
	// security.
	SourceDegraded
)

// String returns the string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceSecure:
		return "secure"
	case SourceDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Resolver produces random bytes from the best source available at
// construction time. It is safe for concurrent use.
type Resolver struct {
	source Source
	mu     sync.Mutex
	prng   *mrand.Rand
}

// NewResolver probes the platform CSPRNG with a one-byte read and returns
// a resolver backed by it, or by the degraded PRNG if the probe fails.
// The probe result is fixed for the resolver's lifetime.
func NewResolver() *Resolver {
	var probe [1]byte
	if _, err := crand.Read(probe[:]); err != nil {
		return newDegraded()
	}
	return &Resolver{source: SourceSecure}
}

// NewDegradedResolver returns a resolver forced onto the degraded PRNG.
// Intended for tests exercising the degraded path.
func NewDegradedResolver() *Resolver {
	return newDegraded()
}

func newDegraded() *Resolver {
	return &Resolver{
		source: SourceDegraded,
		prng:   mrand.New(mrand.NewSource(time.Now().UnixNano())),
	}
}

// Rand returns n random bytes from the resolved source.
func (r *Resolver) Rand(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("rand: invalid length %d", n)
	}

	buf := make([]byte, n)
	if r.source == SourceSecure {
		if _, err := crand.Read(buf); err != nil {
			return nil, fmt.Errorf("rand: failed to read secure source: %w", err)
		}
		return buf, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range buf {
		buf[i] = byte(r.prng.Intn(256))
	}
	return buf, nil
}

// Source returns the resolved source.
func (r *Resolver) Source() Source {
	return r.source
}

// Degraded reports whether this resolver is running on the insecure PRNG.
func (r *Resolver) Degraded() bool {
	return r.source == SourceDegraded
}
