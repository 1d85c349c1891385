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

package storage_test

import (
	"errors"
	"testing"

	"github.com/jeremyhahn/go-cryptostore/pkg/storage"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage/memory"
)

// TestRecordPath verifies record slot construction.
func TestRecordPath(t *testing.T) {
	tests := []struct {
		recordKey string
		want      string
	}{
		{recordKey: "note1", want: "records/note1"},
		{recordKey: "nested/key", want: "records/nested/key"},
		{recordKey: "", want: "records/"},
	}

	for _, tt := range tests {
		if got := storage.RecordPath(tt.recordKey); got != tt.want {
			t.Errorf("RecordPath(%q) = %q, want %q", tt.recordKey, got, tt.want)
		}
	}
}

// TestKeySlotPath verifies key slot construction.
func TestKeySlotPath(t *testing.T) {
	if got := storage.KeySlotPath("master"); got != "keys/master.key" {
		t.Errorf("KeySlotPath(master) = %q, want keys/master.key", got)
	}
}

// TestListRecords verifies only record slots appear, with the prefix
// stripped.
func TestListRecords(t *testing.T) {
	backend := memory.New()
	defer backend.Close()

	puts := []string{"records/note1", "records/note2", "keys/master.key"}
	for _, s := range puts {
		if err := backend.Put(s, []byte("v"), nil); err != nil {
			t.Fatalf("Put(%q) error = %v", s, err)
		}
	}

	keys, err := storage.ListRecords(backend)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("ListRecords() = %v, want 2 entries", keys)
	}
	for _, k := range keys {
		if k != "note1" && k != "note2" {
			t.Errorf("unexpected record key %q", k)
		}
	}
}

// TestListRecordsEmpty verifies an empty backend lists no records.
func TestListRecordsEmpty(t *testing.T) {
	backend := memory.New()
	defer backend.Close()

	keys, err := storage.ListRecords(backend)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("ListRecords() = %v, want empty", keys)
	}
}

// TestRemoveAll verifies records and the key slot are swept.
func TestRemoveAll(t *testing.T) {
	backend := memory.New()
	defer backend.Close()

	puts := []string{"records/note1", "records/note2", "keys/master.key"}
	for _, s := range puts {
		if err := backend.Put(s, []byte("v"), nil); err != nil {
			t.Fatalf("Put(%q) error = %v", s, err)
		}
	}

	if err := storage.RemoveAll(backend, "master"); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}

	for _, s := range puts {
		if _, err := backend.Get(s); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get(%q) after RemoveAll error = %v, want ErrNotFound", s, err)
		}
	}
}

// TestRemoveAllEmpty verifies sweeping an empty store is not an error.
func TestRemoveAllEmpty(t *testing.T) {
	backend := memory.New()
	defer backend.Close()

	if err := storage.RemoveAll(backend, "master"); err != nil {
		t.Errorf("RemoveAll() on empty store error = %v", err)
	}
}

// faultyBackend wraps memory storage and fails Delete for one slot.
type faultyBackend struct {
	storage.Backend
	failSlot string
}

var errInjected = errors.New("injected delete failure")

func (f *faultyBackend) Delete(slot string) error {
	if slot == f.failSlot {
		return errInjected
	}
	return f.Backend.Delete(slot)
}

// TestRemoveAllPartialFailure verifies one failing slot does not stop
// the sweep, and the failure is still reported.
func TestRemoveAllPartialFailure(t *testing.T) {
	inner := memory.New()
	defer inner.Close()

	puts := []string{"records/note1", "records/note2", "keys/master.key"}
	for _, s := range puts {
		if err := inner.Put(s, []byte("v"), nil); err != nil {
			t.Fatalf("Put(%q) error = %v", s, err)
		}
	}

	backend := &faultyBackend{Backend: inner, failSlot: "records/note1"}

	err := storage.RemoveAll(backend, "master")
	if !errors.Is(err, errInjected) {
		t.Errorf("RemoveAll() error = %v, want injected failure", err)
	}

	// The rest of the sweep still ran
	if _, err := inner.Get("records/note2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("records/note2 not swept, Get error = %v", err)
	}
	if _, err := inner.Get("keys/master.key"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("keys/master.key not swept, Get error = %v", err)
	}
}
