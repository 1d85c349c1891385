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
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jeremyhahn/go-cryptostore/pkg/storage"
)

// BackupFormat identifies the backup document layout.
const BackupFormat = "cryptostore/v1"

// Backup is a portable snapshot of the record namespace. Records carry
// their envelopes verbatim, still encrypted, so a backup is only
// useful together with the key (or password) that produced it. The key
// slot itself is deliberately excluded.
type Backup struct {
	ID        string            `json:"id"`
	Format    string            `json:"format"`
	Timestamp time.Time         `json:"timestamp"`
	Tier      string            `json:"tier"`
	Records   map[string]string `json:"records"`
}

// Export snapshots every stored record into a Backup document.
func (s *Store) Export() (*Backup, error) {
	keys, err := storage.ListRecords(s.backend)
	if err != nil {
		return nil, err
	}

	records := make(map[string]string, len(keys))
	for _, k := range keys {
		data, err := s.backend.Get(storage.RecordPath(k))
		if err != nil {
			return nil, fmt.Errorf("export %q: %w", k, err)
		}
		records[k] = string(data)
	}

	return &Backup{
		ID:        uuid.NewString(),
		Format:    BackupFormat,
		Timestamp: time.Now().UTC(),
		Tier:      s.tier.String(),
		Records:   records,
	}, nil
}

// Import restores a Backup's records into the store. Envelopes are
// written back verbatim, so the importing store must hold the same key
// the records were encrypted under. Existing records with the same keys
// are overwritten; others are left alone.
func (s *Store) Import(b *Backup) error {
	if b == nil {
		return fmt.Errorf("%w: nil backup", ErrInvalidBackup)
	}
	if b.Format != BackupFormat {
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidBackup, b.Format)
	}

	for k, env := range b.Records {
		if k == "" {
			return fmt.Errorf("%w: empty record key", ErrInvalidBackup)
		}
		if err := s.backend.Put(storage.RecordPath(k), []byte(env), storage.DefaultOptions()); err != nil {
			return fmt.Errorf("import %q: %w", k, err)
		}
	}
	return nil
}

// MarshalBackup serializes a backup document to indented JSON.
func MarshalBackup(b *Backup) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// UnmarshalBackup parses a backup document, validating its format tag.
func UnmarshalBackup(data []byte) (*Backup, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if b.Format != BackupFormat {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidBackup, b.Format)
	}
	return &b, nil
}
