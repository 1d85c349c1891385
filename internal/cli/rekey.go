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
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// rekeyCmd represents the rekey command
var rekeyCmd = &cobra.Command{
	Use:   "rekey",
	Short: "Replace the persisted encryption key",
	Long: `Replace the persisted encryption key. With --password the key is
derived deterministically from the password; without it a fresh random
key is generated.

WARNING: records encrypted under the previous key become unreadable
unless you can restore that key (same password, or an exported raw key).`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()

		store, err := cfg.OpenStore()
		if err != nil {
			handleError(err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Rekey(cfg.Password); err != nil {
			handleError(fmt.Errorf("rekey failed: %w", err))
		}

		if cfg.Password != "" {
			fmt.Println(color.GreenString("✓") + " Key derived from password and persisted")
		} else {
			fmt.Println(color.GreenString("✓") + " Fresh random key generated and persisted")
		}
	},
}
