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
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load <record-key>",
	Short: "Load and decrypt a record",
	Long: `Load the record stored under the given key and print its decrypted
value. Prints nothing and exits 1 when the record does not exist or
cannot be decrypted (wrong password, corrupted data).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		recordKey := args[0]
		cfg := getConfig()

		store, err := cfg.OpenStore()
		if err != nil {
			handleError(err)
		}
		defer func() { _ = store.Close() }()

		printVerbose("Loading record %q (tier: %s)", recordKey, store.Tier())

		value := store.Load(recordKey, cfg.Password)
		if value == nil {
			fmt.Fprintln(os.Stderr, color.YellowString("⚠")+" No value for "+color.CyanString(recordKey))
			os.Exit(1)
		}

		switch v := value.(type) {
		case string:
			fmt.Println(v)
		default:
			out, err := json.Marshal(v)
			if err != nil {
				handleError(fmt.Errorf("encoding value: %w", err))
			}
			fmt.Println(string(out))
		}
	},
}
