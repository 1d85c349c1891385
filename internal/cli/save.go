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
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// saveCmd represents the save command
var saveCmd = &cobra.Command{
	Use:   "save <record-key> [value]",
	Short: "Encrypt and store a record",
	Long: `Encrypt a value and store it under the given record key. The value is
read from the argument, or from stdin when omitted. JSON values are
stored structured and come back as structured data on load.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		recordKey := args[0]
		cfg := getConfig()

		var raw string
		if len(args) == 2 {
			raw = args[1]
		} else {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				handleError(fmt.Errorf("reading value from stdin: %w", err))
			}
			raw = string(data)
		}

		// Structured input stays structured
		var value any = raw
		var structured map[string]any
		if err := json.Unmarshal([]byte(raw), &structured); err == nil {
			value = structured
		}

		store, err := cfg.OpenStore()
		if err != nil {
			handleError(err)
		}
		defer func() { _ = store.Close() }()

		printVerbose("Saving record %q (tier: %s, mode: %s)", recordKey, store.Tier(), store.Mode())

		if !store.Save(recordKey, value, cfg.Password) {
			handleError(fmt.Errorf("failed to save record %q", recordKey))
		}

		fmt.Println(color.GreenString("✓") + " Saved " + color.CyanString(recordKey))
	},
}
