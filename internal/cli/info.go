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

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show probed capabilities and active configuration",
	Long: `Show the capability probe results, the cipher mode and storage tier
the store resolved to, and the record keys currently stored.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()

		store, err := cfg.OpenStore()
		if err != nil {
			handleError(err)
		}
		defer func() { _ = store.Close() }()

		caps := store.Capabilities()

		fmt.Println(color.CyanString("Capabilities:"))
		fmt.Printf("  Authenticated cipher:  %s\n", yesNo(caps.HasAuthenticatedCipher))
		fmt.Printf("  Key/value store:       %s\n", yesNo(caps.HasPersistentKeyValueStore))
		fmt.Printf("  Indexed store:         %s\n", yesNo(caps.HasIndexedStore))
		fmt.Printf("  Text codec:            %s\n", yesNo(caps.HasTextCodec))
		fmt.Println()
		fmt.Println(color.CyanString("Active configuration:"))
		fmt.Printf("  Cipher mode:           %s\n", store.Mode())
		fmt.Printf("  Storage tier:          %s\n", store.Tier())

		records, err := store.Records()
		if err != nil {
			handleError(fmt.Errorf("listing records: %w", err))
		}
		fmt.Println()
		if len(records) == 0 {
			fmt.Println("No records stored")
			return
		}
		fmt.Println(color.CyanString("Records:"))
		for _, r := range records {
			fmt.Printf("  - %s\n", r)
		}
	},
}

func yesNo(b bool) string {
	if b {
		return color.GreenString("yes")
	}
	return color.RedString("no")
}
