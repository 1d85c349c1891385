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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all records and the encryption key",
	Long: `Remove every stored record and the persisted encryption key. The next
save generates a fresh key. This cannot be undone.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		force, _ := cmd.Flags().GetBool("force")

		if !force {
			fmt.Print("This removes all records and the encryption key. Continue? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted")
				return
			}
		}

		store, err := cfg.OpenStore()
		if err != nil {
			handleError(err)
		}
		defer func() { _ = store.Close() }()

		if !store.ClearAll() {
			handleError(fmt.Errorf("clear completed with errors; some entries may remain"))
		}

		fmt.Println(color.GreenString("✓") + " Store cleared")
	},
}

func init() {
	clearCmd.Flags().BoolP("force", "f", false, "skip the confirmation prompt")
}
