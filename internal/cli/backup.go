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
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jeremyhahn/go-cryptostore/pkg/cryptostore"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export all records as an encrypted backup",
	Long: `Export every stored record into a JSON backup document, written to the
given file or stdout. Records stay encrypted in the backup; importing
it requires the same key (or password) they were encrypted under. The
key itself is never included.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()

		store, err := cfg.OpenStore()
		if err != nil {
			handleError(err)
		}
		defer func() { _ = store.Close() }()

		backup, err := store.Export()
		if err != nil {
			handleError(fmt.Errorf("export failed: %w", err))
		}

		data, err := cryptostore.MarshalBackup(backup)
		if err != nil {
			handleError(err)
		}

		if len(args) == 1 {
			if err := os.WriteFile(args[0], data, 0600); err != nil {
				handleError(fmt.Errorf("writing backup: %w", err))
			}
			fmt.Println(color.GreenString("✓") + fmt.Sprintf(" Exported %d record(s) to %s",
				len(backup.Records), color.CyanString(args[0])))
		} else {
			fmt.Println(string(data))
		}
	},
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import records from a backup",
	Long: `Import records from a JSON backup document, read from the given file
or stdin. Envelopes are restored verbatim; records with the same keys
are overwritten.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()

		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			handleError(fmt.Errorf("reading backup: %w", err))
		}

		backup, err := cryptostore.UnmarshalBackup(data)
		if err != nil {
			handleError(err)
		}

		store, err := cfg.OpenStore()
		if err != nil {
			handleError(err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Import(backup); err != nil {
			handleError(fmt.Errorf("import failed: %w", err))
		}

		fmt.Println(color.GreenString("✓") + fmt.Sprintf(" Imported %d record(s)", len(backup.Records)))
	},
}
