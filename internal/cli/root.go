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

// Package cli implements the cryptostore command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global configuration
	globalConfig *Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cryptostore",
	Short: "cryptostore CLI - Encrypted at-rest key/value storage",
	Long: `cryptostore CLI provides a command-line interface for storing and
retrieving encrypted records across a cascade of storage backends.

Storage tiers (best available wins):
  - kv:      file-per-record key/value store
  - indexed: embedded bbolt database
  - memory:  in-process map (nothing survives exit)

Records are encrypted with an authenticated cipher (AES-GCM or
ChaCha20-Poly1305) when available, degrading to an unauthenticated
fallback cipher otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize global config
	globalConfig = NewConfig()

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&globalConfig.ConfigFile, "config", "",
		"config file (default is cryptostore.yaml in ., ~/.cryptostore, /etc/cryptostore)")
	rootCmd.PersistentFlags().StringVar(&globalConfig.Backend, "backend", "",
		"preferred storage tier (kv, indexed, memory)")
	rootCmd.PersistentFlags().StringVar(&globalConfig.RootDir, "root-dir", "",
		"directory for the kv store and indexed database (default ~/.cryptostore)")
	rootCmd.PersistentFlags().StringVar(&globalConfig.Suite, "suite", "",
		"cipher suite (aes-gcm, chacha20poly1305)")
	rootCmd.PersistentFlags().StringVarP(&globalConfig.Password, "password", "p", "",
		"password for key derivation (omit to use the persisted key)")
	rootCmd.PersistentFlags().BoolVarP(&globalConfig.Verbose, "verbose", "v", false,
		"verbose output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(rekeyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(infoCmd)
}

// getConfig returns the global configuration
func getConfig() *Config {
	return globalConfig
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("✗")+" "+err.Error())
	os.Exit(1)
}

// printVerbose prints a message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if globalConfig.Verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}
