// ledgerctl is the operations CLI: schema migration, seed data, and a
// database health check.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"construction-ledger/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "ledgerctl",
	Short:   "Operations CLI for the construction ledger service",
	Version: version,
	Long: `ledgerctl manages the construction ledger database: it applies schema
migrations, loads seed data for a fresh install, and verifies that the
schema matches what the server expects.

Reads DATABASE_URL from the environment (or a .env file).`,
}

func main() {
	_ = godotenv.Load()

	if err := logger.Setup(logger.FromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
