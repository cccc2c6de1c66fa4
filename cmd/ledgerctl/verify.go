package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"construction-ledger/internal/db"
	"construction-ledger/internal/logger"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the database schema matches what the server expects",
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// requiredTables is the set the server queries at runtime.
var requiredTables = []string{
	"users",
	"projects",
	"suppliers",
	"employees",
	"products",
	"product_categories",
	"project_assignments",
	"purchases",
	"purchase_items",
	"installments",
	"payroll_payments",
	"payroll_extra_hours",
	"project_receipts",
}

func runVerify(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("verify")
	ctx := context.Background()

	pool, err := db.NewPool(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	missing := 0
	for _, table := range requiredTables {
		var exists bool
		if err := pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_schema = 'public' AND table_name = $1
			)`, table,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		if !exists {
			log.Error().Str("table", table).Msg("missing")
			missing++
			continue
		}

		var count int64
		if err := pool.QueryRow(ctx,
			"SELECT count(*) FROM "+table,
		).Scan(&count); err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
		log.Info().Str("table", table).Int64("rows", count).Msg("ok")
	}

	if missing > 0 {
		return fmt.Errorf("%d required tables missing; run ledgerctl migrate", missing)
	}
	log.Info().Msg("schema verified")
	return nil
}
