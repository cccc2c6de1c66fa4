package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"construction-ledger/internal/db"
	"construction-ledger/internal/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load initial data for a fresh install",
	Long: `Creates the admin user plus a small set of registry rows (suppliers,
employees, products) so the service is usable immediately after migrate.
Existing rows are left untouched; reruns are no-ops.

The admin password comes from SEED_ADMIN_PASSWORD.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("seed")
	ctx := context.Background()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	pool, err := db.NewPool(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO users (username, name, password_hash, is_active)
		VALUES ('admin', 'Administrator', $1, TRUE)
		ON CONFLICT (username) DO NOTHING`, string(hash),
	); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO suppliers (name, tax_id, contact)
		VALUES
		    ('General Building Supply', '00.000.001/0001-01', 'sales@gbsupply.example'),
		    ('ReadyMix Concrete Co',    '00.000.002/0001-02', 'orders@readymix.example')
		ON CONFLICT (tax_id) DO NOTHING`,
	); err != nil {
		return fmt.Errorf("seed suppliers: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO employees (name, tax_id, role, hire_date)
		VALUES
		    ('Site Foreman',     '000.000.001-01', 'foreman',    '2023-01-09'),
		    ('Purchasing Agent', '000.000.002-02', 'purchasing', '2023-03-20')
		ON CONFLICT (tax_id) DO NOTHING`,
	); err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO products (name, unit)
		VALUES
		    ('Portland Cement 50kg', 'bag'),
		    ('Rebar 10mm',           'unit'),
		    ('Washed Sand',          'm3')
		ON CONFLICT (name) DO NOTHING`,
	); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Info().Msg("seed data loaded")
	return nil
}
