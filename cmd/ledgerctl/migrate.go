package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"construction-ledger/internal/db"
	"construction-ledger/internal/logger"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long: `Applies every .sql file in the migrations directory, in filename order.
Applied filenames are recorded in schema_migrations so reruns are no-ops.
A session advisory lock keeps concurrent runs from racing.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "directory containing .sql migration files")
	rootCmd.AddCommand(migrateCmd)
}

// migrationLockID is an arbitrary fixed key for pg_advisory_lock.
const migrationLockID = 701_442_118

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("migrate")
	ctx := context.Background()

	pool, err := db.NewPool(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID)

	if _, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := discoverMigrations(migrationsDir)
	if err != nil {
		return err
	}

	applied := 0
	for _, filename := range files {
		var exists bool
		if err := conn.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)", filename,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check %s: %w", filename, err)
		}
		if exists {
			log.Debug().Str("file", filename).Msg("already applied")
			continue
		}

		sql, err := os.ReadFile(filepath.Join(migrationsDir, filename))
		if err != nil {
			return fmt.Errorf("read %s: %w", filename, err)
		}

		if err := applyMigration(ctx, conn, filename, string(sql)); err != nil {
			return err
		}
		log.Info().Str("file", filename).Msg("applied")
		applied++
	}

	log.Info().Int("applied", applied).Int("total", len(files)).Msg("migrations done")
	return nil
}

func discoverMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func applyMigration(ctx context.Context, conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}, filename, sql string) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", filename, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("apply %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (filename) VALUES ($1)", filename,
	); err != nil {
		return fmt.Errorf("record %s: %w", filename, err)
	}
	return tx.Commit(ctx)
}
