package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	webAdapter "construction-ledger/internal/adapters/web"
	"construction-ledger/internal/app"
	"construction-ledger/internal/blob"
	"construction-ledger/internal/core"
	"construction-ledger/internal/db"
	"construction-ledger/internal/logger"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Setup(logger.FromEnv()); err != nil {
		// Logging is not configured yet; write directly and bail.
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.WithComponent("server")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer pool.Close()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	signSecret := os.Getenv("BLOB_SIGN_SECRET")
	if signSecret == "" {
		signSecret = jwtSecret
	}
	store, err := blob.NewDiskStore(uploadDir, "/files", []byte(signSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("blob store")
	}

	purchases := core.NewPurchaseService(pool, logger.WithComponent("purchases"))
	installments := core.NewInstallmentService(pool)
	payroll := core.NewPayrollService(pool, logger.WithComponent("payroll"))
	projects := core.NewProjectService(pool)
	registry := core.NewRegistryService(pool)
	assignments := core.NewAssignmentService(pool, logger.WithComponent("assignments"))
	receipts := core.NewReceiptService(pool)
	reporting := core.NewReportingService(pool)
	users := core.NewUserService(pool)

	svc := app.NewAppService(purchases, installments, payroll, projects, registry, assignments, receipts, reporting, users, store)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, store, allowedOrigins, jwtSecret)

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
