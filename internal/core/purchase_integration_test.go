package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"construction-ledger/internal/core"
	"construction-ledger/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE payroll_extra_hours, payroll_payments, installments, purchase_items,
		               purchases, project_receipts, project_assignments, projects, products,
		               product_categories, employees, suppliers, users
		RESTART IDENTITY CASCADE;

		INSERT INTO suppliers (id, name, tax_id, contact) VALUES
		(1, 'Test Supplier Ltd', '11.111.111/0001-11', 'supplier@test.example');

		INSERT INTO employees (id, name, tax_id, role, hire_date) VALUES
		(1, 'Test Foreman',  '111.111.111-11', 'foreman',    '2023-01-09'),
		(2, 'Test Buyer',    '222.222.222-22', 'purchasing', '2023-03-20');

		INSERT INTO products (id, name, unit) VALUES
		(1, 'Cement 50kg', 'bag'),
		(2, 'Rebar 10mm',  'unit');

		INSERT INTO projects (id, name, address, start_date, supervisor_id, status) VALUES
		(1, 'Test Site', '1 Main St', '2024-01-01', 1, 'ACTIVE');

		SELECT setval(pg_get_serial_sequence('suppliers', 'id'), 10);
		SELECT setval(pg_get_serial_sequence('employees', 'id'), 10);
		SELECT setval(pg_get_serial_sequence('products',  'id'), 10);
		SELECT setval(pg_get_serial_sequence('projects',  'id'), 10);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func validPurchaseInput() core.PurchaseInput {
	return core.PurchaseInput{
		ProjectID:        1,
		SupplierID:       1,
		EmployeeID:       2,
		PurchaseDate:     "2024-01-15",
		DueDate:          "2024-01-31",
		PaymentMethod:    core.PayDeferredInvoice,
		InstallmentCount: 3,
		DiscountTotal:    decimal.RequireFromString("5.00"),
		Items: []core.PurchaseItemInput{
			{ProductID: 1, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: 2, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("25.00")},
		},
	}
}

func TestPurchase_PostAndGet(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPurchaseService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	posting, err := svc.CreatePurchase(ctx, validPurchaseInput())
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if got := posting.Subtotal.StringFixed(2); got != "55.00" {
		t.Errorf("subtotal = %s, want 55.00", got)
	}
	if got := posting.NetTotal.StringFixed(2); got != "50.00" {
		t.Errorf("net total = %s, want 50.00", got)
	}
	if posting.InstallmentCount != 3 {
		t.Errorf("installment count = %d, want 3", posting.InstallmentCount)
	}

	t.Run("header persisted with confirmed total", func(t *testing.T) {
		var netTotal decimal.Decimal
		if err := pool.QueryRow(ctx,
			"SELECT net_total FROM purchases WHERE id = $1", posting.ID,
		).Scan(&netTotal); err != nil {
			t.Fatalf("query header: %v", err)
		}
		if got := netTotal.StringFixed(2); got != "50.00" {
			t.Errorf("stored net_total = %s, want 50.00", got)
		}
	})

	t.Run("installments sum to net total", func(t *testing.T) {
		var sum decimal.Decimal
		var n int
		if err := pool.QueryRow(ctx,
			"SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM installments WHERE purchase_id = $1", posting.ID,
		).Scan(&sum, &n); err != nil {
			t.Fatalf("query installments: %v", err)
		}
		if n != 3 {
			t.Errorf("installment rows = %d, want 3", n)
		}
		if got := sum.StringFixed(2); got != "50.00" {
			t.Errorf("installment sum = %s, want 50.00", got)
		}
	})

	t.Run("due dates clamp to month end", func(t *testing.T) {
		rows, err := pool.Query(ctx,
			"SELECT due_date::text FROM installments WHERE purchase_id = $1 ORDER BY installment_no", posting.ID)
		if err != nil {
			t.Fatalf("query due dates: %v", err)
		}
		defer rows.Close()

		want := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
		i := 0
		for rows.Next() {
			var d string
			if err := rows.Scan(&d); err != nil {
				t.Fatal(err)
			}
			if d != want[i] {
				t.Errorf("installment %d due date = %s, want %s", i+1, d, want[i])
			}
			i++
		}
	})

	t.Run("GetPurchase returns items and installments", func(t *testing.T) {
		p, err := svc.GetPurchase(ctx, posting.ID)
		if err != nil {
			t.Fatalf("GetPurchase: %v", err)
		}
		if len(p.Items) != 2 {
			t.Errorf("items = %d, want 2", len(p.Items))
		}
		if len(p.Installments) != 3 {
			t.Errorf("installments = %d, want 3", len(p.Installments))
		}
		if p.SupplierName != "Test Supplier Ltd" {
			t.Errorf("supplier name = %q", p.SupplierName)
		}
	})
}

func TestPurchase_AtomicityOnBadItem(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPurchaseService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	input := validPurchaseInput()
	// Third item is invalid; the whole posting must be rejected.
	input.Items = append(input.Items, core.PurchaseItemInput{
		ProductID: 1,
		Quantity:  decimal.Zero,
		UnitPrice: decimal.RequireFromString("1.00"),
	})

	_, err := svc.CreatePurchase(ctx, input)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %T: %v", err, err)
	}

	var headers, items int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM purchases").Scan(&headers); err != nil {
		t.Fatal(err)
	}
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM purchase_items").Scan(&items); err != nil {
		t.Fatal(err)
	}
	if headers != 0 || items != 0 {
		t.Errorf("rejected posting left rows behind: %d headers, %d items", headers, items)
	}
}

func TestPurchase_MissingReferences(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPurchaseService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	input := validPurchaseInput()
	input.SupplierID = 999
	input.Items[1].ProductID = 888

	_, err := svc.CreatePurchase(ctx, input)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var re *core.ReferenceNotFoundError
	if !errors.As(err, &re) {
		t.Fatalf("expected ReferenceNotFoundError, got %T: %v", err, err)
	}
	if len(re.Missing) != 2 {
		t.Errorf("missing refs = %v, want supplier 999 and product 888", re.Missing)
	}

	var headers int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM purchases").Scan(&headers); err != nil {
		t.Fatal(err)
	}
	if headers != 0 {
		t.Errorf("rejected posting left %d headers behind", headers)
	}
}

func TestPurchase_DiscountExceedsSubtotal(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPurchaseService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	input := validPurchaseInput()
	input.DiscountTotal = decimal.RequireFromString("100.00")
	input.InstallmentCount = 2

	posting, err := svc.CreatePurchase(ctx, input)
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if !posting.NetTotal.IsZero() {
		t.Errorf("net total = %s, want 0 (clamped)", posting.NetTotal)
	}

	var sum decimal.Decimal
	if err := pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM installments WHERE purchase_id = $1", posting.ID,
	).Scan(&sum); err != nil {
		t.Fatal(err)
	}
	if !sum.IsZero() {
		t.Errorf("installment sum = %s, want 0", sum)
	}
}
