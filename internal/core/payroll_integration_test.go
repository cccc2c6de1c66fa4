package core_test

import (
	"context"
	"errors"
	"testing"

	"construction-ledger/internal/core"
	"construction-ledger/internal/logger"

	"github.com/shopspring/decimal"
)

func validPayrollInput() core.PayrollInput {
	return core.PayrollInput{
		EmployeeID:  1,
		Competency:  "2024-03-01",
		PaymentDate: "2024-04-05",
		BaseAmount:  decimal.RequireFromString("2500.00"),
		Extras: []core.ExtraHoursInput{
			{ProjectID: 1, HoursQty: decimal.RequireFromString("10.5"), HourlyRate: decimal.RequireFromString("20.00")},
			{ProjectID: 1, HoursQty: decimal.NewFromInt(4), HourlyRate: decimal.RequireFromString("30.00")},
		},
	}
}

func TestPayroll_ExtrasTotalDerived(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPayrollService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	payment, err := svc.CreatePayment(ctx, validPayrollInput())
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	// 10.5 * 20.00 + 4 * 30.00 = 330.00
	if got := payment.ExtrasTotal.StringFixed(2); got != "330.00" {
		t.Errorf("extras_total = %s, want 330.00", got)
	}
	if len(payment.Extras) != 2 {
		t.Errorf("extras lines = %d, want 2", len(payment.Extras))
	}

	t.Run("stored total matches line sum", func(t *testing.T) {
		var stored, lineSum decimal.Decimal
		if err := pool.QueryRow(ctx,
			"SELECT extras_total FROM payroll_payments WHERE id = $1", payment.ID,
		).Scan(&stored); err != nil {
			t.Fatal(err)
		}
		if err := pool.QueryRow(ctx,
			"SELECT COALESCE(SUM(hours_qty * hourly_rate), 0) FROM payroll_extra_hours WHERE payment_id = $1",
			payment.ID,
		).Scan(&lineSum); err != nil {
			t.Fatal(err)
		}
		if !stored.Equal(lineSum) {
			t.Errorf("stored extras_total %s != line sum %s", stored, lineSum)
		}
	})
}

func TestPayroll_NoExtras(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPayrollService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	input := validPayrollInput()
	input.Extras = nil

	payment, err := svc.CreatePayment(ctx, input)
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if !payment.ExtrasTotal.IsZero() {
		t.Errorf("extras_total = %s, want 0", payment.ExtrasTotal)
	}
}

func TestPayroll_DuplicateCompetencyConflict(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPayrollService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	if _, err := svc.CreatePayment(ctx, validPayrollInput()); err != nil {
		t.Fatalf("first CreatePayment: %v", err)
	}

	_, err := svc.CreatePayment(ctx, validPayrollInput())
	if err == nil {
		t.Fatal("expected conflict, got nil")
	}
	var ce *core.ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("expected ConflictError, got %T: %v", err, err)
	}

	// Same employee, a different month: fine.
	input := validPayrollInput()
	input.Competency = "2024-04-01"
	if _, err := svc.CreatePayment(ctx, input); err != nil {
		t.Errorf("different competency should post: %v", err)
	}
}

func TestPayroll_CompetencyNormalizedToMonth(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPayrollService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	input := validPayrollInput()
	input.Competency = "2024-03-15"

	payment, err := svc.CreatePayment(ctx, input)
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if payment.Competency != "2024-03-01" {
		t.Errorf("competency = %s, want 2024-03-01", payment.Competency)
	}

	// A second posting anywhere in the same month is the same competency.
	second := validPayrollInput()
	second.Competency = "2024-03-28"
	_, err = svc.CreatePayment(ctx, second)
	if err == nil {
		t.Fatal("expected conflict for a second posting in the same month, got nil")
	}
	var ce *core.ConflictError
	if !errors.As(err, &ce) {
		t.Errorf("expected ConflictError, got %T: %v", err, err)
	}

	var count int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM payroll_payments WHERE employee_id = 1",
	).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("payments for employee 1 = %d, want 1", count)
	}
}

func TestPayroll_AtomicityOnBadExtraLine(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewPayrollService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	input := validPayrollInput()
	input.Extras[1].ProjectID = 777 // unknown project

	_, err := svc.CreatePayment(ctx, input)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var re *core.ReferenceNotFoundError
	if !errors.As(err, &re) {
		t.Errorf("expected ReferenceNotFoundError, got %T: %v", err, err)
	}

	var headers, lines int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM payroll_payments").Scan(&headers); err != nil {
		t.Fatal(err)
	}
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM payroll_extra_hours").Scan(&lines); err != nil {
		t.Fatal(err)
	}
	if headers != 0 || lines != 0 {
		t.Errorf("rejected posting left rows behind: %d headers, %d lines", headers, lines)
	}
}
