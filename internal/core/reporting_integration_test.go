package core_test

import (
	"context"
	"testing"

	"construction-ledger/internal/core"
	"construction-ledger/internal/logger"

	"github.com/shopspring/decimal"
)

func TestReporting_Dashboard(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	purchases := core.NewPurchaseService(pool, logger.WithComponent("test"))
	payroll := core.NewPayrollService(pool, logger.WithComponent("test"))
	receipts := core.NewReceiptService(pool)
	reporting := core.NewReportingService(pool)

	// Purchase: net total 50.00, dated 2024-01-15.
	if _, err := purchases.CreatePurchase(ctx, validPurchaseInput()); err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	// Payroll: 2500.00 base + 330.00 extras, paid 2024-04-05.
	if _, err := payroll.CreatePayment(ctx, validPayrollInput()); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	// Receipt: 10000.00 on 2024-01-20.
	if _, err := receipts.Create(ctx, 1, "2024-01-20", decimal.RequireFromString("10000.00"), "first draw"); err != nil {
		t.Fatalf("Create receipt: %v", err)
	}

	t.Run("unfiltered balance", func(t *testing.T) {
		dash, err := reporting.GetDashboard(ctx, core.DashboardFilter{})
		if err != nil {
			t.Fatalf("GetDashboard: %v", err)
		}
		if got := dash.ReceiptTotal.StringFixed(2); got != "10000.00" {
			t.Errorf("receipt total = %s, want 10000.00", got)
		}
		if got := dash.PurchaseTotal.StringFixed(2); got != "50.00" {
			t.Errorf("purchase total = %s, want 50.00", got)
		}
		if got := dash.PayrollTotal.StringFixed(2); got != "2830.00" {
			t.Errorf("payroll total = %s, want 2830.00", got)
		}
		// 10000 − 50 − 2830
		if got := dash.Balance.StringFixed(2); got != "7120.00" {
			t.Errorf("balance = %s, want 7120.00", got)
		}
		if len(dash.ByProject) != 1 || dash.ByProject[0].ProjectID != 1 {
			t.Errorf("by-project breakdown = %+v", dash.ByProject)
		}
	})

	t.Run("month filter excludes other months", func(t *testing.T) {
		dash, err := reporting.GetDashboard(ctx, core.DashboardFilter{Month: 1, Year: 2024})
		if err != nil {
			t.Fatalf("GetDashboard: %v", err)
		}
		if got := dash.PurchaseTotal.StringFixed(2); got != "50.00" {
			t.Errorf("January purchase total = %s, want 50.00", got)
		}
		if !dash.PayrollTotal.IsZero() {
			t.Errorf("January payroll total = %s, want 0 (paid in April)", dash.PayrollTotal)
		}
	})
}

func TestReporting_ExtraHours(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	payroll := core.NewPayrollService(pool, logger.WithComponent("test"))
	reporting := core.NewReportingService(pool)

	if _, err := payroll.CreatePayment(ctx, validPayrollInput()); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	report, err := reporting.GetExtraHoursReport(ctx, 0, "")
	if err != nil {
		t.Fatalf("GetExtraHoursReport: %v", err)
	}
	if len(report.Details) != 1 {
		t.Fatalf("detail rows = %d, want 1 (grouped by payment and project)", len(report.Details))
	}
	d := report.Details[0]
	if got := d.HoursTotal.StringFixed(2); got != "14.50" {
		t.Errorf("hours total = %s, want 14.50", got)
	}
	if got := d.AmountTotal.StringFixed(2); got != "330.00" {
		t.Errorf("amount total = %s, want 330.00", got)
	}

	if len(report.ByEmployee) != 1 {
		t.Fatalf("employee totals = %d, want 1", len(report.ByEmployee))
	}
	if got := report.ByEmployee[0].AmountTotal.StringFixed(2); got != "330.00" {
		t.Errorf("employee amount total = %s, want 330.00", got)
	}

	t.Run("competency filter", func(t *testing.T) {
		report, err := reporting.GetExtraHoursReport(ctx, 1, "2024-03")
		if err != nil {
			t.Fatalf("GetExtraHoursReport: %v", err)
		}
		if len(report.Details) != 1 {
			t.Errorf("March detail rows = %d, want 1", len(report.Details))
		}

		empty, err := reporting.GetExtraHoursReport(ctx, 1, "2024-07")
		if err != nil {
			t.Fatalf("GetExtraHoursReport: %v", err)
		}
		if len(empty.Details) != 0 {
			t.Errorf("July detail rows = %d, want 0", len(empty.Details))
		}
	})
}
