package core_test

import (
	"context"
	"errors"
	"testing"

	"construction-ledger/internal/core"
	"construction-ledger/internal/logger"
)

func TestInstallment_PayAndRepayConflict(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	purchases := core.NewPurchaseService(pool, logger.WithComponent("test"))
	installments := core.NewInstallmentService(pool)

	posting, err := purchases.CreatePurchase(ctx, validPurchaseInput())
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	entries, err := installments.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != posting.InstallmentCount {
		t.Fatalf("listed %d installments, want %d", len(entries), posting.InstallmentCount)
	}
	first := entries[0]
	if first.Status != core.InstallmentPending {
		t.Fatalf("new installment status = %s, want PENDING", first.Status)
	}

	paid, err := installments.Pay(ctx, first.ID)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if paid.Status != core.InstallmentPaid {
		t.Errorf("status after pay = %s, want PAID", paid.Status)
	}
	if paid.PaymentDate == nil || *paid.PaymentDate == "" {
		t.Error("payment date not stamped")
	}

	t.Run("re-pay is a conflict and keeps the original date", func(t *testing.T) {
		_, err := installments.Pay(ctx, first.ID)
		if err == nil {
			t.Fatal("expected conflict, got nil")
		}
		var ce *core.ConflictError
		if !errors.As(err, &ce) {
			t.Errorf("expected ConflictError, got %T: %v", err, err)
		}

		var date *string
		if qerr := pool.QueryRow(ctx,
			"SELECT payment_date::text FROM installments WHERE id = $1", first.ID,
		).Scan(&date); qerr != nil {
			t.Fatal(qerr)
		}
		if date == nil || *date != *paid.PaymentDate {
			t.Errorf("payment date changed after rejected re-pay")
		}
	})
}

func TestInstallment_PayMissing(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	installments := core.NewInstallmentService(pool)
	_, err := installments.Pay(context.Background(), 9999)
	if err == nil {
		t.Fatal("expected not-found, got nil")
	}
	var nf *core.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %T: %v", err, err)
	}
}
