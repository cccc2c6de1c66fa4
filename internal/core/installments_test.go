package core_test

import (
	"testing"
	"time"

	"construction-ledger/internal/core"

	"github.com/shopspring/decimal"
)

func TestBuildInstallmentSchedule_TruncationExample(t *testing.T) {
	// 50.00 over 3: two at 16.66 plus the remainder on the last.
	anchor := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	drafts, err := core.BuildInstallmentSchedule(decimal.RequireFromString("50.00"), 3, anchor)
	if err != nil {
		t.Fatalf("BuildInstallmentSchedule: %v", err)
	}

	wantAmounts := []string{"16.66", "16.66", "16.68"}
	wantDates := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
	for i, d := range drafts {
		if d.InstallmentNo != i+1 {
			t.Errorf("draft %d: installment_no = %d, want %d", i, d.InstallmentNo, i+1)
		}
		if got := d.Amount.StringFixed(2); got != wantAmounts[i] {
			t.Errorf("draft %d: amount = %s, want %s", i, got, wantAmounts[i])
		}
		if got := d.DueDate.Format("2006-01-02"); got != wantDates[i] {
			t.Errorf("draft %d: due date = %s, want %s", i, got, wantDates[i])
		}
	}
}

func TestBuildInstallmentSchedule_SumInvariant(t *testing.T) {
	// Sweep a range of cent totals against every allowed count: the
	// schedule must sum to the net total exactly and never contain a
	// negative amount.
	anchor := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	for cents := int64(0); cents <= 100_000; cents += 37 {
		netTotal := decimal.New(cents, -2)
		for n := core.MinInstallments; n <= core.MaxInstallments; n++ {
			drafts, err := core.BuildInstallmentSchedule(netTotal, n, anchor)
			if err != nil {
				t.Fatalf("netTotal=%s n=%d: %v", netTotal, n, err)
			}
			if len(drafts) != n {
				t.Fatalf("netTotal=%s n=%d: got %d drafts", netTotal, n, len(drafts))
			}
			sum := decimal.Zero
			for _, d := range drafts {
				if d.Amount.IsNegative() {
					t.Fatalf("netTotal=%s n=%d: negative installment %s", netTotal, n, d.Amount)
				}
				sum = sum.Add(d.Amount)
			}
			if !sum.Equal(netTotal) {
				t.Fatalf("netTotal=%s n=%d: schedule sums to %s", netTotal, n, sum)
			}
		}
	}
}

func TestBuildInstallmentSchedule_SingleInstallment(t *testing.T) {
	anchor := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	net := decimal.RequireFromString("123.45")
	drafts, err := core.BuildInstallmentSchedule(net, 1, anchor)
	if err != nil {
		t.Fatalf("BuildInstallmentSchedule: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	if !drafts[0].Amount.Equal(net) {
		t.Errorf("amount = %s, want %s", drafts[0].Amount, net)
	}
	if !drafts[0].DueDate.Equal(anchor) {
		t.Errorf("due date = %s, want %s", drafts[0].DueDate, anchor)
	}
}

func TestBuildInstallmentSchedule_ZeroNetTotal(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	drafts, err := core.BuildInstallmentSchedule(decimal.Zero, 4, anchor)
	if err != nil {
		t.Fatalf("BuildInstallmentSchedule: %v", err)
	}
	for i, d := range drafts {
		if !d.Amount.IsZero() {
			t.Errorf("draft %d: amount = %s, want 0", i, d.Amount)
		}
	}
}

func TestBuildInstallmentSchedule_InvalidCount(t *testing.T) {
	anchor := time.Now()
	for _, n := range []int{0, -1, 13, 100} {
		if _, err := core.BuildInstallmentSchedule(decimal.RequireFromString("10.00"), n, anchor); err == nil {
			t.Errorf("n=%d: expected error, got nil", n)
		}
	}
}

func TestBuildInstallmentSchedule_NegativeNetTotal(t *testing.T) {
	if _, err := core.BuildInstallmentSchedule(decimal.RequireFromString("-0.01"), 2, time.Now()); err == nil {
		t.Error("expected error for negative net total, got nil")
	}
}

func TestBuildInstallmentSchedule_DueDateClamping(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		n      int
		want   []string
	}{
		{
			name:   "end of January across leap February",
			anchor: "2024-01-31",
			n:      4,
			want:   []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"},
		},
		{
			name:   "end of January, non-leap year",
			anchor: "2025-01-30",
			n:      2,
			want:   []string{"2025-01-30", "2025-02-28"},
		},
		{
			name:   "mid-month never clamps",
			anchor: "2025-11-15",
			n:      3,
			want:   []string{"2025-11-15", "2025-12-15", "2026-01-15"},
		},
		{
			name:   "year rollover from December",
			anchor: "2025-12-31",
			n:      3,
			want:   []string{"2025-12-31", "2026-01-31", "2026-02-28"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			anchor, err := time.Parse("2006-01-02", tc.anchor)
			if err != nil {
				t.Fatal(err)
			}
			drafts, err := core.BuildInstallmentSchedule(decimal.RequireFromString("100.00"), tc.n, anchor)
			if err != nil {
				t.Fatalf("BuildInstallmentSchedule: %v", err)
			}
			for i, d := range drafts {
				if got := d.DueDate.Format("2006-01-02"); got != tc.want[i] {
					t.Errorf("installment %d: due date = %s, want %s", i+1, got, tc.want[i])
				}
			}
		})
	}
}
