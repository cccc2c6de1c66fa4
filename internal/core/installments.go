package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinInstallments = 1
	MaxInstallments = 12
)

// BuildInstallmentSchedule splits netTotal into n installments whose
// amounts sum to netTotal exactly, to the cent.
//
// Installments 1..n-1 carry base = netTotal/n truncated to 2 decimals;
// installment n carries base plus the whole truncation remainder, so all
// rounding drift lands on the final installment. Due dates advance one
// calendar month per index from the anchor, each computed from the anchor
// directly so a day-of-month overflow clamps to the target month's last
// day instead of drifting (Jan 31 → Feb 29 → Mar 31).
func BuildInstallmentSchedule(netTotal decimal.Decimal, n int, anchor time.Time) ([]InstallmentDraft, error) {
	if n < MinInstallments || n > MaxInstallments {
		return nil, Validationf("installment_count", "must be between %d and %d, got %d", MinInstallments, MaxInstallments, n)
	}
	if netTotal.IsNegative() {
		return nil, Validationf("net_total", "must be >= 0, got %s", netTotal.StringFixed(2))
	}

	count := decimal.NewFromInt(int64(n))
	base := netTotal.Div(count).Truncate(2)
	adjustment := netTotal.Sub(base.Mul(count))

	drafts := make([]InstallmentDraft, n)
	for i := 0; i < n; i++ {
		amount := base
		if i == n-1 {
			amount = base.Add(adjustment)
		}
		drafts[i] = InstallmentDraft{
			InstallmentNo: i + 1,
			Amount:        amount,
			DueDate:       addMonthsClamped(anchor, i),
		}
	}
	return drafts, nil
}

// addMonthsClamped advances t by months calendar months, clamping the day
// to the last valid day of the target month. time.AddDate is not used
// because it normalizes overflow (Jan 31 + 1 month = Mar 2/3).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	ty := y + total/12
	tm := time.Month(total%12 + 1)
	if total < 0 {
		// Go's integer division truncates toward zero; rebalance for
		// negative month offsets.
		ty = y + (total-11)/12
		tm = time.Month((total%12+12)%12 + 1)
	}
	if last := daysInMonth(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
