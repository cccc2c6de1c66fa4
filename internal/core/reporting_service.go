package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// DashboardFilter narrows dashboard aggregates to a month, year and/or
// project. Zero values mean unbounded.
type DashboardFilter struct {
	Month     int
	Year      int
	ProjectID int
}

// ProjectSpend is one project's totals on the dashboard.
type ProjectSpend struct {
	ProjectID     int             `json:"project_id"`
	ProjectName   string          `json:"project_name"`
	PurchaseTotal decimal.Decimal `json:"purchase_total"`
}

// Dashboard aggregates receipts against purchase and payroll spend.
type Dashboard struct {
	ReceiptTotal  decimal.Decimal `json:"receipt_total"`
	PurchaseTotal decimal.Decimal `json:"purchase_total"`
	PayrollTotal  decimal.Decimal `json:"payroll_total"` // base + extras
	Balance       decimal.Decimal `json:"balance"`       // receipts − purchases − payroll
	ByProject     []ProjectSpend  `json:"by_project"`
}

// ExtraHoursRow is one (payment, project) group in the extra-hours report.
type ExtraHoursRow struct {
	PaymentID    int             `json:"payment_id"`
	EmployeeID   int             `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Competency   string          `json:"competency"`
	ProjectID    int             `json:"project_id"`
	ProjectName  string          `json:"project_name"`
	HoursTotal   decimal.Decimal `json:"hours_total"`
	AmountTotal  decimal.Decimal `json:"amount_total"`
}

// ExtraHoursEmployeeTotal is the per-employee rollup of the same report.
type ExtraHoursEmployeeTotal struct {
	EmployeeID   int             `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	HoursTotal   decimal.Decimal `json:"hours_total"`
	AmountTotal  decimal.Decimal `json:"amount_total"`
}

// ExtraHoursReport is the overtime report: detail rows grouped by payment
// and project, plus totals per employee.
type ExtraHoursReport struct {
	Details    []ExtraHoursRow           `json:"details"`
	ByEmployee []ExtraHoursEmployeeTotal `json:"totals_by_employee"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only reporting over posted data. It
// preserves no invariants of its own; everything here is derived.
type ReportingService interface {
	GetDashboard(ctx context.Context, filter DashboardFilter) (*Dashboard, error)

	// GetExtraHoursReport filters by employee and/or competency month
	// ("YYYY-MM"); zero / empty means unbounded.
	GetExtraHoursReport(ctx context.Context, employeeID int, competency string) (*ExtraHoursReport, error)
}

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetDashboard(ctx context.Context, filter DashboardFilter) (*Dashboard, error) {
	d := &Dashboard{}

	receiptWhere, receiptArgs := dashboardWhere("receipt_date", "project_id", filter)
	if err := s.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM project_receipts "+receiptWhere,
		receiptArgs...,
	).Scan(&d.ReceiptTotal); err != nil {
		return nil, fmt.Errorf("dashboard receipts: %w", err)
	}

	purchaseWhere, purchaseArgs := dashboardWhere("purchase_date", "project_id", filter)
	if err := s.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(net_total), 0) FROM purchases "+purchaseWhere,
		purchaseArgs...,
	).Scan(&d.PurchaseTotal); err != nil {
		return nil, fmt.Errorf("dashboard purchases: %w", err)
	}

	// Payroll has no project on the header; when a project filter is set the
	// payroll slice is the extra hours booked on that project only.
	if filter.ProjectID > 0 {
		where, args := dashboardWhere("pp.payment_date", "eh.project_id", filter)
		if err := s.pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(eh.hours_qty * eh.hourly_rate), 0)
			FROM payroll_extra_hours eh
			JOIN payroll_payments pp ON pp.id = eh.payment_id `+where,
			args...,
		).Scan(&d.PayrollTotal); err != nil {
			return nil, fmt.Errorf("dashboard payroll extras: %w", err)
		}
	} else {
		where, args := dashboardWhere("payment_date", "", filter)
		if err := s.pool.QueryRow(ctx,
			"SELECT COALESCE(SUM(base_amount + extras_total), 0) FROM payroll_payments "+where,
			args...,
		).Scan(&d.PayrollTotal); err != nil {
			return nil, fmt.Errorf("dashboard payroll: %w", err)
		}
	}

	d.Balance = d.ReceiptTotal.Sub(d.PurchaseTotal).Sub(d.PayrollTotal)

	byProjectWhere, byProjectArgs := dashboardWhere("c.purchase_date", "c.project_id", filter)
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, COALESCE(SUM(c.net_total), 0)
		FROM purchases c
		JOIN projects p ON p.id = c.project_id `+byProjectWhere+`
		GROUP BY p.id, p.name
		ORDER BY p.name`,
		byProjectArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard by-project: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ps ProjectSpend
		if err := rows.Scan(&ps.ProjectID, &ps.ProjectName, &ps.PurchaseTotal); err != nil {
			return nil, fmt.Errorf("scan project spend: %w", err)
		}
		d.ByProject = append(d.ByProject, ps)
	}
	return d, rows.Err()
}

// dashboardWhere builds the WHERE clause for a dashboard aggregate.
// projectCol may be empty when the table has no project column.
func dashboardWhere(dateCol, projectCol string, filter DashboardFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.ProjectID > 0 && projectCol != "" {
		args = append(args, filter.ProjectID)
		conds = append(conds, fmt.Sprintf("%s = $%d", projectCol, len(args)))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		conds = append(conds, fmt.Sprintf("EXTRACT(YEAR FROM %s) = $%d", dateCol, len(args)))
	}
	if filter.Month > 0 {
		args = append(args, filter.Month)
		conds = append(conds, fmt.Sprintf("EXTRACT(MONTH FROM %s) = $%d", dateCol, len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (s *reportingService) GetExtraHoursReport(ctx context.Context, employeeID int, competency string) (*ExtraHoursReport, error) {
	var conds []string
	var args []any
	if employeeID > 0 {
		args = append(args, employeeID)
		conds = append(conds, fmt.Sprintf("pp.employee_id = $%d", len(args)))
	}
	if competency != "" {
		args = append(args, competency)
		conds = append(conds, fmt.Sprintf("to_char(pp.competency, 'YYYY-MM') = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	report := &ExtraHoursReport{}

	rows, err := s.pool.Query(ctx, `
		SELECT pp.id, pp.employee_id, e.name, pp.competency::text,
		       eh.project_id, p.name,
		       SUM(eh.hours_qty), SUM(eh.hours_qty * eh.hourly_rate)
		FROM payroll_extra_hours eh
		JOIN payroll_payments pp ON pp.id = eh.payment_id
		JOIN employees e ON e.id = pp.employee_id
		JOIN projects p ON p.id = eh.project_id `+where+`
		GROUP BY pp.id, pp.employee_id, e.name, pp.competency, eh.project_id, p.name
		ORDER BY e.name, pp.competency, p.name`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("extra-hours report details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r ExtraHoursRow
		if err := rows.Scan(
			&r.PaymentID, &r.EmployeeID, &r.EmployeeName, &r.Competency,
			&r.ProjectID, &r.ProjectName, &r.HoursTotal, &r.AmountTotal,
		); err != nil {
			return nil, fmt.Errorf("scan extra-hours row: %w", err)
		}
		report.Details = append(report.Details, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalRows, err := s.pool.Query(ctx, `
		SELECT pp.employee_id, e.name,
		       SUM(eh.hours_qty), SUM(eh.hours_qty * eh.hourly_rate)
		FROM payroll_extra_hours eh
		JOIN payroll_payments pp ON pp.id = eh.payment_id
		JOIN employees e ON e.id = pp.employee_id `+where+`
		GROUP BY pp.employee_id, e.name
		ORDER BY e.name`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("extra-hours report totals: %w", err)
	}
	defer totalRows.Close()

	for totalRows.Next() {
		var t ExtraHoursEmployeeTotal
		if err := totalRows.Scan(&t.EmployeeID, &t.EmployeeName, &t.HoursTotal, &t.AmountTotal); err != nil {
			return nil, fmt.Errorf("scan extra-hours total: %w", err)
		}
		report.ByEmployee = append(report.ByEmployee, t)
	}
	return report, totalRows.Err()
}
