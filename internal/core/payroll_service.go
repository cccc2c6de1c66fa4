package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type PayrollService interface {
	// CreatePayment atomically posts a payroll payment: header, extra-hours
	// lines and the recomputed extras_total in one transaction. A second
	// posting for the same employee and competency is a conflict.
	CreatePayment(ctx context.Context, input PayrollInput) (*PayrollPayment, error)

	// GetPayment returns a payment with its extra-hours lines.
	GetPayment(ctx context.Context, paymentID int) (*PayrollPayment, error)

	// GetPayments lists payments, newest first.
	GetPayments(ctx context.Context) ([]PayrollPayment, error)
}

type payrollService struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPayrollService constructs a PayrollService backed by PostgreSQL.
func NewPayrollService(pool *pgxpool.Pool, log zerolog.Logger) PayrollService {
	return &payrollService{pool: pool, log: log}
}

func (in *PayrollInput) validate() error {
	if in.EmployeeID <= 0 {
		return Validationf("employee_id", "must be a positive integer")
	}
	ct, err := time.Parse("2006-01-02", in.Competency)
	if err != nil {
		return Validationf("competency", "invalid date %q", in.Competency)
	}
	// Competency identifies a month; any day within it maps to the first,
	// so the per-month uniqueness constraint holds regardless of the day
	// the caller submits.
	in.Competency = time.Date(ct.Year(), ct.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	if _, err := time.Parse("2006-01-02", in.PaymentDate); err != nil {
		return Validationf("payment_date", "invalid date %q", in.PaymentDate)
	}
	if in.BaseAmount.IsNegative() {
		return Validationf("base_amount", "must be >= 0, got %s", in.BaseAmount.StringFixed(2))
	}
	for i, ex := range in.Extras {
		if ex.ProjectID <= 0 {
			return Validationf("extras", "line %d: project_id must be a positive integer", i+1)
		}
		if !ex.HoursQty.IsPositive() {
			return Validationf("extras", "line %d: hours_qty must be > 0", i+1)
		}
		if ex.HourlyRate.IsNegative() {
			return Validationf("extras", "line %d: hourly_rate must be >= 0", i+1)
		}
	}
	return nil
}

func (s *payrollService) CreatePayment(ctx context.Context, input PayrollInput) (*PayrollPayment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	refs := []EntityRef{{Entity: "employee", ID: input.EmployeeID}}
	for _, ex := range input.Extras {
		refs = append(refs, EntityRef{Entity: "project", ID: ex.ProjectID})
	}
	if err := CheckReferences(ctx, tx, refs...); err != nil {
		return nil, err
	}

	var toNotes *string
	if input.Notes != "" {
		toNotes = &input.Notes
	}
	var toReceipt *string
	if input.ReceiptKey != "" {
		toReceipt = &input.ReceiptKey
	}

	var paymentID int
	err = tx.QueryRow(ctx, `
		INSERT INTO payroll_payments (employee_id, competency, payment_date, base_amount, extras_total, notes, receipt_key)
		VALUES ($1, $2, $3, $4, 0.00, $5, $6)
		RETURNING id`,
		input.EmployeeID, input.Competency, input.PaymentDate, input.BaseAmount, toNotes, toReceipt,
	).Scan(&paymentID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, Conflictf("payment for employee %d and competency %s already exists",
				input.EmployeeID, input.Competency)
		}
		return nil, fmt.Errorf("insert payroll payment: %w", err)
	}

	for i, ex := range input.Extras {
		if _, err := tx.Exec(ctx, `
			INSERT INTO payroll_extra_hours (payment_id, project_id, hours_qty, hourly_rate, created_at)
			VALUES ($1, $2, $3, $4, NOW())`,
			paymentID, ex.ProjectID, ex.HoursQty, ex.HourlyRate,
		); err != nil {
			return nil, fmt.Errorf("insert extra-hours line %d: %w", i+1, err)
		}
	}

	// extras_total is recomputed from the just-inserted rows, not kept as a
	// running counter, so a retried or partial batch can never drift it.
	if len(input.Extras) > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE payroll_payments pp
			SET extras_total = (
				SELECT COALESCE(SUM(hours_qty * hourly_rate), 0)
				FROM payroll_extra_hours
				WHERE payment_id = pp.id
			)
			WHERE pp.id = $1`,
			paymentID,
		); err != nil {
			return nil, fmt.Errorf("recompute extras total: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payroll payment: %w", err)
	}

	s.log.Info().
		Int("payment_id", paymentID).
		Int("employee_id", input.EmployeeID).
		Str("competency", input.Competency).
		Int("extra_lines", len(input.Extras)).
		Msg("payroll payment posted")

	return s.GetPayment(ctx, paymentID)
}

func (s *payrollService) GetPayment(ctx context.Context, paymentID int) (*PayrollPayment, error) {
	p := &PayrollPayment{}
	if err := s.pool.QueryRow(ctx, `
		SELECT pp.id, pp.employee_id, e.name, e.role,
		       pp.competency::text, pp.payment_date::text,
		       pp.base_amount, pp.extras_total, pp.notes, pp.receipt_key, pp.created_at
		FROM payroll_payments pp
		JOIN employees e ON e.id = pp.employee_id
		WHERE pp.id = $1`,
		paymentID,
	).Scan(
		&p.ID, &p.EmployeeID, &p.EmployeeName, &p.EmployeeRole,
		&p.Competency, &p.PaymentDate,
		&p.BaseAmount, &p.ExtrasTotal, &p.Notes, &p.ReceiptKey, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "payroll payment", ID: paymentID}
		}
		return nil, fmt.Errorf("get payroll payment %d: %w", paymentID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT eh.id, eh.payment_id, eh.project_id, pr.name,
		       eh.hours_qty, eh.hourly_rate, eh.hours_qty * eh.hourly_rate, eh.created_at
		FROM payroll_extra_hours eh
		JOIN projects pr ON pr.id = eh.project_id
		WHERE eh.payment_id = $1
		ORDER BY pr.name, eh.id`,
		paymentID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch extra hours for payment %d: %w", paymentID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l ExtraHoursLine
		if err := rows.Scan(
			&l.ID, &l.PaymentID, &l.ProjectID, &l.ProjectName,
			&l.HoursQty, &l.HourlyRate, &l.LineTotal, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan extra-hours line: %w", err)
		}
		p.Extras = append(p.Extras, l)
	}
	return p, rows.Err()
}

func (s *payrollService) GetPayments(ctx context.Context) ([]PayrollPayment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pp.id, pp.employee_id, e.name, e.role,
		       pp.competency::text, pp.payment_date::text,
		       pp.base_amount, pp.extras_total, pp.notes, pp.receipt_key, pp.created_at
		FROM payroll_payments pp
		JOIN employees e ON e.id = pp.employee_id
		ORDER BY pp.payment_date DESC, pp.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list payroll payments: %w", err)
	}
	defer rows.Close()

	var payments []PayrollPayment
	for rows.Next() {
		var p PayrollPayment
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.EmployeeName, &p.EmployeeRole,
			&p.Competency, &p.PaymentDate,
			&p.BaseAmount, &p.ExtrasTotal, &p.Notes, &p.ReceiptKey, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payroll payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
