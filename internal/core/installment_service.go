package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InstallmentListEntry is an installment with its purchase and project
// context, as shown on the payables screen.
type InstallmentListEntry struct {
	Installment
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	InstallmentCount int             `json:"installment_count"`
	PurchaseNetTotal decimal.Decimal `json:"purchase_net_total"`
	ProjectName      string          `json:"project_name"`
}

type InstallmentService interface {
	// List returns all installments ordered by due date, with purchase and
	// project context.
	List(ctx context.Context) ([]InstallmentListEntry, error)

	// Pay transitions a PENDING installment to PAID and stamps the payment
	// date with the current date. Paying a missing installment is
	// not-found; re-paying a PAID one is a conflict.
	Pay(ctx context.Context, installmentID int) (*Installment, error)
}

type installmentService struct {
	pool *pgxpool.Pool
}

// NewInstallmentService constructs an InstallmentService backed by PostgreSQL.
func NewInstallmentService(pool *pgxpool.Pool) InstallmentService {
	return &installmentService{pool: pool}
}

func (s *installmentService) List(ctx context.Context) ([]InstallmentListEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.purchase_id, i.installment_no, i.amount, i.due_date::text,
		       i.status, i.payment_date::text,
		       c.payment_method, c.installment_count, c.net_total, pr.name
		FROM installments i
		JOIN purchases c ON c.id = i.purchase_id
		JOIN projects pr ON pr.id = c.project_id
		ORDER BY i.due_date ASC, i.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	defer rows.Close()

	var entries []InstallmentListEntry
	for rows.Next() {
		var e InstallmentListEntry
		if err := rows.Scan(
			&e.ID, &e.PurchaseID, &e.InstallmentNo, &e.Amount, &e.DueDate,
			&e.Status, &e.PaymentDate,
			&e.PaymentMethod, &e.InstallmentCount, &e.PurchaseNetTotal, &e.ProjectName,
		); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *installmentService) Pay(ctx context.Context, installmentID int) (*Installment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status InstallmentStatus
	if err := tx.QueryRow(ctx,
		"SELECT status FROM installments WHERE id = $1 FOR UPDATE",
		installmentID,
	).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "installment", ID: installmentID}
		}
		return nil, fmt.Errorf("fetch installment %d: %w", installmentID, err)
	}

	// PAID is terminal; the payment date is never overwritten.
	if status == InstallmentPaid {
		return nil, Conflictf("installment %d is already paid", installmentID)
	}

	ins := &Installment{}
	if err := tx.QueryRow(ctx, `
		UPDATE installments
		SET status = $1, payment_date = CURRENT_DATE
		WHERE id = $2
		RETURNING id, purchase_id, installment_no, amount, due_date::text, status, payment_date::text`,
		string(InstallmentPaid), installmentID,
	).Scan(
		&ins.ID, &ins.PurchaseID, &ins.InstallmentNo, &ins.Amount, &ins.DueDate, &ins.Status, &ins.PaymentDate,
	); err != nil {
		return nil, fmt.Errorf("mark installment %d paid: %w", installmentID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit installment payment: %w", err)
	}
	return ins, nil
}
