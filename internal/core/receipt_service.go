package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ReceiptService records amounts received for projects — the revenue side
// of the dashboard.
type ReceiptService interface {
	Create(ctx context.Context, projectID int, receiptDate string, amount decimal.Decimal, notes string) (*ProjectReceipt, error)
	List(ctx context.Context) ([]ProjectReceipt, error)
}

type receiptService struct {
	pool *pgxpool.Pool
}

// NewReceiptService constructs a ReceiptService backed by PostgreSQL.
func NewReceiptService(pool *pgxpool.Pool) ReceiptService {
	return &receiptService{pool: pool}
}

func (s *receiptService) Create(ctx context.Context, projectID int, receiptDate string, amount decimal.Decimal, notes string) (*ProjectReceipt, error) {
	if _, err := time.Parse("2006-01-02", receiptDate); err != nil {
		return nil, Validationf("receipt_date", "invalid date %q", receiptDate)
	}
	if !amount.IsPositive() {
		return nil, Validationf("amount", "must be > 0, got %s", amount.StringFixed(2))
	}
	if err := CheckReferences(ctx, s.pool, EntityRef{Entity: "project", ID: projectID}); err != nil {
		return nil, err
	}

	var toNotes *string
	if notes != "" {
		toNotes = &notes
	}

	r := &ProjectReceipt{}
	if err := s.pool.QueryRow(ctx, `
		INSERT INTO project_receipts (project_id, receipt_date, amount, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, receipt_date::text, amount, notes`,
		projectID, receiptDate, amount, toNotes,
	).Scan(&r.ID, &r.ProjectID, &r.ReceiptDate, &r.Amount, &r.Notes); err != nil {
		return nil, fmt.Errorf("insert project receipt: %w", err)
	}
	return r, nil
}

func (s *receiptService) List(ctx context.Context) ([]ProjectReceipt, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.project_id, p.name, r.receipt_date::text, r.amount, r.notes
		FROM project_receipts r
		JOIN projects p ON p.id = r.project_id
		ORDER BY r.receipt_date DESC, r.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list project receipts: %w", err)
	}
	defer rows.Close()

	var receipts []ProjectReceipt
	for rows.Next() {
		var r ProjectReceipt
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.ProjectName, &r.ReceiptDate, &r.Amount, &r.Notes); err != nil {
			return nil, fmt.Errorf("scan project receipt: %w", err)
		}
		receipts = append(receipts, r)
	}
	return receipts, rows.Err()
}
