package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PurchaseInput is a purchase posting as submitted by the caller.
type PurchaseInput struct {
	ProjectID        int
	SupplierID       int
	EmployeeID       int
	PurchaseDate     string // YYYY-MM-DD
	DueDate          string // YYYY-MM-DD, anchor for installment 1
	PaymentMethod    PaymentMethod
	InstallmentCount int
	Notes            string
	DiscountTotal    decimal.Decimal
	ReceiptKey       string
	Items            []PurchaseItemInput
}

// PurchasePosting is returned on a successful posting.
type PurchasePosting struct {
	ID               int             `json:"id"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountTotal    decimal.Decimal `json:"discount_total"`
	NetTotal         decimal.Decimal `json:"net_total"`
	InstallmentCount int             `json:"installment_count"`
}

type PurchaseService interface {
	// CreatePurchase atomically posts a purchase: header, items, net total
	// and the full installment schedule in one transaction.
	CreatePurchase(ctx context.Context, input PurchaseInput) (*PurchasePosting, error)

	// GetPurchase returns a purchase with its items and installments.
	GetPurchase(ctx context.Context, purchaseID int) (*Purchase, error)

	// GetPurchases lists purchase headers, newest first, with item counts.
	GetPurchases(ctx context.Context) ([]Purchase, error)
}

type purchaseService struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewPurchaseService constructs a PurchaseService backed by PostgreSQL.
func NewPurchaseService(pool *pgxpool.Pool, log zerolog.Logger) PurchaseService {
	return &purchaseService{pool: pool, log: log}
}

// validate runs every check that needs no database access. It is called
// before the transaction opens so malformed input never costs a write.
func (in *PurchaseInput) validate() error {
	if in.ProjectID <= 0 {
		return Validationf("project_id", "must be a positive integer")
	}
	if in.SupplierID <= 0 {
		return Validationf("supplier_id", "must be a positive integer")
	}
	if in.EmployeeID <= 0 {
		return Validationf("employee_id", "must be a positive integer")
	}
	if _, err := time.Parse("2006-01-02", in.PurchaseDate); err != nil {
		return Validationf("purchase_date", "invalid date %q", in.PurchaseDate)
	}
	if _, err := time.Parse("2006-01-02", in.DueDate); err != nil {
		return Validationf("due_date", "invalid date %q", in.DueDate)
	}
	if !ValidPaymentMethod(in.PaymentMethod) {
		return Validationf("payment_method", "invalid payment method %q", in.PaymentMethod)
	}
	if in.InstallmentCount < MinInstallments || in.InstallmentCount > MaxInstallments {
		return Validationf("installment_count", "must be between %d and %d, got %d",
			MinInstallments, MaxInstallments, in.InstallmentCount)
	}
	if in.DiscountTotal.IsNegative() {
		return Validationf("discount_total", "must be >= 0, got %s", in.DiscountTotal.StringFixed(2))
	}
	return nil
}

func (s *purchaseService) CreatePurchase(ctx context.Context, input PurchaseInput) (*PurchasePosting, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	items, subtotal, err := AccumulateItems(input.Items)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Reference checks run first, inside the transaction, so no write
	// happens against a reference that vanished after a stale read.
	refs := []EntityRef{
		{Entity: "project", ID: input.ProjectID},
		{Entity: "supplier", ID: input.SupplierID},
		{Entity: "employee", ID: input.EmployeeID},
	}
	for _, it := range items {
		refs = append(refs, EntityRef{Entity: "product", ID: it.ProductID})
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

	// Header goes in with a zero net total; the confirmed total is written
	// once line totals are known, within this same transaction.
	var purchaseID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO purchases (project_id, supplier_id, employee_id, purchase_date, due_date,
		                       payment_method, installment_count, notes, discount_total, net_total, receipt_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0.00, $10)
		RETURNING id`,
		input.ProjectID, input.SupplierID, input.EmployeeID, input.PurchaseDate, input.DueDate,
		string(input.PaymentMethod), input.InstallmentCount, toNotes, input.DiscountTotal, toReceipt,
	).Scan(&purchaseID); err != nil {
		return nil, fmt.Errorf("insert purchase header: %w", err)
	}

	for i, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO purchase_items (purchase_id, product_id, quantity, unit_price, item_discount, line_total)
			VALUES ($1, $2, $3, $4, 0.00, $5)`,
			purchaseID, it.ProductID, it.Quantity, it.UnitPrice, it.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("insert purchase item %d: %w", i+1, err)
		}
	}

	netTotal := NetTotal(subtotal, input.DiscountTotal)
	if _, err := tx.Exec(ctx,
		"UPDATE purchases SET net_total = $1 WHERE id = $2",
		netTotal, purchaseID,
	); err != nil {
		return nil, fmt.Errorf("update purchase net total: %w", err)
	}

	anchor, _ := time.Parse("2006-01-02", input.DueDate)
	schedule, err := BuildInstallmentSchedule(netTotal, input.InstallmentCount, anchor)
	if err != nil {
		return nil, err
	}
	for _, d := range schedule {
		if _, err := tx.Exec(ctx, `
			INSERT INTO installments (purchase_id, installment_no, amount, due_date, status)
			VALUES ($1, $2, $3, $4, $5)`,
			purchaseID, d.InstallmentNo, d.Amount, d.DueDate.Format("2006-01-02"), string(InstallmentPending),
		); err != nil {
			return nil, fmt.Errorf("insert installment %d: %w", d.InstallmentNo, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase: %w", err)
	}

	s.log.Info().
		Int("purchase_id", purchaseID).
		Str("net_total", netTotal.StringFixed(2)).
		Int("installments", input.InstallmentCount).
		Msg("purchase posted")

	return &PurchasePosting{
		ID:               purchaseID,
		Subtotal:         subtotal,
		DiscountTotal:    input.DiscountTotal,
		NetTotal:         netTotal,
		InstallmentCount: input.InstallmentCount,
	}, nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, purchaseID int) (*Purchase, error) {
	p := &Purchase{}
	if err := s.pool.QueryRow(ctx, `
		SELECT c.id, c.project_id, pr.name, c.supplier_id, s.name, c.employee_id, e.name,
		       c.purchase_date::text, c.due_date::text, c.payment_method, c.installment_count,
		       c.notes, c.discount_total, c.net_total, c.receipt_key, c.created_at
		FROM purchases c
		JOIN projects pr ON pr.id = c.project_id
		JOIN suppliers s ON s.id = c.supplier_id
		JOIN employees e ON e.id = c.employee_id
		WHERE c.id = $1`,
		purchaseID,
	).Scan(
		&p.ID, &p.ProjectID, &p.ProjectName, &p.SupplierID, &p.SupplierName, &p.EmployeeID, &p.EmployeeName,
		&p.PurchaseDate, &p.DueDate, &p.PaymentMethod, &p.InstallmentCount,
		&p.Notes, &p.DiscountTotal, &p.NetTotal, &p.ReceiptKey, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "purchase", ID: purchaseID}
		}
		return nil, fmt.Errorf("get purchase %d: %w", purchaseID, err)
	}

	items, err := s.fetchItems(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	p.Items = items

	installments, err := s.fetchInstallments(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	p.Installments = installments
	return p, nil
}

func (s *purchaseService) GetPurchases(ctx context.Context) ([]Purchase, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.project_id, pr.name, c.supplier_id, s.name, c.employee_id, e.name,
		       c.purchase_date::text, c.due_date::text, c.payment_method, c.installment_count,
		       c.notes, c.discount_total, c.net_total, c.receipt_key, c.created_at
		FROM purchases c
		JOIN projects pr ON pr.id = c.project_id
		JOIN suppliers s ON s.id = c.supplier_id
		JOIN employees e ON e.id = c.employee_id
		ORDER BY c.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(
			&p.ID, &p.ProjectID, &p.ProjectName, &p.SupplierID, &p.SupplierName, &p.EmployeeID, &p.EmployeeName,
			&p.PurchaseDate, &p.DueDate, &p.PaymentMethod, &p.InstallmentCount,
			&p.Notes, &p.DiscountTotal, &p.NetTotal, &p.ReceiptKey, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func (s *purchaseService) fetchItems(ctx context.Context, purchaseID int) ([]PurchaseItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ci.id, ci.purchase_id, ci.product_id, p.name,
		       ci.quantity, ci.unit_price, ci.item_discount, ci.line_total
		FROM purchase_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.purchase_id = $1
		ORDER BY ci.id`,
		purchaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch items for purchase %d: %w", purchaseID, err)
	}
	defer rows.Close()

	var items []PurchaseItem
	for rows.Next() {
		var it PurchaseItem
		if err := rows.Scan(
			&it.ID, &it.PurchaseID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.ItemDiscount, &it.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *purchaseService) fetchInstallments(ctx context.Context, purchaseID int) ([]Installment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, purchase_id, installment_no, amount, due_date::text, status, payment_date::text
		FROM installments
		WHERE purchase_id = $1
		ORDER BY installment_no`,
		purchaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch installments for purchase %d: %w", purchaseID, err)
	}
	defer rows.Close()

	var installments []Installment
	for rows.Next() {
		var ins Installment
		if err := rows.Scan(
			&ins.ID, &ins.PurchaseID, &ins.InstallmentNo, &ins.Amount, &ins.DueDate, &ins.Status, &ins.PaymentDate,
		); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		installments = append(installments, ins)
	}
	return installments, rows.Err()
}
