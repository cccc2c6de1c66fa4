package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PayCash            PaymentMethod = "CASH"
	PayInstantTransfer PaymentMethod = "INSTANT_TRANSFER"
	PayCard            PaymentMethod = "CARD"
	PayDeferredInvoice PaymentMethod = "DEFERRED_INVOICE"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PayCash, PayInstantTransfer, PayCard, PayDeferredInvoice:
		return true
	}
	return false
}

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
)

// Purchase is a posted purchase header with its items and installment
// schedule.
type Purchase struct {
	ID               int             `json:"id"`
	ProjectID        int             `json:"project_id"`
	ProjectName      string          `json:"project_name"`
	SupplierID       int             `json:"supplier_id"`
	SupplierName     string          `json:"supplier_name"`
	EmployeeID       int             `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	PurchaseDate     string          `json:"purchase_date"`
	DueDate          string          `json:"due_date"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	InstallmentCount int             `json:"installment_count"`
	Notes            *string         `json:"notes,omitempty"`
	DiscountTotal    decimal.Decimal `json:"discount_total"`
	NetTotal         decimal.Decimal `json:"net_total"`
	ReceiptKey       *string         `json:"-"`
	ReceiptURL       string          `json:"receipt_url,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	Items            []PurchaseItem  `json:"items,omitempty"`
	Installments     []Installment   `json:"installments,omitempty"`
}

// PurchaseItem is one line of a purchase.
type PurchaseItem struct {
	ID           int             `json:"id"`
	PurchaseID   int             `json:"purchase_id"`
	ProductID    int             `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ItemDiscount decimal.Decimal `json:"item_discount"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// Installment is one due-dated portion of a purchase's net total.
type Installment struct {
	ID            int               `json:"id"`
	PurchaseID    int               `json:"purchase_id"`
	InstallmentNo int               `json:"installment_no"`
	Amount        decimal.Decimal   `json:"amount"`
	DueDate       string            `json:"due_date"`
	Status        InstallmentStatus `json:"status"`
	PaymentDate   *string           `json:"payment_date,omitempty"`
}

// PurchaseItemInput is a raw line item as submitted by the caller.
type PurchaseItemInput struct {
	ProductID int             `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// InstallmentDraft is a scheduled installment before it is persisted.
type InstallmentDraft struct {
	InstallmentNo int
	Amount        decimal.Decimal
	DueDate       time.Time
}
