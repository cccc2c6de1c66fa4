package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollPayment is a monthly payment posting for one employee. ExtrasTotal
// is derived from the payment's extra-hours lines and recomputed inside the
// posting transaction whenever lines are inserted.
type PayrollPayment struct {
	ID           int              `json:"id"`
	EmployeeID   int              `json:"employee_id"`
	EmployeeName string           `json:"employee_name"`
	EmployeeRole string           `json:"employee_role"`
	Competency   string           `json:"competency"` // YYYY-MM-DD, first of month
	PaymentDate  string           `json:"payment_date"`
	BaseAmount   decimal.Decimal  `json:"base_amount"`
	ExtrasTotal  decimal.Decimal  `json:"extras_total"`
	Notes        *string          `json:"notes,omitempty"`
	ReceiptKey   *string          `json:"-"`
	ReceiptURL   string           `json:"receipt_url,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	Extras       []ExtraHoursLine `json:"extras,omitempty"`
}

// ExtraHoursLine is overtime worked on one project within a payroll payment.
type ExtraHoursLine struct {
	ID          int             `json:"id"`
	PaymentID   int             `json:"payment_id"`
	ProjectID   int             `json:"project_id"`
	ProjectName string          `json:"project_name"`
	HoursQty    decimal.Decimal `json:"hours_qty"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExtraHoursInput is a raw extra-hours line as submitted by the caller.
type ExtraHoursInput struct {
	ProjectID  int             `json:"project_id"`
	HoursQty   decimal.Decimal `json:"hours_qty"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

// PayrollInput is a payroll payment posting as submitted by the caller.
type PayrollInput struct {
	EmployeeID  int
	Competency  string // YYYY-MM-DD
	PaymentDate string // YYYY-MM-DD
	BaseAmount  decimal.Decimal
	Notes       string
	ReceiptKey  string
	Extras      []ExtraHoursInput
}
