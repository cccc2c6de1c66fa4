package app

import (
	"io"

	"github.com/shopspring/decimal"

	"construction-ledger/internal/core"
)

// ReceiptReader is the uploaded receipt payload.
type ReceiptReader = io.Reader

// UserSession is returned on successful authentication.
type UserSession struct {
	UserID   int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// PostPurchaseRequest is the input for posting a purchase.
type PostPurchaseRequest struct {
	ProjectID        int
	SupplierID       int
	EmployeeID       int
	PurchaseDate     string // YYYY-MM-DD
	DueDate          string // YYYY-MM-DD
	PaymentMethod    string
	InstallmentCount int
	Notes            string
	DiscountTotal    decimal.Decimal
	ReceiptKey       string
	Items            []core.PurchaseItemInput
}

// PostPayrollRequest is the input for posting a payroll payment.
type PostPayrollRequest struct {
	EmployeeID  int
	Competency  string // YYYY-MM-DD
	PaymentDate string // YYYY-MM-DD
	BaseAmount  decimal.Decimal
	Notes       string
	ReceiptKey  string
	Extras      []core.ExtraHoursInput
}

// CreateProjectRequest is the input for creating a project.
type CreateProjectRequest struct {
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	StartDate       string          `json:"start_date"`
	ExpectedDate    string          `json:"expected_date"`
	SupervisorID    int             `json:"supervisor_id"`
	EstimatedBudget decimal.Decimal `json:"estimated_budget"`
	ContractValue   decimal.Decimal `json:"contract_value"`
}

// AssignEmployeeRequest is the input for assigning an employee to a project.
// Dates are optional; an assignment without an end date is open-ended.
type AssignEmployeeRequest struct {
	ProjectID  int             `json:"-"` // from the URL, not the body
	EmployeeID int             `json:"employee_id"`
	SiteRole   string          `json:"site_role"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	HourlyCost decimal.Decimal `json:"hourly_cost"`
	Notes      string          `json:"notes"`
}

// CreateReceiptRequest is the input for recording a project receipt.
type CreateReceiptRequest struct {
	ProjectID   int             `json:"project_id"`
	ReceiptDate string          `json:"receipt_date"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       string          `json:"notes"`
}
