package core

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectPaused    ProjectStatus = "PAUSED"
	ProjectFinished  ProjectStatus = "FINISHED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// Project is a construction site ("obra") that purchases and extra hours
// are booked against.
type Project struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	StartDate       string          `json:"start_date"`
	ExpectedDate    string          `json:"expected_date"`
	SupervisorID    int             `json:"supervisor_id"`
	SupervisorName  string          `json:"supervisor_name"`
	EstimatedBudget decimal.Decimal `json:"estimated_budget"`
	ContractValue   decimal.Decimal `json:"contract_value"`
	Status          ProjectStatus   `json:"status"`
	FinishedDate    *string         `json:"finished_date,omitempty"`
	PausedAt        *time.Time      `json:"paused_at,omitempty"`
	PauseReason     *string         `json:"pause_reason,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CancelledBy     *string         `json:"cancelled_by,omitempty"`
	CancelReason    *string         `json:"cancel_reason,omitempty"`
}

// Supplier is a vendor purchases are made from.
type Supplier struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

// Employee is a worker; also the responsible party on purchases and the
// supervisor on projects.
type Employee struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	TaxID    string `json:"tax_id"`
	Role     string `json:"role"`
	HireDate string `json:"hire_date"`
	IsActive bool   `json:"is_active"`
}

// ProductCategory groups products for catalog browsing.
type ProductCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Product is a purchasable material or service item.
type Product struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	CategoryID   *int    `json:"category_id,omitempty"`
	CategoryName *string `json:"category_name,omitempty"`
	IsActive     bool    `json:"is_active"`
}

// User is an authenticated system user.
type User struct {
	ID           int
	Username     string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// ProjectReceipt is an amount received for a project; the revenue side of
// the dashboard.
type ProjectReceipt struct {
	ID          int             `json:"id"`
	ProjectID   int             `json:"project_id"`
	ProjectName string          `json:"project_name"`
	ReceiptDate string          `json:"receipt_date"`
	Amount      decimal.Decimal `json:"amount"`
	Notes       *string         `json:"notes,omitempty"`
}
