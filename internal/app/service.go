package app

import (
	"context"

	"construction-ledger/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic; implementations contain no
// HTTP types and no display logic.
type ApplicationService interface {
	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)

	// PostPurchase validates and atomically posts a purchase with its items
	// and installment schedule.
	PostPurchase(ctx context.Context, req PostPurchaseRequest) (*core.PurchasePosting, error)

	// GetPurchase returns a purchase with items, installments and a signed
	// receipt URL when an attachment exists.
	GetPurchase(ctx context.Context, purchaseID int) (*core.Purchase, error)

	// ListPurchases returns purchase headers, newest first.
	ListPurchases(ctx context.Context) ([]core.Purchase, error)

	// ListInstallments returns all installments ordered by due date.
	ListInstallments(ctx context.Context) ([]core.InstallmentListEntry, error)

	// PayInstallment transitions a pending installment to paid.
	PayInstallment(ctx context.Context, installmentID int) (*core.Installment, error)

	// PostPayrollPayment atomically posts a payroll payment with its
	// extra-hours lines and recomputed extras total.
	PostPayrollPayment(ctx context.Context, req PostPayrollRequest) (*core.PayrollPayment, error)

	// GetPayrollPayment returns a payment with its extra-hours lines.
	GetPayrollPayment(ctx context.Context, paymentID int) (*core.PayrollPayment, error)

	// ListPayrollPayments returns payments, newest first.
	ListPayrollPayments(ctx context.Context) ([]core.PayrollPayment, error)

	// StoreReceipt saves an uploaded receipt and returns its storage key.
	StoreReceipt(ctx context.Context, filename, contentType string, r ReceiptReader) (string, error)

	// Projects.
	CreateProject(ctx context.Context, req CreateProjectRequest) (*core.Project, error)
	ListProjects(ctx context.Context) ([]core.Project, error)
	PauseProject(ctx context.Context, projectID int, reason string) (*core.Project, error)
	ResumeProject(ctx context.Context, projectID int) (*core.Project, error)
	FinishProject(ctx context.Context, projectID int) (*core.Project, error)
	CancelProject(ctx context.Context, projectID int, by, reason string) (*core.Project, error)

	// Reference registries.
	CreateSupplier(ctx context.Context, name, taxID, contact string) (*core.Supplier, error)
	ListSuppliers(ctx context.Context) ([]core.Supplier, error)
	CreateEmployee(ctx context.Context, name, taxID, role, hireDate string) (*core.Employee, error)
	ListEmployees(ctx context.Context) ([]core.Employee, error)
	CreateProduct(ctx context.Context, name, unit string, categoryID int) (*core.Product, error)
	ListProducts(ctx context.Context) ([]core.Product, error)
	CreateProductCategory(ctx context.Context, name string) (*core.ProductCategory, error)
	ListProductCategories(ctx context.Context) ([]core.ProductCategory, error)

	// Site staffing.
	AssignEmployee(ctx context.Context, req AssignEmployeeRequest) (*core.Assignment, error)
	ListProjectAssignments(ctx context.Context, projectID int) ([]core.Assignment, error)

	// Project receipts (revenue side).
	CreateProjectReceipt(ctx context.Context, req CreateReceiptRequest) (*core.ProjectReceipt, error)
	ListProjectReceipts(ctx context.Context) ([]core.ProjectReceipt, error)

	// Reporting.
	GetDashboard(ctx context.Context, filter core.DashboardFilter) (*core.Dashboard, error)
	GetExtraHoursReport(ctx context.Context, employeeID int, competency string) (*core.ExtraHoursReport, error)

	// GetUser returns a user profile by ID.
	GetUser(ctx context.Context, userID int) (*core.User, error)
}
