package app

import (
	"context"
	"os"
	"strconv"
	"time"

	"construction-ledger/internal/blob"
	"construction-ledger/internal/core"
)

type appService struct {
	purchases    core.PurchaseService
	installments core.InstallmentService
	payroll      core.PayrollService
	projects     core.ProjectService
	registry     core.RegistryService
	assignments  core.AssignmentService
	receipts     core.ReceiptService
	reporting    core.ReportingService
	users        core.UserService
	blobs        blob.Store
	signTTL      time.Duration
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	purchases core.PurchaseService,
	installments core.InstallmentService,
	payroll core.PayrollService,
	projects core.ProjectService,
	registry core.RegistryService,
	assignments core.AssignmentService,
	receipts core.ReceiptService,
	reporting core.ReportingService,
	users core.UserService,
	blobs blob.Store,
) ApplicationService {
	ttl := 5 * time.Minute
	if v := os.Getenv("BLOB_SIGN_TTL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}
	return &appService{
		purchases:    purchases,
		installments: installments,
		payroll:      payroll,
		projects:     projects,
		registry:     registry,
		assignments:  assignments,
		receipts:     receipts,
		reporting:    reporting,
		users:        users,
		blobs:        blobs,
		signTTL:      ttl,
	}
}

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	u, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{UserID: u.ID, Username: u.Username, Name: u.Name}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*core.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *appService) PostPurchase(ctx context.Context, req PostPurchaseRequest) (*core.PurchasePosting, error) {
	return s.purchases.CreatePurchase(ctx, core.PurchaseInput{
		ProjectID:        req.ProjectID,
		SupplierID:       req.SupplierID,
		EmployeeID:       req.EmployeeID,
		PurchaseDate:     req.PurchaseDate,
		DueDate:          req.DueDate,
		PaymentMethod:    core.PaymentMethod(req.PaymentMethod),
		InstallmentCount: req.InstallmentCount,
		Notes:            req.Notes,
		DiscountTotal:    req.DiscountTotal,
		ReceiptKey:       req.ReceiptKey,
		Items:            req.Items,
	})
}

func (s *appService) GetPurchase(ctx context.Context, purchaseID int) (*core.Purchase, error) {
	p, err := s.purchases.GetPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	p.ReceiptURL = s.signReceipt(p.ReceiptKey)
	return p, nil
}

func (s *appService) ListPurchases(ctx context.Context) ([]core.Purchase, error) {
	purchases, err := s.purchases.GetPurchases(ctx)
	if err != nil {
		return nil, err
	}
	for i := range purchases {
		purchases[i].ReceiptURL = s.signReceipt(purchases[i].ReceiptKey)
	}
	return purchases, nil
}

func (s *appService) ListInstallments(ctx context.Context) ([]core.InstallmentListEntry, error) {
	return s.installments.List(ctx)
}

func (s *appService) PayInstallment(ctx context.Context, installmentID int) (*core.Installment, error) {
	return s.installments.Pay(ctx, installmentID)
}

func (s *appService) PostPayrollPayment(ctx context.Context, req PostPayrollRequest) (*core.PayrollPayment, error) {
	return s.payroll.CreatePayment(ctx, core.PayrollInput{
		EmployeeID:  req.EmployeeID,
		Competency:  req.Competency,
		PaymentDate: req.PaymentDate,
		BaseAmount:  req.BaseAmount,
		Notes:       req.Notes,
		ReceiptKey:  req.ReceiptKey,
		Extras:      req.Extras,
	})
}

func (s *appService) GetPayrollPayment(ctx context.Context, paymentID int) (*core.PayrollPayment, error) {
	p, err := s.payroll.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	p.ReceiptURL = s.signReceipt(p.ReceiptKey)
	return p, nil
}

func (s *appService) ListPayrollPayments(ctx context.Context) ([]core.PayrollPayment, error) {
	payments, err := s.payroll.GetPayments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		payments[i].ReceiptURL = s.signReceipt(payments[i].ReceiptKey)
	}
	return payments, nil
}

func (s *appService) StoreReceipt(ctx context.Context, filename, contentType string, r ReceiptReader) (string, error) {
	return s.blobs.Put(ctx, filename, contentType, r)
}

// signReceipt resolves a stored key to a time-limited URL; a nil key or a
// signing failure yields an empty URL rather than failing the read.
func (s *appService) signReceipt(key *string) string {
	if key == nil || *key == "" {
		return ""
	}
	url, err := s.blobs.SignedURL(*key, s.signTTL)
	if err != nil {
		return ""
	}
	return url
}

func (s *appService) CreateProject(ctx context.Context, req CreateProjectRequest) (*core.Project, error) {
	return s.projects.Create(ctx, core.ProjectInput{
		Name:            req.Name,
		Address:         req.Address,
		StartDate:       req.StartDate,
		ExpectedDate:    req.ExpectedDate,
		SupervisorID:    req.SupervisorID,
		EstimatedBudget: req.EstimatedBudget,
		ContractValue:   req.ContractValue,
	})
}

func (s *appService) ListProjects(ctx context.Context) ([]core.Project, error) {
	return s.projects.List(ctx)
}

func (s *appService) PauseProject(ctx context.Context, projectID int, reason string) (*core.Project, error) {
	return s.projects.Pause(ctx, projectID, reason)
}

func (s *appService) ResumeProject(ctx context.Context, projectID int) (*core.Project, error) {
	return s.projects.Resume(ctx, projectID)
}

func (s *appService) FinishProject(ctx context.Context, projectID int) (*core.Project, error) {
	return s.projects.Finish(ctx, projectID)
}

func (s *appService) CancelProject(ctx context.Context, projectID int, by, reason string) (*core.Project, error) {
	return s.projects.Cancel(ctx, projectID, by, reason)
}

func (s *appService) CreateSupplier(ctx context.Context, name, taxID, contact string) (*core.Supplier, error) {
	return s.registry.CreateSupplier(ctx, name, taxID, contact)
}

func (s *appService) ListSuppliers(ctx context.Context) ([]core.Supplier, error) {
	return s.registry.ListSuppliers(ctx)
}

func (s *appService) CreateEmployee(ctx context.Context, name, taxID, role, hireDate string) (*core.Employee, error) {
	return s.registry.CreateEmployee(ctx, name, taxID, role, hireDate)
}

func (s *appService) ListEmployees(ctx context.Context) ([]core.Employee, error) {
	return s.registry.ListEmployees(ctx)
}

func (s *appService) CreateProduct(ctx context.Context, name, unit string, categoryID int) (*core.Product, error) {
	return s.registry.CreateProduct(ctx, name, unit, categoryID)
}

func (s *appService) CreateProductCategory(ctx context.Context, name string) (*core.ProductCategory, error) {
	return s.registry.CreateCategory(ctx, name)
}

func (s *appService) ListProductCategories(ctx context.Context) ([]core.ProductCategory, error) {
	return s.registry.ListCategories(ctx)
}

func (s *appService) AssignEmployee(ctx context.Context, req AssignEmployeeRequest) (*core.Assignment, error) {
	return s.assignments.Assign(ctx, core.AssignmentInput{
		ProjectID:  req.ProjectID,
		EmployeeID: req.EmployeeID,
		SiteRole:   req.SiteRole,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		HourlyCost: req.HourlyCost,
		Notes:      req.Notes,
	})
}

func (s *appService) ListProjectAssignments(ctx context.Context, projectID int) ([]core.Assignment, error) {
	return s.assignments.ListByProject(ctx, projectID)
}

func (s *appService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.registry.ListProducts(ctx)
}

func (s *appService) CreateProjectReceipt(ctx context.Context, req CreateReceiptRequest) (*core.ProjectReceipt, error) {
	return s.receipts.Create(ctx, req.ProjectID, req.ReceiptDate, req.Amount, req.Notes)
}

func (s *appService) ListProjectReceipts(ctx context.Context) ([]core.ProjectReceipt, error) {
	return s.receipts.List(ctx)
}

func (s *appService) GetDashboard(ctx context.Context, filter core.DashboardFilter) (*core.Dashboard, error) {
	return s.reporting.GetDashboard(ctx, filter)
}

func (s *appService) GetExtraHoursReport(ctx context.Context, employeeID int, competency string) (*core.ExtraHoursReport, error) {
	return s.reporting.GetExtraHoursReport(ctx, employeeID, competency)
}
