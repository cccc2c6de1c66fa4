package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistryService manages the reference entities headers point at:
// suppliers, employees, products and product categories.
type RegistryService interface {
	CreateSupplier(ctx context.Context, name, taxID, contact string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)

	CreateEmployee(ctx context.Context, name, taxID, role, hireDate string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	// CreateProduct registers a product; categoryID zero means uncategorized.
	CreateProduct(ctx context.Context, name, unit string, categoryID int) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)

	CreateCategory(ctx context.Context, name string) (*ProductCategory, error)
	ListCategories(ctx context.Context) ([]ProductCategory, error)
}

type registryService struct {
	pool *pgxpool.Pool
}

// NewRegistryService constructs a RegistryService backed by PostgreSQL.
func NewRegistryService(pool *pgxpool.Pool) RegistryService {
	return &registryService{pool: pool}
}

func (s *registryService) CreateSupplier(ctx context.Context, name, taxID, contact string) (*Supplier, error) {
	if name == "" {
		return nil, Validationf("name", "is required")
	}

	sup := &Supplier{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, tax_id, contact)
		VALUES ($1, $2, $3)
		RETURNING id, name, tax_id, contact, created_at`,
		name, taxID, contact,
	).Scan(&sup.ID, &sup.Name, &sup.TaxID, &sup.Contact, &sup.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, Conflictf("supplier with tax id %s already exists", taxID)
		}
		return nil, fmt.Errorf("insert supplier: %w", err)
	}
	return sup, nil
}

func (s *registryService) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, tax_id, contact, created_at FROM suppliers ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var sup Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.TaxID, &sup.Contact, &sup.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, sup)
	}
	return suppliers, rows.Err()
}

func (s *registryService) CreateEmployee(ctx context.Context, name, taxID, role, hireDate string) (*Employee, error) {
	if name == "" {
		return nil, Validationf("name", "is required")
	}
	if _, err := time.Parse("2006-01-02", hireDate); err != nil {
		return nil, Validationf("hire_date", "invalid date %q", hireDate)
	}

	emp := &Employee{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO employees (name, tax_id, role, hire_date, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING id, name, tax_id, role, hire_date::text, is_active`,
		name, taxID, role, hireDate,
	).Scan(&emp.ID, &emp.Name, &emp.TaxID, &emp.Role, &emp.HireDate, &emp.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, Conflictf("employee with tax id %s already exists", taxID)
		}
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	return emp, nil
}

func (s *registryService) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name, tax_id, role, hire_date::text, is_active FROM employees ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.TaxID, &emp.Role, &emp.HireDate, &emp.IsActive); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *registryService) CreateProduct(ctx context.Context, name, unit string, categoryID int) (*Product, error) {
	if name == "" {
		return nil, Validationf("name", "is required")
	}
	if categoryID < 0 {
		return nil, Validationf("category_id", "must be a positive integer, got %d", categoryID)
	}
	if unit == "" {
		unit = "unit"
	}

	var toCategory *int
	if categoryID > 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM product_categories WHERE id = $1)", categoryID,
		).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check category %d: %w", categoryID, err)
		}
		if !exists {
			return nil, &ReferenceNotFoundError{Missing: []EntityRef{{Entity: "category", ID: categoryID}}}
		}
		toCategory = &categoryID
	}

	prod := &Product{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, unit, category_id, is_active)
		VALUES ($1, $2, $3, true)
		RETURNING id, name, unit, category_id, is_active`,
		name, unit, toCategory,
	).Scan(&prod.ID, &prod.Name, &prod.Unit, &prod.CategoryID, &prod.IsActive)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return prod, nil
}

func (s *registryService) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.unit, p.category_id, c.name, p.is_active
		FROM products p
		LEFT JOIN product_categories c ON c.id = p.category_id
		ORDER BY p.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var prod Product
		if err := rows.Scan(&prod.ID, &prod.Name, &prod.Unit, &prod.CategoryID, &prod.CategoryName, &prod.IsActive); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, prod)
	}
	return products, rows.Err()
}

func (s *registryService) CreateCategory(ctx context.Context, name string) (*ProductCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Validationf("name", "is required")
	}

	cat := &ProductCategory{}
	err := s.pool.QueryRow(ctx,
		"INSERT INTO product_categories (name) VALUES ($1) RETURNING id, name",
		name,
	).Scan(&cat.ID, &cat.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, Conflictf("category %q already exists", name)
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return cat, nil
}

func (s *registryService) ListCategories(ctx context.Context) ([]ProductCategory, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, name FROM product_categories ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []ProductCategory
	for rows.Next() {
		var cat ProductCategory
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}
