package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Assignment links an employee to a project for a period, with the role
// and hourly cost they carry on that site.
type Assignment struct {
	ID           int             `json:"id"`
	ProjectID    int             `json:"project_id"`
	ProjectName  string          `json:"project_name"`
	EmployeeID   int             `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	SiteRole     string          `json:"site_role"`
	StartDate    *string         `json:"start_date,omitempty"`
	EndDate      *string         `json:"end_date,omitempty"`
	HourlyCost   decimal.Decimal `json:"hourly_cost"`
	IsActive     bool            `json:"is_active"`
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AssignmentInput is a raw assignment as submitted by the caller. Dates are
// optional; an open-ended assignment has no end date.
type AssignmentInput struct {
	ProjectID  int
	EmployeeID int
	SiteRole   string
	StartDate  string // YYYY-MM-DD, optional
	EndDate    string // YYYY-MM-DD, optional
	HourlyCost decimal.Decimal
	Notes      string
}

type AssignmentService interface {
	// Assign links an employee to a project after validating both exist.
	Assign(ctx context.Context, input AssignmentInput) (*Assignment, error)

	// ListByProject returns a project's assignments, active first.
	ListByProject(ctx context.Context, projectID int) ([]Assignment, error)
}

type assignmentService struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService backed by PostgreSQL.
func NewAssignmentService(pool *pgxpool.Pool, log zerolog.Logger) AssignmentService {
	return &assignmentService{pool: pool, log: log}
}

func (in *AssignmentInput) validate() error {
	if in.ProjectID <= 0 {
		return Validationf("project_id", "must be a positive integer")
	}
	if in.EmployeeID <= 0 {
		return Validationf("employee_id", "must be a positive integer")
	}
	var start, end time.Time
	var err error
	if in.StartDate != "" {
		if start, err = time.Parse("2006-01-02", in.StartDate); err != nil {
			return Validationf("start_date", "invalid date %q", in.StartDate)
		}
	}
	if in.EndDate != "" {
		if end, err = time.Parse("2006-01-02", in.EndDate); err != nil {
			return Validationf("end_date", "invalid date %q", in.EndDate)
		}
	}
	if in.StartDate != "" && in.EndDate != "" && end.Before(start) {
		return Validationf("end_date", "must not precede start_date")
	}
	if in.HourlyCost.IsNegative() {
		return Validationf("hourly_cost", "must be >= 0, got %s", in.HourlyCost.StringFixed(2))
	}
	return nil
}

func (s *assignmentService) Assign(ctx context.Context, input AssignmentInput) (*Assignment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if err := CheckReferences(ctx, s.pool,
		EntityRef{Entity: "project", ID: input.ProjectID},
		EntityRef{Entity: "employee", ID: input.EmployeeID},
	); err != nil {
		return nil, err
	}

	var toStart, toEnd *string
	if input.StartDate != "" {
		toStart = &input.StartDate
	}
	if input.EndDate != "" {
		toEnd = &input.EndDate
	}
	var toNotes *string
	if input.Notes != "" {
		toNotes = &input.Notes
	}

	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO project_assignments (project_id, employee_id, site_role, start_date, end_date, hourly_cost, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		input.ProjectID, input.EmployeeID, input.SiteRole, toStart, toEnd, input.HourlyCost, toNotes,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}

	s.log.Info().
		Int("assignment_id", id).
		Int("project_id", input.ProjectID).
		Int("employee_id", input.EmployeeID).
		Msg("employee assigned to project")

	return s.get(ctx, id)
}

func (s *assignmentService) get(ctx context.Context, id int) (*Assignment, error) {
	a := &Assignment{}
	err := s.pool.QueryRow(ctx, `
		SELECT a.id, a.project_id, pr.name, a.employee_id, e.name, a.site_role,
		       a.start_date::text, a.end_date::text, a.hourly_cost, a.is_active, a.notes, a.created_at
		FROM project_assignments a
		JOIN projects pr ON pr.id = a.project_id
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1`,
		id,
	).Scan(
		&a.ID, &a.ProjectID, &a.ProjectName, &a.EmployeeID, &a.EmployeeName, &a.SiteRole,
		&a.StartDate, &a.EndDate, &a.HourlyCost, &a.IsActive, &a.Notes, &a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get assignment %d: %w", id, err)
	}
	return a, nil
}

func (s *assignmentService) ListByProject(ctx context.Context, projectID int) ([]Assignment, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)", projectID,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check project %d: %w", projectID, err)
	}
	if !exists {
		return nil, &NotFoundError{Entity: "project", ID: projectID}
	}

	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.project_id, pr.name, a.employee_id, e.name, a.site_role,
		       a.start_date::text, a.end_date::text, a.hourly_cost, a.is_active, a.notes, a.created_at
		FROM project_assignments a
		JOIN projects pr ON pr.id = a.project_id
		JOIN employees e ON e.id = a.employee_id
		WHERE a.project_id = $1
		ORDER BY a.is_active DESC, e.name, a.id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments for project %d: %w", projectID, err)
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(
			&a.ID, &a.ProjectID, &a.ProjectName, &a.EmployeeID, &a.EmployeeName, &a.SiteRole,
			&a.StartDate, &a.EndDate, &a.HourlyCost, &a.IsActive, &a.Notes, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
