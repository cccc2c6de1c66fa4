package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProjectInput is a new project as submitted by the caller.
type ProjectInput struct {
	Name            string
	Address         string
	StartDate       string // YYYY-MM-DD
	ExpectedDate    string // YYYY-MM-DD
	SupervisorID    int
	EstimatedBudget decimal.Decimal
	ContractValue   decimal.Decimal
}

type ProjectService interface {
	Create(ctx context.Context, input ProjectInput) (*Project, error)
	Get(ctx context.Context, projectID int) (*Project, error)
	List(ctx context.Context) ([]Project, error)

	// Lifecycle transitions. Each is guarded by the current status and
	// returns a ConflictError when the transition is not allowed.
	Pause(ctx context.Context, projectID int, reason string) (*Project, error)
	Resume(ctx context.Context, projectID int) (*Project, error)
	Finish(ctx context.Context, projectID int) (*Project, error)
	Cancel(ctx context.Context, projectID int, by, reason string) (*Project, error)
}

type projectService struct {
	pool *pgxpool.Pool
}

// NewProjectService constructs a ProjectService backed by PostgreSQL.
func NewProjectService(pool *pgxpool.Pool) ProjectService {
	return &projectService{pool: pool}
}

func (in *ProjectInput) validate() error {
	if in.Name == "" {
		return Validationf("name", "is required")
	}
	if in.Address == "" {
		return Validationf("address", "is required")
	}
	if _, err := time.Parse("2006-01-02", in.StartDate); err != nil {
		return Validationf("start_date", "invalid date %q", in.StartDate)
	}
	if _, err := time.Parse("2006-01-02", in.ExpectedDate); err != nil {
		return Validationf("expected_date", "invalid date %q", in.ExpectedDate)
	}
	if in.SupervisorID <= 0 {
		return Validationf("supervisor_id", "must be a positive integer")
	}
	if in.EstimatedBudget.IsNegative() {
		return Validationf("estimated_budget", "must be >= 0")
	}
	if in.ContractValue.IsNegative() {
		return Validationf("contract_value", "must be >= 0")
	}
	return nil
}

func (s *projectService) Create(ctx context.Context, input ProjectInput) (*Project, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := CheckReferences(ctx, s.pool, EntityRef{Entity: "employee", ID: input.SupervisorID}); err != nil {
		return nil, err
	}

	var id int
	if err := s.pool.QueryRow(ctx, `
		INSERT INTO projects (name, address, start_date, expected_date, supervisor_id,
		                      estimated_budget, contract_value, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		input.Name, input.Address, input.StartDate, input.ExpectedDate, input.SupervisorID,
		input.EstimatedBudget, input.ContractValue, string(ProjectActive),
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *projectService) Get(ctx context.Context, projectID int) (*Project, error) {
	p := &Project{}
	if err := s.pool.QueryRow(ctx, `
		SELECT p.id, p.name, p.address, p.start_date::text, p.expected_date::text,
		       p.supervisor_id, e.name, p.estimated_budget, p.contract_value, p.status,
		       p.finished_date::text, p.paused_at, p.pause_reason,
		       p.cancelled_at, p.cancelled_by, p.cancel_reason
		FROM projects p
		JOIN employees e ON e.id = p.supervisor_id
		WHERE p.id = $1`,
		projectID,
	).Scan(
		&p.ID, &p.Name, &p.Address, &p.StartDate, &p.ExpectedDate,
		&p.SupervisorID, &p.SupervisorName, &p.EstimatedBudget, &p.ContractValue, &p.Status,
		&p.FinishedDate, &p.PausedAt, &p.PauseReason,
		&p.CancelledAt, &p.CancelledBy, &p.CancelReason,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "project", ID: projectID}
		}
		return nil, fmt.Errorf("get project %d: %w", projectID, err)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context) ([]Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.address, p.start_date::text, p.expected_date::text,
		       p.supervisor_id, e.name, p.estimated_budget, p.contract_value, p.status,
		       p.finished_date::text, p.paused_at, p.pause_reason,
		       p.cancelled_at, p.cancelled_by, p.cancel_reason
		FROM projects p
		JOIN employees e ON e.id = p.supervisor_id
		ORDER BY p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Address, &p.StartDate, &p.ExpectedDate,
			&p.SupervisorID, &p.SupervisorName, &p.EstimatedBudget, &p.ContractValue, &p.Status,
			&p.FinishedDate, &p.PausedAt, &p.PauseReason,
			&p.CancelledAt, &p.CancelledBy, &p.CancelReason,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// transition runs a guarded status update; fromStatuses is the allowed set.
func (s *projectService) transition(ctx context.Context, projectID int, set string, args []any, fromStatuses ...ProjectStatus) (*Project, error) {
	placeholders := ""
	for i := range fromStatuses {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", len(args)+2+i)
	}

	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = $1 AND status IN (%s)", set, placeholders)
	allArgs := append([]any{projectID}, args...)
	for _, st := range fromStatuses {
		allArgs = append(allArgs, string(st))
	}

	tag, err := s.pool.Exec(ctx, query, allArgs...)
	if err != nil {
		return nil, fmt.Errorf("update project %d status: %w", projectID, err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish missing from wrong-state for the caller.
		if _, err := s.Get(ctx, projectID); err != nil {
			return nil, err
		}
		return nil, Conflictf("project %d is not in a state that allows this transition", projectID)
	}
	return s.Get(ctx, projectID)
}

func (s *projectService) Pause(ctx context.Context, projectID int, reason string) (*Project, error) {
	var toReason *string
	if reason != "" {
		toReason = &reason
	}
	return s.transition(ctx, projectID,
		"status = 'PAUSED', paused_at = NOW(), pause_reason = $2",
		[]any{toReason}, ProjectActive)
}

func (s *projectService) Resume(ctx context.Context, projectID int) (*Project, error) {
	return s.transition(ctx, projectID,
		"status = 'ACTIVE', pause_reason = NULL",
		nil, ProjectPaused)
}

func (s *projectService) Finish(ctx context.Context, projectID int) (*Project, error) {
	return s.transition(ctx, projectID,
		"status = 'FINISHED', finished_date = CURRENT_DATE",
		nil, ProjectActive, ProjectPaused)
}

func (s *projectService) Cancel(ctx context.Context, projectID int, by, reason string) (*Project, error) {
	var toReason *string
	if reason != "" {
		toReason = &reason
	}
	return s.transition(ctx, projectID,
		"status = 'CANCELLED', cancelled_at = NOW(), cancelled_by = $2, cancel_reason = $3",
		[]any{by, toReason}, ProjectActive, ProjectPaused)
}
