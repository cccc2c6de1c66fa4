package core_test

import (
	"context"
	"errors"
	"testing"

	"construction-ledger/internal/core"
	"construction-ledger/internal/logger"

	"github.com/shopspring/decimal"
)

func TestAssignment_AssignAndList(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewAssignmentService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	assignment, err := svc.Assign(ctx, core.AssignmentInput{
		ProjectID:  1,
		EmployeeID: 2,
		SiteRole:   "site buyer",
		StartDate:  "2024-01-10",
		HourlyCost: decimal.RequireFromString("45.00"),
		Notes:      "mornings only",
	})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if assignment.EmployeeName != "Test Buyer" {
		t.Errorf("employee_name = %q", assignment.EmployeeName)
	}
	if assignment.EndDate != nil {
		t.Errorf("end_date = %v, want open-ended", *assignment.EndDate)
	}
	if !assignment.IsActive {
		t.Error("new assignment should be active")
	}

	// A second engagement for the same pair is allowed; periods can repeat.
	if _, err := svc.Assign(ctx, core.AssignmentInput{
		ProjectID:  1,
		EmployeeID: 2,
		SiteRole:   "foreman cover",
		StartDate:  "2024-06-01",
		EndDate:    "2024-06-30",
	}); err != nil {
		t.Fatalf("second Assign: %v", err)
	}

	assignments, err := svc.ListByProject(ctx, 1)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(assignments))
	}
}

func TestAssignment_UnknownReferences(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewAssignmentService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	_, err := svc.Assign(ctx, core.AssignmentInput{ProjectID: 999, EmployeeID: 888})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var re *core.ReferenceNotFoundError
	if !errors.As(err, &re) {
		t.Fatalf("expected ReferenceNotFoundError, got %T: %v", err, err)
	}
	if len(re.Missing) != 2 {
		t.Errorf("missing refs = %d, want 2", len(re.Missing))
	}

	var nf *core.NotFoundError
	if _, err := svc.ListByProject(ctx, 999); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for unknown project, got %T: %v", err, err)
	}
}

func TestAssignment_Validation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewAssignmentService(pool, logger.WithComponent("test"))
	ctx := context.Background()

	cases := []struct {
		name  string
		input core.AssignmentInput
	}{
		{"missing project", core.AssignmentInput{EmployeeID: 1}},
		{"missing employee", core.AssignmentInput{ProjectID: 1}},
		{"bad start date", core.AssignmentInput{ProjectID: 1, EmployeeID: 1, StartDate: "soon"}},
		{"end before start", core.AssignmentInput{ProjectID: 1, EmployeeID: 1, StartDate: "2024-05-01", EndDate: "2024-04-01"}},
		{"negative hourly cost", core.AssignmentInput{ProjectID: 1, EmployeeID: 1, HourlyCost: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Assign(ctx, tc.input)
			var ve *core.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}
