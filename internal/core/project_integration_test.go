package core_test

import (
	"context"
	"errors"
	"testing"

	"construction-ledger/internal/core"

	"github.com/shopspring/decimal"
)

func TestProject_Lifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewProjectService(pool)
	ctx := context.Background()

	project, err := svc.Create(ctx, core.ProjectInput{
		Name:            "North Tower",
		Address:         "2 Harbour Rd",
		StartDate:       "2024-02-01",
		ExpectedDate:    "2025-08-01",
		SupervisorID:    1,
		EstimatedBudget: decimal.RequireFromString("500000.00"),
		ContractValue:   decimal.RequireFromString("650000.00"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.Status != core.ProjectActive {
		t.Fatalf("new project status = %s, want ACTIVE", project.Status)
	}

	t.Run("pause records reason", func(t *testing.T) {
		p, err := svc.Pause(ctx, project.ID, "awaiting permits")
		if err != nil {
			t.Fatalf("Pause: %v", err)
		}
		if p.Status != core.ProjectPaused {
			t.Errorf("status = %s, want PAUSED", p.Status)
		}
		if p.PauseReason == nil || *p.PauseReason != "awaiting permits" {
			t.Errorf("pause reason not recorded: %v", p.PauseReason)
		}
	})

	t.Run("pause while paused is a conflict", func(t *testing.T) {
		_, err := svc.Pause(ctx, project.ID, "again")
		var ce *core.ConflictError
		if !errors.As(err, &ce) {
			t.Errorf("expected ConflictError, got %T: %v", err, err)
		}
	})

	t.Run("resume clears the reason", func(t *testing.T) {
		p, err := svc.Resume(ctx, project.ID)
		if err != nil {
			t.Fatalf("Resume: %v", err)
		}
		if p.Status != core.ProjectActive {
			t.Errorf("status = %s, want ACTIVE", p.Status)
		}
		if p.PauseReason != nil {
			t.Errorf("pause reason not cleared: %v", *p.PauseReason)
		}
	})

	t.Run("finish stamps the date", func(t *testing.T) {
		p, err := svc.Finish(ctx, project.ID)
		if err != nil {
			t.Fatalf("Finish: %v", err)
		}
		if p.Status != core.ProjectFinished {
			t.Errorf("status = %s, want FINISHED", p.Status)
		}
		if p.FinishedDate == nil || *p.FinishedDate == "" {
			t.Error("finished date not stamped")
		}
	})

	t.Run("finished is terminal", func(t *testing.T) {
		_, err := svc.Cancel(ctx, project.ID, "admin", "nope")
		var ce *core.ConflictError
		if !errors.As(err, &ce) {
			t.Errorf("expected ConflictError, got %T: %v", err, err)
		}
	})
}

func TestProject_CreateUnknownSupervisor(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewProjectService(pool)
	_, err := svc.Create(context.Background(), core.ProjectInput{
		Name:         "Orphan Site",
		Address:      "3 Side St",
		StartDate:    "2024-01-01",
		ExpectedDate: "2024-12-01",
		SupervisorID: 404,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var re *core.ReferenceNotFoundError
	if !errors.As(err, &re) {
		t.Errorf("expected ReferenceNotFoundError, got %T: %v", err, err)
	}
}

func TestProject_GetMissing(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	svc := core.NewProjectService(pool)
	_, err := svc.Get(context.Background(), 12345)
	var nf *core.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %T: %v", err, err)
	}
}
