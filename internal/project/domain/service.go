package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreateProjectRequest struct {
	CustomerID  string
	Name        string
	Description string
	Budget      decimal.Decimal
	StartDate   *time.Time
	ActorID     string
}

type UpdateProjectRequest struct {
	ID          string
	Status      *ProjectStatus
	Description *string
	Budget      *decimal.Decimal
	EndDate     *time.Time
}

type ListProjectRequest struct {
	CustomerID string
	Status     ProjectStatus
}

type Service interface {
	Create(context.Context, CreateProjectRequest) (Project, error)
	GetByID(ctx context.Context, id string) (Project, error)
	List(context.Context, ListProjectRequest) ([]Project, error)
	Update(context.Context, UpdateProjectRequest) (Project, error)
	// Finance aggregates the project's quotations, invoices and payments.
	Finance(ctx context.Context, id string) (FinanceSummary, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidBudget   = errors.New("invalid_budget")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidActor    = errors.New("invalid_actor")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
