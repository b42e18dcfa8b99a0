package domain

import (
	"context"
	"errors"
)

type CreateEmployeeRequest struct {
	Name  string
	Email string
	Phone string
	Role  Role
}

type GetEmployeeRequest struct {
	ID string
}

type ListEmployeeRequest struct {
	Role   Role
	Active *bool
}

type Service interface {
	Create(context.Context, CreateEmployeeRequest) (Employee, error)
	GetByID(context.Context, GetEmployeeRequest) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(context.Context, ListEmployeeRequest) ([]Employee, error)
	Deactivate(ctx context.Context, id string) error
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidRole  = errors.New("invalid_role")
	ErrInvalidID    = errors.New("invalid_id")
	ErrEmailExists  = errors.New("email_exists")
	ErrNotFound     = errors.New("not_found")
)
