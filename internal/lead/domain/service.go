package domain

import (
	"context"
	"errors"
)

type CreateLeadRequest struct {
	Name        string
	Phone       string
	Email       string
	Source      string
	Requirement string
	AssignedTo  string
}

type UpdateLeadStatusRequest struct {
	ID     string
	Status LeadStatus
}

type ConvertLeadRequest struct {
	ID string
}

type ListLeadRequest struct {
	Status     LeadStatus
	AssignedTo string
}

type Service interface {
	Create(context.Context, CreateLeadRequest) (Lead, error)
	UpdateStatus(context.Context, UpdateLeadStatusRequest) (Lead, error)
	// Convert creates a customer from a qualified lead and marks the lead converted.
	Convert(context.Context, ConvertLeadRequest) (Lead, error)
	List(context.Context, ListLeadRequest) ([]Lead, error)
	GetByID(ctx context.Context, id string) (Lead, error)
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPhone     = errors.New("invalid_phone")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyConverted = errors.New("already_converted")
	ErrNotQualified     = errors.New("not_qualified")
)
