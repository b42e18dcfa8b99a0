package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/frostline/crm/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Email     string
	City      string
}

// CustomerCursor is a decoded page token. Listing is keyset-paginated on
// (created_at, id) descending.
type CustomerCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListCustomerFilter struct {
	Name   string
	Email  string
	City   string
	Cursor *CustomerCursor
	Limit  int
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Notes   string
}

type UpdateCustomerRequest struct {
	ID      string
	Phone   *string
	Address *string
	City    *string
	Notes   *string
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrNotFound         = errors.New("not_found")
)
