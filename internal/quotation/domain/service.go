package domain

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
	"github.com/frostline/crm/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

// ItemInput is an operator-supplied quotation line.
type ItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Category    string
	Unit        string
	Notes       string
}

type CreateQuotationRequest struct {
	CustomerID         string
	ProjectID          string
	Title              string
	DiscountPercentage decimal.Decimal
	TaxRate            decimal.Decimal
	ValidUntil         *time.Time
	Terms              string
	Notes              string
	Items              []ItemInput
	ActorID            string
}

type UpdateStatusRequest struct {
	ID      string
	Status  QuotationStatus
	Notes   string
	ActorID string
}

// VersionChanges are header overrides applied to the new version. Nil
// pointers keep the original's value; nil Items copies the original's lines.
type VersionChanges struct {
	Title              *string
	DiscountPercentage *decimal.Decimal
	TaxRate            *decimal.Decimal
	ValidUntil         *time.Time
	Terms              *string
	Notes              *string
	Items              []ItemInput
}

type CreateVersionRequest struct {
	OriginalID string
	Changes    VersionChanges
	ActorID    string
}

type ConvertToInvoiceRequest struct {
	QuoteID      string
	InvoiceType  invoicedomain.InvoiceType
	Percentage   *decimal.Decimal
	DueDate      *time.Time
	PaymentTerms string
	Notes        string
	ActorID      string
}

type GetQuotationRequest struct {
	ID string
}

type ListQuotationRequest struct {
	Status      QuotationStatus
	CustomerID  string
	ProjectID   string
	QuoteNumber string
	LatestOnly  bool
	PageToken   string
	PageSize    int32
}

type ListQuotationResponse struct {
	pagination.PageInfo
	Quotations []Quotation `json:"quotations"`
}

type Service interface {
	Create(context.Context, CreateQuotationRequest) (Quotation, error)
	GetByID(context.Context, GetQuotationRequest) (Quotation, error)
	List(context.Context, ListQuotationRequest) (ListQuotationResponse, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (Quotation, error)
	// CreateVersion supersedes the original and drafts the next version with
	// copied lines. The new version is the family's only latest version.
	CreateVersion(context.Context, CreateVersionRequest) (Quotation, error)
	// ConvertToInvoice produces an invoice from an approved quotation, in
	// full or as a proportional partial amount.
	ConvertToInvoice(context.Context, ConvertToInvoiceRequest) (invoicedomain.Invoice, error)
	// ExpireStale moves sent/viewed quotations past their validity date to
	// expired and returns how many rows were affected.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

var (
	ErrEmptyItems        = errors.New("empty_items")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidUnitPrice  = errors.New("invalid_unit_price")
	ErrInvalidDiscount   = errors.New("invalid_discount")
	ErrInvalidTaxRate    = errors.New("invalid_tax_rate")
	ErrInvalidCustomer   = errors.New("invalid_customer")
	ErrInvalidActor      = errors.New("invalid_actor")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidPageToken  = errors.New("invalid_page_token")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrNotFound          = errors.New("not_found")
	ErrTerminalStatus    = errors.New("terminal_status")
	ErrNotApproved       = errors.New("not_approved")
	ErrVersionConflict   = errors.New("version_conflict")
)
