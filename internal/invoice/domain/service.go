package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type ListInvoiceRequest struct {
	Status     InvoiceStatus
	CustomerID string
	ProjectID  string
	QuoteID    string
	DueFrom    *time.Time
	DueTo      *time.Time
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type RecordPaymentRequest struct {
	InvoiceID string
	Amount    decimal.Decimal
	Method    string
	Reference string
	Notes     string
	ActorID   string
}

type UpdateInvoiceStatusRequest struct {
	ID     string
	Status InvoiceStatus
}

type Service interface {
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	UpdateStatus(context.Context, UpdateInvoiceStatusRequest) (Invoice, error)
	// RecordPayment appends a payment and moves amount_paid/balance_due,
	// marking the invoice paid when the balance reaches zero.
	RecordPayment(context.Context, RecordPaymentRequest) (Payment, error)
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrOverpayment   = errors.New("overpayment")
	ErrNotFound      = errors.New("not_found")
	ErrCancelled     = errors.New("invoice_cancelled")
)
