// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceType distinguishes standalone invoices from quote conversions.
type InvoiceType string

const (
	InvoiceTypeStandalone InvoiceType = "invoice"
	InvoiceTypeFull       InvoiceType = "full"
	InvoiceTypePartial    InvoiceType = "partial"
)

// Invoice represents a billed document. Invoices created by quote conversion
// carry the source quotation's id and version as back-references.
type Invoice struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"not null;uniqueIndex" json:"invoice_number"`
	InvoiceType   InvoiceType     `gorm:"type:text;not null;default:'invoice'" json:"invoice_type"`
	QuoteID       *snowflake.ID   `gorm:"index" json:"quote_id,omitempty"`
	QuoteVersion  string          `json:"quote_version,omitempty"`
	CustomerID    snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	ProjectID     *snowflake.ID   `gorm:"index" json:"project_id,omitempty"`
	Status        InvoiceStatus   `gorm:"type:text;not null;default:'draft';index" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"tax_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount_paid"`
	BalanceDue    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_due"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	PaymentTerms  string          `gorm:"type:text" json:"payment_terms,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     snowflake.ID    `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem represents a line on an invoice.
type InvoiceItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	Category    string          `json:"category,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// Payment records money received against an invoice. Append-only.
type Payment struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID  snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method     string          `gorm:"type:text" json:"method,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy snowflake.ID    `gorm:"not null" json:"recorded_by"`
	PaidAt     time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
