// Package domain contains persistence models for the quotation lifecycle.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// QuotationStatus represents quotation lifecycle states.
type QuotationStatus string

const (
	StatusDraft      QuotationStatus = "draft"
	StatusSent       QuotationStatus = "sent"
	StatusViewed     QuotationStatus = "viewed"
	StatusApproved   QuotationStatus = "approved"
	StatusRejected   QuotationStatus = "rejected"
	StatusExpired    QuotationStatus = "expired"
	StatusSuperseded QuotationStatus = "superseded"
)

// Terminal reports whether a version in this status admits no further
// status transition. A new version must be drafted instead.
func (s QuotationStatus) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusExpired, StatusSuperseded:
		return true
	default:
		return false
	}
}

// Quotation is one version of a priced proposal. All versions of a proposal
// share a quote_number; exactly one row per family carries
// is_latest_version = true.
type Quotation struct {
	ID                 snowflake.ID    `gorm:"primaryKey" json:"id"`
	QuoteNumber        string          `gorm:"not null;index" json:"quote_number"`
	Version            string          `gorm:"not null;default:'v1'" json:"version"`
	IsLatestVersion    bool            `gorm:"not null;default:true;index" json:"is_latest_version"`
	CustomerID         snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	ProjectID          *snowflake.ID   `gorm:"index" json:"project_id,omitempty"`
	CreatedBy          snowflake.ID    `gorm:"not null" json:"created_by"`
	Title              string          `gorm:"not null" json:"title"`
	Status             QuotationStatus `gorm:"type:text;not null;default:'draft';index" json:"status"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"subtotal"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"discount_amount"`
	TaxRate            decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"tax_amount"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	ValidUntil         *time.Time      `json:"valid_until,omitempty"`
	Terms              string          `gorm:"type:text" json:"terms,omitempty"`
	Notes              string          `gorm:"type:text" json:"notes,omitempty"`
	SentDate           *time.Time      `json:"sent_date,omitempty"`
	ApprovedDate       *time.Time      `json:"approved_date,omitempty"`
	CreatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []QuotationItem `gorm:"foreignKey:QuotationID" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Quotation) TableName() string { return "quotations" }

// QuotationItem is a line owned by exactly one quotation version. Items are
// copied, not shared, when a new version is created.
type QuotationItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	QuotationID snowflake.ID    `gorm:"not null;index" json:"quotation_id"`
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
func (QuotationItem) TableName() string { return "quotation_items" }
