package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectStatusPlanned   ProjectStatus = "planned"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// Project groups the quotations, invoices and site work done for a customer.
type Project struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerID  snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Status      ProjectStatus   `gorm:"type:text;not null;default:'planned';index" json:"status"`
	Budget      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"budget"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	CreatedBy   snowflake.ID    `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// FinanceSummary is the read-only financial rollup for one project.
// ProfitMargin is nil when no money has been received yet; callers render
// that as "not applicable" rather than carrying a non-finite number around.
type FinanceSummary struct {
	TotalQuoted         decimal.Decimal  `json:"total_quoted"`
	TotalInvoiced       decimal.Decimal  `json:"total_invoiced"`
	TotalReceived       decimal.Decimal  `json:"total_received"`
	OutstandingQuotes   decimal.Decimal  `json:"outstanding_quotes"`
	OutstandingInvoices decimal.Decimal  `json:"outstanding_invoices"`
	ProfitMargin        *decimal.Decimal `json:"profit_margin,omitempty"`
}
