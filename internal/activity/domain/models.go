// Package domain contains persistence models for the project activity log.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ActivityType enumerates business events recorded against a project.
type ActivityType string

const (
	ActivityProjectCreated  ActivityType = "project_created"
	ActivityQuoteCreated    ActivityType = "quote_created"
	ActivityQuoteSent       ActivityType = "quote_sent"
	ActivityQuoteViewed     ActivityType = "quote_viewed"
	ActivityQuoteApproved   ActivityType = "quote_approved"
	ActivityQuoteRejected   ActivityType = "quote_rejected"
	ActivityQuoteExpired    ActivityType = "quote_expired"
	ActivityInvoiceCreated  ActivityType = "invoice_created"
	ActivityPaymentReceived ActivityType = "payment_received"
)

// ProjectActivity is an append-only audit entry. Rows are never updated or
// deleted after creation.
type ProjectActivity struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	ProjectID         snowflake.ID      `gorm:"not null;index" json:"project_id"`
	ActivityType      ActivityType      `gorm:"type:text;not null" json:"activity_type"`
	Title             string            `gorm:"not null" json:"title"`
	Description       string            `gorm:"type:text" json:"description,omitempty"`
	RelatedEntityType string            `gorm:"type:text" json:"related_entity_type,omitempty"`
	RelatedEntityID   *snowflake.ID     `gorm:"index" json:"related_entity_id,omitempty"`
	PerformedBy       snowflake.ID      `gorm:"not null" json:"performed_by"`
	PerformedAt       time.Time         `gorm:"not null;index" json:"performed_at"`
	Metadata          datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt         time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ProjectActivity) TableName() string { return "project_activities" }
