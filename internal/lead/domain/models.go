package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
	LeadStatusConverted LeadStatus = "converted"
)

// Lead is an inbound enquiry before it becomes a customer.
type Lead struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Phone       string        `gorm:"not null" json:"phone"`
	Email       string        `json:"email,omitempty"`
	Source      string        `gorm:"type:text" json:"source,omitempty"`
	Status      LeadStatus    `gorm:"type:text;not null;default:'new';index" json:"status"`
	Requirement string        `gorm:"type:text" json:"requirement,omitempty"`
	AssignedTo  *snowflake.ID `gorm:"index" json:"assigned_to,omitempty"`
	CustomerID  *snowflake.ID `gorm:"index" json:"customer_id,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }
