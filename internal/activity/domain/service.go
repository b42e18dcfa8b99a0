package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Entry struct {
	ProjectID         snowflake.ID
	ActivityType      ActivityType
	Title             string
	Description       string
	RelatedEntityType string
	RelatedEntityID   *snowflake.ID
	PerformedBy       snowflake.ID
	Metadata          map[string]any
}

type ListRequest struct {
	ProjectID snowflake.ID
	Limit     int
}

// Service records and reads project activities. Log is best-effort for
// callers: a failed insert must never fail the primary operation.
type Service interface {
	Log(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListRequest) ([]ProjectActivity, error)
}

var (
	ErrInvalidProject = errors.New("invalid_project")
	ErrInvalidType    = errors.New("invalid_activity_type")
	ErrInvalidTitle   = errors.New("invalid_title")
)
