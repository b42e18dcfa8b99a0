package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/frostline/crm/internal/activity/domain"
	"github.com/frostline/crm/internal/clock"
	"github.com/frostline/crm/pkg/db/option"
	"github.com/frostline/crm/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  repository.Repository[domain.ProjectActivity]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("activity.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  repository.ProvideStore[domain.ProjectActivity](p.DB),
	}
}

func (s *Service) Log(ctx context.Context, entry domain.Entry) error {
	if entry.ProjectID == 0 {
		return domain.ErrInvalidProject
	}
	if entry.ActivityType == "" {
		return domain.ErrInvalidType
	}
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return domain.ErrInvalidTitle
	}

	payload := datatypes.JSONMap{}
	for key, value := range entry.Metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}

	now := s.clock.Now()
	row := domain.ProjectActivity{
		ID:                s.genID.Generate(),
		ProjectID:         entry.ProjectID,
		ActivityType:      entry.ActivityType,
		Title:             title,
		Description:       strings.TrimSpace(entry.Description),
		RelatedEntityType: entry.RelatedEntityType,
		RelatedEntityID:   entry.RelatedEntityID,
		PerformedBy:       entry.PerformedBy,
		PerformedAt:       now,
		Metadata:          payload,
		CreatedAt:         now,
	}

	return s.repo.Create(ctx, &row)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.ProjectActivity, error) {
	if req.ProjectID == 0 {
		return nil, domain.ErrInvalidProject
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	items, err := s.repo.Find(ctx, &domain.ProjectActivity{ProjectID: req.ProjectID},
		option.WithOrder("performed_at desc, id desc"),
		option.WithLimit(limit),
	)
	if err != nil {
		return nil, err
	}

	activities := make([]domain.ProjectActivity, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		activities = append(activities, *item)
	}
	return activities, nil
}
