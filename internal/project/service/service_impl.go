package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/frostline/crm/internal/activity/domain"
	"github.com/frostline/crm/internal/project/domain"
	"github.com/frostline/crm/pkg/db/option"
	"github.com/frostline/crm/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	ActivitySvc activitydomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        repository.Repository[domain.Project]
	activitySvc activitydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("project.service"),
		genID:       p.GenID,
		repo:        repository.ProvideStore[domain.Project](p.DB),
		activitySvc: p.ActivitySvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProjectRequest) (domain.Project, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return domain.Project{}, domain.ErrInvalidCustomer
	}
	actorID, err := snowflake.ParseString(strings.TrimSpace(req.ActorID))
	if err != nil || actorID == 0 {
		return domain.Project{}, domain.ErrInvalidActor
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Project{}, domain.ErrInvalidName
	}
	if req.Budget.IsNegative() {
		return domain.Project{}, domain.ErrInvalidBudget
	}

	now := time.Now().UTC()
	project := domain.Project{
		ID:          s.genID.Generate(),
		CustomerID:  customerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Status:      domain.ProjectStatusPlanned,
		Budget:      req.Budget.Round(2),
		StartDate:   req.StartDate,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, &project); err != nil {
		return domain.Project{}, err
	}

	if logErr := s.activitySvc.Log(ctx, activitydomain.Entry{
		ProjectID:    project.ID,
		ActivityType: activitydomain.ActivityProjectCreated,
		Title:        "Project " + project.Name + " created",
		PerformedBy:  actorID,
	}); logErr != nil {
		s.log.Warn("failed to log project activity", zap.Error(logErr), zap.String("project_id", project.ID.String()))
	}

	return project, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Project, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Project{}, err
	}

	item, err := s.repo.FindOne(ctx, &domain.Project{ID: id})
	if err != nil {
		return domain.Project{}, err
	}
	if item == nil {
		return domain.Project{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProjectRequest) ([]domain.Project, error) {
	filter := &domain.Project{}
	if req.Status != "" {
		filter.Status = req.Status
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		filter.CustomerID = id
	}

	items, err := s.repo.Find(ctx, filter, option.WithOrder("created_at desc, id desc"))
	if err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		projects = append(projects, *item)
	}
	return projects, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProjectRequest) (domain.Project, error) {
	project, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Project{}, err
	}

	patch := map[string]any{"updated_at": time.Now().UTC()}
	if req.Status != nil {
		switch *req.Status {
		case domain.ProjectStatusPlanned, domain.ProjectStatusActive, domain.ProjectStatusOnHold,
			domain.ProjectStatusCompleted, domain.ProjectStatusCancelled:
		default:
			return domain.Project{}, domain.ErrInvalidStatus
		}
		patch["status"] = *req.Status
	}
	if req.Description != nil {
		patch["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Budget != nil {
		if req.Budget.IsNegative() {
			return domain.Project{}, domain.ErrInvalidBudget
		}
		patch["budget"] = req.Budget.Round(2)
	}
	if req.EndDate != nil {
		patch["end_date"] = *req.EndDate
	}

	if err := s.repo.Update(ctx, project.ID.String(), patch); err != nil {
		return domain.Project{}, err
	}

	return s.GetByID(ctx, req.ID)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
