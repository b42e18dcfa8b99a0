package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/frostline/crm/internal/customer/domain"
	"github.com/frostline/crm/internal/lead/domain"
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
	CustomerSvc customerdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        repository.Repository[domain.Lead]
	customerSvc customerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("lead.service"),
		genID:       p.GenID,
		repo:        repository.ProvideStore[domain.Lead](p.DB),
		customerSvc: p.CustomerSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLeadRequest) (domain.Lead, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Lead{}, domain.ErrInvalidName
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return domain.Lead{}, domain.ErrInvalidPhone
	}

	var assignedTo *snowflake.ID
	if raw := strings.TrimSpace(req.AssignedTo); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Lead{}, domain.ErrInvalidID
		}
		assignedTo = &id
	}

	now := time.Now().UTC()
	lead := domain.Lead{
		ID:          s.genID.Generate(),
		Name:        name,
		Phone:       phone,
		Email:       strings.TrimSpace(req.Email),
		Source:      strings.TrimSpace(req.Source),
		Status:      domain.LeadStatusNew,
		Requirement: strings.TrimSpace(req.Requirement),
		AssignedTo:  assignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, &lead); err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateLeadStatusRequest) (domain.Lead, error) {
	switch req.Status {
	case domain.LeadStatusNew, domain.LeadStatusContacted, domain.LeadStatusQualified, domain.LeadStatusLost:
	case domain.LeadStatusConverted:
		// conversion goes through Convert so the customer record exists
		return domain.Lead{}, domain.ErrInvalidStatus
	default:
		return domain.Lead{}, domain.ErrInvalidStatus
	}

	lead, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Lead{}, err
	}
	if lead.Status == domain.LeadStatusConverted {
		return domain.Lead{}, domain.ErrAlreadyConverted
	}

	if err := s.repo.Update(ctx, lead.ID.String(), map[string]any{
		"status":     req.Status,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return domain.Lead{}, err
	}

	lead.Status = req.Status
	return lead, nil
}

func (s *Service) Convert(ctx context.Context, req domain.ConvertLeadRequest) (domain.Lead, error) {
	lead, err := s.load(ctx, req.ID)
	if err != nil {
		return domain.Lead{}, err
	}
	if lead.Status == domain.LeadStatusConverted {
		return domain.Lead{}, domain.ErrAlreadyConverted
	}
	if lead.Status != domain.LeadStatusQualified {
		return domain.Lead{}, domain.ErrNotQualified
	}

	email := lead.Email
	if email == "" {
		// customers require an email; synthesize one from the phone number
		email = lead.Phone + "@leads.local"
	}

	customer, err := s.customerSvc.Create(ctx, customerdomain.CreateCustomerRequest{
		Name:  lead.Name,
		Email: email,
		Phone: lead.Phone,
		Notes: lead.Requirement,
	})
	if err != nil {
		return domain.Lead{}, err
	}

	if err := s.repo.Update(ctx, lead.ID.String(), map[string]any{
		"status":      domain.LeadStatusConverted,
		"customer_id": customer.ID,
		"updated_at":  time.Now().UTC(),
	}); err != nil {
		return domain.Lead{}, err
	}

	lead.Status = domain.LeadStatusConverted
	lead.CustomerID = &customer.ID
	return lead, nil
}

func (s *Service) List(ctx context.Context, req domain.ListLeadRequest) ([]domain.Lead, error) {
	filter := &domain.Lead{}
	if req.Status != "" {
		filter.Status = req.Status
	}

	opts := []option.QueryOption{option.WithOrder("created_at desc, id desc")}
	if raw := strings.TrimSpace(req.AssignedTo); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "assigned_to",
			Operator: option.EQ,
			Value:    id,
		}))
	}

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	leads := make([]domain.Lead, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		leads = append(leads, *item)
	}
	return leads, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Lead, error) {
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, rawID string) (domain.Lead, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.Lead{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindOne(ctx, &domain.Lead{ID: id})
	if err != nil {
		return domain.Lead{}, err
	}
	if item == nil {
		return domain.Lead{}, domain.ErrNotFound
	}
	return *item, nil
}
