package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/frostline/crm/internal/employee/domain"
	"github.com/frostline/crm/pkg/db"
	"github.com/frostline/crm/pkg/db/option"
	"github.com/frostline/crm/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[domain.Employee]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("employee.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[domain.Employee](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEmployeeRequest) (domain.Employee, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Employee{}, domain.ErrInvalidName
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.Employee{}, domain.ErrInvalidEmail
	}

	role := req.Role
	if role == "" {
		role = domain.RoleSales
	}
	switch role {
	case domain.RoleAdmin, domain.RoleSales, domain.RoleTechnician:
	default:
		return domain.Employee{}, domain.ErrInvalidRole
	}

	now := time.Now().UTC()
	employee := domain.Employee{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, &employee); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Employee{}, domain.ErrEmailExists
		}
		return domain.Employee{}, err
	}

	return employee, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetEmployeeRequest) (domain.Employee, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Employee{}, err
	}

	item, err := s.repo.FindOne(ctx, &domain.Employee{ID: id})
	if err != nil {
		return domain.Employee{}, err
	}
	if item == nil {
		return domain.Employee{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (domain.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.Employee{}, domain.ErrInvalidEmail
	}

	item, err := s.repo.FindOne(ctx, &domain.Employee{Email: email})
	if err != nil {
		return domain.Employee{}, err
	}
	if item == nil {
		return domain.Employee{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListEmployeeRequest) ([]domain.Employee, error) {
	filter := &domain.Employee{}
	if req.Role != "" {
		filter.Role = req.Role
	}

	opts := []option.QueryOption{option.WithOrder("name asc")}
	if req.Active != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "active",
			Operator: option.EQ,
			Value:    *req.Active,
		}))
	}

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	employees := make([]domain.Employee, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		employees = append(employees, *item)
	}
	return employees, nil
}

func (s *Service) Deactivate(ctx context.Context, rawID string) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindOne(ctx, &domain.Employee{ID: id})
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.Update(ctx, id.String(), map[string]any{
		"active":     false,
		"updated_at": time.Now().UTC(),
	})
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
