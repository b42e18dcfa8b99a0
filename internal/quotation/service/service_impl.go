package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/frostline/crm/internal/activity/domain"
	"github.com/frostline/crm/internal/clock"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"github.com/frostline/crm/pkg/db/option"
	"github.com/frostline/crm/pkg/db/pagination"
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
	Clock       clock.Clock
	ActivitySvc activitydomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        repository.Repository[quotationdomain.Quotation]
	activitySvc activitydomain.Service
}

func New(p Params) quotationdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("quotation.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        repository.ProvideStore[quotationdomain.Quotation](p.DB),
		activitySvc: p.ActivitySvc,
	}
}

func (s *Service) Create(ctx context.Context, req quotationdomain.CreateQuotationRequest) (quotationdomain.Quotation, error) {
	actorID, err := parseActor(req.ActorID)
	if err != nil {
		return quotationdomain.Quotation{}, err
	}
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return quotationdomain.Quotation{}, quotationdomain.ErrInvalidCustomer
	}
	var projectID *snowflake.ID
	if raw := strings.TrimSpace(req.ProjectID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return quotationdomain.Quotation{}, quotationdomain.ErrInvalidID
		}
		projectID = &id
	}
	if err := validateItems(req.Items); err != nil {
		return quotationdomain.Quotation{}, err
	}
	if err := validateRates(req.DiscountPercentage, req.TaxRate); err != nil {
		return quotationdomain.Quotation{}, err
	}

	sums := computeTotals(req.Items, req.DiscountPercentage, req.TaxRate)
	now := s.clock.Now()

	quotation := quotationdomain.Quotation{
		ID:                 s.genID.Generate(),
		Version:            "v1",
		IsLatestVersion:    true,
		CustomerID:         customerID,
		ProjectID:          projectID,
		CreatedBy:          actorID,
		Title:              strings.TrimSpace(req.Title),
		Status:             quotationdomain.StatusDraft,
		Subtotal:           sums.Subtotal,
		DiscountPercentage: req.DiscountPercentage.Round(2),
		DiscountAmount:     sums.DiscountAmount,
		TaxRate:            req.TaxRate.Round(2),
		TaxAmount:          sums.TaxAmount,
		TotalAmount:        sums.TotalAmount,
		ValidUntil:         req.ValidUntil,
		Terms:              strings.TrimSpace(req.Terms),
		Notes:              strings.TrimSpace(req.Notes),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	items := make([]quotationdomain.QuotationItem, 0, len(req.Items))
	for i, input := range req.Items {
		items = append(items, quotationdomain.QuotationItem{
			ID:          s.genID.Generate(),
			QuotationID: quotation.ID,
			Description: strings.TrimSpace(input.Description),
			Quantity:    input.Quantity.Round(2),
			UnitPrice:   input.UnitPrice.Round(2),
			TotalAmount: sums.LineTotals[i],
			Category:    input.Category,
			Unit:        input.Unit,
			Notes:       input.Notes,
			CreatedAt:   now,
		})
	}

	// header and lines persist as one unit
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.nextQuoteNumber(ctx, tx, now.Year())
		if err != nil {
			return err
		}
		quotation.QuoteNumber = number

		if err := tx.Create(&quotation).Error; err != nil {
			return fmt.Errorf("insert quotation: %w", err)
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert quotation items: %w", err)
		}
		return nil
	})
	if err != nil {
		return quotationdomain.Quotation{}, err
	}
	quotation.Items = items

	if quotation.ProjectID != nil {
		s.logActivity(ctx, activitydomain.Entry{
			ProjectID:         *quotation.ProjectID,
			ActivityType:      activitydomain.ActivityQuoteCreated,
			Title:             "Quotation " + quotation.QuoteNumber + " created",
			RelatedEntityType: "quotation",
			RelatedEntityID:   &quotation.ID,
			PerformedBy:       actorID,
			Metadata: map[string]any{
				"quote_number": quotation.QuoteNumber,
				"version":      quotation.Version,
				"total_amount": quotation.TotalAmount.String(),
			},
		})
	}

	return quotation, nil
}

func (s *Service) GetByID(ctx context.Context, req quotationdomain.GetQuotationRequest) (quotationdomain.Quotation, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return quotationdomain.Quotation{}, err
	}

	item, err := s.repo.FindOne(ctx, &quotationdomain.Quotation{ID: id}, option.WithPreload("Items"))
	if err != nil {
		return quotationdomain.Quotation{}, err
	}
	if item == nil {
		return quotationdomain.Quotation{}, quotationdomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req quotationdomain.ListQuotationRequest) (quotationdomain.ListQuotationResponse, error) {
	filter := &quotationdomain.Quotation{}
	if req.Status != "" {
		filter.Status = req.Status
	}
	if req.QuoteNumber != "" {
		filter.QuoteNumber = strings.TrimSpace(req.QuoteNumber)
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return quotationdomain.ListQuotationResponse{}, quotationdomain.ErrInvalidID
		}
		filter.CustomerID = id
	}
	if raw := strings.TrimSpace(req.ProjectID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return quotationdomain.ListQuotationResponse{}, quotationdomain.ErrInvalidID
		}
		filter.ProjectID = &id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	opts := []option.QueryOption{
		option.WithOrder("created_at desc, id desc"),
		option.WithLimit(int(pageSize) + 1),
	}
	if req.LatestOnly {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "is_latest_version",
			Operator: option.EQ,
			Value:    true,
		}))
	}
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return quotationdomain.ListQuotationResponse{}, quotationdomain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339, decoded.CreatedAt)
		if err != nil {
			return quotationdomain.ListQuotationResponse{}, quotationdomain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return quotationdomain.ListQuotationResponse{}, quotationdomain.ErrInvalidPageToken
		}
		opts = append(opts, option.WithWhere(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			createdAt, createdAt, id,
		))
	}

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return quotationdomain.ListQuotationResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(quotation *quotationdomain.Quotation) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        quotation.ID.String(),
			CreatedAt: quotation.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	quotations := make([]quotationdomain.Quotation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		quotations = append(quotations, *item)
	}

	resp := quotationdomain.ListQuotationResponse{Quotations: quotations}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// nextQuoteNumber allocates QT-<year>-<seq>. Version rows reuse the family's
// number, so only v1 rows advance the sequence. Runs inside the caller's
// transaction.
func (s *Service) nextQuoteNumber(ctx context.Context, tx *gorm.DB, year int) (string, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&quotationdomain.Quotation{}).
		Where("version = ? AND quote_number LIKE ?", "v1", fmt.Sprintf("QT-%d-%%", year)).
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("count quotations: %w", err)
	}
	return fmt.Sprintf("QT-%d-%05d", year, count+1), nil
}

func (s *Service) logActivity(ctx context.Context, entry activitydomain.Entry) {
	if err := s.activitySvc.Log(ctx, entry); err != nil {
		s.log.Warn("failed to log project activity",
			zap.Error(err),
			zap.String("activity_type", string(entry.ActivityType)),
			zap.String("project_id", entry.ProjectID.String()),
		)
	}
}

func (s *Service) load(ctx context.Context, rawID string) (quotationdomain.Quotation, error) {
	return s.GetByID(ctx, quotationdomain.GetQuotationRequest{ID: rawID})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, quotationdomain.ErrInvalidID
	}
	return id, nil
}

func parseActor(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, quotationdomain.ErrInvalidActor
	}
	return id, nil
}
