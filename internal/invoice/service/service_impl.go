package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/frostline/crm/internal/activity/domain"
	"github.com/frostline/crm/internal/clock"
	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
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
	Clock       clock.Clock
	ActivitySvc activitydomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        repository.Repository[invoicedomain.Invoice]
	activitySvc activitydomain.Service
}

func New(p Params) invoicedomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        repository.ProvideStore[invoicedomain.Invoice](p.DB),
		activitySvc: p.ActivitySvc,
	}
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	filter := &invoicedomain.Invoice{}
	if req.Status != "" {
		filter.Status = req.Status
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidID
		}
		filter.CustomerID = id
	}
	if raw := strings.TrimSpace(req.ProjectID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidID
		}
		filter.ProjectID = &id
	}
	if raw := strings.TrimSpace(req.QuoteID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidID
		}
		filter.QuoteID = &id
	}

	opts := []option.QueryOption{option.WithOrder("created_at desc, id desc")}
	if req.DueFrom != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "due_date",
			Operator: option.GTE,
			Value:    *req.DueFrom,
		}))
	}
	if req.DueTo != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "due_date",
			Operator: option.LTE,
			Value:    *req.DueTo,
		}))
	}

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	return invoicedomain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (invoicedomain.Invoice, error) {
	id, err := parseID(rawID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	item, err := s.repo.FindOne(ctx, &invoicedomain.Invoice{ID: id}, option.WithPreload("Items"))
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if item == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req invoicedomain.UpdateInvoiceStatusRequest) (invoicedomain.Invoice, error) {
	switch req.Status {
	case invoicedomain.InvoiceStatusSent, invoicedomain.InvoiceStatusOverdue, invoicedomain.InvoiceStatusCancelled:
	default:
		// draft is the creation state and paid is derived from payments
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
	}

	invoice, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice.Status == invoicedomain.InvoiceStatusPaid || invoice.Status == invoicedomain.InvoiceStatusCancelled {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
	}

	if err := s.repo.Update(ctx, invoice.ID.String(), map[string]any{
		"status":     req.Status,
		"updated_at": s.clock.Now(),
	}); err != nil {
		return invoicedomain.Invoice{}, fmt.Errorf("update invoice status: %w", err)
	}

	invoice.Status = req.Status
	return invoice, nil
}

func (s *Service) RecordPayment(ctx context.Context, req invoicedomain.RecordPaymentRequest) (invoicedomain.Payment, error) {
	invoiceID, err := parseID(req.InvoiceID)
	if err != nil {
		return invoicedomain.Payment{}, err
	}
	actorID, err := snowflake.ParseString(strings.TrimSpace(req.ActorID))
	if err != nil || actorID == 0 {
		return invoicedomain.Payment{}, invoicedomain.ErrInvalidActor
	}
	if !req.Amount.IsPositive() {
		return invoicedomain.Payment{}, invoicedomain.ErrInvalidAmount
	}
	amount := req.Amount.Round(2)

	now := s.clock.Now()
	payment := invoicedomain.Payment{
		ID:         s.genID.Generate(),
		InvoiceID:  invoiceID,
		Amount:     amount,
		Method:     strings.TrimSpace(req.Method),
		Reference:  strings.TrimSpace(req.Reference),
		Notes:      strings.TrimSpace(req.Notes),
		RecordedBy: actorID,
		PaidAt:     now,
		CreatedAt:  now,
	}

	var invoice invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invoice, "id = ?", invoiceID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return invoicedomain.ErrNotFound
			}
			return fmt.Errorf("load invoice: %w", err)
		}
		if invoice.Status == invoicedomain.InvoiceStatusCancelled {
			return invoicedomain.ErrCancelled
		}
		if amount.GreaterThan(invoice.BalanceDue) {
			return invoicedomain.ErrOverpayment
		}

		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		paid := invoice.AmountPaid.Add(amount)
		balance := invoice.TotalAmount.Sub(paid)
		patch := map[string]any{
			"amount_paid": paid,
			"balance_due": balance,
			"updated_at":  now,
		}
		if balance.IsZero() {
			patch["status"] = invoicedomain.InvoiceStatusPaid
		}
		if err := tx.Model(&invoicedomain.Invoice{}).Where("id = ?", invoiceID).Updates(patch).Error; err != nil {
			return fmt.Errorf("update invoice balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return invoicedomain.Payment{}, err
	}

	if invoice.ProjectID != nil {
		entityID := payment.ID
		if logErr := s.activitySvc.Log(ctx, activitydomain.Entry{
			ProjectID:         *invoice.ProjectID,
			ActivityType:      activitydomain.ActivityPaymentReceived,
			Title:             "Payment received for " + invoice.InvoiceNumber,
			RelatedEntityType: "payment",
			RelatedEntityID:   &entityID,
			PerformedBy:       actorID,
			Metadata: map[string]any{
				"invoice_id": invoice.ID.String(),
				"amount":     amount.String(),
			},
		}); logErr != nil {
			s.log.Warn("failed to log payment activity", zap.Error(logErr), zap.String("invoice_id", invoice.ID.String()))
		}
	}

	return payment, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, invoicedomain.ErrInvalidID
	}
	return id, nil
}
