package service

import (
	"context"
	"fmt"
	"strings"

	activitydomain "github.com/frostline/crm/internal/activity/domain"
	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (s *Service) ConvertToInvoice(ctx context.Context, req quotationdomain.ConvertToInvoiceRequest) (invoicedomain.Invoice, error) {
	actorID, err := parseActor(req.ActorID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	factor := decimal.NewFromInt(1)
	switch req.InvoiceType {
	case invoicedomain.InvoiceTypeFull:
	case invoicedomain.InvoiceTypePartial:
		if req.Percentage == nil {
			return invoicedomain.Invoice{}, quotationdomain.ErrInvalidPercentage
		}
		pct := *req.Percentage
		if !pct.IsPositive() || pct.GreaterThan(hundred) {
			return invoicedomain.Invoice{}, quotationdomain.ErrInvalidPercentage
		}
		factor = pct.Div(hundred)
	default:
		return invoicedomain.Invoice{}, quotationdomain.ErrInvalidStatus
	}

	quotation, err := s.load(ctx, req.QuoteID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if quotation.Status != quotationdomain.StatusApproved {
		return invoicedomain.Invoice{}, quotationdomain.ErrNotApproved
	}

	// The invoice is built from the quotation's pre-tax base so a full
	// conversion bills exactly the approved total: reapplying the tax rate
	// to the tax-inclusive total would double-charge the tax.
	taxable := quotation.Subtotal.Sub(quotation.DiscountAmount)
	subtotal := taxable.Mul(factor).Round(2)
	taxAmount := subtotal.Mul(quotation.TaxRate).Div(hundred).Round(2)
	totalAmount := subtotal.Add(taxAmount)

	now := s.clock.Now()
	invoice := invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		InvoiceType:   req.InvoiceType,
		QuoteID:       &quotation.ID,
		QuoteVersion:  quotation.Version,
		CustomerID:    quotation.CustomerID,
		ProjectID:     quotation.ProjectID,
		Status:        invoicedomain.InvoiceStatusDraft,
		Subtotal:      subtotal,
		TaxRate:       quotation.TaxRate,
		TaxAmount:     taxAmount,
		TotalAmount:   totalAmount,
		AmountPaid:    decimal.Zero,
		BalanceDue:    totalAmount,
		DueDate:       req.DueDate,
		PaymentTerms:  strings.TrimSpace(req.PaymentTerms),
		Notes:         strings.TrimSpace(req.Notes),
		CreatedBy:     actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]invoicedomain.InvoiceItem, 0, len(quotation.Items))
	for _, item := range quotation.Items {
		items = append(items, invoicedomain.InvoiceItem{
			ID:          s.genID.Generate(),
			InvoiceID:   invoice.ID,
			Description: item.Description,
			Quantity:    item.Quantity.Mul(factor).Round(2),
			UnitPrice:   item.UnitPrice,
			TotalAmount: item.TotalAmount.Mul(factor).Round(2),
			Category:    item.Category,
			Unit:        item.Unit,
			Notes:       item.Notes,
			CreatedAt:   now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.nextInvoiceNumber(ctx, tx, now.Year())
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number

		if err := tx.Create(&invoice).Error; err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("insert invoice items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	invoice.Items = items

	if quotation.ProjectID != nil {
		s.logActivity(ctx, activitydomain.Entry{
			ProjectID:         *quotation.ProjectID,
			ActivityType:      activitydomain.ActivityInvoiceCreated,
			Title:             "Invoice " + invoice.InvoiceNumber + " created from " + quotation.QuoteNumber,
			RelatedEntityType: "invoice",
			RelatedEntityID:   &invoice.ID,
			PerformedBy:       actorID,
			Metadata: map[string]any{
				"invoice_number": invoice.InvoiceNumber,
				"invoice_type":   string(req.InvoiceType),
				"quote_number":   quotation.QuoteNumber,
				"quote_version":  quotation.Version,
				"total_amount":   invoice.TotalAmount.String(),
			},
		})
	}

	return invoice, nil
}

func (s *Service) nextInvoiceNumber(ctx context.Context, tx *gorm.DB, year int) (string, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("invoice_number LIKE ?", fmt.Sprintf("INV-%d-%%", year)).
		Count(&count).Error
	if err != nil {
		return "", fmt.Errorf("count invoices: %w", err)
	}
	return fmt.Sprintf("INV-%d-%05d", year, count+1), nil
}
