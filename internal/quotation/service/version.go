package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"gorm.io/gorm"
)

func (s *Service) CreateVersion(ctx context.Context, req quotationdomain.CreateVersionRequest) (quotationdomain.Quotation, error) {
	actorID, err := parseActor(req.ActorID)
	if err != nil {
		return quotationdomain.Quotation{}, err
	}

	original, err := s.load(ctx, req.OriginalID)
	if err != nil {
		return quotationdomain.Quotation{}, err
	}
	if original.Status == quotationdomain.StatusSuperseded {
		return quotationdomain.Quotation{}, quotationdomain.ErrTerminalStatus
	}
	if !original.IsLatestVersion {
		return quotationdomain.Quotation{}, quotationdomain.ErrVersionConflict
	}

	items := req.Changes.Items
	if items == nil {
		items = make([]quotationdomain.ItemInput, 0, len(original.Items))
		for _, item := range original.Items {
			items = append(items, quotationdomain.ItemInput{
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Category:    item.Category,
				Unit:        item.Unit,
				Notes:       item.Notes,
			})
		}
	}
	if err := validateItems(items); err != nil {
		return quotationdomain.Quotation{}, err
	}

	discountPct := original.DiscountPercentage
	if req.Changes.DiscountPercentage != nil {
		discountPct = *req.Changes.DiscountPercentage
	}
	taxRate := original.TaxRate
	if req.Changes.TaxRate != nil {
		taxRate = *req.Changes.TaxRate
	}
	if err := validateRates(discountPct, taxRate); err != nil {
		return quotationdomain.Quotation{}, err
	}

	title := original.Title
	if req.Changes.Title != nil {
		title = strings.TrimSpace(*req.Changes.Title)
	}
	terms := original.Terms
	if req.Changes.Terms != nil {
		terms = strings.TrimSpace(*req.Changes.Terms)
	}
	notes := original.Notes
	if req.Changes.Notes != nil {
		notes = strings.TrimSpace(*req.Changes.Notes)
	}
	validUntil := original.ValidUntil
	if req.Changes.ValidUntil != nil {
		validUntil = req.Changes.ValidUntil
	}

	sums := computeTotals(items, discountPct, taxRate)
	now := s.clock.Now()

	next := quotationdomain.Quotation{
		ID:                 s.genID.Generate(),
		QuoteNumber:        original.QuoteNumber,
		Version:            nextVersion(original.Version),
		IsLatestVersion:    true,
		CustomerID:         original.CustomerID,
		ProjectID:          original.ProjectID,
		CreatedBy:          actorID,
		Title:              title,
		Status:             quotationdomain.StatusDraft,
		Subtotal:           sums.Subtotal,
		DiscountPercentage: discountPct.Round(2),
		DiscountAmount:     sums.DiscountAmount,
		TaxRate:            taxRate.Round(2),
		TaxAmount:          sums.TaxAmount,
		TotalAmount:        sums.TotalAmount,
		ValidUntil:         validUntil,
		Terms:              terms,
		Notes:              notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	rows := make([]quotationdomain.QuotationItem, 0, len(items))
	for i, input := range items {
		rows = append(rows, quotationdomain.QuotationItem{
			ID:          s.genID.Generate(),
			QuotationID: next.ID,
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

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded supersede: the is_latest_version predicate makes two racing
		// CreateVersion calls on the same original resolve to one winner.
		patch := map[string]any{
			"is_latest_version": false,
			"updated_at":        now,
		}
		if !original.Status.Terminal() {
			patch["status"] = quotationdomain.StatusSuperseded
		}
		result := tx.Model(&quotationdomain.Quotation{}).
			Where("id = ? AND is_latest_version = ?", original.ID, true).
			Updates(patch)
		if result.Error != nil {
			return fmt.Errorf("supersede quotation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return quotationdomain.ErrVersionConflict
		}

		if err := tx.Create(&next).Error; err != nil {
			return fmt.Errorf("insert quotation version: %w", err)
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert quotation version items: %w", err)
		}
		return nil
	})
	if err != nil {
		return quotationdomain.Quotation{}, err
	}

	next.Items = rows
	return next, nil
}

// nextVersion parses the trailing integer of "v<N>" and increments it.
// Unparsable versions restart the chain at v2.
func nextVersion(version string) string {
	n := 1
	if trimmed, ok := strings.CutPrefix(version, "v"); ok {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			n = parsed
		}
	}
	return "v" + strconv.Itoa(n+1)
}
