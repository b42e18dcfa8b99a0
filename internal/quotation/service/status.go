package service

import (
	"context"
	"fmt"
	"time"

	activitydomain "github.com/frostline/crm/internal/activity/domain"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
)

func (s *Service) UpdateStatus(ctx context.Context, req quotationdomain.UpdateStatusRequest) (quotationdomain.Quotation, error) {
	actorID, err := parseActor(req.ActorID)
	if err != nil {
		return quotationdomain.Quotation{}, err
	}

	switch req.Status {
	case quotationdomain.StatusSent,
		quotationdomain.StatusViewed,
		quotationdomain.StatusApproved,
		quotationdomain.StatusRejected,
		quotationdomain.StatusExpired:
	default:
		// draft only exists at creation and superseded only via CreateVersion
		return quotationdomain.Quotation{}, quotationdomain.ErrInvalidStatus
	}

	quotation, err := s.load(ctx, req.ID)
	if err != nil {
		return quotationdomain.Quotation{}, err
	}
	if quotation.Status.Terminal() {
		return quotationdomain.Quotation{}, quotationdomain.ErrTerminalStatus
	}

	now := s.clock.Now()
	patch := map[string]any{
		"status":     req.Status,
		"updated_at": now,
	}
	switch req.Status {
	case quotationdomain.StatusSent:
		patch["sent_date"] = now
		quotation.SentDate = &now
	case quotationdomain.StatusApproved:
		patch["approved_date"] = now
		quotation.ApprovedDate = &now
	}

	if err := s.repo.Update(ctx, quotation.ID.String(), patch); err != nil {
		return quotationdomain.Quotation{}, fmt.Errorf("update quotation status: %w", err)
	}
	quotation.Status = req.Status
	quotation.UpdatedAt = now

	if quotation.ProjectID != nil {
		if activityType, ok := activityForTransition(req.Status); ok {
			description := ""
			if req.Status == quotationdomain.StatusRejected {
				description = req.Notes
			}
			s.logActivity(ctx, activitydomain.Entry{
				ProjectID:         *quotation.ProjectID,
				ActivityType:      activityType,
				Title:             fmt.Sprintf("Quotation %s %s %s", quotation.QuoteNumber, quotation.Version, req.Status),
				Description:       description,
				RelatedEntityType: "quotation",
				RelatedEntityID:   &quotation.ID,
				PerformedBy:       actorID,
				Metadata: map[string]any{
					"quote_number": quotation.QuoteNumber,
					"version":      quotation.Version,
					"status":       string(req.Status),
				},
			})
		}
	}

	return quotation, nil
}

func activityForTransition(status quotationdomain.QuotationStatus) (activitydomain.ActivityType, bool) {
	switch status {
	case quotationdomain.StatusSent:
		return activitydomain.ActivityQuoteSent, true
	case quotationdomain.StatusViewed:
		return activitydomain.ActivityQuoteViewed, true
	case quotationdomain.StatusApproved:
		return activitydomain.ActivityQuoteApproved, true
	case quotationdomain.StatusRejected:
		return activitydomain.ActivityQuoteRejected, true
	case quotationdomain.StatusExpired:
		return activitydomain.ActivityQuoteExpired, true
	default:
		return "", false
	}
}

func (s *Service) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&quotationdomain.Quotation{}).
		Where("status IN ? AND valid_until IS NOT NULL AND valid_until < ?",
			[]quotationdomain.QuotationStatus{quotationdomain.StatusSent, quotationdomain.StatusViewed},
			now,
		).
		Updates(map[string]any{
			"status":     quotationdomain.StatusExpired,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("expire quotations: %w", result.Error)
	}
	return result.RowsAffected, nil
}
