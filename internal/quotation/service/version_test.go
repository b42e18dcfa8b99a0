package service

import (
	"context"
	"testing"

	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVersion_SupersedesOriginal(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	original := createStandardQuote(t, svc, node, nil)

	discount := decimal.NewFromInt(20)
	next, err := svc.CreateVersion(context.Background(), quotationdomain.CreateVersionRequest{
		OriginalID: original.ID.String(),
		Changes: quotationdomain.VersionChanges{
			DiscountPercentage: &discount,
		},
		ActorID: actorID,
	})
	require.NoError(t, err)

	assert.Equal(t, original.QuoteNumber, next.QuoteNumber)
	assert.Equal(t, "v2", next.Version)
	assert.True(t, next.IsLatestVersion)
	assert.Equal(t, quotationdomain.StatusDraft, next.Status)

	// totals recomputed with the overridden discount
	requireAmount(t, "2000", next.Subtotal)
	requireAmount(t, "400", next.DiscountAmount)
	requireAmount(t, "288", next.TaxAmount)
	requireAmount(t, "1888", next.TotalAmount)

	// lines are copied, not shared
	require.Len(t, next.Items, 2)
	for _, item := range next.Items {
		assert.Equal(t, next.ID, item.QuotationID)
	}

	reloaded, err := svc.GetByID(context.Background(), quotationdomain.GetQuotationRequest{ID: original.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, quotationdomain.StatusSuperseded, reloaded.Status)
	assert.False(t, reloaded.IsLatestVersion)
}

func TestCreateVersion_ChainsVersionNumbers(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	original := createStandardQuote(t, svc, node, nil)

	v2, err := svc.CreateVersion(context.Background(), quotationdomain.CreateVersionRequest{
		OriginalID: original.ID.String(),
		ActorID:    actorID,
	})
	require.NoError(t, err)

	v3, err := svc.CreateVersion(context.Background(), quotationdomain.CreateVersionRequest{
		OriginalID: v2.ID.String(),
		ActorID:    actorID,
	})
	require.NoError(t, err)

	assert.Equal(t, "v3", v3.Version)
	assert.Equal(t, original.QuoteNumber, v3.QuoteNumber)

	latest, err := svc.List(context.Background(), quotationdomain.ListQuotationRequest{LatestOnly: true})
	require.NoError(t, err)
	require.Len(t, latest.Quotations, 1)
	assert.Equal(t, v3.ID, latest.Quotations[0].ID)
}

func TestCreateVersion_FromSupersededFails(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	original := createStandardQuote(t, svc, node, nil)

	_, err := svc.CreateVersion(context.Background(), quotationdomain.CreateVersionRequest{
		OriginalID: original.ID.String(),
		ActorID:    actorID,
	})
	require.NoError(t, err)

	_, err = svc.CreateVersion(context.Background(), quotationdomain.CreateVersionRequest{
		OriginalID: original.ID.String(),
		ActorID:    actorID,
	})
	assert.ErrorIs(t, err, quotationdomain.ErrTerminalStatus)
}

func TestCreateVersion_ApprovedOriginalKeepsStatus(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	original := createStandardQuote(t, svc, node, nil)
	_, err := svc.UpdateStatus(context.Background(), quotationdomain.UpdateStatusRequest{
		ID:      original.ID.String(),
		Status:  quotationdomain.StatusApproved,
		ActorID: actorID,
	})
	require.NoError(t, err)

	next, err := svc.CreateVersion(context.Background(), quotationdomain.CreateVersionRequest{
		OriginalID: original.ID.String(),
		ActorID:    actorID,
	})
	require.NoError(t, err)
	assert.Equal(t, "v2", next.Version)

	reloaded, err := svc.GetByID(context.Background(), quotationdomain.GetQuotationRequest{ID: original.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, quotationdomain.StatusApproved, reloaded.Status)
	assert.False(t, reloaded.IsLatestVersion)

	// the approved original is history now; further versions must branch
	// from the latest
	_, err = svc.CreateVersion(context.Background(), quotationdomain.CreateVersionRequest{
		OriginalID: original.ID.String(),
		ActorID:    actorID,
	})
	assert.ErrorIs(t, err, quotationdomain.ErrVersionConflict)
}

func TestCreateVersion_ReplacesItems(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	original := createStandardQuote(t, svc, node, nil)

	next, err := svc.CreateVersion(context.Background(), quotationdomain.CreateVersionRequest{
		OriginalID: original.ID.String(),
		Changes: quotationdomain.VersionChanges{
			Items: []quotationdomain.ItemInput{
				{Description: "Ducting", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(200)},
			},
		},
		ActorID: actorID,
	})
	require.NoError(t, err)

	require.Len(t, next.Items, 1)
	requireAmount(t, "600", next.Subtotal)
	requireAmount(t, "60", next.DiscountAmount)
}

func TestCreateVersion_ValidatesOverrides(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	original := createStandardQuote(t, svc, node, nil)

	bad := decimal.NewFromInt(150)
	_, err := svc.CreateVersion(context.Background(), quotationdomain.CreateVersionRequest{
		OriginalID: original.ID.String(),
		Changes: quotationdomain.VersionChanges{
			DiscountPercentage: &bad,
		},
		ActorID: actorID,
	})
	assert.ErrorIs(t, err, quotationdomain.ErrInvalidDiscount)

	// failed validation must not supersede the original
	reloaded, err := svc.GetByID(context.Background(), quotationdomain.GetQuotationRequest{ID: original.ID.String()})
	require.NoError(t, err)
	assert.True(t, reloaded.IsLatestVersion)
	assert.Equal(t, quotationdomain.StatusDraft, reloaded.Status)
}
