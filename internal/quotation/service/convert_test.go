package service

import (
	"context"
	"testing"

	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approveQuote(t *testing.T, svc *Service, id, actorID string) {
	t.Helper()
	_, err := svc.UpdateStatus(context.Background(), quotationdomain.UpdateStatusRequest{
		ID:      id,
		Status:  quotationdomain.StatusApproved,
		ActorID: actorID,
	})
	require.NoError(t, err)
}

func TestConvert_RequiresApprovedQuote(t *testing.T) {
	svc, _, db, node := newTestService(t)

	quotation := createStandardQuote(t, svc, node, nil)

	_, err := svc.ConvertToInvoice(context.Background(), quotationdomain.ConvertToInvoiceRequest{
		QuoteID:     quotation.ID.String(),
		InvoiceType: invoicedomain.InvoiceTypeFull,
		ActorID:     node.Generate().String(),
	})
	assert.ErrorIs(t, err, quotationdomain.ErrNotApproved)

	var count int64
	require.NoError(t, db.Model(&invoicedomain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConvert_FullBillsApprovedTotal(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	quotation := createStandardQuote(t, svc, node, nil)
	approveQuote(t, svc, quotation.ID.String(), actorID)

	invoice, err := svc.ConvertToInvoice(context.Background(), quotationdomain.ConvertToInvoiceRequest{
		QuoteID:     quotation.ID.String(),
		InvoiceType: invoicedomain.InvoiceTypeFull,
		ActorID:     actorID,
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-00001", invoice.InvoiceNumber)
	assert.Equal(t, invoicedomain.InvoiceTypeFull, invoice.InvoiceType)
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, invoice.Status)
	require.NotNil(t, invoice.QuoteID)
	assert.Equal(t, quotation.ID, *invoice.QuoteID)
	assert.Equal(t, "v1", invoice.QuoteVersion)

	// a full conversion bills exactly the approved total
	requireAmount(t, "1800", invoice.Subtotal)
	requireAmount(t, "324", invoice.TaxAmount)
	requireAmount(t, "2124", invoice.TotalAmount)
	require.True(t, invoice.TotalAmount.Equal(quotation.TotalAmount))

	requireAmount(t, "0", invoice.AmountPaid)
	require.True(t, invoice.BalanceDue.Equal(invoice.TotalAmount))

	require.Len(t, invoice.Items, 2)
	requireAmount(t, "2", invoice.Items[0].Quantity)
	requireAmount(t, "1000", invoice.Items[0].TotalAmount)
}

func TestConvert_PartialScalesLines(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	quotation := createStandardQuote(t, svc, node, nil)
	approveQuote(t, svc, quotation.ID.String(), actorID)

	pct := decimal.NewFromInt(50)
	invoice, err := svc.ConvertToInvoice(context.Background(), quotationdomain.ConvertToInvoiceRequest{
		QuoteID:     quotation.ID.String(),
		InvoiceType: invoicedomain.InvoiceTypePartial,
		Percentage:  &pct,
		ActorID:     actorID,
	})
	require.NoError(t, err)

	requireAmount(t, "900", invoice.Subtotal)
	requireAmount(t, "162", invoice.TaxAmount)
	requireAmount(t, "1062", invoice.TotalAmount)

	require.Len(t, invoice.Items, 2)
	requireAmount(t, "1", invoice.Items[0].Quantity)
	requireAmount(t, "500", invoice.Items[0].TotalAmount)
	requireAmount(t, "0.5", invoice.Items[1].Quantity)
	requireAmount(t, "500", invoice.Items[1].TotalAmount)

	// unit prices are never scaled
	requireAmount(t, "500", invoice.Items[0].UnitPrice)
	requireAmount(t, "1000", invoice.Items[1].UnitPrice)
}

func TestConvert_PartialValidation(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	quotation := createStandardQuote(t, svc, node, nil)
	approveQuote(t, svc, quotation.ID.String(), actorID)

	zero := decimal.Zero
	over := decimal.NewFromInt(150)

	cases := []struct {
		name string
		req  quotationdomain.ConvertToInvoiceRequest
		want error
	}{
		{
			name: "partial without percentage",
			req: quotationdomain.ConvertToInvoiceRequest{
				QuoteID:     quotation.ID.String(),
				InvoiceType: invoicedomain.InvoiceTypePartial,
				ActorID:     actorID,
			},
			want: quotationdomain.ErrInvalidPercentage,
		},
		{
			name: "zero percentage",
			req: quotationdomain.ConvertToInvoiceRequest{
				QuoteID:     quotation.ID.String(),
				InvoiceType: invoicedomain.InvoiceTypePartial,
				Percentage:  &zero,
				ActorID:     actorID,
			},
			want: quotationdomain.ErrInvalidPercentage,
		},
		{
			name: "percentage above 100",
			req: quotationdomain.ConvertToInvoiceRequest{
				QuoteID:     quotation.ID.String(),
				InvoiceType: invoicedomain.InvoiceTypePartial,
				Percentage:  &over,
				ActorID:     actorID,
			},
			want: quotationdomain.ErrInvalidPercentage,
		},
		{
			name: "unsupported conversion type",
			req: quotationdomain.ConvertToInvoiceRequest{
				QuoteID:     quotation.ID.String(),
				InvoiceType: invoicedomain.InvoiceTypeStandalone,
				ActorID:     actorID,
			},
			want: quotationdomain.ErrInvalidStatus,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ConvertToInvoice(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestConvert_SequencesInvoiceNumbers(t *testing.T) {
	svc, _, _, node := newTestService(t)
	actorID := node.Generate().String()

	quotation := createStandardQuote(t, svc, node, nil)
	approveQuote(t, svc, quotation.ID.String(), actorID)

	pct := decimal.NewFromInt(40)
	first, err := svc.ConvertToInvoice(context.Background(), quotationdomain.ConvertToInvoiceRequest{
		QuoteID:     quotation.ID.String(),
		InvoiceType: invoicedomain.InvoiceTypePartial,
		Percentage:  &pct,
		ActorID:     actorID,
	})
	require.NoError(t, err)

	second, err := svc.ConvertToInvoice(context.Background(), quotationdomain.ConvertToInvoiceRequest{
		QuoteID:     quotation.ID.String(),
		InvoiceType: invoicedomain.InvoiceTypePartial,
		Percentage:  &pct,
		ActorID:     actorID,
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-2025-00001", first.InvoiceNumber)
	assert.Equal(t, "INV-2025-00002", second.InvoiceNumber)
}
