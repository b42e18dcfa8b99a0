package service

import (
	"context"
	"fmt"

	invoicedomain "github.com/frostline/crm/internal/invoice/domain"
	"github.com/frostline/crm/internal/project/domain"
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Finance sums the project's quotations, invoices and payments into the
// dashboard rollup. Quotes count regardless of status; outstanding buckets
// only cover documents still awaiting a decision or money.
func (s *Service) Finance(ctx context.Context, rawID string) (domain.FinanceSummary, error) {
	project, err := s.GetByID(ctx, rawID)
	if err != nil {
		return domain.FinanceSummary{}, err
	}

	var quotations []quotationdomain.Quotation
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", project.ID).
		Find(&quotations).Error; err != nil {
		return domain.FinanceSummary{}, fmt.Errorf("load quotations: %w", err)
	}

	var invoices []invoicedomain.Invoice
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", project.ID).
		Find(&invoices).Error; err != nil {
		return domain.FinanceSummary{}, fmt.Errorf("load invoices: %w", err)
	}

	var payments []invoicedomain.Payment
	if len(invoices) > 0 {
		invoiceIDs := make([]any, 0, len(invoices))
		for _, invoice := range invoices {
			invoiceIDs = append(invoiceIDs, invoice.ID)
		}
		if err := s.db.WithContext(ctx).
			Where("invoice_id IN ?", invoiceIDs).
			Find(&payments).Error; err != nil {
			return domain.FinanceSummary{}, fmt.Errorf("load payments: %w", err)
		}
	}

	summary := domain.FinanceSummary{
		TotalQuoted:         decimal.Zero,
		TotalInvoiced:       decimal.Zero,
		TotalReceived:       decimal.Zero,
		OutstandingQuotes:   decimal.Zero,
		OutstandingInvoices: decimal.Zero,
	}

	for _, quotation := range quotations {
		summary.TotalQuoted = summary.TotalQuoted.Add(quotation.TotalAmount)
		switch quotation.Status {
		case quotationdomain.StatusSent, quotationdomain.StatusViewed:
			summary.OutstandingQuotes = summary.OutstandingQuotes.Add(quotation.TotalAmount)
		}
	}

	for _, invoice := range invoices {
		summary.TotalInvoiced = summary.TotalInvoiced.Add(invoice.TotalAmount)
		switch invoice.Status {
		case invoicedomain.InvoiceStatusSent, invoicedomain.InvoiceStatusOverdue:
			summary.OutstandingInvoices = summary.OutstandingInvoices.Add(invoice.BalanceDue)
		}
	}

	for _, payment := range payments {
		summary.TotalReceived = summary.TotalReceived.Add(payment.Amount)
	}

	if summary.TotalReceived.IsPositive() {
		margin := summary.TotalReceived.Sub(project.Budget).
			Div(summary.TotalReceived).
			Mul(hundred).
			Round(2)
		summary.ProfitMargin = &margin
	}

	return summary, nil
}
