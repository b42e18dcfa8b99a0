package service

import (
	quotationdomain "github.com/frostline/crm/internal/quotation/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	LineTotals     []decimal.Decimal
}

// computeTotals derives the quotation's financial fields from its lines.
// Each step is rounded to 2 decimal places before the next one so the stored
// columns always satisfy the documented identities:
//
//	line total = quantity * unit price
//	subtotal   = sum(line totals)
//	discount   = subtotal * discount% / 100
//	taxable    = subtotal - discount
//	tax        = taxable * tax% / 100
//	total      = taxable + tax
func computeTotals(items []quotationdomain.ItemInput, discountPct, taxRate decimal.Decimal) totals {
	subtotal := decimal.Zero
	lineTotals := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		lineTotal := item.Quantity.Mul(item.UnitPrice).Round(2)
		lineTotals = append(lineTotals, lineTotal)
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round(2)

	discountAmount := subtotal.Mul(discountPct).Div(hundred).Round(2)
	taxableAmount := subtotal.Sub(discountAmount)
	taxAmount := taxableAmount.Mul(taxRate).Div(hundred).Round(2)
	totalAmount := taxableAmount.Add(taxAmount)

	return totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,
		TaxAmount:      taxAmount,
		TotalAmount:    totalAmount,
		LineTotals:     lineTotals,
	}
}

func validateItems(items []quotationdomain.ItemInput) error {
	if len(items) == 0 {
		return quotationdomain.ErrEmptyItems
	}
	for _, item := range items {
		if item.Description == "" {
			return quotationdomain.ErrEmptyItems
		}
		if !item.Quantity.IsPositive() {
			return quotationdomain.ErrInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return quotationdomain.ErrInvalidUnitPrice
		}
	}
	return nil
}

func validateRates(discountPct, taxRate decimal.Decimal) error {
	if discountPct.IsNegative() || discountPct.GreaterThan(hundred) {
		return quotationdomain.ErrInvalidDiscount
	}
	if taxRate.IsNegative() {
		return quotationdomain.ErrInvalidTaxRate
	}
	return nil
}
