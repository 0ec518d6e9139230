package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PricedLine is the normalized, display-ready form of a LineItem.
type PricedLine struct {
	Label       string           `json:"label"`
	Description string           `json:"description"`
	Reference   Optional[string] `json:"reference"`
	Quantity    int              `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Amount      decimal.Decimal  `json:"amount"`
}

// Totals are derived from the items and tax rate on every render and never stored.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Quote is the priced table of a document.
type Quote struct {
	Lines  []PricedLine `json:"lines"`
	Totals Totals       `json:"totals"`
}

var hundred = decimal.NewFromInt(100)

// Price resolves every item and computes subtotal, tax and total.
// Items are read, never modified.
func Price(items []LineItem, taxRate decimal.Decimal) (Quote, error) {
	lines := make([]PricedLine, 0, len(items))
	subtotal := decimal.Zero

	for i, item := range items {
		qty, unit, err := item.resolve(i)
		if err != nil {
			return Quote{}, err
		}
		amount := unit.Mul(decimal.NewFromInt(int64(qty)))
		subtotal = subtotal.Add(amount)
		lines = append(lines, PricedLine{
			Label:       item.Label(),
			Description: item.Description,
			Reference:   item.Reference,
			Quantity:    qty,
			UnitPrice:   unit,
			Amount:      amount,
		})
	}

	tax := subtotal.Mul(taxRate)
	return Quote{
		Lines: lines,
		Totals: Totals{
			Subtotal: subtotal,
			TaxRate:  taxRate,
			Tax:      tax,
			Total:    subtotal.Add(tax),
		},
	}, nil
}

// Label is the description as displayed, with the reference in parentheses.
func (li LineItem) Label() string {
	if ref, ok := Text(li.Reference); ok {
		return fmt.Sprintf("%s (%s)", li.Description, ref)
	}
	return li.Description
}

// resolve returns the quantity and unit price of the item. Hours times rate
// overrides a literal unit price when both are present.
func (li LineItem) resolve(index int) (int, decimal.Decimal, error) {
	qty := li.Quantity.OrElse(1)
	if qty < 0 {
		return 0, decimal.Zero, &LineItemError{Index: index, Reason: fmt.Sprintf("quantity %d is negative", qty)}
	}

	hours, hasHours := li.Hours.Get()
	rate, hasRate := li.Rate.Get()
	if hasHours && hasRate {
		if hours.IsNegative() || rate.IsNegative() {
			return 0, decimal.Zero, &LineItemError{Index: index, Reason: "hours and rate must not be negative"}
		}
		return qty, hours.Mul(rate), nil
	}

	unit, ok := li.UnitPrice.Get()
	if !ok {
		return 0, decimal.Zero, &LineItemError{Index: index, Reason: "no unit price and no hours with rate"}
	}
	if unit.IsNegative() {
		return 0, decimal.Zero, &LineItemError{Index: index, Reason: "unit price must not be negative"}
	}
	return qty, unit, nil
}

// FormatCurrency renders an amount with fractional pennies truncated: 19.99 becomes "£19".
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	return fmt.Sprintf("%s%d", symbol, amount.IntPart())
}

// FormatCurrencyExact renders an amount to two decimal places for terminal summaries.
func FormatCurrencyExact(amount decimal.Decimal, symbol string) string {
	return symbol + amount.StringFixed(2)
}

// TaxLabel renders the tax row label with the percentage truncated to an integer.
func TaxLabel(rate decimal.Decimal) string {
	return fmt.Sprintf("Tax (%d%%)", rate.Mul(hundred).IntPart())
}
