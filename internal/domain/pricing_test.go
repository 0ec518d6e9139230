package domain_test

import (
	"errors"
	"testing"

	"github.com/minvoice/minvoice/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func qtyItem(desc string, qty int, price string) domain.LineItem {
	return domain.LineItem{
		Description: desc,
		Quantity:    domain.Some(qty),
		UnitPrice:   domain.Some(dec(price)),
	}
}

func TestPrice_WidgetGadgetScenario(t *testing.T) {
	items := []domain.LineItem{
		qtyItem("Widget", 2, "25"),
		qtyItem("Gadget", 1, "50"),
	}

	q, err := domain.Price(items, dec("0.2"))
	require.NoError(t, err)

	assert.True(t, q.Totals.Subtotal.Equal(dec("100")), "subtotal %s", q.Totals.Subtotal)
	assert.True(t, q.Totals.Tax.Equal(dec("20")), "tax %s", q.Totals.Tax)
	assert.True(t, q.Totals.Total.Equal(dec("120")), "total %s", q.Totals.Total)
	require.Len(t, q.Lines, 2)
	assert.Equal(t, "Widget", q.Lines[0].Label)
	assert.True(t, q.Lines[0].Amount.Equal(dec("50")))
}

func TestPrice_SubtotalIsExactSum(t *testing.T) {
	items := []domain.LineItem{
		qtyItem("a", 3, "0.10"),
		qtyItem("b", 7, "19.99"),
		qtyItem("c", 0, "1000"),
	}

	q, err := domain.Price(items, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "140.23", q.Totals.Subtotal.StringFixed(2))
	assert.True(t, q.Totals.Tax.IsZero())
	assert.True(t, q.Totals.Total.Equal(q.Totals.Subtotal))
}

func TestPrice_TaxAndTotalIdentities(t *testing.T) {
	items := []domain.LineItem{qtyItem("a", 4, "12.5")}
	for _, rate := range []string{"0", "0.05", "0.175", "1"} {
		q, err := domain.Price(items, dec(rate))
		require.NoError(t, err)
		assert.True(t, q.Totals.Tax.Equal(q.Totals.Subtotal.Mul(dec(rate))), "rate %s", rate)
		assert.True(t, q.Totals.Total.Equal(q.Totals.Subtotal.Add(q.Totals.Tax)), "rate %s", rate)
	}
}

func TestPrice_QuantityDefaultsToOne(t *testing.T) {
	items := []domain.LineItem{{Description: "Setup", UnitPrice: domain.Some(dec("40"))}}

	q, err := domain.Price(items, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Lines[0].Quantity)
	assert.True(t, q.Totals.Subtotal.Equal(dec("40")))
}

func TestPrice_HoursTimesRateOverridesPrice(t *testing.T) {
	items := []domain.LineItem{{
		Description: "Consulting",
		UnitPrice:   domain.Some(dec("100")),
		Hours:       domain.Some(dec("2")),
		Rate:        domain.Some(dec("10")),
	}}

	q, err := domain.Price(items, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, q.Lines[0].UnitPrice.Equal(dec("20")), "unit price %s", q.Lines[0].UnitPrice)
}

func TestPrice_HoursWithoutRateFallsBackToPrice(t *testing.T) {
	items := []domain.LineItem{{
		Description: "Consulting",
		UnitPrice:   domain.Some(dec("100")),
		Hours:       domain.Some(dec("2")),
	}}

	q, err := domain.Price(items, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, q.Lines[0].UnitPrice.Equal(dec("100")))
}

func TestPrice_ReferenceAppendedToLabel(t *testing.T) {
	items := []domain.LineItem{{
		Description: "Seals and lids",
		Reference:   domain.Some("RM #1234"),
		Hours:       domain.Some(dec("8")),
		Rate:        domain.Some(dec("35")),
	}}

	q, err := domain.Price(items, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "Seals and lids (RM #1234)", q.Lines[0].Label)
	assert.Equal(t, "Seals and lids", q.Lines[0].Description)
	assert.Equal(t, "Seals and lids", items[0].Description)
}

func TestPrice_UnresolvablePrice(t *testing.T) {
	items := []domain.LineItem{
		qtyItem("ok", 1, "1"),
		{Description: "no price", Hours: domain.Some(dec("3"))},
	}

	_, err := domain.Price(items, decimal.Zero)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidLineItem))

	var lie *domain.LineItemError
	require.True(t, errors.As(err, &lie))
	assert.Equal(t, 1, lie.Index)
	assert.Contains(t, err.Error(), "item 2")
}

func TestPrice_NegativeQuantity(t *testing.T) {
	_, err := domain.Price([]domain.LineItem{qtyItem("x", -1, "5")}, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidLineItem)
}

func TestPrice_NegativeRate(t *testing.T) {
	items := []domain.LineItem{{Description: "x", Hours: domain.Some(dec("2")), Rate: domain.Some(dec("-5"))}}
	_, err := domain.Price(items, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidLineItem)
}

func TestPrice_Idempotent(t *testing.T) {
	items := []domain.LineItem{
		qtyItem("Widget", 2, "25"),
		{Description: "Dev", Hours: domain.Some(dec("1.5")), Rate: domain.Some(dec("35"))},
	}
	before := append([]domain.LineItem(nil), items...)

	q1, err := domain.Price(items, dec("0.2"))
	require.NoError(t, err)
	q2, err := domain.Price(items, dec("0.2"))
	require.NoError(t, err)

	assert.Equal(t, q1, q2)
	assert.Equal(t, before, items)
	_, present := items[1].Quantity.Get()
	assert.False(t, present, "quantity must not be written back")
}

func TestFormatCurrency_Truncates(t *testing.T) {
	assert.Equal(t, "£19", domain.FormatCurrency(dec("19.99"), "£"))
	assert.Equal(t, "£20", domain.FormatCurrency(dec("20.5"), "£"))
	assert.Equal(t, "£120", domain.FormatCurrency(dec("120"), "£"))
	assert.Equal(t, "$0", domain.FormatCurrency(dec("0.99"), "$"))
}

func TestFormatCurrencyExact(t *testing.T) {
	assert.Equal(t, "£19.99", domain.FormatCurrencyExact(dec("19.99"), "£"))
	assert.Equal(t, "£20.00", domain.FormatCurrencyExact(dec("20"), "£"))
}

func TestTaxLabel(t *testing.T) {
	assert.Equal(t, "Tax (20%)", domain.TaxLabel(dec("0.2")))
	assert.Equal(t, "Tax (0%)", domain.TaxLabel(decimal.Zero))
	assert.Equal(t, "Tax (17%)", domain.TaxLabel(dec("0.175")))
	assert.Equal(t, "Tax (29%)", domain.TaxLabel(dec("0.29")))
}
