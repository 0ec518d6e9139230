package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/minvoice/minvoice/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoice() domain.Document {
	return domain.Document{
		Kind:   domain.KindInvoice,
		Number: "CM001",
		Date:   "12 December 2025",
		To: domain.Party{
			Name:    "CareMeds Limited",
			Address: "Unit 7, Brickfield Lane\nChandlers Ford",
			Phone:   domain.Some("01794 400 100"),
		},
		TaxRate: dec("0.2"),
		Items: []domain.LineItem{
			qtyItem("Widget", 2, "25"),
			qtyItem("Gadget", 1, "50"),
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validInvoice().Validate())
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(d *domain.Document)
	}{
		{"number", func(d *domain.Document) { d.Number = "" }},
		{"date", func(d *domain.Document) { d.Date = "  " }},
		{"to.name", func(d *domain.Document) { d.To.Name = "" }},
		{"to.address", func(d *domain.Document) { d.To.Address = "" }},
		{"items", func(d *domain.Document) { d.Items = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			doc := validInvoice()
			tt.mutate(&doc)

			err := doc.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMissingRequiredField))

			var fe *domain.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestValidate_TaxRateRange(t *testing.T) {
	doc := validInvoice()
	doc.TaxRate = dec("1.5")
	assert.ErrorIs(t, doc.Validate(), domain.ErrInvalidTaxRate)

	doc.TaxRate = dec("-0.1")
	assert.ErrorIs(t, doc.Validate(), domain.ErrInvalidTaxRate)

	doc.TaxRate = decimal.NewFromInt(1)
	assert.NoError(t, doc.Validate())
}

func TestValidate_InvalidItem(t *testing.T) {
	doc := validInvoice()
	doc.Items = append(doc.Items, domain.LineItem{Description: "Mystery"})
	assert.ErrorIs(t, doc.Validate(), domain.ErrInvalidLineItem)
}

func TestValidate_UnknownKind(t *testing.T) {
	doc := validInvoice()
	doc.Kind = "receipt"
	err := doc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document kind")
}

func TestValidate_ProposalRejectsQuantity(t *testing.T) {
	doc := validInvoice()
	doc.Kind = domain.KindProposal
	assert.ErrorIs(t, doc.Validate(), domain.ErrInvalidLineItem)

	doc.Items = []domain.LineItem{{Description: "Dev", Hours: domain.Some(dec("6")), Rate: domain.Some(dec("35"))}}
	assert.NoError(t, doc.Validate())
}

func TestIssuerCompany(t *testing.T) {
	doc := validInvoice()
	v, ok := doc.IssuerCompany("Fallback Ltd").Get()
	assert.True(t, ok)
	assert.Equal(t, "Fallback Ltd", v)

	doc.From.Company = domain.Some("Shukra Software Ltd")
	v, _ = doc.IssuerCompany("Fallback Ltd").Get()
	assert.Equal(t, "Shukra Software Ltd", v)

	doc.From.Company = domain.None[string]()
	assert.False(t, doc.IssuerCompany("").IsPresent())
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "invoice_CM001.pdf", validInvoice().DefaultFileName())
}

func TestDocument_JSONRoundTripKeepsAbsence(t *testing.T) {
	raw := `{
		"kind": "invoice",
		"number": "CM002",
		"date": "1 January 2026",
		"due_date": null,
		"to": {"name": "Acme", "address": "1 Road"},
		"tax_rate": "0.2",
		"items": [{"description": "Widget", "quantity": 2, "unit_price": 25}]
	}`

	var doc domain.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.False(t, doc.DueDate.IsPresent())
	assert.False(t, doc.To.Phone.IsPresent())
	assert.False(t, doc.Payment.IsPresent())
	q, ok := doc.Items[0].Quantity.Get()
	assert.True(t, ok)
	assert.Equal(t, 2, q)
	assert.NoError(t, doc.Validate())
}
