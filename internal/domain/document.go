package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes invoices from proposals.
type DocumentKind string

const (
	KindInvoice  DocumentKind = "invoice"
	KindProposal DocumentKind = "proposal"
)

// Document is the billing record consumed by the generators. It is built once
// per run, rendered once and then discarded.
type Document struct {
	Kind     DocumentKind `json:"kind"`
	Template string       `json:"template,omitempty"`

	Number  string           `json:"number"`
	Date    string           `json:"date"`
	DueDate Optional[string] `json:"due_date"`

	To      Party                 `json:"to"`
	From    Issuer                `json:"from"`
	Payment Optional[PaymentInfo] `json:"payment"`

	TaxRate decimal.Decimal `json:"tax_rate"`
	Items   []LineItem      `json:"items"`

	Notes        Optional[string] `json:"notes"`
	PaymentTerms Optional[string] `json:"payment_terms"`
	Timeline     Optional[string] `json:"timeline"`
	ValidUntil   Optional[string] `json:"valid_until"`
}

// Party is the billed (or prepared-for) client.
type Party struct {
	Name    string           `json:"name"`
	Address string           `json:"address"`
	Phone   Optional[string] `json:"phone"`
}

// Issuer is the business sending the document.
type Issuer struct {
	Company Optional[string] `json:"company"`
	Name    Optional[string] `json:"name"`
	Email   Optional[string] `json:"email"`
	Address Optional[string] `json:"address"`
}

// PaymentInfo holds the bank details printed in the footer.
type PaymentInfo struct {
	AccountName      Optional[string] `json:"account_name"`
	BankName         Optional[string] `json:"bank_name"`
	AccountNumber    Optional[string] `json:"account_number"`
	SortCode         Optional[string] `json:"sort_code"`
	CompanyRegNumber Optional[string] `json:"company_reg_number"`
}

// LineItem is one billable row. It is priced either by quantity and unit
// price, or by hours and rate.
type LineItem struct {
	Description string                    `json:"description"`
	Reference   Optional[string]          `json:"reference"`
	Quantity    Optional[int]             `json:"quantity"`
	UnitPrice   Optional[decimal.Decimal] `json:"unit_price"`
	Hours       Optional[decimal.Decimal] `json:"hours"`
	Rate        Optional[decimal.Decimal] `json:"rate"`
}

var taxRateMax = decimal.NewFromInt(1)

// Validate checks required fields and item pricing before any drawing begins.
func (d Document) Validate() error {
	// 1. kind must be known
	switch d.Kind {
	case KindInvoice, KindProposal:
	default:
		return fmt.Errorf("unknown document kind %q (valid: invoice, proposal)", d.Kind)
	}

	// 2. required scalar fields
	required := []struct {
		name  string
		value string
	}{
		{"number", d.Number},
		{"date", d.Date},
		{"to.name", d.To.Name},
		{"to.address", d.To.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &FieldError{Field: r.name}
		}
	}

	// 3. at least one item
	if len(d.Items) == 0 {
		return &FieldError{Field: "items"}
	}

	// 4. tax rate is a fraction
	if d.TaxRate.IsNegative() || d.TaxRate.GreaterThan(taxRateMax) {
		return fmt.Errorf("%w: %s (must be between 0 and 1)", ErrInvalidTaxRate, d.TaxRate)
	}

	// 5. every item resolves to a price; proposals are priced per item
	for i, item := range d.Items {
		if _, _, err := item.resolve(i); err != nil {
			return err
		}
		if q, ok := item.Quantity.Get(); ok && d.Kind == KindProposal && q != 1 {
			return &LineItemError{Index: i, Reason: "proposal items cannot carry a quantity"}
		}
	}

	return nil
}

// IssuerCompany returns the header issuer line, falling back to the configured issuer.
func (d Document) IssuerCompany(fallback string) Optional[string] {
	if v, ok := Text(d.From.Company); ok {
		return Some(v)
	}
	if fallback == "" {
		return None[string]()
	}
	return Some(fallback)
}

// DefaultFileName returns the output file name used when the caller gives none.
func (d Document) DefaultFileName() string {
	return fmt.Sprintf("%s_%s.pdf", d.Kind, d.Number)
}
