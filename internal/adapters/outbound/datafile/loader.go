// Package datafile reads billing records from the flat YAML data files used by
// the generate and new commands.
//
// Invoice files use invoice_number, to_* and items with quantity/price.
// Proposal files may instead use proposal_number or reference, client_* and
// work_items priced by hours (or est_time) and rate. Both shapes map onto one
// domain.Document.
package datafile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minvoice/minvoice/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the static defaults file merged under interactive sessions.
const DefaultFile = "invoice_data.yml"

// Record is the on-disk shape of a data file.
type Record struct {
	Kind     string `yaml:"kind,omitempty"`
	Template string `yaml:"template,omitempty"`

	InvoiceNumber  string `yaml:"invoice_number,omitempty"`
	ProposalNumber string `yaml:"proposal_number,omitempty"`
	Reference      string `yaml:"reference,omitempty"`

	Date       string                  `yaml:"date,omitempty"`
	DueDate    domain.Optional[string] `yaml:"due_date,omitempty"`
	ValidUntil domain.Optional[string] `yaml:"valid_until,omitempty"`

	ToName        string                  `yaml:"to_name,omitempty"`
	ToAddress     string                  `yaml:"to_address,omitempty"`
	ToPhone       domain.Optional[string] `yaml:"to_phone,omitempty"`
	ClientName    string                  `yaml:"client_name,omitempty"`
	ClientAddress string                  `yaml:"client_address,omitempty"`
	ClientPhone   domain.Optional[string] `yaml:"client_phone,omitempty"`

	FromCompany domain.Optional[string] `yaml:"from_company,omitempty"`
	FromName    domain.Optional[string] `yaml:"from_name,omitempty"`
	FromEmail   domain.Optional[string] `yaml:"from_email,omitempty"`
	FromAddress domain.Optional[string] `yaml:"from_address,omitempty"`

	AccountName      domain.Optional[string] `yaml:"account_name,omitempty"`
	BankName         domain.Optional[string] `yaml:"bank_name,omitempty"`
	AccountNumber    domain.Optional[string] `yaml:"account_number,omitempty"`
	SortCode         domain.Optional[string] `yaml:"sort_code,omitempty"`
	CompanyRegNumber domain.Optional[string] `yaml:"company_reg_number,omitempty"`

	TaxRate   domain.Optional[decimal.Decimal] `yaml:"tax_rate,omitempty"`
	Items     []Item                           `yaml:"items,omitempty"`
	WorkItems []Item                           `yaml:"work_items,omitempty"`

	Notes        domain.Optional[string] `yaml:"notes,omitempty"`
	PaymentTerms domain.Optional[string] `yaml:"payment_terms,omitempty"`
	Timeline     domain.Optional[string] `yaml:"timeline,omitempty"`
}

// Item is one line of a data file.
type Item struct {
	Description string                           `yaml:"description"`
	Reference   domain.Optional[string]          `yaml:"reference,omitempty"`
	Quantity    domain.Optional[int]             `yaml:"quantity,omitempty"`
	Price       domain.Optional[decimal.Decimal] `yaml:"price,omitempty"`
	UnitPrice   domain.Optional[decimal.Decimal] `yaml:"unit_price,omitempty"`
	Hours       domain.Optional[decimal.Decimal] `yaml:"hours,omitempty"`
	EstTime     domain.Optional[decimal.Decimal] `yaml:"est_time,omitempty"`
	Rate        domain.Optional[decimal.Decimal] `yaml:"rate,omitempty"`
}

// Load reads and decodes the data file at path. A missing file is an error.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("reading data file: %w", err)
	}
	return Parse(data, filepath.Base(path))
}

// LoadOptional is Load, returning an empty record when the file does not exist.
func LoadOptional(path string) (Record, error) {
	rec, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, nil
	}
	return rec, err
}

// Parse decodes a data file body; name is used in error messages.
func Parse(data []byte, name string) (Record, error) {
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	return rec, nil
}

// Document converts the record into a domain document. Validation is left to
// Document.Validate.
func (r Record) Document() domain.Document {
	doc := domain.Document{
		Kind:     r.kind(),
		Template: r.Template,
		Number:   first(r.InvoiceNumber, r.ProposalNumber, r.Reference),
		Date:     r.Date,
		DueDate:  r.DueDate,
		To: domain.Party{
			Name:    first(r.ToName, r.ClientName),
			Address: unescape(first(r.ToAddress, r.ClientAddress)),
			Phone:   firstOptional(r.ToPhone, r.ClientPhone),
		},
		From: domain.Issuer{
			Company: r.FromCompany,
			Name:    r.FromName,
			Email:   r.FromEmail,
			Address: unescapeOptional(r.FromAddress),
		},
		TaxRate:      r.TaxRate.OrElse(decimal.Zero),
		Notes:        r.Notes,
		PaymentTerms: r.PaymentTerms,
		Timeline:     r.Timeline,
		ValidUntil:   r.ValidUntil,
	}

	pay := domain.PaymentInfo{
		AccountName:      r.AccountName,
		BankName:         r.BankName,
		AccountNumber:    r.AccountNumber,
		SortCode:         r.SortCode,
		CompanyRegNumber: r.CompanyRegNumber,
	}
	if pay != (domain.PaymentInfo{}) {
		doc.Payment = domain.Some(pay)
	}

	items := r.Items
	if len(items) == 0 {
		items = r.WorkItems
	}
	for _, it := range items {
		doc.Items = append(doc.Items, domain.LineItem{
			Description: it.Description,
			Reference:   it.Reference,
			Quantity:    it.Quantity,
			UnitPrice:   firstOptional(it.UnitPrice, it.Price),
			Hours:       firstOptional(it.Hours, it.EstTime),
			Rate:        it.Rate,
		})
	}

	return doc
}

// Merge overlays the non-empty fields of over onto r and returns the result.
// Item lists are replaced, not appended.
func (r Record) Merge(over Record) Record {
	out := r
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	opt := func(dst *domain.Optional[string], v domain.Optional[string]) {
		if v.IsPresent() {
			*dst = v
		}
	}

	str(&out.Kind, over.Kind)
	str(&out.Template, over.Template)
	str(&out.InvoiceNumber, over.InvoiceNumber)
	str(&out.ProposalNumber, over.ProposalNumber)
	str(&out.Reference, over.Reference)
	str(&out.Date, over.Date)
	str(&out.ToName, over.ToName)
	str(&out.ToAddress, over.ToAddress)
	str(&out.ClientName, over.ClientName)
	str(&out.ClientAddress, over.ClientAddress)

	opt(&out.DueDate, over.DueDate)
	opt(&out.ValidUntil, over.ValidUntil)
	opt(&out.ToPhone, over.ToPhone)
	opt(&out.ClientPhone, over.ClientPhone)
	opt(&out.FromCompany, over.FromCompany)
	opt(&out.FromName, over.FromName)
	opt(&out.FromEmail, over.FromEmail)
	opt(&out.FromAddress, over.FromAddress)
	opt(&out.AccountName, over.AccountName)
	opt(&out.BankName, over.BankName)
	opt(&out.AccountNumber, over.AccountNumber)
	opt(&out.SortCode, over.SortCode)
	opt(&out.CompanyRegNumber, over.CompanyRegNumber)
	opt(&out.Notes, over.Notes)
	opt(&out.PaymentTerms, over.PaymentTerms)
	opt(&out.Timeline, over.Timeline)

	if over.TaxRate.IsPresent() {
		out.TaxRate = over.TaxRate
	}
	if len(over.Items) > 0 || len(over.WorkItems) > 0 {
		out.Items = over.Items
		out.WorkItems = over.WorkItems
	}
	return out
}

func (r Record) kind() domain.DocumentKind {
	switch {
	case r.Kind != "":
		return domain.DocumentKind(strings.ToLower(r.Kind))
	case r.InvoiceNumber != "":
		return domain.KindInvoice
	case r.ProposalNumber != "" || r.Reference != "" || len(r.WorkItems) > 0:
		return domain.KindProposal
	default:
		return domain.KindInvoice
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstOptional[T any](values ...domain.Optional[T]) domain.Optional[T] {
	for _, v := range values {
		if v.IsPresent() {
			return v
		}
	}
	return domain.None[T]()
}

// unescape turns literal \n sequences typed at a prompt into new lines.
func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func unescapeOptional(o domain.Optional[string]) domain.Optional[string] {
	if v, ok := o.Get(); ok {
		return domain.Some(unescape(v))
	}
	return o
}
