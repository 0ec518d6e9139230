package layout

import (
	"fmt"

	"github.com/minvoice/minvoice/internal/domain"
)

// ColumnSet selects the line-item table shape.
type ColumnSet int

const (
	// ColumnsQuantity renders Item, Quantity, Unit Price, Total.
	ColumnsQuantity ColumnSet = iota
	// ColumnsReference renders Reference, description, amount.
	ColumnsReference
)

// SummaryRows controls the subtotal and tax rows under the items.
type SummaryRows int

const (
	SummaryAlways SummaryRows = iota
	SummaryWhenTaxed
)

// FooterKind selects the left footer block.
type FooterKind int

const (
	FooterPayment FooterKind = iota
	FooterTerms
)

// Template is a named layout preset. All presets share one page skeleton and
// differ only in the values below.
type Template struct {
	Name        string
	Kind        domain.DocumentKind
	Title       string
	TitleSize   float64
	PartyLabel  string
	NumberLabel string
	Columns     ColumnSet
	Headers     []string
	CellPadding [4]float64
	Summary     SummaryRows
	TotalLabel  string
	TotalWidth  float64
	Banner      string
	ShowNotes   bool
	ShowExpiry  bool
	Footer      FooterKind
	RegNumSize  float64
}

var templates = map[string]Template{
	"invoice": {
		Name:        "invoice",
		Kind:        domain.KindInvoice,
		Title:       "INVOICE",
		TitleSize:   50,
		PartyLabel:  "BILLED TO:",
		NumberLabel: "Invoice",
		Columns:     ColumnsQuantity,
		Headers:     []string{"Item", "Quantity", "Unit Price", "Total"},
		CellPadding: [4]float64{6, 0, 6, 0},
		Summary:     SummaryAlways,
		TotalLabel:  "Total",
		TotalWidth:  150,
		Banner:      "Thank you!",
		Footer:      FooterPayment,
		RegNumSize:  11,
	},
	"proposal": {
		Name:        "proposal",
		Kind:        domain.KindProposal,
		Title:       "WORK PROPOSAL",
		TitleSize:   32,
		PartyLabel:  "BILLED TO:",
		NumberLabel: "Proposal",
		Columns:     ColumnsReference,
		Headers:     []string{"Reference", "Item", "Total"},
		CellPadding: [4]float64{6, 0, 6, 0},
		Summary:     SummaryAlways,
		TotalLabel:  "Total",
		TotalWidth:  150,
		Banner:      "Thank you!",
		Footer:      FooterPayment,
		RegNumSize:  11,
	},
	"project-proposal": {
		Name:        "project-proposal",
		Kind:        domain.KindProposal,
		Title:       "PROPOSAL",
		TitleSize:   50,
		PartyLabel:  "PREPARED FOR:",
		NumberLabel: "Reference",
		Columns:     ColumnsReference,
		Headers:     []string{"Reference", "Work Description", "Projected Cost"},
		CellPadding: [4]float64{6, 8, 6, 8},
		Summary:     SummaryWhenTaxed,
		TotalLabel:  "Total Projected Cost",
		TotalWidth:  250,
		ShowNotes:   true,
		ShowExpiry:  true,
		Footer:      FooterTerms,
		RegNumSize:  10,
	},
}

// Lookup returns the template preset with the given name.
func Lookup(name string) (Template, error) {
	t, ok := templates[name]
	if !ok {
		return Template{}, fmt.Errorf("%w %q (valid: invoice, proposal, project-proposal)", domain.ErrUnknownTemplate, name)
	}
	return t, nil
}

// ForDocument picks the preset named by the document, falling back to the
// default for its kind.
func ForDocument(doc domain.Document, fallback string) (Template, error) {
	name := doc.Template
	if name == "" {
		name = string(doc.Kind)
		if ft, err := Lookup(fallback); err == nil && ft.Kind == doc.Kind {
			name = fallback
		}
	}
	t, err := Lookup(name)
	if err != nil {
		return Template{}, err
	}
	if t.Kind != doc.Kind {
		return Template{}, fmt.Errorf("template %q renders %s documents, got %s", name, t.Kind, doc.Kind)
	}
	return t, nil
}
