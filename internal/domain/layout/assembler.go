package layout

import (
	"fmt"

	"github.com/minvoice/minvoice/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	bodySize  = 11
	logoSize  = 80
	markLogo  = "logo"
	markHead  = "header"
	markFoot  = "footer"
	leftWidth = 300
)

// Assemble builds the draw program for doc. The quote must come from
// domain.Price on the same document; logo is the resolved logo path, Absent
// when the asset is unavailable. Assemble performs no I/O.
func Assemble(doc domain.Document, quote domain.Quote, tpl Template, cfg domain.Config, logo domain.Optional[string]) Page {
	page := Page{
		Size:      cfg.Page(),
		Margin:    cfg.Margin,
		TextColor: cfg.TextColor,
	}
	b := &builder{width: page.BoundsWidth(), color: cfg.TextColor, symbol: cfg.CurrencySymbol}

	b.add(Instruction{Op: OpFillPage, Color: cfg.BackgroundColor})

	// Logo and title share a line.
	b.mark(markLogo)
	if path, ok := domain.Text(logo); ok {
		b.add(Instruction{Op: OpImage, Mark: markLogo, X: 0, Width: logoSize, Height: logoSize, Path: path})
	}
	b.region(markLogo, b.width-300, 300, func() {
		b.text(tpl.Title, Style{Size: tpl.TitleSize, Bold: true, Align: AlignRight, CharSpacing: 2})
	})
	b.moveDown(60)

	b.header(doc, tpl, cfg.Issuer)
	b.moveDown(80)

	b.add(Instruction{Op: OpTable, Width: b.width, Table: b.table(quote, tpl)})

	b.moveDown(2)
	b.add(Instruction{Op: OpRule, Width: b.width, Amount: 1, Color: b.color})
	b.moveDown(12)

	total := fmt.Sprintf("%s  %s", tpl.TotalLabel, domain.FormatCurrency(quote.Totals.Total, b.symbol))
	b.add(Instruction{
		Op:    OpTextBox,
		X:     b.width - tpl.TotalWidth,
		Width: tpl.TotalWidth,
		Text:  total,
		Style: Style{Size: 18, Bold: true, Align: AlignRight},
	})
	b.moveDown(60)

	if tpl.Banner != "" {
		b.text(tpl.Banner, Style{Size: 24, Bold: true})
		b.moveDown(20)
	}

	if notes, ok := domain.Text(doc.Notes); ok && tpl.ShowNotes {
		b.text("NOTES", Style{Size: bodySize, Bold: true})
		b.moveDown(8)
		b.text(notes, Style{Size: bodySize})
		b.moveDown(30)
	}

	b.footer(doc, tpl)

	page.Instructions = b.out
	return page
}

type builder struct {
	out    []Instruction
	width  float64
	color  string
	symbol string
}

func (b *builder) add(in Instruction) { b.out = append(b.out, in) }

func (b *builder) mark(name string) { b.add(Instruction{Op: OpMark, Mark: name}) }

func (b *builder) moveDown(pt float64) { b.add(Instruction{Op: OpMoveDown, Amount: pt}) }

func (b *builder) text(s string, st Style) {
	if st.Align == "" {
		st.Align = AlignLeft
	}
	b.add(Instruction{Op: OpText, Text: s, Style: st})
}

// optText emits a text run only for present, non-empty values.
func (b *builder) optText(v domain.Optional[string], format string, st Style) {
	if s, ok := domain.Text(v); ok {
		b.text(fmt.Sprintf(format, s), st)
	}
}

func (b *builder) region(anchor string, x, width float64, body func()) {
	b.add(Instruction{Op: OpBeginRegion, Mark: anchor, X: x, Width: width})
	body()
	b.add(Instruction{Op: OpEndRegion})
}

func (b *builder) header(doc domain.Document, tpl Template, issuer string) {
	b.mark(markHead)

	body := Style{Size: bodySize}
	b.region(markHead, 0, leftWidth, func() {
		b.text(tpl.PartyLabel, Style{Size: bodySize, Bold: true})
		b.moveDown(8)
		b.text(doc.To.Name, body)
		b.moveDown(4)
		b.text(doc.To.Address, body)
		b.moveDown(4)
		b.optText(doc.To.Phone, "%s", body)
	})

	right := Style{Size: bodySize, Align: AlignRight}
	b.region(markHead, b.width-200, 200, func() {
		b.optText(doc.IssuerCompany(issuer), "%s", Style{Size: bodySize, Bold: true, Align: AlignRight})
		b.text(fmt.Sprintf("%s: %s", tpl.NumberLabel, doc.Number), right)
		b.text(doc.Date, right)
		if tpl.ShowExpiry {
			b.optText(doc.ValidUntil, "Valid until: %s", Style{Size: 10, Align: AlignRight})
		}
	})
}

func (b *builder) table(quote domain.Quote, tpl Template) *Table {
	t := &Table{
		Width:       b.width,
		FontSize:    bodySize,
		BorderWidth: 0.5,
		BorderColor: b.color,
		Padding:     tpl.CellPadding,
	}

	header := Row{Kind: RowHeader, Borders: Borders{Top: true, Bottom: true}}
	for _, h := range tpl.Headers {
		header.Cells = append(header.Cells, Cell{Text: h, Bold: true})
	}
	t.Rows = append(t.Rows, header)

	money := func(v decimal.Decimal) string { return domain.FormatCurrency(v, b.symbol) }

	for _, line := range quote.Lines {
		var cells []Cell
		switch tpl.Columns {
		case ColumnsQuantity:
			cells = []Cell{
				{Text: line.Label},
				{Text: fmt.Sprint(line.Quantity)},
				{Text: money(line.UnitPrice)},
				{Text: money(line.Amount)},
			}
		default:
			ref, _ := line.Reference.Get()
			cells = []Cell{{Text: ref}, {Text: line.Description}, {Text: money(line.Amount)}}
		}
		t.Rows = append(t.Rows, Row{Kind: RowItem, Cells: cells})
	}

	if tpl.Summary == SummaryAlways || quote.Totals.TaxRate.IsPositive() {
		t.Rows = append(t.Rows,
			summaryRow(RowSubtotal, len(tpl.Headers), "Subtotal", money(quote.Totals.Subtotal)),
			summaryRow(RowTax, len(tpl.Headers), domain.TaxLabel(quote.Totals.TaxRate), money(quote.Totals.Tax)),
		)
	}

	t.Align = make([]Align, len(tpl.Headers))
	for i := range t.Align {
		t.Align[i] = AlignLeft
		if i == len(t.Align)-1 || (tpl.Columns == ColumnsQuantity && i > 0) {
			t.Align[i] = AlignRight
		}
	}
	return t
}

// summaryRow fills the leading cells with blanks and bolds the label and amount.
func summaryRow(kind RowKind, columns int, label, amount string) Row {
	cells := make([]Cell, columns)
	cells[columns-2] = Cell{Text: label, Bold: true}
	cells[columns-1] = Cell{Text: amount, Bold: true}
	return Row{Kind: kind, Cells: cells}
}

func (b *builder) footer(doc domain.Document, tpl Template) {
	b.mark(markFoot)

	body := Style{Size: bodySize}
	pay, _ := doc.Payment.Get()

	b.region(markFoot, 0, leftWidth, func() {
		switch tpl.Footer {
		case FooterTerms:
			b.text("TERMS", Style{Size: bodySize, Bold: true})
			b.moveDown(8)
			b.optText(doc.PaymentTerms, "Payment due: %s", body)
			b.moveDown(4)
			b.optText(doc.Timeline, "Estimated timeline: %s", body)
		default:
			b.text("PAYMENT INFORMATION", Style{Size: bodySize, Bold: true})
			b.moveDown(8)
			b.optText(pay.AccountName, "Name: %s", body)
			b.optText(pay.BankName, "Bank Name: %s", body)
			b.optText(pay.AccountNumber, "Account Number: %s", body)
			b.optText(pay.SortCode, "Sort Code: %s", body)
			b.optText(doc.DueDate, "Pay by: %s", body)
		}
		b.moveDown(20)
		b.optText(pay.CompanyRegNumber, "Company Registration Number: %s", Style{Size: tpl.RegNumSize})
	})

	right := Style{Size: bodySize, Align: AlignRight}
	b.region(markFoot, b.width-280, 280, func() {
		b.text("CONTACT INFORMATION", Style{Size: bodySize, Bold: true, Align: AlignRight})
		b.moveDown(4)
		b.optText(doc.From.Name, "%s", right)
		b.moveDown(4)
		b.optText(doc.From.Email, "%s", right)
		b.moveDown(4)
		b.optText(doc.From.Address, "%s", right)
	})
}
