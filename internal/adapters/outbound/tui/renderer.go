package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/minvoice/minvoice/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			Width(38)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(faint).
			Padding(0, 2)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	totalStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	separatorLine = faintStyle.Render(strings.Repeat("─", 40))
)

// RenderBanner is the header printed at the start of an interactive session.
func RenderBanner() string {
	return boxStyle.Render(headerStyle.Render("minvoice")) + "\n"
}

// RenderSection renders a section heading followed by a rule.
func RenderSection(title string) string {
	return "\n" + titleStyle.Render("• "+strings.ToUpper(title)) + "\n" + separatorLine + "\n"
}

// RenderClientList numbers the clients from 1 for selection.
func RenderClientList(dir domain.ClientDirectory) string {
	if len(dir.Clients) == 0 {
		return dimStyle.Render("No saved clients.") + "\n"
	}
	var b strings.Builder
	for i, c := range dir.Clients {
		fmt.Fprintf(&b, "%d: %s", i+1, c.Name)
		if c.InvoicePrefix != "" {
			b.WriteString(" " + dimStyle.Render("("+c.InvoicePrefix+")"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderItemAdded confirms a line item collected at the prompt.
func RenderItemAdded(qty int, description string, price string) string {
	return "  " + passStyle.Render("✓") + fmt.Sprintf(" Added: %dx %s @ %s", qty, description, price) + "\n"
}

// RenderSummary shows subtotal, tax and total to two decimal places.
func RenderSummary(t domain.Totals, symbol string) string {
	lines := []string{
		fmt.Sprintf("Subtotal: %s", domain.FormatCurrencyExact(t.Subtotal, symbol)),
		fmt.Sprintf("Tax:      %s", domain.FormatCurrencyExact(t.Tax, symbol)),
		totalStyle.Render(fmt.Sprintf("Total:    %s", domain.FormatCurrencyExact(t.Total, symbol))),
	}
	return strings.Join(lines, "\n") + "\n"
}

// RenderQuote renders the priced lines as a table followed by the totals panel.
func RenderQuote(q domain.Quote, symbol string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(faintStyle).
		BorderColumn(false).
		Headers("Item", "Qty", "Unit", "Amount").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(accent)
			}
			if col > 0 {
				return s.Align(lipgloss.Right)
			}
			return s
		})

	for _, l := range q.Lines {
		t.Row(
			l.Label,
			fmt.Sprint(l.Quantity),
			domain.FormatCurrencyExact(l.UnitPrice, symbol),
			domain.FormatCurrencyExact(l.Amount, symbol),
		)
	}

	tax := fmt.Sprintf("%s: %s", domain.TaxLabel(q.Totals.TaxRate), domain.FormatCurrencyExact(q.Totals.Tax, symbol))
	panel := panelStyle.Render(strings.Join([]string{
		fmt.Sprintf("Subtotal: %s", domain.FormatCurrencyExact(q.Totals.Subtotal, symbol)),
		tax,
		totalStyle.Render(fmt.Sprintf("Total: %s", domain.FormatCurrencyExact(q.Totals.Total, symbol))),
	}, "\n"))

	return t.Render() + "\n" + panel + "\n"
}

// RenderGenerated reports a written document.
func RenderGenerated(res *domain.GenerateResult, symbol string) string {
	var b strings.Builder
	b.WriteString(passStyle.Render("Document generated successfully!") + "\n")
	fmt.Fprintf(&b, "Saved as: %s\n", res.Path)
	fmt.Fprintf(&b, "%s\n", dimStyle.Render("Total "+domain.FormatCurrency(res.Quote.Totals.Total, symbol)))
	if res.LogoSkipped {
		b.WriteString(dimStyle.Render("Logo not found, rendered without it.") + "\n")
	}
	return b.String()
}

// RenderError renders a one-line error for the terminal.
func RenderError(err error) string {
	return failStyle.Render("Error: ") + err.Error() + "\n"
}
