package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/minvoice/minvoice/internal/adapters/outbound/clients"
	"github.com/minvoice/minvoice/internal/adapters/outbound/datafile"
	"github.com/minvoice/minvoice/internal/adapters/outbound/tui"
	"github.com/minvoice/minvoice/internal/application"
	"github.com/minvoice/minvoice/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var hundred = decimal.NewFromInt(100)

func newNewCmd() *cobra.Command {
	var (
		defaultsPath string
		clientsPath  string
		out          string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an invoice interactively",
		Long: "Prompt for the client, invoice details and line items, then render the invoice. " +
			"Answers are merged over the static defaults file, which supplies the issuer and payment details.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)
			svc, cfg, err := newGenerateService(log)
			if err != nil {
				return err
			}

			defaults, err := datafile.LoadOptional(defaultsPath)
			if err != nil {
				return err
			}

			s := &session{
				p:       newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
				out:     cmd.OutOrStdout(),
				clients: application.NewClientService(clients.New(clientsPath), log),
				cfg:     cfg,
				now:     time.Now,
			}
			rec, ok, err := s.collect()
			if err != nil || !ok {
				return err
			}

			fmt.Fprintln(s.out, "\nGenerating PDF...")
			res, err := svc.Generate(cmd.Context(), defaults.Merge(rec).Document(), out)
			if err != nil {
				return fmt.Errorf("generate failed: %w", err)
			}
			fmt.Fprint(s.out, tui.RenderGenerated(res, cfg.CurrencySymbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultsPath, "defaults", datafile.DefaultFile, "Static defaults merged under the answers")
	cmd.Flags().StringVar(&clientsPath, "clients", clients.DefaultFile, "Client directory file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: invoice_{number}.pdf)")

	return cmd
}

// session collects one invoice record from the prompt.
type session struct {
	p       *prompter
	out     io.Writer
	clients *application.ClientService
	cfg     domain.Config
	now     func() time.Time
}

// collect runs the prompt flow. ok is false when no items were entered.
func (s *session) collect() (rec datafile.Record, ok bool, err error) {
	fmt.Fprint(s.out, tui.RenderBanner())

	// 1. Client
	fmt.Fprint(s.out, tui.RenderSection("client information"))
	client, err := s.chooseClient()
	if err != nil {
		return rec, false, err
	}

	// 2. Invoice details
	fmt.Fprint(s.out, tui.RenderSection("invoice details"))
	numberPrompt := "Invoice Number: "
	if client.InvoicePrefix != "" {
		numberPrompt = fmt.Sprintf("Invoice Number (prefix %s): ", client.InvoicePrefix)
	}
	number, err := s.p.askRequired(numberPrompt)
	if err != nil {
		return rec, false, err
	}
	date, err := s.p.ask("Invoice Date (or ENTER for today): ", nil)
	if err != nil {
		return rec, false, err
	}
	if date == "" {
		date = s.cfg.FormatDate(s.now())
	}
	due, err := s.p.askOptional("Due Date (optional): ")
	if err != nil {
		return rec, false, err
	}

	// 3. Line items
	fmt.Fprint(s.out, tui.RenderSection("line items"))
	items, err := s.collectItems()
	if err != nil {
		return rec, false, err
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "\nNo items added. Exiting.")
		return rec, false, nil
	}

	// 4. Tax
	fmt.Fprint(s.out, tui.RenderSection("tax & totals"))
	rate, err := s.askTaxRate()
	if err != nil {
		return rec, false, err
	}

	rec = datafile.Record{
		Kind:          string(domain.KindInvoice),
		InvoiceNumber: number,
		Date:          date,
		DueDate:       due,
		TaxRate:       domain.Some(rate),
		Items:         items,
	}
	to := client.Party()
	rec.ToName, rec.ToAddress, rec.ToPhone = to.Name, to.Address, to.Phone

	// 5. Summary
	quote, err := domain.Price(rec.Document().Items, rate)
	if err != nil {
		return rec, false, err
	}
	fmt.Fprint(s.out, tui.RenderSection("invoice summary"))
	fmt.Fprint(s.out, tui.RenderSummary(quote.Totals, s.cfg.CurrencySymbol))

	return rec, true, nil
}

// chooseClient offers the saved clients and falls back to entering a new
// one, which is appended to the directory.
func (s *session) chooseClient() (domain.Client, error) {
	dir, err := s.clients.List()
	if err != nil {
		return domain.Client{}, err
	}

	if len(dir.Clients) > 0 {
		fmt.Fprint(s.out, tui.RenderClientList(dir))
		sel, err := s.p.ask("Select client (or ENTER for new client): ", func(v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%q is not a client number.", v)
			}
			_, err = dir.Select(n)
			return err
		})
		if err != nil {
			return domain.Client{}, err
		}
		if sel != "" {
			n, _ := strconv.Atoi(sel)
			return s.clients.Select(n)
		}
	}

	name, err := s.p.askRequired("Client Name: ")
	if err != nil {
		return domain.Client{}, err
	}
	prefixPrompt := "Client Invoice Prefix: "
	if suggested := domain.SuggestPrefix(name); suggested != "" {
		prefixPrompt = fmt.Sprintf("Client Invoice Prefix [%s]: ", suggested)
	}
	prefix, err := s.p.ask(prefixPrompt, nil)
	if err != nil {
		return domain.Client{}, err
	}
	address, err := s.p.askRequired(`Client Address (use \n for new lines): `)
	if err != nil {
		return domain.Client{}, err
	}
	phone, err := s.p.ask("Client Phone (optional): ", nil)
	if err != nil {
		return domain.Client{}, err
	}

	return s.clients.Add(domain.Client{Name: name, InvoicePrefix: prefix, Address: address, Phone: phone})
}

// collectItems reads items until an empty description or the end of input.
func (s *session) collectItems() ([]datafile.Item, error) {
	sym := s.cfg.CurrencySymbol
	var items []datafile.Item
	for {
		fmt.Fprintf(s.out, "\n- Item #%d\n", len(items)+1)
		desc, err := s.p.ask("  Description (or press Enter to finish): ", nil)
		if errors.Is(err, errInputClosed) {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
		if desc == "" {
			return items, nil
		}

		qty, err := s.p.askQuantity("  Quantity: ")
		if err != nil {
			return nil, err
		}
		price, err := s.p.askAmount(fmt.Sprintf("  Unit Price (%s): ", sym), domain.None[decimal.Decimal](), nil)
		if err != nil {
			return nil, err
		}

		items = append(items, datafile.Item{
			Description: desc,
			Quantity:    domain.Some(qty),
			Price:       domain.Some(price),
		})
		fmt.Fprint(s.out, tui.RenderItemAdded(qty, desc, domain.FormatCurrencyExact(price, sym)))
	}
}

// askTaxRate reads a percentage and returns it as a fraction.
func (s *session) askTaxRate() (decimal.Decimal, error) {
	pct, err := s.p.askAmount("Tax rate (%, or press Enter for 0%): ", domain.Some(decimal.Zero), func(d decimal.Decimal) error {
		if d.GreaterThan(hundred) {
			return errors.New("Tax rate must be between 0 and 100.")
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return pct.Div(hundred), nil
}
