package cli

import (
	"fmt"

	"github.com/minvoice/minvoice/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	var (
		template   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "quote <data.yml>",
		Short: "Price a data file without rendering",
		Long:  "Print the priced line items, subtotal, tax and total of a data file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)
			svc, cfg, err := newGenerateService(log)
			if err != nil {
				return err
			}

			doc, err := loadDocument(args[0], template)
			if err != nil {
				return err
			}

			draft, err := svc.Preview(doc)
			if err != nil {
				return fmt.Errorf("quote failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, draft.Quote)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderQuote(draft.Quote, cfg.CurrencySymbol))
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "Template preset (invoice, proposal, project-proposal)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the quote as JSON")

	return cmd
}
