package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/minvoice/minvoice/internal/adapters/outbound/config"
	"github.com/minvoice/minvoice/internal/adapters/outbound/datafile"
	"github.com/minvoice/minvoice/internal/adapters/outbound/gitinfo"
	"github.com/minvoice/minvoice/internal/adapters/outbound/pdf"
	"github.com/minvoice/minvoice/internal/adapters/outbound/tui"
	"github.com/minvoice/minvoice/internal/application"
	"github.com/minvoice/minvoice/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGenerateCmd() *cobra.Command {
	var (
		out        string
		template   string
		dryRun     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "generate <data.yml>",
		Short: "Render a PDF from a data file",
		Long: "Validate, price and render the invoice or proposal described by a YAML data file. " +
			"The PDF is written to {kind}_{number}.pdf in the current directory unless --out is given.",
		Args: cobra.ExactArgs(1),
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

			if dryRun {
				draft, err := svc.Preview(doc)
				if err != nil {
					return fmt.Errorf("generate failed: %w", err)
				}
				if jsonOutput {
					return renderJSON(cmd, draft.Quote)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderQuote(draft.Quote, cfg.CurrencySymbol))
				fmt.Fprintf(cmd.OutOrStdout(), "Dry run: would write %s\n", doc.DefaultFileName())
				return nil
			}

			res, err := svc.Generate(cmd.Context(), doc, out)
			if err != nil {
				return fmt.Errorf("generate failed: %w", err)
			}

			if jsonOutput {
				return renderJSON(cmd, res)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderGenerated(res, cfg.CurrencySymbol))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: {kind}_{number}.pdf)")
	cmd.Flags().StringVar(&template, "template", "", "Template preset (invoice, proposal, project-proposal)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and price without writing a PDF")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")

	return cmd
}

// newGenerateService wires the generate service against the current directory,
// which holds .minvoice.yaml and the logo.
func newGenerateService(log *zap.Logger) (*application.GenerateService, domain.Config, error) {
	dir, err := filepath.Abs(".")
	if err != nil {
		return nil, domain.Config{}, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.New().Load(dir)
	if err != nil {
		return nil, domain.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return application.NewGenerateService(pdf.New(log), gitinfo.New(), cfg, dir, log), cfg, nil
}

func loadDocument(path, template string) (domain.Document, error) {
	rec, err := datafile.Load(path)
	if err != nil {
		return domain.Document{}, err
	}
	doc := rec.Document()
	if template != "" {
		doc.Template = template
	}
	return doc, nil
}

func renderJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
