package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/minvoice/minvoice/internal/adapters/outbound/clients"
	"github.com/minvoice/minvoice/internal/adapters/outbound/config"
	"github.com/minvoice/minvoice/internal/adapters/outbound/datafile"
	"github.com/minvoice/minvoice/internal/adapters/outbound/gitinfo"
	"github.com/minvoice/minvoice/internal/adapters/outbound/pdf"
	"github.com/minvoice/minvoice/internal/application"
	"github.com/minvoice/minvoice/internal/domain"
)

// registerTools registers all minvoice MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, log *zap.Logger) {
	// 1. minvoice_quote
	s.AddTool(
		mcplib.NewTool("minvoice_quote",
			mcplib.WithDescription("Validate and price a billing data file without writing a PDF. Returns line amounts, subtotal, tax and total as JSON."),
			mcplib.WithString("path", mcplib.Description("Data file path relative to the project root")),
			mcplib.WithString("yaml", mcplib.Description("Inline data file content, used when path is empty")),
			mcplib.WithString("template", mcplib.Description("Template preset: invoice, proposal or project-proposal")),
		),
		handleQuote(projectPath, log),
	)

	// 2. minvoice_generate
	s.AddTool(
		mcplib.NewTool("minvoice_generate",
			mcplib.WithDescription("Generate the PDF for a billing data file and return where it was written"),
			mcplib.WithString("path",
				mcplib.Required(),
				mcplib.Description("Data file path relative to the project root"),
			),
			mcplib.WithString("out", mcplib.Description("Output file (default: {kind}_{number}.pdf in the project root)")),
			mcplib.WithString("template", mcplib.Description("Template preset: invoice, proposal or project-proposal")),
		),
		handleGenerate(projectPath, log),
	)

	// 3. minvoice_list_clients
	s.AddTool(
		mcplib.NewTool("minvoice_list_clients",
			mcplib.WithDescription("List the saved clients in selection order"),
		),
		handleListClients(projectPath, log),
	)

	// 4. minvoice_add_client
	s.AddTool(
		mcplib.NewTool("minvoice_add_client",
			mcplib.WithDescription("Append a client to the client directory. A blank prefix is derived from the name."),
			mcplib.WithString("name", mcplib.Required(), mcplib.Description("Client name")),
			mcplib.WithString("address", mcplib.Required(), mcplib.Description("Postal address")),
			mcplib.WithString("prefix", mcplib.Description("Invoice number prefix")),
			mcplib.WithString("phone", mcplib.Description("Phone number")),
		),
		handleAddClient(projectPath, log),
	)
}

type services struct {
	cfg      domain.Config
	generate *application.GenerateService
	clients  *application.ClientService
}

// newServices wires the outbound adapters for one request.
func newServices(projectPath string, log *zap.Logger) (*services, error) {
	cfg, err := config.New().Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &services{
		cfg:      cfg,
		generate: application.NewGenerateService(pdf.New(log), gitinfo.New(), cfg, projectPath, log),
		clients:  application.NewClientService(clients.New(filepath.Join(projectPath, clients.DefaultFile)), log),
	}, nil
}

func resolve(projectPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}

// loadDocument reads the document named by the path or yaml argument.
func loadDocument(projectPath string, request mcplib.CallToolRequest) (domain.Document, error) {
	var (
		rec datafile.Record
		err error
	)
	switch {
	case request.GetString("path", "") != "":
		rec, err = datafile.Load(resolve(projectPath, request.GetString("path", "")))
	case request.GetString("yaml", "") != "":
		rec, err = datafile.Parse([]byte(request.GetString("yaml", "")), "inline data")
	default:
		return domain.Document{}, fmt.Errorf("either path or yaml is required")
	}
	if err != nil {
		return domain.Document{}, err
	}

	doc := rec.Document()
	if tpl := request.GetString("template", ""); tpl != "" {
		doc.Template = tpl
	}
	return doc, nil
}

type quoteResult struct {
	Kind         domain.DocumentKind `json:"kind"`
	Number       string              `json:"number"`
	Template     string              `json:"template"`
	Quote        domain.Quote        `json:"quote"`
	Display      map[string]string   `json:"display"`
	Instructions int                 `json:"instructions"`
	LogoSkipped  bool                `json:"logo_skipped"`
}

func handleQuote(projectPath string, log *zap.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc, err := newServices(projectPath, log)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		doc, err := loadDocument(projectPath, request)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		draft, err := svc.generate.Preview(doc)
		if err != nil {
			return errorResult(fmt.Sprintf("quote failed: %v", err)), nil
		}

		sym := svc.cfg.CurrencySymbol
		return jsonResult(quoteResult{
			Kind:     doc.Kind,
			Number:   doc.Number,
			Template: draft.Template.Name,
			Quote:    draft.Quote,
			Display: map[string]string{
				"subtotal": domain.FormatCurrency(draft.Quote.Totals.Subtotal, sym),
				"tax":      domain.FormatCurrency(draft.Quote.Totals.Tax, sym),
				"total":    domain.FormatCurrency(draft.Quote.Totals.Total, sym),
			},
			Instructions: len(draft.Page.Instructions),
			LogoSkipped:  draft.LogoSkipped,
		})
	}
}

func handleGenerate(projectPath string, log *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		if _, err := request.RequireString("path"); err != nil {
			return errorResult(err.Error()), nil
		}
		svc, err := newServices(projectPath, log)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		doc, err := loadDocument(projectPath, request)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		res, err := svc.generate.Generate(ctx, doc, resolve(projectPath, request.GetString("out", "")))
		if err != nil {
			return errorResult(fmt.Sprintf("generate failed: %v", err)), nil
		}
		return jsonResult(res)
	}
}

func handleListClients(projectPath string, log *zap.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc, err := newServices(projectPath, log)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		dir, err := svc.clients.List()
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if len(dir.Clients) == 0 {
			return textResult("No saved clients."), nil
		}
		return jsonResult(dir)
	}
}

func handleAddClient(projectPath string, log *zap.Logger) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		address, err := request.RequireString("address")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		svc, err := newServices(projectPath, log)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		added, err := svc.clients.Add(domain.Client{
			Name:          name,
			Address:       address,
			InvoicePrefix: request.GetString("prefix", ""),
			Phone:         request.GetString("phone", ""),
		})
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(added)
	}
}

// jsonResult marshals v as indented JSON into a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
