package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minvoice/minvoice/internal/application"
	"github.com/minvoice/minvoice/internal/domain"
	"github.com/minvoice/minvoice/internal/domain/layout"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRenderer struct {
	calls   int
	page    layout.Page
	meta    domain.Metadata
	outPath string
	err     error
}

func (r *fakeRenderer) Render(_ context.Context, page layout.Page, meta domain.Metadata, outPath string) error {
	r.calls++
	r.page, r.meta, r.outPath = page, meta, outPath
	return r.err
}

type fakeRevisions struct {
	hash string
	err  error
}

func (f fakeRevisions) CommitHash(string) (string, error) { return f.hash, f.err }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func widgetInvoice() domain.Document {
	return domain.Document{
		Kind:   domain.KindInvoice,
		Number: "CM001",
		Date:   "12 December 2025",
		To:     domain.Party{Name: "CareMeds Limited", Address: "Unit 7\nSO53 4DR"},
		From:   domain.Issuer{Company: domain.Some("Shukra Software Ltd")},
		Items: []domain.LineItem{
			{Description: "Widget", Quantity: domain.Some(2), UnitPrice: domain.Some(dec("25"))},
			{Description: "Gadget", Quantity: domain.Some(1), UnitPrice: domain.Some(dec("50"))},
		},
		TaxRate: dec("0.2"),
	}
}

func TestGenerateService_Generate(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{}
	svc := application.NewGenerateService(r, fakeRevisions{hash: "abc123"}, domain.DefaultConfig(), dir, zap.NewNop())

	res, err := svc.Generate(context.Background(), widgetInvoice(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, r.calls)
	assert.Equal(t, filepath.Join(dir, "invoice_CM001.pdf"), res.Path)
	assert.Equal(t, res.Path, r.outPath)
	assert.True(t, res.Quote.Totals.Subtotal.Equal(dec("100")))
	assert.True(t, res.Quote.Totals.Tax.Equal(dec("20")))
	assert.True(t, res.Quote.Totals.Total.Equal(dec("120")))
	assert.Equal(t, len(r.page.Instructions), res.Instructions)
	assert.True(t, res.LogoSkipped)
	assert.Equal(t, "abc123", res.Revision)

	assert.Equal(t, "INVOICE CM001", r.meta.Title)
	assert.Equal(t, "Shukra Software Ltd", r.meta.Author)
	assert.Equal(t, "CareMeds Limited", r.meta.Subject)
	assert.Equal(t, "abc123", r.meta.Keywords)
}

func TestGenerateService_ExplicitOutPath(t *testing.T) {
	r := &fakeRenderer{}
	svc := application.NewGenerateService(r, nil, domain.DefaultConfig(), t.TempDir(), nil)

	out := filepath.Join(t.TempDir(), "custom.pdf")
	res, err := svc.Generate(context.Background(), widgetInvoice(), out)
	require.NoError(t, err)
	assert.Equal(t, out, res.Path)
	assert.Empty(t, res.Revision)
}

func TestGenerateService_ValidationStopsBeforeRender(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Document)
		want   error
	}{
		{"missing name", func(d *domain.Document) { d.To.Name = "" }, domain.ErrMissingRequiredField},
		{"missing address", func(d *domain.Document) { d.To.Address = " " }, domain.ErrMissingRequiredField},
		{"no items", func(d *domain.Document) { d.Items = nil }, domain.ErrMissingRequiredField},
		{"bad tax", func(d *domain.Document) { d.TaxRate = dec("1.5") }, domain.ErrInvalidTaxRate},
		{"unpriced item", func(d *domain.Document) { d.Items[0].UnitPrice = domain.None[decimal.Decimal]() }, domain.ErrInvalidLineItem},
		{"unknown template", func(d *domain.Document) { d.Template = "receipt" }, domain.ErrUnknownTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRenderer{}
			svc := application.NewGenerateService(r, nil, domain.DefaultConfig(), t.TempDir(), nil)

			doc := widgetInvoice()
			tt.mutate(&doc)
			_, err := svc.Generate(context.Background(), doc, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, r.calls, "nothing is drawn on a validation error")
		})
	}
}

func TestGenerateService_RenderErrorPropagates(t *testing.T) {
	r := &fakeRenderer{err: errors.Join(domain.ErrRenderIO, os.ErrPermission)}
	svc := application.NewGenerateService(r, nil, domain.DefaultConfig(), t.TempDir(), nil)

	_, err := svc.Generate(context.Background(), widgetInvoice(), "")
	assert.ErrorIs(t, err, domain.ErrRenderIO)
}

func TestGenerateService_LogoPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orb.jpg"), []byte("jpeg"), 0644))

	svc := application.NewGenerateService(&fakeRenderer{}, nil, domain.DefaultConfig(), dir, nil)
	draft, err := svc.Preview(widgetInvoice())
	require.NoError(t, err)

	assert.False(t, draft.LogoSkipped)
	assert.Equal(t, 1, draft.Page.Count(layout.OpImage))
	for _, in := range draft.Page.Instructions {
		if in.Op == layout.OpImage {
			assert.Equal(t, filepath.Join(dir, "orb.jpg"), in.Path)
		}
	}
}

func TestGenerateService_MissingLogoIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := application.NewGenerateService(&fakeRenderer{}, nil, domain.DefaultConfig(), t.TempDir(), zap.New(core))

	draft, err := svc.Preview(widgetInvoice())
	require.NoError(t, err)
	assert.True(t, draft.LogoSkipped)
	assert.Zero(t, draft.Page.Count(layout.OpImage))

	entries := logs.FilterMessage("skipping logo").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}

func TestGenerateService_LogoUnderFileIsSkipped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub"), []byte("not a directory"), 0644))

	cfg := domain.DefaultConfig()
	cfg.LogoPath = "sub/orb.jpg"
	core, logs := observer.New(zapcore.DebugLevel)
	svc := application.NewGenerateService(&fakeRenderer{}, nil, cfg, dir, zap.New(core))

	draft, err := svc.Preview(widgetInvoice())
	require.NoError(t, err)
	assert.True(t, draft.LogoSkipped)
	assert.Zero(t, draft.Page.Count(layout.OpImage))

	entries := logs.FilterMessage("skipping logo").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "not a directory")
}

func TestGenerateService_PreviewPicksPreset(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.DefaultTemplate = "project-proposal"
	svc := application.NewGenerateService(&fakeRenderer{}, nil, cfg, t.TempDir(), nil)

	doc := widgetInvoice()
	doc.Kind = domain.KindProposal
	doc.Items = []domain.LineItem{
		{Description: "Rostering", Reference: domain.Some("RM #1245"), Hours: domain.Some(dec("10")), Rate: domain.Some(dec("35"))},
	}

	draft, err := svc.Preview(doc)
	require.NoError(t, err)
	assert.Equal(t, "project-proposal", draft.Template.Name)
	assert.True(t, draft.Quote.Totals.Total.Equal(dec("420")))

	doc.Template = "proposal"
	draft, err = svc.Preview(doc)
	require.NoError(t, err)
	assert.Equal(t, "proposal", draft.Template.Name)
}

func TestGenerateService_RevisionErrorIgnored(t *testing.T) {
	r := &fakeRenderer{}
	svc := application.NewGenerateService(r, fakeRevisions{err: errors.New("not a repo")}, domain.DefaultConfig(), t.TempDir(), nil)

	res, err := svc.Generate(context.Background(), widgetInvoice(), "")
	require.NoError(t, err)
	assert.Empty(t, res.Revision)
	assert.Empty(t, r.meta.Keywords)
}

func TestGenerateService_PreviewIdempotent(t *testing.T) {
	svc := application.NewGenerateService(&fakeRenderer{}, nil, domain.DefaultConfig(), t.TempDir(), nil)
	doc := widgetInvoice()

	a, err := svc.Preview(doc)
	require.NoError(t, err)
	b, err := svc.Preview(doc)
	require.NoError(t, err)
	assert.Equal(t, a.Page, b.Page)
	assert.Equal(t, widgetInvoice(), doc, "input document is not modified")
}
