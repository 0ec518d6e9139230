package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minvoice/minvoice/internal/domain"
	"github.com/minvoice/minvoice/internal/domain/layout"
	"go.uber.org/zap"
)

// PageRenderer draws an assembled page into a document file at outPath.
type PageRenderer interface {
	Render(ctx context.Context, page layout.Page, meta domain.Metadata, outPath string) error
}

// Draft is a validated, priced and assembled document that has not been rendered.
type Draft struct {
	Template    layout.Template
	Quote       domain.Quote
	Page        layout.Page
	LogoSkipped bool
}

// GenerateService validates, prices, lays out and renders billing documents.
type GenerateService struct {
	renderer  PageRenderer
	revisions domain.RevisionSource
	cfg       domain.Config
	baseDir   string
	log       *zap.Logger
}

// NewGenerateService creates a GenerateService. Relative logo paths and the
// revision stamp are resolved against baseDir. revisions may be nil.
func NewGenerateService(
	renderer PageRenderer,
	revisions domain.RevisionSource,
	cfg domain.Config,
	baseDir string,
	log *zap.Logger,
) *GenerateService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GenerateService{renderer: renderer, revisions: revisions, cfg: cfg, baseDir: baseDir, log: log}
}

// Preview runs every step of Generate except rendering.
func (s *GenerateService) Preview(doc domain.Document) (*Draft, error) {
	// 1. Validate before anything is drawn
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	// 2. Pick the preset
	tpl, err := layout.ForDocument(doc, s.cfg.DefaultTemplate)
	if err != nil {
		return nil, err
	}

	// 3. Price
	quote, err := domain.Price(doc.Items, doc.TaxRate)
	if err != nil {
		return nil, err
	}

	// 4. Resolve the logo; a missing asset only drops the image
	logo, err := s.resolveLogo()
	if err != nil {
		if !errors.Is(err, domain.ErrAssetUnavailable) {
			return nil, err
		}
		s.log.Debug("skipping logo", zap.String("path", s.cfg.LogoPath), zap.Error(err))
	}

	// 5. Assemble
	page := layout.Assemble(doc, quote, tpl, s.cfg, logo)

	return &Draft{
		Template:    tpl,
		Quote:       quote,
		Page:        page,
		LogoSkipped: !logo.IsPresent(),
	}, nil
}

// Generate renders doc to outPath. When outPath is empty the document's
// default file name is used inside baseDir.
func (s *GenerateService) Generate(ctx context.Context, doc domain.Document, outPath string) (*domain.GenerateResult, error) {
	draft, err := s.Preview(doc)
	if err != nil {
		return nil, err
	}

	if outPath == "" {
		outPath = filepath.Join(s.baseDir, doc.DefaultFileName())
	}

	revision := s.revision()
	meta := domain.Metadata{
		Title:    fmt.Sprintf("%s %s", draft.Template.Title, doc.Number),
		Subject:  doc.To.Name,
		Keywords: revision,
	}
	if author, ok := domain.Text(doc.IssuerCompany(s.cfg.Issuer)); ok {
		meta.Author = author
	}

	if err := s.renderer.Render(ctx, draft.Page, meta, outPath); err != nil {
		return nil, err
	}

	s.log.Info("document generated",
		zap.String("path", outPath),
		zap.String("template", draft.Template.Name),
		zap.String("total", draft.Quote.Totals.Total.String()),
	)

	return &domain.GenerateResult{
		Path:         outPath,
		Quote:        draft.Quote,
		Instructions: len(draft.Page.Instructions),
		LogoSkipped:  draft.LogoSkipped,
		Revision:     revision,
	}, nil
}

func (s *GenerateService) resolveLogo() (domain.Optional[string], error) {
	if s.cfg.LogoPath == "" {
		return domain.None[string](), fmt.Errorf("%w: no logo configured", domain.ErrAssetUnavailable)
	}
	path := s.cfg.LogoPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		// Any stat failure drops the logo, never the document.
		return domain.None[string](), fmt.Errorf("%w: %v", domain.ErrAssetUnavailable, err)
	}
	if info.IsDir() {
		return domain.None[string](), fmt.Errorf("%w: %s is a directory", domain.ErrAssetUnavailable, path)
	}
	return domain.Some(path), nil
}

func (s *GenerateService) revision() string {
	if s.revisions == nil {
		return ""
	}
	hash, err := s.revisions.CommitHash(s.baseDir)
	if err != nil {
		s.log.Debug("no revision stamp", zap.String("dir", s.baseDir), zap.Error(err))
		return ""
	}
	return hash
}
