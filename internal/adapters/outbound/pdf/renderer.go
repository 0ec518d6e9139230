// Package pdf draws assembled layout pages with gofpdf.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/renameio/v2"
	"github.com/jung-kurt/gofpdf"
	"github.com/minvoice/minvoice/internal/domain"
	"github.com/minvoice/minvoice/internal/domain/layout"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const (
	fontFamily = "Helvetica"
	// leading is the line height as a multiple of the font size.
	leading = 1.16
)

// Renderer implements application.PageRenderer.
type Renderer struct {
	log *zap.Logger
	now func() time.Time
}

func New(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log, now: time.Now}
}

// Render draws page and writes it to outPath. The file is written to a
// temporary name in the same directory and renamed into place, so a failed
// render leaves nothing behind. Errors wrap domain.ErrRenderIO.
func (r *Renderer) Render(ctx context.Context, page layout.Page, meta domain.Metadata, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf, err := r.draw(page, meta)
	if err != nil {
		return fmt.Errorf("%w: drawing %s: %v", domain.ErrRenderIO, filepath.Base(outPath), err)
	}

	f, err := renameio.NewPendingFile(outPath,
		renameio.WithTempDir(filepath.Dir(outPath)),
		renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRenderIO, err)
	}
	defer f.Cleanup()

	if err := pdf.Output(f); err != nil {
		return fmt.Errorf("%w: writing %s: %v", domain.ErrRenderIO, outPath, err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", domain.ErrRenderIO, outPath, err)
	}

	r.log.Debug("pdf written", zap.String("path", outPath), zap.Int("instructions", len(page.Instructions)))
	return nil
}

func (r *Renderer) draw(page layout.Page, meta domain.Metadata) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: page.Size.Width, Ht: page.Size.Height},
	})
	pdf.SetMargins(page.Margin, page.Margin, page.Margin)
	pdf.SetAutoPageBreak(false, page.Margin)
	pdf.SetCellMargin(0)
	pdf.SetCreator("minvoice", false)
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetKeywords(meta.Keywords, true)
	pdf.SetCreationDate(r.now())
	pdf.AddPage()

	c := &canvas{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		page:   page,
		y:      page.Margin,
		marks:  map[string]float64{},
		bottom: map[string]float64{},
		log:    r.log,
		warned: map[string]bool{},
	}
	c.setColor(page.TextColor, pdf.SetTextColor)
	c.setColor(page.TextColor, pdf.SetDrawColor)

	for _, in := range page.Instructions {
		c.exec(in)
		if pdf.Err() {
			return nil, pdf.Error()
		}
	}
	return pdf, nil
}

type region struct {
	mark  string
	x     float64
	width float64
}

// canvas interprets layout instructions against a top-down cursor.
type canvas struct {
	pdf  *gofpdf.Fpdf
	tr   func(string) string
	page layout.Page
	log  *zap.Logger

	y      float64
	marks  map[string]float64
	bottom map[string]float64 // lowest region edge per mark
	region *region
	warned map[string]bool
}

// encode converts s to the cp1252 encoding of the core fonts. Runes outside
// it are drawn as dots, so each affected text is logged once.
func (c *canvas) encode(s string) string {
	if !c.warned[s] {
		for _, r := range s {
			if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
				c.warned[s] = true
				c.log.Warn("text has characters the core fonts cannot draw",
					zap.String("text", s), zap.String("char", string(r)))
				break
			}
		}
	}
	return c.tr(s)
}

func (c *canvas) left() float64 {
	if c.region != nil {
		return c.page.Margin + c.region.x
	}
	return c.page.Margin
}

func (c *canvas) width() float64 {
	if c.region != nil {
		return c.region.width
	}
	return c.page.BoundsWidth()
}

func (c *canvas) exec(in layout.Instruction) {
	switch in.Op {
	case layout.OpFillPage:
		c.setColor(in.Color, c.pdf.SetFillColor)
		c.pdf.Rect(0, 0, c.page.Size.Width, c.page.Size.Height, "F")

	case layout.OpMark:
		c.marks[in.Mark] = c.y

	case layout.OpImage:
		c.image(in)

	case layout.OpBeginRegion:
		c.y = c.markY(in.Mark)
		c.region = &region{mark: in.Mark, x: in.X, width: in.Width}

	case layout.OpEndRegion:
		if c.region == nil {
			return
		}
		mark := c.region.mark
		if c.y > c.bottom[mark] {
			c.bottom[mark] = c.y
		}
		// Side-by-side regions share a mark; continue below the lowest one.
		c.y = c.bottom[mark]
		c.region = nil

	case layout.OpText:
		c.y = c.text(c.left(), c.y, c.width(), in.Text, in.Style)

	case layout.OpMoveDown:
		c.y += in.Amount

	case layout.OpTable:
		if in.Table != nil {
			c.y = c.table(c.left(), c.y, in.Table)
		}

	case layout.OpRule:
		c.pdf.SetLineWidth(in.Amount)
		c.setColor(in.Color, c.pdf.SetDrawColor)
		c.pdf.Line(c.left(), c.y, c.left()+in.Width, c.y)

	case layout.OpTextBox:
		// Text boxes do not move the cursor.
		c.text(c.left()+in.X, c.y, in.Width, in.Text, in.Style)

	default:
		c.log.Warn("unknown draw instruction", zap.String("op", string(in.Op)))
	}
}

func (c *canvas) markY(name string) float64 {
	if y, ok := c.marks[name]; ok {
		return y
	}
	return c.y
}

func (c *canvas) image(in layout.Instruction) {
	x, y := c.page.Margin+in.X, c.markY(in.Mark)
	c.pdf.ImageOptions(in.Path, x, y, in.Width, in.Height, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	if c.pdf.Err() {
		// An unreadable logo is dropped rather than failing the document.
		c.log.Warn("skipping unreadable logo", zap.String("path", in.Path), zap.Error(c.pdf.Error()))
		c.pdf.ClearError()
	}
}

func (c *canvas) font(st layout.Style) {
	style := ""
	if st.Bold {
		style = "B"
	}
	c.pdf.SetFont(fontFamily, style, st.Size)
}

// text draws s inside a box of width w and returns the y below it.
// Character spacing is not supported by the core fonts and is ignored.
func (c *canvas) text(x, y, w float64, s string, st layout.Style) float64 {
	c.font(st)
	c.pdf.SetXY(x, y)
	c.pdf.MultiCell(w, st.Size*leading, c.encode(s), "", string(align(st.Align)), false)
	return c.pdf.GetY()
}

func (c *canvas) table(x, y float64, t *layout.Table) float64 {
	pad := t.Padding // top, right, bottom, left
	lineH := t.FontSize * leading
	widths := c.columnWidths(t)

	c.pdf.SetLineWidth(t.BorderWidth)
	c.setColor(t.BorderColor, c.pdf.SetDrawColor)

	for _, row := range t.Rows {
		height := 0.0
		for i, cell := range row.Cells {
			c.font(layout.Style{Size: t.FontSize, Bold: cell.Bold})
			lines := c.pdf.SplitLines([]byte(c.encode(cell.Text)), inner(widths[i], pad))
			if h := float64(max(len(lines), 1))*lineH + pad[0] + pad[2]; h > height {
				height = h
			}
		}

		cx := x
		for i, cell := range row.Cells {
			c.font(layout.Style{Size: t.FontSize, Bold: cell.Bold})
			c.pdf.SetXY(cx+pad[3], y+pad[0])
			a := layout.AlignLeft
			if i < len(t.Align) {
				a = t.Align[i]
			}
			c.pdf.MultiCell(inner(widths[i], pad), lineH, c.encode(cell.Text), "", string(a), false)
			cx += widths[i]
		}

		if row.Borders.Top {
			c.pdf.Line(x, y, x+t.Width, y)
		}
		if row.Borders.Bottom {
			c.pdf.Line(x, y+height, x+t.Width, y+height)
		}
		y += height
	}
	return y
}

// columnWidths gives every column after the first its natural width and the
// first column whatever remains of the table width.
func (c *canvas) columnWidths(t *layout.Table) []float64 {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row.Cells))
	}
	widths := make([]float64, cols)
	if cols == 0 {
		return widths
	}

	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			c.font(layout.Style{Size: t.FontSize, Bold: cell.Bold})
			w := c.pdf.GetStringWidth(c.encode(cell.Text)) + t.Padding[1] + t.Padding[3]
			if w > widths[i] {
				widths[i] = w
			}
		}
	}
	// Leave a gap between right-aligned numeric columns.
	for i := 1; i < cols; i++ {
		widths[i] += t.FontSize * 2
	}

	rest := t.Width
	for _, w := range widths[1:] {
		rest -= w
	}
	widths[0] = max(rest, 0)
	return widths
}

func inner(w float64, pad [4]float64) float64 {
	return max(w-pad[1]-pad[3], 1)
}

func align(a layout.Align) layout.Align {
	if a == "" {
		return layout.AlignLeft
	}
	return a
}

// setColor parses a six digit hex colour and applies it with set.
func (c *canvas) setColor(hex string, set func(r, g, b int)) {
	if len(hex) != 6 {
		return
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		c.log.Warn("invalid colour", zap.String("color", hex))
		return
	}
	set(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff))
}
