// Package layout turns a priced document into an ordered, renderer-agnostic
// sequence of draw instructions for a single fixed page.
//
// Coordinates are in points. X is measured from the left margin; vertical
// placement follows a top-down cursor that MoveDown advances and regions
// anchor to a previously recorded Mark.
package layout

import "github.com/minvoice/minvoice/internal/domain"

// Op identifies a draw instruction.
type Op string

const (
	OpFillPage    Op = "fill_page"
	OpMark        Op = "mark"
	OpImage       Op = "image"
	OpBeginRegion Op = "begin_region"
	OpEndRegion   Op = "end_region"
	OpText        Op = "text"
	OpMoveDown    Op = "move_down"
	OpTable       Op = "table"
	OpRule        Op = "rule"
	OpTextBox     Op = "text_box"
)

// Align is a horizontal alignment.
type Align string

const (
	AlignLeft  Align = "L"
	AlignRight Align = "R"
)

// Style is the font style of a text run.
type Style struct {
	Size        float64 `json:"size"`
	Bold        bool    `json:"bold,omitempty"`
	Align       Align   `json:"align,omitempty"`
	CharSpacing float64 `json:"char_spacing,omitempty"`
}

// Instruction is a single draw directive. Op decides which fields are relevant.
type Instruction struct {
	Op Op `json:"op"`

	// Mark name (OpMark) or the mark a region or image is anchored to.
	Mark string `json:"mark,omitempty"`

	X      float64 `json:"x,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Distance for OpMoveDown, stroke width for OpRule.
	Amount float64 `json:"amount,omitempty"`

	Text  string `json:"text,omitempty"`
	Style Style  `json:"style,omitempty"`
	Color string `json:"color,omitempty"`
	Path  string `json:"path,omitempty"`

	Table *Table `json:"table,omitempty"`
}

// Borders lists which horizontal edges of a row are stroked.
type Borders struct {
	Top    bool `json:"top,omitempty"`
	Bottom bool `json:"bottom,omitempty"`
}

// Cell is one table cell.
type Cell struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// RowKind classifies table rows.
type RowKind string

const (
	RowHeader   RowKind = "header"
	RowItem     RowKind = "item"
	RowSubtotal RowKind = "subtotal"
	RowTax      RowKind = "tax"
)

// Row is one table row.
type Row struct {
	Kind    RowKind `json:"kind"`
	Cells   []Cell  `json:"cells"`
	Borders Borders `json:"borders"`
}

// Table is a full-width tabular block.
type Table struct {
	Width       float64    `json:"width"`
	FontSize    float64    `json:"font_size"`
	BorderWidth float64    `json:"border_width"`
	BorderColor string     `json:"border_color"`
	Padding     [4]float64 `json:"padding"` // top, right, bottom, left
	Align       []Align    `json:"align"`
	Rows        []Row      `json:"rows"`
}

// Page is the complete draw program for one document page.
type Page struct {
	Size         domain.PageSize `json:"size"`
	Margin       float64         `json:"margin"`
	TextColor    string          `json:"text_color"`
	Instructions []Instruction   `json:"instructions"`
}

// BoundsWidth is the drawable width inside the margins.
func (p Page) BoundsWidth() float64 {
	return p.Size.Width - 2*p.Margin
}

// Count returns how many instructions use op.
func (p Page) Count(op Op) int {
	n := 0
	for _, in := range p.Instructions {
		if in.Op == op {
			n++
		}
	}
	return n
}

// Texts returns the content of every text run in order, including text boxes.
func (p Page) Texts() []string {
	var out []string
	for _, in := range p.Instructions {
		if in.Op == OpText || in.Op == OpTextBox {
			out = append(out, in.Text)
		}
	}
	return out
}

// Table returns the first table on the page, or nil.
func (p Page) Table() *Table {
	for _, in := range p.Instructions {
		if in.Op == OpTable {
			return in.Table
		}
	}
	return nil
}
