package layout

import (
	"math"

	"github.com/menupress/menupress/pkg/template"
)

// eps guards float comparisons; touching edges are not an overlap.
const eps = 1e-9

// Rect is an axis-aligned rectangle in page coordinates (origin top-left,
// units in points).
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Right returns the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Overlaps reports whether two rectangles intersect with nonzero area.
// Rectangles that merely share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X+eps < o.Right() && o.X+eps < r.Right() &&
		r.Y+eps < o.Bottom() && o.Y+eps < r.Bottom()
}

// Metrics is the derived geometry of one template: resolved page size,
// region bands, and body grid cell dimensions. Computed once per run.
type Metrics struct {
	PageWidth  float64
	PageHeight float64

	HeaderTop    float64
	HeaderHeight float64
	TitleTop     float64
	TitleHeight  float64
	FooterTop    float64
	FooterHeight float64

	BodyLeft   float64
	BodyTop    float64
	BodyWidth  float64
	BodyHeight float64

	Cols        int
	RowsPerPage int
	CellWidth   float64
	RowHeight   float64
	GapX        float64
	GapY        float64
}

// NewMetrics derives the page geometry from a validated template.
func NewMetrics(tpl *template.Template) Metrics {
	width, height := tpl.Page.Dimensions()
	m := tpl.Page.Margins
	c := tpl.Body.Container

	met := Metrics{
		PageWidth:    width,
		PageHeight:   height,
		HeaderTop:    m.Top,
		HeaderHeight: tpl.Regions.Header.Height,
		TitleHeight:  tpl.Regions.Title.Height,
		FooterHeight: tpl.Regions.Footer.Height,
		BodyLeft:     m.Left,
		BodyWidth:    width - m.Left - m.Right,
		Cols:         c.Cols,
		RowHeight:    c.RowHeight,
		GapX:         c.GapX,
		GapY:         c.GapY,
	}

	met.TitleTop = met.HeaderTop + met.HeaderHeight
	met.BodyTop = met.TitleTop + met.TitleHeight
	met.FooterTop = height - m.Bottom - met.FooterHeight
	met.BodyHeight = height - m.Top - m.Bottom - met.HeaderHeight - met.TitleHeight - met.FooterHeight

	met.RowsPerPage = int(math.Floor(met.BodyHeight / (met.RowHeight + met.GapY)))
	if met.RowsPerPage < 1 {
		met.RowsPerPage = 1
	}
	met.CellWidth = (met.BodyWidth - float64(c.Cols-1)*met.GapX) / float64(c.Cols)

	return met
}

// CellRect returns the rectangle covered by a span of body grid cells.
func (m Metrics) CellRect(row, col, rowSpan, colSpan int) Rect {
	return Rect{
		X:      m.BodyLeft + float64(col)*(m.CellWidth+m.GapX),
		Y:      m.BodyTop + float64(row)*(m.RowHeight+m.GapY),
		Width:  float64(colSpan)*m.CellWidth + float64(colSpan-1)*m.GapX,
		Height: float64(rowSpan)*m.RowHeight + float64(rowSpan-1)*m.GapY,
	}
}

// HeaderRect returns the rectangle of the header region band, narrowed to
// the given column span.
func (m Metrics) HeaderRect(colSpan int) Rect {
	return Rect{
		X:      m.BodyLeft,
		Y:      m.HeaderTop,
		Width:  float64(colSpan)*m.CellWidth + float64(colSpan-1)*m.GapX,
		Height: m.HeaderHeight,
	}
}

// TitleRect returns the full-width rectangle of the title region band.
func (m Metrics) TitleRect() Rect {
	return Rect{
		X:      m.BodyLeft,
		Y:      m.TitleTop,
		Width:  m.BodyWidth,
		Height: m.TitleHeight,
	}
}

// RowsNeeded returns the smallest row span whose combined height (rows plus
// the gaps between them) covers the given content height. Monotonic in the
// content height, minimum 1.
func (m Metrics) RowsNeeded(contentHeight float64) int {
	if contentHeight <= m.RowHeight+eps {
		return 1
	}
	n := int(math.Ceil((contentHeight + m.GapY) / (m.RowHeight + m.GapY)))
	if n < 1 {
		n = 1
	}
	return n
}
