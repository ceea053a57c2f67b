package layout

import (
	"math"

	"github.com/menupress/menupress/pkg/template"
)

// balance applies the last-row balancing policy to every page: when the
// final content row is not full and the policy is CENTER, the row's tiles
// are shifted horizontally so the row sits centered within the body width.
// Row membership, y, width, height, and tile order are never touched.
func balance(tpl *template.Template, met Metrics, pages []Page) {
	if tpl.Policies.LastRowBalancing != template.BalanceCenter {
		return
	}
	for i := range pages {
		balancePage(met, &pages[i])
	}
}

func balancePage(met Metrics, p *Page) {
	lastRow := p.LastContentRow()
	if lastRow < 0 {
		return
	}

	// Collect the tiles that form the last row, and bail out if any tile
	// from an earlier row protrudes into it: shifting around a protrusion
	// could collide with it.
	var row []int
	usedCols := 0
	for idx, t := range p.Tiles {
		if !t.IsBodyContent() {
			continue
		}
		switch {
		case t.Row == lastRow:
			row = append(row, idx)
			usedCols += t.ColSpan
		case t.Row+t.RowSpan-1 >= lastRow:
			return
		}
	}
	if len(row) == 0 || usedCols >= met.Cols {
		return
	}

	minX := math.Inf(1)
	maxRight := math.Inf(-1)
	for _, idx := range row {
		t := p.Tiles[idx]
		minX = math.Min(minX, t.X)
		maxRight = math.Max(maxRight, t.X+t.Width)
	}

	offset := met.BodyLeft + (met.BodyWidth-(maxRight-minX))/2 - minX
	if math.Abs(offset) <= eps {
		return
	}
	for _, idx := range row {
		p.Tiles[idx].X += offset
	}
}
