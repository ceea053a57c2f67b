package layout

import (
	"github.com/menupress/menupress/pkg/template"
)

// fill places decorative tiles into free body cells inside the template's
// safe zones. Zones with a LAST row bound are resolved against each page
// individually once its occupied rows are known. Variants cycle in
// declaration order, with the cycle restarting on every page.
//
// Candidate cells are tested against every tile already on the page,
// including filler placed earlier in the same pass, so the no-overlap
// guarantee holds by construction. A page with zero free candidate cells
// is a normal, silent outcome.
func fill(tpl *template.Template, met Metrics, pages []Page) {
	f := tpl.Filler
	if !f.Enabled || len(f.Tiles) == 0 {
		return
	}
	for i := range pages {
		fillPage(f, met, &pages[i])
	}
}

func fillPage(f template.Filler, met Metrics, p *Page) {
	lastRow := p.LastOccupiedRow()
	if lastRow < 0 {
		// Empty body: the LAST bound falls back to the last available row.
		lastRow = met.RowsPerPage - 1
	}

	next := 0
	for _, zone := range f.SafeZones {
		startRow := clamp(zone.StartRow.Resolve(lastRow), 0, met.RowsPerPage-1)
		endRow := clamp(zone.EndRow.Resolve(lastRow), 0, met.RowsPerPage-1)
		startCol := clamp(zone.StartCol, 0, met.Cols-1)
		endCol := clamp(zone.EndCol, 0, met.Cols-1)

		for row := startRow; row <= endRow; row++ {
			for col := startCol; col <= endCol; col++ {
				rect := met.CellRect(row, col, 1, 1)
				if coveredByAny(rect, p.Tiles) {
					continue
				}
				variant := f.Tiles[next%len(f.Tiles)]
				next++
				p.Tiles = append(p.Tiles, Tile{
					Type:    template.TileFiller,
					X:       rect.X,
					Y:       rect.Y,
					Width:   rect.Width,
					Height:  rect.Height,
					Row:     row,
					Col:     col,
					RowSpan: 1,
					ColSpan: 1,
					Variant: variant.ID,
				})
			}
		}
	}
}

// coveredByAny reports whether the rectangle overlaps any existing tile.
func coveredByAny(r Rect, tiles []Tile) bool {
	for _, t := range tiles {
		if r.Overlaps(t.Rect()) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
