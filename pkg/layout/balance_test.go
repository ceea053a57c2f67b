package layout

import (
	"math"
	"testing"

	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/template"
)

// allocateBalanced runs allocation and balancing only, leaving filler out
// so the tests see the balancer's output directly.
func allocateBalanced(t *testing.T, tpl *template.Template, m *menu.Menu) []Page {
	t.Helper()
	pages, err := allocate(tpl, m)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	balance(tpl, NewMetrics(tpl), pages)
	return pages
}

func lastRowTiles(p Page) []Tile {
	last := p.LastContentRow()
	var out []Tile
	for _, tile := range p.Tiles {
		if tile.IsBodyContent() && tile.Row == last {
			out = append(out, tile)
		}
	}
	return out
}

func TestBalanceCentersPartialRow(t *testing.T) {
	tpl := testTemplate()
	tpl.Policies.LastRowBalancing = template.BalanceCenter
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: cardItems("a", 5)})

	pages := allocateBalanced(t, tpl, m)
	met := NewMetrics(tpl)

	row := lastRowTiles(pages[0])
	if len(row) != 1 {
		t.Fatalf("last row tiles = %d, want 1", len(row))
	}
	tile := row[0]

	// One 109pt cell centered in the 460pt body: x = 20 + (460-109)/2.
	if math.Abs(tile.X-195.5) > 1e-6 {
		t.Errorf("X = %g, want 195.5", tile.X)
	}
	left := tile.X - met.BodyLeft
	right := met.BodyLeft + met.BodyWidth - (tile.X + tile.Width)
	if math.Abs(left-right) > 1e-6 {
		t.Errorf("margins %g / %g are not symmetric", left, right)
	}

	// Only x moves.
	if tile.Y != 300 || tile.Width != 109 || tile.Height != 90 || tile.Row != 2 {
		t.Errorf("balancing changed more than x: %+v", tile)
	}
}

func TestBalancePreservesGaps(t *testing.T) {
	tpl := testTemplate()
	tpl.Policies.LastRowBalancing = template.BalanceCenter
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: cardItems("a", 6)})

	pages := allocateBalanced(t, tpl, m)

	row := lastRowTiles(pages[0])
	if len(row) != 2 {
		t.Fatalf("last row tiles = %d, want 2", len(row))
	}
	// Both tiles shift by the same offset: the 8pt gap survives.
	gap := row[1].X - (row[0].X + row[0].Width)
	if math.Abs(gap-8) > 1e-6 {
		t.Errorf("gap after balancing = %g, want 8", gap)
	}
	if math.Abs(row[0].X-137) > 1e-6 {
		t.Errorf("first tile X = %g, want 137", row[0].X)
	}
	assertNoOverlaps(t, pages[0])
}

func TestBalanceLeavesFullRow(t *testing.T) {
	tpl := testTemplate()
	tpl.Policies.LastRowBalancing = template.BalanceCenter
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: cardItems("a", 8)})

	pages := allocateBalanced(t, tpl, m)

	row := lastRowTiles(pages[0])
	if len(row) != 4 {
		t.Fatalf("last row tiles = %d, want 4", len(row))
	}
	wantX := []float64{20, 137, 254, 371}
	for i, tile := range row {
		if math.Abs(tile.X-wantX[i]) > 1e-6 {
			t.Errorf("tile %d X = %g, want %g (full rows stay put)", i, tile.X, wantX[i])
		}
	}
}

func TestBalanceNoneIsIdentity(t *testing.T) {
	tpl := testTemplate() // balancing NONE
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: cardItems("a", 5)})

	pages := allocateBalanced(t, tpl, m)

	row := lastRowTiles(pages[0])
	if len(row) != 1 {
		t.Fatalf("last row tiles = %d, want 1", len(row))
	}
	if row[0].X != 20 {
		t.Errorf("X = %g, want 20 (untouched)", row[0].X)
	}
}

func TestBalanceSkipsProtrudingTiles(t *testing.T) {
	tpl := testTemplate()
	tpl.Policies.LastRowBalancing = template.BalanceCenter
	// Two-row cards alongside one-column text rows: a tall card started on
	// an earlier row protrudes into the last row, so the balancer must not
	// shift anything around it.
	card := tpl.Tiles[template.TileItemCard]
	card.Budget.TotalHeight = 190 // two rows
	tpl.Tiles[template.TileItemCard] = card
	row := tpl.Tiles[template.TileItemTextRow]
	row.ColSpan = 1
	tpl.Tiles[template.TileItemTextRow] = row

	items := cardItems("p", 5)
	for i := 1; i < len(items); i++ {
		items[i].Description = "" // text rows
	}
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: items})

	pages := allocateBalanced(t, tpl, m)
	p := pages[0]

	// Tall card spans rows 1-2; text rows take row 1 cols 1-3 and wrap to
	// row 2 col 1 past the card.
	var wrapped *Tile
	for i := range p.Tiles {
		tile := p.Tiles[i]
		if tile.Type == template.TileItemTextRow && tile.Row == 2 {
			wrapped = &p.Tiles[i]
		}
	}
	if wrapped == nil {
		t.Fatal("expected a text row wrapped onto row 2")
	}
	if math.Abs(wrapped.X-137) > 1e-6 {
		t.Errorf("X = %g, want 137 (no shift next to a protruding card)", wrapped.X)
	}
	assertNoOverlaps(t, p)
}

func TestBalanceEveryPage(t *testing.T) {
	tpl := testTemplate()
	tpl.Policies.LastRowBalancing = template.BalanceCenter
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: cardItems("a", 30)})

	pages := allocateBalanced(t, tpl, m)
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	// Page 2 ends with 2 cards in its last row; they end up centered.
	row := lastRowTiles(pages[1])
	if len(row) != 2 {
		t.Fatalf("page 2 last row tiles = %d, want 2", len(row))
	}
	met := NewMetrics(tpl)
	left := row[0].X - met.BodyLeft
	right := met.BodyLeft + met.BodyWidth - (row[1].X + row[1].Width)
	if math.Abs(left-right) > 1e-6 {
		t.Errorf("page 2 margins %g / %g are not symmetric", left, right)
	}
	for _, p := range pages {
		assertNoOverlaps(t, p)
	}
}
