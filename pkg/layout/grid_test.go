package layout

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/menupress/menupress/pkg/errors"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/template"
)

// testTemplate builds a 4-column template with round geometry: a 500x740
// page with 20pt margins, 50/30/20pt header/title/footer bands, a 600pt
// body holding 6 rows of 90pt (10pt vertical gap), and 109pt cells.
func testTemplate() *template.Template {
	return &template.Template{
		ID:      "bistro-test",
		Version: "1",
		Page: template.Page{
			Width:   500,
			Height:  740,
			Margins: template.Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
		},
		Regions: template.Regions{
			Header: template.Region{Height: 50},
			Title:  template.Region{Height: 30},
			Footer: template.Region{Height: 20},
		},
		Body: template.Body{
			Container: template.Container{Cols: 4, RowHeight: 90, GapX: 8, GapY: 10},
		},
		Tiles: map[template.TileType]template.TileDef{
			template.TileLogo:          {Region: "header", ColSpan: 2},
			template.TileTitle:         {Region: "title", ColSpan: 4},
			template.TileSectionHeader: {ColSpan: 4, Budget: template.ContentBudget{TotalHeight: 90}},
			template.TileItemCard:      {ColSpan: 1, Budget: template.ContentBudget{TotalHeight: 90}},
			template.TileItemTextRow:   {ColSpan: 4, Budget: template.ContentBudget{TotalHeight: 40}},
		},
		Policies: template.Policies{
			LastRowBalancing:                  template.BalanceNone,
			ShowLogoOnPages:                   []template.PageRole{template.RoleSingle, template.RoleFirst},
			RepeatSectionHeaderOnContinuation: true,
			SectionHeaderKeepWithNextItems:    2,
		},
		Filler: template.Filler{
			Enabled: true,
			Policy:  template.FillerSequential,
			SafeZones: []template.SafeZone{
				{StartRow: template.FixedRow(0), EndRow: template.LastRow(), StartCol: 0, EndCol: 3},
			},
			Tiles: []template.FillerVariant{{ID: "leaf"}, {ID: "swirl"}, {ID: "dot"}},
		},
	}
}

func testMenu(sections ...menu.Section) *menu.Menu {
	return &menu.Menu{ID: "menu-1", Name: "Dinner", Sections: sections}
}

// cardItems returns n items with descriptions, so they lay out as cards.
func cardItems(prefix string, n int) []menu.Item {
	items := make([]menu.Item, n)
	for i := range items {
		items[i] = menu.Item{
			ID:          fmt.Sprintf("%s-%02d", prefix, i+1),
			Name:        fmt.Sprintf("Dish %d", i+1),
			Price:       9.5,
			SortOrder:   i,
			Description: "house favorite",
		}
	}
	return items
}

func assertNoOverlaps(t *testing.T, p Page) {
	t.Helper()
	for i := 0; i < len(p.Tiles); i++ {
		for j := i + 1; j < len(p.Tiles); j++ {
			if p.Tiles[i].Rect().Overlaps(p.Tiles[j].Rect()) {
				t.Errorf("page %d: tile %d (%s) overlaps tile %d (%s)",
					p.Number, i, p.Tiles[i].Type, j, p.Tiles[j].Type)
			}
		}
	}
}

func assertColumnBound(t *testing.T, p Page, cols int) {
	t.Helper()
	for i, tile := range p.Tiles {
		if !tile.IsBodyContent() && tile.Type != template.TileFiller {
			continue
		}
		if tile.Col < 0 || tile.Col+tile.ColSpan > cols {
			t.Errorf("page %d: tile %d (%s) at col %d span %d exceeds %d columns",
				p.Number, i, tile.Type, tile.Col, tile.ColSpan, cols)
		}
	}
}

// collectItemIDs counts how many tiles reference each item id.
func collectItemIDs(pages []Page) map[string]int {
	seen := make(map[string]int)
	for _, p := range pages {
		for _, tile := range p.Tiles {
			if tile.Source != nil && tile.Source.ItemID != "" {
				seen[tile.Source.ItemID]++
			}
		}
	}
	return seen
}

func TestAllocateSingleSection(t *testing.T) {
	tpl := testTemplate()
	m := testMenu(menu.Section{ID: "starters", Name: "Starters", Items: cardItems("st", 5)})

	pages, err := allocate(tpl, m)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	p := pages[0]
	if p.Role != template.RoleSingle {
		t.Errorf("role = %s, want SINGLE", p.Role)
	}
	if got := p.CountType(template.TileSectionHeader); got != 1 {
		t.Errorf("section headers = %d, want 1", got)
	}
	if got := p.CountType(template.TileItemCard); got != 5 {
		t.Errorf("item cards = %d, want 5", got)
	}
	if got := p.CountType(template.TileLogo); got != 1 {
		t.Errorf("logo tiles = %d, want 1 on a SINGLE page", got)
	}
	if got := p.CountType(template.TileTitle); got != 1 {
		t.Errorf("title tiles = %d, want 1", got)
	}

	// Header fills row 0; items wrap 4 across row 1 and one lands in row 2.
	wantRows := map[string][2]int{
		"st-01": {1, 0}, "st-02": {1, 1}, "st-03": {1, 2}, "st-04": {1, 3},
		"st-05": {2, 0},
	}
	for _, tile := range p.Tiles {
		switch tile.Type {
		case template.TileSectionHeader:
			if tile.Row != 0 || tile.Col != 0 || tile.ColSpan != 4 {
				t.Errorf("header at row %d col %d span %d, want full row 0", tile.Row, tile.Col, tile.ColSpan)
			}
		case template.TileItemCard:
			want, ok := wantRows[tile.Source.ItemID]
			if !ok {
				t.Errorf("unexpected item tile %s", tile.Source.ItemID)
				continue
			}
			if tile.Row != want[0] || tile.Col != want[1] {
				t.Errorf("item %s at row %d col %d, want row %d col %d",
					tile.Source.ItemID, tile.Row, tile.Col, want[0], want[1])
			}
		}
	}

	assertNoOverlaps(t, p)
	assertColumnBound(t, p, 4)
}

func TestAllocateConservation(t *testing.T) {
	tpl := testTemplate()
	m := testMenu(
		menu.Section{ID: "a", Name: "A", SortOrder: 1, Items: cardItems("a", 9)},
		menu.Section{ID: "b", Name: "B", SortOrder: 2, Items: cardItems("b", 14)},
		menu.Section{ID: "c", Name: "C", SortOrder: 3, Items: cardItems("c", 3)},
	)

	pages, err := allocate(tpl, m)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}

	seen := collectItemIDs(pages)
	if len(seen) != m.ItemCount() {
		t.Errorf("distinct items placed = %d, want %d", len(seen), m.ItemCount())
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("item %s placed %d times, want exactly once", id, n)
		}
	}
	for _, p := range pages {
		assertNoOverlaps(t, p)
		assertColumnBound(t, p, 4)
	}
}

func TestAllocatePagination(t *testing.T) {
	tpl := testTemplate()
	// Header plus 30 one-row cards: 20 fit after the header on page one,
	// the remaining 10 follow a repeated header on page two.
	m := testMenu(menu.Section{ID: "mains", Name: "Mains", Items: cardItems("m", 30)})

	pages, err := allocate(tpl, m)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}

	if pages[0].Role != template.RoleFirst {
		t.Errorf("page 1 role = %s, want FIRST", pages[0].Role)
	}
	if pages[1].Role != template.RoleFinal {
		t.Errorf("page 2 role = %s, want FINAL", pages[1].Role)
	}
	if got := pages[0].CountType(template.TileItemCard); got != 20 {
		t.Errorf("page 1 item cards = %d, want 20", got)
	}
	if got := pages[1].CountType(template.TileItemCard); got != 10 {
		t.Errorf("page 2 item cards = %d, want 10", got)
	}

	// Continuation header: same section, flagged, at the top of page two.
	var cont *Tile
	for i := range pages[1].Tiles {
		if pages[1].Tiles[i].Type == template.TileSectionHeader {
			cont = &pages[1].Tiles[i]
			break
		}
	}
	if cont == nil {
		t.Fatal("page 2 has no continuation header")
	}
	if !cont.Continuation {
		t.Error("page 2 header is not flagged as continuation")
	}
	if cont.Source == nil || cont.Source.SectionID != "mains" {
		t.Error("continuation header does not reference the section")
	}
	if cont.Row != 0 {
		t.Errorf("continuation header at row %d, want 0", cont.Row)
	}

	// Logo follows the role policy (SINGLE, FIRST); title is first page only.
	if got := pages[0].CountType(template.TileLogo); got != 1 {
		t.Errorf("page 1 logo tiles = %d, want 1", got)
	}
	if got := pages[1].CountType(template.TileLogo); got != 0 {
		t.Errorf("page 2 logo tiles = %d, want 0 on FINAL", got)
	}
	if got := pages[0].CountType(template.TileTitle); got != 1 {
		t.Errorf("page 1 title tiles = %d, want 1", got)
	}
	if got := pages[1].CountType(template.TileTitle); got != 0 {
		t.Errorf("page 2 title tiles = %d, want 0", got)
	}

	for _, p := range pages {
		assertNoOverlaps(t, p)
	}
}

func TestKeepWithNextBreaksPage(t *testing.T) {
	tpl := testTemplate() // keep-with-next 2
	// Section A ends with its cursor on the last row: a header placed there
	// would have no room for its two companion items, so section B must
	// start on a fresh page.
	m := testMenu(
		menu.Section{ID: "a", Name: "A", SortOrder: 1, Items: cardItems("a", 16)},
		menu.Section{ID: "b", Name: "B", SortOrder: 2, Items: cardItems("b", 4)},
	)

	pages, err := allocate(tpl, m)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}

	for _, tile := range pages[0].Tiles {
		if tile.Source != nil && tile.Source.SectionID == "b" {
			t.Fatal("section B leaked onto page 1")
		}
	}

	var header *Tile
	for i := range pages[1].Tiles {
		if pages[1].Tiles[i].Type == template.TileSectionHeader {
			header = &pages[1].Tiles[i]
			break
		}
	}
	if header == nil {
		t.Fatal("page 2 has no section header")
	}
	if header.Continuation {
		t.Error("deferred header must not be flagged as continuation")
	}
	if header.Row != 0 {
		t.Errorf("deferred header at row %d, want 0", header.Row)
	}
	if got := pages[1].CountType(template.TileItemCard); got != 4 {
		t.Errorf("page 2 item cards = %d, want 4", got)
	}
}

func TestKeepWithNextFitsInPlace(t *testing.T) {
	tpl := testTemplate()
	// Section A leaves two full rows; B's header plus both required items
	// fit, so no page break happens.
	m := testMenu(
		menu.Section{ID: "a", Name: "A", SortOrder: 1, Items: cardItems("a", 12)},
		menu.Section{ID: "b", Name: "B", SortOrder: 2, Items: cardItems("b", 4)},
	)

	pages, err := allocate(tpl, m)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	if got := pages[0].CountType(template.TileSectionHeader); got != 2 {
		t.Errorf("section headers = %d, want 2", got)
	}
	assertNoOverlaps(t, pages[0])
}

func TestAllocateEmptySection(t *testing.T) {
	tpl := testTemplate()
	m := testMenu(menu.Section{ID: "specials", Name: "Specials"})

	pages, err := allocate(tpl, m)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got := pages[0].CountType(template.TileSectionHeader); got != 1 {
		t.Errorf("section headers = %d, want 1 for an item-less section", got)
	}
}

func TestAllocateEmptyMenu(t *testing.T) {
	pages, err := allocate(testTemplate(), testMenu())
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
	if pages[0].Role != template.RoleSingle {
		t.Errorf("role = %s, want SINGLE", pages[0].Role)
	}
	if pages[0].LastContentRow() != -1 {
		t.Error("empty menu must produce no body content")
	}
}

func TestAllocateMissingTileDef(t *testing.T) {
	tpl := testTemplate()
	delete(tpl.Tiles, template.TileItemCard)
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: cardItems("a", 2)})

	_, err := allocate(tpl, m)
	if err == nil {
		t.Fatal("expected error for missing tile definition")
	}
	if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("code = %s, want INVALID_TEMPLATE", errors.GetCode(err))
	}
}

func TestAllocateContentOverflow(t *testing.T) {
	tpl := testTemplate()
	def := tpl.Tiles[template.TileItemCard]
	def.Budget.TotalHeight = 700 // exceeds the 600pt body
	tpl.Tiles[template.TileItemCard] = def
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: cardItems("big", 1)})

	_, err := allocate(tpl, m)
	if err == nil {
		t.Fatal("expected content overflow error")
	}
	var ce *errors.ContentOverflowError
	if !stderrors.As(err, &ce) {
		t.Fatalf("error type = %T, want *errors.ContentOverflowError", err)
	}
	if ce.ItemID != "big-01" {
		t.Errorf("ItemID = %s, want big-01", ce.ItemID)
	}
	if ce.Code() != errors.ErrCodeContentOverflow {
		t.Errorf("code = %s, want CONTENT_OVERFLOW", ce.Code())
	}
}

func TestAllocateTextRowItems(t *testing.T) {
	tpl := testTemplate()
	// Items without description or image lay out as full-width text rows.
	items := cardItems("tx", 3)
	for i := range items {
		items[i].Description = ""
	}
	m := testMenu(menu.Section{ID: "drinks", Name: "Drinks", Items: items})

	pages, err := allocate(tpl, m)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	p := pages[0]
	if got := p.CountType(template.TileItemTextRow); got != 3 {
		t.Errorf("text rows = %d, want 3", got)
	}
	if got := p.CountType(template.TileItemCard); got != 0 {
		t.Errorf("item cards = %d, want 0", got)
	}
	for _, tile := range p.Tiles {
		if tile.Type == template.TileItemTextRow && tile.ColSpan != 4 {
			t.Errorf("text row span = %d, want full width", tile.ColSpan)
		}
	}
}
