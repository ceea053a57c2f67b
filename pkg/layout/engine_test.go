package layout

import (
	"bytes"
	stderrors "errors"
	"slices"
	"testing"

	"github.com/menupress/menupress/pkg/errors"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/template"
)

func TestComputeSinglePageLayout(t *testing.T) {
	tpl := testTemplate()
	m := testMenu(menu.Section{ID: "starters", Name: "Starters", Items: cardItems("st", 5)})

	doc, err := Compute(tpl, m)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(doc.Pages))
	}
	p := doc.Pages[0]

	if got := p.CountType(template.TileSectionHeader); got != 1 {
		t.Errorf("section headers = %d, want 1", got)
	}
	if doc.ItemTileCount() != 5 {
		t.Errorf("item tiles = %d, want 5", doc.ItemTileCount())
	}
	if got := p.CountType(template.TileFiller); got < 1 {
		t.Error("expected at least one filler tile in the partial last row")
	}

	// Five cards wrap four across: rows 1 and 2 below the header.
	for _, tile := range p.Tiles {
		if tile.Type != template.TileItemCard {
			continue
		}
		if tile.Row != 1 && tile.Row != 2 {
			t.Errorf("item %s at row %d, want 1 or 2", tile.Source.ItemID, tile.Row)
		}
	}

	assertNoOverlaps(t, p)
	assertColumnBound(t, p, 4)

	if doc.MenuID != m.ID || doc.TemplateID != tpl.ID || doc.TemplateVersion != tpl.Version {
		t.Error("document does not carry its provenance")
	}
}

func TestComputeDeterministic(t *testing.T) {
	tpl := testTemplate()
	tpl.Policies.LastRowBalancing = template.BalanceCenter
	build := func() *menu.Menu {
		return testMenu(
			menu.Section{ID: "a", Name: "A", SortOrder: 1, Items: cardItems("a", 7)},
			menu.Section{ID: "b", Name: "B", SortOrder: 2, Items: cardItems("b", 11)},
		)
	}

	first, err := Compute(tpl, build())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	second, err := Compute(tpl, build())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	a, err := MarshalDocument(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := MarshalDocument(second)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs produced different documents")
	}

	// Input slice order is irrelevant: sections sort by sort order.
	shuffled := build()
	slices.Reverse(shuffled.Sections)
	third, err := Compute(tpl, shuffled)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	c, err := MarshalDocument(third)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, c) {
		t.Error("section slice order leaked into the document")
	}
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	tpl := testTemplate()
	tpl.Policies.LastRowBalancing = template.BalanceCenter
	m := testMenu(
		menu.Section{ID: "b", Name: "B", SortOrder: 2, Items: cardItems("b", 3)},
		menu.Section{ID: "a", Name: "A", SortOrder: 1, Items: cardItems("a", 5)},
	)
	before, err := menu.Marshal(m)
	if err != nil {
		t.Fatalf("marshal menu: %v", err)
	}

	if _, err := Compute(tpl, m); err != nil {
		t.Fatalf("Compute: %v", err)
	}

	after, err := menu.Marshal(m)
	if err != nil {
		t.Fatalf("marshal menu: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("Compute mutated the menu")
	}
}

func TestComputeConservation(t *testing.T) {
	tpl := testTemplate()
	m := testMenu(
		menu.Section{ID: "a", Name: "A", SortOrder: 1, Items: cardItems("a", 19)},
		menu.Section{ID: "b", Name: "B", SortOrder: 2, Items: cardItems("b", 23)},
	)

	doc, err := Compute(tpl, m)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	seen := collectItemIDs(doc.Pages)
	if len(seen) != m.ItemCount() {
		t.Errorf("distinct items = %d, want %d", len(seen), m.ItemCount())
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("item %s appears %d times", id, n)
		}
	}
	// The no-overlap invariant holds after filler on every page.
	for _, p := range doc.Pages {
		assertNoOverlaps(t, p)
		assertColumnBound(t, p, 4)
	}
}

func TestComputeContentOverflow(t *testing.T) {
	tpl := testTemplate()
	def := tpl.Tiles[template.TileItemCard]
	def.Budget.TotalHeight = 700
	tpl.Tiles[template.TileItemCard] = def
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: cardItems("huge", 1)})

	doc, err := Compute(tpl, m)
	if err == nil {
		t.Fatal("expected content overflow error")
	}
	if doc != nil {
		t.Error("no document must be returned on overflow")
	}
	var ce *errors.ContentOverflowError
	if !stderrors.As(err, &ce) {
		t.Fatalf("error type = %T, want *errors.ContentOverflowError", err)
	}
	if ce.ItemID != "huge-01" {
		t.Errorf("ItemID = %s, want huge-01", ce.ItemID)
	}
}

func TestComputeValidatesInputs(t *testing.T) {
	t.Run("invalid template", func(t *testing.T) {
		tpl := testTemplate()
		tpl.Body.Container.Cols = 0
		_, err := Compute(tpl, testMenu())
		if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
			t.Errorf("code = %s, want INVALID_TEMPLATE", errors.GetCode(err))
		}
	})

	t.Run("invalid menu", func(t *testing.T) {
		m := testMenu(menu.Section{ID: "a", Name: "A", Items: []menu.Item{
			{ID: "x", Name: "X", Price: -1},
		}})
		_, err := Compute(testTemplate(), m)
		if !errors.Is(err, errors.ErrCodeInvalidMenu) {
			t.Errorf("code = %s, want INVALID_MENU", errors.GetCode(err))
		}
	})
}

func TestComputeDocumentRoundTrip(t *testing.T) {
	tpl := testTemplate()
	m := testMenu(menu.Section{ID: "a", Name: "A", Items: cardItems("a", 5)})

	doc, err := Compute(tpl, m)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.TileCount() != doc.TileCount() {
		t.Errorf("round trip tile count = %d, want %d", back.TileCount(), doc.TileCount())
	}
	if back.Pages[0].Role != doc.Pages[0].Role {
		t.Error("round trip lost the page role")
	}
}
