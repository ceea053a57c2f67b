package layout

import (
	"github.com/menupress/menupress/pkg/errors"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/template"
)

// =============================================================================
// Occupancy Grid
// =============================================================================

// occupancy tracks which body grid cells of one page are taken.
type occupancy struct {
	rows, cols int
	cells      []bool
}

func newOccupancy(rows, cols int) *occupancy {
	return &occupancy{rows: rows, cols: cols, cells: make([]bool, rows*cols)}
}

func (o *occupancy) clone() *occupancy {
	c := &occupancy{rows: o.rows, cols: o.cols, cells: make([]bool, len(o.cells))}
	copy(c.cells, o.cells)
	return c
}

// fits reports whether a rowSpan×colSpan tile can sit at (row, col): fully
// inside the grid with every covered cell free.
func (o *occupancy) fits(row, col, rowSpan, colSpan int) bool {
	if row < 0 || col < 0 || row+rowSpan > o.rows || col+colSpan > o.cols {
		return false
	}
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			if o.cells[r*o.cols+c] {
				return false
			}
		}
	}
	return true
}

func (o *occupancy) mark(row, col, rowSpan, colSpan int) {
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			o.cells[r*o.cols+c] = true
		}
	}
}

// cursor is a row-major position in the body grid.
type cursor struct {
	row, col int
}

// findSlot scans forward in reading order from c for the first position
// where the span fits. The scan never backtracks: cells skipped earlier
// stay empty (the filler may claim them later).
func (o *occupancy) findSlot(c cursor, rowSpan, colSpan int) (cursor, bool) {
	for row := c.row; row+rowSpan <= o.rows; row++ {
		col := 0
		if row == c.row {
			col = c.col
		}
		for ; col+colSpan <= o.cols; col++ {
			if o.fits(row, col, rowSpan, colSpan) {
				return cursor{row, col}, true
			}
		}
	}
	return cursor{}, false
}

// =============================================================================
// Allocator
// =============================================================================

// span is a tile type's effective footprint in grid cells.
type span struct {
	rows, cols int
}

// allocator turns the menu's logical content stream into positioned tiles
// across one or more pages.
type allocator struct {
	tpl   *template.Template
	met   Metrics
	spans map[template.TileType]span

	pages []Page
	occ   *occupancy
	cur   cursor
}

// allocate runs the grid allocation stage. On error no pages are returned.
func allocate(tpl *template.Template, m *menu.Menu) ([]Page, error) {
	a := &allocator{
		tpl:   tpl,
		met:   NewMetrics(tpl),
		spans: make(map[template.TileType]span),
	}

	if err := a.resolveSpans(m); err != nil {
		return nil, err
	}

	a.openPage()
	for _, sec := range m.SortedSections() {
		if err := a.placeSection(sec); err != nil {
			return nil, err
		}
	}

	a.resolveRoles()
	a.emitRegionTiles()
	return a.pages, nil
}

// kindFor selects the tile type for an item: cards for items with visual
// content, compact text rows otherwise.
func kindFor(it menu.Item) template.TileType {
	if it.HasVisual() {
		return template.TileItemCard
	}
	return template.TileItemTextRow
}

// resolveSpans precomputes the grid footprint of every tile type this menu
// will reference, failing fast before any page is emitted: a missing tile
// definition is a configuration error, and an item whose budget exceeds
// one page's body is a content overflow naming that item.
func (a *allocator) resolveSpans(m *menu.Menu) error {
	needed := make(map[template.TileType]bool)
	if len(m.Sections) > 0 {
		needed[template.TileSectionHeader] = true
	}
	for _, sec := range m.Sections {
		for _, it := range sec.Items {
			needed[kindFor(it)] = true
		}
	}

	for typ := range needed {
		def, ok := a.tpl.Tiles[typ]
		if !ok {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s: tile type %s is not defined", a.tpl.ID, typ)
		}
		s := span{rows: a.met.RowsNeeded(def.Budget.TotalHeight), cols: def.ColSpan}
		if def.RowSpan > s.rows {
			s.rows = def.RowSpan
		}
		a.spans[typ] = s
	}

	// Overflow check: every item must fit a page even when placed alone.
	for _, sec := range m.Sections {
		for _, it := range sec.Items {
			kind := kindFor(it)
			if a.spans[kind].rows > a.met.RowsPerPage {
				return &errors.ContentOverflowError{
					ItemID:   it.ID,
					Required: a.tpl.Tiles[kind].Budget.TotalHeight,
					Capacity: a.met.BodyHeight,
				}
			}
		}
	}
	if s, ok := a.spans[template.TileSectionHeader]; ok && s.rows > a.met.RowsPerPage {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: section header spans %d rows but a page holds %d", a.tpl.ID, s.rows, a.met.RowsPerPage)
	}

	return nil
}

// =============================================================================
// Page Management
// =============================================================================

func (a *allocator) openPage() {
	a.pages = append(a.pages, Page{Number: len(a.pages) + 1})
	a.occ = newOccupancy(a.met.RowsPerPage, a.met.Cols)
	a.cur = cursor{}
}

func (a *allocator) page() *Page {
	return &a.pages[len(a.pages)-1]
}

func (a *allocator) pageHasBodyContent() bool {
	for _, t := range a.page().Tiles {
		if t.IsBodyContent() {
			return true
		}
	}
	return false
}

// placeBody positions a body tile at the next free slot on the current
// page. Returns false when the page has no room for it.
func (a *allocator) placeBody(t Tile, s span) bool {
	slot, ok := a.occ.findSlot(a.cur, s.rows, s.cols)
	if !ok {
		return false
	}

	rect := a.met.CellRect(slot.row, slot.col, s.rows, s.cols)
	t.X, t.Y, t.Width, t.Height = rect.X, rect.Y, rect.Width, rect.Height
	t.Row, t.Col, t.RowSpan, t.ColSpan = slot.row, slot.col, s.rows, s.cols

	a.occ.mark(slot.row, slot.col, s.rows, s.cols)
	a.cur = cursor{slot.row, slot.col + s.cols}
	a.page().Tiles = append(a.page().Tiles, t)
	return true
}

// =============================================================================
// Section Placement
// =============================================================================

func (a *allocator) placeSection(sec menu.Section) error {
	headerSpan := a.spans[template.TileSectionHeader]
	header := Tile{
		Type:   template.TileSectionHeader,
		Source: &SourceRef{SectionID: sec.ID},
	}

	// Keep-with-next: the header must land together with its leading
	// items. A header is never left orphaned at the bottom of a page, so
	// sections with items always require at least one companion.
	required := a.tpl.Policies.SectionHeaderKeepWithNextItems
	if required > len(sec.Items) {
		required = len(sec.Items)
	}
	if required == 0 && len(sec.Items) > 0 {
		required = 1
	}

	if !a.groupFits(headerSpan, sec.Items[:required]) && a.pageHasBodyContent() {
		a.openPage()
	}
	if !a.placeBody(header, headerSpan) {
		// Possible only when a fresh page cannot hold the header, which
		// resolveSpans already excluded.
		return errors.New(errors.ErrCodeInternal, "section header for %s does not fit an empty page", sec.ID)
	}

	for _, it := range sec.Items {
		if err := a.placeItem(sec, it, header, headerSpan); err != nil {
			return err
		}
	}
	return nil
}

// placeItem places one item tile, breaking to a continuation page when the
// current page is full.
func (a *allocator) placeItem(sec menu.Section, it menu.Item, header Tile, headerSpan span) error {
	kind := kindFor(it)
	s := a.spans[kind]
	t := Tile{
		Type:   kind,
		Source: &SourceRef{SectionID: sec.ID, ItemID: it.ID},
	}

	if a.placeBody(t, s) {
		return nil
	}

	// Page is full: resume the section on a new page.
	a.openPage()
	if a.tpl.Policies.RepeatSectionHeaderOnContinuation {
		cont := header
		cont.Continuation = true
		if !a.placeBody(cont, headerSpan) {
			return errors.New(errors.ErrCodeInternal, "continuation header for %s does not fit an empty page", sec.ID)
		}
	}
	if !a.placeBody(t, s) {
		// The continuation header plus this item exceed a whole page.
		return &errors.ContentOverflowError{
			ItemID:   it.ID,
			Required: a.tpl.Tiles[kind].Budget.TotalHeight,
			Capacity: a.met.BodyHeight,
		}
	}
	return nil
}

// groupFits simulates placing a header and its keep-with-next items from
// the current cursor without mutating page state.
func (a *allocator) groupFits(headerSpan span, items []menu.Item) bool {
	occ := a.occ.clone()
	cur := a.cur

	place := func(s span) bool {
		slot, ok := occ.findSlot(cur, s.rows, s.cols)
		if !ok {
			return false
		}
		occ.mark(slot.row, slot.col, s.rows, s.cols)
		cur = cursor{slot.row, slot.col + s.cols}
		return true
	}

	if !place(headerSpan) {
		return false
	}
	for _, it := range items {
		if !place(a.spans[kindFor(it)]) {
			return false
		}
	}
	return true
}

// =============================================================================
// Roles and Region Tiles
// =============================================================================

// resolveRoles classifies every page once the page count is final.
func (a *allocator) resolveRoles() {
	n := len(a.pages)
	for i := range a.pages {
		switch {
		case n == 1:
			a.pages[i].Role = template.RoleSingle
		case i == 0:
			a.pages[i].Role = template.RoleFirst
		case i == n-1:
			a.pages[i].Role = template.RoleFinal
		default:
			a.pages[i].Role = template.RoleContinuation
		}
	}
}

// emitRegionTiles prepends the logo tile on pages whose role the template
// selects, and the title tile once on the first page. Region tiles live in
// their own horizontal bands, disjoint from the body grid.
func (a *allocator) emitRegionTiles() {
	logoDef, hasLogo := a.tpl.Tiles[template.TileLogo]
	_, hasTitle := a.tpl.Tiles[template.TileTitle]

	for i := range a.pages {
		var prefix []Tile

		if hasLogo && a.met.HeaderHeight > 0 && a.tpl.Policies.ShowsLogoOn(a.pages[i].Role) {
			colSpan := logoDef.ColSpan
			if colSpan < 1 {
				colSpan = 1
			}
			rect := a.met.HeaderRect(colSpan)
			prefix = append(prefix, Tile{
				Type: template.TileLogo,
				X:    rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height,
			})
		}

		if hasTitle && a.met.TitleHeight > 0 && i == 0 {
			rect := a.met.TitleRect()
			prefix = append(prefix, Tile{
				Type: template.TileTitle,
				X:    rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height,
			})
		}

		if len(prefix) > 0 {
			a.pages[i].Tiles = append(prefix, a.pages[i].Tiles...)
		}
	}
}
