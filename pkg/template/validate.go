package template

import (
	"github.com/menupress/menupress/pkg/errors"
)

// bodyTileTypes are the tile types placed inside the body grid. Their
// definitions must carry a positive content budget so row spans can be
// derived.
var bodyTileTypes = []TileType{TileSectionHeader, TileItemCard, TileItemTextRow}

// validBalancing is the set of accepted last-row balancing modes.
var validBalancing = map[BalancingMode]bool{
	BalanceNone:   true,
	BalanceCenter: true,
}

// validRoles is the set of accepted page roles for the logo policy.
var validRoles = map[PageRole]bool{
	RoleSingle:       true,
	RoleFirst:        true,
	RoleContinuation: true,
	RoleFinal:        true,
}

// ApplyDefaults fills optional policy fields that were omitted from the
// template source. It is idempotent and called by the loaders before
// validation.
func (t *Template) ApplyDefaults() {
	if t.Policies.LastRowBalancing == "" {
		t.Policies.LastRowBalancing = BalanceNone
	}
	if t.Filler.Policy == "" {
		t.Filler.Policy = FillerSequential
	}
}

// Validate checks the template's structural invariants. A template that
// fails validation is a configuration error: layout never starts, nothing
// is retried, and no pages are emitted.
func (t *Template) Validate() error {
	if t.ID == "" {
		return errors.New(errors.ErrCodeInvalidTemplate, "template id is empty")
	}

	width, height := t.Page.Dimensions()
	if width <= 0 || height <= 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: unknown page size %q and no explicit dimensions", t.ID, t.Page.Size)
	}

	m := t.Page.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: margins must be non-negative", t.ID)
	}
	if t.Regions.Header.Height < 0 || t.Regions.Title.Height < 0 || t.Regions.Footer.Height < 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: region heights must be non-negative", t.ID)
	}

	c := t.Body.Container
	if c.Cols < 1 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: body cols must be >= 1, got %d", t.ID, c.Cols)
	}
	if c.RowHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: body row height must be positive, got %g", t.ID, c.RowHeight)
	}
	if c.GapX < 0 || c.GapY < 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: grid gaps must be non-negative", t.ID)
	}

	bodyHeight := height - m.Top - m.Bottom - t.Regions.Header.Height - t.Regions.Title.Height - t.Regions.Footer.Height
	if bodyHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: regions and margins leave no body space (%.1f)", t.ID, bodyHeight)
	}
	bodyWidth := width - m.Left - m.Right
	if bodyWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: margins leave no body width (%.1f)", t.ID, bodyWidth)
	}

	for typ, def := range t.Tiles {
		if err := t.validateTileDef(typ, def); err != nil {
			return err
		}
	}

	if !validBalancing[t.Policies.LastRowBalancing] {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: unknown last-row balancing mode %q", t.ID, t.Policies.LastRowBalancing)
	}
	for _, role := range t.Policies.ShowLogoOnPages {
		if !validRoles[role] {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s: unknown page role %q in show_logo_on_pages", t.ID, role)
		}
	}
	if t.Policies.SectionHeaderKeepWithNextItems < 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: section_header_keep_with_next_items must be non-negative", t.ID)
	}

	return t.validateFiller()
}

// validateTileDef checks a single tile definition against the grid.
func (t *Template) validateTileDef(typ TileType, def TileDef) error {
	cols := t.Body.Container.Cols
	if def.ColSpan < 1 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: tile %s col span must be >= 1, got %d", t.ID, typ, def.ColSpan)
	}
	if def.ColSpan > cols {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: tile %s col span %d exceeds %d columns", t.ID, typ, def.ColSpan, cols)
	}
	if def.RowSpan < 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: tile %s row span must be non-negative, got %d", t.ID, typ, def.RowSpan)
	}
	for _, body := range bodyTileTypes {
		if typ == body && def.Budget.TotalHeight <= 0 {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s: tile %s needs a positive content budget", t.ID, typ)
		}
	}
	return nil
}

// validateFiller checks the filler configuration and its safe zones.
func (t *Template) validateFiller() error {
	f := t.Filler
	if !f.Enabled {
		return nil
	}
	if f.Policy != FillerSequential {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: unknown filler policy %q", t.ID, f.Policy)
	}
	if len(f.Tiles) == 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template %s: filler is enabled but declares no tiles", t.ID)
	}
	for i, v := range f.Tiles {
		if v.ID == "" {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s: filler tile %d has no id", t.ID, i)
		}
	}

	cols := t.Body.Container.Cols
	for i, z := range f.SafeZones {
		if !z.StartRow.Last && z.StartRow.Row < 0 {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s: safe zone %d start row must be non-negative", t.ID, i)
		}
		if !z.StartRow.Last && !z.EndRow.Last && z.EndRow.Row < z.StartRow.Row {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s: safe zone %d end row %d precedes start row %d", t.ID, i, z.EndRow.Row, z.StartRow.Row)
		}
		if z.StartCol < 0 || z.EndCol < z.StartCol || z.EndCol >= cols {
			return errors.New(errors.ErrCodeInvalidTemplate, "template %s: safe zone %d column range [%d, %d] is outside the %d-column grid", t.ID, i, z.StartCol, z.EndCol, cols)
		}
	}
	return nil
}
