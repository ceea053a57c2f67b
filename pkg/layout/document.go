package layout

import (
	"encoding/json"

	"github.com/menupress/menupress/pkg/errors"
	"github.com/menupress/menupress/pkg/template"
)

// SourceRef links a tile back to the menu entity it renders.
type SourceRef struct {
	SectionID string `json:"section_id,omitempty" bson:"section_id,omitempty"`
	ItemID    string `json:"item_id,omitempty" bson:"item_id,omitempty"`
}

// Tile is one positioned rectangular unit of layout, either content or
// decorative. Body tiles additionally carry their grid position so the
// balancer and filler can reason in grid terms.
type Tile struct {
	Type template.TileType `json:"type" bson:"type"`

	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Grid position within the body container. Meaningless for tiles in
	// the header/title regions (logo, title).
	Row     int `json:"row,omitempty" bson:"row,omitempty"`
	Col     int `json:"col,omitempty" bson:"col,omitempty"`
	RowSpan int `json:"row_span,omitempty" bson:"row_span,omitempty"`
	ColSpan int `json:"col_span,omitempty" bson:"col_span,omitempty"`

	Source *SourceRef `json:"source_ref,omitempty" bson:"source_ref,omitempty"`

	// Continuation marks a section header re-emitted at the top of a
	// continuation page.
	Continuation bool `json:"continuation,omitempty" bson:"continuation,omitempty"`

	// Variant identifies the filler design for FILLER tiles.
	Variant string `json:"variant,omitempty" bson:"variant,omitempty"`
}

// Rect returns the tile's rectangle.
func (t Tile) Rect() Rect {
	return Rect{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
}

// IsBodyContent reports whether the tile is real content placed in the
// body grid (as opposed to region tiles and decorative filler).
func (t Tile) IsBodyContent() bool {
	switch t.Type {
	case template.TileSectionHeader, template.TileItemCard, template.TileItemTextRow:
		return true
	case template.TileLogo, template.TileTitle, template.TileFiller:
		return false
	}
	return false
}

// Page is one laid-out page: an ordered tile list plus its resolved role.
type Page struct {
	Number int               `json:"number" bson:"number"`
	Role   template.PageRole `json:"role" bson:"role"`
	Tiles  []Tile            `json:"tiles" bson:"tiles"`
}

// LastContentRow returns the highest body grid row at which a content tile
// starts, or -1 when the page has no body content.
func (p *Page) LastContentRow() int {
	last := -1
	for _, t := range p.Tiles {
		if t.IsBodyContent() && t.Row > last {
			last = t.Row
		}
	}
	return last
}

// LastOccupiedRow returns the highest body grid row covered by a content
// tile (including row spans), or -1 when the page has no body content.
func (p *Page) LastOccupiedRow() int {
	last := -1
	for _, t := range p.Tiles {
		if !t.IsBodyContent() {
			continue
		}
		if end := t.Row + t.RowSpan - 1; end > last {
			last = end
		}
	}
	return last
}

// CountType returns the number of tiles of the given type on the page.
func (p *Page) CountType(typ template.TileType) int {
	n := 0
	for _, t := range p.Tiles {
		if t.Type == typ {
			n++
		}
	}
	return n
}

// Document is the paginated layout handed to a renderer. It is constructed
// fresh per render call; the engine itself never persists it.
type Document struct {
	MenuID          string `json:"menu_id" bson:"menu_id"`
	MenuName        string `json:"menu_name,omitempty" bson:"menu_name,omitempty"`
	TemplateID      string `json:"template_id" bson:"template_id"`
	TemplateVersion string `json:"template_version,omitempty" bson:"template_version,omitempty"`
	Pages           []Page `json:"pages" bson:"pages"`
}

// TileCount returns the total number of tiles across all pages.
func (d *Document) TileCount() int {
	n := 0
	for i := range d.Pages {
		n += len(d.Pages[i].Tiles)
	}
	return n
}

// ItemTileCount returns the number of item tiles (cards and text rows)
// across all pages.
func (d *Document) ItemTileCount() int {
	n := 0
	for i := range d.Pages {
		n += d.Pages[i].CountType(template.TileItemCard)
		n += d.Pages[i].CountType(template.TileItemTextRow)
	}
	return n
}

// MarshalDocument encodes a layout document as JSON. Output is
// deterministic for identical documents.
func MarshalDocument(d *Document) ([]byte, error) {
	return json.Marshal(d)
}

// UnmarshalDocument decodes a layout document from JSON.
func UnmarshalDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout document")
	}
	return &d, nil
}
