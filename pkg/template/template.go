// Package template defines the declarative page template model for the
// layout engine.
//
// A template describes page geometry (size, margins, fixed-height regions),
// the body grid (columns, row height, gaps), per-tile-type content budgets,
// and layout policies (last-row balancing, logo placement, keep-with-next,
// decorative filler). Templates are pure data: they carry no behavior beyond
// validation and are immutable for the duration of a layout run.
//
// Templates can be authored in TOML or JSON and are validated once with
// [Template.Validate] before being handed to the engine.
package template

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// TileType tags the kind of content a tile carries. The set is closed:
// the allocator, balancer, and filler all switch exhaustively over it.
type TileType string

// Tile types emitted by the engine.
const (
	TileLogo          TileType = "LOGO"
	TileTitle         TileType = "TITLE"
	TileSectionHeader TileType = "SECTION_HEADER"
	TileItemCard      TileType = "ITEM_CARD"
	TileItemTextRow   TileType = "ITEM_TEXT_ROW"
	TileFiller        TileType = "FILLER"
)

// PageRole classifies a page's position within a layout document.
type PageRole string

// Page roles used by the showLogoOnPages policy.
const (
	RoleSingle       PageRole = "SINGLE"       // The only page of a one-page layout
	RoleFirst        PageRole = "FIRST"        // First of multiple pages
	RoleContinuation PageRole = "CONTINUATION" // Neither first nor last
	RoleFinal        PageRole = "FINAL"        // Last of multiple pages
)

// BalancingMode selects how a page's final partial row is treated.
type BalancingMode string

// Last-row balancing modes.
const (
	BalanceNone   BalancingMode = "NONE"
	BalanceCenter BalancingMode = "CENTER"
)

// FillerPolicy selects how filler variants are assigned to free cells.
type FillerPolicy string

// FillerSequential cycles through the declared variants in order.
const FillerSequential FillerPolicy = "SEQUENTIAL"

// PageSize names a standard paper size.
type PageSize string

// Supported page sizes.
const (
	PageA4     PageSize = "A4"
	PageA5     PageSize = "A5"
	PageLetter PageSize = "LETTER"
	PageLegal  PageSize = "LEGAL"
)

// pageDimensions maps page sizes to width and height in points.
var pageDimensions = map[PageSize][2]float64{
	PageA4:     {595, 842},
	PageA5:     {420, 595},
	PageLetter: {612, 792},
	PageLegal:  {612, 1008},
}

// =============================================================================
// Template - Root Type
// =============================================================================

// Template is the validated, declarative description of page geometry and
// layout policy for one menu design.
type Template struct {
	ID      string `json:"id" toml:"id" bson:"id"`
	Name    string `json:"name,omitempty" toml:"name" bson:"name,omitempty"`
	Version string `json:"version,omitempty" toml:"version" bson:"version,omitempty"`

	Page           Page                 `json:"page" toml:"page" bson:"page"`
	Regions        Regions              `json:"regions" toml:"regions" bson:"regions"`
	Body           Body                 `json:"body" toml:"body" bson:"body"`
	Tiles          map[TileType]TileDef `json:"tiles" toml:"tiles" bson:"tiles"`
	Policies       Policies             `json:"policies" toml:"policies" bson:"policies"`
	Filler         Filler               `json:"filler" toml:"filler" bson:"filler"`
	ItemIndicators IndicatorDisplay     `json:"item_indicators" toml:"item_indicators" bson:"item_indicators"`
}

// Page describes the physical page and its margins.
// Width and Height override the named size when both are set.
type Page struct {
	Size    PageSize `json:"size,omitempty" toml:"size" bson:"size,omitempty"`
	Width   float64  `json:"width,omitempty" toml:"width" bson:"width,omitempty"`
	Height  float64  `json:"height,omitempty" toml:"height" bson:"height,omitempty"`
	Margins Margins  `json:"margins" toml:"margins" bson:"margins"`
}

// Dimensions resolves the page's width and height in points.
func (p Page) Dimensions() (width, height float64) {
	if p.Width > 0 && p.Height > 0 {
		return p.Width, p.Height
	}
	if dims, ok := pageDimensions[p.Size]; ok {
		return dims[0], dims[1]
	}
	return 0, 0
}

// Margins are the page margins in points.
type Margins struct {
	Top    float64 `json:"top" toml:"top" bson:"top"`
	Right  float64 `json:"right" toml:"right" bson:"right"`
	Bottom float64 `json:"bottom" toml:"bottom" bson:"bottom"`
	Left   float64 `json:"left" toml:"left" bson:"left"`
}

// Region is a fixed-height horizontal band of the page.
type Region struct {
	Height float64 `json:"height" toml:"height" bson:"height"`
}

// Regions are the named fixed areas of a page. The vertical space left
// after subtracting margins and all three regions is the body region.
type Regions struct {
	Header Region `json:"header" toml:"header" bson:"header"`
	Title  Region `json:"title" toml:"title" bson:"title"`
	Footer Region `json:"footer" toml:"footer" bson:"footer"`
}

// Body holds the body region's grid parameters.
type Body struct {
	Container Container `json:"container" toml:"container" bson:"container"`
}

// Container is the body grid: a column count plus cell geometry.
type Container struct {
	Cols      int     `json:"cols" toml:"cols" bson:"cols"`
	RowHeight float64 `json:"row_height" toml:"row_height" bson:"row_height"`
	GapX      float64 `json:"gap_x" toml:"gap_x" bson:"gap_x"`
	GapY      float64 `json:"gap_y" toml:"gap_y" bson:"gap_y"`
}

// =============================================================================
// Tile Definitions
// =============================================================================

// TileDef declares how tiles of one type are sized and where they live.
type TileDef struct {
	Region  string        `json:"region" toml:"region" bson:"region"`
	ColSpan int           `json:"col_span" toml:"col_span" bson:"col_span"`
	RowSpan int           `json:"row_span" toml:"row_span" bson:"row_span"`
	Budget  ContentBudget `json:"content_budget" toml:"content_budget" bson:"content_budget"`
}

// ContentBudget records the vertical space a tile of a given type consumes.
// TotalHeight is the precomputed sum and is the value the allocator uses
// when deriving row spans; it must be monotonic in the resulting span.
type ContentBudget struct {
	NameLines           int     `json:"name_lines,omitempty" toml:"name_lines" bson:"name_lines,omitempty"`
	DescriptionLines    int     `json:"description_lines,omitempty" toml:"description_lines" bson:"description_lines,omitempty"`
	IndicatorAreaHeight float64 `json:"indicator_area_height,omitempty" toml:"indicator_area_height" bson:"indicator_area_height,omitempty"`
	ImageBoxHeight      float64 `json:"image_box_height,omitempty" toml:"image_box_height" bson:"image_box_height,omitempty"`
	PaddingTop          float64 `json:"padding_top,omitempty" toml:"padding_top" bson:"padding_top,omitempty"`
	PaddingBottom       float64 `json:"padding_bottom,omitempty" toml:"padding_bottom" bson:"padding_bottom,omitempty"`
	TotalHeight         float64 `json:"total_height" toml:"total_height" bson:"total_height"`
}

// =============================================================================
// Policies
// =============================================================================

// Policies are the aesthetic and pagination rules applied during layout.
type Policies struct {
	LastRowBalancing                  BalancingMode `json:"last_row_balancing,omitempty" toml:"last_row_balancing" bson:"last_row_balancing,omitempty"`
	ShowLogoOnPages                   []PageRole    `json:"show_logo_on_pages,omitempty" toml:"show_logo_on_pages" bson:"show_logo_on_pages,omitempty"`
	RepeatSectionHeaderOnContinuation bool          `json:"repeat_section_header_on_continuation,omitempty" toml:"repeat_section_header_on_continuation" bson:"repeat_section_header_on_continuation,omitempty"`
	SectionHeaderKeepWithNextItems    int           `json:"section_header_keep_with_next_items,omitempty" toml:"section_header_keep_with_next_items" bson:"section_header_keep_with_next_items,omitempty"`
}

// ShowsLogoOn reports whether the logo tile is included on pages of the
// given role.
func (p Policies) ShowsLogoOn(role PageRole) bool {
	for _, r := range p.ShowLogoOnPages {
		if r == role {
			return true
		}
	}
	return false
}

// IndicatorDisplay configures dietary/allergen indicator rendering. It has
// no geometric effect beyond the indicator area height already folded into
// content budgets; the renderer consumes it.
type IndicatorDisplay struct {
	Mode       string `json:"mode,omitempty" toml:"mode" bson:"mode,omitempty"`
	MaxVisible int    `json:"max_visible,omitempty" toml:"max_visible" bson:"max_visible,omitempty"`
}

// =============================================================================
// Filler
// =============================================================================

// Filler configures decorative tiles placed into free body cells.
type Filler struct {
	Enabled   bool            `json:"enabled" toml:"enabled" bson:"enabled"`
	SafeZones []SafeZone      `json:"safe_zones,omitempty" toml:"safe_zones" bson:"safe_zones,omitempty"`
	Tiles     []FillerVariant `json:"tiles,omitempty" toml:"tiles" bson:"tiles,omitempty"`
	Policy    FillerPolicy    `json:"policy,omitempty" toml:"policy" bson:"policy,omitempty"`
}

// FillerVariant is one decorative tile design, identified for the renderer.
type FillerVariant struct {
	ID    string `json:"id" toml:"id" bson:"id"`
	Asset string `json:"asset,omitempty" toml:"asset" bson:"asset,omitempty"`
}

// SafeZone declares a row/column range in which filler tiles may be placed.
// Row bounds may reference the page's last row, which is only known once a
// page has been allocated, so they are tagged values resolved per page.
type SafeZone struct {
	StartRow RowBound `json:"start_row" toml:"start_row" bson:"start_row"`
	EndRow   RowBound `json:"end_row" toml:"end_row" bson:"end_row"`
	StartCol int      `json:"start_col" toml:"start_col" bson:"start_col"`
	EndCol   int      `json:"end_col" toml:"end_col" bson:"end_col"`
}
