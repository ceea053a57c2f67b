// Package menu defines the normalized menu snapshot consumed by the layout
// engine.
//
// A menu is ordered content: sections carry a sort order, and each section
// carries an ordered list of items with pricing and indicator metadata.
// The engine treats a menu as a read-only snapshot for one layout run; all
// editing happens upstream, before a snapshot is taken.
//
// The package also computes the content fingerprint used as a cache key for
// computed layout documents: a hash over the render-relevant fields only,
// so two snapshots differing in volatile metadata (record ids, timestamps)
// share a key, while any visible content change produces a new one.
package menu

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/menupress/menupress/pkg/errors"
)

// Menu is one restaurant menu: ordered sections of priced items plus
// display metadata.
type Menu struct {
	ID       string    `json:"id" bson:"id"`
	Name     string    `json:"name" bson:"name"`
	Slug     string    `json:"slug,omitempty" bson:"slug,omitempty"`
	Metadata Metadata  `json:"metadata" bson:"metadata"`
	Sections []Section `json:"sections" bson:"sections"`

	// ExtractedAt records when the upstream extraction produced this
	// snapshot. Volatile: excluded from the content fingerprint.
	ExtractedAt time.Time `json:"extracted_at,omitempty" bson:"extracted_at,omitempty"`
}

// Metadata carries display context that is not itself menu content.
type Metadata struct {
	CurrencySymbol string `json:"currency_symbol,omitempty" bson:"currency_symbol,omitempty"`
	VenueName      string `json:"venue_name,omitempty" bson:"venue_name,omitempty"`
}

// Section is an ordered group of items under one heading.
type Section struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	SortOrder int    `json:"sort_order" bson:"sort_order"`
	Items     []Item `json:"items" bson:"items"`
}

// Item is a single menu entry.
type Item struct {
	ID          string     `json:"id" bson:"id"`
	Name        string     `json:"name" bson:"name"`
	Price       float64    `json:"price" bson:"price"`
	SortOrder   int        `json:"sort_order" bson:"sort_order"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Indicators  Indicators `json:"indicators" bson:"indicators"`
}

// Indicators are the dietary/allergen markers attached to an item. They
// affect geometry only through the indicator-area height already folded
// into the template's content budgets.
type Indicators struct {
	Dietary    []string `json:"dietary,omitempty" bson:"dietary,omitempty"`
	Allergens  []string `json:"allergens,omitempty" bson:"allergens,omitempty"`
	SpiceLevel int      `json:"spice_level,omitempty" bson:"spice_level,omitempty"`
}

// HasVisual reports whether the item carries content beyond a name and
// price. The allocator uses this to choose between an item card and a
// compact text row.
func (i Item) HasVisual() bool {
	return i.Description != "" || i.ImageURL != ""
}

// New creates an empty menu with a fresh id and the extraction time set.
func New(name string) *Menu {
	return &Menu{
		ID:          uuid.NewString(),
		Name:        name,
		ExtractedAt: time.Now().UTC(),
	}
}

// SortedSections returns the sections ordered by sort order (ties broken
// by id for determinism). The receiver is not modified.
func (m *Menu) SortedSections() []Section {
	out := slices.Clone(m.Sections)
	slices.SortStableFunc(out, func(a, b Section) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
		return compareStrings(a.ID, b.ID)
	})
	for i := range out {
		out[i].Items = sortedItems(out[i].Items)
	}
	return out
}

// ItemCount returns the total number of items across all sections.
func (m *Menu) ItemCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Items)
	}
	return n
}

// Validate checks the structural invariants the engine relies on: ids are
// present and item ids are unique across the menu.
func (m *Menu) Validate() error {
	if m.ID == "" {
		return errors.New(errors.ErrCodeInvalidMenu, "menu id is empty")
	}
	if m.Name == "" {
		return errors.New(errors.ErrCodeInvalidMenu, "menu %s: name is empty", m.ID)
	}

	seen := make(map[string]bool, m.ItemCount())
	for _, s := range m.Sections {
		if s.ID == "" {
			return errors.New(errors.ErrCodeInvalidMenu, "menu %s: section %q has no id", m.ID, s.Name)
		}
		for _, it := range s.Items {
			if it.ID == "" {
				return errors.New(errors.ErrCodeInvalidMenu, "menu %s: item %q in section %s has no id", m.ID, it.Name, s.ID)
			}
			if seen[it.ID] {
				return errors.New(errors.ErrCodeInvalidMenu, "menu %s: duplicate item id %s", m.ID, it.ID)
			}
			seen[it.ID] = true
			if it.Price < 0 {
				return errors.New(errors.ErrCodeInvalidMenu, "menu %s: item %s has negative price", m.ID, it.ID)
			}
		}
	}
	return nil
}

// Marshal encodes a menu as JSON.
func Marshal(m *Menu) ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal decodes a menu from JSON.
func Unmarshal(data []byte) (*Menu, error) {
	var m Menu
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMenu, err, "decode menu JSON")
	}
	return &m, nil
}

func sortedItems(items []Item) []Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b Item) int {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
		return compareStrings(a.ID, b.ID)
	})
	return out
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
