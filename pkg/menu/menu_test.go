package menu

import (
	"testing"
	"time"

	"github.com/menupress/menupress/pkg/errors"
)

// sample returns a two-section menu used across tests.
func sample() *Menu {
	return &Menu{
		ID:   "menu-1",
		Name: "Dinner",
		Slug: "dinner-v1",
		Metadata: Metadata{
			CurrencySymbol: "€",
			VenueName:      "Trattoria Nino",
		},
		ExtractedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Sections: []Section{
			{
				ID:        "sec-mains",
				Name:      "Mains",
				SortOrder: 2,
				Items: []Item{
					{ID: "it-3", Name: "Risotto", Price: 18.5, SortOrder: 1},
					{ID: "it-4", Name: "Osso Buco", Price: 26, SortOrder: 2, Description: "Braised veal shank"},
				},
			},
			{
				ID:        "sec-starters",
				Name:      "Starters",
				SortOrder: 1,
				Items: []Item{
					{ID: "it-2", Name: "Bruschetta", Price: 7, SortOrder: 2},
					{ID: "it-1", Name: "Carpaccio", Price: 12, SortOrder: 1,
						Indicators: Indicators{Allergens: []string{"beef"}}},
				},
			},
		},
	}
}

func TestSortedSections(t *testing.T) {
	m := sample()
	sections := m.SortedSections()

	if len(sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(sections))
	}
	if sections[0].ID != "sec-starters" || sections[1].ID != "sec-mains" {
		t.Errorf("section order = [%s, %s], want starters before mains", sections[0].ID, sections[1].ID)
	}
	if sections[0].Items[0].ID != "it-1" {
		t.Errorf("first starter = %s, want it-1 (sort order 1)", sections[0].Items[0].ID)
	}

	// The receiver must not be reordered.
	if m.Sections[0].ID != "sec-mains" {
		t.Error("SortedSections mutated the receiver")
	}
}

func TestItemCount(t *testing.T) {
	if got := sample().ItemCount(); got != 4 {
		t.Errorf("ItemCount = %d, want 4", got)
	}
}

func TestHasVisual(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"bare item", Item{Name: "Espresso"}, false},
		{"with description", Item{Name: "Tiramisu", Description: "House made"}, true},
		{"with image", Item{Name: "Pizza", ImageURL: "https://cdn/p.jpg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.HasVisual(); got != tt.want {
				t.Errorf("HasVisual() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Menu)
		ok     bool
	}{
		{"valid", func(*Menu) {}, true},
		{"empty menu id", func(m *Menu) { m.ID = "" }, false},
		{"empty name", func(m *Menu) { m.Name = "" }, false},
		{"section without id", func(m *Menu) { m.Sections[0].ID = "" }, false},
		{"item without id", func(m *Menu) { m.Sections[0].Items[0].ID = "" }, false},
		{"duplicate item id", func(m *Menu) { m.Sections[1].Items[0].ID = "it-3" }, false},
		{"negative price", func(m *Menu) { m.Sections[0].Items[0].Price = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sample()
			tt.mutate(m)
			err := m.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, errors.ErrCodeInvalidMenu) {
					t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidMenu)
				}
			}
		})
	}
}

func TestNew(t *testing.T) {
	m := New("Lunch")
	if m.ID == "" {
		t.Error("New should mint an id")
	}
	if m.ExtractedAt.IsZero() {
		t.Error("New should record extraction time")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(sample())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	m, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m.ID != "menu-1" || m.ItemCount() != 4 {
		t.Errorf("round trip lost data: id=%s items=%d", m.ID, m.ItemCount())
	}
}
