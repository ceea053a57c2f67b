package menu

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// The fingerprint hashes only render-relevant content. Anything volatile
// (record ids, slugs, extraction timestamps, job metadata) is deliberately
// excluded so re-extracting an unchanged menu keeps its cache key, while
// any visible change (a renamed item, a new price) produces a new one.

// fingerprintMenu is the canonical shape hashed by Fingerprint. Field order
// is fixed by the struct definition, and sections/items are sorted before
// encoding, so the hash is deterministic for equivalent content.
type fingerprintMenu struct {
	Name     string               `json:"name"`
	Currency string               `json:"currency"`
	Venue    string               `json:"venue"`
	Sections []fingerprintSection `json:"sections"`
}

type fingerprintSection struct {
	Name      string            `json:"name"`
	SortOrder int               `json:"sort_order"`
	Items     []fingerprintItem `json:"items"`
}

type fingerprintItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	SortOrder   int      `json:"sort_order"`
	Dietary     []string `json:"dietary,omitempty"`
	Allergens   []string `json:"allergens,omitempty"`
	SpiceLevel  int      `json:"spice_level,omitempty"`
}

// Fingerprint returns a hex-encoded SHA-256 over the menu's render-relevant
// content: menu name, display metadata, and per-item name, description,
// price, category (section name), and display order.
func (m *Menu) Fingerprint() string {
	fp := fingerprintMenu{
		Name:     m.Name,
		Currency: m.Metadata.CurrencySymbol,
		Venue:    m.Metadata.VenueName,
	}

	for _, s := range m.SortedSections() {
		fs := fingerprintSection{Name: s.Name, SortOrder: s.SortOrder}
		for _, it := range s.Items {
			fs.Items = append(fs.Items, fingerprintItem{
				Name:        it.Name,
				Description: it.Description,
				Price:       it.Price,
				Category:    s.Name,
				SortOrder:   it.SortOrder,
				Dietary:     it.Indicators.Dietary,
				Allergens:   it.Indicators.Allergens,
				SpiceLevel:  it.Indicators.SpiceLevel,
			})
		}
		fp.Sections = append(fp.Sections, fs)
	}

	data, _ := json.Marshal(fp)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
