package layout

import (
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/template"
)

// Compute lays out a menu under a template: allocate, balance, fill, in
// that order. The stages are strictly sequential because each consumes the
// complete output of the previous one.
//
// Compute is a pure function. It does not mutate its inputs, performs no
// I/O, and is safe to call from any number of goroutines concurrently.
// Identical inputs produce byte-identical documents.
func Compute(tpl *template.Template, m *menu.Menu) (*Document, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	pages, err := allocate(tpl, m)
	if err != nil {
		return nil, err
	}

	met := NewMetrics(tpl)
	balance(tpl, met, pages)
	fill(tpl, met, pages)

	return &Document{
		MenuID:          m.ID,
		MenuName:        m.Name,
		TemplateID:      tpl.ID,
		TemplateVersion: tpl.Version,
		Pages:           pages,
	}, nil
}
