package store

import (
	"context"
	"testing"

	"github.com/menupress/menupress/pkg/errors"
	"github.com/menupress/menupress/pkg/layout"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/template"
)

func sampleTemplate(id string) *template.Template {
	return &template.Template{
		ID:      id,
		Name:    "Bistro",
		Version: "1",
		Page: template.Page{
			Size:    template.PageA4,
			Margins: template.Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
		},
		Regions: template.Regions{Header: template.Region{Height: 40}},
		Body: template.Body{
			Container: template.Container{Cols: 2, RowHeight: 100, GapX: 10, GapY: 10},
		},
		Tiles: map[template.TileType]template.TileDef{
			template.TileSectionHeader: {ColSpan: 2, Budget: template.ContentBudget{TotalHeight: 60}},
			template.TileItemCard:      {ColSpan: 1, Budget: template.ContentBudget{TotalHeight: 100}},
		},
	}
}

func sampleMenu(id, slug string) *menu.Menu {
	return &menu.Menu{
		ID:   id,
		Name: "Dinner",
		Slug: slug,
		Sections: []menu.Section{
			{ID: "s1", Name: "Mains", Items: []menu.Item{
				{ID: "i1", Name: "Pasta", Price: 12},
			}},
		},
	}
}

func TestMemoryStoreTemplates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	if _, err := s.GetTemplate(ctx, "missing"); !errors.Is(err, errors.ErrCodeTemplateNotFound) {
		t.Errorf("code = %s, want TEMPLATE_NOT_FOUND", errors.GetCode(err))
	}

	if err := s.PutTemplate(ctx, sampleTemplate("b")); err != nil {
		t.Fatalf("PutTemplate: %v", err)
	}
	if err := s.PutTemplate(ctx, sampleTemplate("a")); err != nil {
		t.Fatalf("PutTemplate: %v", err)
	}

	got, err := s.GetTemplate(ctx, "a")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if got.ID != "a" || got.Name != "Bistro" {
		t.Errorf("got template %s/%s", got.ID, got.Name)
	}

	list, err := s.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Errorf("list not ordered by id: %v", []string{list[0].ID, list[1].ID})
	}

	// Replace by id.
	tpl := sampleTemplate("a")
	tpl.Name = "Updated"
	if err := s.PutTemplate(ctx, tpl); err != nil {
		t.Fatalf("PutTemplate replace: %v", err)
	}
	got, _ = s.GetTemplate(ctx, "a")
	if got.Name != "Updated" {
		t.Error("PutTemplate did not replace the record")
	}
}

func TestMemoryStoreMenus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	if _, err := s.GetMenu(ctx, "missing"); !errors.Is(err, errors.ErrCodeMenuNotFound) {
		t.Errorf("code = %s, want MENU_NOT_FOUND", errors.GetCode(err))
	}

	m := sampleMenu("m1", "la-trattoria")
	if err := s.PutMenu(ctx, m); err != nil {
		t.Fatalf("PutMenu: %v", err)
	}

	got, err := s.GetMenuBySlug(ctx, "la-trattoria")
	if err != nil {
		t.Fatalf("GetMenuBySlug: %v", err)
	}
	if got.ID != "m1" {
		t.Errorf("slug lookup returned %s", got.ID)
	}
	if _, err := s.GetMenuBySlug(ctx, "nope"); !errors.Is(err, errors.ErrCodeMenuNotFound) {
		t.Errorf("code = %s, want MENU_NOT_FOUND", errors.GetCode(err))
	}

	// Stored snapshots are isolated from caller mutation.
	m.Sections[0].Name = "Changed"
	got, _ = s.GetMenu(ctx, "m1")
	if got.Sections[0].Name != "Mains" {
		t.Error("stored menu shares memory with the caller")
	}
}

func TestMemoryStoreDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	doc := &layout.Document{
		MenuID:     "m1",
		TemplateID: "bistro",
		Pages:      []layout.Page{{Number: 1, Role: template.RoleSingle}},
	}
	rec := NewDocumentRecord(doc, "fp123")
	if rec.ID == "" {
		t.Fatal("NewDocumentRecord must assign an id")
	}
	if rec.MenuID != "m1" || rec.TemplateID != "bistro" || rec.Fingerprint != "fp123" {
		t.Error("record does not carry its provenance")
	}

	if err := s.PutDocument(ctx, rec); err != nil {
		t.Fatalf("PutDocument: %v", err)
	}
	got, err := s.GetDocument(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Document == nil || len(got.Document.Pages) != 1 {
		t.Error("document payload lost in round trip")
	}

	if _, err := s.GetDocument(ctx, "missing"); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("code = %s, want DOCUMENT_NOT_FOUND", errors.GetCode(err))
	}

	if err := s.DeleteDocument(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := s.GetDocument(ctx, rec.ID); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Error("document still present after delete")
	}
	if err := s.DeleteDocument(ctx, rec.ID); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("second delete code = %s, want DOCUMENT_NOT_FOUND", errors.GetCode(err))
	}
}
