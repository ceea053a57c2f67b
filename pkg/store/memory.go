package store

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/menupress/menupress/pkg/errors"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/template"
)

// MemoryStore is an in-memory Store for tests and ephemeral CLI runs.
// Records are deep-copied through their JSON form on the way in and out,
// so callers can never mutate stored state by accident.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string][]byte
	menus     map[string][]byte
	documents map[string][]byte
	slugs     map[string]string // slug -> menu id
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates: make(map[string][]byte),
		menus:     make(map[string][]byte),
		documents: make(map[string][]byte),
		slugs:     make(map[string]string),
	}
}

// PutTemplate inserts or replaces a template by id.
func (s *MemoryStore) PutTemplate(ctx context.Context, tpl *template.Template) error {
	data, err := template.Marshal(tpl)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode template %s", tpl.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.ID] = data
	return nil
}

// GetTemplate returns a template by id.
func (s *MemoryStore) GetTemplate(ctx context.Context, id string) (*template.Template, error) {
	s.mu.RLock()
	data, ok := s.templates[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeTemplateNotFound, "template %s not found", id)
	}
	return template.Parse(data)
}

// ListTemplates returns all templates ordered by id.
func (s *MemoryStore) ListTemplates(ctx context.Context) ([]*template.Template, error) {
	s.mu.RLock()
	ids := sortedKeys(s.templates)
	s.mu.RUnlock()

	out := make([]*template.Template, 0, len(ids))
	for _, id := range ids {
		tpl, err := s.GetTemplate(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, tpl)
	}
	return out, nil
}

// PutMenu inserts or replaces a menu snapshot by id.
func (s *MemoryStore) PutMenu(ctx context.Context, m *menu.Menu) error {
	data, err := menu.Marshal(m)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode menu %s", m.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menus[m.ID] = data
	if m.Slug != "" {
		s.slugs[m.Slug] = m.ID
	}
	return nil
}

// GetMenu returns a menu by id.
func (s *MemoryStore) GetMenu(ctx context.Context, id string) (*menu.Menu, error) {
	s.mu.RLock()
	data, ok := s.menus[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeMenuNotFound, "menu %s not found", id)
	}
	return menu.Unmarshal(data)
}

// GetMenuBySlug returns a menu by slug.
func (s *MemoryStore) GetMenuBySlug(ctx context.Context, slug string) (*menu.Menu, error) {
	s.mu.RLock()
	id, ok := s.slugs[slug]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeMenuNotFound, "menu with slug %s not found", slug)
	}
	return s.GetMenu(ctx, id)
}

// ListMenus returns all menu snapshots ordered by id.
func (s *MemoryStore) ListMenus(ctx context.Context) ([]*menu.Menu, error) {
	s.mu.RLock()
	ids := sortedKeys(s.menus)
	s.mu.RUnlock()

	out := make([]*menu.Menu, 0, len(ids))
	for _, id := range ids {
		m, err := s.GetMenu(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// PutDocument inserts a document record.
func (s *MemoryStore) PutDocument(ctx context.Context, rec *DocumentRecord) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[rec.ID] = data
	return nil
}

// GetDocument returns a document record by id.
func (s *MemoryStore) GetDocument(ctx context.Context, id string) (*DocumentRecord, error) {
	s.mu.RLock()
	data, ok := s.documents[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	return decodeRecord(data)
}

// DeleteDocument removes a document record by id.
func (s *MemoryStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	delete(s.documents, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)
	return keys
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

func encodeRecord(rec *DocumentRecord) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "encode document %s", rec.ID)
	}
	return data, nil
}

func decodeRecord(data []byte) (*DocumentRecord, error) {
	var rec DocumentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode document record")
	}
	return &rec, nil
}
