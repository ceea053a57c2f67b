// Package store persists templates, menu snapshots, and computed layout
// documents.
//
// Two backends are provided: MongoStore for the hosted platform and
// MemoryStore for tests and ephemeral CLI runs. Both implement Store and
// report missing records with the typed not-found codes from the errors
// package, so callers never compare backend-specific sentinels.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/menupress/menupress/pkg/layout"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/template"
)

// DocumentRecord is a stored layout document plus the identity of the
// inputs it was computed from.
type DocumentRecord struct {
	ID          string           `json:"id" bson:"id"`
	MenuID      string           `json:"menu_id" bson:"menu_id"`
	TemplateID  string           `json:"template_id" bson:"template_id"`
	Fingerprint string           `json:"fingerprint" bson:"fingerprint"`
	Document    *layout.Document `json:"document" bson:"document"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
}

// NewDocumentRecord wraps a computed document with a fresh id and the
// menu fingerprint it was computed from.
func NewDocumentRecord(doc *layout.Document, fingerprint string) *DocumentRecord {
	return &DocumentRecord{
		ID:          uuid.NewString(),
		MenuID:      doc.MenuID,
		TemplateID:  doc.TemplateID,
		Fingerprint: fingerprint,
		Document:    doc,
		CreatedAt:   time.Now().UTC(),
	}
}

// Store persists the platform's three record kinds.
// Implementations must be safe for concurrent use.
type Store interface {
	// PutTemplate inserts or replaces a template by id.
	PutTemplate(ctx context.Context, tpl *template.Template) error

	// GetTemplate returns a template by id, or ErrCodeTemplateNotFound.
	GetTemplate(ctx context.Context, id string) (*template.Template, error)

	// ListTemplates returns all templates ordered by id.
	ListTemplates(ctx context.Context) ([]*template.Template, error)

	// PutMenu inserts or replaces a menu snapshot by id.
	PutMenu(ctx context.Context, m *menu.Menu) error

	// GetMenu returns a menu by id, or ErrCodeMenuNotFound.
	GetMenu(ctx context.Context, id string) (*menu.Menu, error)

	// GetMenuBySlug returns a menu by slug, or ErrCodeMenuNotFound.
	GetMenuBySlug(ctx context.Context, slug string) (*menu.Menu, error)

	// ListMenus returns all menu snapshots ordered by id.
	ListMenus(ctx context.Context) ([]*menu.Menu, error)

	// PutDocument inserts a document record.
	PutDocument(ctx context.Context, rec *DocumentRecord) error

	// GetDocument returns a document record by id, or
	// ErrCodeDocumentNotFound.
	GetDocument(ctx context.Context, id string) (*DocumentRecord, error)

	// DeleteDocument removes a document record by id. Deleting a missing
	// record returns ErrCodeDocumentNotFound.
	DeleteDocument(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
