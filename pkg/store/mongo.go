package store

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/menupress/menupress/pkg/errors"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/template"
)

// Collection names within the menupress database.
const (
	colTemplates = "templates"
	colMenus     = "menus"
	colDocuments = "documents"
)

// MongoStore is the MongoDB-backed Store used by the hosted platform.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

// PutTemplate inserts or replaces a template by id.
func (s *MongoStore) PutTemplate(ctx context.Context, tpl *template.Template) error {
	return s.upsert(ctx, colTemplates, tpl.ID, tpl)
}

// GetTemplate returns a template by id.
func (s *MongoStore) GetTemplate(ctx context.Context, id string) (*template.Template, error) {
	var tpl template.Template
	if err := s.findByID(ctx, colTemplates, id, &tpl); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(errors.ErrCodeTemplateNotFound, "template %s not found", id)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load template %s", id)
	}
	return &tpl, nil
}

// ListTemplates returns all templates ordered by id.
func (s *MongoStore) ListTemplates(ctx context.Context) ([]*template.Template, error) {
	cur, err := s.db.Collection(colTemplates).Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"id": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list templates")
	}
	var out []*template.Template
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode templates")
	}
	return out, nil
}

// PutMenu inserts or replaces a menu snapshot by id.
func (s *MongoStore) PutMenu(ctx context.Context, m *menu.Menu) error {
	return s.upsert(ctx, colMenus, m.ID, m)
}

// GetMenu returns a menu by id.
func (s *MongoStore) GetMenu(ctx context.Context, id string) (*menu.Menu, error) {
	var m menu.Menu
	if err := s.findByID(ctx, colMenus, id, &m); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(errors.ErrCodeMenuNotFound, "menu %s not found", id)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load menu %s", id)
	}
	return &m, nil
}

// GetMenuBySlug returns a menu by slug.
func (s *MongoStore) GetMenuBySlug(ctx context.Context, slug string) (*menu.Menu, error) {
	var m menu.Menu
	err := s.db.Collection(colMenus).FindOne(ctx, bson.M{"slug": slug}).Decode(&m)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeMenuNotFound, "menu with slug %s not found", slug)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load menu by slug %s", slug)
	}
	return &m, nil
}

// ListMenus returns all menu snapshots ordered by id.
func (s *MongoStore) ListMenus(ctx context.Context) ([]*menu.Menu, error) {
	cur, err := s.db.Collection(colMenus).Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"id": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list menus")
	}
	var out []*menu.Menu
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode menus")
	}
	return out, nil
}

// PutDocument inserts a document record.
func (s *MongoStore) PutDocument(ctx context.Context, rec *DocumentRecord) error {
	return s.upsert(ctx, colDocuments, rec.ID, rec)
}

// GetDocument returns a document record by id.
func (s *MongoStore) GetDocument(ctx context.Context, id string) (*DocumentRecord, error) {
	var rec DocumentRecord
	if err := s.findByID(ctx, colDocuments, id, &rec); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load document %s", id)
	}
	return &rec, nil
}

// DeleteDocument removes a document record by id.
func (s *MongoStore) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.Collection(colDocuments).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete document %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) upsert(ctx context.Context, collection, id string, doc any) error {
	_, err := s.db.Collection(collection).ReplaceOne(
		ctx,
		bson.M{"id": id},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "store %s/%s", collection, id)
	}
	return nil
}

func (s *MongoStore) findByID(ctx context.Context, collection, id string, out any) error {
	return s.db.Collection(collection).FindOne(ctx, bson.M{"id": id}).Decode(out)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
