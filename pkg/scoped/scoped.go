package scoped

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FieldTenantID is the document field every tenant-scoped collection carries.
const FieldTenantID = "tenant_id"

// Collection wraps a mongo collection handle so that every read and write is
// transparently intersected with the bound tenant. Business logic using a
// scoped collection cannot express an unscoped query: any caller-supplied
// tenant_id filter is discarded in favor of the bound id, and inserted
// documents get the bound id injected.
type Collection struct {
	coll     *mongo.Collection
	tenantID uuid.UUID
}

// For binds a collection handle to one tenant. It returns ErrNoTenant for the
// zero UUID so a missing resolution cannot silently widen a query to every
// tenant's data.
func For(coll *mongo.Collection, tenantID uuid.UUID) (*Collection, error) {
	if tenantID == uuid.Nil {
		return nil, ErrNoTenant
	}
	return &Collection{coll: coll, tenantID: tenantID}, nil
}

// TenantID returns the bound tenant id.
func (c *Collection) TenantID() uuid.UUID { return c.tenantID }

// Name returns the underlying collection name.
func (c *Collection) Name() string { return c.coll.Name() }

func (c *Collection) FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) (*mongo.SingleResult, error) {
	scoped, err := mergeFilter(filter, c.tenantID)
	if err != nil {
		return nil, err
	}
	return c.coll.FindOne(ctx, scoped, opts...), nil
}

func (c *Collection) Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error) {
	scoped, err := mergeFilter(filter, c.tenantID)
	if err != nil {
		return nil, err
	}
	return c.coll.Find(ctx, scoped, opts...)
}

func (c *Collection) CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error) {
	scoped, err := mergeFilter(filter, c.tenantID)
	if err != nil {
		return 0, err
	}
	return c.coll.CountDocuments(ctx, scoped, opts...)
}

func (c *Collection) InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error) {
	doc, err := injectTenantID(document, c.tenantID)
	if err != nil {
		return nil, err
	}
	return c.coll.InsertOne(ctx, doc, opts...)
}

func (c *Collection) InsertMany(ctx context.Context, documents []any, opts ...options.Lister[options.InsertManyOptions]) (*mongo.InsertManyResult, error) {
	docs := make([]any, len(documents))
	for i, document := range documents {
		doc, err := injectTenantID(document, c.tenantID)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return c.coll.InsertMany(ctx, docs, opts...)
}

func (c *Collection) UpdateOne(ctx context.Context, filter, update any, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error) {
	scoped, err := mergeFilter(filter, c.tenantID)
	if err != nil {
		return nil, err
	}
	return c.coll.UpdateOne(ctx, scoped, update, opts...)
}

func (c *Collection) UpdateMany(ctx context.Context, filter, update any, opts ...options.Lister[options.UpdateManyOptions]) (*mongo.UpdateResult, error) {
	scoped, err := mergeFilter(filter, c.tenantID)
	if err != nil {
		return nil, err
	}
	return c.coll.UpdateMany(ctx, scoped, update, opts...)
}

func (c *Collection) ReplaceOne(ctx context.Context, filter, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error) {
	scoped, err := mergeFilter(filter, c.tenantID)
	if err != nil {
		return nil, err
	}
	doc, err := injectTenantID(replacement, c.tenantID)
	if err != nil {
		return nil, err
	}
	return c.coll.ReplaceOne(ctx, scoped, doc, opts...)
}

func (c *Collection) DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error) {
	scoped, err := mergeFilter(filter, c.tenantID)
	if err != nil {
		return nil, err
	}
	return c.coll.DeleteOne(ctx, scoped, opts...)
}

func (c *Collection) DeleteMany(ctx context.Context, filter any, opts ...options.Lister[options.DeleteManyOptions]) (*mongo.DeleteResult, error) {
	scoped, err := mergeFilter(filter, c.tenantID)
	if err != nil {
		return nil, err
	}
	return c.coll.DeleteMany(ctx, scoped, opts...)
}

// Aggregate prepends a $match stage on the bound tenant so later stages only
// ever see the tenant's own documents.
func (c *Collection) Aggregate(ctx context.Context, pipeline []any, opts ...options.Lister[options.AggregateOptions]) (*mongo.Cursor, error) {
	scoped := make([]any, 0, len(pipeline)+1)
	scoped = append(scoped, bson.D{{Key: "$match", Value: bson.D{{Key: FieldTenantID, Value: c.tenantID.String()}}}})
	scoped = append(scoped, pipeline...)
	return c.coll.Aggregate(ctx, scoped, opts...)
}
