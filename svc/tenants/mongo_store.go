package tenants

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rentora/rentora/pkg/tenant"
)

const (
	tenantsCollection  = "tenants"
	settingsCollection = "tenant_settings"
	usersCollection    = "users"
	vehiclesCollection = "vehicles"
)

// MongoStore persists tenants in MongoDB. UUIDs are stored as strings so
// documents stay readable in shells and dumps.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// EnsureIndexes creates the unique and lookup indexes the resolver depends
// on. Call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(tenantsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "primary_domain", Value: 1}}},
		{Keys: bson.D{{Key: "custom_domains", Value: 1}}},
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

type tenantDoc struct {
	ID            string        `bson:"_id"`
	Name          string        `bson:"name"`
	Slug          string        `bson:"slug"`
	PrimaryDomain string        `bson:"primary_domain"`
	CustomDomains []string      `bson:"custom_domains,omitempty"`
	OwnerID       string        `bson:"owner_id"`
	Plan          string        `bson:"plan"`
	Limits        tenant.Limits `bson:"limits"`
	Status        string        `bson:"status"`
	PeriodStart   time.Time     `bson:"current_period_start"`
	PeriodEnd     time.Time     `bson:"current_period_end"`
	CreatedAt     time.Time     `bson:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at"`
	DeletedAt     *time.Time    `bson:"deleted_at,omitempty"`
}

func toDoc(t *tenant.Tenant) tenantDoc {
	return tenantDoc{
		ID:            t.ID.String(),
		Name:          t.Name,
		Slug:          t.Slug,
		PrimaryDomain: t.PrimaryDomain,
		CustomDomains: t.CustomDomains,
		OwnerID:       t.OwnerID.String(),
		Plan:          t.Plan,
		Limits:        t.Limits,
		Status:        string(t.Status),
		PeriodStart:   t.PeriodStart,
		PeriodEnd:     t.PeriodEnd,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		DeletedAt:     t.DeletedAt,
	}
}

func (d tenantDoc) toTenant() (*tenant.Tenant, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	ownerID, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &tenant.Tenant{
		ID:            id,
		Name:          d.Name,
		Slug:          d.Slug,
		PrimaryDomain: d.PrimaryDomain,
		CustomDomains: d.CustomDomains,
		OwnerID:       ownerID,
		Plan:          d.Plan,
		Limits:        d.Limits,
		Status:        tenant.Status(d.Status),
		PeriodStart:   d.PeriodStart,
		PeriodEnd:     d.PeriodEnd,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		DeletedAt:     d.DeletedAt,
	}, nil
}

// notDeleted excludes soft-deleted tenants from every lookup.
var notDeleted = bson.E{Key: "deleted_at", Value: bson.D{{Key: "$exists", Value: false}}}

func (s *MongoStore) tenants() *mongo.Collection {
	return s.db.Collection(tenantsCollection)
}

func (s *MongoStore) Create(ctx context.Context, t *tenant.Tenant) error {
	if _, err := s.tenants().InsertOne(ctx, toDoc(t)); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D) (*tenant.Tenant, error) {
	var doc tenantDoc
	err := s.tenants().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return doc.toTenant()
}

func (s *MongoStore) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}, notDeleted})
}

func (s *MongoStore) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return s.findOne(ctx, bson.D{{Key: "slug", Value: slug}, notDeleted})
}

// FindByHost resolves any-status, soft-deleted records included, so a
// deleted tenant's domains render the inactive page rather than not-found.
// Live records win over deleted ones when a domain has been reclaimed;
// missing deleted_at sorts first in ascending order.
func (s *MongoStore) FindByHost(ctx context.Context, hostname, slug string) (*tenant.Tenant, error) {
	match := bson.A{
		bson.D{{Key: "primary_domain", Value: hostname}},
		bson.D{{Key: "custom_domains", Value: hostname}},
	}
	if slug != "" {
		match = append(match, bson.D{{Key: "slug", Value: slug}})
	}

	var doc tenantDoc
	err := s.tenants().FindOne(ctx,
		bson.D{{Key: "$or", Value: match}},
		options.FindOne().SetSort(bson.D{{Key: "deleted_at", Value: 1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return doc.toTenant()
}

func (s *MongoStore) List(ctx context.Context) ([]tenant.Tenant, error) {
	cur, err := s.tenants().Find(ctx, bson.D{notDeleted})
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer cur.Close(ctx)

	var out []tenant.Tenant
	for cur.Next(ctx) {
		var doc tenantDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		t, err := doc.toTenant()
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return out, nil
}

func (s *MongoStore) Update(ctx context.Context, t *tenant.Tenant) error {
	res, err := s.tenants().ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: t.ID.String()}, notDeleted},
		toDoc(t),
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := s.tenants().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id.String()}, notDeleted},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "deleted_at", Value: at},
			{Key: "status", Value: string(tenant.StatusInactive)},
			{Key: "updated_at", Value: at},
		}}},
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DomainTaken(ctx context.Context, domain string, exclude uuid.UUID) (bool, error) {
	filter := bson.D{
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "primary_domain", Value: domain}},
			bson.D{{Key: "custom_domains", Value: domain}},
		}},
		notDeleted,
	}
	if exclude != uuid.Nil {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: exclude.String()}}})
	}

	n, err := s.tenants().CountDocuments(ctx, filter)
	if err != nil {
		return false, errors.Join(ErrStoreFailure, err)
	}
	return n > 0, nil
}

func (s *MongoStore) Counts(ctx context.Context, tenantID uuid.UUID) (Counts, error) {
	filter := bson.D{{Key: "tenant_id", Value: tenantID.String()}}

	users, err := s.db.Collection(usersCollection).CountDocuments(ctx, filter)
	if err != nil {
		return Counts{}, errors.Join(ErrStoreFailure, err)
	}
	vehicles, err := s.db.Collection(vehiclesCollection).CountDocuments(ctx, filter)
	if err != nil {
		return Counts{}, errors.Join(ErrStoreFailure, err)
	}
	return Counts{Users: users, Vehicles: vehicles}, nil
}

type settingsDoc struct {
	TenantID     string    `bson:"_id"`
	Currency     string    `bson:"currency"`
	Timezone     string    `bson:"timezone"`
	Locale       string    `bson:"locale"`
	ContactEmail string    `bson:"contact_email"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (s *MongoStore) SaveSettings(ctx context.Context, st *Settings) error {
	doc := settingsDoc{
		TenantID:     st.TenantID.String(),
		Currency:     st.Currency,
		Timezone:     st.Timezone,
		Locale:       st.Locale,
		ContactEmail: st.ContactEmail,
		UpdatedAt:    st.UpdatedAt,
	}
	_, err := s.db.Collection(settingsCollection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.TenantID}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) GetSettings(ctx context.Context, tenantID uuid.UUID) (*Settings, error) {
	var doc settingsDoc
	err := s.db.Collection(settingsCollection).FindOne(ctx, bson.D{{Key: "_id", Value: tenantID.String()}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	id, err := uuid.Parse(doc.TenantID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &Settings{
		TenantID:     id,
		Currency:     doc.Currency,
		Timezone:     doc.Timezone,
		Locale:       doc.Locale,
		ContactEmail: doc.ContactEmail,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
