package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// MongoStore persists users in MongoDB. Emails are stored lowercased so the
// unique index enforces case-insensitive uniqueness per tenant.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// EnsureIndexes creates the per-tenant unique email index. Call once at
// startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Name         string    `bson:"name,omitempty"`
	Role         string    `bson:"role"`
	TenantID     *string   `bson:"tenant_id,omitempty"`
	Active       bool      `bson:"active"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toUserDoc(u *User) userDoc {
	doc := userDoc{
		ID:           u.ID.String(),
		Email:        strings.ToLower(u.Email),
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.TenantID != nil {
		id := u.TenantID.String()
		doc.TenantID = &id
	}
	return doc
}

func (d userDoc) toUser() (*User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	u := &User{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Role:         Role(d.Role),
		Active:       d.Active,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.TenantID != nil {
		tid, err := uuid.Parse(*d.TenantID)
		if err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		u.TenantID = &tid
	}
	return u, nil
}

func (s *MongoStore) users() *mongo.Collection {
	return s.db.Collection(usersCollection)
}

func (s *MongoStore) Create(ctx context.Context, u *User) error {
	if _, err := s.users().InsertOne(ctx, toUserDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D) (*User, error) {
	var doc userDoc
	err := s.users().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return doc.toUser()
}

func (s *MongoStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (s *MongoStore) GetTenantUser(ctx context.Context, tenantID uuid.UUID, email string) (*User, error) {
	return s.findOne(ctx, bson.D{
		{Key: "tenant_id", Value: tenantID.String()},
		{Key: "email", Value: strings.ToLower(email)},
		{Key: "role", Value: bson.D{{Key: "$ne", Value: string(RoleSuperAdmin)}}},
	})
}

func (s *MongoStore) GetSuperAdmin(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.D{
		{Key: "email", Value: strings.ToLower(email)},
		{Key: "role", Value: string(RoleSuperAdmin)},
	})
}

func (s *MongoStore) GetLegacyUser(ctx context.Context, email string, roles []Role) (*User, error) {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return s.findOne(ctx, bson.D{
		{Key: "email", Value: strings.ToLower(email)},
		{Key: "role", Value: bson.D{{Key: "$in", Value: names}}},
	})
}

func (s *MongoStore) EmailTaken(ctx context.Context, tenantID *uuid.UUID, email string) (bool, error) {
	filter := bson.D{{Key: "email", Value: strings.ToLower(email)}}
	if tenantID != nil {
		filter = append(filter, bson.E{Key: "tenant_id", Value: tenantID.String()})
	} else {
		filter = append(filter, bson.E{Key: "tenant_id", Value: bson.D{{Key: "$exists", Value: false}}})
	}

	n, err := s.users().CountDocuments(ctx, filter)
	if err != nil {
		return false, errors.Join(ErrStoreFailure, err)
	}
	return n > 0, nil
}
