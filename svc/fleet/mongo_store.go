package fleet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/rentora/rentora/pkg/scoped"
)

const (
	vehiclesCollection = "vehicles"
	bookingsCollection = "bookings"
)

// MongoStore persists fleet data in MongoDB. Every access goes through a
// tenant-scoped collection handle, so a forgotten filter cannot leak across
// tenants.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// EnsureIndexes creates the lookup indexes for fleet queries. Call once at
// startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(vehiclesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}},
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	_, err = s.db.Collection(bookingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "vehicle_id", Value: 1}, {Key: "start_date", Value: 1}},
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) vehicles(tenantID uuid.UUID) (*scoped.Collection, error) {
	return scoped.For(s.db.Collection(vehiclesCollection), tenantID)
}

func (s *MongoStore) bookings(tenantID uuid.UUID) (*scoped.Collection, error) {
	return scoped.For(s.db.Collection(bookingsCollection), tenantID)
}

type vehicleDoc struct {
	ID          string    `bson:"_id"`
	TenantID    string    `bson:"tenant_id"`
	Brand       string    `bson:"brand"`
	Model       string    `bson:"model"`
	Year        int       `bson:"year"`
	Plate       string    `bson:"plate"`
	Seats       int       `bson:"seats"`
	PricePerDay int64     `bson:"price_per_day"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toVehicleDoc(v *Vehicle) vehicleDoc {
	return vehicleDoc{
		ID:          v.ID.String(),
		TenantID:    v.TenantID.String(),
		Brand:       v.Brand,
		Model:       v.Model,
		Year:        v.Year,
		Plate:       v.Plate,
		Seats:       v.Seats,
		PricePerDay: v.PricePerDay,
		Status:      string(v.Status),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func (d vehicleDoc) toVehicle() (*Vehicle, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	tenantID, err := uuid.Parse(d.TenantID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &Vehicle{
		ID:          id,
		TenantID:    tenantID,
		Brand:       d.Brand,
		Model:       d.Model,
		Year:        d.Year,
		Plate:       d.Plate,
		Seats:       d.Seats,
		PricePerDay: d.PricePerDay,
		Status:      VehicleStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

func (s *MongoStore) CreateVehicle(ctx context.Context, v *Vehicle) error {
	coll, err := s.vehicles(v.TenantID)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if _, err := coll.InsertOne(ctx, toVehicleDoc(v)); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) GetVehicle(ctx context.Context, tenantID, id uuid.UUID) (*Vehicle, error) {
	coll, err := s.vehicles(tenantID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	res, err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var doc vehicleDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVehicleNotFound
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return doc.toVehicle()
}

func (s *MongoStore) ListVehicles(ctx context.Context, tenantID uuid.UUID) ([]Vehicle, error) {
	coll, err := s.vehicles(tenantID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer cur.Close(ctx)

	var out []Vehicle
	for cur.Next(ctx) {
		var doc vehicleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		v, err := doc.toVehicle()
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return out, nil
}

func (s *MongoStore) UpdateVehicle(ctx context.Context, v *Vehicle) error {
	coll, err := s.vehicles(v.TenantID)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	res, err := coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: v.ID.String()}}, toVehicleDoc(v))
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

func (s *MongoStore) DeleteVehicle(ctx context.Context, tenantID, id uuid.UUID) error {
	coll, err := s.vehicles(tenantID)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.DeletedCount == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

func (s *MongoStore) CountVehicles(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	coll, err := s.vehicles(tenantID)
	if err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}

	n, err := coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, errors.Join(ErrStoreFailure, err)
	}
	return n, nil
}

type bookingDoc struct {
	ID         string    `bson:"_id"`
	TenantID   string    `bson:"tenant_id"`
	VehicleID  string    `bson:"vehicle_id"`
	CustomerID string    `bson:"customer_id"`
	StartDate  time.Time `bson:"start_date"`
	EndDate    time.Time `bson:"end_date"`
	TotalPrice int64     `bson:"total_price"`
	Status     string    `bson:"status"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func toBookingDoc(b *Booking) bookingDoc {
	return bookingDoc{
		ID:         b.ID.String(),
		TenantID:   b.TenantID.String(),
		VehicleID:  b.VehicleID.String(),
		CustomerID: b.CustomerID.String(),
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (d bookingDoc) toBooking() (*Booking, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	tenantID, err := uuid.Parse(d.TenantID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	vehicleID, err := uuid.Parse(d.VehicleID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	customerID, err := uuid.Parse(d.CustomerID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &Booking{
		ID:         id,
		TenantID:   tenantID,
		VehicleID:  vehicleID,
		CustomerID: customerID,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		TotalPrice: d.TotalPrice,
		Status:     BookingStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

func (s *MongoStore) CreateBooking(ctx context.Context, b *Booking) error {
	coll, err := s.bookings(b.TenantID)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if _, err := coll.InsertOne(ctx, toBookingDoc(b)); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *MongoStore) GetBooking(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error) {
	coll, err := s.bookings(tenantID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	res, err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var doc bookingDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return doc.toBooking()
}

func (s *MongoStore) ListBookings(ctx context.Context, tenantID uuid.UUID) ([]Booking, error) {
	coll, err := s.bookings(tenantID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	defer cur.Close(ctx)

	var out []Booking
	for cur.Next(ctx) {
		var doc bookingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Join(ErrStoreFailure, err)
		}
		b, err := doc.toBooking()
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return out, nil
}

func (s *MongoStore) UpdateBooking(ctx context.Context, b *Booking) error {
	coll, err := s.bookings(b.TenantID)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}

	res, err := coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: b.ID.String()}}, toBookingDoc(b))
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (s *MongoStore) HasBlockingBooking(ctx context.Context, tenantID, vehicleID uuid.UUID, start, end time.Time) (bool, error) {
	coll, err := s.bookings(tenantID)
	if err != nil {
		return false, errors.Join(ErrStoreFailure, err)
	}

	n, err := coll.CountDocuments(ctx, bson.D{
		{Key: "vehicle_id", Value: vehicleID.String()},
		{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{
			string(BookingPending), string(BookingConfirmed),
		}}}},
		{Key: "start_date", Value: bson.D{{Key: "$lt", Value: end}}},
		{Key: "end_date", Value: bson.D{{Key: "$gt", Value: start}}},
	})
	if err != nil {
		return false, errors.Join(ErrStoreFailure, err)
	}
	return n > 0, nil
}
