package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/filter"
	"github.com/IBRAHIMHAMID678/AI-Powered-Vehical-Market-Place/internal/models"
)

// ErrNotFound is returned when a listing id does not resolve to a document.
var ErrNotFound = errors.New("listing not found")

// CarMongo is the MongoDB-backed listing store.
//
// Expected schema (collection "cars"):
//
//	{ _id: ObjectId, title, description, price: int, year: int, make, model, bodyType,
//	  fuelType, transmission, color, exteriorColor, engineDisplacement: "1300 cc",
//	  mileage, location, registrationCity, status, type, user, features: [], createdAt }
type CarMongo struct {
	col *mongo.Collection
}

// NewCarRepository wires the "cars" collection.
func NewCarRepository(db *mongo.Database) *CarMongo {
	return &CarMongo{col: db.Collection("cars")}
}

// Find returns one page of matching listings, newest first.
func (r *CarMongo) Find(ctx context.Context, f filter.Filter, skip, limit int64) ([]models.Car, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, f.Doc(), opts)
	if err != nil {
		return nil, fmt.Errorf("find cars: %w", err)
	}
	defer cur.Close(ctx)

	cars := []models.Car{}
	if err := cur.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("decode cars: %w", err)
	}
	return cars, nil
}

// Count returns the number of listings matching f.
func (r *CarMongo) Count(ctx context.Context, f filter.Filter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, f.Doc())
	if err != nil {
		return 0, fmt.Errorf("count cars: %w", err)
	}
	return n, nil
}

// Sample returns up to size random listings drawn from those matching f.
func (r *CarMongo) Sample(ctx context.Context, f filter.Filter, size int64) ([]models.Car, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: f.Doc()}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample cars: %w", err)
	}
	defer cur.Close(ctx)

	cars := []models.Car{}
	if err := cur.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("decode sample: %w", err)
	}
	return cars, nil
}

// FindByID fetches a listing by its hex ObjectID. Malformed ids are reported as ErrNotFound.
func (r *CarMongo) FindByID(ctx context.Context, id string) (models.Car, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Car{}, ErrNotFound
	}

	var car models.Car
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&car)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Car{}, ErrNotFound
	}
	if err != nil {
		return models.Car{}, fmt.Errorf("find car %s: %w", id, err)
	}
	return car, nil
}

// Insert stores a new listing and returns it with its generated id.
func (r *CarMongo) Insert(ctx context.Context, car models.Car) (models.Car, error) {
	if car.ID.IsZero() {
		car.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, car); err != nil {
		return models.Car{}, fmt.Errorf("insert car: %w", err)
	}
	return car, nil
}

// InsertMany bulk-inserts listings and returns how many were written.
func (r *CarMongo) InsertMany(ctx context.Context, cars []models.Car) (int, error) {
	if len(cars) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(cars))
	for i := range cars {
		if cars[i].ID.IsZero() {
			cars[i].ID = primitive.NewObjectID()
		}
		docs[i] = cars[i]
	}
	res, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("insert cars: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// DeleteAll empties the collection.
func (r *CarMongo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("delete cars: %w", err)
	}
	return res.DeletedCount, nil
}

// Distinct returns the distinct non-empty string values of field across all listings.
func (r *CarMongo) Distinct(ctx context.Context, field string) ([]string, error) {
	vals, err := r.col.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// Each streams every listing to fn in _id order, stopping at the first error.
func (r *CarMongo) Each(ctx context.Context, limit int64, fn func(models.Car) error) error {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return fmt.Errorf("scan cars: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var car models.Car
		if err := cur.Decode(&car); err != nil {
			return fmt.Errorf("decode car: %w", err)
		}
		if err := fn(car); err != nil {
			return err
		}
	}
	return cur.Err()
}

// SetFields applies a $set of the given fields to one listing.
func (r *CarMongo) SetFields(ctx context.Context, id primitive.ObjectID, fields bson.D) error {
	if len(fields) == 0 {
		return nil
	}
	_, err := r.col.UpdateByID(ctx, id, bson.D{{Key: "$set", Value: fields}})
	if err != nil {
		return fmt.Errorf("update car %s: %w", id.Hex(), err)
	}
	return nil
}

// EnsureIndexes creates the single-field indexes used by the listing filters.
func (r *CarMongo) EnsureIndexes(ctx context.Context) error {
	fields := []string{"status", "make", "bodyType", "type", "user", "price", "year"}
	idx := make([]mongo.IndexModel, len(fields))
	for i, f := range fields {
		idx[i] = mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}}
	}
	if _, err := r.col.Indexes().CreateMany(ctx, idx); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}
