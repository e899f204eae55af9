// Package mongo implements the listing store on MongoDB. Only the read
// operations the search core depends on are exposed; seeding and schema
// administration live outside this service.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"hostelhaven/internal/domain"
)

const connectTimeout = 10 * time.Second

// Config contains connection details for the listing collection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Store reads listings from a MongoDB collection. Construct with New and
// pass it explicitly to the query service and index builder.
type Store struct {
	client *driver.Client
	coll   *driver.Collection
}

// listingDoc is the wire shape of a listing document. The ObjectID stays an
// implementation detail of this package; the rest of the system sees its
// hex form as an opaque string.
type listingDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Listing domain.Listing     `bson:",inline"`
}

func (d listingDoc) toDomain() domain.Listing {
	l := d.Listing
	l.ID = d.ID.Hex()
	return l
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := driver.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", domain.ErrStoreUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping: %v", domain.ErrStoreUnavailable, err)
	}
	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// GetByID returns the listing with the given hex ObjectID. A malformed ID
// is treated the same as a missing listing: the mapping artifact may
// reference listings deleted or rewritten since the last index build.
func (s *Store) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("%w: bad id %q", domain.ErrNotFound, id)
	}
	var doc listingDoc
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, driver.ErrNoDocuments) {
		return domain.Listing{}, fmt.Errorf("%w: id %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Listing{}, fmt.Errorf("%w: find %s: %v", domain.ErrStoreUnavailable, id, err)
	}
	return doc.toDomain(), nil
}

// All returns every listing, in natural store order. Used by the index
// builder only; the online path never scans.
func (s *Store) All(ctx context.Context) ([]domain.Listing, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: scan: %v", domain.ErrStoreUnavailable, err)
	}
	return decodeAll(ctx, cur)
}

// TopRated returns up to limit listings with the highest ratings.
func (s *Store) TopRated(ctx context.Context, limit int) ([]domain.Listing, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "ratings", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: top rated: %v", domain.ErrStoreUnavailable, err)
	}
	return decodeAll(ctx, cur)
}

func decodeAll(ctx context.Context, cur *driver.Cursor) ([]domain.Listing, error) {
	defer cur.Close(ctx)
	var out []domain.Listing
	for cur.Next(ctx) {
		var doc listingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", domain.ErrStoreUnavailable, err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: cursor: %v", domain.ErrStoreUnavailable, err)
	}
	return out, nil
}
