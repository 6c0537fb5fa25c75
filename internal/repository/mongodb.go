package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"billing-cache-api/internal/model"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection and view names.
const (
	ClientsCollection  = "clientes"
	ProductsCollection = "productos"
	InvoicesCollection = "facturas"

	InvoicesByDateView     = "facturas_ordenadas_por_fecha"
	UninvoicedProductsView = "productos_no_facturados"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// MongoStore implements Store using MongoDB.
type MongoStore struct {
	client   *mongo.Client
	db       *mongo.Database
	clients  *mongo.Collection
	products *mongo.Collection
	invoices *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(cfg MongoConfig) (*MongoStore, error) {
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)
	if cfg.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to MongoDB: %w", model.ErrStoreUnavailable, err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: failed to ping MongoDB: %w", model.ErrStoreUnavailable, err)
	}

	log.Printf("[MongoDB] Connected to database %s", cfg.Database)
	return newMongoStore(client, cfg.Database), nil
}

func newMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		db:       db,
		clients:  db.Collection(ClientsCollection),
		products: db.Collection(ProductsCollection),
		invoices: db.Collection(InvoicesCollection),
	}
}

// Ping checks the connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
	return nil
}

// GetStats returns document counts per collection.
func (s *MongoStore) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})
	stats["database"] = s.db.Name()

	for _, coll := range []*mongo.Collection{s.clients, s.products, s.invoices} {
		count, err := coll.EstimatedDocumentCount(ctx)
		if err != nil {
			return stats, wrapErr("count "+coll.Name(), err)
		}
		stats[coll.Name()] = count
	}
	return stats, nil
}

// Close closes the MongoDB connection.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// wrapErr tags connectivity failures with model.ErrStoreUnavailable,
// duplicate keys with model.ErrConflict and maps ErrNoDocuments to
// model.ErrNotFound.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: failed to %s: %w", model.ErrConflict, op, err)
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%w: failed to %s: %w", model.ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// noID hides the generated _id from results.
var noID = bson.D{{Key: "_id", Value: 0}}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions, op string) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, wrapErr(op, err)
	}
	return out, nil
}

func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, op string) ([]T, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, wrapErr(op, err)
	}
	return out, nil
}
