package repository

import (
	"context"

	"billing-cache-api/internal/model"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Reset drops the views and the three collections.
func (s *MongoStore) Reset(ctx context.Context) error {
	for _, name := range []string{
		InvoicesByDateView,
		UninvoicedProductsView,
		ClientsCollection,
		ProductsCollection,
		InvoicesCollection,
	} {
		if err := s.db.Collection(name).Drop(ctx); err != nil {
			return wrapErr("drop "+name, err)
		}
	}
	log.Printf("[MongoDB] Dropped collections and views of %s", s.db.Name())
	return nil
}

// InsertClients bulk inserts clients.
func (s *MongoStore) InsertClients(ctx context.Context, clients []model.Client) error {
	return insertMany(ctx, s.clients, clients)
}

// InsertProducts bulk inserts products.
func (s *MongoStore) InsertProducts(ctx context.Context, products []model.Product) error {
	return insertMany(ctx, s.products, products)
}

// InsertInvoices bulk inserts invoices.
func (s *MongoStore) InsertInvoices(ctx context.Context, invoices []model.Invoice) error {
	return insertMany(ctx, s.invoices, invoices)
}

func insertMany[T any](ctx context.Context, coll *mongo.Collection, items []T) error {
	if len(items) == 0 {
		return nil
	}

	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}

	result, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return wrapErr("insert into "+coll.Name(), err)
	}

	log.Printf("[MongoDB] Inserted %d documents into %s", len(result.InsertedIDs), coll.Name())
	return nil
}

// EnsureIndexes creates the unique business keys and the join indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.clients, mongo.IndexModel{
			Keys:    bson.D{{Key: "nro_cliente", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{s.clients, mongo.IndexModel{
			Keys: bson.D{{Key: "nombre", Value: 1}, {Key: "apellido", Value: 1}},
		}},
		{s.products, mongo.IndexModel{
			Keys:    bson.D{{Key: "codigo_producto", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{s.invoices, mongo.IndexModel{
			Keys:    bson.D{{Key: "nro_factura", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{s.invoices, mongo.IndexModel{
			Keys: bson.D{{Key: "nro_cliente", Value: 1}},
		}},
		{s.invoices, mongo.IndexModel{
			Keys: bson.D{{Key: "detalles.codigo_producto", Value: 1}},
		}},
	}

	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return wrapErr("create index on "+idx.coll.Name(), err)
		}
	}
	return nil
}
