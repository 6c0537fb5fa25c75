package repository

import (
	"context"
	"errors"
	"fmt"

	"billing-cache-api/internal/model"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// namespaceExists is the server error code for "collection already exists".
const namespaceExists = 48

// EnsureView creates a view unless one with that name already exists.
// Safe to call any number of times.
func (s *MongoStore) EnsureView(ctx context.Context, name, viewOn string, pipeline mongo.Pipeline) error {
	names, err := s.db.ListCollectionNames(ctx, bson.D{
		{Key: "type", Value: "view"},
		{Key: "name", Value: name},
	})
	if err != nil {
		return wrapErr("list views", err)
	}
	if len(names) > 0 {
		return nil
	}

	err = s.db.CreateView(ctx, name, viewOn, pipeline)
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == namespaceExists {
		return nil
	}
	if err != nil {
		return wrapErr(fmt.Sprintf("create view %s", name), err)
	}

	log.Printf("[MongoDB] Created view %s on %s", name, viewOn)
	return nil
}

// InvoicesByDate returns invoices ordered by date through the view.
func (s *MongoStore) InvoicesByDate(ctx context.Context) ([]model.Invoice, error) {
	if err := s.EnsureView(ctx, InvoicesByDateView, InvoicesCollection, invoicesByDateViewPipeline()); err != nil {
		return nil, err
	}
	return findAll[model.Invoice](ctx, s.db.Collection(InvoicesByDateView), bson.D{}, nil, "read "+InvoicesByDateView)
}

// UninvoicedProducts returns products never billed through the view.
func (s *MongoStore) UninvoicedProducts(ctx context.Context) ([]model.Product, error) {
	if err := s.EnsureView(ctx, UninvoicedProductsView, ProductsCollection, uninvoicedProductsViewPipeline()); err != nil {
		return nil, err
	}
	return findAll[model.Product](ctx, s.db.Collection(UninvoicedProductsView), bson.D{}, nil, "read "+UninvoicedProductsView)
}
