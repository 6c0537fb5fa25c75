package repository

import (
	"context"

	"billing-cache-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InvoicesByClient returns the invoices billed to a client.
func (s *MongoStore) InvoicesByClient(ctx context.Context, clientID int) ([]model.Invoice, error) {
	opts := options.Find().
		SetProjection(noID).
		SetSort(bson.D{{Key: "nro_factura", Value: 1}})
	return findAll[model.Invoice](ctx, s.invoices, bson.M{"nro_cliente": clientID}, opts, "list client invoices")
}
