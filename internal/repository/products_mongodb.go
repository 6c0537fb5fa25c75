package repository

import (
	"context"

	"billing-cache-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListProductsByName returns every product ordered by brand and name.
func (s *MongoStore) ListProductsByName(ctx context.Context) ([]model.Product, error) {
	opts := options.Find().
		SetProjection(noID).
		SetSort(bson.D{{Key: "marca", Value: 1}, {Key: "nombre", Value: 1}, {Key: "codigo_producto", Value: 1}})
	return findAll[model.Product](ctx, s.products, bson.D{}, opts, "list products")
}

// FindProductByCode returns the product with the given code.
func (s *MongoStore) FindProductByCode(ctx context.Context, code int) (*model.Product, error) {
	var product model.Product
	err := s.products.FindOne(ctx, bson.M{"codigo_producto": code}, options.FindOne().SetProjection(noID)).Decode(&product)
	if err != nil {
		return nil, wrapErr("find product", err)
	}
	return &product, nil
}

// CountProducts returns the number of products.
func (s *MongoStore) CountProducts(ctx context.Context) (int, error) {
	n, err := s.products.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, wrapErr("count products", err)
	}
	return int(n), nil
}

// InsertProduct stores a new product.
func (s *MongoStore) InsertProduct(ctx context.Context, product model.Product) error {
	if _, err := s.products.InsertOne(ctx, product); err != nil {
		return wrapErr("insert product", err)
	}
	return nil
}

// UpdateProduct sets the editable fields and returns the updated document.
func (s *MongoStore) UpdateProduct(ctx context.Context, code int, in model.ProductInput) (*model.Product, error) {
	update := bson.M{
		"$set": bson.M{
			"marca":       in.Brand,
			"nombre":      in.Name,
			"descripcion": in.Description,
			"precio":      in.UnitPrice,
			"stock":       in.Stock,
		},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(noID)

	var product model.Product
	err := s.products.FindOneAndUpdate(ctx, bson.M{"codigo_producto": code}, update, opts).Decode(&product)
	if err != nil {
		return nil, wrapErr("update product", err)
	}
	return &product, nil
}
