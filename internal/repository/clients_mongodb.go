package repository

import (
	"context"
	"errors"

	"billing-cache-api/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListClients returns every client ordered by client id.
func (s *MongoStore) ListClients(ctx context.Context) ([]model.Client, error) {
	opts := options.Find().
		SetProjection(noID).
		SetSort(bson.D{{Key: "nro_cliente", Value: 1}})
	return findAll[model.Client](ctx, s.clients, bson.D{}, opts, "list clients")
}

// ListClientsByName returns every client ordered by last and first name.
func (s *MongoStore) ListClientsByName(ctx context.Context) ([]model.Client, error) {
	opts := options.Find().
		SetProjection(noID).
		SetSort(bson.D{{Key: "apellido", Value: 1}, {Key: "nombre", Value: 1}, {Key: "nro_cliente", Value: 1}})
	return findAll[model.Client](ctx, s.clients, bson.D{}, opts, "list clients by name")
}

// FindClientByID returns the client with the given number.
func (s *MongoStore) FindClientByID(ctx context.Context, clientID int) (*model.Client, error) {
	var client model.Client
	err := s.clients.FindOne(ctx, bson.M{"nro_cliente": clientID}, options.FindOne().SetProjection(noID)).Decode(&client)
	if err != nil {
		return nil, wrapErr("find client", err)
	}
	return &client, nil
}

// FindClientByName returns the client with exactly that first and last name.
func (s *MongoStore) FindClientByName(ctx context.Context, firstName, lastName string) (*model.Client, error) {
	filter := bson.M{"nombre": firstName, "apellido": lastName}
	opts := options.FindOne().
		SetProjection(noID).
		SetSort(bson.D{{Key: "nro_cliente", Value: 1}})

	var client model.Client
	if err := s.clients.FindOne(ctx, filter, opts).Decode(&client); err != nil {
		return nil, wrapErr("find client by name", err)
	}
	return &client, nil
}

// MaxClientID returns the highest client number, 0 when the collection is empty.
func (s *MongoStore) MaxClientID(ctx context.Context) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "nro_cliente", Value: -1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}, {Key: "nro_cliente", Value: 1}})

	var doc struct {
		ClientID int `bson:"nro_cliente"`
	}
	err := s.clients.FindOne(ctx, bson.D{}, opts).Decode(&doc)
	if err != nil {
		err = wrapErr("find max client id", err)
		if errors.Is(err, model.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return doc.ClientID, nil
}

// InsertClient stores a new client.
func (s *MongoStore) InsertClient(ctx context.Context, client model.Client) error {
	if _, err := s.clients.InsertOne(ctx, client); err != nil {
		return wrapErr("insert client", err)
	}
	return nil
}

// UpdateClient sets the editable fields and returns the updated document.
func (s *MongoStore) UpdateClient(ctx context.Context, clientID int, in model.ClientInput) (*model.Client, error) {
	update := bson.M{
		"$set": bson.M{
			"nombre":    in.FirstName,
			"apellido":  in.LastName,
			"direccion": in.Address,
			"activo":    in.Active,
		},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(noID)

	var client model.Client
	err := s.clients.FindOneAndUpdate(ctx, bson.M{"nro_cliente": clientID}, update, opts).Decode(&client)
	if err != nil {
		return nil, wrapErr("update client", err)
	}
	return &client, nil
}

// DeleteClient removes a client.
func (s *MongoStore) DeleteClient(ctx context.Context, clientID int) error {
	result, err := s.clients.DeleteOne(ctx, bson.M{"nro_cliente": clientID})
	if err != nil {
		return wrapErr("delete client", err)
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}
