package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const listCollectionsNS = "db2.$cmd.listCollections"

func TestEnsureView(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing view is left alone", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, listCollectionsNS, mtest.FirstBatch,
			bson.D{{Key: "name", Value: InvoicesByDateView}, {Key: "type", Value: "view"}}))

		store := newMongoStore(mt.Client, "db2")
		// A create command would find no mock response and fail.
		err := store.EnsureView(context.Background(), InvoicesByDateView, InvoicesCollection, invoicesByDateViewPipeline())
		assert.NoError(mt, err)
	})

	mt.Run("missing view is created", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, listCollectionsNS, mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		store := newMongoStore(mt.Client, "db2")
		err := store.EnsureView(context.Background(), UninvoicedProductsView, ProductsCollection, uninvoicedProductsViewPipeline())
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		for started != nil && started.CommandName != "create" {
			started = mt.GetStartedEvent()
		}
		require.NotNil(mt, started)
		assert.Equal(mt, UninvoicedProductsView, started.Command.Lookup("create").StringValue())
		assert.Equal(mt, ProductsCollection, started.Command.Lookup("viewOn").StringValue())
	})

	mt.Run("concurrent creation is tolerated", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, listCollectionsNS, mtest.FirstBatch),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    namespaceExists,
				Name:    "NamespaceExists",
				Message: "view already exists",
			}),
		)

		store := newMongoStore(mt.Client, "db2")
		err := store.EnsureView(context.Background(), InvoicesByDateView, InvoicesCollection, invoicesByDateViewPipeline())
		assert.NoError(mt, err)
	})

	mt.Run("other create errors are returned", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, listCollectionsNS, mtest.FirstBatch),
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    13,
				Name:    "Unauthorized",
				Message: "not authorized",
			}),
		)

		store := newMongoStore(mt.Client, "db2")
		err := store.EnsureView(context.Background(), InvoicesByDateView, InvoicesCollection, invoicesByDateViewPipeline())
		assert.ErrorContains(mt, err, "create view "+InvoicesByDateView)
	})
}

func TestMaxClientID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db2.clientes", mtest.FirstBatch))

		id, err := newMongoStore(mt.Client, "db2").MaxClientID(context.Background())
		require.NoError(mt, err)
		assert.Zero(mt, id)
	})

	mt.Run("highest number", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db2.clientes", mtest.FirstBatch,
			bson.D{{Key: "nro_cliente", Value: 9}}))

		id, err := newMongoStore(mt.Client, "db2").MaxClientID(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, 9, id)
	})
}
