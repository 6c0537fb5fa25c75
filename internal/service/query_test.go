package service

import (
	"context"
	"testing"

	"billing-cache-api/internal/cache"
	"billing-cache-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryFixture(clients ...model.Client) (*QueryService, *fakeStore, *cache.MemoryCache) {
	store := newFakeStore(clients...)
	c := cache.NewMemoryCache()
	return NewQueryService(store, NewSynchronizer(c, cache.KeySchema{}, nil)), store, c
}

func TestFindClientByNameServesSecondLookupFromCache(t *testing.T) {
	ctx := context.Background()
	qs, store, _ := newQueryFixture(model.Client{ClientID: 3, FirstName: "Jacob", LastName: "Cooper",
		Phones: []model.Phone{{AreaCode: 11, Number: 5550101, Kind: "M"}}})

	first, err := qs.FindClientByName(ctx, "Jacob", "Cooper")
	require.NoError(t, err)
	second, err := qs.FindClientByName(ctx, "Jacob", "Cooper")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.findByNameCalls)
	assert.Len(t, second.Phones, 1)
}

func TestFindClientByNameMissIsNotCached(t *testing.T) {
	ctx := context.Background()
	qs, store, c := newQueryFixture()

	_, err := qs.FindClientByName(ctx, "Nobody", "Here")
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = qs.FindClientByName(ctx, "Nobody", "Here")
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.Equal(t, 2, store.findByNameCalls)
	assert.Zero(t, c.Len())
}

func TestFindClientByNameRepairsDanglingNameKey(t *testing.T) {
	ctx := context.Background()
	keys := cache.KeySchema{}
	qs, store, c := newQueryFixture(model.Client{ClientID: 3, FirstName: "Jacob", LastName: "Cooper"})
	require.NoError(t, c.Set(ctx, keys.ClientNameKey("Jacob", "Cooper"), cache.EncodeID(3)))

	client, err := qs.FindClientByName(ctx, "Jacob", "Cooper")
	require.NoError(t, err)
	assert.Equal(t, 3, client.ClientID)
	assert.Equal(t, 1, store.findByNameCalls)

	ok, err := c.Exists(ctx, keys.ClientKey(3))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFindClientByNameIgnoresCollidingEntry(t *testing.T) {
	ctx := context.Background()
	qs, store, _ := newQueryFixture(
		model.Client{ClientID: 1, FirstName: "Ana", LastName: "Ruiz"},
		model.Client{ClientID: 2, FirstName: "AnaR", LastName: "uiz"},
	)

	_, err := qs.FindClientByName(ctx, "AnaR", "uiz")
	require.NoError(t, err)
	client, err := qs.FindClientByName(ctx, "Ana", "Ruiz")
	require.NoError(t, err)

	assert.Equal(t, 1, client.ClientID)
	assert.Equal(t, 2, store.findByNameCalls)
}

func TestClientsWithPhonesWarmsCache(t *testing.T) {
	ctx := context.Background()
	qs, store, _ := newQueryFixture(
		model.Client{ClientID: 1, FirstName: "Ana", LastName: "Ruiz"},
		model.Client{ClientID: 2, FirstName: "Jacob", LastName: "Cooper"},
	)

	clients, err := qs.ClientsWithPhones(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 2)

	_, err = qs.FindClientByName(ctx, "Jacob", "Cooper")
	require.NoError(t, err)
	assert.Zero(t, store.findByNameCalls)
}

func TestClientWithoutInvoicesCountsZero(t *testing.T) {
	ctx := context.Background()
	qs, store, _ := newQueryFixture(
		model.Client{ClientID: 6, FirstName: "Ana", LastName: "Ruiz"},
		model.Client{ClientID: 7, FirstName: "Jacob", LastName: "Cooper"},
	)
	store.invoices = []model.Invoice{{InvoiceNumber: 1, ClientID: 6}}

	counts, err := qs.ClientInvoiceCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, 7, counts[1].ClientID)
	assert.Zero(t, counts[1].InvoiceCount)

	invoices, err := qs.InvoicesByClientName(ctx, "Jacob", "Cooper")
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestInvoicesByBrandRequiresBrand(t *testing.T) {
	qs, _, _ := newQueryFixture()
	_, err := qs.InvoicesByBrand(context.Background(), "")
	assert.ErrorIs(t, err, model.ErrValidation)
}
