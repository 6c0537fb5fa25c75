package service

import (
	"context"
	"testing"

	"billing-cache-api/internal/cache"
	"billing-cache-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ClientFlowSuite struct {
	suite.Suite
	ctx     context.Context
	store   *fakeStore
	cache   *cache.MemoryCache
	audit   *auditLog
	keys    cache.KeySchema
	clients *ClientService
	queries *QueryService
}

func (s *ClientFlowSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newFakeStore()
	s.cache = cache.NewMemoryCache()
	s.audit = &auditLog{}
	journal := NewJournal(s.audit)
	sync := NewSynchronizer(s.cache, s.keys, journal)
	s.clients = NewClientService(s.store, sync, journal)
	s.queries = NewQueryService(s.store, sync)
}

func (s *ClientFlowSuite) cachedID(first, last string) (int, bool) {
	data, err := s.cache.Get(s.ctx, s.keys.ClientNameKey(first, last))
	if err != nil {
		return 0, false
	}
	id, err := cache.DecodeID(data)
	s.Require().NoError(err)
	return id, true
}

func (s *ClientFlowSuite) hasKey(key string) bool {
	ok, err := s.cache.Exists(s.ctx, key)
	s.Require().NoError(err)
	return ok
}

func (s *ClientFlowSuite) seed(clients ...model.Client) {
	for _, c := range clients {
		s.Require().NoError(s.store.InsertClient(s.ctx, c))
	}
}

func (s *ClientFlowSuite) TestCreateNumbersAfterMaxAndCachesBothKeys() {
	s.seed(model.Client{ClientID: 3, FirstName: "Jacob", LastName: "Cooper"},
		model.Client{ClientID: 9, FirstName: "Mia", LastName: "Lopez"})

	created, err := s.clients.Create(s.ctx, model.ClientInput{FirstName: "Ana", LastName: "Ruiz", Address: "Calle 1", Active: true})
	s.Require().NoError(err)
	s.Equal(10, created.ClientID)

	id, ok := s.cachedID("Ana", "Ruiz")
	s.True(ok)
	s.Equal(10, id)

	cached, err := s.clients.sync.CachedClient(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().NotNil(cached)
	s.Equal("Calle 1", cached.Address)
	s.Contains(s.audit.actions(), model.AuditClientCreate)
}

func (s *ClientFlowSuite) TestCreateFirstClientGetsOne() {
	created, err := s.clients.Create(s.ctx, model.ClientInput{FirstName: "Ana", LastName: "Ruiz", Address: "Calle 1"})
	s.Require().NoError(err)
	s.Equal(1, created.ClientID)
}

func (s *ClientFlowSuite) TestCreateRejectsInvalidInputBeforeStore() {
	_, err := s.clients.Create(s.ctx, model.ClientInput{FirstName: " ", LastName: "Ruiz", Address: "x"})
	s.ErrorIs(err, model.ErrValidation)
	s.Empty(s.store.clients)
	s.Zero(s.cache.Len())
}

func (s *ClientFlowSuite) TestRenameMovesNameKey() {
	s.seed(model.Client{ClientID: 10, FirstName: "Ana", LastName: "Ruiz", Address: "Calle 1"})
	_, err := s.queries.FindClientByName(s.ctx, "Ana", "Ruiz")
	s.Require().NoError(err)

	updated, err := s.clients.Update(s.ctx, 10, model.ClientInput{FirstName: "Ana", LastName: "Diaz", Address: "Calle 1"})
	s.Require().NoError(err)
	s.Equal("Diaz", updated.LastName)

	_, ok := s.cachedID("Ana", "Ruiz")
	s.False(ok)
	id, ok := s.cachedID("Ana", "Diaz")
	s.True(ok)
	s.Equal(10, id)

	cached, err := s.clients.sync.CachedClient(s.ctx, 10)
	s.Require().NoError(err)
	s.Equal("Diaz", cached.LastName)
}

func (s *ClientFlowSuite) TestRenameOfUncachedClientDropsStaleNameKey() {
	s.seed(model.Client{ClientID: 10, FirstName: "Ana", LastName: "Ruiz", Address: "Calle 1"})
	// Name key survives while the record was evicted.
	s.Require().NoError(s.cache.Set(s.ctx, s.keys.ClientNameKey("Ana", "Ruiz"), cache.EncodeID(10)))

	_, err := s.clients.Update(s.ctx, 10, model.ClientInput{FirstName: "Ana", LastName: "Diaz", Address: "Calle 1"})
	s.Require().NoError(err)

	_, ok := s.cachedID("Ana", "Ruiz")
	s.False(ok)
}

func (s *ClientFlowSuite) TestCreateWithSharedNameEvictsPreviousOwner() {
	s.seed(model.Client{ClientID: 3, FirstName: "Ana", LastName: "Ruiz", Address: "Calle 1"})
	_, err := s.queries.FindClientByName(s.ctx, "Ana", "Ruiz")
	s.Require().NoError(err)
	s.Require().True(s.hasKey(s.keys.ClientKey(3)))

	created, err := s.clients.Create(s.ctx, model.ClientInput{FirstName: "Ana", LastName: "Ruiz", Address: "Calle 2"})
	s.Require().NoError(err)

	id, ok := s.cachedID("Ana", "Ruiz")
	s.True(ok)
	s.Equal(created.ClientID, id)
	s.False(s.hasKey(s.keys.ClientKey(3)))
	s.True(s.hasKey(s.keys.ClientKey(created.ClientID)))
}

func (s *ClientFlowSuite) TestRenameOntoCachedNameEvictsPreviousOwner() {
	s.seed(model.Client{ClientID: 3, FirstName: "Ana", LastName: "Ruiz", Address: "Calle 1"},
		model.Client{ClientID: 4, FirstName: "Mia", LastName: "Lopez", Address: "Calle 2"})
	_, err := s.queries.FindClientByName(s.ctx, "Ana", "Ruiz")
	s.Require().NoError(err)
	_, err = s.queries.FindClientByName(s.ctx, "Mia", "Lopez")
	s.Require().NoError(err)

	_, err = s.clients.Update(s.ctx, 4, model.ClientInput{FirstName: "Ana", LastName: "Ruiz", Address: "Calle 2"})
	s.Require().NoError(err)

	id, ok := s.cachedID("Ana", "Ruiz")
	s.True(ok)
	s.Equal(4, id)
	s.False(s.hasKey(s.keys.ClientKey(3)))
	_, ok = s.cachedID("Mia", "Lopez")
	s.False(ok)

	client, err := s.queries.FindClientByName(s.ctx, "Ana", "Ruiz")
	s.Require().NoError(err)
	s.Equal(4, client.ClientID)
}

func (s *ClientFlowSuite) TestCreateTrimsNames() {
	created, err := s.clients.Create(s.ctx, model.ClientInput{FirstName: " Ana ", LastName: "Ruiz\t", Address: " Calle 1 "})
	s.Require().NoError(err)
	s.Equal("Ana", created.FirstName)
	s.Equal("Ruiz", created.LastName)
	s.Equal("Calle 1", s.store.clients[created.ClientID].Address)

	id, ok := s.cachedID("Ana", "Ruiz")
	s.True(ok)
	s.Equal(created.ClientID, id)
}

func (s *ClientFlowSuite) TestUpdateUnknownClient() {
	_, err := s.clients.Update(s.ctx, 42, model.ClientInput{FirstName: "A", LastName: "B", Address: "C"})
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *ClientFlowSuite) TestDeleteRemovesBothKeys() {
	s.seed(model.Client{ClientID: 4, FirstName: "Jacob", LastName: "Cooper"})
	_, err := s.queries.FindClientByName(s.ctx, "Jacob", "Cooper")
	s.Require().NoError(err)
	s.Require().NoError(s.cache.Set(s.ctx, s.keys.PhoneKeyPrefix(4)+"0", []byte("legacy")))

	s.Require().NoError(s.clients.Delete(s.ctx, 4))

	s.False(s.hasKey(s.keys.ClientKey(4)))
	s.False(s.hasKey(s.keys.ClientNameKey("Jacob", "Cooper")))
	s.False(s.hasKey(s.keys.PhoneKeyPrefix(4) + "0"))
	s.Zero(s.cache.Len())
}

func (s *ClientFlowSuite) TestDeleteOfUncachedClientUsesStoreName() {
	s.seed(model.Client{ClientID: 4, FirstName: "Jacob", LastName: "Cooper"})
	s.Require().NoError(s.cache.Set(s.ctx, s.keys.ClientNameKey("Jacob", "Cooper"), cache.EncodeID(4)))

	s.Require().NoError(s.clients.Delete(s.ctx, 4))
	s.False(s.hasKey(s.keys.ClientNameKey("Jacob", "Cooper")))
}

func (s *ClientFlowSuite) TestDeleteKeepsNameKeyOwnedByAnotherClient() {
	// ("Ana", "Ruiz") and ("AnaR", "uiz") share a legacy name key.
	s.seed(model.Client{ClientID: 1, FirstName: "Ana", LastName: "Ruiz"},
		model.Client{ClientID: 2, FirstName: "AnaR", LastName: "uiz"})
	_, err := s.queries.FindClientByName(s.ctx, "Ana", "Ruiz")
	s.Require().NoError(err)
	_, err = s.queries.FindClientByName(s.ctx, "AnaR", "uiz")
	s.Require().NoError(err)

	s.Require().NoError(s.clients.Delete(s.ctx, 1))

	id, ok := s.cachedID("AnaR", "uiz")
	s.True(ok)
	s.Equal(2, id)
}

func (s *ClientFlowSuite) TestDeleteUnknownClient() {
	s.ErrorIs(s.clients.Delete(s.ctx, 99), model.ErrNotFound)
}

func TestClientFlowSuite(t *testing.T) {
	suite.Run(t, new(ClientFlowSuite))
}

func TestMutationsSucceedWhenCacheFails(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	audit := &auditLog{}
	journal := NewJournal(audit)
	sync := NewSynchronizer(failingCache{cache.NewMemoryCache()}, cache.KeySchema{}, journal)
	svc := NewClientService(store, sync, journal)

	created, err := svc.Create(ctx, model.ClientInput{FirstName: "Ana", LastName: "Ruiz", Address: "Calle 1"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ClientID)

	_, err = svc.Update(ctx, 1, model.ClientInput{FirstName: "Ana", LastName: "Diaz", Address: "Calle 1"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1))

	_, err = store.FindClientByID(ctx, 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, audit.actions(), model.AuditCacheWarning)
	assert.Contains(t, audit.actions(), model.AuditClientDelete)
}
