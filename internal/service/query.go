package service

import (
	"context"
	"errors"
	"fmt"

	"billing-cache-api/internal/model"
	"billing-cache-api/internal/repository"

	log "github.com/sirupsen/logrus"
)

// QueryService answers the predefined queries.
type QueryService struct {
	store repository.Store
	sync  *Synchronizer
}

// NewQueryService creates a new query service.
func NewQueryService(store repository.Store, sync *Synchronizer) *QueryService {
	return &QueryService{store: store, sync: sync}
}

// ClientsWithPhones returns every client with its phones and caches each one.
func (s *QueryService) ClientsWithPhones(ctx context.Context) ([]model.Client, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range clients {
		s.sync.OnClientWritten(ctx, c)
	}
	return clients, nil
}

// FindClientByName resolves a client by exact first and last name, cache first.
// A miss falls back to the primary store and populates the cache; a client
// that does not exist is not cached.
func (s *QueryService) FindClientByName(ctx context.Context, firstName, lastName string) (*model.Client, error) {
	if client := s.cachedByName(ctx, firstName, lastName); client != nil {
		return client, nil
	}

	client, err := s.store.FindClientByName(ctx, firstName, lastName)
	if err != nil {
		return nil, err
	}
	s.sync.OnClientWritten(ctx, *client)
	return client, nil
}

// cachedByName returns the cached client for the name, or nil on any kind
// of miss.
func (s *QueryService) cachedByName(ctx context.Context, firstName, lastName string) *model.Client {
	id, ok, err := s.sync.ResolveName(ctx, firstName, lastName)
	if err != nil {
		log.WithField("name", firstName+" "+lastName).Warnf("[QueryService] Name lookup failed, using primary store: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	client, err := s.sync.CachedClient(ctx, id)
	if err != nil {
		log.WithField("client_id", id).Warnf("[QueryService] Client lookup failed, using primary store: %v", err)
		return nil
	}
	// A missing record, or one under another name when legacy keys
	// collide, is repaired from the primary store.
	if client == nil || client.FirstName != firstName || client.LastName != lastName {
		return nil
	}

	log.WithField("client_id", id).Debug("[QueryService] Cache hit")
	return client
}

// PhonesWithClient lists each phone with its owner's data.
func (s *QueryService) PhonesWithClient(ctx context.Context) ([]model.PhoneWithClient, error) {
	return s.store.PhonesWithClient(ctx)
}

// ClientsWithInvoices lists clients with at least one invoice.
func (s *QueryService) ClientsWithInvoices(ctx context.Context) ([]model.ClientSummary, error) {
	return s.store.ClientsWithInvoices(ctx)
}

// ClientsWithoutInvoices lists clients with no invoice.
func (s *QueryService) ClientsWithoutInvoices(ctx context.Context) ([]model.ClientSummary, error) {
	return s.store.ClientsWithoutInvoices(ctx)
}

// ClientInvoiceCounts lists every client with its invoice count.
func (s *QueryService) ClientInvoiceCounts(ctx context.Context) ([]model.ClientInvoiceCount, error) {
	return s.store.ClientInvoiceCounts(ctx)
}

// InvoicesByClientName lists the invoices of the client with that name.
func (s *QueryService) InvoicesByClientName(ctx context.Context, firstName, lastName string) ([]model.Invoice, error) {
	client, err := s.FindClientByName(ctx, firstName, lastName)
	if err != nil {
		return nil, err
	}
	return s.store.InvoicesByClient(ctx, client.ClientID)
}

// InvoicedProducts lists products billed at least once, by code.
func (s *QueryService) InvoicedProducts(ctx context.Context) ([]model.InvoicedProduct, error) {
	return s.store.InvoicedProducts(ctx)
}

// InvoicesByBrand lists invoices with products whose brand contains brand.
func (s *QueryService) InvoicesByBrand(ctx context.Context, brand string) ([]model.Invoice, error) {
	if brand == "" {
		return nil, fmt.Errorf("%w: brand is required", model.ErrValidation)
	}
	return s.store.InvoicesByBrand(ctx, brand)
}

// ClientTotals lists the VAT-inclusive total spent by every client.
func (s *QueryService) ClientTotals(ctx context.Context) ([]model.ClientTotal, error) {
	return s.store.ClientTotals(ctx)
}

// InvoicesByDate reads the invoices-by-date view.
func (s *QueryService) InvoicesByDate(ctx context.Context) ([]model.Invoice, error) {
	return s.store.InvoicesByDate(ctx)
}

// UninvoicedProducts reads the never-invoiced products view.
func (s *QueryService) UninvoicedProducts(ctx context.Context) ([]model.Product, error) {
	return s.store.UninvoicedProducts(ctx)
}

// IsNotFound reports whether err means an empty lookup.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
