package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"billing-cache-api/internal/cache"
	"billing-cache-api/internal/model"
)

// fakeStore is an in-memory repository.Store.
type fakeStore struct {
	mu       sync.Mutex
	clients  map[int]model.Client
	products map[int]model.Product
	invoices []model.Invoice

	findByNameCalls int
	resets          int
	insertErr       error
}

func newFakeStore(clients ...model.Client) *fakeStore {
	s := &fakeStore{clients: map[int]model.Client{}, products: map[int]model.Product{}}
	for _, c := range clients {
		s.clients[c.ClientID] = c
	}
	return s
}

func (s *fakeStore) sortedClients() []model.Client {
	out := make([]model.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

func (s *fakeStore) ListClients(ctx context.Context) ([]model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedClients(), nil
}

func (s *fakeStore) ListClientsByName(ctx context.Context) ([]model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sortedClients()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (s *fakeStore) FindClientByID(ctx context.Context, clientID int) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &c, nil
}

func (s *fakeStore) FindClientByName(ctx context.Context, firstName, lastName string) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findByNameCalls++
	for _, c := range s.sortedClients() {
		if c.FirstName == firstName && c.LastName == lastName {
			return &c, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *fakeStore) MaxClientID(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := 0
	for id := range s.clients {
		if id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}

func (s *fakeStore) InsertClient(ctx context.Context, client model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client.ClientID]; ok {
		return errors.New("duplicate key")
	}
	s.clients[client.ClientID] = client
	return nil
}

func (s *fakeStore) UpdateClient(ctx context.Context, clientID int, in model.ClientInput) (*model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return nil, model.ErrNotFound
	}
	c.FirstName, c.LastName, c.Address, c.Active = in.FirstName, in.LastName, in.Address, in.Active
	s.clients[clientID] = c
	return &c, nil
}

func (s *fakeStore) DeleteClient(ctx context.Context, clientID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return model.ErrNotFound
	}
	delete(s.clients, clientID)
	return nil
}

func (s *fakeStore) ListProductsByName(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductCode < out[j].ProductCode })
	return out, nil
}

func (s *fakeStore) FindProductByCode(ctx context.Context, code int) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[code]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &p, nil
}

func (s *fakeStore) CountProducts(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products), nil
}

func (s *fakeStore) InsertProduct(ctx context.Context, product model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ProductCode] = product
	return nil
}

func (s *fakeStore) UpdateProduct(ctx context.Context, code int, in model.ProductInput) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[code]
	if !ok {
		return nil, model.ErrNotFound
	}
	p.Brand, p.Name, p.Description, p.UnitPrice, p.Stock = in.Brand, in.Name, in.Description, in.UnitPrice, in.Stock
	s.products[code] = p
	return &p, nil
}

func (s *fakeStore) InvoicesByClient(ctx context.Context, clientID int) ([]model.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Invoice{}
	for _, inv := range s.invoices {
		if inv.ClientID == clientID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *fakeStore) PhonesWithClient(ctx context.Context) ([]model.PhoneWithClient, error) {
	return nil, nil
}

func (s *fakeStore) ClientsWithInvoices(ctx context.Context) ([]model.ClientSummary, error) {
	return nil, nil
}

func (s *fakeStore) ClientsWithoutInvoices(ctx context.Context) ([]model.ClientSummary, error) {
	return nil, nil
}

func (s *fakeStore) ClientInvoiceCounts(ctx context.Context) ([]model.ClientInvoiceCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ClientInvoiceCount
	for _, c := range s.sortedClients() {
		n := 0
		for _, inv := range s.invoices {
			if inv.ClientID == c.ClientID {
				n++
			}
		}
		out = append(out, model.ClientInvoiceCount{ClientID: c.ClientID, FirstName: c.FirstName, LastName: c.LastName, InvoiceCount: n})
	}
	return out, nil
}

func (s *fakeStore) InvoicedProducts(ctx context.Context) ([]model.InvoicedProduct, error) {
	return nil, nil
}

func (s *fakeStore) InvoicesByBrand(ctx context.Context, brand string) ([]model.Invoice, error) {
	return []model.Invoice{}, nil
}

func (s *fakeStore) ClientTotals(ctx context.Context) ([]model.ClientTotal, error) {
	return nil, nil
}

func (s *fakeStore) InvoicesByDate(ctx context.Context) ([]model.Invoice, error) {
	return nil, nil
}

func (s *fakeStore) UninvoicedProducts(ctx context.Context) ([]model.Product, error) {
	return nil, nil
}

func (s *fakeStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
	s.clients = map[int]model.Client{}
	s.products = map[int]model.Product{}
	s.invoices = nil
	return nil
}

func (s *fakeStore) InsertClients(ctx context.Context, clients []model.Client) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range clients {
		s.clients[c.ClientID] = c
	}
	return nil
}

func (s *fakeStore) InsertProducts(ctx context.Context, products []model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		s.products[p.ProductCode] = p
	}
	return nil
}

func (s *fakeStore) InsertInvoices(ctx context.Context, invoices []model.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, invoices...)
	return nil
}

func (s *fakeStore) EnsureIndexes(ctx context.Context) error { return nil }

func (s *fakeStore) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return map[string]interface{}{"clientes": len(s.clients)}, nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }
func (s *fakeStore) Close() error                   { return nil }

// failingCache fails every write and delete.
type failingCache struct {
	*cache.MemoryCache
}

var errCacheDown = errors.New("cache down")

func (failingCache) Set(ctx context.Context, key string, value []byte) error { return errCacheDown }
func (failingCache) Delete(ctx context.Context, keys ...string) error        { return errCacheDown }
func (failingCache) Clear(ctx context.Context) error                         { return errCacheDown }

// auditLog records journal entries in memory.
type auditLog struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

func (a *auditLog) Record(ctx context.Context, entry model.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *auditLog) List(ctx context.Context, limit, offset int) ([]model.AuditEntry, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.entries, int64(len(a.entries)), nil
}

func (a *auditLog) Prune(ctx context.Context, before time.Time) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.entries[:0]
	var n int64
	for _, e := range a.entries {
		if e.At.Before(before) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	a.entries = kept
	return n, nil
}

func (a *auditLog) Close() error { return nil }

func (a *auditLog) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

// staticSource is a DataSource over fixed slices.
type staticSource struct {
	clients  []model.Client
	products []model.Product
	invoices []model.Invoice
	err      error
}

func (s staticSource) Clients() ([]model.Client, error)   { return s.clients, s.err }
func (s staticSource) Products() ([]model.Product, error) { return s.products, nil }
func (s staticSource) Invoices() ([]model.Invoice, error) { return s.invoices, nil }
