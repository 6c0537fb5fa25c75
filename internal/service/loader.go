package service

import (
	"context"
	"fmt"
	"time"

	"billing-cache-api/internal/model"
	"billing-cache-api/internal/repository"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DataSource yields the joined documents of a bulk load.
type DataSource interface {
	Clients() ([]model.Client, error)
	Products() ([]model.Product, error)
	Invoices() ([]model.Invoice, error)
}

// LoadResult summarizes a bulk load.
type LoadResult struct {
	Clients  int           `json:"clients"`
	Products int           `json:"products"`
	Invoices int           `json:"invoices"`
	Duration time.Duration `json:"duration"`
}

// Loader replaces the whole data set from a DataSource.
type Loader struct {
	store   repository.DataRepository
	sync    *Synchronizer
	journal *Journal
}

// NewLoader creates a new loader.
func NewLoader(store repository.DataRepository, sync *Synchronizer, journal *Journal) *Loader {
	return &Loader{store: store, sync: sync, journal: journal}
}

// Load parses every file, clears the cache and the primary store, then
// inserts the three collections concurrently. Parse errors abort before
// anything is cleared.
func (l *Loader) Load(ctx context.Context, src DataSource) (*LoadResult, error) {
	start := time.Now()

	clients, err := src.Clients()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}
	products, err := src.Products()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}
	invoices, err := src.Invoices()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrValidation, err)
	}

	if err := l.sync.OnBulkLoadStarted(ctx); err != nil {
		return nil, err
	}
	if err := l.store.Reset(ctx); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.store.InsertClients(gctx, clients) })
	g.Go(func() error { return l.store.InsertProducts(gctx, products) })
	g.Go(func() error { return l.store.InsertInvoices(gctx, invoices) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := l.store.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	result := &LoadResult{
		Clients:  len(clients),
		Products: len(products),
		Invoices: len(invoices),
		Duration: time.Since(start),
	}
	log.WithFields(log.Fields{
		"clients":  result.Clients,
		"products": result.Products,
		"invoices": result.Invoices,
	}).Infof("[Loader] Data loaded in %v", result.Duration)

	l.journal.Record(ctx, model.AuditDataLoad, "dataset",
		fmt.Sprintf("%d clients, %d products, %d invoices", result.Clients, result.Products, result.Invoices))
	return result, nil
}
