package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"billing-cache-api/internal/model"
)

// Params carries the inputs a query may need.
type Params struct {
	FirstName string `json:"first,omitempty"`
	LastName  string `json:"last,omitempty"`
	Brand     string `json:"brand,omitempty"`
}

// Query inputs.
const (
	ParamName  = "name"
	ParamBrand = "brand"
)

// Query is one entry of the predefined query catalogue.
type Query struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Input       string `json:"input,omitempty"`
	Mutating    bool   `json:"mutating,omitempty"`

	run func(ctx context.Context, p Params) (interface{}, error)
}

// Run executes the query. Inputs are trimmed before they are checked and used.
func (q *Query) Run(ctx context.Context, p Params) (interface{}, error) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Brand = strings.TrimSpace(p.Brand)

	switch q.Input {
	case ParamName:
		if p.FirstName == "" || p.LastName == "" {
			return nil, fmt.Errorf("%w: first and last name are required", model.ErrValidation)
		}
	case ParamBrand:
		if p.Brand == "" {
			return nil, fmt.Errorf("%w: brand is required", model.ErrValidation)
		}
	}
	return q.run(ctx, p)
}

// Catalog is the numbered dispatch table of queries.
type Catalog struct {
	queries []*Query
}

// NewCatalog builds the catalogue. src feeds query 0.
func NewCatalog(qs *QueryService, loader *Loader, src DataSource) *Catalog {
	list := func(f func(context.Context) (interface{}, error)) func(context.Context, Params) (interface{}, error) {
		return func(ctx context.Context, _ Params) (interface{}, error) { return f(ctx) }
	}

	return &Catalog{queries: []*Query{
		{Number: 0, Name: "load-data", Description: "Load the data set into the database and clear the cache", Mutating: true,
			run: list(func(ctx context.Context) (interface{}, error) { return loader.Load(ctx, src) })},
		{Number: 1, Name: "clients-with-phones", Description: "Clients with their phone numbers",
			run: list(func(ctx context.Context) (interface{}, error) { return qs.ClientsWithPhones(ctx) })},
		{Number: 2, Name: "client-by-name", Description: "Client data by first and last name", Input: ParamName,
			run: func(ctx context.Context, p Params) (interface{}, error) {
				return qs.FindClientByName(ctx, p.FirstName, p.LastName)
			}},
		{Number: 3, Name: "phones-with-client", Description: "Phone numbers with their owner's data",
			run: list(func(ctx context.Context) (interface{}, error) { return qs.PhonesWithClient(ctx) })},
		{Number: 4, Name: "clients-with-invoices", Description: "Clients with at least one invoice",
			run: list(func(ctx context.Context) (interface{}, error) { return qs.ClientsWithInvoices(ctx) })},
		{Number: 5, Name: "clients-without-invoices", Description: "Clients without invoices",
			run: list(func(ctx context.Context) (interface{}, error) { return qs.ClientsWithoutInvoices(ctx) })},
		{Number: 6, Name: "clients-invoice-count", Description: "Clients with their number of invoices",
			run: list(func(ctx context.Context) (interface{}, error) { return qs.ClientInvoiceCounts(ctx) })},
		{Number: 7, Name: "invoices-by-client-name", Description: "Invoices of a client by first and last name", Input: ParamName,
			run: func(ctx context.Context, p Params) (interface{}, error) {
				return qs.InvoicesByClientName(ctx, p.FirstName, p.LastName)
			}},
		{Number: 8, Name: "products-with-invoices", Description: "Products invoiced at least once",
			run: list(func(ctx context.Context) (interface{}, error) { return qs.InvoicedProducts(ctx) })},
		{Number: 9, Name: "invoices-by-brand", Description: "Invoices containing products of a brand", Input: ParamBrand,
			run: func(ctx context.Context, p Params) (interface{}, error) {
				return qs.InvoicesByBrand(ctx, p.Brand)
			}},
		{Number: 10, Name: "client-totals", Description: "Total spent by each client, VAT included",
			run: list(func(ctx context.Context) (interface{}, error) { return qs.ClientTotals(ctx) })},
		{Number: 11, Name: "invoices-by-date-view", Description: "Invoices ordered by date (view)",
			run: list(func(ctx context.Context) (interface{}, error) { return qs.InvoicesByDate(ctx) })},
		{Number: 12, Name: "uninvoiced-products-view", Description: "Products never invoiced (view)",
			run: list(func(ctx context.Context) (interface{}, error) { return qs.UninvoicedProducts(ctx) })},
	}}
}

// All returns the queries ordered by number.
func (c *Catalog) All() []*Query {
	return c.queries
}

// Lookup finds a query by name or number.
func (c *Catalog) Lookup(key string) (*Query, error) {
	key = strings.TrimSpace(key)
	if n, err := strconv.Atoi(key); err == nil {
		if n >= 0 && n < len(c.queries) {
			return c.queries[n], nil
		}
	} else {
		for _, q := range c.queries {
			if q.Name == key {
				return q, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: unknown query %q", model.ErrNotFound, key)
}
