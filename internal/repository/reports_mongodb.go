package repository

import (
	"context"

	"billing-cache-api/internal/model"
)

// PhonesWithClient returns each phone with its owner's data.
func (s *MongoStore) PhonesWithClient(ctx context.Context) ([]model.PhoneWithClient, error) {
	return aggregate[model.PhoneWithClient](ctx, s.clients, phonesWithClientPipeline(), "list phones")
}

// ClientsWithInvoices returns clients with at least one invoice.
func (s *MongoStore) ClientsWithInvoices(ctx context.Context) ([]model.ClientSummary, error) {
	return aggregate[model.ClientSummary](ctx, s.clients, clientsByInvoicePresencePipeline(true), "list clients with invoices")
}

// ClientsWithoutInvoices returns clients with no invoice.
func (s *MongoStore) ClientsWithoutInvoices(ctx context.Context) ([]model.ClientSummary, error) {
	return aggregate[model.ClientSummary](ctx, s.clients, clientsByInvoicePresencePipeline(false), "list clients without invoices")
}

// ClientInvoiceCounts returns every client with its invoice count.
func (s *MongoStore) ClientInvoiceCounts(ctx context.Context) ([]model.ClientInvoiceCount, error) {
	return aggregate[model.ClientInvoiceCount](ctx, s.clients, clientInvoiceCountPipeline(), "count client invoices")
}

// InvoicedProducts returns products billed at least once.
func (s *MongoStore) InvoicedProducts(ctx context.Context) ([]model.InvoicedProduct, error) {
	return aggregate[model.InvoicedProduct](ctx, s.invoices, invoicedProductsPipeline(), "list invoiced products")
}

// InvoicesByBrand returns invoices containing products of a matching brand.
func (s *MongoStore) InvoicesByBrand(ctx context.Context, brand string) ([]model.Invoice, error) {
	return aggregate[model.Invoice](ctx, s.invoices, invoicesByBrandPipeline(brand), "list invoices by brand")
}

// ClientTotals returns the VAT-inclusive total spent by each client.
func (s *MongoStore) ClientTotals(ctx context.Context) ([]model.ClientTotal, error) {
	return aggregate[model.ClientTotal](ctx, s.clients, clientTotalsPipeline(), "sum client totals")
}
