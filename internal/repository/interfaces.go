package repository

import (
	"context"
	"time"

	"billing-cache-api/internal/model"
)

// ClientRepository defines client data access methods.
type ClientRepository interface {
	// ListClients returns every client with phones, ordered by client id.
	ListClients(ctx context.Context) ([]model.Client, error)

	// ListClientsByName returns every client ordered by last and first name.
	ListClientsByName(ctx context.Context) ([]model.Client, error)

	// FindClientByID returns model.ErrNotFound when no client has the id.
	FindClientByID(ctx context.Context, clientID int) (*model.Client, error)

	// FindClientByName returns the client with exactly that first and last name.
	FindClientByName(ctx context.Context, firstName, lastName string) (*model.Client, error)

	// MaxClientID returns the highest client id, or 0 when there are none.
	MaxClientID(ctx context.Context) (int, error)

	InsertClient(ctx context.Context, client model.Client) error

	// UpdateClient sets the editable fields and returns the stored record.
	UpdateClient(ctx context.Context, clientID int, in model.ClientInput) (*model.Client, error)

	DeleteClient(ctx context.Context, clientID int) error
}

// ProductRepository defines product data access methods.
type ProductRepository interface {
	ListProductsByName(ctx context.Context) ([]model.Product, error)
	FindProductByCode(ctx context.Context, code int) (*model.Product, error)
	CountProducts(ctx context.Context) (int, error)
	InsertProduct(ctx context.Context, product model.Product) error
	UpdateProduct(ctx context.Context, code int, in model.ProductInput) (*model.Product, error)
}

// InvoiceRepository defines invoice data access methods.
type InvoiceRepository interface {
	// InvoicesByClient returns the invoices billed to a client ordered by number.
	InvoicesByClient(ctx context.Context, clientID int) ([]model.Invoice, error)
}

// ReportRepository runs the predefined aggregations.
type ReportRepository interface {
	PhonesWithClient(ctx context.Context) ([]model.PhoneWithClient, error)
	ClientsWithInvoices(ctx context.Context) ([]model.ClientSummary, error)
	ClientsWithoutInvoices(ctx context.Context) ([]model.ClientSummary, error)
	ClientInvoiceCounts(ctx context.Context) ([]model.ClientInvoiceCount, error)
	InvoicedProducts(ctx context.Context) ([]model.InvoicedProduct, error)
	InvoicesByBrand(ctx context.Context, brand string) ([]model.Invoice, error)
	ClientTotals(ctx context.Context) ([]model.ClientTotal, error)

	// InvoicesByDate reads the facturas_ordenadas_por_fecha view, creating it if needed.
	InvoicesByDate(ctx context.Context) ([]model.Invoice, error)

	// UninvoicedProducts reads the productos_no_facturados view, creating it if needed.
	UninvoicedProducts(ctx context.Context) ([]model.Product, error)
}

// DataRepository defines bulk load methods.
type DataRepository interface {
	// Reset drops all collections and views.
	Reset(ctx context.Context) error

	InsertClients(ctx context.Context, clients []model.Client) error
	InsertProducts(ctx context.Context, products []model.Product) error
	InsertInvoices(ctx context.Context, invoices []model.Invoice) error

	// EnsureIndexes creates the unique and lookup indexes.
	EnsureIndexes(ctx context.Context) error
}

// Store is the full primary store.
type Store interface {
	ClientRepository
	ProductRepository
	InvoiceRepository
	ReportRepository
	DataRepository

	// GetStats returns document counts per collection.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	Ping(ctx context.Context) error
	Close() error
}

// AuditRepository defines the mutation journal.
type AuditRepository interface {
	Record(ctx context.Context, entry model.AuditEntry) error

	// List returns entries newest first with the total count.
	List(ctx context.Context, limit, offset int) ([]model.AuditEntry, int64, error)

	// Prune deletes entries older than before and returns how many went.
	Prune(ctx context.Context, before time.Time) (int64, error)

	Close() error
}
