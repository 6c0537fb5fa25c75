// Package ingest reads the semicolon-delimited dataset files and joins the
// related rows into documents.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"billing-cache-api/internal/model"
)

// Dataset file names.
const (
	ClientsFile   = "e01_cliente.csv"
	PhonesFile    = "e01_telefono.csv"
	ProductsFile  = "e01_producto.csv"
	InvoicesFile  = "e01_factura.csv"
	LineItemsFile = "e01_detalle_factura.csv"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	time.RFC3339,
}

// Source reads the dataset files from a directory.
type Source struct {
	Dir string
}

// NewSource returns a Source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{Dir: dir}
}

// row is one CSV record addressed by header name.
type row struct {
	file   string
	line   int
	header map[string]int
	values []string
}

func (r row) str(col string) (string, error) {
	i, ok := r.header[col]
	if !ok {
		return "", fmt.Errorf("%s: missing column %q", r.file, col)
	}
	if i >= len(r.values) {
		return "", nil
	}
	return strings.TrimSpace(r.values[i]), nil
}

func (r row) int(col string) (int, error) {
	s, err := r.str(col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s:%d: column %s: %q is not an integer", r.file, r.line, col, s)
	}
	return n, nil
}

func (r row) float(col string) (float64, error) {
	s, err := r.str(col)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%s:%d: column %s: %q is not a number", r.file, r.line, col, s)
	}
	return f, nil
}

func (r row) date(col string) (time.Time, error) {
	s, err := r.str(col)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s:%d: column %s: %q is not a date", r.file, r.line, col, s)
}

func (r row) flag(col string) (bool, error) {
	s, err := r.str(col)
	if err != nil {
		return false, err
	}
	v, err := model.ParseActive(s)
	if err != nil {
		return false, fmt.Errorf("%s:%d: column %s: %q is not a flag", r.file, r.line, col, s)
	}
	return v, nil
}

// readRows reads a semicolon-delimited file with a header row.
func (s *Source) readRows(name string) ([]row, error) {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return parseRows(name, f)
}

func parseRows(name string, r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		// Spreadsheet exports often start with a UTF-8 BOM.
		col = strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")
		index[col] = i
	}

	rows := make([]row, 0)
	for line := 2; ; line++ {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if len(values) == 1 && strings.TrimSpace(values[0]) == "" {
			continue
		}
		rows = append(rows, row{file: name, line: line, header: index, values: values})
	}
	return rows, nil
}

// Clients reads clients and attaches their phones in file order.
func (s *Source) Clients() ([]model.Client, error) {
	phoneRows, err := s.readRows(PhonesFile)
	if err != nil {
		return nil, err
	}
	phones := make(map[int][]model.Phone)
	for _, r := range phoneRows {
		id, err := r.int("nro_cliente")
		if err != nil {
			return nil, err
		}
		var p model.Phone
		if p.AreaCode, err = r.int("codigo_area"); err != nil {
			return nil, err
		}
		if p.Number, err = r.int("nro_telefono"); err != nil {
			return nil, err
		}
		if p.Kind, err = r.str("tipo"); err != nil {
			return nil, err
		}
		phones[id] = append(phones[id], p)
	}

	clientRows, err := s.readRows(ClientsFile)
	if err != nil {
		return nil, err
	}
	clients := make([]model.Client, 0, len(clientRows))
	for _, r := range clientRows {
		var c model.Client
		if c.ClientID, err = r.int("nro_cliente"); err != nil {
			return nil, err
		}
		if c.FirstName, err = r.str("nombre"); err != nil {
			return nil, err
		}
		if c.LastName, err = r.str("apellido"); err != nil {
			return nil, err
		}
		if c.Address, err = r.str("direccion"); err != nil {
			return nil, err
		}
		if c.Active, err = r.flag("activo"); err != nil {
			return nil, err
		}
		c.Phones = phones[c.ClientID]
		if c.Phones == nil {
			c.Phones = []model.Phone{}
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// Products reads the product catalogue.
func (s *Source) Products() ([]model.Product, error) {
	rows, err := s.readRows(ProductsFile)
	if err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(rows))
	for _, r := range rows {
		var p model.Product
		if p.ProductCode, err = r.int("codigo_producto"); err != nil {
			return nil, err
		}
		if p.Brand, err = r.str("marca"); err != nil {
			return nil, err
		}
		if p.Name, err = r.str("nombre"); err != nil {
			return nil, err
		}
		if p.Description, err = r.str("descripcion"); err != nil {
			return nil, err
		}
		if p.UnitPrice, err = r.float("precio"); err != nil {
			return nil, err
		}
		if p.Stock, err = r.int("stock"); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Invoices reads invoices and attaches their line items in file order.
func (s *Source) Invoices() ([]model.Invoice, error) {
	itemRows, err := s.readRows(LineItemsFile)
	if err != nil {
		return nil, err
	}
	items := make(map[int][]model.LineItem)
	for _, r := range itemRows {
		number, err := r.int("nro_factura")
		if err != nil {
			return nil, err
		}
		var li model.LineItem
		if li.ProductCode, err = r.int("codigo_producto"); err != nil {
			return nil, err
		}
		if li.ItemNumber, err = r.int("nro_item"); err != nil {
			return nil, err
		}
		if li.Quantity, err = r.float("cantidad"); err != nil {
			return nil, err
		}
		items[number] = append(items[number], li)
	}

	invoiceRows, err := s.readRows(InvoicesFile)
	if err != nil {
		return nil, err
	}
	invoices := make([]model.Invoice, 0, len(invoiceRows))
	for _, r := range invoiceRows {
		var inv model.Invoice
		if inv.InvoiceNumber, err = r.int("nro_factura"); err != nil {
			return nil, err
		}
		if inv.Date, err = r.date("fecha"); err != nil {
			return nil, err
		}
		if inv.Subtotal, err = r.float("total_sin_iva"); err != nil {
			return nil, err
		}
		if inv.VATAmount, err = r.float("iva"); err != nil {
			return nil, err
		}
		if inv.TotalWithVAT, err = r.float("total_con_iva"); err != nil {
			return nil, err
		}
		if inv.ClientID, err = r.int("nro_cliente"); err != nil {
			return nil, err
		}
		inv.LineItems = items[inv.InvoiceNumber]
		if inv.LineItems == nil {
			inv.LineItems = []model.LineItem{}
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}
