package menu

import (
	"fmt"
	"io"
	"strings"
	"time"

	"billing-cache-api/internal/model"
	"billing-cache-api/internal/service"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
)

const dateLayout = "2006-01-02"

func newTable(out io.Writer, header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row(header))
	return t
}

func phones(ps []model.Phone) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("(%d) %d %s", p.AreaCode, p.Number, p.Kind)
	}
	return strings.Join(parts, ", ")
}

func clientRows(t table.Writer, clients ...model.Client) {
	for _, c := range clients {
		t.AppendRow(table.Row{c.ClientID, c.FirstName, c.LastName, c.Address, c.Active, phones(c.Phones)})
	}
}

// render prints a query result as a table.
func render(out io.Writer, result interface{}) {
	var t table.Writer
	rows := 0
	switch v := result.(type) {
	case *model.Client:
		t = newTable(out, "Client", "First name", "Last name", "Address", "Active", "Phones")
		clientRows(t, *v)
		rows = 1
	case []model.Client:
		t = newTable(out, "Client", "First name", "Last name", "Address", "Active", "Phones")
		clientRows(t, v...)
		rows = len(v)
	case []model.PhoneWithClient:
		t = newTable(out, "Area", "Number", "Kind", "First name", "Last name", "Address", "Active")
		for _, p := range v {
			t.AppendRow(table.Row{p.AreaCode, p.Number, p.Kind, p.FirstName, p.LastName, p.Address, p.Active})
		}
		rows = len(v)
	case []model.ClientSummary:
		t = newTable(out, "Client", "First name", "Last name")
		for _, c := range v {
			t.AppendRow(table.Row{c.ClientID, c.FirstName, c.LastName})
		}
		rows = len(v)
	case []model.ClientInvoiceCount:
		t = newTable(out, "Client", "First name", "Last name", "Invoices")
		for _, c := range v {
			t.AppendRow(table.Row{c.ClientID, c.FirstName, c.LastName, c.InvoiceCount})
		}
		rows = len(v)
	case []model.ClientTotal:
		t = newTable(out, "Client", "First name", "Last name", "Total spent")
		for _, c := range v {
			t.AppendRow(table.Row{c.ClientID, c.FirstName, c.LastName, fmt.Sprintf("%.2f", c.TotalSpent)})
		}
		rows = len(v)
	case []model.Invoice:
		t = newTable(out, "Invoice", "Date", "Client", "Subtotal", "VAT", "Total")
		for _, inv := range v {
			t.AppendRow(table.Row{inv.InvoiceNumber, inv.Date.Format(dateLayout), inv.ClientID,
				fmt.Sprintf("%.2f", inv.Subtotal), fmt.Sprintf("%.2f", inv.VATAmount), fmt.Sprintf("%.2f", inv.TotalWithVAT)})
		}
		rows = len(v)
	case []model.InvoicedProduct:
		t = newTable(out, "Code", "Name", "Description", "Price")
		for _, p := range v {
			t.AppendRow(table.Row{p.ProductCode, p.Name, p.Description, p.UnitPrice})
		}
		rows = len(v)
	case []model.Product:
		t = newTable(out, "Code", "Brand", "Name", "Description", "Price", "Stock")
		for _, p := range v {
			t.AppendRow(table.Row{p.ProductCode, p.Brand, p.Name, p.Description, p.UnitPrice, p.Stock})
		}
		rows = len(v)
	case []model.AuditEntry:
		t = newTable(out, "At", "Action", "Subject", "Detail")
		for _, e := range v {
			t.AppendRow(table.Row{e.At.Local().Format(time.DateTime), e.Action, e.Subject, e.Detail})
		}
		rows = len(v)
	case *service.LoadResult:
		fmt.Fprintf(out, "Loaded %d clients, %d products and %d invoices in %v\n",
			v.Clients, v.Products, v.Invoices, v.Duration.Round(time.Millisecond))
		return
	default:
		fmt.Fprintf(out, "%+v\n", v)
		return
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d rows", rows)})
	t.Render()
}
