package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, files map[string]string) *Source {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return NewSource(dir)
}

func TestClientsJoinsPhones(t *testing.T) {
	src := writeDataset(t, map[string]string{
		ClientsFile: "\ufeffnro_cliente;nombre;apellido;direccion;activo\n" +
			"1;Jacob;Cooper;Calle 1;1\n" +
			"7;Kai;Bullock;Calle 7;0\n",
		PhonesFile: "codigo_area;nro_telefono;tipo;nro_cliente\n" +
			"11;5551234;mobile;1\n" +
			"11;5550000;home;1\n",
	})

	clients, err := src.Clients()
	require.NoError(t, err)
	require.Len(t, clients, 2)

	jacob := clients[0]
	assert.Equal(t, 1, jacob.ClientID)
	assert.Equal(t, "Jacob", jacob.FirstName)
	assert.True(t, jacob.Active)
	require.Len(t, jacob.Phones, 2)
	assert.Equal(t, 5551234, jacob.Phones[0].Number)
	assert.Equal(t, "home", jacob.Phones[1].Kind)

	kai := clients[1]
	assert.False(t, kai.Active)
	assert.NotNil(t, kai.Phones)
	assert.Empty(t, kai.Phones)
}

func TestInvoicesJoinsLineItems(t *testing.T) {
	src := writeDataset(t, map[string]string{
		InvoicesFile: "nro_factura;fecha;total_sin_iva;iva;total_con_iva;nro_cliente\n" +
			"100;2024-01-15;100;21;121;1\n" +
			"101;2024-02-01;50,5;10.6;61.1;7\n",
		LineItemsFile: "nro_factura;codigo_producto;nro_item;cantidad\n" +
			"100;3;1;2\n" +
			"100;4;2;1.5\n",
	})

	invoices, err := src.Invoices()
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), invoices[0].Date)
	assert.Equal(t, 121.0, invoices[0].TotalWithVAT)
	require.Len(t, invoices[0].LineItems, 2)
	assert.Equal(t, 1.5, invoices[0].LineItems[1].Quantity)

	assert.Equal(t, 50.5, invoices[1].Subtotal)
	assert.Empty(t, invoices[1].LineItems)
}

func TestProducts(t *testing.T) {
	src := writeDataset(t, map[string]string{
		ProductsFile: "codigo_producto;marca;nombre;descripcion;precio;stock\n" +
			"1;Ipsum;Lamp;Desk lamp;12.5;4\n\n",
	})

	products, err := src.Products()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Ipsum", products[0].Brand)
	assert.Equal(t, 12.5, products[0].UnitPrice)
	assert.Equal(t, 4, products[0].Stock)
}

func TestParseErrorsNameFileAndLine(t *testing.T) {
	src := writeDataset(t, map[string]string{
		ProductsFile: "codigo_producto;marca;nombre;descripcion;precio;stock\n" +
			"1;Ipsum;Lamp;Desk lamp;cheap;4\n",
	})

	_, err := src.Products()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "e01_producto.csv:2"), err.Error())
	assert.Contains(t, err.Error(), "precio")
}

func TestMissingFile(t *testing.T) {
	_, err := NewSource(t.TempDir()).Products()
	assert.Error(t, err)
}
