package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// stages returns the operators of a pipeline in order.
func stages(p mongo.Pipeline) []string {
	ops := make([]string, len(p))
	for i, stage := range p {
		ops[i] = stage[0].Key
	}
	return ops
}

// stage returns the body of the first stage with the given operator.
func stage(t *testing.T, p mongo.Pipeline, op string) interface{} {
	t.Helper()
	for _, s := range p {
		if s[0].Key == op {
			return s[0].Value
		}
	}
	t.Fatalf("pipeline has no %s stage", op)
	return nil
}

func field(t *testing.T, d interface{}, key string) interface{} {
	t.Helper()
	doc, ok := d.(bson.D)
	require.True(t, ok, "expected bson.D, got %T", d)
	for _, e := range doc {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("document has no %s field", key)
	return nil
}

func TestClientsByInvoicePresencePipeline(t *testing.T) {
	for _, with := range []bool{true, false} {
		p := clientsByInvoicePresencePipeline(with)
		assert.Equal(t, []string{"$lookup", "$match", "$project", "$sort"}, stages(p))

		lookup := stage(t, p, "$lookup")
		assert.Equal(t, InvoicesCollection, field(t, lookup, "from"))
		assert.Equal(t, "nro_cliente", field(t, lookup, "localField"))

		match := stage(t, p, "$match")
		exists := field(t, field(t, match, "facturas.0"), "$exists")
		assert.Equal(t, with, exists)
	}
}

func TestClientTotalsPipelineKeepsClientsWithoutInvoices(t *testing.T) {
	p := clientTotalsPipeline()
	assert.Equal(t, []string{"$lookup", "$unwind", "$group", "$project", "$sort"}, stages(p))

	unwind := stage(t, p, "$unwind")
	assert.Equal(t, "$facturas", field(t, unwind, "path"))
	assert.Equal(t, true, field(t, unwind, "preserveNullAndEmptyArrays"))

	group := stage(t, p, "$group")
	sum := field(t, field(t, group, "total_gastado"), "$sum")
	assert.Equal(t, "$facturas.total_con_iva", sum)
}

func TestClientInvoiceCountPipelineDefaultsToZero(t *testing.T) {
	p := clientInvoiceCountPipeline()
	project := stage(t, p, "$project")
	size := field(t, field(t, project, "facturas_count"), "$size")
	ifNull := field(t, size, "$ifNull")
	assert.Equal(t, bson.A{"$facturas", bson.A{}}, ifNull)
}

func TestInvoicedProductsPipelineSortsByCode(t *testing.T) {
	p := invoicedProductsPipeline()
	assert.Equal(t, []string{"$unwind", "$lookup", "$unwind", "$group", "$project", "$sort"}, stages(p))
	assert.Equal(t, bson.D{{Key: "codigo_producto", Value: 1}}, stage(t, p, "$sort"))

	group := stage(t, p, "$group")
	assert.Equal(t, "$producto_info.codigo_producto", field(t, group, "_id"))
}

func TestInvoicesByBrandPipeline(t *testing.T) {
	p := invoicesByBrandPipeline("ips.um")

	match := stage(t, p, "$match")
	re, ok := field(t, match, "productos_detalle.marca").(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `ips\.um`, re.Pattern)
	assert.Equal(t, "i", re.Options)

	assert.Equal(t, bson.D{{Key: "nro_factura", Value: 1}}, stage(t, p, "$sort"))
	group := stage(t, p, "$group")
	assert.Equal(t, "$nro_factura", field(t, group, "_id"))
}

func TestViewPipelines(t *testing.T) {
	byDate := invoicesByDateViewPipeline()
	assert.Equal(t, "$sort", byDate[0][0].Key)
	assert.Equal(t, "fecha", byDate[0][0].Value.(bson.D)[0].Key)

	uninvoiced := uninvoicedProductsViewPipeline()
	lookup := stage(t, uninvoiced, "$lookup")
	assert.Equal(t, "detalles.codigo_producto", field(t, lookup, "foreignField"))
	match := stage(t, uninvoiced, "$match")
	assert.Equal(t, bson.D{{Key: "$size", Value: 0}}, field(t, match, "facturado_en"))
}

func TestPhonesWithClientPipeline(t *testing.T) {
	p := phonesWithClientPipeline()
	assert.Equal(t, []string{"$unwind", "$project"}, stages(p))
	assert.Equal(t, "$telefonos", stage(t, p, "$unwind"))
	project := stage(t, p, "$project")
	assert.Equal(t, "$telefonos.nro_telefono", field(t, project, "nro_telefono"))
}
