package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// lookupClientInvoices joins each client with its invoices under "facturas".
func lookupClientInvoices() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: InvoicesCollection},
		{Key: "localField", Value: "nro_cliente"},
		{Key: "foreignField", Value: "nro_cliente"},
		{Key: "as", Value: "facturas"},
	}}}
}

// lookupLineItemProduct joins each unwound line item with its product.
func lookupLineItemProduct(as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: ProductsCollection},
		{Key: "localField", Value: "detalles.codigo_producto"},
		{Key: "foreignField", Value: "codigo_producto"},
		{Key: "as", Value: as},
	}}}
}

func clientSummaryProjection() bson.D {
	return bson.D{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 0},
		{Key: "nro_cliente", Value: 1},
		{Key: "nombre", Value: 1},
		{Key: "apellido", Value: 1},
	}}}
}

func sortBy(field string) bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{{Key: field, Value: 1}}}}
}

// phonesWithClientPipeline emits one row per phone with the owner's data.
func phonesWithClientPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$telefonos"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "codigo_area", Value: "$telefonos.codigo_area"},
			{Key: "nro_telefono", Value: "$telefonos.nro_telefono"},
			{Key: "tipo", Value: "$telefonos.tipo"},
			{Key: "nombre", Value: "$nombre"},
			{Key: "apellido", Value: "$apellido"},
			{Key: "direccion", Value: "$direccion"},
			{Key: "activo", Value: "$activo"},
		}}},
	}
}

// clientsByInvoicePresencePipeline keeps clients with (or without) at least one invoice.
func clientsByInvoicePresencePipeline(withInvoices bool) mongo.Pipeline {
	return mongo.Pipeline{
		lookupClientInvoices(),
		{{Key: "$match", Value: bson.D{
			{Key: "facturas.0", Value: bson.D{{Key: "$exists", Value: withInvoices}}},
		}}},
		clientSummaryProjection(),
		sortBy("nro_cliente"),
	}
}

// clientInvoiceCountPipeline counts invoices per client; clients without
// invoices get 0.
func clientInvoiceCountPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		lookupClientInvoices(),
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "nro_cliente", Value: 1},
			{Key: "nombre", Value: 1},
			{Key: "apellido", Value: 1},
			{Key: "facturas_count", Value: bson.D{{Key: "$size", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$facturas", bson.A{}}},
			}}}},
		}}},
		sortBy("nro_cliente"),
	}
}

// clientTotalsPipeline sums total_con_iva per client. The left join keeps
// clients without invoices, whose $sum over a missing field is 0.
func clientTotalsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		lookupClientInvoices(),
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$facturas"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "nro_cliente", Value: "$nro_cliente"},
				{Key: "nombre", Value: "$nombre"},
				{Key: "apellido", Value: "$apellido"},
			}},
			{Key: "total_gastado", Value: bson.D{{Key: "$sum", Value: "$facturas.total_con_iva"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "nro_cliente", Value: "$_id.nro_cliente"},
			{Key: "nombre", Value: "$_id.nombre"},
			{Key: "apellido", Value: "$_id.apellido"},
			{Key: "total_gastado", Value: 1},
		}}},
		sortBy("nro_cliente"),
	}
}

// invoicedProductsPipeline lists products on at least one invoice, by code.
func invoicedProductsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$detalles"}},
		lookupLineItemProduct("producto_info"),
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$producto_info"},
			{Key: "preserveNullAndEmptyArrays", Value: false},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$producto_info.codigo_producto"},
			{Key: "nombre_producto", Value: bson.D{{Key: "$first", Value: "$producto_info.nombre"}}},
			{Key: "descripcion_producto", Value: bson.D{{Key: "$first", Value: "$producto_info.descripcion"}}},
			{Key: "precio_producto", Value: bson.D{{Key: "$first", Value: "$producto_info.precio"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "codigo_producto", Value: "$_id"},
			{Key: "nombre_producto", Value: 1},
			{Key: "descripcion_producto", Value: 1},
			{Key: "precio_producto", Value: 1},
		}}},
		sortBy("codigo_producto"),
	}
}

// invoicesByBrandPipeline lists invoices with a line item whose product
// brand contains brand, ignoring case.
func invoicesByBrandPipeline(brand string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$detalles"}},
		lookupLineItemProduct("productos_detalle"),
		{{Key: "$match", Value: bson.D{
			{Key: "productos_detalle.marca", Value: primitive.Regex{Pattern: regexp.QuoteMeta(brand), Options: "i"}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$nro_factura"},
			{Key: "fecha", Value: bson.D{{Key: "$first", Value: "$fecha"}}},
			{Key: "total_sin_iva", Value: bson.D{{Key: "$first", Value: "$total_sin_iva"}}},
			{Key: "iva", Value: bson.D{{Key: "$first", Value: "$iva"}}},
			{Key: "total_con_iva", Value: bson.D{{Key: "$first", Value: "$total_con_iva"}}},
			{Key: "nro_cliente", Value: bson.D{{Key: "$first", Value: "$nro_cliente"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "nro_factura", Value: "$_id"},
			{Key: "fecha", Value: 1},
			{Key: "total_sin_iva", Value: 1},
			{Key: "iva", Value: 1},
			{Key: "total_con_iva", Value: 1},
			{Key: "nro_cliente", Value: 1},
		}}},
		sortBy("nro_factura"),
	}
}

// invoicesByDateViewPipeline defines the facturas_ordenadas_por_fecha view.
func invoicesByDateViewPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "fecha", Value: 1}, {Key: "nro_factura", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "nro_factura", Value: 1},
			{Key: "nro_cliente", Value: 1},
			{Key: "fecha", Value: 1},
			{Key: "total_con_iva", Value: 1},
			{Key: "iva", Value: 1},
			{Key: "total_sin_iva", Value: 1},
		}}},
	}
}

// uninvoicedProductsViewPipeline defines the productos_no_facturados view.
func uninvoicedProductsViewPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: InvoicesCollection},
			{Key: "localField", Value: "codigo_producto"},
			{Key: "foreignField", Value: "detalles.codigo_producto"},
			{Key: "as", Value: "facturado_en"},
		}}},
		{{Key: "$match", Value: bson.D{
			{Key: "facturado_en", Value: bson.D{{Key: "$size", Value: 0}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "codigo_producto", Value: 1},
			{Key: "nombre", Value: 1},
			{Key: "marca", Value: 1},
			{Key: "descripcion", Value: 1},
			{Key: "precio", Value: 1},
			{Key: "stock", Value: 1},
		}}},
		sortBy("codigo_producto"),
	}
}
