package model

import "time"

// LineItem is one product/quantity entry within an invoice.
type LineItem struct {
	ProductCode int     `bson:"codigo_producto" json:"product_code"`
	ItemNumber  int     `bson:"nro_item" json:"item_number"`
	Quantity    float64 `bson:"cantidad" json:"quantity"`
}

// Invoice is a document in the facturas collection.
type Invoice struct {
	InvoiceNumber int        `bson:"nro_factura" json:"invoice_number"`
	Date          time.Time  `bson:"fecha" json:"date"`
	Subtotal      float64    `bson:"total_sin_iva" json:"subtotal"`
	VATAmount     float64    `bson:"iva" json:"vat_amount"`
	TotalWithVAT  float64    `bson:"total_con_iva" json:"total_with_vat"`
	ClientID      int        `bson:"nro_cliente" json:"client_id"`
	LineItems     []LineItem `bson:"detalles,omitempty" json:"line_items,omitempty"`
}
