package model

// PhoneWithClient is one row of the phones-with-client report.
type PhoneWithClient struct {
	AreaCode  int    `bson:"codigo_area" json:"area_code"`
	Number    int    `bson:"nro_telefono" json:"number"`
	Kind      string `bson:"tipo" json:"kind"`
	FirstName string `bson:"nombre" json:"first_name"`
	LastName  string `bson:"apellido" json:"last_name"`
	Address   string `bson:"direccion" json:"address"`
	Active    bool   `bson:"activo" json:"active"`
}

// ClientSummary identifies a client by number and name.
type ClientSummary struct {
	ClientID  int    `bson:"nro_cliente" json:"client_id"`
	FirstName string `bson:"nombre" json:"first_name"`
	LastName  string `bson:"apellido" json:"last_name"`
}

// ClientInvoiceCount is a client with the number of invoices billed to it.
type ClientInvoiceCount struct {
	ClientID     int    `bson:"nro_cliente" json:"client_id"`
	FirstName    string `bson:"nombre" json:"first_name"`
	LastName     string `bson:"apellido" json:"last_name"`
	InvoiceCount int    `bson:"facturas_count" json:"invoice_count"`
}

// ClientTotal is the VAT-inclusive amount a client spent across all invoices.
type ClientTotal struct {
	ClientID   int     `bson:"nro_cliente" json:"client_id"`
	FirstName  string  `bson:"nombre" json:"first_name"`
	LastName   string  `bson:"apellido" json:"last_name"`
	TotalSpent float64 `bson:"total_gastado" json:"total_spent"`
}

// InvoicedProduct is a product that appears on at least one invoice.
type InvoicedProduct struct {
	ProductCode int     `bson:"codigo_producto" json:"product_code"`
	Name        string  `bson:"nombre_producto" json:"name"`
	Description string  `bson:"descripcion_producto" json:"description"`
	UnitPrice   float64 `bson:"precio_producto" json:"unit_price"`
}
