package model

// Product is a catalogue entry in the productos collection.
// UnitPrice excludes VAT.
type Product struct {
	ProductCode int     `bson:"codigo_producto" json:"product_code"`
	Brand       string  `bson:"marca" json:"brand"`
	Name        string  `bson:"nombre" json:"name"`
	Description string  `bson:"descripcion" json:"description"`
	UnitPrice   float64 `bson:"precio" json:"unit_price"`
	Stock       int     `bson:"stock" json:"stock"`
}

// DisplayName returns "brand (name)".
func (p *Product) DisplayName() string {
	return p.Brand + " (" + p.Name + ")"
}

// ProductInput holds the editable fields of a product.
type ProductInput struct {
	Brand       string  `json:"brand"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	Stock       int     `json:"stock"`
}
