package model

// Phone is one telephone number registered for a client.
type Phone struct {
	AreaCode int    `bson:"codigo_area" json:"area_code"`
	Number   int    `bson:"nro_telefono" json:"number"`
	Kind     string `bson:"tipo" json:"kind"`
}

// Client is a customer document in the clientes collection.
type Client struct {
	ClientID  int     `bson:"nro_cliente" json:"client_id"`
	FirstName string  `bson:"nombre" json:"first_name"`
	LastName  string  `bson:"apellido" json:"last_name"`
	Address   string  `bson:"direccion" json:"address"`
	Active    bool    `bson:"activo" json:"active"`
	Phones    []Phone `bson:"telefonos" json:"phones"`
}

// FullName returns "first last".
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// SameName reports whether both clients carry the same first and last name.
func (c *Client) SameName(other *Client) bool {
	return c.FirstName == other.FirstName && c.LastName == other.LastName
}

// ClientInput holds the editable fields of a client.
type ClientInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Active    bool   `json:"active"`
}
