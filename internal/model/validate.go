package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// notBlank rejects strings that are empty once surrounding whitespace is removed.
var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
})

// Trimmed returns the input with surrounding whitespace removed from its
// text fields.
func (in ClientInput) Trimmed() ClientInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

// Validate checks the client fields.
func (in ClientInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, notBlank, validation.Length(0, 100)),
		validation.Field(&in.LastName, notBlank, validation.Length(0, 100)),
		validation.Field(&in.Address, notBlank, validation.Length(0, 200)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// Trimmed returns the input with surrounding whitespace removed from its
// text fields.
func (in ProductInput) Trimmed() ProductInput {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// Validate checks the product fields.
func (in ProductInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Brand, notBlank, validation.Length(0, 100)),
		validation.Field(&in.Name, notBlank, validation.Length(0, 100)),
		validation.Field(&in.Description, notBlank),
		validation.Field(&in.UnitPrice, validation.Min(0.0)),
		validation.Field(&in.Stock, validation.Min(0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

// ParseProductInput builds a ProductInput from raw text fields, rejecting
// non-numeric price and stock.
func ParseProductInput(brand, name, description, price, stock string) (ProductInput, error) {
	in := ProductInput{Brand: brand, Name: name, Description: description}.Trimmed()

	errs := validation.Errors{}
	p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		errs["unit_price"] = errors.New("must be a number")
	}
	in.UnitPrice = p

	s, err := strconv.Atoi(strings.TrimSpace(stock))
	if err != nil {
		errs["stock"] = errors.New("must be an integer")
	}
	in.Stock = s

	if len(errs) > 0 {
		return in, fmt.Errorf("%w: %w", ErrValidation, errs)
	}
	return in, in.Validate()
}

// ParseActive interprets a yes/no answer for the client active flag.
// Empty input means active.
func ParseActive(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "true", "y", "yes", "s", "si", "sí":
		return true, nil
	case "0", "false", "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: active: must be yes or no", ErrValidation)
}

// FieldErrors flattens ozzo validation errors found in err into a field -> message map.
func FieldErrors(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, e := range verrs {
		out[field] = e.Error()
	}
	return out
}
