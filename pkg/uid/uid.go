// Package uid generates the identifiers used for requests and journal entries.
package uid

import "github.com/google/uuid"

// New returns a random identifier.
func New() string {
	return uuid.NewString()
}

// NewOrdered returns an identifier that sorts by creation time, falling
// back to a random one if the clock source fails.
func NewOrdered() string {
	id, err := uuid.NewV7()
	if err != nil {
		return New()
	}
	return id.String()
}

// IsValid reports whether id is a canonical UUID.
func IsValid(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
