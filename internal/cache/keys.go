package cache

import (
	"fmt"
	"strconv"
)

const (
	clientKeyTemplate     = "clients:%d"
	clientNameKeyTemplate = "clients:names:%s%s%s"
	phoneKeyTemplate      = "clients:%d:telefonos:"
)

// KeySchema builds the keys of the client namespace.
//
// With an empty NameSeparator the by-name keys are the legacy
// clients:names:<first><last> keys, which collide for pairs such as
// ("Ann", "Smith") and ("An", "nSmith").
type KeySchema struct {
	NameSeparator string
}

// ClientKey is the key of the serialized client record.
func (k KeySchema) ClientKey(clientID int) string {
	return fmt.Sprintf(clientKeyTemplate, clientID)
}

// ClientNameKey is the key of the name -> client id lookup.
func (k KeySchema) ClientNameKey(firstName, lastName string) string {
	return fmt.Sprintf(clientNameKeyTemplate, firstName, k.NameSeparator, lastName)
}

// PhoneKeyPrefix is the prefix of the legacy per-phone hash entries.
// Nothing writes them anymore; they are only purged.
func (k KeySchema) PhoneKeyPrefix(clientID int) string {
	return fmt.Sprintf(phoneKeyTemplate, clientID)
}

// EncodeID renders a client id the way by-name entries store it.
func EncodeID(clientID int) []byte {
	return []byte(strconv.Itoa(clientID))
}

// DecodeID parses a by-name entry value.
func DecodeID(value []byte) (int, error) {
	id, err := strconv.Atoi(string(value))
	if err != nil {
		return 0, fmt.Errorf("invalid client id %q in cache: %w", value, err)
	}
	return id, nil
}
