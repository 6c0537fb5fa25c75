package model

import "time"

// Audit actions.
const (
	AuditClientCreate  = "client.create"
	AuditClientUpdate  = "client.update"
	AuditClientDelete  = "client.delete"
	AuditProductCreate = "product.create"
	AuditProductUpdate = "product.update"
	AuditDataLoad      = "data.load"
	AuditCacheWarning  = "cache.warning"
)

// AuditEntry is one line of the mutation journal.
type AuditEntry struct {
	ID      string    `json:"id"`
	At      time.Time `json:"at"`
	Action  string    `json:"action"`
	Subject string    `json:"subject"`
	Detail  string    `json:"detail,omitempty"`
}
