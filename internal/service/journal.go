package service

import (
	"context"
	"time"

	"billing-cache-api/internal/model"
	"billing-cache-api/internal/repository"
	"billing-cache-api/pkg/uid"

	log "github.com/sirupsen/logrus"
)

// Journal appends audit entries. Failures are logged and never returned,
// so a broken journal cannot fail a mutation that already happened.
type Journal struct {
	repo repository.AuditRepository
	now  func() time.Time
}

// NewJournal creates a journal over repo. A nil repo discards entries.
func NewJournal(repo repository.AuditRepository) *Journal {
	if repo == nil {
		repo = repository.NopAuditRepository{}
	}
	return &Journal{repo: repo, now: time.Now}
}

// Record appends one entry.
func (j *Journal) Record(ctx context.Context, action, subject, detail string) {
	entry := model.AuditEntry{
		ID:      uid.NewOrdered(),
		At:      j.now().UTC(),
		Action:  action,
		Subject: subject,
		Detail:  detail,
	}
	if err := j.repo.Record(ctx, entry); err != nil {
		log.WithFields(log.Fields{"action": action, "subject": subject}).
			Warnf("[Journal] Failed to record entry: %v", err)
	}
}

// List returns entries newest first.
func (j *Journal) List(ctx context.Context, limit, offset int) ([]model.AuditEntry, int64, error) {
	return j.repo.List(ctx, limit, offset)
}

// Prune deletes entries recorded before the cutoff.
func (j *Journal) Prune(ctx context.Context, before time.Time) (int64, error) {
	return j.repo.Prune(ctx, before)
}
