package service

import (
	"context"
	"fmt"

	"billing-cache-api/internal/model"
	"billing-cache-api/internal/repository"

	log "github.com/sirupsen/logrus"
)

// ClientService handles client create, update and delete.
type ClientService struct {
	repo    repository.ClientRepository
	sync    *Synchronizer
	journal *Journal
}

// NewClientService creates a new client service.
func NewClientService(repo repository.ClientRepository, sync *Synchronizer, journal *Journal) *ClientService {
	return &ClientService{repo: repo, sync: sync, journal: journal}
}

// List returns every client ordered by name.
func (s *ClientService) List(ctx context.Context) ([]model.Client, error) {
	return s.repo.ListClientsByName(ctx)
}

// Get returns a client from the primary store.
func (s *ClientService) Get(ctx context.Context, clientID int) (*model.Client, error) {
	return s.repo.FindClientByID(ctx, clientID)
}

// Create stores a new client numbered max(client_id)+1 and caches it.
// Reading the max and inserting are separate operations, so two concurrent
// creates can pick the same number; the unique index rejects the second.
func (s *ClientService) Create(ctx context.Context, in model.ClientInput) (*model.Client, error) {
	in = in.Trimmed()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	maxID, err := s.repo.MaxClientID(ctx)
	if err != nil {
		return nil, err
	}

	client := model.Client{
		ClientID:  maxID + 1,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Address:   in.Address,
		Active:    in.Active,
		Phones:    []model.Phone{},
	}
	if err := s.repo.InsertClient(ctx, client); err != nil {
		return nil, err
	}

	log.WithField("client_id", client.ClientID).Info("[ClientService] Client created")
	s.sync.OnClientWritten(ctx, client)
	s.journal.Record(ctx, model.AuditClientCreate, subject(client.ClientID), client.FullName())
	return &client, nil
}

// Update changes a client's editable fields and refreshes the cache.
func (s *ClientService) Update(ctx context.Context, clientID int, in model.ClientInput) (*model.Client, error) {
	in = in.Trimmed()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	before, err := s.repo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	// The cached snapshot names the entry that must go; the store
	// pre-image covers clients that were never cached.
	old, err := s.sync.CachedClient(ctx, clientID)
	if err != nil || old == nil {
		old = before
	}

	updated, err := s.repo.UpdateClient(ctx, clientID, in)
	if err != nil {
		return nil, err
	}

	log.WithField("client_id", clientID).Info("[ClientService] Client updated")
	s.sync.OnClientUpdated(ctx, old, *updated)
	s.journal.Record(ctx, model.AuditClientUpdate, subject(clientID),
		fmt.Sprintf("%s -> %s", before.FullName(), updated.FullName()))
	return updated, nil
}

// Delete removes a client and its cache entries.
func (s *ClientService) Delete(ctx context.Context, clientID int) error {
	before, err := s.repo.FindClientByID(ctx, clientID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteClient(ctx, clientID); err != nil {
		return err
	}

	log.WithField("client_id", clientID).Info("[ClientService] Client deleted")
	s.sync.OnClientDeleted(ctx, clientID, before)
	s.journal.Record(ctx, model.AuditClientDelete, subject(clientID), before.FullName())
	return nil
}

func subject(clientID int) string {
	return fmt.Sprintf("client %d", clientID)
}
