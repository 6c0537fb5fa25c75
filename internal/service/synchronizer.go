package service

import (
	"context"
	"errors"
	"fmt"

	"billing-cache-api/internal/cache"
	"billing-cache-api/internal/model"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

// Synchronizer keeps the client entries of the cache converged with the
// primary store:
//
//   - a clients:<id> entry is only written after its by-name entry, so a
//     cached record always has a name lookup resolving back to it. When two
//     clients share a name, the one the lookup no longer resolves to is
//     evicted;
//   - a by-name entry is only deleted while it still resolves to the
//     client being changed, so another client's mapping is never removed;
//   - cache failures are logged as inconsistency warnings and journaled,
//     never returned. The primary store stays authoritative.
type Synchronizer struct {
	cache   cache.Cache
	keys    cache.KeySchema
	journal *Journal
}

// NewSynchronizer creates a synchronizer.
func NewSynchronizer(c cache.Cache, keys cache.KeySchema, journal *Journal) *Synchronizer {
	if journal == nil {
		journal = NewJournal(nil)
	}
	return &Synchronizer{cache: c, keys: keys, journal: journal}
}

// Keys returns the key schema in use.
func (s *Synchronizer) Keys() cache.KeySchema {
	return s.keys
}

// OnClientWritten stores the client record and its name lookup.
// Calling it twice with the same record leaves the same state.
func (s *Synchronizer) OnClientWritten(ctx context.Context, client model.Client) {
	blob, err := json.Marshal(client)
	if err != nil {
		s.warn(ctx, "encode client", client.ClientID, err)
		return
	}

	// The name key can only point at one client. A record it stops
	// resolving to is evicted; the lookup path reloads it from the store.
	if prevID, ok, err := s.ResolveName(ctx, client.FirstName, client.LastName); err == nil && ok && prevID != client.ClientID {
		if err := s.cache.Delete(ctx, s.keys.ClientKey(prevID)); err != nil {
			s.warn(ctx, "evict client sharing name", prevID, err)
		}
	}

	nameKey := s.keys.ClientNameKey(client.FirstName, client.LastName)
	if err := s.cache.Set(ctx, nameKey, cache.EncodeID(client.ClientID)); err != nil {
		s.warn(ctx, "write "+nameKey, client.ClientID, err)
		return
	}

	idKey := s.keys.ClientKey(client.ClientID)
	if err := s.cache.Set(ctx, idKey, blob); err != nil {
		s.warn(ctx, "write "+idKey, client.ClientID, err)
	}
}

// OnClientUpdated refreshes the cache after an update. old is the
// client's previous state, nil when unknown.
func (s *Synchronizer) OnClientUpdated(ctx context.Context, old *model.Client, updated model.Client) {
	if old != nil && !old.SameName(&updated) {
		if err := s.dropNameKey(ctx, old.FirstName, old.LastName, updated.ClientID); err != nil {
			s.warn(ctx, "delete old name key", updated.ClientID, err)
			// Without the record the stale name can only resolve to a
			// cache miss, which the lookup path repairs from the store.
			if err := s.cache.Delete(ctx, s.keys.ClientKey(updated.ClientID)); err != nil {
				s.warn(ctx, "delete client key", updated.ClientID, err)
			}
			return
		}
	}
	s.OnClientWritten(ctx, updated)
}

// OnClientDeleted removes the client's entries. The name is taken from the
// cached record, or from known when the record is not cached. With neither
// available the by-name entry cannot be located and stays orphaned.
func (s *Synchronizer) OnClientDeleted(ctx context.Context, clientID int, known *model.Client) {
	named, err := s.CachedClient(ctx, clientID)
	if err != nil {
		s.warn(ctx, "read client key", clientID, err)
	}
	if named == nil {
		named = known
	}

	if named != nil {
		if err := s.dropNameKey(ctx, named.FirstName, named.LastName, clientID); err != nil {
			s.warn(ctx, "delete name key", clientID, err)
		}
	} else {
		s.warn(ctx, "locate name key", clientID, errors.New("client name unknown, by-name entry left in place"))
	}

	keys := []string{s.keys.ClientKey(clientID)}
	legacy, err := s.cache.Keys(ctx, s.keys.PhoneKeyPrefix(clientID))
	if err != nil {
		s.warn(ctx, "list phone keys", clientID, err)
	}
	keys = append(keys, legacy...)

	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.warn(ctx, "delete client keys", clientID, err)
	}
}

// OnBulkLoadStarted drops every cache entry. Unlike the per-client hooks it
// returns its error: a bulk load renumbers clients, so loading over a
// cache that could not be cleared would leave names resolving to the wrong
// clients.
func (s *Synchronizer) OnBulkLoadStarted(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("%w: failed to clear cache: %w", model.ErrStoreUnavailable, err)
	}
	return nil
}

// CachedClient returns the cached record, or nil when it is not cached.
// An undecodable entry is removed and reported as absent.
func (s *Synchronizer) CachedClient(ctx context.Context, clientID int) (*model.Client, error) {
	key := s.keys.ClientKey(clientID)
	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var client model.Client
	if err := json.Unmarshal(data, &client); err != nil {
		s.warn(ctx, "decode "+key, clientID, err)
		_ = s.cache.Delete(ctx, key)
		return nil, nil
	}
	return &client, nil
}

// ResolveName returns the client id stored under the name lookup.
func (s *Synchronizer) ResolveName(ctx context.Context, firstName, lastName string) (int, bool, error) {
	data, err := s.cache.Get(ctx, s.keys.ClientNameKey(firstName, lastName))
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := cache.DecodeID(data)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// dropNameKey deletes the name lookup if it still points at clientID.
func (s *Synchronizer) dropNameKey(ctx context.Context, firstName, lastName string, clientID int) error {
	id, ok, err := s.ResolveName(ctx, firstName, lastName)
	if err != nil {
		return err
	}
	if !ok || id != clientID {
		return nil
	}
	return s.cache.Delete(ctx, s.keys.ClientNameKey(firstName, lastName))
}

func (s *Synchronizer) warn(ctx context.Context, op string, clientID int, err error) {
	log.WithFields(log.Fields{
		"op":        op,
		"client_id": clientID,
	}).Warnf("[Synchronizer] Cache inconsistency: %v", err)
	s.journal.Record(ctx, model.AuditCacheWarning, fmt.Sprintf("client %d", clientID), op+": "+err.Error())
}
