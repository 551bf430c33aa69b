package auth

import (
	"agent-lab/contract"
	"agent-lab/domain"
	"crypto/subtle"
	"sync/atomic"

	"github.com/google/uuid"
)

var _ contract.ICredentialStore = (*Store)(nil)

type registry struct {
	byID   map[uuid.UUID]domain.Group
	byName map[string]uuid.UUID
}

// Store is the read-mostly group registry. Reads never lock: a loader
// replaces the whole snapshot at once and readers keep whichever snapshot
// they started with.
type Store struct {
	snapshot atomic.Pointer[registry]
}

func NewStore(groups ...domain.Group) *Store {
	s := &Store{}
	s.Replace(groups)
	return s
}

// Replace swaps the registry. Later duplicates of an id or name are ignored;
// LoadFile rejects them before they get here.
func (s *Store) Replace(groups []domain.Group) {
	r := &registry{
		byID:   make(map[uuid.UUID]domain.Group, len(groups)),
		byName: make(map[string]uuid.UUID, len(groups)),
	}
	for _, g := range groups {
		if _, dup := r.byID[g.ID]; dup {
			continue
		}
		if _, dup := r.byName[g.Name]; dup {
			continue
		}
		r.byID[g.ID] = g
		r.byName[g.Name] = g.ID
	}
	s.snapshot.Store(r)
}

// Group resolves nameOrID as a UUID first, then by exact name.
func (s *Store) Group(nameOrID string) (domain.Group, bool) {
	r := s.snapshot.Load()
	if id, err := uuid.Parse(nameOrID); err == nil {
		if g, ok := r.byID[id]; ok {
			return g, true
		}
	}
	id, ok := r.byName[nameOrID]
	if !ok {
		return domain.Group{}, false
	}
	return r.byID[id], true
}

func (s *Store) Groups() []domain.Group {
	r := s.snapshot.Load()
	out := make([]domain.Group, 0, len(r.byID))
	for _, g := range r.byID {
		out = append(out, g)
	}
	return out
}

// Authenticate compares the secret byte for byte, without normalisation.
func (s *Store) Authenticate(group, secret string) bool {
	g, ok := s.Group(group)
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.Secret), []byte(secret)) == 1
}

func (s *Store) HasPermission(group string, bit domain.Permission) bool {
	g, ok := s.Group(group)
	return ok && g.Permissions.Has(bit)
}

func (s *Store) HasNotificationGrant(group string, bit domain.Notification) bool {
	g, ok := s.Group(group)
	return ok && g.Notifications.Has(bit)
}
