// Package resolver memoises name <-> id lookups against the World Gateway.
//
// Entries are only ever added during a session, never evicted: the number of
// distinct agents and groups a single agent session meets stays small.
package resolver

import (
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/domain/event"
	"agent-lab/errors"
	"agent-lab/gateway"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type IResolver interface {
	AgentID(ctx context.Context, firstName, lastName string) (uuid.UUID, error)
	AgentName(ctx context.Context, id uuid.UUID) (string, error)
	GroupID(ctx context.Context, name string) (uuid.UUID, error)
}

var _ IResolver = (*Resolver)(nil)

type index struct {
	byName map[string]uuid.UUID // lower-cased name
	byID   map[uuid.UUID]string
}

func newIndex() index {
	return index{byName: make(map[string]uuid.UUID), byID: make(map[uuid.UUID]string)}
}

type Resolver struct {
	mu      sync.Mutex
	log     *slog.Logger
	gateway contract.DirectoryGateway
	timeout time.Duration
	agents  index
	groups  index
}

func NewResolver(log *slog.Logger, gateway contract.DirectoryGateway, timeout time.Duration) *Resolver {
	return &Resolver{
		log:     log,
		gateway: gateway,
		timeout: timeout,
		agents:  newIndex(),
		groups:  newIndex(),
	}
}

// AgentID resolves "First Last" to an agent id. A missing last name is
// treated as "Resident".
func (r *Resolver) AgentID(ctx context.Context, firstName, lastName string) (uuid.UUID, error) {
	name := FullName(firstName, lastName)
	if id, ok := r.cachedID(&r.agents, name); ok {
		return id, nil
	}

	reply, err := gateway.Await(ctx, r.gateway, event.AgentSearchReplyType, r.timeout,
		func() error { return r.gateway.RequestAgentSearch(name) },
		func(e event.Event) (event.AgentSearchReply, bool) {
			reply, ok := e.Payload.(event.AgentSearchReply)
			return reply, ok && strings.EqualFold(reply.Query, name)
		})
	if err != nil {
		r.log.Debug("Agent search failed", "name", name, "error", err)
		return uuid.Nil, err
	}
	if reply.ID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s", errors.ErrAgentNotFound, name)
	}
	if reply.Name == "" {
		reply.Name = name
	}
	r.insert(&r.agents, reply.ID, reply.Name)
	return reply.ID, nil
}

func (r *Resolver) AgentName(ctx context.Context, id uuid.UUID) (string, error) {
	if name, ok := r.cachedName(&r.agents, id); ok {
		return name, nil
	}

	name, err := gateway.Await(ctx, r.gateway, event.AgentNameReplyType, r.timeout,
		func() error { return r.gateway.RequestAgentName(id) },
		func(e event.Event) (string, bool) {
			reply, ok := e.Payload.(event.AgentNameReply)
			return reply.Name, ok && reply.ID == id
		})
	if err != nil {
		r.log.Debug("Agent name lookup failed", "id", id, "error", err)
		return "", err
	}
	r.insert(&r.agents, id, name)
	return name, nil
}

func (r *Resolver) GroupID(ctx context.Context, name string) (uuid.UUID, error) {
	if id, ok := r.cachedID(&r.groups, name); ok {
		return id, nil
	}

	reply, err := gateway.Await(ctx, r.gateway, event.GroupSearchReplyType, r.timeout,
		func() error { return r.gateway.RequestGroupSearch(name) },
		func(e event.Event) (event.GroupSearchReply, bool) {
			reply, ok := e.Payload.(event.GroupSearchReply)
			return reply, ok && strings.EqualFold(reply.Query, name)
		})
	if err != nil {
		return uuid.Nil, err
	}
	if reply.ID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %s", errors.ErrGroupNotFound, name)
	}
	if reply.Name == "" {
		reply.Name = name
	}
	r.insert(&r.groups, reply.ID, reply.Name)
	return reply.ID, nil
}

// Snapshot copies every cached pair, for saving at session end.
func (r *Resolver) Snapshot() []domain.CacheEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]domain.CacheEntry, 0, len(r.agents.byID)+len(r.groups.byID))
	for id, name := range r.agents.byID {
		entries = append(entries, domain.CacheEntry{Kind: domain.CacheAgent, ID: id, Name: name})
	}
	for id, name := range r.groups.byID {
		entries = append(entries, domain.CacheEntry{Kind: domain.CacheGroup, ID: id, Name: name})
	}
	return entries
}

// Load seeds the cache, typically from the previous session's snapshot.
func (r *Resolver) Load(entries []domain.CacheEntry) {
	for _, e := range entries {
		switch e.Kind {
		case domain.CacheAgent:
			r.insert(&r.agents, e.ID, e.Name)
		case domain.CacheGroup:
			r.insert(&r.groups, e.ID, e.Name)
		}
	}
}

func (r *Resolver) cachedID(idx *index, name string) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := idx.byName[strings.ToLower(name)]
	return id, ok
}

func (r *Resolver) cachedName(idx *index, id uuid.UUID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := idx.byID[id]
	return name, ok
}

func (r *Resolver) insert(idx *index, id uuid.UUID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx.byName[strings.ToLower(name)] = id
	idx.byID[id] = name
}

// FullName joins a legacy first/last name pair.
func FullName(firstName, lastName string) string {
	if lastName == "" {
		lastName = "Resident"
	}
	return strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName)
}

// SplitName is the inverse of FullName.
func SplitName(name string) (string, string) {
	first, last, ok := strings.Cut(strings.TrimSpace(name), " ")
	if !ok || last == "" {
		return first, "Resident"
	}
	return first, last
}
