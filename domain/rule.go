package domain

import (
	"github.com/google/uuid"
)

// RestrictionRule is one persistent RLV rule. Rules have set semantics over
// the whole triple.
type RestrictionRule struct {
	Behaviour string
	Option    string
	Source    uuid.UUID
}

// CacheKind distinguishes what a resolver cache entry names.
type CacheKind string

const (
	CacheAgent CacheKind = "agent"
	CacheGroup CacheKind = "group"
)

// CacheEntry is one memoised name <-> id pair.
type CacheEntry struct {
	Kind CacheKind
	ID   uuid.UUID
	Name string
}
