package rlv

import (
	"agent-lab/domain"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// RuleSet holds the persistent restrictions with set semantics over the
// (behaviour, option, source) triple. Every method holds the lock only for
// the set operation itself.
type RuleSet struct {
	mu    sync.Mutex
	rules []domain.RestrictionRule
}

func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

// Add is idempotent and reports whether the rule was new.
func (s *RuleSet) Add(rule domain.RestrictionRule) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lo.Contains(s.rules, rule) {
		return false
	}
	s.rules = append(s.rules, rule)
	return true
}

func (s *RuleSet) Remove(rule domain.RestrictionRule) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.rules)
	s.rules = lo.Without(s.rules, rule)
	return len(s.rules) != before
}

// RemoveWhere drops every rule matching fn and returns how many went.
func (s *RuleSet) RemoveWhere(fn func(domain.RestrictionRule) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.rules)
	s.rules = lo.Reject(s.rules, func(r domain.RestrictionRule, _ int) bool { return fn(r) })
	return before - len(s.rules)
}

func (s *RuleSet) Select(fn func(domain.RestrictionRule) bool) []domain.RestrictionRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(s.rules, func(r domain.RestrictionRule, _ int) bool { return fn(r) })
}

func (s *RuleSet) Any(fn func(domain.RestrictionRule) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.ContainsBy(s.rules, fn)
}

func (s *RuleSet) Snapshot() []domain.RestrictionRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RestrictionRule(nil), s.rules...)
}

func (s *RuleSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rules)
}

func fromSource(source uuid.UUID) func(domain.RestrictionRule) bool {
	return func(r domain.RestrictionRule) bool { return r.Source == source }
}

func behaviourContains(filter string) func(domain.RestrictionRule) bool {
	return func(r domain.RestrictionRule) bool { return strings.Contains(r.Behaviour, filter) }
}
