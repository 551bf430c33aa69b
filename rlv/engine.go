package rlv

import (
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/domain/event"
	"agent-lab/errors"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Engine interprets RLV lines sent by in-world objects. Persistent rules are
// kept in a RuleSet, one-shot behaviours act on the gateway directly.
type Engine struct {
	log            *slog.Logger
	gateway        contract.Gateway
	rules          *RuleSet
	enabled        atomic.Bool
	removeOnRevoke bool
	observer       func(event.RLVBehaviour)
	behaviours     map[string]behaviour
}

type Option func(*Engine)

// WithRemoveOnRevoke makes "n" and "rem" delete the matching rule. Without
// it they insert the rule exactly like "y" and "add".
func WithRemoveOnRevoke(remove bool) Option {
	return func(e *Engine) { e.removeOnRevoke = remove }
}

// WithObserver is called after every instruction that was applied.
func WithObserver(fn func(event.RLVBehaviour)) Option {
	return func(e *Engine) { e.observer = fn }
}

func NewEngine(log *slog.Logger, gateway contract.Gateway, enabled bool, opts ...Option) *Engine {
	e := &Engine{
		log:        log,
		gateway:    gateway,
		rules:      NewRuleSet(),
		behaviours: behaviourTable(),
	}
	e.enabled.Store(enabled)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Enable()       { e.enabled.Store(true) }
func (e *Engine) Disable()      { e.enabled.Store(false) }
func (e *Engine) Enabled() bool { return e.enabled.Load() }

func (e *Engine) Rules() []domain.RestrictionRule {
	return e.rules.Snapshot()
}

// Process runs every instruction of an RLV line sent by source. Failures are
// logged per instruction and never stop the following ones.
func (e *Engine) Process(ctx context.Context, source uuid.UUID, message string) {
	if !e.Enabled() || !IsCommand(message) {
		return
	}
	for _, in := range Parse(message) {
		if err := e.apply(ctx, source, in); err != nil {
			e.log.Warn("RLV instruction failed",
				"behaviour", in.Behaviour, "option", in.Option, "param", in.Param,
				"source", source, "error", err)
			continue
		}
		if e.observer != nil {
			e.observer(event.RLVBehaviour{Behaviour: in.Behaviour, Option: in.Option, Param: in.Param, Source: source})
		}
	}
}

func (e *Engine) apply(ctx context.Context, source uuid.UUID, in Instruction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", in.Behaviour, r)
		}
	}()

	rule := domain.RestrictionRule{Behaviour: in.Behaviour, Option: in.Option, Source: source}
	switch in.Param {
	case "y", "add":
		e.rules.Add(rule)
		return nil
	case "n", "rem":
		if e.removeOnRevoke {
			e.rules.Remove(rule)
		} else {
			e.rules.Add(rule)
		}
		return nil
	}

	fn, ok := e.behaviours[in.Behaviour]
	if !ok {
		return fmt.Errorf("%s: %w", in.Behaviour, errors.ErrNotImplemented)
	}
	return fn(ctx, e, source, in)
}

// Clear removes every rule whose behaviour contains filter, from any source,
// or every rule of source when filter is empty.
func (e *Engine) Clear(source uuid.UUID, filter string) int {
	if filter != "" {
		return e.rules.RemoveWhere(behaviourContains(filter))
	}
	return e.rules.RemoveWhere(fromSource(source))
}

// ClearAll drops every rule regardless of its source.
func (e *Engine) ClearAll() int {
	return e.rules.RemoveWhere(func(domain.RestrictionRule) bool { return true })
}

func (e *Engine) reply(param, text string) error {
	channel, err := strconv.Atoi(param)
	if err != nil || channel <= 0 {
		return fmt.Errorf("reply channel %q: %w", param, errors.ErrInvalidArgument)
	}
	return e.gateway.Say(channel, text)
}
