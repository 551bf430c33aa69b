package runtime

import (
	"agent-lab/codec"
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/domain/event"
	"agent-lab/resolver"
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync"
)

var _ contract.EventSink = (*BindingTable)(nil)

// BindingTable maps each group to the webhook receiving its world events.
// It is fed by the event fan-out, never by the router.
type BindingTable struct {
	mu          sync.RWMutex
	bindings    map[string]domain.NotificationBinding
	credentials contract.ICredentialStore
	pipeline    contract.IPipeline
	log         *slog.Logger
}

func NewBindingTable(log *slog.Logger, credentials contract.ICredentialStore, pipeline contract.IPipeline) *BindingTable {
	return &BindingTable{
		bindings:    make(map[string]domain.NotificationBinding),
		credentials: credentials,
		pipeline:    pipeline,
		log:         log,
	}
}

// SetBinding replaces whatever the group had bound before.
func (b *BindingTable) SetBinding(group, url string, mask domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bindings[group] = domain.NotificationBinding{Group: group, URL: url, Mask: mask}
}

func (b *BindingTable) RemoveBinding(group string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.bindings[group]
	delete(b.bindings, group)
	return ok
}

func (b *BindingTable) Binding(group string) (domain.NotificationBinding, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	binding, ok := b.bindings[group]
	return binding, ok
}

func (b *BindingTable) Consume(_ context.Context, evt event.Event) error {
	b.Dispatch(evt)
	return nil
}

// Dispatch enqueues one notification per binding whose group is granted the
// event's type and whose mask selects it. It returns how many were accepted.
func (b *BindingTable) Dispatch(evt event.Event) int {
	bit, fields, ok := notificationFields(evt)
	if !ok {
		return 0
	}

	// Copy under the lock, enqueue outside it.
	b.mu.RLock()
	targets := make([]domain.NotificationBinding, 0, len(b.bindings))
	for _, binding := range b.bindings {
		if binding.Mask.Has(bit) {
			targets = append(targets, binding)
		}
	}
	b.mu.RUnlock()
	sort.Slice(targets, func(i, j int) bool { return targets[i].Group < targets[j].Group })

	payload := codec.Encode(codec.EscapePairs(append(codec.Pairs{{Key: "type", Value: bit.String()}}, fields...)))
	accepted := 0
	for _, binding := range targets {
		if !b.credentials.HasNotificationGrant(binding.Group, bit) {
			b.log.Debug("Binding not granted", "group", binding.Group, "type", bit.String())
			continue
		}
		if b.pipeline.Enqueue(domain.QueueItem{URL: binding.URL, Payload: payload}) {
			accepted++
		}
	}
	return accepted
}

// notificationFields builds the per-type field set of a world event.
// Events that are not notifications, such as directory replies, report false.
func notificationFields(evt event.Event) (domain.Notification, codec.Pairs, bool) {
	switch p := evt.Payload.(type) {
	case event.Alert:
		return domain.NotificationAlert, codec.Pairs{{Key: "message", Value: p.Message}}, true
	case event.Balance:
		return domain.NotificationBalance, codec.Pairs{{Key: "balance", Value: strconv.Itoa(p.Balance)}}, true
	case event.MoneyTransfer:
		return domain.NotificationEconomy, codec.Pairs{
			{Key: "firstname", Value: p.FirstName},
			{Key: "lastname", Value: p.LastName},
			{Key: "agent", Value: p.AgentID.String()},
			{Key: "amount", Value: strconv.Itoa(p.Amount)},
			{Key: "transaction", Value: p.Transaction},
			{Key: "description", Value: p.Description},
		}, true
	case event.RegionCrossed:
		return domain.NotificationCrossing, codec.Pairs{
			{Key: "old", Value: p.Old},
			{Key: "new", Value: p.New},
		}, true
	case event.Chat:
		first, last := resolver.SplitName(p.FromName)
		return domain.NotificationLocalChat, codec.Pairs{
			{Key: "firstname", Value: first},
			{Key: "lastname", Value: last},
			{Key: "owner", Value: p.OwnerID.String()},
			{Key: "item", Value: p.SourceID.String()},
			{Key: "message", Value: Redact(p.Message)},
			{Key: "entity", Value: entityName(p.Source)},
		}, true
	case event.InstantMessage:
		first, last := resolver.SplitName(p.FromName)
		return domain.NotificationMessage, codec.Pairs{
			{Key: "firstname", Value: first},
			{Key: "lastname", Value: last},
			{Key: "agent", Value: p.FromID.String()},
			{Key: "message", Value: Redact(p.Message)},
		}, true
	case event.ScriptPermission:
		return domain.NotificationPermission, codec.Pairs{
			{Key: "item", Value: p.ItemID.String()},
			{Key: "task", Value: p.TaskID.String()},
			{Key: "name", Value: p.ObjectName},
			{Key: "region", Value: p.Region},
			{Key: "permissions", Value: strconv.Itoa(p.Permissions)},
		}, true
	case event.TeleportLure:
		first, last := resolver.SplitName(p.FromName)
		return domain.NotificationLure, codec.Pairs{
			{Key: "firstname", Value: first},
			{Key: "lastname", Value: last},
			{Key: "agent", Value: p.FromID.String()},
			{Key: "session", Value: p.SessionID.String()},
			{Key: "message", Value: p.Message},
		}, true
	case event.RLVBehaviour:
		return domain.NotificationRLV, codec.Pairs{
			{Key: "behaviour", Value: p.Behaviour},
			{Key: "option", Value: p.Option},
			{Key: "param", Value: p.Param},
			{Key: "item", Value: p.Source.String()},
		}, true
	}
	return domain.NotificationNone, nil, false
}

func entityName(kind event.SourceKind) string {
	switch kind {
	case event.SourceAgent:
		return "agent"
	case event.SourceObject:
		return "object"
	default:
		return "system"
	}
}
