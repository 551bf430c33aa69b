package runtime

import (
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/domain/event"
	"agent-lab/rlv"
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// RuleProcessor runs an RLV line on behalf of the object that said it.
type RuleProcessor interface {
	Process(ctx context.Context, source uuid.UUID, message string)
}

var _ contract.EventSink = (*Inbound)(nil)

// Inbound routes chat and instant messages drained by the pool workers.
// Owner-say lines from objects starting with "@" go to the rule engine,
// everything else is offered to the router which only answers through the
// callback pipeline.
type Inbound struct {
	log    *slog.Logger
	router *Router
	rules  RuleProcessor
}

func NewInbound(log *slog.Logger, router *Router, rules RuleProcessor) *Inbound {
	return &Inbound{log: log, router: router, rules: rules}
}

func (i *Inbound) Consume(ctx context.Context, e event.Event) error {
	switch msg := e.Payload.(type) {
	case event.Chat:
		if msg.Kind == event.ChatOwnerSay && msg.Source == event.SourceObject && rlv.IsCommand(msg.Message) {
			i.rules.Process(ctx, msg.SourceID, msg.Message)
			return nil
		}
		i.router.Dispatch(ctx, msg.Message, domain.Origin{
			Kind: domain.OriginLocalChat,
			Name: msg.FromName,
			ID:   msg.SourceID,
		})
	case event.InstantMessage:
		i.router.Dispatch(ctx, msg.Message, domain.Origin{
			Kind: domain.OriginInstantMessage,
			Name: msg.FromName,
			ID:   msg.FromID,
		})
	default:
		i.log.Debug("Ignoring inbound event", "type", e.Type)
	}
	return nil
}
