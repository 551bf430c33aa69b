package sink

import (
	"agent-lab/contract"
	"agent-lab/domain/event"
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Policy is the read side of the RLV rule set.
type Policy interface {
	AcceptsPermission() bool
	AcceptsTeleport(agent uuid.UUID) bool
}

var _ contract.EventSink = (*PromptPolicy)(nil)

// PromptPolicy answers script permission requests and teleport offers on the
// owner's behalf when the rule set allows it. Other prompts are left alone.
type PromptPolicy struct {
	log     *slog.Logger
	policy  Policy
	prompts contract.Prompts
}

func NewPromptPolicy(log *slog.Logger, policy Policy, prompts contract.Prompts) *PromptPolicy {
	return &PromptPolicy{log: log, policy: policy, prompts: prompts}
}

func (p *PromptPolicy) Consume(_ context.Context, e event.Event) error {
	switch evt := e.Payload.(type) {
	case event.ScriptPermission:
		if !p.policy.AcceptsPermission() {
			return nil
		}
		p.log.Debug("Granting script permissions", "task", evt.TaskID, "object", evt.ObjectName)
		return p.prompts.AnswerScriptPermission(evt.TaskID, evt.ItemID, evt.Permissions)
	case event.TeleportLure:
		if !p.policy.AcceptsTeleport(evt.FromID) {
			return nil
		}
		p.log.Debug("Accepting teleport offer", "from", evt.FromID)
		return p.prompts.AcceptTeleportLure(evt.FromID, evt.SessionID)
	}
	return nil
}
