package commands

import (
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/errors"
	"agent-lab/resolver"
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const (
	entityLocal  = "local"
	entityAvatar = "avatar"
)

// tellHandler speaks in local chat (the default) or sends an instant
// message to an agent given by id or by name.
type tellHandler struct {
	gateway  contract.Communication
	resolver resolver.IResolver
}

func (h tellHandler) Handle(ctx context.Context, cmd domain.CommandContext) (domain.Result, error) {
	message, err := required(cmd, ArgMessage)
	if err != nil {
		return domain.Result{}, err
	}

	switch entity := argument(cmd, ArgEntity); entity {
	case "", entityLocal:
		channel := 0
		if raw := argument(cmd, ArgChannel); raw != "" {
			if channel, err = strconv.Atoi(raw); err != nil {
				return domain.Result{}, fmt.Errorf("%w: %s", errors.ErrInvalidArgument, ArgChannel)
			}
		}
		return domain.Result{}, h.gateway.Say(channel, message)
	case entityAvatar:
		agent, err := h.agent(ctx, cmd)
		if err != nil {
			return domain.Result{}, err
		}
		return domain.Result{}, h.gateway.InstantMessage(agent, message)
	default:
		return domain.Result{}, fmt.Errorf("%w: entity %q", errors.ErrUnknownAction, entity)
	}
}

func (h tellHandler) agent(ctx context.Context, cmd domain.CommandContext) (uuid.UUID, error) {
	if argument(cmd, ArgAgent) != "" {
		return requiredUUID(cmd, ArgAgent)
	}
	firstName, err := required(cmd, ArgFirstName)
	if err != nil {
		return uuid.Nil, err
	}
	return h.resolver.AgentID(ctx, firstName, argument(cmd, ArgLastName))
}
