package commands

import (
	"agent-lab/domain"
	"agent-lab/resolver"
	"context"
)

type nameToKeyHandler struct {
	resolver resolver.IResolver
}

func (h nameToKeyHandler) Handle(ctx context.Context, cmd domain.CommandContext) (domain.Result, error) {
	firstName, err := required(cmd, ArgFirstName)
	if err != nil {
		return domain.Result{}, err
	}
	id, err := h.resolver.AgentID(ctx, firstName, argument(cmd, ArgLastName))
	if err != nil {
		return domain.Result{}, err
	}
	return domain.NewResult(id.String()), nil
}

type keyToNameHandler struct {
	resolver resolver.IResolver
}

func (h keyToNameHandler) Handle(ctx context.Context, cmd domain.CommandContext) (domain.Result, error) {
	id, err := requiredUUID(cmd, ArgAgent)
	if err != nil {
		return domain.Result{}, err
	}
	name, err := h.resolver.AgentName(ctx, id)
	if err != nil {
		return domain.Result{}, err
	}
	return domain.NewResult(name), nil
}
