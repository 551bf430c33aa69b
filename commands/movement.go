package commands

import (
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/errors"
	"context"
	"fmt"
	"strconv"
)

type sitHandler struct {
	gateway contract.Movement
}

func (h sitHandler) Handle(_ context.Context, cmd domain.CommandContext) (domain.Result, error) {
	item, err := requiredUUID(cmd, ArgItem)
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Result{}, h.gateway.SitOn(item)
}

type standHandler struct {
	gateway contract.Movement
}

func (h standHandler) Handle(context.Context, domain.CommandContext) (domain.Result, error) {
	return domain.Result{}, h.gateway.Stand()
}

// teleportHandler lands in the middle of the region when no position is given.
type teleportHandler struct {
	gateway contract.Movement
}

func (h teleportHandler) Handle(_ context.Context, cmd domain.CommandContext) (domain.Result, error) {
	region, err := required(cmd, ArgRegion)
	if err != nil {
		return domain.Result{}, err
	}
	position := domain.Vector3{X: 128, Y: 128, Z: 0}
	if raw := argument(cmd, ArgPosition); raw != "" {
		var ok bool
		if position, ok = domain.ParseVector3(raw); !ok {
			return domain.Result{}, fmt.Errorf("%w: %s %q", errors.ErrInvalidArgument, ArgPosition, raw)
		}
	}
	return domain.Result{}, h.gateway.Teleport(region, position)
}

type balanceHandler struct {
	gateway contract.Economy
}

func (h balanceHandler) Handle(context.Context, domain.CommandContext) (domain.Result, error) {
	return domain.NewResult(strconv.Itoa(h.gateway.Balance())), nil
}
