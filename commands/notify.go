package commands

import (
	"agent-lab/codec"
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/errors"
	"context"
	"fmt"
	"log/slog"
)

const (
	actionSet    = "set"
	actionRemove = "remove"
	actionGet    = "get"
)

// notifyHandler edits the caller's group binding. A group can only bind the
// notification types it was granted.
type notifyHandler struct {
	log         *slog.Logger
	credentials contract.ICredentialStore
	bindings    Bindings
}

func (h notifyHandler) Handle(_ context.Context, cmd domain.CommandContext) (domain.Result, error) {
	group := cmd.Group.Name
	switch action := argument(cmd, ArgAction); action {
	case actionSet:
		url, err := required(cmd, ArgURL)
		if err != nil {
			return domain.Result{}, err
		}
		mask, err := h.mask(group, argument(cmd, ArgType))
		if err != nil {
			return domain.Result{}, err
		}
		h.bindings.SetBinding(group, url, mask)
		h.log.Info("Notification binding set", "group", group, "types", mask.Names())
		return domain.NewResult(mask.Names()...), nil
	case actionRemove:
		if !h.bindings.RemoveBinding(group) {
			return domain.Result{}, fmt.Errorf("no binding for %q", group)
		}
		return domain.Result{}, nil
	case actionGet:
		binding, ok := h.bindings.Binding(group)
		if !ok {
			return domain.Result{}, nil
		}
		return domain.NewResult(append([]string{binding.URL}, binding.Mask.Names()...)...), nil
	default:
		return domain.Result{}, fmt.Errorf("%w: %q", errors.ErrUnknownAction, action)
	}
}

func (h notifyHandler) mask(group, types string) (domain.Notification, error) {
	names := codec.ParseCSV(types)
	if len(names) == 0 {
		return domain.NotificationNone, fmt.Errorf("%w: %s", errors.ErrMissingArgument, ArgType)
	}
	mask := domain.NotificationNone
	for _, name := range names {
		bit, ok := domain.ParseNotification(name)
		if !ok {
			return domain.NotificationNone, fmt.Errorf("%w: %q", errors.ErrUnknownGrant, name)
		}
		if !h.credentials.HasNotificationGrant(group, bit) {
			return domain.NotificationNone, fmt.Errorf("%w: %s", errors.ErrNoPermission, name)
		}
		mask |= bit
	}
	return mask, nil
}
