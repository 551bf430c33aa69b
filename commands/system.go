package commands

import (
	"agent-lab/domain"
	"agent-lab/errors"
	"agent-lab/rlv"
	"context"
	"fmt"
	"strconv"

	"github.com/samber/lo"
)

type versionHandler struct {
	version string
}

func (h versionHandler) Handle(context.Context, domain.CommandContext) (domain.Result, error) {
	return domain.NewResult(h.version), nil
}

const (
	actionEnable  = "enable"
	actionDisable = "disable"
	actionStatus  = "status"
	actionList    = "list"
	actionClear   = "clear"
)

// rlvHandler toggles the rule engine and inspects or clears its rules.
// list flattens every rule into source, behaviour, option.
type rlvHandler struct {
	rules *rlv.Engine
}

func (h rlvHandler) Handle(_ context.Context, cmd domain.CommandContext) (domain.Result, error) {
	switch action := argument(cmd, ArgAction); action {
	case actionEnable:
		h.rules.Enable()
		return domain.Result{}, nil
	case actionDisable:
		h.rules.Disable()
		return domain.Result{}, nil
	case actionStatus:
		return domain.NewResult(strconv.FormatBool(h.rules.Enabled())), nil
	case actionList:
		rows := lo.FlatMap(h.rules.Rules(), func(r domain.RestrictionRule, _ int) []string {
			return []string{r.Source.String(), r.Behaviour, r.Option}
		})
		return domain.NewResult(rows...), nil
	case actionClear:
		var removed int
		if filter := argument(cmd, ArgFilter); filter != "" {
			removed = h.rules.Clear(cmd.Sender.ID, filter)
		} else {
			removed = h.rules.ClearAll()
		}
		return domain.NewResult(strconv.Itoa(removed)), nil
	default:
		return domain.Result{}, fmt.Errorf("%w: %q", errors.ErrUnknownAction, action)
	}
}
