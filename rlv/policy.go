package rlv

import (
	"agent-lab/domain"
	"strings"

	"github.com/google/uuid"
)

const (
	acceptPermission = "acceptpermission"
	acceptTeleport   = "accepttp"
)

// AcceptsPermission tells whether any object asked for script permission
// prompts to be granted without asking.
func (e *Engine) AcceptsPermission() bool {
	return e.rules.Any(func(r domain.RestrictionRule) bool { return r.Behaviour == acceptPermission })
}

// AcceptsTeleport is true when an accepttp rule names agent, or names nobody.
func (e *Engine) AcceptsTeleport(agent uuid.UUID) bool {
	return e.rules.Any(func(r domain.RestrictionRule) bool {
		return r.Behaviour == acceptTeleport && (r.Option == "" || strings.EqualFold(r.Option, agent.String()))
	})
}
