// Package commands holds the handlers bound to command verbs and the
// registry wiring them to the permission each one requires.
package commands

import (
	"agent-lab/codec"
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/errors"
	"agent-lab/resolver"
	"agent-lab/rlv"
	"agent-lab/runtime"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Request keys read by the handlers below.
const (
	ArgAction    = "action"
	ArgEntity    = "entity"
	ArgMessage   = "message"
	ArgChannel   = "channel"
	ArgAgent     = "agent"
	ArgFirstName = "firstname"
	ArgLastName  = "lastname"
	ArgItem      = "item"
	ArgRegion    = "region"
	ArgPosition  = "position"
	ArgType      = "type"
	ArgURL       = "url"
	ArgFilter    = "filter"
)

// Bindings is the part of the notification binding table the notify verb edits.
type Bindings interface {
	SetBinding(group, url string, mask domain.Notification)
	RemoveBinding(group string) bool
	Binding(group string) (domain.NotificationBinding, bool)
}

type Dependencies struct {
	Log         *slog.Logger
	Gateway     contract.Gateway
	Resolver    resolver.IResolver
	Credentials contract.ICredentialStore
	Bindings    Bindings
	Rules       *rlv.Engine
	Version     string
}

// Registry builds the verb table of one agent session.
func Registry(deps Dependencies) *runtime.Registry {
	return runtime.NewRegistry(
		runtime.Command{
			Verb:    "version",
			Handler: versionHandler{version: deps.Version},
		},
		runtime.Command{
			Verb:       "tell",
			Permission: domain.PermissionTalk,
			Arguments:  []string{ArgEntity, ArgMessage, ArgChannel, ArgAgent, ArgFirstName, ArgLastName},
			Handler:    tellHandler{gateway: deps.Gateway, resolver: deps.Resolver},
		},
		runtime.Command{
			Verb:       "name2key",
			Permission: domain.PermissionDirectory,
			Arguments:  []string{ArgFirstName, ArgLastName},
			Handler:    nameToKeyHandler{resolver: deps.Resolver},
		},
		runtime.Command{
			Verb:       "key2name",
			Permission: domain.PermissionDirectory,
			Arguments:  []string{ArgAgent},
			Handler:    keyToNameHandler{resolver: deps.Resolver},
		},
		runtime.Command{
			Verb:       "sit",
			Permission: domain.PermissionMovement,
			Arguments:  []string{ArgItem},
			Handler:    sitHandler{gateway: deps.Gateway},
		},
		runtime.Command{
			Verb:       "stand",
			Permission: domain.PermissionMovement,
			Handler:    standHandler{gateway: deps.Gateway},
		},
		runtime.Command{
			Verb:       "teleport",
			Permission: domain.PermissionMovement,
			Arguments:  []string{ArgRegion, ArgPosition},
			Handler:    teleportHandler{gateway: deps.Gateway},
		},
		runtime.Command{
			Verb:       "getbalance",
			Permission: domain.PermissionEconomy,
			Handler:    balanceHandler{gateway: deps.Gateway},
		},
		runtime.Command{
			Verb:       "notify",
			Permission: domain.PermissionNotifications,
			Arguments:  []string{ArgAction, ArgType, ArgURL},
			Handler:    notifyHandler{log: deps.Log, credentials: deps.Credentials, bindings: deps.Bindings},
		},
		runtime.Command{
			Verb:       "rlv",
			Permission: domain.PermissionSystem,
			Arguments:  []string{ArgAction, ArgFilter},
			Handler:    rlvHandler{rules: deps.Rules},
		},
	)
}

// argument reads and unescapes one request value.
func argument(cmd domain.CommandContext, key string) string {
	return codec.Unescape(codec.Get(key, cmd.Message))
}

func required(cmd domain.CommandContext, key string) (string, error) {
	value := argument(cmd, key)
	if value == "" {
		return "", fmt.Errorf("%w: %s", errors.ErrMissingArgument, key)
	}
	return value, nil
}

func requiredUUID(cmd domain.CommandContext, key string) (uuid.UUID, error) {
	value, err := required(cmd, key)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", errors.ErrInvalidArgument, key)
	}
	return id, nil
}
