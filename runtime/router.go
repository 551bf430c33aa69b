package runtime

import (
	"agent-lab/codec"
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/errors"
	"agent-lab/resolver"
	"context"
	"fmt"
	"log/slog"
)

const (
	KeyGroup    = "group"
	KeyPassword = "password"
	KeyCommand  = "command"
	KeyCallback = "callback"

	KeySuccess = "success"
	KeyError   = "error"
	KeyData    = "data"
)

var (
	protocolKeys = []string{KeyGroup, KeyPassword, KeyCommand, KeyCallback}
	responseKeys = []string{KeySuccess, KeyError, KeyData}
)

// Response is what the router answers. Values are kept unescaped and only
// escaped by Pairs.
type Response struct {
	Success bool
	Error   string
	Data    []string
	Echo    codec.Pairs
}

func (r *Response) Pairs() codec.Pairs {
	success := "False"
	if r.Success {
		success = "True"
	}
	pairs := codec.Pairs{{Key: KeySuccess, Value: success}}
	if r.Error != "" {
		pairs = append(pairs, codec.Pair{Key: KeyError, Value: r.Error})
	}
	if len(r.Data) > 0 {
		pairs = append(pairs, codec.Pair{Key: KeyData, Value: codec.CSV(r.Data)})
	}
	pairs = append(pairs, r.Echo...)
	return codec.EscapePairs(pairs)
}

func (r *Response) Encode() string {
	return codec.Encode(r.Pairs())
}

// Router authenticates inbound commands, runs their handler and shapes the
// response. It holds no lock while a handler runs.
type Router struct {
	log         *slog.Logger
	credentials contract.ICredentialStore
	resolver    resolver.IResolver
	registry    *Registry
	callbacks   contract.IPipeline
	reserved    Set
}

func NewRouter(log *slog.Logger, credentials contract.ICredentialStore, resolver resolver.IResolver,
	registry *Registry, callbacks contract.IPipeline) *Router {
	reserved := registry.ArgumentKeys()
	for _, key := range append(protocolKeys, responseKeys...) {
		reserved[key] = struct{}{}
	}
	return &Router{
		log:         log,
		credentials: credentials,
		resolver:    resolver,
		registry:    registry,
		callbacks:   callbacks,
		reserved:    reserved,
	}
}

// Redact strips the password from a command payload. Text carrying no
// password is returned unchanged.
func Redact(message string) string {
	if _, ok := codec.Decode(message).Get(KeyPassword); !ok {
		return message
	}
	return codec.Delete(KeyPassword, message)
}

// Dispatch returns nil whenever the request must not be answered: missing or
// wrong credentials, or a sender that could not be resolved.
func (r *Router) Dispatch(ctx context.Context, raw string, origin domain.Origin) *Response {
	request := codec.Decode(raw)
	group := unescaped(request, KeyGroup)
	password := unescaped(request, KeyPassword)
	if group == "" || password == "" {
		return nil
	}
	if !r.credentials.Authenticate(group, password) {
		r.log.Warn("Authentication failed", "group", group, "origin", origin.Kind)
		return nil
	}
	message := codec.Delete(KeyPassword, raw)

	if origin.NeedsResolution() {
		name, err := r.resolver.AgentName(ctx, origin.ID)
		if err != nil {
			r.log.Debug("Could not resolve sender", "id", origin.ID, "error", err)
			return nil
		}
		origin.Name = name
	}

	verb := unescaped(request, KeyCommand)
	var response *Response
	if cmd, ok := r.registry.Lookup(verb); ok {
		profile, _ := r.credentials.Group(group)
		response = r.execute(ctx, cmd, domain.CommandContext{
			Sender:  origin,
			Group:   profile,
			Verb:    verb,
			Message: message,
			Allowed: func(bit domain.Permission) bool { return r.credentials.HasPermission(group, bit) },
		})
	} else {
		response = &Response{Error: errors.ErrCommandNotFound.Error()}
	}

	response.Echo = r.afterburn(request)

	if url := unescaped(request, KeyCallback); url != "" {
		r.callbacks.Enqueue(domain.QueueItem{URL: url, Payload: response.Encode()})
	}
	return response
}

// execute is the single decorator around every handler: base permission
// check, then the handler with any error or panic turned into a failure.
func (r *Router) execute(ctx context.Context, cmd Command, cc domain.CommandContext) (response *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Command handler panicked", "command", cmd.Verb, "panic", rec)
			response = &Response{Error: fmt.Errorf("%w: %v", errors.ErrHandlerPanic, rec).Error()}
		}
	}()

	if cmd.Permission != domain.PermissionNone && !cc.Allowed(cmd.Permission) {
		return &Response{Error: errors.ErrNoPermission.Error()}
	}
	result, err := cmd.Handler.Handle(ctx, cc)
	if err != nil {
		r.log.Debug("Command failed", "command", cmd.Verb, "group", cc.Group.Name, "error", err)
		return &Response{Error: err.Error()}
	}
	return &Response{Success: true, Data: result.Data}
}

// afterburn echoes every request key the router and handlers do not own.
func (r *Router) afterburn(request codec.Pairs) codec.Pairs {
	var echo codec.Pairs
	for _, pair := range request {
		if _, reserved := r.reserved[pair.Key]; reserved {
			continue
		}
		echo = append(echo, codec.Pair{Key: pair.Key, Value: codec.Unescape(pair.Value)})
	}
	return echo
}

func unescaped(pairs codec.Pairs, key string) string {
	value, _ := pairs.Get(key)
	return codec.Unescape(value)
}
