package domain

import (
	"github.com/google/uuid"
)

// OriginKind tells where an inbound command came from.
type OriginKind int

const (
	OriginHTTP OriginKind = iota
	OriginInstantMessage
	OriginLocalChat
)

// Origin identifies the sender of an inbound command. An Origin carrying an ID
// without a Name is ambiguous (agent or object) and must be resolved first.
type Origin struct {
	Kind OriginKind
	Name string
	ID   uuid.UUID
}

func (o Origin) NeedsResolution() bool {
	return o.Name == "" && o.ID != uuid.Nil
}

// PermissionCheck is handed to command handlers so they can gate sub-actions.
type PermissionCheck func(bit Permission) bool

// CommandContext lives for one inbound message. It is never persisted.
type CommandContext struct {
	Sender  Origin
	Group   Group
	Verb    string
	Message string // raw payload, password removed
	Allowed PermissionCheck
}

// Result is what a command handler produces on success.
type Result struct {
	Data []string
}

func NewResult(data ...string) Result {
	return Result{Data: data}
}

// QueueItem is owned by a delivery pipeline from enqueue to its single send attempt.
type QueueItem struct {
	URL     string
	Payload string
}
