// Package event holds the envelope and payloads pushed by the World Gateway.
package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ChatType             Type = "CHAT"
	InstantMessageType   Type = "INSTANT_MESSAGE"
	AgentNameReplyType   Type = "AGENT_NAME_REPLY"
	AgentSearchReplyType Type = "AGENT_SEARCH_REPLY"
	GroupSearchReplyType Type = "GROUP_SEARCH_REPLY"
	AlertType            Type = "ALERT"
	BalanceType          Type = "BALANCE"
	MoneyTransferType    Type = "MONEY_TRANSFER"
	RegionCrossedType    Type = "REGION_CROSSED"
	ScriptPermissionType Type = "SCRIPT_PERMISSION"
	TeleportLureType     Type = "TELEPORT_LURE"
	RLVBehaviourType     Type = "RLV_BEHAVIOUR"
)

// Event is the envelope of everything the World Gateway pushes.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

func New(t Type, payload any) Event {
	return Event{Type: t, CreatedAt: time.Now().UTC(), Payload: payload}
}

type ChatKind int

const (
	ChatNormal ChatKind = iota
	ChatWhisper
	ChatShout
	ChatOwnerSay
)

type SourceKind int

const (
	SourceSystem SourceKind = iota
	SourceAgent
	SourceObject
)

type Chat struct {
	Kind     ChatKind
	Source   SourceKind
	SourceID uuid.UUID
	OwnerID  uuid.UUID
	FromName string
	Message  string
}

type InstantMessage struct {
	FromID     uuid.UUID
	FromName   string // empty when the viewer could not tell agent from object
	SessionID  uuid.UUID
	Message    string
	FromObject bool
}

type AgentNameReply struct {
	ID   uuid.UUID
	Name string
}

type AgentSearchReply struct {
	Query string
	ID    uuid.UUID
	Name  string
}

type GroupSearchReply struct {
	Query string
	ID    uuid.UUID
	Name  string
}

type Alert struct {
	Message string
}

type Balance struct {
	Balance int
}

type MoneyTransfer struct {
	AgentID     uuid.UUID
	FirstName   string
	LastName    string
	Amount      int
	Transaction string
	Description string
}

type RegionCrossed struct {
	Old string
	New string
}

type ScriptPermission struct {
	TaskID      uuid.UUID
	ItemID      uuid.UUID
	ObjectName  string
	Region      string
	Permissions int
}

type TeleportLure struct {
	FromID    uuid.UUID
	FromName  string
	SessionID uuid.UUID
	Message   string
}

type RLVBehaviour struct {
	Behaviour string
	Option    string
	Param     string
	Source    uuid.UUID
}
