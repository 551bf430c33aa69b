package contract

import (
	"agent-lab/domain"

	"github.com/google/uuid"
)

type Communication interface {
	Say(channel int, message string) error
	InstantMessage(agent uuid.UUID, message string) error
}

type Movement interface {
	SitOn(object uuid.UUID) error
	Stand() error
	SittingOn() uuid.UUID
	Teleport(region string, position domain.Vector3) error
	TeleportGlobal(position domain.Vector3) error
	Turn(radians float64) error
}

type Appearance interface {
	Wearables() []domain.Wearable
	Attachments() []domain.Attachment
	Wear(items []domain.InventoryItem, replace bool) error
	TakeOff(items []domain.InventoryItem) error
	Attach(items []domain.InventoryItem, replace bool) error
	Detach(items []domain.InventoryItem) error
}

type Inventory interface {
	// SharedRoot is the "#RLV" folder, nil when absent.
	SharedRoot() *domain.InventoryFolder
}

type Groups interface {
	ActiveGroup() (uuid.UUID, string)
	ActivateGroup(id uuid.UUID) error
	GroupByName(name string) (uuid.UUID, bool)
}

type Prompts interface {
	AnswerScriptPermission(task, item uuid.UUID, permissions int) error
	AcceptTeleportLure(agent, session uuid.UUID) error
}

type Economy interface {
	Balance() int
}

// Gateway is the whole façade over the virtual-world client.
type Gateway interface {
	EventSource
	Directory
	Communication
	Movement
	Appearance
	Inventory
	Groups
	Prompts
	Economy
}
