// Package domain contains the core concepts of the agent: groups and their
// grants, command contexts, restriction rules and the world value types
// exchanged with the World Gateway.
// No runtime, network or storage logic should be added here.
package domain

import (
	"sort"

	"github.com/google/uuid"
)

// Permission is a bitmask of command families a group may use.
type Permission uint64

const PermissionNone Permission = 0

const (
	PermissionMovement Permission = 1 << iota
	PermissionEconomy
	PermissionLand
	PermissionGrooming
	PermissionInventory
	PermissionInteract
	PermissionMute
	PermissionTalk
	PermissionDirectory
	PermissionSystem
	PermissionFriendship
	PermissionGroup
	PermissionNotifications
	PermissionExecute
)

var permissionNames = map[string]Permission{
	"movement":      PermissionMovement,
	"economy":       PermissionEconomy,
	"land":          PermissionLand,
	"grooming":      PermissionGrooming,
	"inventory":     PermissionInventory,
	"interact":      PermissionInteract,
	"mute":          PermissionMute,
	"talk":          PermissionTalk,
	"directory":     PermissionDirectory,
	"system":        PermissionSystem,
	"friendship":    PermissionFriendship,
	"group":         PermissionGroup,
	"notifications": PermissionNotifications,
	"execute":       PermissionExecute,
}

// Notification is a bitmask of world event types.
type Notification uint64

const NotificationNone Notification = 0

const (
	NotificationAlert Notification = 1 << iota
	NotificationBalance
	NotificationEconomy
	NotificationCrossing
	NotificationLocalChat
	NotificationMessage
	NotificationPermission
	NotificationLure
	NotificationRLV
)

var notificationNames = map[string]Notification{
	"alert":      NotificationAlert,
	"balance":    NotificationBalance,
	"economy":    NotificationEconomy,
	"crossing":   NotificationCrossing,
	"local":      NotificationLocalChat,
	"message":    NotificationMessage,
	"permission": NotificationPermission,
	"lure":       NotificationLure,
	"rlv":        NotificationRLV,
}

// Group is a set of credentials sharing one secret and one pair of grants.
type Group struct {
	ID            uuid.UUID
	Name          string
	Secret        string
	Permissions   Permission
	Notifications Notification
}

// Has is false for the zero bit.
func (p Permission) Has(bit Permission) bool {
	return bit != PermissionNone && p&bit == bit
}

func (n Notification) Has(bit Notification) bool {
	return bit != NotificationNone && n&bit == bit
}

// ParsePermission returns the bit for a single permission name.
func ParsePermission(name string) (Permission, bool) {
	p, ok := permissionNames[name]
	return p, ok
}

func ParseNotification(name string) (Notification, bool) {
	n, ok := notificationNames[name]
	return n, ok
}

// String of a notification bit is its wire name, e.g. "crossing".
func (n Notification) String() string {
	for name, bit := range notificationNames {
		if bit == n {
			return name
		}
	}
	return ""
}

func (p Permission) String() string {
	for name, bit := range permissionNames {
		if bit == p {
			return name
		}
	}
	return ""
}

// Names lists the wire names of every bit set in n, sorted.
func (n Notification) Names() []string {
	var names []string
	for name, bit := range notificationNames {
		if n.Has(bit) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NotificationBinding routes the events of Mask to URL on behalf of Group.
// There is at most one binding per group.
type NotificationBinding struct {
	Group string
	URL   string
	Mask  Notification
}
