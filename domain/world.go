package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) String() string {
	return fmt.Sprintf("<%g, %g, %g>", v.X, v.Y, v.Z)
}

// ParseVector3 accepts "<x, y, z>" or "x,y,z".
func ParseVector3(s string) (Vector3, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<")
	s = strings.TrimSuffix(s, ">")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Vector3{}, false
	}
	var out [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Vector3{}, false
		}
		out[i] = f
	}
	return Vector3{X: out[0], Y: out[1], Z: out[2]}, true
}

// WearableType names a clothing or body part layer.
type WearableType string

// WearableTypes is ordered the way RLV outfit queries report them.
var WearableTypes = []WearableType{
	"gloves", "jacket", "pants", "shirt", "shoes", "skirt", "socks",
	"underpants", "undershirt", "skin", "eyes", "hair", "shape",
	"alpha", "tattoo", "physics", "universal",
}

// IsBodyPart is true for layers that can never be taken off.
func (w WearableType) IsBodyPart() bool {
	switch w {
	case "skin", "eyes", "hair", "shape":
		return true
	}
	return false
}

// AttachmentPoint names an avatar attachment point.
type AttachmentPoint string

// AttachmentPoints is ordered the way RLV attachment queries report them.
var AttachmentPoints = []AttachmentPoint{
	"none", "chest", "skull", "left shoulder", "right shoulder", "left hand",
	"right hand", "left foot", "right foot", "spine", "pelvis", "mouth", "chin",
	"left ear", "right ear", "left eyeball", "right eyeball", "nose",
	"r upper arm", "r forearm", "l upper arm", "l forearm", "right hip",
	"r upper leg", "r lower leg", "left hip", "l upper leg", "l lower leg",
	"stomach", "left pec", "right pec", "center 2", "top right", "top",
	"top left", "center", "bottom left", "bottom", "bottom right", "neck",
	"avatar center",
}

func IsAttachmentPoint(name string) bool {
	for _, p := range AttachmentPoints {
		if string(p) == name {
			return true
		}
	}
	return false
}

func IsWearableType(name string) bool {
	for _, w := range WearableTypes {
		if string(w) == name {
			return true
		}
	}
	return false
}

// InventoryItem is a wearable, object or any other asset reference in inventory.
type InventoryItem struct {
	ID       uuid.UUID
	Name     string
	Wearable WearableType    // set for clothing and body parts
	Point    AttachmentPoint // set for objects attached from this item
}

type InventoryFolder struct {
	ID      uuid.UUID
	Name    string
	Folders []*InventoryFolder
	Items   []InventoryItem
}

// Child returns the direct sub-folder with the given name.
func (f *InventoryFolder) Child(name string) *InventoryFolder {
	if f == nil {
		return nil
	}
	for _, c := range f.Folders {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Walk visits f and all its descendants depth first with their "/"-joined
// path relative to f. Returning false stops the walk.
func (f *InventoryFolder) Walk(fn func(path string, folder *InventoryFolder) bool) {
	var walk func(prefix string, folder *InventoryFolder) bool
	walk = func(prefix string, folder *InventoryFolder) bool {
		for _, c := range folder.Folders {
			path := c.Name
			if prefix != "" {
				path = prefix + "/" + c.Name
			}
			if !fn(path, c) || !walk(path, c) {
				return false
			}
		}
		return true
	}
	if f != nil {
		walk("", f)
	}
}

// Wearable is an item currently worn on a layer.
type Wearable struct {
	Item InventoryItem
	Type WearableType
}

// Attachment is an object currently attached to the avatar.
type Attachment struct {
	ObjectID uuid.UUID
	Item     InventoryItem
	Point    AttachmentPoint
}
