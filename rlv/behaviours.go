package rlv

import (
	"agent-lab/domain"
	"agent-lab/errors"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	force = "force"

	VersionText    = "RestrainedLife viewer v1.23 (agent-lab)"
	VersionNewText = "RestrainedLove viewer v2.8.0 (agent-lab)"
	VersionNumber  = "2080000"

	defaultStatusSeparator = "/"
)

type behaviour func(ctx context.Context, e *Engine, source uuid.UUID, in Instruction) error

func behaviourTable() map[string]behaviour {
	return map[string]behaviour{
		"version":       replyWith(VersionText),
		"versionnew":    replyWith(VersionNewText),
		"versionnum":    replyWith(VersionNumber),
		"getgroup":      getGroup,
		"setgroup":      setGroup,
		"getsitid":      getSitID,
		"sit":           sit,
		"unsit":         unsit,
		"setrot":        setRot,
		"tpto":          tpTo,
		"getoutfit":     getOutfit,
		"getattach":     getAttach,
		"detach":        detach,
		"remattach":     detach,
		"detachme":      detachMe,
		"remoutfit":     remOutfit,
		"getinv":        getInv,
		"findfolder":    findFolder,
		"getpath":       getPath,
		"attach":        attachFolder(true, false),
		"attachover":    attachFolder(false, false),
		"attachall":     attachFolder(true, true),
		"attachallover": attachFolder(false, true),
		"detachall":     detachAll,
		"getstatus":     getStatus(false),
		"getstatusall":  getStatus(true),
		"clear":         clearRules,
	}
}

func requireForce(in Instruction) error {
	if in.Param != force {
		return fmt.Errorf("%s expects %q, got %q: %w", in.Behaviour, force, in.Param, errors.ErrInvalidArgument)
	}
	return nil
}

func replyWith(text string) behaviour {
	return func(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
		return e.reply(in.Param, text)
	}
}

func getGroup(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	_, name := e.gateway.ActiveGroup()
	if name == "" {
		name = "none"
	}
	return e.reply(in.Param, name)
}

// setGroup accepts a group name, a group id or "none" for no active group.
func setGroup(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	if err := requireForce(in); err != nil {
		return err
	}
	if strings.EqualFold(in.Option, "none") {
		return e.gateway.ActivateGroup(uuid.Nil)
	}
	if id, err := uuid.Parse(in.Option); err == nil {
		return e.gateway.ActivateGroup(id)
	}
	id, ok := e.gateway.GroupByName(in.Option)
	if !ok {
		return fmt.Errorf("%q: %w", in.Option, errors.ErrGroupNotFound)
	}
	return e.gateway.ActivateGroup(id)
}

func getSitID(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	return e.reply(in.Param, e.gateway.SittingOn().String())
}

func sit(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	if err := requireForce(in); err != nil {
		return err
	}
	object, err := uuid.Parse(in.Option)
	if err != nil {
		return fmt.Errorf("sit target %q: %w", in.Option, errors.ErrInvalidArgument)
	}
	return e.gateway.SitOn(object)
}

// unsit ignores every persistent rule, including unsit=n.
func unsit(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	if err := requireForce(in); err != nil {
		return err
	}
	if e.gateway.SittingOn() == uuid.Nil {
		return errors.ErrNotSitting
	}
	return e.gateway.Stand()
}

func setRot(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	if err := requireForce(in); err != nil {
		return err
	}
	angle, err := strconv.ParseFloat(in.Option, 64)
	if err != nil {
		return fmt.Errorf("angle %q: %w", in.Option, errors.ErrInvalidArgument)
	}
	return e.gateway.Turn(angle)
}

// tpTo takes global coordinates written "x/y/z".
func tpTo(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	if err := requireForce(in); err != nil {
		return err
	}
	parts := strings.Split(in.Option, "/")
	if len(parts) != 3 {
		return fmt.Errorf("position %q: %w", in.Option, errors.ErrInvalidArgument)
	}
	var coords [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return fmt.Errorf("position %q: %w", in.Option, errors.ErrInvalidArgument)
		}
		coords[i] = f
	}
	return e.gateway.TeleportGlobal(domain.Vector3{X: coords[0], Y: coords[1], Z: coords[2]})
}

// getOutfit answers one "0" or "1" per layer, or a single digit for the
// layer named by the option.
func getOutfit(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	worn := lo.SliceToMap(e.gateway.Wearables(), func(w domain.Wearable) (domain.WearableType, struct{}) {
		return w.Type, struct{}{}
	})
	if in.Option != "" {
		if !domain.IsWearableType(in.Option) {
			return fmt.Errorf("layer %q: %w", in.Option, errors.ErrInvalidArgument)
		}
		_, ok := worn[domain.WearableType(in.Option)]
		return e.reply(in.Param, flag(ok))
	}
	var b strings.Builder
	for _, layer := range domain.WearableTypes {
		_, ok := worn[layer]
		b.WriteString(flag(ok))
	}
	return e.reply(in.Param, b.String())
}

func getAttach(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	used := lo.SliceToMap(e.gateway.Attachments(), func(a domain.Attachment) (domain.AttachmentPoint, struct{}) {
		return a.Point, struct{}{}
	})
	if in.Option != "" {
		if !domain.IsAttachmentPoint(in.Option) {
			return fmt.Errorf("attachment point %q: %w", in.Option, errors.ErrInvalidArgument)
		}
		_, ok := used[domain.AttachmentPoint(in.Option)]
		return e.reply(in.Param, flag(ok))
	}
	var b strings.Builder
	for _, point := range domain.AttachmentPoints {
		_, ok := used[point]
		b.WriteString(flag(ok))
	}
	return e.reply(in.Param, b.String())
}

// detach without option removes every attachment. The option is either an
// attachment point or a shared folder whose objects are detached.
func detach(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	if err := requireForce(in); err != nil {
		return err
	}
	attachments := e.gateway.Attachments()
	switch {
	case in.Option == "":
	case domain.IsAttachmentPoint(in.Option):
		attachments = lo.Filter(attachments, func(a domain.Attachment, _ int) bool {
			return a.Point == domain.AttachmentPoint(in.Option)
		})
	default:
		folder := resolveFolder(e.gateway.SharedRoot(), in.Option)
		if folder == nil {
			return fmt.Errorf("%q: %w", in.Option, errors.ErrFolderNotFound)
		}
		_, objects := partition(folderItems(folder, false))
		return e.gateway.Detach(objects)
	}
	return e.gateway.Detach(lo.Map(attachments, func(a domain.Attachment, _ int) domain.InventoryItem { return a.Item }))
}

func detachMe(_ context.Context, e *Engine, source uuid.UUID, in Instruction) error {
	if err := requireForce(in); err != nil {
		return err
	}
	attachment, ok := lo.Find(e.gateway.Attachments(), func(a domain.Attachment) bool { return a.ObjectID == source })
	if !ok {
		return fmt.Errorf("%s is not attached: %w", source, errors.ErrItemNotFound)
	}
	return e.gateway.Detach([]domain.InventoryItem{attachment.Item})
}

// remOutfit never takes off body parts.
func remOutfit(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	if err := requireForce(in); err != nil {
		return err
	}
	if in.Option != "" && !domain.IsWearableType(in.Option) {
		return fmt.Errorf("layer %q: %w", in.Option, errors.ErrInvalidArgument)
	}
	wearables := lo.Filter(e.gateway.Wearables(), func(w domain.Wearable, _ int) bool {
		return !w.Type.IsBodyPart() && (in.Option == "" || w.Type == domain.WearableType(in.Option))
	})
	return e.gateway.TakeOff(lo.Map(wearables, func(w domain.Wearable, _ int) domain.InventoryItem { return w.Item }))
}

// getInv lists the sub-folders of a shared folder, hidden ones excluded.
func getInv(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	folder := resolveFolder(e.gateway.SharedRoot(), in.Option)
	if folder == nil {
		return e.reply(in.Param, "")
	}
	names := lo.FilterMap(folder.Folders, func(f *domain.InventoryFolder, _ int) (string, bool) {
		return f.Name, !strings.HasPrefix(f.Name, ".")
	})
	return e.reply(in.Param, strings.Join(names, ","))
}

// findFolder answers the path of the first shared folder whose name contains
// every "&&"-separated term of the option.
func findFolder(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	terms := lo.Compact(strings.Split(strings.ToLower(in.Option), "&&"))
	found := ""
	e.gateway.SharedRoot().Walk(func(path string, folder *domain.InventoryFolder) bool {
		if strings.HasPrefix(folder.Name, ".") {
			return true
		}
		name := strings.ToLower(folder.Name)
		if lo.EveryBy(terms, func(term string) bool { return strings.Contains(name, term) }) {
			found = path
			return false
		}
		return true
	})
	return e.reply(in.Param, found)
}

// getPath answers the shared folder holding the item the calling object was rezzed from.
func getPath(_ context.Context, e *Engine, source uuid.UUID, in Instruction) error {
	attachment, ok := lo.Find(e.gateway.Attachments(), func(a domain.Attachment) bool { return a.ObjectID == source })
	if !ok {
		return e.reply(in.Param, "")
	}
	found := ""
	e.gateway.SharedRoot().Walk(func(path string, folder *domain.InventoryFolder) bool {
		if lo.ContainsBy(folder.Items, func(item domain.InventoryItem) bool { return item.ID == attachment.Item.ID }) {
			found = path
			return false
		}
		return true
	})
	return e.reply(in.Param, found)
}

func attachFolder(replace, recursive bool) behaviour {
	return func(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
		if err := requireForce(in); err != nil {
			return err
		}
		folder := resolveFolder(e.gateway.SharedRoot(), in.Option)
		if folder == nil || in.Option == "" {
			return fmt.Errorf("%q: %w", in.Option, errors.ErrFolderNotFound)
		}
		wearables, objects := partition(folderItems(folder, recursive))
		if err := e.gateway.Wear(wearables, replace); err != nil {
			return err
		}
		return e.gateway.Attach(objects, replace)
	}
}

func detachAll(_ context.Context, e *Engine, _ uuid.UUID, in Instruction) error {
	if err := requireForce(in); err != nil {
		return err
	}
	folder := resolveFolder(e.gateway.SharedRoot(), in.Option)
	if folder == nil || in.Option == "" {
		return fmt.Errorf("%q: %w", in.Option, errors.ErrFolderNotFound)
	}
	wearables, objects := partition(folderItems(folder, true))
	if err := e.gateway.TakeOff(wearables); err != nil {
		return err
	}
	return e.gateway.Detach(objects)
}

// getStatus options read "filter;separator". Each matching rule is written
// as separator + behaviour, plus ":option" when the rule has one.
func getStatus(all bool) behaviour {
	return func(_ context.Context, e *Engine, source uuid.UUID, in Instruction) error {
		filter, separator, ok := strings.Cut(in.Option, ";")
		if !ok || separator == "" {
			separator = defaultStatusSeparator
		}
		rules := e.rules.Select(func(r domain.RestrictionRule) bool {
			return (all || r.Source == source) && strings.Contains(r.Behaviour, filter)
		})
		var b strings.Builder
		for _, r := range rules {
			b.WriteString(separator)
			b.WriteString(r.Behaviour)
			if r.Option != "" {
				b.WriteString(":")
				b.WriteString(r.Option)
			}
		}
		return e.reply(in.Param, b.String())
	}
}

// clearRules takes its filter from the option, or from the param unless it is "force".
func clearRules(_ context.Context, e *Engine, source uuid.UUID, in Instruction) error {
	filter := in.Option
	if filter == "" && in.Param != force {
		filter = in.Param
	}
	removed := e.Clear(source, filter)
	e.log.Debug("RLV rules cleared", "source", source, "filter", filter, "removed", removed)
	return nil
}

func flag(set bool) string {
	if set {
		return "1"
	}
	return "0"
}

// resolveFolder walks a "/"-separated path from the shared root. An empty
// path is the root itself.
func resolveFolder(root *domain.InventoryFolder, path string) *domain.InventoryFolder {
	folder := root
	for _, name := range lo.Compact(strings.Split(path, "/")) {
		folder = folder.Child(name)
		if folder == nil {
			return nil
		}
	}
	return folder
}

func folderItems(folder *domain.InventoryFolder, recursive bool) []domain.InventoryItem {
	items := append([]domain.InventoryItem(nil), folder.Items...)
	if recursive {
		folder.Walk(func(_ string, sub *domain.InventoryFolder) bool {
			items = append(items, sub.Items...)
			return true
		})
	}
	return items
}

func partition(items []domain.InventoryItem) (wearables, objects []domain.InventoryItem) {
	return lo.FilterReject(items, func(item domain.InventoryItem, _ int) bool { return item.Wearable != "" })
}
