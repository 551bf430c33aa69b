package gateway

import (
	"agent-lab/contract"
	"agent-lab/domain"
	"agent-lab/domain/event"
	"agent-lab/errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var _ contract.Gateway = (*Loopback)(nil)

const regionSize = 256

// ChatLine is something the agent said in local chat.
type ChatLine struct {
	Channel int
	Message string
}

type IMLine struct {
	To      uuid.UUID
	Message string
}

type PermissionAnswer struct {
	Task        uuid.UUID
	Item        uuid.UUID
	Permissions int
}

// Loopback is an in-memory World Gateway. It keeps just enough scene state
// for commands and RLV behaviours to act on, and pushes events to
// subscribers on its own goroutines like a real client would.
type Loopback struct {
	mu          sync.RWMutex
	subscribers map[event.Type]map[uint64]func(event.Event)
	nextSub     uint64

	agents      map[uuid.UUID]string
	groups      map[uuid.UUID]string
	activeGroup uuid.UUID
	sittingOn   uuid.UUID
	region      string
	position    domain.Vector3
	rotation    float64
	wearables   []domain.Wearable
	attachments []domain.Attachment
	root        *domain.InventoryFolder
	balance     int

	said     []ChatLine
	ims      []IMLine
	answers  []PermissionAnswer
	accepted []uuid.UUID

	directoryRequests atomic.Int64
	silent            atomic.Bool
}

func NewLoopback(region string) *Loopback {
	return &Loopback{
		subscribers: make(map[event.Type]map[uint64]func(event.Event)),
		agents:      make(map[uuid.UUID]string),
		groups:      make(map[uuid.UUID]string),
		region:      region,
	}
}

func (l *Loopback) Subscribe(t event.Type, fn func(event.Event)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextSub
	l.nextSub++
	if _, ok := l.subscribers[t]; !ok {
		l.subscribers[t] = make(map[uint64]func(event.Event))
	}
	l.subscribers[t][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subscribers[t], id)
		})
	}
}

// Publish delivers e to every current subscriber of its type on a new goroutine.
func (l *Loopback) Publish(e event.Event) {
	l.mu.RLock()
	fns := lo.Values(l.subscribers[e.Type])
	l.mu.RUnlock()
	go func() {
		for _, fn := range fns {
			fn(e)
		}
	}()
}

// Subscribers counts live subscriptions of one type.
func (l *Loopback) Subscribers(t event.Type) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subscribers[t])
}

// Silence makes directory requests go unanswered.
func (l *Loopback) Silence(silent bool) { l.silent.Store(silent) }

func (l *Loopback) DirectoryRequests() int64 { return l.directoryRequests.Load() }

func (l *Loopback) AddAgent(id uuid.UUID, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.agents[id] = name
}

func (l *Loopback) AddGroup(id uuid.UUID, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.groups[id] = name
}

func (l *Loopback) SetSharedRoot(root *domain.InventoryFolder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.root = root
}

func (l *Loopback) SetBalance(balance int) {
	l.mu.Lock()
	l.balance = balance
	l.mu.Unlock()
	l.Publish(event.New(event.BalanceType, event.Balance{Balance: balance}))
}

func (l *Loopback) RequestAgentName(id uuid.UUID) error {
	l.directoryRequests.Add(1)
	if l.silent.Load() {
		return nil
	}
	l.mu.RLock()
	name, ok := l.agents[id]
	l.mu.RUnlock()
	if ok {
		l.Publish(event.New(event.AgentNameReplyType, event.AgentNameReply{ID: id, Name: name}))
	}
	return nil
}

func (l *Loopback) RequestAgentSearch(name string) error {
	l.directoryRequests.Add(1)
	if l.silent.Load() {
		return nil
	}
	reply := event.AgentSearchReply{Query: name}
	l.mu.RLock()
	for id, n := range l.agents {
		if strings.EqualFold(n, name) {
			reply.ID, reply.Name = id, n
			break
		}
	}
	l.mu.RUnlock()
	l.Publish(event.New(event.AgentSearchReplyType, reply))
	return nil
}

func (l *Loopback) RequestGroupSearch(name string) error {
	l.directoryRequests.Add(1)
	if l.silent.Load() {
		return nil
	}
	reply := event.GroupSearchReply{Query: name}
	if id, ok := l.GroupByName(name); ok {
		reply.ID, reply.Name = id, name
	}
	l.Publish(event.New(event.GroupSearchReplyType, reply))
	return nil
}

func (l *Loopback) Say(channel int, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.said = append(l.said, ChatLine{Channel: channel, Message: message})
	return nil
}

func (l *Loopback) InstantMessage(agent uuid.UUID, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ims = append(l.ims, IMLine{To: agent, Message: message})
	return nil
}

// Said returns a copy of the local chat lines the agent produced.
func (l *Loopback) Said() []ChatLine {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]ChatLine(nil), l.said...)
}

func (l *Loopback) InstantMessages() []IMLine {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]IMLine(nil), l.ims...)
}

func (l *Loopback) SitOn(object uuid.UUID) error {
	if object == uuid.Nil {
		return fmt.Errorf("%w: object", errors.ErrInvalidArgument)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sittingOn = object
	return nil
}

func (l *Loopback) Stand() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sittingOn = uuid.Nil
	return nil
}

func (l *Loopback) SittingOn() uuid.UUID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sittingOn
}

func (l *Loopback) Teleport(region string, position domain.Vector3) error {
	if region == "" {
		return fmt.Errorf("%w: region", errors.ErrInvalidArgument)
	}
	l.mu.Lock()
	old := l.region
	l.region, l.position, l.sittingOn = region, position, uuid.Nil
	l.mu.Unlock()
	if old != region {
		l.Publish(event.New(event.RegionCrossedType, event.RegionCrossed{Old: old, New: region}))
	}
	return nil
}

// TeleportGlobal maps global grid coordinates onto a region named after its
// grid cell, e.g. "Region 1000,1001".
func (l *Loopback) TeleportGlobal(position domain.Vector3) error {
	gx, gy := math.Floor(position.X/regionSize), math.Floor(position.Y/regionSize)
	region := fmt.Sprintf("Region %d,%d", int(gx), int(gy))
	local := domain.Vector3{
		X: position.X - gx*regionSize,
		Y: position.Y - gy*regionSize,
		Z: position.Z,
	}
	return l.Teleport(region, local)
}

func (l *Loopback) Turn(radians float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotation = radians
	return nil
}

// Location returns the current region and local position.
func (l *Loopback) Location() (string, domain.Vector3) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.region, l.position
}

func (l *Loopback) Rotation() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rotation
}

func (l *Loopback) Wearables() []domain.Wearable {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Wearable(nil), l.wearables...)
}

func (l *Loopback) Attachments() []domain.Attachment {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Attachment(nil), l.attachments...)
}

func (l *Loopback) Wear(items []domain.InventoryItem, replace bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range items {
		if item.Wearable == "" {
			continue
		}
		if replace || item.Wearable.IsBodyPart() {
			l.wearables = lo.Reject(l.wearables, func(w domain.Wearable, _ int) bool {
				return w.Type == item.Wearable
			})
		}
		l.wearables = append(l.wearables, domain.Wearable{Item: item, Type: item.Wearable})
	}
	return nil
}

func (l *Loopback) TakeOff(items []domain.InventoryItem) error {
	ids := lo.SliceToMap(items, func(i domain.InventoryItem) (uuid.UUID, struct{}) { return i.ID, struct{}{} })
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wearables = lo.Reject(l.wearables, func(w domain.Wearable, _ int) bool {
		_, ok := ids[w.Item.ID]
		return ok && !w.Type.IsBodyPart()
	})
	return nil
}

func (l *Loopback) Attach(items []domain.InventoryItem, replace bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, item := range items {
		if item.Wearable != "" {
			continue
		}
		point := item.Point
		if point == "" {
			point = "chest"
		}
		if replace {
			l.attachments = lo.Reject(l.attachments, func(a domain.Attachment, _ int) bool {
				return a.Point == point
			})
		}
		l.attachments = append(l.attachments, domain.Attachment{ObjectID: uuid.New(), Item: item, Point: point})
	}
	return nil
}

func (l *Loopback) Detach(items []domain.InventoryItem) error {
	ids := lo.SliceToMap(items, func(i domain.InventoryItem) (uuid.UUID, struct{}) { return i.ID, struct{}{} })
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attachments = lo.Reject(l.attachments, func(a domain.Attachment, _ int) bool {
		_, ok := ids[a.Item.ID]
		return ok
	})
	return nil
}

func (l *Loopback) SharedRoot() *domain.InventoryFolder {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root
}

func (l *Loopback) ActiveGroup() (uuid.UUID, string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.activeGroup, l.groups[l.activeGroup]
}

func (l *Loopback) ActivateGroup(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.groups[id]; !ok && id != uuid.Nil {
		return errors.ErrGroupNotFound
	}
	l.activeGroup = id
	return nil
}

func (l *Loopback) GroupByName(name string) (uuid.UUID, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for id, n := range l.groups {
		if strings.EqualFold(n, name) {
			return id, true
		}
	}
	return uuid.Nil, false
}

func (l *Loopback) AnswerScriptPermission(task, item uuid.UUID, permissions int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.answers = append(l.answers, PermissionAnswer{Task: task, Item: item, Permissions: permissions})
	return nil
}

func (l *Loopback) AcceptTeleportLure(agent, session uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accepted = append(l.accepted, session)
	return nil
}

func (l *Loopback) PermissionAnswers() []PermissionAnswer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]PermissionAnswer(nil), l.answers...)
}

func (l *Loopback) AcceptedLures() []uuid.UUID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]uuid.UUID(nil), l.accepted...)
}

func (l *Loopback) Balance() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}
