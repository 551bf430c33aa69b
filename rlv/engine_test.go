package rlv

import (
	"agent-lab/domain"
	"agent-lab/domain/event"
	"agent-lab/gateway"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestEngine(opts ...Option) (*Engine, *gateway.Loopback) {
	world := gateway.NewLoopback("Home")
	return NewEngine(logs.GetLoggerFromLevel(slog.LevelDebug), world, true, opts...), world
}

func TestParse(t *testing.T) {
	req := require.New(t)

	instructions := Parse("@detach=n,garbage,sit:6d3c7a40-6e8b-4b7b-8f1f-9d44e2f1c0a1=force,,getstatus:tp;|=2222,=y,tpto:1/2/3=force")

	req.Equal([]Instruction{
		{Behaviour: "detach", Param: "n"},
		{Behaviour: "sit", Option: "6d3c7a40-6e8b-4b7b-8f1f-9d44e2f1c0a1", Param: "force"},
		{Behaviour: "getstatus", Option: "tp;|", Param: "2222"},
		{Behaviour: "tpto", Option: "1/2/3", Param: "force"},
	}, instructions)
	req.Empty(Parse("@"))
	req.Empty(Parse("@,,,"))
	req.True(IsCommand("@version=1"))
	req.False(IsCommand("version=1"))
}

func TestEngine_PersistentToggles(t *testing.T) {
	req := require.New(t)
	engine, _ := newTestEngine()
	object := uuid.New()

	// When the same restriction is added twice
	engine.Process(context.Background(), object, "@sendim=n,fly=y,fly=add")

	// Then each triple is kept once
	req.ElementsMatch([]domain.RestrictionRule{
		{Behaviour: "sendim", Source: object},
		{Behaviour: "fly", Source: object},
	}, engine.Rules())
}

func TestEngine_RevokeInsertsByDefault(t *testing.T) {
	req := require.New(t)
	engine, _ := newTestEngine()
	object := uuid.New()

	engine.Process(context.Background(), object, "@fly=add")
	engine.Process(context.Background(), object, "@fly=rem,tploc=n")

	// Revoking keeps the rule and adds the revoked one as well
	req.ElementsMatch([]domain.RestrictionRule{
		{Behaviour: "fly", Source: object},
		{Behaviour: "tploc", Source: object},
	}, engine.Rules())
}

func TestEngine_RemoveOnRevoke(t *testing.T) {
	req := require.New(t)
	engine, _ := newTestEngine(WithRemoveOnRevoke(true))
	object, other := uuid.New(), uuid.New()

	engine.Process(context.Background(), object, "@fly=add,tploc=y")
	engine.Process(context.Background(), other, "@fly=add")
	engine.Process(context.Background(), object, "@fly=rem,sendim=n")

	req.ElementsMatch([]domain.RestrictionRule{
		{Behaviour: "tploc", Source: object},
		{Behaviour: "fly", Source: other},
	}, engine.Rules())
}

func TestEngine_ClearOnlyTouchesTheCaller(t *testing.T) {
	req := require.New(t)
	engine, _ := newTestEngine()
	x, y := uuid.New(), uuid.New()
	engine.Process(context.Background(), x, "@fly=n,sendim=n")
	engine.Process(context.Background(), y, "@fly=n,tploc=n")

	// When X clears its rules
	engine.Process(context.Background(), x, "@clear=force")

	// Then Y's rules are untouched
	req.ElementsMatch([]domain.RestrictionRule{
		{Behaviour: "fly", Source: y},
		{Behaviour: "tploc", Source: y},
	}, engine.Rules())
}

func TestEngine_ClearWithFilter(t *testing.T) {
	req := require.New(t)
	engine, _ := newTestEngine()
	x, y := uuid.New(), uuid.New()
	engine.Process(context.Background(), x, "@tploc=n,tplm=n,fly=n")
	engine.Process(context.Background(), y, "@tplure=n,sendim=n")

	// When a filter is given it applies to every source
	engine.Process(context.Background(), x, "@clear=tp")

	req.ElementsMatch([]domain.RestrictionRule{
		{Behaviour: "fly", Source: x},
		{Behaviour: "sendim", Source: y},
	}, engine.Rules())
}

func TestEngine_UnsitForceAlwaysStands(t *testing.T) {
	req := require.New(t)
	engine, world := newTestEngine()
	seat, x := uuid.New(), uuid.New()

	// Given a seated avatar and a rule forbidding to stand up
	req.NoError(world.SitOn(seat))
	engine.Process(context.Background(), uuid.New(), "@unsit=n")

	// When any object forces it up
	engine.Process(context.Background(), x, "@unsit=force")

	// Then the avatar stands
	req.Equal(uuid.Nil, world.SittingOn())
}

func TestEngine_UnknownBehaviourDoesNotAbortSiblings(t *testing.T) {
	req := require.New(t)
	engine, world := newTestEngine()
	seat := uuid.New()

	engine.Process(context.Background(), uuid.New(), "@dance=force,sit:"+seat.String()+"=force,versionnum=99")

	req.Equal(seat, world.SittingOn())
	req.Equal([]gateway.ChatLine{{Channel: 99, Message: VersionNumber}}, world.Said())
}

func TestEngine_DisabledIsInert(t *testing.T) {
	req := require.New(t)
	engine, world := newTestEngine()
	engine.Disable()

	engine.Process(context.Background(), uuid.New(), "@fly=n,version=5")

	req.False(engine.Enabled())
	req.Empty(engine.Rules())
	req.Empty(world.Said())

	engine.Enable()
	engine.Process(context.Background(), uuid.New(), "@version=5")
	req.Equal([]gateway.ChatLine{{Channel: 5, Message: VersionText}}, world.Said())
}

func TestEngine_GetStatus(t *testing.T) {
	req := require.New(t)
	engine, world := newTestEngine()
	x, y := uuid.New(), uuid.New()
	engine.Process(context.Background(), x, "@tploc=n,fly=n,accepttp:"+y.String()+"=add")
	engine.Process(context.Background(), y, "@tplure=n")

	engine.Process(context.Background(), x, "@getstatus=10")
	engine.Process(context.Background(), x, "@getstatus:tp;|=11")
	engine.Process(context.Background(), x, "@getstatusall:tp=12")

	said := world.Said()
	req.Len(said, 3)
	req.Equal(gateway.ChatLine{Channel: 10, Message: "/tploc/fly/accepttp:" + y.String()}, said[0])
	req.Equal(gateway.ChatLine{Channel: 11, Message: "|tploc|accepttp:" + y.String()}, said[1])
	req.Equal(12, said[2].Channel)
	req.Contains(said[2].Message, "/tplure")
	req.Contains(said[2].Message, "/tploc")
}

func TestEngine_Policy(t *testing.T) {
	req := require.New(t)
	engine, _ := newTestEngine()
	friend, stranger := uuid.New(), uuid.New()

	req.False(engine.AcceptsPermission())
	req.False(engine.AcceptsTeleport(friend))

	engine.Process(context.Background(), uuid.New(), "@acceptpermission=add,accepttp:"+friend.String()+"=add")

	req.True(engine.AcceptsPermission())
	req.True(engine.AcceptsTeleport(friend))
	req.False(engine.AcceptsTeleport(stranger))

	engine.Process(context.Background(), uuid.New(), "@accepttp=add")
	req.True(engine.AcceptsTeleport(stranger))
}

func TestEngine_ObserverSeesAppliedInstructions(t *testing.T) {
	req := require.New(t)
	var seen []event.RLVBehaviour
	engine, world := newTestEngine(WithObserver(func(b event.RLVBehaviour) { seen = append(seen, b) }))
	object, seat := uuid.New(), uuid.New()
	req.NoError(world.SitOn(seat))

	engine.Process(context.Background(), object, "@unsit=force,bogus=force,version=abc")

	req.Equal([]event.RLVBehaviour{{Behaviour: "unsit", Param: "force", Source: object}}, seen)
}
