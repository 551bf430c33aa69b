package runtime

import (
	"agent-lab/codec"
	"agent-lab/domain"
	"agent-lab/domain/event"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestBindingTable_SetReplacesAndRemove(t *testing.T) {
	req := require.New(t)
	table := NewBindingTable(slog.Default(), newTestStore(), newRecordingPipeline(10))

	table.SetBinding("Wizards", "http://a", domain.NotificationAlert)
	table.SetBinding("Wizards", "http://b", domain.NotificationCrossing)

	binding, ok := table.Binding("Wizards")
	req.True(ok)
	req.Equal(domain.NotificationBinding{Group: "Wizards", URL: "http://b", Mask: domain.NotificationCrossing}, binding)

	req.True(table.RemoveBinding("Wizards"))
	req.False(table.RemoveBinding("Wizards"))
	_, ok = table.Binding("Wizards")
	req.False(ok)
}

func TestBindingTable_RequiresGrantAndMask(t *testing.T) {
	req := require.New(t)
	pipeline := newRecordingPipeline(10)
	table := NewBindingTable(slog.Default(), newTestStore(), pipeline)

	// Given Wizards bound to alerts only and Muggles bound to everything without any grant
	table.SetBinding("Wizards", "http://wizards", domain.NotificationAlert)
	table.SetBinding("Muggles", "http://muggles", domain.NotificationAlert|domain.NotificationCrossing)

	// When a crossing and an alert are dispatched
	req.Zero(table.Dispatch(event.New(event.RegionCrossedType, event.RegionCrossed{Old: "A", New: "B"})))
	req.Equal(1, table.Dispatch(event.New(event.AlertType, event.Alert{Message: "restart soon"})))

	// Then only the granted and selected alert is enqueued
	items := pipeline.Items()
	req.Len(items, 1)
	req.Equal("http://wizards", items[0].URL)
	req.Equal("type=alert&message=restart%20soon", items[0].Payload)
}

func TestBindingTable_IgnoresNonNotificationEvents(t *testing.T) {
	req := require.New(t)
	pipeline := newRecordingPipeline(10)
	table := NewBindingTable(slog.Default(), newTestStore(), pipeline)
	table.SetBinding("Wizards", "http://wizards", domain.NotificationAlert|domain.NotificationCrossing)

	req.NoError(table.Consume(context.Background(),
		event.New(event.AgentNameReplyType, event.AgentNameReply{ID: uuid.New(), Name: "Ada Lovelace"})))
	req.Empty(pipeline.Items())
}

func TestNotificationFields(t *testing.T) {
	req := require.New(t)
	agent, object, owner, session := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		evt    event.Event
		bit    domain.Notification
		fields map[string]string
	}{
		{
			evt:    event.New(event.BalanceType, event.Balance{Balance: 250}),
			bit:    domain.NotificationBalance,
			fields: map[string]string{"balance": "250"},
		},
		{
			evt: event.New(event.MoneyTransferType, event.MoneyTransfer{AgentID: agent, FirstName: "Ada", LastName: "Lovelace",
				Amount: 10, Transaction: "t-1", Description: "tip"}),
			bit: domain.NotificationEconomy,
			fields: map[string]string{"firstname": "Ada", "lastname": "Lovelace", "agent": agent.String(),
				"amount": "10", "transaction": "t-1", "description": "tip"},
		},
		{
			evt: event.New(event.ChatType, event.Chat{Kind: event.ChatNormal, Source: event.SourceObject, SourceID: object,
				OwnerID: owner, FromName: "Door", Message: "open"}),
			bit: domain.NotificationLocalChat,
			fields: map[string]string{"firstname": "Door", "lastname": "Resident", "owner": owner.String(),
				"item": object.String(), "message": "open", "entity": "object"},
		},
		{
			evt: event.New(event.InstantMessageType, event.InstantMessage{FromID: agent, FromName: "Ada Lovelace", Message: "hi"}),
			bit: domain.NotificationMessage,
			fields: map[string]string{"firstname": "Ada", "lastname": "Lovelace", "agent": agent.String(), "message": "hi"},
		},
		{
			evt: event.New(event.ScriptPermissionType, event.ScriptPermission{TaskID: object, ItemID: owner,
				ObjectName: "Pose ball", Region: "Home", Permissions: 1028}),
			bit: domain.NotificationPermission,
			fields: map[string]string{"item": owner.String(), "task": object.String(), "name": "Pose ball",
				"region": "Home", "permissions": "1028"},
		},
		{
			evt: event.New(event.TeleportLureType, event.TeleportLure{FromID: agent, FromName: "Ada Lovelace",
				SessionID: session, Message: "join me"}),
			bit: domain.NotificationLure,
			fields: map[string]string{"firstname": "Ada", "lastname": "Lovelace", "agent": agent.String(),
				"session": session.String(), "message": "join me"},
		},
		{
			evt: event.New(event.RLVBehaviourType, event.RLVBehaviour{Behaviour: "unsit", Param: "force", Source: object}),
			bit: domain.NotificationRLV,
			fields: map[string]string{"behaviour": "unsit", "option": "", "param": "force", "item": object.String()},
		},
	}

	for _, tt := range tests {
		bit, pairs, ok := notificationFields(tt.evt)
		req.True(ok, tt.evt.Type)
		req.Equal(tt.bit, bit, tt.evt.Type)
		got := make(map[string]string)
		for _, pair := range pairs {
			got[pair.Key] = pair.Value
		}
		req.Equal(tt.fields, got, tt.evt.Type)
	}
}

func TestBindingTable_EscapesValues(t *testing.T) {
	req := require.New(t)
	pipeline := newRecordingPipeline(10)
	table := NewBindingTable(slog.Default(), newTestStore(), pipeline)
	table.SetBinding("Wizards", "http://wizards", domain.NotificationCrossing)

	table.Dispatch(event.New(event.RegionCrossedType, event.RegionCrossed{Old: "Old & Grey", New: "New=Shiny"}))

	items := pipeline.Items()
	req.Len(items, 1)
	pairs := codec.Decode(items[0].Payload)
	old, _ := pairs.Get("old")
	fresh, _ := pairs.Get("new")
	req.Equal("Old & Grey", codec.Unescape(old))
	req.Equal("New=Shiny", codec.Unescape(fresh))
}
