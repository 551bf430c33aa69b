package runtime

import (
	"agent-lab/auth"
	"agent-lab/domain"
	"context"
	"sync"

	"github.com/google/uuid"
)

// recordingPipeline keeps what was enqueued, up to capacity.
type recordingPipeline struct {
	mu       sync.Mutex
	capacity int
	items    []domain.QueueItem
}

func newRecordingPipeline(capacity int) *recordingPipeline {
	return &recordingPipeline{capacity: capacity}
}

func (p *recordingPipeline) Enqueue(item domain.QueueItem) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) >= p.capacity {
		return false
	}
	p.items = append(p.items, item)
	return true
}

func (p *recordingPipeline) Items() []domain.QueueItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.QueueItem(nil), p.items...)
}

type handlerFunc func(ctx context.Context, cmd domain.CommandContext) (domain.Result, error)

func (f handlerFunc) Handle(ctx context.Context, cmd domain.CommandContext) (domain.Result, error) {
	return f(ctx, cmd)
}

var wizardsID = uuid.MustParse("0b8f2f5e-3c2a-4f36-9a51-7d7c3b1e2a10")

func wizards() domain.Group {
	return domain.Group{
		ID:            wizardsID,
		Name:          "Wizards",
		Secret:        "Sup3r-Secret",
		Permissions:   domain.PermissionMovement | domain.PermissionTalk | domain.PermissionNotifications,
		Notifications: domain.NotificationCrossing | domain.NotificationAlert,
	}
}

func muggles() domain.Group {
	return domain.Group{
		ID:            uuid.MustParse("9a6c0c55-51f1-4d2e-8f0d-1e3a8a4f7c22"),
		Name:          "Muggles",
		Secret:        "plain",
		Permissions:   domain.PermissionNone,
		Notifications: domain.NotificationNone,
	}
}

func newTestStore() *auth.Store {
	return auth.NewStore(wizards(), muggles())
}
