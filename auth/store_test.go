package auth

import (
	"agent-lab/domain"
	"agent-lab/errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func wizards() domain.Group {
	return domain.Group{
		ID:            uuid.MustParse("6f1c3c3e-8a41-4a3b-9d6e-0f7b2c1d9e11"),
		Name:          "Wizards",
		Secret:        "Sup3r-Secret",
		Permissions:   domain.PermissionMovement | domain.PermissionTalk,
		Notifications: domain.NotificationCrossing,
	}
}

func TestStore_Authenticate(t *testing.T) {
	req := require.New(t)
	group := wizards()
	store := NewStore(group)

	req.True(store.Authenticate("Wizards", "Sup3r-Secret"))
	req.True(store.Authenticate(group.ID.String(), "Sup3r-Secret"))

	req.False(store.Authenticate("wizards", "Sup3r-Secret"), "names match exactly")
	req.False(store.Authenticate("Nobody", "Sup3r-Secret"))
	req.False(store.Authenticate("Wizards", ""))
}

func TestStore_Authenticate_OneCharacterOff(t *testing.T) {
	req := require.New(t)
	group := wizards()
	store := NewStore(group)

	// Given every single-character variation of the secret
	for i := range group.Secret {
		for _, c := range []byte{'x', '0', ' ', group.Secret[i] ^ 0x20} {
			if c == group.Secret[i] {
				continue
			}
			variant := group.Secret[:i] + string(c) + group.Secret[i+1:]
			// Then none of them authenticates
			req.False(store.Authenticate("Wizards", variant), variant)
		}
	}
	req.False(store.Authenticate("Wizards", group.Secret+"!"))
	req.False(store.Authenticate("Wizards", strings.TrimSuffix(group.Secret, "t")))
}

func TestStore_Grants(t *testing.T) {
	req := require.New(t)
	store := NewStore(wizards())

	req.True(store.HasPermission("Wizards", domain.PermissionMovement))
	req.False(store.HasPermission("Wizards", domain.PermissionEconomy))
	req.False(store.HasPermission("Wizards", domain.PermissionNone), "bit 0 always denies")
	req.False(store.HasPermission("Nobody", domain.PermissionMovement))

	req.True(store.HasNotificationGrant("Wizards", domain.NotificationCrossing))
	req.False(store.HasNotificationGrant("Wizards", domain.NotificationAlert))
	req.False(store.HasNotificationGrant("Wizards", domain.NotificationNone))
}

func TestStore_ReplaceKeepsFirstDuplicate(t *testing.T) {
	req := require.New(t)
	group := wizards()
	clone := group
	clone.Secret = "other"
	store := NewStore()

	store.Replace([]domain.Group{group, clone})

	req.Len(store.Groups(), 1)
	req.True(store.Authenticate("Wizards", group.Secret))
}

func TestLoad(t *testing.T) {
	req := require.New(t)
	yaml := `
groups:
  - name: Wizards
    uuid: 6f1c3c3e-8a41-4a3b-9d6e-0f7b2c1d9e11
    password: Sup3r-Secret
    permissions: [movement, talk]
    notifications: [crossing, local]
`
	groups, err := Load(strings.NewReader(yaml))

	req.NoError(err)
	req.Len(groups, 1)
	req.Equal("Wizards", groups[0].Name)
	req.True(groups[0].Permissions.Has(domain.PermissionTalk))
	req.True(groups[0].Notifications.Has(domain.NotificationLocalChat))
	req.False(groups[0].Notifications.Has(domain.NotificationAlert))
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{
			name: "unknown permission",
			yaml: "groups:\n  - {name: A, uuid: 6f1c3c3e-8a41-4a3b-9d6e-0f7b2c1d9e11, password: p, permissions: [flying]}\n",
			err:  errors.ErrUnknownGrant,
		},
		{
			name: "duplicate name",
			yaml: "groups:\n  - {name: A, uuid: 6f1c3c3e-8a41-4a3b-9d6e-0f7b2c1d9e11, password: p}\n  - {name: A, uuid: 7f1c3c3e-8a41-4a3b-9d6e-0f7b2c1d9e11, password: p}\n",
			err:  errors.ErrDuplicateGroup,
		},
		{
			name: "duplicate uuid",
			yaml: "groups:\n  - {name: A, uuid: 6f1c3c3e-8a41-4a3b-9d6e-0f7b2c1d9e11, password: p}\n  - {name: B, uuid: 6f1c3c3e-8a41-4a3b-9d6e-0f7b2c1d9e11, password: p}\n",
			err:  errors.ErrDuplicateGroup,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("missing password", func(t *testing.T) {
		_, err := Load(strings.NewReader("groups:\n  - {name: A, uuid: 6f1c3c3e-8a41-4a3b-9d6e-0f7b2c1d9e11}\n"))
		require.Error(t, err)
	})
	t.Run("empty file", func(t *testing.T) {
		groups, err := Load(strings.NewReader(""))
		require.NoError(t, err)
		require.Empty(t, groups)
	})
}
