package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitmasksStartAtTheLowestBit(t *testing.T) {
	req := require.New(t)

	req.Equal(Permission(1), PermissionMovement)
	req.Equal(Permission(1<<13), PermissionExecute)
	req.Equal(Notification(1), NotificationAlert)
	req.Equal(Notification(1<<8), NotificationRLV)

	// The zero value grants nothing
	req.False(PermissionMovement.Has(PermissionNone))
	req.False(NotificationAlert.Has(NotificationNone))
}

func TestNamesRoundTrip(t *testing.T) {
	req := require.New(t)

	for name, bit := range permissionNames {
		parsed, ok := ParsePermission(name)
		req.True(ok)
		req.Equal(bit, parsed)
		req.Equal(name, bit.String())
	}
	for name, bit := range notificationNames {
		parsed, ok := ParseNotification(name)
		req.True(ok)
		req.Equal(bit, parsed)
		req.Equal(name, bit.String())
	}
}
