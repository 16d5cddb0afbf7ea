package notification

import (
	"context"
	"time"
)

// Repository defines the notification repository interface.
// Read methods never return notifications whose ExpiresAt has passed.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	GetByRecipient(ctx context.Context, employeeID string, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, employeeID string) (int, error)
	MarkAsRead(ctx context.Context, ids []string, employeeID string) error
	MarkAllAsRead(ctx context.Context, employeeID string) error
	Delete(ctx context.Context, id string, employeeID string) error

	// DeleteExpired removes notifications that expired before the cutoff
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// Preferences
	GetPreferences(ctx context.Context, employeeID string) ([]*NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref *NotificationPreference) error
	IsNotificationEnabled(ctx context.Context, employeeID string, notifType NotificationType) (bool, error)
}
