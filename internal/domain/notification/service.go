package notification

import (
	"context"
)

// Service defines the notification service interface
type Service interface {
	// Queue notification (async processing via background workers)
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	// Direct operations
	GetNotifications(ctx context.Context, employeeID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, employeeID string) (int, error)
	MarkAsRead(ctx context.Context, employeeID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, employeeID string) error
	Delete(ctx context.Context, employeeID string, notificationID string) error

	// PurgeExpired deletes expired notifications and returns how many were removed
	PurgeExpired(ctx context.Context) (int64, error)

	// Preferences
	GetPreferences(ctx context.Context, employeeID string) ([]PreferenceResponse, error)
	UpdatePreference(ctx context.Context, employeeID string, req UpdatePreferenceRequest) error

	// SSE subscription
	Subscribe(ctx context.Context, employeeID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
