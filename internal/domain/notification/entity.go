package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAttendanceConfirmed NotificationType = "attendance_confirmed"
	TypeAttendanceApproved  NotificationType = "attendance_approved"
	TypeAttendanceAbsent    NotificationType = "attendance_marked_absent"
	TypeTravelRequested     NotificationType = "travel_requested"
	TypeTravelApproved      NotificationType = "travel_approved"
	TypeTravelRejected      NotificationType = "travel_rejected"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeAttendanceConfirmed,
		TypeAttendanceApproved,
		TypeAttendanceAbsent,
		TypeTravelRequested,
		TypeTravelApproved,
		TypeTravelRejected,
	}
}

func (t NotificationType) IsValid() bool {
	for _, v := range AllNotificationTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Notification is time-bound: it is hidden once ExpiresAt passes and later purged.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// NotificationPreference represents an employee's preference for a notification type
type NotificationPreference struct {
	ID               string
	EmployeeID       string
	NotificationType NotificationType
	PushEnabled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
