package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/satshine/satshine-backend/internal/domain/notification"
	"github.com/satshine/satshine-backend/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu       sync.Mutex
	items    []*notification.Notification
	disabled map[notification.NotificationType]bool
	purged   time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{disabled: map[notification.NotificationType]bool{}}
}

func (m *memoryRepo) Create(ctx context.Context, n *notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, n)
	return nil
}

func (m *memoryRepo) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, ns...)
	return nil
}

func (m *memoryRepo) GetByRecipient(ctx context.Context, employeeID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*notification.Notification
	for _, n := range m.items {
		if n.RecipientID == employeeID {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetUnreadCount(ctx context.Context, employeeID string) (int, error) {
	items, _, _ := m.GetByRecipient(ctx, employeeID, 1, 100, true)
	return len(items), nil
}

func (m *memoryRepo) MarkAsRead(ctx context.Context, ids []string, employeeID string) error { return nil }
func (m *memoryRepo) MarkAllAsRead(ctx context.Context, employeeID string) error            { return nil }
func (m *memoryRepo) Delete(ctx context.Context, id string, employeeID string) error        { return nil }

func (m *memoryRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purged = before
	return 0, nil
}

func (m *memoryRepo) GetPreferences(ctx context.Context, employeeID string) ([]*notification.NotificationPreference, error) {
	var prefs []*notification.NotificationPreference
	for t, off := range m.disabled {
		prefs = append(prefs, &notification.NotificationPreference{EmployeeID: employeeID, NotificationType: t, PushEnabled: !off})
	}
	return prefs, nil
}

func (m *memoryRepo) UpsertPreference(ctx context.Context, pref *notification.NotificationPreference) error {
	m.disabled[pref.NotificationType] = !pref.PushEnabled
	return nil
}

func (m *memoryRepo) IsNotificationEnabled(ctx context.Context, employeeID string, t notification.NotificationType) (bool, error) {
	return !m.disabled[t], nil
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func TestQueueNotification_FlushedOnStop(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour, TTL: time.Hour})

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
			RecipientID: "emp-1",
			Type:        notification.TypeAttendanceApproved,
			Title:       "Attendance approved",
			Message:     "ok",
		}))
	}
	svc.Stop()

	assert.Equal(t, 5, repo.count())
	for _, n := range repo.items {
		assert.Equal(t, time.Hour, n.ExpiresAt.Sub(n.CreatedAt))
		assert.NotEmpty(t, n.ID)
	}
}

func TestQueueNotification_RespectsPreference(t *testing.T) {
	repo := newMemoryRepo()
	repo.disabled[notification.TypeTravelRequested] = true
	svc := NewNotificationService(repo, sse.NewHub(), Config{FlushInterval: time.Hour})

	require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		RecipientID: "emp-1",
		Type:        notification.TypeTravelRequested,
	}))
	svc.Stop()

	assert.Equal(t, 0, repo.count())
}

func TestQueueNotification_AfterStop(t *testing.T) {
	svc := NewNotificationService(newMemoryRepo(), sse.NewHub(), Config{})
	svc.Stop()
	svc.Stop()

	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		RecipientID: "emp-1",
		Type:        notification.TypeAttendanceApproved,
	})
	assert.ErrorIs(t, err, notification.ErrQueueStopped)
}

func TestQueueNotification_SmallQueueLosesNothing(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{QueueSize: 1, WorkerCount: 1, BatchSize: 1000, FlushInterval: time.Hour})

	for i := 0; i < 50; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
			RecipientID: "emp-1",
			Type:        notification.TypeAttendanceConfirmed,
		}))
	}
	svc.Stop()

	assert.Equal(t, 50, repo.count(), "overflow is written directly, the rest on flush")
}

func TestQueueNotification_InvalidType(t *testing.T) {
	svc := NewNotificationService(newMemoryRepo(), sse.NewHub(), Config{})
	defer svc.Stop()

	err := svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
		RecipientID: "emp-1",
		Type:        "shift_swapped",
	})
	assert.ErrorIs(t, err, notification.ErrInvalidNotificationType)
}

func TestGetPreferences_DefaultsToEnabled(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewNotificationService(repo, sse.NewHub(), Config{})
	defer svc.Stop()

	require.NoError(t, svc.UpdatePreference(context.Background(), "emp-1", notification.UpdatePreferenceRequest{
		NotificationType: notification.TypeTravelRejected,
		PushEnabled:      false,
	}))

	prefs, err := svc.GetPreferences(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, prefs, len(notification.AllNotificationTypes()))
	for _, p := range prefs {
		assert.Equal(t, p.NotificationType != notification.TypeTravelRejected, p.PushEnabled, p.NotificationType)
	}
}

func TestSubscribe_ReceivesPublishedNotification(t *testing.T) {
	repo := newMemoryRepo()
	hub := sse.NewHub()
	svc := NewNotificationService(repo, hub, Config{FlushInterval: 10 * time.Millisecond})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, cleanup := svc.Subscribe(ctx, "emp-1")
	defer cleanup()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(context.Background(), notification.CreateNotificationRequest{
			RecipientID: "emp-1",
			Type:        notification.TypeAttendanceApproved,
			Title:       "Attendance approved",
		}))
	}

	select {
	case ev := <-events:
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, "Attendance approved", ev.Data.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an SSE event")
	}
}
