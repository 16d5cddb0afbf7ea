package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyRecipient(t *testing.T) {
	hub := NewHub()

	chA, cleanupA := hub.Subscribe("emp-a")
	defer cleanupA()
	chB, cleanupB := hub.Subscribe("emp-b")
	defer cleanupB()

	hub.Publish("emp-a", Event{Event: "notification", Data: "hello"})

	select {
	case ev := <-chA:
		assert.Equal(t, "emp-a", ev.EmployeeID)
		assert.Equal(t, "hello", ev.Data)
	default:
		t.Fatal("expected event for emp-a")
	}

	select {
	case <-chB:
		t.Fatal("emp-b must not receive emp-a's event")
	default:
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-a")
	defer cleanup()

	for i := 0; i < hub.bufferSize+5; i++ {
		hub.Publish("emp-a", Event{Event: "notification", Data: i})
	}

	assert.Len(t, ch, hub.bufferSize)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-a")
	_, cleanup2 := hub.Subscribe("emp-a")

	require.Equal(t, 2, hub.SubscriberCount("emp-a"))

	cleanup()
	cleanup()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 1, hub.SubscriberCount("emp-a"))

	cleanup2()
	assert.Equal(t, 0, hub.TotalSubscribers())
}
