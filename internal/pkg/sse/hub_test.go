package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesEveryStreamOfUser(t *testing.T) {
	h := NewHub(2)

	first, closeFirst := h.Subscribe("worker-1")
	defer closeFirst()
	second, closeSecond := h.Subscribe("worker-1")
	defer closeSecond()
	other, closeOther := h.Subscribe("worker-2")
	defer closeOther()

	assert.Equal(t, 2, h.SubscriberCount("worker-1"))
	assert.Equal(t, 1, h.SubscriberCount("worker-2"))

	delivered := h.Publish("worker-1", Event{UserID: "worker-1", Event: EventShiftAlarm, Data: "soon"})
	assert.Equal(t, 2, delivered)

	assert.Equal(t, EventShiftAlarm, (<-first).Event)
	assert.Equal(t, "soon", (<-second).Data)
	assert.Len(t, other, 0)
}

func TestHub_FullStreamDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(1)
	_, cleanup := h.Subscribe("worker-1")
	defer cleanup()

	assert.Equal(t, 1, h.Publish("worker-1", Event{Event: EventNotification}))
	assert.Equal(t, 0, h.Publish("worker-1", Event{Event: EventNotification}))
	assert.Equal(t, int64(1), h.Dropped())
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	h := NewHub(0)
	ch, cleanup := h.Subscribe("worker-1")

	cleanup()
	cleanup()

	_, open := <-ch
	require.False(t, open)
	assert.Equal(t, 0, h.SubscriberCount("worker-1"))
	assert.Equal(t, 0, h.Publish("worker-1", Event{}))
}
