package hub

import (
	"context"
	"testing"

	"socialnet/backend/internal/events"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubjectOnly(t *testing.T) {
	h := NewHub()
	bob := make(Client, 1)
	carol := make(Client, 1)
	h.Subscribe(2, bob)
	h.Subscribe(3, carol)

	err := h.Publish(context.Background(), events.Event{Type: events.UserFollowed, ActorID: 1, SubjectID: 2})
	require.NoError(t, err)

	require.Len(t, bob, 1)
	var got events.Event
	require.NoError(t, json.Unmarshal(<-bob, &got))
	assert.Equal(t, events.UserFollowed, got.Type)
	assert.Equal(t, uint(1), got.ActorID)

	assert.Len(t, carol, 0)
}

func TestHub_FullClientIsSkipped(t *testing.T) {
	h := NewHub()
	c := make(Client, 1)
	h.Subscribe(5, c)

	ev := events.Event{Type: events.PostLiked, SubjectID: 5}
	require.NoError(t, h.Publish(context.Background(), ev))
	require.NoError(t, h.Publish(context.Background(), ev))

	assert.Len(t, c, 1)
}

func TestHub_Unsubscribe(t *testing.T) {
	h := NewHub()
	c := make(Client, 1)
	h.Subscribe(9, c)
	assert.Equal(t, 1, h.Subscribers(9))

	h.Unsubscribe(9, c)
	assert.Equal(t, 0, h.Subscribers(9))

	_, open := <-c
	assert.False(t, open)

	// Second unsubscribe is a no-op and must not close twice.
	h.Unsubscribe(9, c)
}

func TestHub_CloseEndsStreams(t *testing.T) {
	h := NewHub()
	bob := make(Client, 1)
	h.Subscribe(2, bob)

	h.Close()
	_, open := <-bob
	assert.False(t, open)
	assert.Zero(t, h.Subscribers(2))
	assert.NotPanics(t, func() { h.Unsubscribe(2, bob) })

	late := make(Client, 1)
	h.Subscribe(2, late)
	_, open = <-late
	assert.False(t, open)
	assert.NoError(t, h.Publish(context.Background(), events.Event{SubjectID: 2}))
}
