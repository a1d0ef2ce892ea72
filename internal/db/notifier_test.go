package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_PublishBumpsRevision(t *testing.T) {
	n := NewNotifier()

	assert.Equal(t, uint64(0), n.Current("a"))
	assert.Equal(t, uint64(1), n.Publish("a"))
	assert.Equal(t, uint64(2), n.Publish("a"))
	assert.Equal(t, uint64(1), n.Publish("b"))
	assert.Equal(t, uint64(2), n.Current("a"))
}

func TestNotifier_SlowSubscriberSeesLatest(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe("a")
	defer cancel()

	n.Publish("a")
	n.Publish("a")
	n.Publish("a")

	rev := <-ch
	assert.Equal(t, uint64(3), rev.Revision)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected pending revision %d", extra.Revision)
	default:
	}
}

func TestNotifier_OnlyOwnUserIsNotified(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe("a")
	defer cancel()

	n.Publish("b")

	select {
	case rev := <-ch:
		t.Fatalf("unexpected revision for %s", rev.UserID)
	default:
	}
}

func TestNotifier_CancelClosesAndIsIdempotent(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe("a")
	require.Equal(t, 1, n.Subscribers("a"))

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, n.Subscribers("a"))

	// publishing after cancel must not panic on the closed channel
	assert.NotPanics(t, func() { n.Publish("a") })
}
