package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcherFanOut(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventAccountRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.Username)
		return nil
	})
	d.Subscribe(EventAccountRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.Username)
		return errors.New("handler failure must not stop the fan-out")
	})
	d.Subscribe(EventAccountRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "third:"+e.Username)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventAccountRegistered, Username: "ada"})
	require.NoError(t, err)
	require.Equal(t, []string{"first:ada", "second:ada", "third:ada"}, calls)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventSessionRevoked, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLoginSucceeded})
	require.NoError(t, err)
	require.False(t, called)
}
