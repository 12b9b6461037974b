package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopfront/backend-shopfront/internal/events"
)

type stubStore struct {
	inserted []events.Event
	fail     error
}

func (s *stubStore) InsertEvent(_ context.Context, event events.Event) error {
	if s.fail != nil {
		return s.fail
	}
	s.inserted = append(s.inserted, event)
	return nil
}

type captureNotifier struct {
	events []events.Event
	fail   error
}

func (n *captureNotifier) Notify(_ context.Context, event events.Event) error {
	n.events = append(n.events, event)
	return n.fail
}

func TestEmitRecordsAndFansOut(t *testing.T) {
	store := &stubStore{}
	notifier := &captureNotifier{}
	bus := &events.Bus{
		Store:     store,
		Notifiers: []events.Notifier{notifier},
		Now:       func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}

	ev, err := bus.Emit(context.Background(), events.TopicOrderCreated, "order-1", map[string]any{"number": "SF-000001"})
	require.NoError(t, err)
	require.NotEmpty(t, ev.ID)
	require.Equal(t, events.TopicOrderCreated, ev.Topic)
	require.Len(t, store.inserted, 1)
	require.Len(t, notifier.events, 1)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	require.Equal(t, "SF-000001", payload["number"])
}

func TestEmitValidatesTopicAndAggregate(t *testing.T) {
	bus := &events.Bus{Store: &stubStore{}}
	_, err := bus.Emit(context.Background(), "  ", "order-1", nil)
	require.Error(t, err)
	_, err = bus.Emit(context.Background(), events.TopicOrderCreated, "", nil)
	require.Error(t, err)
}

func TestEmitNotifierFailureDoesNotDropEvent(t *testing.T) {
	store := &stubStore{}
	notifier := &captureNotifier{fail: errors.New("smtp down")}
	bus := &events.Bus{Store: store, Notifiers: []events.Notifier{notifier}}

	ev, err := bus.Emit(context.Background(), events.TopicOrderCreated, "order-1", nil)
	require.Error(t, err)
	require.NotEmpty(t, ev.ID)
	require.Len(t, store.inserted, 1)
}

func TestEmitRejectsInvalidRawPayload(t *testing.T) {
	bus := &events.Bus{Store: &stubStore{}}
	_, err := bus.Emit(context.Background(), events.TopicOrderCreated, "order-1", []byte("not json"))
	require.Error(t, err)
}
