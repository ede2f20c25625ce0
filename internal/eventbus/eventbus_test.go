package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tabdeck/internal/domain"
)

func waitFor(t *testing.T, ch <-chan DomainEvent) DomainEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestPublishReachesSubscriber(t *testing.T) {
	bus := New()
	got := make(chan DomainEvent, 1)

	bus.Subscribe(EventTabOpened, func(ev DomainEvent) { got <- ev })
	bus.Publish(TabOpenedEvent{WindowID: 1, Index: 0, URL: "http://a.example"})

	ev := waitFor(t, got)
	opened, ok := ev.(TabOpenedEvent)
	require.True(t, ok)
	require.Equal(t, "http://a.example", opened.URL)
}

func TestSubscriberOnlySeesItsType(t *testing.T) {
	bus := New()
	got := make(chan DomainEvent, 4)

	bus.Subscribe(EventTabClosed, func(ev DomainEvent) { got <- ev })
	bus.Publish(TabOpenedEvent{WindowID: 1})
	bus.Publish(TabClosedEvent{WindowID: 1, Index: 2})

	ev := waitFor(t, got)
	require.Equal(t, EventTabClosed, ev.Type())

	select {
	case ev := <-got:
		t.Fatalf("unexpected second event: %v", ev.Type())
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMultipleSubscribers(t *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	wg.Add(2)

	for i := 0; i < 2; i++ {
		bus.Subscribe(EventMessageShown, func(DomainEvent) { wg.Done() })
	}
	bus.Publish(MessageShownEvent{Level: domain.LevelInfo, Text: "hi"})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all subscribers were called")
	}
}

func TestPanickingHandlerDoesNotKillBus(t *testing.T) {
	bus := New()
	got := make(chan DomainEvent, 1)

	bus.Subscribe(EventError, func(DomainEvent) { panic("boom") })
	bus.Subscribe(EventError, func(ev DomainEvent) { got <- ev })

	bus.Publish(ErrorEvent{Message: "first"})
	waitFor(t, got)

	bus.Publish(ErrorEvent{Message: "second"})
	ev := waitFor(t, got)
	require.Equal(t, "second", ev.(ErrorEvent).Message)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()
	got := make(chan DomainEvent, 4)
	other := make(chan DomainEvent, 4)

	unsub := bus.Subscribe(EventTabClosed, func(ev DomainEvent) { got <- ev })
	bus.Subscribe(EventTabClosed, func(ev DomainEvent) { other <- ev })

	bus.Publish(TabClosedEvent{WindowID: 1, Index: 0})
	waitFor(t, got)
	waitFor(t, other)

	unsub()
	bus.Publish(TabClosedEvent{WindowID: 1, Index: 1})

	// The remaining subscriber still sees events
	waitFor(t, other)
	select {
	case <-got:
		t.Fatal("unsubscribed handler was still called")
	case <-time.After(100 * time.Millisecond):
	}
}
