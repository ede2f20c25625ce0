package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"tabdeck/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventTabOpened         = domain.EventTabOpened
	EventTabClosed         = domain.EventTabClosed
	EventTabMoved          = domain.EventTabMoved
	EventCurrentTabChanged = domain.EventCurrentTabChanged
	EventURLChanged        = domain.EventURLChanged
	EventMessageShown      = domain.EventMessageShown
	EventSearchWrapped     = domain.EventSearchWrapped
	EventMarkSet           = domain.EventMarkSet
	EventDownloadRequested = domain.EventDownloadRequested
	EventProcessStarted    = domain.EventProcessStarted
	EventProcessFinished   = domain.EventProcessFinished
	EventEditorFinished    = domain.EventEditorFinished
	EventError             = domain.EventError
	EventConfigLoaded      = domain.EventConfigLoaded
	EventConfigSaved       = domain.EventConfigSaved
	EventConfigChanged     = domain.EventConfigChanged
	EventAppReady          = domain.EventAppReady
)

// Re-export domain event types
type TabOpenedEvent = domain.TabOpenedEvent
type TabClosedEvent = domain.TabClosedEvent
type TabMovedEvent = domain.TabMovedEvent
type CurrentTabChangedEvent = domain.CurrentTabChangedEvent
type URLChangedEvent = domain.URLChangedEvent
type MessageShownEvent = domain.MessageShownEvent
type SearchWrappedEvent = domain.SearchWrappedEvent
type MarkSetEvent = domain.MarkSetEvent
type DownloadRequestedEvent = domain.DownloadRequestedEvent
type ProcessStartedEvent = domain.ProcessStartedEvent
type ProcessFinishedEvent = domain.ProcessFinishedEvent
type EditorFinishedEvent = domain.EditorFinishedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type ConfigChangedEvent = domain.ConfigChangedEvent
type AppReadyEvent = domain.AppReadyEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

// subscription pairs a handler with an id so it can be removed later
type subscription struct {
	id      int
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    int
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Skip logging for high-frequency events
	switch event.Type() {
	case EventMessageShown, EventURLChanged:
		// Too frequent to log
	default:
		log.Printf("EventBus: Publishing event %s", event.Type())
	}

	select {
	case b.eventChan <- event:
		// Event sent successfully
	default:
		// Channel full, log and drop
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	// Return unsubscribe function
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		// Find and remove the subscription by id
		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			// Get handlers for this event type
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			// Make a copy to avoid holding lock during handler execution
			subsCopy := make([]subscription, len(subs))
			copy(subsCopy, subs)
			b.mu.RUnlock()

			// Call each handler
			for _, sub := range subsCopy {
				// Call handler in a goroutine to avoid blocking
				go func(h EventHandler, eventType EventType) {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("Event handler panic for %s: %v\nStack: %s", eventType, r, debug.Stack())
						}
					}()
					h(event)
				}(sub.handler, event.Type())
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
					// Discard event
				default:
					return
				}
			}
		}
	}
}
