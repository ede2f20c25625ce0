package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"tabdeck/internal/domain"
	"tabdeck/internal/eventbus"
)

// MessageMsg carries a user-visible message into the UI loop
type MessageMsg struct {
	Level domain.MessageLevel
	Text  string
}

// RefreshMsg asks the UI to re-render after a domain event
type RefreshMsg struct{}

// clearMessageMsg clears the message bar after a timeout
type clearMessageMsg struct{}

// ForwardEvents subscribes to the bus and feeds relevant events into the
// program. Handlers run on bus goroutines; program.Send is safe there.
func ForwardEvents(bus eventbus.EventBus, p *tea.Program) {
	bus.Subscribe(eventbus.EventMessageShown, func(ev eventbus.DomainEvent) {
		if msg, ok := ev.(eventbus.MessageShownEvent); ok {
			p.Send(MessageMsg{Level: msg.Level, Text: msg.Text})
		}
	})
	bus.Subscribe(eventbus.EventError, func(ev eventbus.DomainEvent) {
		if e, ok := ev.(eventbus.ErrorEvent); ok {
			p.Send(MessageMsg{Level: domain.LevelError, Text: e.Message})
		}
	})

	refresh := func(eventbus.DomainEvent) { p.Send(RefreshMsg{}) }
	for _, t := range []eventbus.EventType{
		eventbus.EventTabOpened,
		eventbus.EventTabClosed,
		eventbus.EventTabMoved,
		eventbus.EventCurrentTabChanged,
		eventbus.EventURLChanged,
		eventbus.EventEditorFinished,
		eventbus.EventProcessFinished,
	} {
		bus.Subscribe(t, refresh)
	}
}
