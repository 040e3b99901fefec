package tts

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages for Bubble Tea communication between the controller and the UI.

// EventMsg carries a Synthesizer notification into the Bubble Tea loop.
type EventMsg struct {
	Event Event
}

// EventsClosedMsg indicates the Synthesizer closed its event channel.
type EventsClosedMsg struct{}

// VoicesLoadedMsg reports the outcome of a voice list fetch.
type VoicesLoadedMsg struct {
	Err error
}

// WaitForEventCmd waits for the next Synthesizer notification. The model
// applies each EventMsg to the controller before issuing it again.
func WaitForEventCmd(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return EventsClosedMsg{}
		}
		return EventMsg{Event: ev}
	}
}

// LoadVoicesCmd fetches the voice list.
func LoadVoicesCmd(ctx context.Context, c *Controller) tea.Cmd {
	return func() tea.Msg {
		return VoicesLoadedMsg{Err: c.LoadVoices(ctx)}
	}
}
