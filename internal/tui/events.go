package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/bomscope/internal/simexplorer"
)

// ToastExpiredMsg tells the model the compare toast went away.
type ToastExpiredMsg struct {
	Event simexplorer.CompareEvent
}

// Events carries notifications raised off the program goroutine, such as
// the toast timer, into the update loop.
type Events chan tea.Msg

// NewEvents returns a buffered event channel.
func NewEvents() Events {
	return make(Events, 8)
}

// ToastDismissed is handed to the workspace as its toast callback. It never
// blocks; a full channel drops the message since the next refresh catches up.
func (e Events) ToastDismissed(ev simexplorer.CompareEvent) {
	select {
	case e <- ToastExpiredMsg{Event: ev}:
	default:
	}
}

func (e Events) wait() tea.Cmd {
	if e == nil {
		return nil
	}
	return func() tea.Msg {
		return <-e
	}
}
