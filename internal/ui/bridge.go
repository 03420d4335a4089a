package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/popview/internal/state"
)

// storeBridge turns store notifications into Bubble Tea messages. Bursts of
// dispatches collapse into one pending signal; the model re-reads the
// snapshot when it handles the message, so ordering between notifications
// does not matter.
type storeBridge struct {
	ch     chan struct{}
	done   chan struct{}
	cancel func()
	once   sync.Once
}

func newStoreBridge(store *state.Store) *storeBridge {
	b := &storeBridge{
		ch:     make(chan struct{}, 1),
		done:   make(chan struct{}),
		cancel: func() {},
	}
	if store != nil {
		b.cancel = store.Subscribe(func(state.State) {
			select {
			case b.ch <- struct{}{}:
			default:
			}
		})
	}
	return b
}

// wait blocks until the store changes or the bridge is closed.
func (b *storeBridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.ch:
			return storeChangedMsg{}
		case <-b.done:
			return nil
		}
	}
}

func (b *storeBridge) close() {
	b.once.Do(func() {
		b.cancel()
		close(b.done)
	})
}
