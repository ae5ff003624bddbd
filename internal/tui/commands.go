package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mveigas/quire/internal/history"
	"github.com/mveigas/quire/internal/pager"
)

// waitForSignalCmd blocks on the watcher channel and turns the next
// signal into a message. Update re-arms it after every delivery.
func waitForSignalCmd(signals <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-signals; !ok {
			return nil
		}
		return signalMsg{}
	}
}

// checkReloadCmd runs one reconciler pass off the UI goroutine. The
// session's lock keeps the pass safe alongside navigation.
func checkReloadCmd(r *pager.Reconciler) tea.Cmd {
	return func() tea.Msg {
		return reloadCheckedMsg{outcome: r.Check()}
	}
}

func storePositionCmd(store *history.Store, st pager.Status) tea.Cmd {
	return func() tea.Msg {
		return positionSavedMsg{err: store.SetPosition(st.Path, st.Current, st.Total)}
	}
}
