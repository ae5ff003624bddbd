package tui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mveigas/quire/internal/history"
	"github.com/mveigas/quire/internal/pager"
	"github.com/mveigas/quire/internal/watch"
)

// Config wires runtime collaborators into the TUI program. Watcher and
// Reconciler are both set or both nil; History may be nil when the
// reading history is disabled.
type Config struct {
	Session    *pager.Session
	Reconciler *pager.Reconciler
	Watcher    watch.Watcher
	History    *history.Store
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	jumpInput := textinput.New()
	jumpInput.Placeholder = "page"
	jumpInput.CharLimit = 6
	jumpInput.Width = 8

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	status := config.Session.Status()
	return &model{
		config:         config,
		jumpInput:      jumpInput,
		viewport:       vp,
		status:         status,
		lastSavedPage:  status.Current,
		lastSavedTotal: status.Total,
		contentDirty:   true,
		infoMessage:    "Press ? for keys.",
	}
}

const (
	minViewportWidth          = 40
	minViewportHeight         = 5
	viewportHorizontalPadding = 4
	chromeHeight              = 6
)

type model struct {
	config Config

	jumpInput textinput.Model
	viewport  viewport.Model

	status         pager.Status
	jumpFocused    bool
	helpVisible    bool
	contentDirty   bool
	lastSavedPage  int
	lastSavedTotal int
	infoMessage    string
	errorMessage   string
}

type signalMsg struct{}

type reloadCheckedMsg struct {
	outcome pager.Outcome
}

type positionSavedMsg struct {
	err error
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.config.Watcher != nil {
		cmds = append(cmds, waitForSignalCmd(m.config.Watcher.Signals()))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, m.quit()
		case tea.KeyEsc:
			if m.jumpFocused {
				m.blurJump()
				m.infoMessage = "Jump canceled."
				return m, nil
			}
			if m.helpVisible {
				m.helpVisible = false
				return m, nil
			}
			return m, m.quit()
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case signalMsg:
		if m.config.Reconciler == nil {
			return m, nil
		}
		return m, tea.Batch(
			checkReloadCmd(m.config.Reconciler),
			waitForSignalCmd(m.config.Watcher.Signals()),
		)
	case reloadCheckedMsg:
		return m.handleOutcome(msg.outcome)
	case positionSavedMsg:
		if msg.err != nil {
			log.Printf("[history] save failed: %v", msg.err)
		}
		return m, nil
	case tea.WindowSizeMsg:
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - chromeHeight
		if height < minViewportHeight {
			height = minViewportHeight
		}
		m.viewport.Height = height
		m.markContentDirty()
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.jumpFocused {
		return m.handleJumpKey(key)
	}

	handled := true
	switch key.String() {
	case "l", "j", "right", "down":
		m.setStatus(m.config.Session.Next())
	case "h", "k", "left", "up":
		m.setStatus(m.config.Session.Previous())
	case "g", "home":
		m.setStatus(m.config.Session.Start())
	case "G", "end":
		m.setStatus(m.config.Session.End())
	case "i":
		m.jumpFocused = true
		m.jumpInput.SetValue("")
		m.jumpInput.Focus()
		m.errorMessage = ""
		m.infoMessage = "Type a page number. Esc leaves the jump box."
		return m, textinput.Blink
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "q", "ctrl+q":
		return m, m.quit()
	default:
		handled = false
	}
	if handled {
		return m, m.savePositionCmd()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

// handleJumpKey navigates live while the reader types: every keystroke
// reapplies the number in the box, and an out-of-range number simply
// leaves the current page alone.
func (m *model) handleJumpKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyEnter {
		m.blurJump()
		m.infoMessage = ""
		return m, m.savePositionCmd()
	}
	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(key)

	value := strings.TrimSpace(m.jumpInput.Value())
	if value == "" {
		m.errorMessage = ""
		return m, cmd
	}
	page, err := strconv.Atoi(value)
	if err != nil {
		m.errorMessage = fmt.Sprintf("%q is not a page number", value)
		return m, cmd
	}
	m.errorMessage = ""
	// Readers type 1-based page numbers.
	m.setStatus(m.config.Session.Goto(page - 1))
	return m, cmd
}

func (m *model) handleOutcome(outcome pager.Outcome) (tea.Model, tea.Cmd) {
	switch outcome.Kind {
	case pager.OutcomeReloaded:
		m.setStatus(m.config.Session.Status())
		m.errorMessage = ""
		if outcome.Cursor.Current != outcome.Previous.Current {
			m.infoMessage = fmt.Sprintf("Document reloaded. Page %d is gone, showing page %d.",
				outcome.Previous.Current+1, outcome.Cursor.Current+1)
		} else {
			m.infoMessage = "Document reloaded."
		}
		return m, m.savePositionCmd()
	case pager.OutcomeFailed:
		m.errorMessage = fmt.Sprintf("reload failed: %v", outcome.Err)
		m.infoMessage = "Keeping the last good copy. Retrying on the next change."
		return m, nil
	default:
		return m, nil
	}
}

// setStatus adopts st and resets the scroll position when it shows a
// different page or a different incarnation of the document.
func (m *model) setStatus(st pager.Status) {
	if st.Current != m.status.Current || st.Generation != m.status.Generation {
		m.viewport.SetYOffset(0)
		m.markContentDirty()
	}
	m.status = st
}

func (m *model) blurJump() {
	m.jumpFocused = false
	m.jumpInput.Blur()
	m.jumpInput.SetValue("")
	m.errorMessage = ""
}

// savePositionCmd persists the reading position off the UI goroutine.
// It returns nil when the history is disabled or the position has not
// moved since the last save.
func (m *model) savePositionCmd() tea.Cmd {
	if m.config.History == nil {
		return nil
	}
	if m.status.Current == m.lastSavedPage && m.status.Total == m.lastSavedTotal {
		return nil
	}
	m.lastSavedPage = m.status.Current
	m.lastSavedTotal = m.status.Total
	return storePositionCmd(m.config.History, m.status)
}

func (m *model) quit() tea.Cmd {
	if m.config.Watcher != nil {
		m.config.Watcher.Stop()
	}
	if m.config.History != nil {
		st := m.status
		if err := m.config.History.SetPosition(st.Path, st.Current, st.Total); err != nil {
			log.Printf("[history] final save failed: %v", err)
		}
	}
	stats := m.config.Session.CacheStats()
	log.Printf("[cache] hits=%d misses=%d stale-drops=%d", stats.Hits, stats.Misses, stats.Drops)
	return tea.Quit
}
