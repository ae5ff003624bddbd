package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/mveigas/quire/internal/guide"
	"github.com/mveigas/quire/internal/pager"
)

func (m *model) View() string {
	m.refreshContentIfDirty()

	parts := []string{m.headerView(), m.viewport.View(), m.statusBarView()}
	if m.jumpFocused {
		parts = append(parts, m.jumpBoxView())
	}
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	if m.helpVisible {
		parts = append(parts, m.helpView())
	}
	return joinNonEmpty(parts)
}

func (m *model) headerView() string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleStyle.Render("quire"),
		helperStyle.Render("  "+m.status.Path),
	)
}

func (m *model) statusBarView() string {
	parts := []string{m.status.Label}
	switch {
	case m.status.Total == 0:
	case m.status.IsFirst && m.status.IsLast:
		parts = append(parts, "only page")
	case m.status.IsFirst:
		parts = append(parts, "first page")
	case m.status.IsLast:
		parts = append(parts, "last page")
	}
	return statusBarStyle.Render(strings.Join(parts, "  •  "))
}

func (m *model) jumpBoxView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Go to page"))
	b.WriteRune('\n')
	b.WriteString(m.jumpInput.View())
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("The view follows as you type. Enter keeps the page, Esc cancels."))
	return b.String()
}

func (m *model) helpView() string {
	rows := []string{sectionHeaderStyle.Render("Keys")}
	for _, section := range guide.Sections() {
		rows = append(rows, subtitleStyle.Render(section.Title))
		for _, binding := range section.Bindings {
			key := keyStyle.Render(binding.Keys)
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, key, keyDescStyle.Render(" "+binding.Action)))
		}
	}
	return helpBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) markContentDirty() { m.contentDirty = true }

func (m *model) refreshContentIfDirty() {
	if !m.contentDirty {
		return
	}
	m.contentDirty = false
	m.refreshContent()
}

func (m *model) refreshContent() {
	artifact, err := m.config.Session.CurrentArtifact()
	if errors.Is(err, pager.ErrNoPages) {
		m.viewport.SetContent(helperStyle.Render("The document has no pages yet."))
		return
	}
	if err != nil {
		m.viewport.SetContent(errorStyle.Render(fmt.Sprintf("Could not read this page: %v", err)))
		return
	}
	width := m.viewport.Width
	if width <= 0 {
		width = minViewportWidth
	}
	m.viewport.SetContent(wordwrap.String(artifact.Text, width))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	subtitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	helpBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
)
