package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/unfold/pkg/companion"
	"github.com/stefanpenner/unfold/pkg/store"
)

const minWidth = 40
const minHeight = 10

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.onboarding != nil {
		return m.onboarding.View(w, h)
	}

	if m.showHelpModal {
		modal := m.renderHelpModal()
		return placeOverlay(modal, w, h)
	}

	if m.showDeleteConfirm {
		modal := m.renderDeleteModal()
		return placeOverlay(modal, w, h)
	}

	var b strings.Builder

	// Header
	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")

	// Separator
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 2
	footerLines := 3
	contentHeight := h - headerLines - footerLines

	// Two-panel layout with a thin divider
	leftWidth := w / 3
	rightWidth := w - leftWidth - 1
	if leftWidth < 20 {
		leftWidth = 20
	}
	if rightWidth < 20 {
		rightWidth = 20
	}

	leftPanel := m.renderListPanel(leftWidth, contentHeight)
	rightPanel := m.renderRightPanel(rightWidth-1, contentHeight)

	sep := lipgloss.NewStyle().Foreground(ColorGrayDim).Render("│")
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(" ")
		b.WriteString(getLine(rightPanel, i, rightWidth-1))
		b.WriteString("\n")
	}

	// Separator
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	b.WriteString(m.renderStats())
	b.WriteString("\n")
	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	profile, _ := m.store.Profile()
	title := HeaderStyle.Render("Unfold, " + profile.Name + ".")
	pace := HeaderCountStyle.Render("  " + profile.Pace.Label())

	status := ""
	if m.waiting != "" {
		status = m.spinner.View() + " " + lipgloss.NewStyle().Foreground(ColorCyan).Render(waitingText(m.waiting))
	} else if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = lipgloss.NewStyle().Foreground(ColorCyan).Render(m.statusMsg)
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(pace) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + pace + strings.Repeat(" ", gap) + status
}

func waitingText(kind companion.Kind) string {
	if kind == companion.KindReflection {
		return "Reflecting on your path..."
	}
	return "Listening..."
}

func (m Model) renderListPanel(width, height int) string {
	var lines []string

	if m.isInputMode {
		lines = append(lines, InputPromptStyle.Render("> ")+m.textInput.View())
		lines = append(lines, "")
	}

	listHeight := height - len(lines)
	if listHeight < 1 {
		listHeight = 1
	}

	if len(m.visibleItems) == 0 {
		lines = append(lines, FooterStyle.Render("Nothing planted yet. Press 'a' to share an intention."))
	}

	// Scrolling window
	startIdx := 0
	endIdx := len(m.visibleItems)
	if len(m.visibleItems) > listHeight {
		half := listHeight / 2
		startIdx = m.cursor - half
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx = startIdx + listHeight
		if endIdx > len(m.visibleItems) {
			endIdx = len(m.visibleItems)
			startIdx = endIdx - listHeight
			if startIdx < 0 {
				startIdx = 0
			}
		}
	}

	for i := startIdx; i < endIdx; i++ {
		item := m.visibleItems[i]
		if item.IsSectionHeader {
			lines = append(lines, renderSectionHeader(item, width))
			continue
		}
		lines = append(lines, renderListItem(item, i == m.cursor, width))
	}

	return strings.Join(lines, "\n")
}

func renderSectionHeader(item ListItem, width int) string {
	style := FocusPointStyle
	if item.ID == headerDirections {
		style = DirectionStyle
	}

	label := style.Render("── " + item.Name + " ")
	remaining := width - lipgloss.Width(label)
	if remaining > 0 {
		label += lipgloss.NewStyle().Foreground(ColorGrayDim).Render(strings.Repeat("─", remaining))
	}
	return label
}

func renderListItem(item ListItem, isSelected bool, width int) string {
	indent := strings.Repeat(DepthIndent, item.Depth-1)

	var line string
	if item.IsMilestone() {
		icon := IconOpen
		name := truncate(item.Name, width-len(indent)-6)
		if item.Milestone.Completed {
			icon = BloomedStyle.Render(IconDone)
			name = BloomedStyle.Render(name)
		}
		line = indent + "    " + icon + " " + name
	} else {
		expandIcon := "  "
		if item.HasChildren {
			if item.IsExpanded {
				expandIcon = IconExpanded + " "
			} else {
				expandIcon = IconCollapsed + " "
			}
		}

		g := item.Goal
		pct := fmt.Sprintf("%3d%%", g.Progress)
		name := truncate(item.Name, width-len(indent)-lipgloss.Width(pct)-6)
		if g.Status == store.StatusResting || g.Status == store.StatusPaused {
			name = RestingStyle.Render(name)
		}
		line = indent + expandIcon + goalIcon(*g) + " " + name

		gap := width - lipgloss.Width(line) - lipgloss.Width(pct)
		if gap < 1 {
			gap = 1
		}
		line += strings.Repeat(" ", gap) + HeaderCountStyle.Render(pct)
	}

	// Pad to width
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}
	if isSelected {
		line = SelectedStyle.Render(line)
	}
	return line
}

func goalIcon(g store.Goal) string {
	switch {
	case g.IsBloomed():
		return BloomedStyle.Render(IconBloomed)
	case g.Progress > 0:
		return GrowingStyle.Render(IconGrowing)
	default:
		return SeedStyle.Render(IconSeed)
	}
}

func (m Model) renderRightPanel(width, height int) string {
	var content string

	if m.showNetwork {
		content = renderNetwork(store.BuildNetwork(m.goals), width)
	} else if r, ok := m.companion.Reflection(); ok {
		content = m.renderMarkdown(reflectionMarkdown(r))
	} else if item, ok := m.selectedItem(); ok {
		g := *item.Goal
		content = progressBar(g.Progress, width) + "\n" + m.renderMarkdown(goalMarkdown(g))
	} else {
		content = FooterStyle.Render("Select a goal to see how it is unfolding")
	}

	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMarkdown(md string) string {
	if m.glamourRenderer == nil {
		return md
	}
	rendered, err := m.glamourRenderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(rendered, "\n ")
}

// goalMarkdown builds the detail pane for a goal.
func goalMarkdown(g store.Goal) string {
	var md strings.Builder

	md.WriteString("# " + g.Title + "\n\n")

	meta := []string{
		"**" + g.Type.Label() + "**",
		"**Status:** " + string(g.Status),
		fmt.Sprintf("**Progress:** %d%%", g.Progress),
	}
	if !g.CreatedAt.IsZero() {
		meta = append(meta, "**Planted:** "+g.CreatedAt.Format("Jan 2, 2006"))
	}
	md.WriteString(strings.Join(meta, " | ") + "\n\n")

	if g.Description != "" {
		md.WriteString(g.Description + "\n\n")
	}

	if len(g.Milestones) > 0 {
		md.WriteString(fmt.Sprintf("## Milestones (%d/%d)\n\n", g.CompletedCount(), len(g.Milestones)))
		for _, ms := range g.Milestones {
			check := " "
			if ms.Completed {
				check = "x"
			}
			md.WriteString("- [" + check + "] " + ms.Text + "\n")
		}
	}

	return md.String()
}

// reflectionMarkdown builds the reflection pane.
func reflectionMarkdown(r store.Reflection) string {
	var md strings.Builder
	md.WriteString("# Reflection\n\n")
	md.WriteString(fmt.Sprintf("*%s · harmony %d%% · %d goals*\n\n", r.Date.Format("Monday, Jan 2"), r.Harmony, r.GoalCount))
	md.WriteString(r.Content + "\n")
	if r.FilePath != "" {
		md.WriteString("\n*Saved to " + r.FilePath + "*\n")
	}
	return md.String()
}

// progressBar renders a bar of the given width for pct in [0, 100].
func progressBar(pct, width int) string {
	barWidth := width - 6
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 40 {
		barWidth = 40
	}
	filled := pct * barWidth / 100
	return ProgressFullStyle.Render(strings.Repeat("━", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("━", barWidth-filled)) +
		HeaderCountStyle.Render(fmt.Sprintf(" %3d%%", pct))
}

func (m Model) renderStats() string {
	s := store.ComputeStats(m.goals)
	stat := func(label string, value string) string {
		return StatLabelStyle.Render(label+" ") + StatValueStyle.Render(value)
	}
	line := stat("Bloomed", fmt.Sprint(s.Bloomed)) + "   " +
		stat("Flowing", fmt.Sprint(s.Flowing)) + "   " +
		stat("Harmony", fmt.Sprintf("%d%%", s.Harmony))

	if err := m.store.PersistErr(); err != nil {
		line += "   " + lipgloss.NewStyle().Foreground(ColorRed).Render("not saved: "+err.Error())
	}
	return line
}

func (m Model) renderFooter(width int) string {
	help := m.keys.ShortHelp()
	if m.isInputMode {
		help = "enter plant  esc cancel"
	} else if m.waiting != "" {
		help = "esc cancel request  ↑↓ nav  space toggle"
	} else if _, ok := m.companion.Reflection(); ok && !m.showNetwork {
		help = "w save reflection  x dismiss  n network  ? help"
	} else if m.showNetwork {
		help = "n/esc back  a plant  r reflect  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Release Goal"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Let go of '%s' and its milestones?\n\n", m.deleteTitle))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
