package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/stefanpenner/unfold/pkg/companion"
	"github.com/stefanpenner/unfold/pkg/store"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// GoalPlantedMsg is sent when a plant request finishes.
type GoalPlantedMsg struct {
	Seq  int
	Goal store.Goal
	Err  error
}

// ReflectionMsg is sent when a reflection request finishes.
type ReflectionMsg struct {
	Seq        int
	Reflection store.Reflection
	Err        error
}

// Model is the Bubble Tea model for the companion TUI.
type Model struct {
	companion     *companion.Companion
	store         *store.Store
	keys          KeyMap
	width         int
	height        int
	goals         []store.Goal
	visibleItems  []ListItem
	expandedState map[string]bool
	cursor        int
	showNetwork   bool

	// Set until the profile exists
	onboarding *Onboarding

	// Modal state
	showHelpModal     bool
	showDeleteConfirm bool
	deleteTarget      string
	deleteTitle       string

	// Input mode (for planting intentions)
	isInputMode bool
	textInput   textinput.Model

	// Oracle request in flight; requestSeq invalidates results of cancelled requests
	waiting    companion.Kind
	requestSeq int
	spinner    spinner.Model

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int
}

// NewModel creates a new TUI model.
func NewModel(c *companion.Companion) Model {
	ti := textinput.New()
	ti.Placeholder = "What is unfolding for you?"
	ti.CharLimit = 280

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = InputPromptStyle

	m := Model{
		companion:     c,
		store:         c.Store(),
		keys:          DefaultKeyMap(),
		expandedState: make(map[string]bool),
		textInput:     ti,
		spinner:       sp,
	}
	if !m.store.HasProfile() {
		o := NewOnboarding()
		m.onboarding = &o
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Pre-create glamour renderer at the right width
		rightWidth := msg.Width - (msg.Width / 3) - 1 - 2
		if rightWidth < 20 {
			rightWidth = 20
		}
		m.getGlamourRenderer(rightWidth)
		m.reload()
		return m, tea.ClearScreen

	case FileChangedMsg:
		// A failed reload keeps the session; the footer already warns about it
		if err := m.store.Reload(); err == nil {
			m.reload()
		}
		return m, nil

	case GoalPlantedMsg:
		if msg.Seq != m.requestSeq {
			return m, nil
		}
		m.waiting = ""
		if msg.Err != nil {
			m.setStatus(requestError("Could not shape that intention", msg.Err))
			return m, nil
		}
		m.expandedState[msg.Goal.ID] = true
		m.reload()
		m.moveCursorTo(msg.Goal.ID)
		m.setStatus("Planted: " + msg.Goal.Title)
		return m, nil

	case ReflectionMsg:
		if msg.Seq != m.requestSeq {
			return m, nil
		}
		m.waiting = ""
		if msg.Err != nil {
			m.setStatus(requestError("No reflection this time", msg.Err))
			return m, nil
		}
		m.showNetwork = false
		m.setStatus("Reflection ready. w to save, x to dismiss")
		return m, nil

	case spinner.TickMsg:
		if m.waiting == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.onboarding != nil {
		next, cmd, _ := m.onboarding.Update(msg)
		m.onboarding = &next
		return m, cmd
	}

	// Update text input if in input mode
	if m.isInputMode {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.onboarding != nil {
		next, cmd, profile := m.onboarding.Update(msg)
		m.onboarding = &next
		if profile != nil {
			m.store.SetProfile(*profile)
			m.onboarding = nil
			m.reload()
			m.setStatus("Welcome, " + profile.Name + ". Press a to plant your first intention.")
		}
		return m, cmd
	}

	// Input mode handling
	if m.isInputMode {
		switch msg.Type {
		case tea.KeyEsc:
			m.isInputMode = false
			m.textInput.Blur()
			return m, nil
		case tea.KeyEnter:
			text := m.textInput.Value()
			m.isInputMode = false
			m.textInput.Blur()
			m.textInput.SetValue("")
			return m.startPlant(text)
		default:
			var cmd tea.Cmd
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	}

	// Help modal
	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	// Delete confirmation
	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			if m.store.DeleteGoal(m.deleteTarget) {
				m.setStatus("Released: " + m.deleteTitle)
				delete(m.expandedState, m.deleteTarget)
				m.reload()
			}
			m.showDeleteConfirm = false
		case "n", "N", "esc":
			m.showDeleteConfirm = false
		}
		return m, nil
	}

	// Normal mode
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.waiting != "" {
			m.companion.Cancel()
			m.waiting = ""
			m.requestSeq++
			m.setStatus("Request cancelled")
		} else if m.showNetwork {
			m.showNetwork = false
		}

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Right):
		if item, ok := m.selectedItem(); ok && item.HasChildren {
			m.expandedState[item.ID] = true
			m.rebuildVisible()
		}

	case key.Matches(msg, m.keys.Left):
		if item, ok := m.selectedItem(); ok {
			if item.IsMilestone() {
				m.moveCursorTo(item.ParentID)
			} else if item.IsExpanded {
				m.expandedState[item.ID] = false
				m.rebuildVisible()
			}
		}

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selectedItem(); ok && item.HasChildren {
			m.expandedState[item.ID] = !m.expandedState[item.ID]
			m.rebuildVisible()
		}

	case key.Matches(msg, m.keys.Space):
		m.toggleSelected()

	case key.Matches(msg, m.keys.Plant):
		if m.waiting != "" {
			m.setStatus("Still listening. esc to cancel")
			return m, nil
		}
		m.isInputMode = true
		return m, m.textInput.Focus()

	case key.Matches(msg, m.keys.Reflect):
		return m.startReflection()

	case key.Matches(msg, m.keys.Save):
		saved, err := m.companion.SaveReflection()
		if err != nil {
			m.setStatus("Error: " + err.Error())
		} else {
			m.setStatus("Saved to " + saved.FilePath)
		}

	case key.Matches(msg, m.keys.Dismiss):
		m.companion.DismissReflection()

	case key.Matches(msg, m.keys.Network):
		m.showNetwork = !m.showNetwork

	case key.Matches(msg, m.keys.CycleStatus):
		if item, ok := m.selectedItem(); ok {
			g, _ := m.store.SetStatus(item.Goal.ID, item.Goal.Status.Next())
			m.reload()
			m.setStatus(g.Title + " → " + string(g.Status))
		}

	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selectedItem(); ok {
			m.showDeleteConfirm = true
			m.deleteTarget = item.Goal.ID
			m.deleteTitle = item.Goal.Title
		}

	case key.Matches(msg, m.keys.Reload):
		if err := m.store.Reload(); err != nil {
			m.setStatus("Not reloaded: " + err.Error())
			return m, nil
		}
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
	}

	return m, nil
}

func (m Model) startPlant(text string) (tea.Model, tea.Cmd) {
	if m.waiting != "" {
		return m, nil
	}
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	m.requestSeq++
	m.waiting = companion.KindGoal
	seq, c := m.requestSeq, m.companion
	plant := func() tea.Msg {
		g, err := c.PlantGoal(context.Background(), text)
		return GoalPlantedMsg{Seq: seq, Goal: g, Err: err}
	}
	return m, tea.Batch(plant, m.spinner.Tick)
}

func (m Model) startReflection() (tea.Model, tea.Cmd) {
	if m.waiting != "" {
		return m, nil
	}
	if len(m.goals) == 0 {
		m.setStatus("Plant an intention first")
		return m, nil
	}

	m.requestSeq++
	m.waiting = companion.KindReflection
	seq, c := m.requestSeq, m.companion
	reflect := func() tea.Msg {
		r, err := c.Reflect(context.Background())
		return ReflectionMsg{Seq: seq, Reflection: r, Err: err}
	}
	return m, tea.Batch(reflect, m.spinner.Tick)
}

func (m *Model) toggleSelected() {
	item, ok := m.selectedItem()
	if !ok {
		return
	}
	if !item.IsMilestone() {
		if item.HasChildren && !item.IsExpanded {
			m.expandedState[item.ID] = true
			m.rebuildVisible()
		}
		return
	}

	g, changed := m.store.ToggleMilestone(item.Goal.ID, item.Milestone.ID)
	if !changed {
		return
	}
	m.reload()
	if g.IsBloomed() {
		m.setStatus(IconBloomed + " " + g.Title + " has bloomed")
	}
}

// selectedItem returns the row under the cursor, skipping section headers.
func (m *Model) selectedItem() (ListItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visibleItems) {
		return ListItem{}, false
	}
	item := m.visibleItems[m.cursor]
	if item.IsSectionHeader {
		return ListItem{}, false
	}
	return item, true
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	for next >= 0 && next < len(m.visibleItems) && m.visibleItems[next].IsSectionHeader {
		next += delta
	}
	if next >= 0 && next < len(m.visibleItems) {
		m.cursor = next
	}
}

func (m *Model) moveCursorTo(id string) {
	if i := indexOfID(m.visibleItems, id); i >= 0 {
		m.cursor = i
	}
}

func (m *Model) reload() {
	m.goals = m.store.Goals()
	m.rebuildVisible()
}

// rebuildVisible re-flattens the list and keeps the cursor on the same row
// when it still exists.
func (m *Model) rebuildVisible() {
	var curID string
	if m.cursor >= 0 && m.cursor < len(m.visibleItems) {
		curID = m.visibleItems[m.cursor].ID
	}

	m.visibleItems = FlattenWithTypeGroups(m.goals, m.expandedState)

	if i := indexOfID(m.visibleItems, curID); i >= 0 {
		m.cursor = i
		return
	}
	if m.cursor >= len(m.visibleItems) {
		m.cursor = len(m.visibleItems) - 1
	}
	if m.cursor < 0 || (m.cursor < len(m.visibleItems) && m.visibleItems[m.cursor].IsSectionHeader) {
		m.cursor = firstSelectable(m.visibleItems)
	}
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(4 * time.Second)
}

func requestError(prefix string, err error) string {
	if errors.Is(err, companion.ErrStale) {
		return "Request cancelled"
	}
	return prefix + ": " + err.Error()
}
