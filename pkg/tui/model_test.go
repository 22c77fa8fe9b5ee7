package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/unfold/pkg/companion"
	"github.com/stefanpenner/unfold/pkg/store"
)

type stubOracle struct {
	proposal   store.Proposal
	reflection string
	err        error
}

func (s stubOracle) ProposeGoal(context.Context, string, store.Profile) (store.Proposal, error) {
	return s.proposal, s.err
}

func (s stubOracle) ProposeReflection(context.Context, []store.Goal, store.Profile) (string, error) {
	return s.reflection, s.err
}

func newTestModel(t *testing.T, o stubOracle, onboarded bool) (Model, *store.Store) {
	t.Helper()
	s := store.Open(store.NewMemoryKV())
	if onboarded {
		s.SetProfile(store.Profile{Name: "Sylvia", Pace: store.PaceBalanced, Onboarded: true})
	}
	c := companion.New(s, o, store.NewJournal(t.TempDir()))
	return NewModel(c), s
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// runRequest executes a request command and returns the result message it
// produced, skipping spinner ticks.
func runRequest(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return msg
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		switch r := c().(type) {
		case GoalPlantedMsg, ReflectionMsg:
			return r
		}
	}
	t.Fatal("no request result in batch")
	return nil
}

func TestModelStartsWithOnboarding(t *testing.T) {
	m, s := newTestModel(t, stubOracle{}, false)
	require.NotNil(t, m.onboarding)

	m, _ = send(t, m,
		keyPress("enter"),
		keyPress("Ada"),
		keyPress("enter"),
		keyPress("down"),
		keyPress("enter"),
		keyPress("rest"),
		keyPress("enter"),
		keyPress("noise, fatigue"),
		keyPress("enter"),
	)

	assert.Nil(t, m.onboarding)
	p, ok := s.Profile()
	require.True(t, ok)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, store.PaceIntense, p.Pace)
	assert.Equal(t, "rest", p.Priority)
	assert.Equal(t, []string{"noise", "fatigue"}, p.Blockers)
	assert.True(t, p.Onboarded)
}

func TestModelSkipsOnboardingWithProfile(t *testing.T) {
	m, _ := newTestModel(t, stubOracle{}, true)
	assert.Nil(t, m.onboarding)
	assert.Contains(t, m.View(), "Unfold, Sylvia.")
}

func TestModelToggleMilestone(t *testing.T) {
	m, s := newTestModel(t, stubOracle{}, true)
	g := s.CreateGoalFromProposal(store.Proposal{Title: "Live gently", Type: store.TypeLongTerm, Milestones: []string{"a", "b"}})
	m, _ = send(t, m, FileChangedMsg{})

	// Cursor starts on the first goal, not the header
	item, ok := m.selectedItem()
	require.True(t, ok)
	assert.Equal(t, g.ID, item.ID)

	m, _ = send(t, m, keyPress("right"), keyPress("down"), keyPress(" "))

	got, _ := s.Goal(g.ID)
	assert.True(t, got.Milestones[0].Completed)
	assert.Equal(t, 50, got.Progress)

	// Toggling again restores it
	m, _ = send(t, m, keyPress(" "))
	got, _ = s.Goal(g.ID)
	assert.False(t, got.Milestones[0].Completed)
	assert.Equal(t, 0, got.Progress)

	// left from a milestone returns to its goal
	m, _ = send(t, m, keyPress("left"))
	item, _ = m.selectedItem()
	assert.Equal(t, g.ID, item.ID)
}

func TestModelPlantGoal(t *testing.T) {
	o := stubOracle{proposal: store.Proposal{Title: "Run a 10k", Milestones: []string{"Shoes"}}}
	m, s := newTestModel(t, o, true)

	m, _ = send(t, m, keyPress("a"))
	assert.True(t, m.isInputMode)

	m, cmd := send(t, m, keyPress("run more"), keyPress("enter"))
	assert.False(t, m.isInputMode)
	assert.Equal(t, companion.KindGoal, m.waiting)

	m, _ = send(t, m, runRequest(t, cmd))
	assert.Equal(t, companion.Kind(""), m.waiting)

	goals := s.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, "Run a 10k", goals[0].Title)

	item, ok := m.selectedItem()
	require.True(t, ok)
	assert.Equal(t, goals[0].ID, item.ID)
	assert.True(t, item.IsExpanded)
}

func TestModelIgnoresEmptyIntention(t *testing.T) {
	m, s := newTestModel(t, stubOracle{}, true)

	m, cmd := send(t, m, keyPress("a"), keyPress("   "), keyPress("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, companion.Kind(""), m.waiting)
	assert.Empty(t, s.Goals())
}

func TestModelCancelledResultIsIgnored(t *testing.T) {
	o := stubOracle{proposal: store.Proposal{Title: "late"}}
	m, _ := newTestModel(t, o, true)

	m, cmd := send(t, m, keyPress("a"), keyPress("x"), keyPress("enter"))
	require.NotNil(t, cmd)
	stale := GoalPlantedMsg{Seq: m.requestSeq, Goal: store.Goal{ID: "late"}}

	m, _ = send(t, m, keyPress("esc"))
	assert.Equal(t, companion.Kind(""), m.waiting)

	m, _ = send(t, m, stale)
	assert.Equal(t, -1, indexOfID(m.visibleItems, "late"))
}

func TestModelReflectRequiresGoals(t *testing.T) {
	m, _ := newTestModel(t, stubOracle{reflection: "steady"}, true)

	m, cmd := send(t, m, keyPress("r"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Plant an intention first", m.statusMsg)
}

func TestModelReflectAndSave(t *testing.T) {
	m, s := newTestModel(t, stubOracle{reflection: "A steady week."}, true)
	s.CreateGoalFromProposal(store.Proposal{Title: "Run"})
	m, _ = send(t, m, FileChangedMsg{})

	m, cmd := send(t, m, keyPress("r"))
	assert.Equal(t, companion.KindReflection, m.waiting)
	m, _ = send(t, m, runRequest(t, cmd))

	r, ok := m.companion.Reflection()
	require.True(t, ok)
	assert.Equal(t, "A steady week.", r.Content)

	m, _ = send(t, m, keyPress("w"))
	r, _ = m.companion.Reflection()
	assert.FileExists(t, r.FilePath)

	m, _ = send(t, m, keyPress("x"))
	_, ok = m.companion.Reflection()
	assert.False(t, ok)
}

func TestModelCycleStatusAndDelete(t *testing.T) {
	m, s := newTestModel(t, stubOracle{}, true)
	g := s.CreateGoalFromProposal(store.Proposal{Title: "Run"})
	m, _ = send(t, m, FileChangedMsg{})

	m, _ = send(t, m, keyPress("s"))
	got, _ := s.Goal(g.ID)
	assert.Equal(t, store.StatusResting, got.Status)

	m, _ = send(t, m, keyPress("d"))
	assert.True(t, m.showDeleteConfirm)
	m, _ = send(t, m, keyPress("n"))
	assert.Len(t, s.Goals(), 1)

	m, _ = send(t, m, keyPress("d"), keyPress("y"))
	assert.Empty(t, s.Goals())
	assert.Empty(t, m.visibleItems)
}

func TestModelNetworkView(t *testing.T) {
	m, s := newTestModel(t, stubOracle{}, true)
	s.CreateGoalFromProposal(store.Proposal{Title: "Live gently", Type: store.TypeLongTerm})
	s.CreateGoalFromProposal(store.Proposal{Title: "Stretch"})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = send(t, m, keyPress("n"))
	assert.True(t, m.showNetwork)
	view := m.View()
	assert.Contains(t, view, "The Unfolding Path")
	assert.Contains(t, view, "Harmony")

	m, _ = send(t, m, keyPress("esc"))
	assert.False(t, m.showNetwork)
}

type brokenKV struct{ *store.MemoryKV }

func (brokenKV) Set(string, string) error { return errors.New("disk full") }

func TestReloadKeyKeepsUnsavedSession(t *testing.T) {
	s := store.Open(brokenKV{store.NewMemoryKV()})
	s.SetProfile(store.Profile{Name: "Sylvia", Pace: store.PaceBalanced, Onboarded: true})
	s.CreateGoalFromProposal(store.Proposal{Title: "Unsaved", Milestones: []string{"a"}})
	m := NewModel(companion.New(s, stubOracle{}, store.NewJournal(t.TempDir())))

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}, keyPress("R"))

	assert.Contains(t, m.statusMsg, "Not reloaded")
	assert.True(t, s.HasProfile())
	require.Len(t, s.Goals(), 1)
	assert.Contains(t, itemNames(m), "Unsaved")

	m, _ = send(t, m, FileChangedMsg{})
	require.Len(t, s.Goals(), 1)
	assert.Contains(t, itemNames(m), "Unsaved")
}

func itemNames(m Model) []string {
	var names []string
	for _, item := range m.visibleItems {
		names = append(names, item.Name)
	}
	return names
}
