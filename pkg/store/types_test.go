package store

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func counter() func() string {
	n := 0
	return func() string {
		n++
		return "m" + strconv.Itoa(n)
	}
}

func TestNewGoalDefaults(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	g := NewGoal(Proposal{}, "g1", now, counter())

	assert.Equal(t, "g1", g.ID)
	assert.Equal(t, DefaultGoalTitle, g.Title)
	assert.Equal(t, "", g.Description)
	assert.Equal(t, TypeShortTerm, g.Type)
	assert.Equal(t, StatusActive, g.Status)
	assert.Equal(t, 0, g.Progress)
	assert.Equal(t, now, g.CreatedAt)
	assert.NotNil(t, g.Milestones)
	assert.Empty(t, g.Milestones)
	assert.NotNil(t, g.ConnectedGoalIDs)
	assert.Empty(t, g.ConnectedGoalIDs)
}

func TestNewGoalFromFullProposal(t *testing.T) {
	p := Proposal{
		Title:       "  Learn piano ",
		Description: "Play a song for my sister",
		Type:        "LONG_TERM",
		Milestones:  []string{"Buy a keyboard", "  ", "Learn scales"},
	}
	g := NewGoal(p, "g1", time.Now(), counter())

	assert.Equal(t, "Learn piano", g.Title)
	assert.Equal(t, TypeLongTerm, g.Type)
	if assert.Len(t, g.Milestones, 2) {
		assert.Equal(t, Milestone{ID: "m1", Text: "Buy a keyboard"}, g.Milestones[0])
		assert.Equal(t, Milestone{ID: "m2", Text: "Learn scales"}, g.Milestones[1])
	}
}

func TestNewGoalUnknownTypeFallsBack(t *testing.T) {
	g := NewGoal(Proposal{Type: "someday"}, "g1", time.Now(), counter())
	assert.Equal(t, TypeShortTerm, g.Type)
}

func TestParseEnums(t *testing.T) {
	typ, ok := ParseGoalType("SHORT_TERM")
	assert.True(t, ok)
	assert.Equal(t, TypeShortTerm, typ)

	typ, ok = ParseGoalType("long-term")
	assert.True(t, ok)
	assert.Equal(t, TypeLongTerm, typ)

	_, ok = ParseGoalType("")
	assert.False(t, ok)

	pace, err := ParsePace("Intense")
	assert.NoError(t, err)
	assert.Equal(t, PaceIntense, pace)
	_, err = ParsePace("sprint")
	assert.Error(t, err)

	status, err := ParseGoalStatus("PAUSED")
	assert.NoError(t, err)
	assert.Equal(t, StatusPaused, status)
	_, err = ParseGoalStatus("done")
	assert.Error(t, err)
}

func TestStatusNextCycles(t *testing.T) {
	assert.Equal(t, StatusResting, StatusActive.Next())
	assert.Equal(t, StatusActive, StatusPaused.Next())
	assert.Equal(t, StatusActive, GoalStatus("bogus").Next())
}
