package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/unfold/pkg/store"
)

func sampleGoals() []store.Goal {
	return []store.Goal{
		{ID: "s1", Title: "Stretch daily", Type: store.TypeShortTerm, Status: store.StatusActive},
		{ID: "l1", Title: "Live gently", Type: store.TypeLongTerm, Status: store.StatusActive, Progress: 50,
			Milestones: []store.Milestone{{ID: "m1", Text: "Slow mornings", Completed: true}, {ID: "m2", Text: "No-phone evenings"}}},
		{ID: "s2", Title: "Read one book", Type: store.TypeShortTerm, Status: store.StatusResting},
		{ID: "l2", Title: "Write a novel", Type: store.TypeLongTerm, Status: store.StatusActive},
	}
}

func ids(items []ListItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestFlattenWithTypeGroups(t *testing.T) {
	items := FlattenWithTypeGroups(sampleGoals(), map[string]bool{})

	assert.Equal(t, []string{headerDirections, "l1", "l2", headerFocusPoints, "s1", "s2"}, ids(items))
	assert.True(t, items[0].IsSectionHeader)
	assert.Equal(t, "DIRECTIONS", items[0].Name)
	assert.Equal(t, "FOCUS POINTS", items[3].Name)
	assert.True(t, items[1].HasChildren)
	assert.False(t, items[1].IsExpanded)
	assert.Equal(t, headerDirections, items[1].ParentID)
}

func TestFlattenExpandedShowsMilestones(t *testing.T) {
	items := FlattenWithTypeGroups(sampleGoals(), map[string]bool{"l1": true})

	assert.Equal(t, []string{headerDirections, "l1", "l1/m1", "l1/m2", "l2", headerFocusPoints, "s1", "s2"}, ids(items))

	ms := items[2]
	require.True(t, ms.IsMilestone())
	assert.Equal(t, "Slow mornings", ms.Name)
	assert.Equal(t, "l1", ms.ParentID)
	assert.Equal(t, "l1", ms.Goal.ID)
	assert.True(t, ms.Milestone.Completed)
	assert.Equal(t, 2, ms.Depth)
}

func TestFlattenOmitsEmptyGroups(t *testing.T) {
	goals := []store.Goal{{ID: "s1", Title: "Stretch", Type: store.TypeShortTerm}}
	items := FlattenWithTypeGroups(goals, nil)
	assert.Equal(t, []string{headerFocusPoints, "s1"}, ids(items))

	assert.Empty(t, FlattenWithTypeGroups(nil, nil))
}

func TestFirstSelectable(t *testing.T) {
	items := FlattenWithTypeGroups(sampleGoals(), nil)
	assert.Equal(t, 1, firstSelectable(items))
	assert.Equal(t, 0, firstSelectable(nil))
	assert.Equal(t, 4, indexOfID(items, "s1"))
	assert.Equal(t, -1, indexOfID(items, "nope"))
}
