package tui

import (
	"github.com/stefanpenner/unfold/pkg/store"
)

// Section header ids.
const (
	headerDirections  = "__header_directions"
	headerFocusPoints = "__header_focus"
)

// ListItem is one row of the goal list: a section header, a goal, or a
// milestone of an expanded goal.
type ListItem struct {
	ID              string // goal id, or "<goal id>/<milestone id>" for milestones
	ParentID        string
	Name            string
	Goal            *store.Goal
	Milestone       *store.Milestone // set for milestone rows
	Depth           int
	HasChildren     bool
	IsExpanded      bool
	IsSectionHeader bool // true for "DIRECTIONS" and "FOCUS POINTS"
}

// IsMilestone reports whether the row is a milestone.
func (i ListItem) IsMilestone() bool {
	return i.Milestone != nil
}

// FlattenWithTypeGroups lists long-term goals under DIRECTIONS and short-term
// goals under FOCUS POINTS, keeping collection order inside each group.
// Expanded goals are followed by their milestones.
func FlattenWithTypeGroups(goals []store.Goal, expandedState map[string]bool) []ListItem {
	var directions, focus []store.Goal
	for _, g := range goals {
		if g.IsLongTerm() {
			directions = append(directions, g)
		} else {
			focus = append(focus, g)
		}
	}

	var result []ListItem

	if len(directions) > 0 {
		result = append(result, ListItem{
			ID:              headerDirections,
			Name:            "DIRECTIONS",
			IsSectionHeader: true,
			Goal:            &store.Goal{},
		})
		flattenGoals(directions, headerDirections, expandedState, &result)
	}

	if len(focus) > 0 {
		result = append(result, ListItem{
			ID:              headerFocusPoints,
			Name:            "FOCUS POINTS",
			IsSectionHeader: true,
			Goal:            &store.Goal{},
		})
		flattenGoals(focus, headerFocusPoints, expandedState, &result)
	}

	return result
}

func flattenGoals(goals []store.Goal, parentID string, expandedState map[string]bool, result *[]ListItem) {
	for i := range goals {
		g := &goals[i]
		item := ListItem{
			ID:          g.ID,
			ParentID:    parentID,
			Name:        g.Title,
			Goal:        g,
			Depth:       1,
			HasChildren: len(g.Milestones) > 0,
			IsExpanded:  expandedState[g.ID],
		}
		*result = append(*result, item)

		if item.HasChildren && item.IsExpanded {
			for j := range g.Milestones {
				ms := &g.Milestones[j]
				*result = append(*result, ListItem{
					ID:        g.ID + "/" + ms.ID,
					ParentID:  g.ID,
					Name:      ms.Text,
					Goal:      g,
					Milestone: ms,
					Depth:     2,
				})
			}
		}
	}
}

// indexOfID returns the row with the given id, or -1.
func indexOfID(items []ListItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// firstSelectable returns the first row that is not a section header.
func firstSelectable(items []ListItem) int {
	for i, item := range items {
		if !item.IsSectionHeader {
			return i
		}
	}
	return 0
}
