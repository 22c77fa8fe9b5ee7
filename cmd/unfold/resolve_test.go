package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/unfold/pkg/store"
)

func TestResolveGoal(t *testing.T) {
	goals := []store.Goal{
		{ID: "ab12-0001", Title: "First"},
		{ID: "ab12-0002", Title: "Second"},
		{ID: "cd34-0003", Title: "Third"},
	}

	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr string
	}{
		{name: "full id", arg: "ab12-0002", want: "Second"},
		{name: "unique prefix", arg: "cd", want: "Third"},
		{name: "index", arg: "1", want: "First"},
		{name: "index with spaces", arg: " 3 ", want: "Third"},
		{name: "ambiguous prefix", arg: "ab12", wantErr: "ambiguous"},
		{name: "index out of range", arg: "4", wantErr: "out of range"},
		{name: "zero index", arg: "0", wantErr: "out of range"},
		{name: "unknown", arg: "zz", wantErr: "not found"},
		{name: "empty", arg: "", wantErr: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := resolveGoal(goals, tt.arg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Title)
		})
	}
}

func TestResolveGoalLongNumericIDIsNotAnIndex(t *testing.T) {
	goals := []store.Goal{{ID: "123456", Title: "Numeric"}}

	g, err := resolveGoal(goals, "12345")
	require.NoError(t, err)
	assert.Equal(t, "Numeric", g.Title)
}

func TestResolveGoalNumericPrefixOutsideIndexRange(t *testing.T) {
	goals := []store.Goal{
		{ID: "1234abcd-0001", Title: "Numeric prefix"},
		{ID: "ef56-0002", Title: "Other"},
	}

	g, err := resolveGoal(goals, "1234")
	require.NoError(t, err)
	assert.Equal(t, "Numeric prefix", g.Title)

	g, err = resolveGoal(goals, "2")
	require.NoError(t, err)
	assert.Equal(t, "Other", g.Title, "an index in range wins over a prefix")

	_, err = resolveGoal(goals, "99")
	assert.ErrorContains(t, err, "goal index 99 out of range (1-2)")
}

func TestResolveMilestone(t *testing.T) {
	g := store.Goal{Milestones: []store.Milestone{
		{ID: "m-1", Text: "Outline"},
		{ID: "m-2", Text: "Draft"},
	}}

	m, err := resolveMilestone(g, "2")
	require.NoError(t, err)
	assert.Equal(t, "Draft", m.Text)

	m, err = resolveMilestone(g, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "Outline", m.Text)

	_, err = resolveMilestone(store.Goal{}, "1")
	assert.ErrorContains(t, err, "milestone index 1 out of range")
}
