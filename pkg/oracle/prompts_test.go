package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stefanpenner/unfold/pkg/store"
)

func TestGoalPrompt(t *testing.T) {
	profile := store.Profile{Name: "Sylvia", Pace: store.PaceSlow, Priority: "health", Blockers: []string{"fatigue", "noise"}}

	p := GoalPrompt("run a marathon", profile)
	assert.Contains(t, p, `Sylvia said: "run a marathon"`)
	assert.Contains(t, p, "Pace: slow, Focus: health")
	assert.Contains(t, p, "fatigue, noise")
	assert.Contains(t, p, "LONG_TERM")
	assert.Contains(t, p, "JSON")
}

func TestGoalPromptWithoutFocus(t *testing.T) {
	p := GoalPrompt("sleep more", store.Profile{Pace: store.PaceBalanced})
	assert.Contains(t, p, "the user said")
	assert.Contains(t, p, "Focus: none given")
	assert.NotContains(t, p, "get in the way")
}

func TestReflectionPromptListsEveryGoal(t *testing.T) {
	goals := []store.Goal{
		{Title: "Run", Progress: 33},
		{Title: "Write", Progress: 100},
	}
	p := ReflectionPrompt(goals, store.Profile{Name: "Sylvia", Pace: store.PaceIntense})
	assert.Contains(t, p, "Active goals: Run (33%), Write (100%).")
	assert.Contains(t, p, "pace of intense")
}

func TestSystemPromptUsesName(t *testing.T) {
	assert.Contains(t, SystemPrompt(store.Profile{Name: "Ada"}), "companion for Ada")
}
