package oracle

import (
	"fmt"
	"strings"

	"github.com/stefanpenner/unfold/pkg/store"
)

// SystemPrompt is the persona every request is sent with.
func SystemPrompt(profile store.Profile) string {
	name := displayName(profile)

	var b strings.Builder
	fmt.Fprintf(&b, "You are \"Unfold\", a deeply personalized goal companion for %s.\n", name)
	b.WriteString("Your tone is calm, reflective, intentional, and non-judgmental.\n")
	b.WriteString("Avoid aggressive motivation, hype, or corporate language.\n")
	b.WriteString("Use words like 'alignment', 'unfolding', 'steady', 'rhythm', and 'direction'.\n")
	fmt.Fprintf(&b, "You treat %s with immense respect for their emotional energy.\n", name)
	b.WriteString("When they share a goal, you help classify it and break it down into emotionally manageable steps.")
	return b.String()
}

// GoalPrompt asks for a JSON proposal for the given intention.
func GoalPrompt(intention string, profile store.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s said: %q.\n", displayName(profile), intention)
	fmt.Fprintf(&b, "Based on their profile (Pace: %s, Focus: %s)", profile.Pace, orNone(profile.Priority))
	if len(profile.Blockers) > 0 {
		fmt.Fprintf(&b, ", mindful of what tends to get in the way (%s)", strings.Join(profile.Blockers, ", "))
	}
	b.WriteString(", classify this goal and break it down.\n\n")

	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString("{\n")
	b.WriteString(`  "title": "short title",` + "\n")
	b.WriteString(`  "description": "one or two sentences",` + "\n")
	b.WriteString(`  "type": "SHORT_TERM" or "LONG_TERM",` + "\n")
	b.WriteString(`  "milestones": [{"text": "a small, concrete step"}]` + "\n")
	b.WriteString("}\n")
	b.WriteString("Use LONG_TERM for life directions that take months or years, SHORT_TERM for focus points.")
	return b.String()
}

// ReflectionPrompt asks for a prose reflection over every goal.
func ReflectionPrompt(goals []store.Goal, profile store.Profile) string {
	listed := make([]string, len(goals))
	for i, g := range goals {
		listed[i] = fmt.Sprintf("%s (%d%%)", g.Title, g.Progress)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Review %s's week. Active goals: %s.\n", displayName(profile), strings.Join(listed, ", "))
	b.WriteString("Write a reflection that focuses on awareness and alignment, not just \"productivity\".\n")
	fmt.Fprintf(&b, "Acknowledge their pace of %s.", profile.Pace)
	return b.String()
}

func displayName(p store.Profile) string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return "the user"
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none given"
	}
	return s
}
