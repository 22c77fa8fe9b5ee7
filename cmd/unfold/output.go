package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/stefanpenner/unfold/pkg/store"
)

var (
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusColor(s store.GoalStatus) string {
	switch s {
	case store.StatusFlowing:
		return green(string(s))
	case store.StatusPaused, store.StatusResting:
		return yellow(string(s))
	default:
		return string(s)
	}
}

func progressBar(pct, width int) string {
	filled := pct * width / 100
	return green(strings.Repeat("█", filled)) + faint(strings.Repeat("░", width-filled))
}

// printGoalLine prints one row of `unfold list`.
func printGoalLine(w io.Writer, index int, g store.Goal) {
	mark := "○"
	if g.IsBloomed() {
		mark = green("✿")
	}
	fmt.Fprintf(w, "%3d. %s %s %s  %s %3d%%  %s\n",
		index, mark, faint(shortID(g.ID)), bold(g.Title),
		progressBar(g.Progress, 10), g.Progress, statusColor(g.Status))
}

func printGoal(w io.Writer, g store.Goal) {
	fmt.Fprintf(w, "%s %s\n", cyan(g.Title), faint("("+g.ID+")"))
	fmt.Fprintf(w, "  %s · %s · planted %s\n", g.Type.Label(), statusColor(g.Status), g.CreatedAt.Local().Format("Jan 2, 2006"))
	if g.Description != "" {
		fmt.Fprintf(w, "\n  %s\n", g.Description)
	}
	fmt.Fprintf(w, "\n  %s %d%% (%d/%d)\n", progressBar(g.Progress, 20), g.Progress, g.CompletedCount(), len(g.Milestones))
	if len(g.Milestones) == 0 {
		fmt.Fprintf(w, "  %s\n", faint("no milestones"))
		return
	}
	fmt.Fprintln(w)
	for i, m := range g.Milestones {
		box := "[ ]"
		text := m.Text
		if m.Completed {
			box = green("[x]")
			text = faint(text)
		}
		fmt.Fprintf(w, "  %2d. %s %s\n", i+1, box, text)
	}
}

func printProfile(w io.Writer, p store.Profile) {
	fmt.Fprintf(w, "%s %s\n", cyan("Name:"), p.Name)
	fmt.Fprintf(w, "%s %s %s\n", cyan("Pace:"), p.Pace.Label(), faint("("+string(p.Pace)+")"))
	if p.Priority != "" {
		fmt.Fprintf(w, "%s %s\n", cyan("Focus:"), p.Priority)
	}
	if len(p.Blockers) > 0 {
		fmt.Fprintf(w, "%s %s\n", cyan("Blockers:"), strings.Join(p.Blockers, ", "))
	}
}
