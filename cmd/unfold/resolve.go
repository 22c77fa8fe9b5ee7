package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stefanpenner/unfold/pkg/store"
)

// resolveGoal finds a goal by full id, unique id prefix or 1-based index into
// the collection (newest first, as `unfold list` numbers them). A number that
// is a valid index is read as one; otherwise it is tried as an id prefix.
func resolveGoal(goals []store.Goal, arg string) (store.Goal, error) {
	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	i, err := resolve(ids, arg, "goal")
	if err != nil {
		return store.Goal{}, err
	}
	return goals[i], nil
}

// resolveMilestone does the same for a milestone of g.
func resolveMilestone(g store.Goal, arg string) (store.Milestone, error) {
	ids := make([]string, len(g.Milestones))
	for i, m := range g.Milestones {
		ids[i] = m.ID
	}
	i, err := resolve(ids, arg, "milestone")
	if err != nil {
		return store.Milestone{}, err
	}
	return g.Milestones[i], nil
}

func resolve(ids []string, arg, what string) (int, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return -1, fmt.Errorf("%s argument is empty", what)
	}

	for i, id := range ids {
		if id == arg {
			return i, nil
		}
	}

	// Short numbers in range are indexes; everything else is tried as a prefix
	var indexErr error
	if n, err := strconv.Atoi(arg); err == nil && len(arg) <= 4 {
		if n >= 1 && n <= len(ids) {
			return n - 1, nil
		}
		indexErr = fmt.Errorf("%s index %d out of range (1-%d)", what, n, len(ids))
	}

	match := -1
	for i, id := range ids {
		if strings.HasPrefix(id, arg) {
			if match >= 0 {
				return -1, fmt.Errorf("%s prefix %q is ambiguous", what, arg)
			}
			match = i
		}
	}
	if match < 0 {
		if indexErr != nil {
			return -1, indexErr
		}
		return -1, fmt.Errorf("%s not found: %s", what, arg)
	}
	return match, nil
}
